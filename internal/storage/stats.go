package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate counts over everything stored.
type DataStats struct {
	TotalPrograms  int64             `json:"total_programs"`
	TotalWorkouts  int64             `json:"total_workouts"`
	TotalResults   int64             `json:"total_results"`
	TotalRecords   int64             `json:"total_personal_records"`
	TotalRaces     int64             `json:"total_races"`
	FirstCompleted *time.Time        `json:"first_completed_at"`
	LastCompleted  *time.Time        `json:"last_completed_at"`
	ResultsByType  []WorkoutTypeStat `json:"results_by_workout_type"`
}

// WorkoutTypeStat summarises completed sessions of one workout type.
type WorkoutTypeStat struct {
	WorkoutType   string `json:"workout_type"`
	Count         int64  `json:"count"`
	TotalDuration int64  `json:"total_duration_seconds"`
}

// GetDataStats returns aggregate statistics over all stored data.
func (db *DB) GetDataStats(ctx context.Context) (*DataStats, error) {
	stats := &DataStats{ResultsByType: []WorkoutTypeStat{}}

	err := db.Pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM programs),
			(SELECT COUNT(*) FROM workouts),
			(SELECT COUNT(*) FROM workout_results),
			(SELECT COUNT(*) FROM personal_records),
			(SELECT COUNT(*) FROM race_results),
			(SELECT MIN(completed_at) FROM workout_results),
			(SELECT MAX(completed_at) FROM workout_results)`,
	).Scan(&stats.TotalPrograms, &stats.TotalWorkouts, &stats.TotalResults,
		&stats.TotalRecords, &stats.TotalRaces, &stats.FirstCompleted, &stats.LastCompleted)
	if err != nil {
		return nil, wrapErr("data stats", fmt.Errorf("counting rows: %w", err))
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT w.workout_type, COUNT(*), COALESCE(SUM(r.total_duration_seconds), 0)
		 FROM workout_results r
		 JOIN workouts w ON w.id = r.workout_id
		 GROUP BY w.workout_type
		 ORDER BY COUNT(*) DESC, w.workout_type ASC`)
	if err != nil {
		return nil, wrapErr("data stats", fmt.Errorf("querying results by type: %w", err))
	}
	defer rows.Close()

	for rows.Next() {
		var s WorkoutTypeStat
		if err := rows.Scan(&s.WorkoutType, &s.Count, &s.TotalDuration); err != nil {
			return nil, wrapErr("data stats", fmt.Errorf("scanning workout type stat: %w", err))
		}
		stats.ResultsByType = append(stats.ResultsByType, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("data stats", err)
	}
	return stats, nil
}
