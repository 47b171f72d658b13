package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/apatti/hyroxtrainer/internal/models"
)

const raceColumns = `id, race_date, race_location, division, total_time_seconds,
	skierg_time, sled_push_time, sled_pull_time, burpee_broad_jump_time,
	rowing_time, farmers_carry_time, sandbag_lunges_time, wall_balls_time,
	run_1_time, run_2_time, run_3_time, run_4_time, run_5_time, run_6_time, run_7_time, run_8_time,
	transitions_total_time, notes, created_at`

// CreateRaceResult inserts an official race result.
func (db *DB) CreateRaceResult(ctx context.Context, r models.RaceResult) (*models.RaceResult, error) {
	row := db.Pool.QueryRow(ctx,
		`INSERT INTO race_results (race_date, race_location, division, total_time_seconds,
		 skierg_time, sled_push_time, sled_pull_time, burpee_broad_jump_time,
		 rowing_time, farmers_carry_time, sandbag_lunges_time, wall_balls_time,
		 run_1_time, run_2_time, run_3_time, run_4_time, run_5_time, run_6_time, run_7_time, run_8_time,
		 transitions_total_time, notes)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
		 RETURNING `+raceColumns,
		r.RaceDate.Time(), r.RaceLocation, string(r.Division), r.TotalTimeSeconds,
		r.SkiErgTime, r.SledPushTime, r.SledPullTime, r.BurpeeBroadJumpTime,
		r.RowingTime, r.FarmersCarryTime, r.SandbagLungesTime, r.WallBallsTime,
		r.Run1Time, r.Run2Time, r.Run3Time, r.Run4Time, r.Run5Time, r.Run6Time, r.Run7Time, r.Run8Time,
		r.TransitionsTotalTime, r.Notes)
	out, err := scanRace(row)
	if err != nil {
		return nil, wrapErr("create race result", err)
	}
	return out, nil
}

// GetRaceResult retrieves a race result by ID.
func (db *DB) GetRaceResult(ctx context.Context, id uuid.UUID) (*models.RaceResult, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+raceColumns+` FROM race_results WHERE id = $1`, id)
	out, err := scanRace(row)
	if err != nil {
		return nil, wrapErr("get race result", err)
	}
	return out, nil
}

// ListRaceResults returns all race results, most recent race first.
func (db *DB) ListRaceResults(ctx context.Context) ([]models.RaceResult, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+raceColumns+` FROM race_results ORDER BY race_date DESC, created_at DESC`)
	if err != nil {
		return nil, wrapErr("list race results", err)
	}
	defer rows.Close()

	result := []models.RaceResult{}
	for rows.Next() {
		r, err := scanRace(rows)
		if err != nil {
			return nil, wrapErr("list race results", fmt.Errorf("scanning race result: %w", err))
		}
		result = append(result, *r)
	}
	return result, wrapErr("list race results", rows.Err())
}

func scanRace(row scanner) (*models.RaceResult, error) {
	var (
		r        models.RaceResult
		raceDate time.Time
		division string
	)
	if err := row.Scan(&r.ID, &raceDate, &r.RaceLocation, &division, &r.TotalTimeSeconds,
		&r.SkiErgTime, &r.SledPushTime, &r.SledPullTime, &r.BurpeeBroadJumpTime,
		&r.RowingTime, &r.FarmersCarryTime, &r.SandbagLungesTime, &r.WallBallsTime,
		&r.Run1Time, &r.Run2Time, &r.Run3Time, &r.Run4Time, &r.Run5Time, &r.Run6Time, &r.Run7Time, &r.Run8Time,
		&r.TransitionsTotalTime, &r.Notes, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.RaceDate = models.DateOf(raceDate)
	r.Division = models.Division(division)
	return &r, nil
}
