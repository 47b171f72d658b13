package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/apatti/hyroxtrainer/internal/models"
)

const resultColumns = `id, workout_id, total_duration_seconds, perceived_effort, heart_rate_avg, heart_rate_max, feeling, notes, completed_at`

const exerciseResultColumns = `id, workout_result_id, exercise_id, sets_completed, reps_completed, weight_used, time_seconds, distance_completed, notes, created_at`

const exerciseResultInsertColumns = 9

// CreateWorkoutResult inserts a workout result. A zero CompletedAt means now. A nil ID gets a
// fresh one. Inserting an ID that already exists returns the stored row unchanged.
func (db *DB) CreateWorkoutResult(ctx context.Context, r models.WorkoutResult) (*models.WorkoutResult, error) {
	query, args := workoutResultInsert(r)
	out, err := scanWorkoutResult(db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapErr("create workout result", err)
	}
	return out, nil
}

// InsertExerciseResults batch-inserts the per-exercise results of one workout result.
// workoutID pins every row to the result's workout. Returns count inserted.
func (db *DB) InsertExerciseResults(ctx context.Context, workoutID uuid.UUID, results []models.ExerciseResult) (int64, error) {
	if len(results) == 0 {
		return 0, nil
	}
	query, args := exerciseResultInsert(workoutID, results)
	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, wrapErr("insert exercise results", err)
	}
	return tag.RowsAffected(), nil
}

// RecordWorkoutResult stores a completed session: the workout result first, then its
// exercise results in one batch. Both steps skip rows that already exist, so calling it again
// with the same result ID after a failure fills in only what is missing.
func (db *DB) RecordWorkoutResult(ctx context.Context, result models.WorkoutResult, exercises []models.ExerciseResult) (*models.WorkoutResult, error) {
	saved, err := db.CreateWorkoutResult(ctx, result)
	if err != nil {
		return nil, err
	}
	rows := make([]models.ExerciseResult, len(exercises))
	for i, e := range exercises {
		e.WorkoutResultID = saved.ID
		rows[i] = e
	}
	if _, err := db.InsertExerciseResults(ctx, saved.WorkoutID, rows); err != nil {
		return saved, err
	}
	return saved, nil
}

// ListWorkoutResultsSince returns results completed at or after since, newest first.
func (db *DB) ListWorkoutResultsSince(ctx context.Context, since time.Time) ([]models.WorkoutResult, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+resultColumns+` FROM workout_results
		 WHERE completed_at >= $1
		 ORDER BY completed_at DESC`, since)
	if err != nil {
		return nil, wrapErr("list workout results since", err)
	}
	defer rows.Close()

	result := []models.WorkoutResult{}
	for rows.Next() {
		r, err := scanWorkoutResult(rows)
		if err != nil {
			return nil, wrapErr("list workout results since", fmt.Errorf("scanning workout result: %w", err))
		}
		result = append(result, *r)
	}
	return result, wrapErr("list workout results since", rows.Err())
}

// ListWorkoutResults returns the most recent results, optionally for a single workout.
// A limit of zero or less means no limit.
func (db *DB) ListWorkoutResults(ctx context.Context, workoutID *uuid.UUID, limit int) ([]models.WorkoutResult, error) {
	var lim *int
	if limit > 0 {
		lim = &limit
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT `+resultColumns+` FROM workout_results
		 WHERE ($1::uuid IS NULL OR workout_id = $1)
		 ORDER BY completed_at DESC
		 LIMIT $2`, workoutID, lim)
	if err != nil {
		return nil, wrapErr("list workout results", err)
	}
	defer rows.Close()

	result := []models.WorkoutResult{}
	for rows.Next() {
		r, err := scanWorkoutResult(rows)
		if err != nil {
			return nil, wrapErr("list workout results", fmt.Errorf("scanning workout result: %w", err))
		}
		result = append(result, *r)
	}
	return result, wrapErr("list workout results", rows.Err())
}

// ListExerciseResults returns the exercise results recorded for a workout result, in the
// planned exercise order.
func (db *DB) ListExerciseResults(ctx context.Context, workoutResultID uuid.UUID) ([]models.ExerciseResult, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT er.id, er.workout_result_id, er.exercise_id, er.sets_completed, er.reps_completed,
		 er.weight_used, er.time_seconds, er.distance_completed, er.notes, er.created_at
		 FROM exercise_results er
		 JOIN exercises e ON e.id = er.exercise_id
		 WHERE er.workout_result_id = $1
		 ORDER BY e.exercise_order ASC`, workoutResultID)
	if err != nil {
		return nil, wrapErr("list exercise results", err)
	}
	defer rows.Close()

	result := []models.ExerciseResult{}
	for rows.Next() {
		var r models.ExerciseResult
		if err := rows.Scan(&r.ID, &r.WorkoutResultID, &r.ExerciseID, &r.SetsCompleted, &r.RepsCompleted,
			&r.WeightUsed, &r.TimeSeconds, &r.DistanceCompleted, &r.Notes, &r.CreatedAt); err != nil {
			return nil, wrapErr("list exercise results", fmt.Errorf("scanning exercise result: %w", err))
		}
		result = append(result, r)
	}
	return result, wrapErr("list exercise results", rows.Err())
}

// ExerciseHistory returns past results of exercises whose name contains name
// (case-insensitive), newest first.
func (db *DB) ExerciseHistory(ctx context.Context, name string, limit int) ([]models.ExerciseHistoryEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT er.id, er.workout_result_id, er.exercise_id, er.sets_completed, er.reps_completed,
		 er.weight_used, er.time_seconds, er.distance_completed, er.notes, er.created_at,
		 e.exercise_name, e.exercise_type, wr.completed_at
		 FROM exercise_results er
		 JOIN exercises e ON e.id = er.exercise_id
		 JOIN workout_results wr ON wr.id = er.workout_result_id
		 WHERE e.exercise_name ILIKE '%' || $1 || '%'
		 ORDER BY wr.completed_at DESC
		 LIMIT $2`, likeEscape(name), limit)
	if err != nil {
		return nil, wrapErr("exercise history", err)
	}
	defer rows.Close()

	result := []models.ExerciseHistoryEntry{}
	for rows.Next() {
		var (
			h     models.ExerciseHistoryEntry
			etype string
		)
		if err := rows.Scan(&h.ID, &h.WorkoutResultID, &h.ExerciseID, &h.SetsCompleted, &h.RepsCompleted,
			&h.WeightUsed, &h.TimeSeconds, &h.DistanceCompleted, &h.Notes, &h.CreatedAt,
			&h.ExerciseName, &etype, &h.CompletedAt); err != nil {
			return nil, wrapErr("exercise history", fmt.Errorf("scanning exercise history: %w", err))
		}
		h.ExerciseType = models.ExerciseType(etype)
		result = append(result, h)
	}
	return result, wrapErr("exercise history", rows.Err())
}

func workoutResultInsert(r models.WorkoutResult) (string, []any) {
	id := r.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	var completed *time.Time
	if !r.CompletedAt.IsZero() {
		completed = &r.CompletedAt
	}
	var feeling *string
	if r.Feeling != nil {
		f := string(*r.Feeling)
		feeling = &f
	}
	query := `WITH ins AS (
		 INSERT INTO workout_results (id, workout_id, total_duration_seconds, perceived_effort,
		  heart_rate_avg, heart_rate_max, feeling, notes, completed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,COALESCE($9, now()))
		 ON CONFLICT (id) DO NOTHING
		 RETURNING ` + resultColumns + `)
		 SELECT ` + resultColumns + ` FROM ins
		 UNION ALL
		 SELECT ` + resultColumns + ` FROM workout_results WHERE id = $1
		 LIMIT 1`
	return query, []any{id, r.WorkoutID, r.TotalDurationSeconds, r.PerceivedEffort,
		r.HeartRateAvg, r.HeartRateMax, feeling, r.Notes, completed}
}

func exerciseResultInsert(workoutID uuid.UUID, results []models.ExerciseResult) (string, []any) {
	query := `INSERT INTO exercise_results (workout_result_id, exercise_id, workout_id, sets_completed,
		reps_completed, weight_used, time_seconds, distance_completed, notes) VALUES `
	args := make([]any, 0, len(results)*exerciseResultInsertColumns)
	for _, r := range results {
		args = append(args, r.WorkoutResultID, r.ExerciseID, workoutID, r.SetsCompleted,
			r.RepsCompleted, r.WeightUsed, r.TimeSeconds, r.DistanceCompleted, r.Notes)
	}
	return query + valuesClause(len(results), exerciseResultInsertColumns) +
		` ON CONFLICT (workout_result_id, exercise_id) DO NOTHING`, args
}

func scanWorkoutResult(row scanner) (*models.WorkoutResult, error) {
	var (
		r       models.WorkoutResult
		feeling *string
	)
	if err := row.Scan(&r.ID, &r.WorkoutID, &r.TotalDurationSeconds, &r.PerceivedEffort,
		&r.HeartRateAvg, &r.HeartRateMax, &feeling, &r.Notes, &r.CompletedAt); err != nil {
		return nil, err
	}
	if feeling != nil {
		f := models.Feeling(*feeling)
		r.Feeling = &f
	}
	return &r, nil
}

// likeEscape escapes LIKE wildcards so the name matches literally.
func likeEscape(s string) string {
	r := make([]rune, 0, len(s))
	for _, c := range s {
		if c == '%' || c == '_' || c == '\\' {
			r = append(r, '\\')
		}
		r = append(r, c)
	}
	return string(r)
}
