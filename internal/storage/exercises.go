package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/apatti/hyroxtrainer/internal/models"
)

const exerciseColumns = `id, workout_id, exercise_order, exercise_name, exercise_type, sets, reps, weight, distance, duration, rest_period, notes`

const exerciseInsertColumns = 11

// CreateExercise inserts a single planned exercise.
func (db *DB) CreateExercise(ctx context.Context, e models.Exercise) (*models.Exercise, error) {
	query, args := exerciseInsert([]models.Exercise{e})
	row := db.Pool.QueryRow(ctx, query+" RETURNING "+exerciseColumns, args...)
	out, err := scanExercise(row)
	if err != nil {
		return nil, wrapErr("create exercise", err)
	}
	return out, nil
}

// InsertExercises batch-inserts planned exercises in one statement. Returns count inserted.
func (db *DB) InsertExercises(ctx context.Context, exercises []models.Exercise) (int64, error) {
	if len(exercises) == 0 {
		return 0, nil
	}
	query, args := exerciseInsert(exercises)
	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, wrapErr("insert exercises", err)
	}
	return tag.RowsAffected(), nil
}

// ListExercises returns a workout's exercises in prescribed order.
func (db *DB) ListExercises(ctx context.Context, workoutID uuid.UUID) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+exerciseColumns+` FROM exercises
		 WHERE workout_id = $1
		 ORDER BY exercise_order ASC`, workoutID)
	if err != nil {
		return nil, wrapErr("list exercises", err)
	}
	defer rows.Close()

	result := []models.Exercise{}
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, wrapErr("list exercises", fmt.Errorf("scanning exercise: %w", err))
		}
		result = append(result, *e)
	}
	return result, wrapErr("list exercises", rows.Err())
}

func exerciseInsert(exercises []models.Exercise) (string, []any) {
	query := `INSERT INTO exercises (workout_id, exercise_order, exercise_name, exercise_type,
		sets, reps, weight, distance, duration, rest_period, notes) VALUES `
	args := make([]any, 0, len(exercises)*exerciseInsertColumns)
	for _, e := range exercises {
		args = append(args, e.WorkoutID, e.ExerciseOrder, e.ExerciseName, string(e.ExerciseType),
			e.Sets, e.Reps, e.Weight, e.Distance, e.Duration, e.RestPeriod, e.Notes)
	}
	return query + valuesClause(len(exercises), exerciseInsertColumns), args
}

func scanExercise(row scanner) (*models.Exercise, error) {
	var (
		e     models.Exercise
		etype string
	)
	if err := row.Scan(&e.ID, &e.WorkoutID, &e.ExerciseOrder, &e.ExerciseName, &etype,
		&e.Sets, &e.Reps, &e.Weight, &e.Distance, &e.Duration, &e.RestPeriod, &e.Notes); err != nil {
		return nil, err
	}
	e.ExerciseType = models.ExerciseType(etype)
	return &e, nil
}
