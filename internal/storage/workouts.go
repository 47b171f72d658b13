package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/apatti/hyroxtrainer/internal/models"
)

const workoutColumns = `id, program_id, day_number, week_number, scheduled_date, title, workout_type, description, created_at`

// CreateWorkout inserts one scheduled day of a program.
func (db *DB) CreateWorkout(ctx context.Context, w models.Workout) (*models.Workout, error) {
	row := db.Pool.QueryRow(ctx,
		`INSERT INTO workouts (program_id, day_number, week_number, scheduled_date, title, workout_type, description)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 RETURNING `+workoutColumns,
		w.ProgramID, w.DayNumber, w.WeekNumber, models.DatePtr(w.ScheduledDate),
		w.Title, string(w.WorkoutType), w.Description)
	out, err := scanWorkout(row)
	if err != nil {
		return nil, wrapErr("create workout", err)
	}
	return out, nil
}

// GetWorkout retrieves a workout by ID.
func (db *DB) GetWorkout(ctx context.Context, id uuid.UUID) (*models.Workout, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE id = $1`, id)
	out, err := scanWorkout(row)
	if err != nil {
		return nil, wrapErr("get workout", err)
	}
	return out, nil
}

// ListWorkoutsByProgram returns a program's workouts in day order.
func (db *DB) ListWorkoutsByProgram(ctx context.Context, programID uuid.UUID) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+workoutColumns+` FROM workouts
		 WHERE program_id = $1
		 ORDER BY day_number ASC`, programID)
	if err != nil {
		return nil, wrapErr("list workouts by program", err)
	}
	defer rows.Close()

	result, err := scanWorkoutRows(rows)
	return result, wrapErr("list workouts by program", err)
}

// ListWorkoutsByDateRange returns workouts scheduled within [start, end], both inclusive,
// optionally restricted to one program. Unscheduled workouts never match.
func (db *DB) ListWorkoutsByDateRange(ctx context.Context, start, end models.Date, programID *uuid.UUID) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+workoutColumns+` FROM workouts
		 WHERE scheduled_date >= $1 AND scheduled_date <= $2
		   AND ($3::uuid IS NULL OR program_id = $3)
		 ORDER BY scheduled_date ASC, day_number ASC`,
		start.Time(), end.Time(), programID)
	if err != nil {
		return nil, wrapErr("list workouts by date range", err)
	}
	defer rows.Close()

	result, err := scanWorkoutRows(rows)
	return result, wrapErr("list workouts by date range", err)
}

// TodaysWorkouts returns the workouts scheduled on the given day, across all programs unless
// programID is set.
func (db *DB) TodaysWorkouts(ctx context.Context, today models.Date, programID *uuid.UUID) ([]models.Workout, error) {
	return db.ListWorkoutsByDateRange(ctx, today, today, programID)
}

func scanWorkout(row scanner) (*models.Workout, error) {
	var (
		w         models.Workout
		scheduled *time.Time
		wtype     string
	)
	if err := row.Scan(&w.ID, &w.ProgramID, &w.DayNumber, &w.WeekNumber, &scheduled,
		&w.Title, &wtype, &w.Description, &w.CreatedAt); err != nil {
		return nil, err
	}
	w.ScheduledDate = models.DateFromPtr(scheduled)
	w.WorkoutType = models.WorkoutType(wtype)
	return &w, nil
}

func scanWorkoutRows(rows pgx.Rows) ([]models.Workout, error) {
	result := []models.Workout{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, *w)
	}
	return result, rows.Err()
}
