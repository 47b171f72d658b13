package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/apatti/hyroxtrainer/internal/models"
	"github.com/apatti/hyroxtrainer/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListPrograms(ctx context.Context) ([]models.Program, error)
	GetProgram(ctx context.Context, id uuid.UUID) (*models.Program, error)
	ListWorkoutsByProgram(ctx context.Context, programID uuid.UUID) ([]models.Workout, error)
	ListWorkoutsByDateRange(ctx context.Context, start, end models.Date, programID *uuid.UUID) ([]models.Workout, error)
	ListExercises(ctx context.Context, workoutID uuid.UUID) ([]models.Exercise, error)
	ListWorkoutResults(ctx context.Context, workoutID *uuid.UUID, limit int) ([]models.WorkoutResult, error)
	ListWorkoutResultsSince(ctx context.Context, since time.Time) ([]models.WorkoutResult, error)
	ExerciseHistory(ctx context.Context, name string, limit int) ([]models.ExerciseHistoryEntry, error)
	ListPersonalRecords(ctx context.Context, exerciseType *models.ExerciseType) ([]models.PersonalRecord, error)
	ListRaceResults(ctx context.Context) ([]models.RaceResult, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
