package storage

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write collides with a uniqueness rule,
	// e.g. two workouts on the same program day.
	ErrConflict = errors.New("conflicts with an existing record")
	// ErrConstraint is returned when a write violates a reference or check constraint.
	ErrConstraint = errors.New("violates a data constraint")
)

// PersistenceError wraps every failure of the gateway with the operation that failed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// PartialSaveError reports a plan save that stopped part way. The program row and the first
// WorkoutsSaved workouts (with their exercises) remain stored. IncompleteWorkoutID, when set,
// names a workout row that was stored without its exercises.
type PartialSaveError struct {
	ProgramID           uuid.UUID
	WorkoutsSaved       int
	IncompleteWorkoutID uuid.UUID
	Err                 error
}

func (e *PartialSaveError) Error() string {
	if e.IncompleteWorkoutID != uuid.Nil {
		return fmt.Sprintf("plan partially saved (program %s, %d workouts, workout %s missing exercises): %v",
			e.ProgramID, e.WorkoutsSaved, e.IncompleteWorkoutID, e.Err)
	}
	return fmt.Sprintf("plan partially saved (program %s, %d workouts): %v", e.ProgramID, e.WorkoutsSaved, e.Err)
}

func (e *PartialSaveError) Unwrap() error { return e.Err }

// Postgres error codes mapped onto sentinels.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &PersistenceError{Op: op, Err: ErrNotFound}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &PersistenceError{Op: op, Err: fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)}
		case pgForeignKeyViolation, pgCheckViolation, pgNotNullViolation:
			return &PersistenceError{Op: op, Err: fmt.Errorf("%w: %s", ErrConstraint, pgErr.Message)}
		}
	}
	return &PersistenceError{Op: op, Err: err}
}
