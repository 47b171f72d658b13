// Package session tracks a workout while it is being performed: which planned exercises have
// been logged, with what values, and the wall-clock time since the athlete pressed start.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/apatti/hyroxtrainer/internal/models"
	"github.com/apatti/hyroxtrainer/internal/validate"
)

// State is the lifecycle position of a Session.
type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateAbandoned  State = "abandoned"
)

var (
	// ErrInvalidState matches every *InvalidStateError.
	ErrInvalidState = errors.New("invalid session state")
	// ErrUnknownExercise is returned when an update names an exercise outside the workout.
	ErrUnknownExercise = errors.New("exercise is not part of this workout")
	// ErrInvalidInput matches every rejected update or completion input.
	ErrInvalidInput = validate.ErrInvalid
)

// InvalidStateError reports an operation attempted from a state that does not allow it.
type InvalidStateError struct {
	Op    string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s a session that is %s", e.Op, e.State)
}

func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }

// Entry is the athlete's log for one planned exercise. Sets, reps and weight start out as the
// plan's targets; nothing is recorded for an entry the athlete never touched.
type Entry struct {
	ExerciseID        uuid.UUID `json:"exercise_id"`
	SetsCompleted     *int      `json:"sets_completed"`
	RepsCompleted     *string   `json:"reps_completed"`
	WeightUsed        *string   `json:"weight_used"`
	TimeSeconds       *int      `json:"time_seconds"`
	DistanceCompleted *string   `json:"distance_completed"`
	Notes             *string   `json:"notes"`
	Completed         bool      `json:"completed"`
	Touched           bool      `json:"touched"`
}

// EntryUpdate carries the fields to change on one Entry; nil fields are left as they are.
type EntryUpdate struct {
	SetsCompleted     *int    `json:"sets_completed" validate:"omitempty,min=0"`
	RepsCompleted     *string `json:"reps_completed"`
	WeightUsed        *string `json:"weight_used"`
	TimeSeconds       *int    `json:"time_seconds" validate:"omitempty,min=0"`
	DistanceCompleted *string `json:"distance_completed"`
	Notes             *string `json:"notes"`
	Completed         *bool   `json:"completed"`
}

// CompleteInput is what the athlete reports when finishing a workout.
type CompleteInput struct {
	PerceivedEffort *int           `json:"perceived_effort" validate:"required,min=1,max=10"`
	Feeling         models.Feeling `json:"feeling" validate:"required,oneof=great good okay tired exhausted"`
	HeartRateAvg    *int           `json:"heart_rate_avg" validate:"omitempty,min=1,max=250"`
	HeartRateMax    *int           `json:"heart_rate_max" validate:"omitempty,min=1,max=250"`
	Notes           string         `json:"notes"`
}

// Outcome is the result of completing a session, ready to be persisted. ExerciseResults carry
// no WorkoutResultID until stored.
type Outcome struct {
	Result    models.WorkoutResult    `json:"result"`
	Exercises []models.ExerciseResult `json:"exercises"`
}

// Session is one attempt at a scheduled workout.
type Session struct {
	ID           uuid.UUID           `json:"id"`
	WorkoutID    uuid.UUID           `json:"workout_id"`
	WorkoutTitle string              `json:"workout_title"`
	State        State               `json:"state"`
	StartedAt    time.Time           `json:"started_at"`
	Exercises    []models.Exercise   `json:"exercises"`
	Entries      map[uuid.UUID]Entry `json:"entries"`
}

// New prepares a not-yet-started session for workout with its planned exercises.
func New(workout models.Workout, exercises []models.Exercise) *Session {
	planned := make([]models.Exercise, len(exercises))
	copy(planned, exercises)
	return &Session{
		ID:           uuid.New(),
		WorkoutID:    workout.ID,
		WorkoutTitle: workout.Title,
		State:        StateNotStarted,
		Exercises:    planned,
		Entries:      map[uuid.UUID]Entry{},
	}
}

// Start moves the session into progress at now and seeds one entry per planned exercise.
func (s *Session) Start(now time.Time) error {
	if s.State != StateNotStarted {
		return &InvalidStateError{Op: "start", State: s.State}
	}
	s.StartedAt = now
	s.Entries = make(map[uuid.UUID]Entry, len(s.Exercises))
	for _, ex := range s.Exercises {
		s.Entries[ex.ID] = Entry{
			ExerciseID:    ex.ID,
			SetsCompleted: ex.Sets,
			RepsCompleted: ex.Reps,
			WeightUsed:    ex.Weight,
		}
	}
	s.State = StateInProgress
	return nil
}

// Update applies u to the entry of one exercise.
func (s *Session) Update(exerciseID uuid.UUID, u EntryUpdate) error {
	if s.State != StateInProgress {
		return &InvalidStateError{Op: "update", State: s.State}
	}
	e, ok := s.Entries[exerciseID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownExercise, exerciseID)
	}
	if u.SetsCompleted != nil {
		e.SetsCompleted = u.SetsCompleted
	}
	if u.RepsCompleted != nil {
		e.RepsCompleted = u.RepsCompleted
	}
	if u.WeightUsed != nil {
		e.WeightUsed = u.WeightUsed
	}
	if u.TimeSeconds != nil {
		e.TimeSeconds = u.TimeSeconds
	}
	if u.DistanceCompleted != nil {
		e.DistanceCompleted = u.DistanceCompleted
	}
	if u.Notes != nil {
		e.Notes = u.Notes
	}
	if u.Completed != nil {
		e.Completed = *u.Completed
	}
	e.Touched = true
	s.Entries[exerciseID] = e
	return nil
}

// Elapsed returns the wall-clock time since the session started.
func (s *Session) Elapsed(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	if d := now.Sub(s.StartedAt); d > 0 {
		return d
	}
	return 0
}

// Complete finishes the session at now. The result takes the session's ID. The total duration
// is the wall-clock time since Start; one exercise result is produced for every planned
// exercise, in planned order.
func (s *Session) Complete(now time.Time, in CompleteInput) (*Outcome, error) {
	if s.State != StateInProgress {
		return nil, &InvalidStateError{Op: "complete", State: s.State}
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	duration := int(s.Elapsed(now) / time.Second)
	feeling := in.Feeling
	out := &Outcome{
		Result: models.WorkoutResult{
			ID:                   s.ID,
			WorkoutID:            s.WorkoutID,
			TotalDurationSeconds: &duration,
			PerceivedEffort:      in.PerceivedEffort,
			HeartRateAvg:         in.HeartRateAvg,
			HeartRateMax:         in.HeartRateMax,
			Feeling:              &feeling,
			Notes:                models.FreeText(in.Notes).Ptr(),
			CompletedAt:          now,
		},
		Exercises: make([]models.ExerciseResult, 0, len(s.Exercises)),
	}

	for _, ex := range s.Exercises {
		r := models.ExerciseResult{ExerciseID: ex.ID}
		if e, ok := s.Entries[ex.ID]; ok && e.Touched {
			r.SetsCompleted = e.SetsCompleted
			r.RepsCompleted = e.RepsCompleted
			r.WeightUsed = e.WeightUsed
			r.TimeSeconds = e.TimeSeconds
			r.DistanceCompleted = e.DistanceCompleted
			r.Notes = e.Notes
		}
		out.Exercises = append(out.Exercises, r)
	}

	s.State = StateCompleted
	return out, nil
}

// Abandon cancels a session in progress and discards everything logged.
func (s *Session) Abandon() error {
	if s.State != StateInProgress {
		return &InvalidStateError{Op: "abandon", State: s.State}
	}
	s.Entries = map[uuid.UUID]Entry{}
	s.State = StateAbandoned
	return nil
}

// Clone returns a copy of s that shares no mutable state with it.
func (s *Session) Clone() *Session {
	c := *s
	c.Exercises = make([]models.Exercise, len(s.Exercises))
	copy(c.Exercises, s.Exercises)
	c.Entries = make(map[uuid.UUID]Entry, len(s.Entries))
	for k, v := range s.Entries {
		c.Entries[k] = v
	}
	return &c
}

// Progress counts the entries marked completed.
func (s *Session) Progress() (done, total int) {
	for _, e := range s.Entries {
		if e.Completed {
			done++
		}
	}
	return done, len(s.Exercises)
}
