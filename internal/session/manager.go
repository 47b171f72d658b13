package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/apatti/hyroxtrainer/internal/models"
	"github.com/apatti/hyroxtrainer/internal/validate"
)

var (
	// ErrSessionActive is returned when starting a session while another is in progress.
	ErrSessionActive = errors.New("a workout session is already in progress")
	// ErrNoActiveSession is returned when there is no session to act on. It also matches
	// ErrInvalidState, since a missing session is one that was never started.
	ErrNoActiveSession error = noActiveSessionError{}
)

type noActiveSessionError struct{}

func (noActiveSessionError) Error() string { return "no workout session in progress" }

func (noActiveSessionError) Is(target error) bool { return target == ErrInvalidState }

// Store keeps the single active session between requests. Active returns nil, nil when there
// is none.
type Store interface {
	Active(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context) error
}

// ResultRecorder persists a completed workout and its exercise results.
type ResultRecorder interface {
	RecordWorkoutResult(ctx context.Context, result models.WorkoutResult, exercises []models.ExerciseResult) (*models.WorkoutResult, error)
}

// Manager enforces that at most one session is active and moves it through its lifecycle.
type Manager struct {
	mu       sync.Mutex
	store    Store
	recorder ResultRecorder
	now      func() time.Time
	log      *slog.Logger
}

// NewManager creates a Manager over store that hands completed sessions to recorder.
func NewManager(store Store, recorder ResultRecorder, logger *slog.Logger) *Manager {
	return &Manager{store: store, recorder: recorder, now: time.Now, log: logger}
}

// Current returns the active session.
func (m *Manager) Current(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active(ctx)
}

func (m *Manager) active(ctx context.Context) (*Session, error) {
	s, err := m.store.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading active session: %w", err)
	}
	if s == nil {
		return nil, ErrNoActiveSession
	}
	return s, nil
}

// Start begins a session for workout. It fails with ErrSessionActive if one is already running.
func (m *Manager) Start(ctx context.Context, workout models.Workout, exercises []models.Exercise) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, err := m.store.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading active session: %w", err)
	}
	if existing != nil {
		return nil, ErrSessionActive
	}

	s := New(workout, exercises)
	if err := s.Start(m.now()); err != nil {
		return nil, err
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	m.log.Info("workout session started", "session", s.ID, "workout", workout.ID, "exercises", len(exercises))
	return s, nil
}

// Update changes one exercise entry of the active session.
func (m *Manager) Update(ctx context.Context, exerciseID uuid.UUID, u EntryUpdate) (*Session, error) {
	if err := validate.Struct(u); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.active(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Update(exerciseID, u); err != nil {
		return nil, err
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return s, nil
}

// Complete finishes the active session and records its results under the session's ID. If
// recording fails the session stays in progress so the athlete can retry; the retry carries the
// same result ID, so the recorder can tell it apart from a new workout.
func (m *Manager) Complete(ctx context.Context, in CompleteInput) (*models.WorkoutResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.active(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.Clone().Complete(m.now(), in)
	if err != nil {
		return nil, err
	}

	saved, err := m.recorder.RecordWorkoutResult(ctx, out.Result, out.Exercises)
	if err != nil {
		m.log.Error("recording workout result", "session", s.ID, "error", err)
		return nil, fmt.Errorf("recording workout result: %w", err)
	}

	if err := m.store.Delete(ctx); err != nil {
		return nil, fmt.Errorf("clearing completed session: %w", err)
	}
	m.log.Info("workout session completed", "session", s.ID, "result", saved.ID,
		"duration_sec", derefInt(saved.TotalDurationSeconds))
	return saved, nil
}

// Abandon discards the active session without recording anything.
func (m *Manager) Abandon(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.active(ctx)
	if err != nil {
		return err
	}
	if err := s.Abandon(); err != nil {
		return err
	}
	if err := m.store.Delete(ctx); err != nil {
		return fmt.Errorf("clearing abandoned session: %w", err)
	}
	m.log.Info("workout session abandoned", "session", s.ID)
	return nil
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
