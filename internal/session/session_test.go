package session

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/apatti/hyroxtrainer/internal/models"
)

// TestMain verifies no goroutines (e.g. database/sql openers) outlive the tests.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ptr[T any](v T) *T { return &v }

var t0 = time.Date(2024, time.March, 4, 18, 0, 0, 0, time.UTC)

func fixture() (models.Workout, []models.Exercise) {
	w := models.Workout{ID: uuid.New(), Title: "Station Circuit", DayNumber: 3}
	exs := []models.Exercise{
		{ID: uuid.New(), WorkoutID: w.ID, ExerciseOrder: 1, ExerciseName: "SkiErg", ExerciseType: models.ExerciseSkiErg, Distance: ptr("1000m")},
		{ID: uuid.New(), WorkoutID: w.ID, ExerciseOrder: 2, ExerciseName: "Back Squat", ExerciseType: models.ExerciseStrength, Sets: ptr(5), Reps: ptr("5"), Weight: ptr("80kg")},
		{ID: uuid.New(), WorkoutID: w.ID, ExerciseOrder: 3, ExerciseName: "Wall Balls", ExerciseType: models.ExerciseWallBalls, Reps: ptr("100")},
	}
	return w, exs
}

func validInput() CompleteInput {
	return CompleteInput{PerceivedEffort: ptr(7), Feeling: models.FeelingGood}
}

// TestSession_CompleteBeforeStart verifies completing a not-started session is rejected.
func TestSession_CompleteBeforeStart(t *testing.T) {
	w, exs := fixture()
	s := New(w, exs)

	_, err := s.Complete(t0, validInput())

	var ise *InvalidStateError
	require.True(t, errors.As(err, &ise), "error = %v, want *InvalidStateError", err)
	assert.Equal(t, "complete", ise.Op)
	assert.Equal(t, StateNotStarted, ise.State)
	assert.ErrorIs(t, err, ErrInvalidState)
}

// TestSession_Transitions checks every operation against every state.
func TestSession_Transitions(t *testing.T) {
	w, exs := fixture()
	started := func() *Session {
		s := New(w, exs)
		require.NoError(t, s.Start(t0))
		return s
	}
	completed := func() *Session {
		s := started()
		_, err := s.Complete(t0.Add(time.Minute), validInput())
		require.NoError(t, err)
		return s
	}
	abandoned := func() *Session {
		s := started()
		require.NoError(t, s.Abandon())
		return s
	}

	cases := []struct {
		name    string
		session func() *Session
		op      func(*Session) error
		wantErr bool
	}{
		{"start twice", started, func(s *Session) error { return s.Start(t0) }, true},
		{"update before start", func() *Session { return New(w, exs) }, func(s *Session) error { return s.Update(exs[0].ID, EntryUpdate{}) }, true},
		{"abandon before start", func() *Session { return New(w, exs) }, func(s *Session) error { return s.Abandon() }, true},
		{"update after complete", completed, func(s *Session) error { return s.Update(exs[0].ID, EntryUpdate{}) }, true},
		{"abandon after complete", completed, func(s *Session) error { return s.Abandon() }, true},
		{"complete after abandon", abandoned, func(s *Session) error { _, err := s.Complete(t0, validInput()); return err }, true},
		{"start after abandon", abandoned, func(s *Session) error { return s.Start(t0) }, true},
		{"abandon in progress", started, func(s *Session) error { return s.Abandon() }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.op(tc.session())
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidState)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestSession_StartSeedsTargets verifies entries start with the plan's targets and untouched.
func TestSession_StartSeedsTargets(t *testing.T) {
	w, exs := fixture()
	s := New(w, exs)
	require.NoError(t, s.Start(t0))

	require.Len(t, s.Entries, 3)
	squat := s.Entries[exs[1].ID]
	assert.Equal(t, 5, *squat.SetsCompleted)
	assert.Equal(t, "5", *squat.RepsCompleted)
	assert.Equal(t, "80kg", *squat.WeightUsed)
	assert.False(t, squat.Completed)
	assert.False(t, squat.Touched)
	assert.Equal(t, StateInProgress, s.State)
	assert.Equal(t, t0, s.StartedAt)
}

// TestSession_UpdateUnknownExercise rejects ids outside the workout.
func TestSession_UpdateUnknownExercise(t *testing.T) {
	w, exs := fixture()
	s := New(w, exs)
	require.NoError(t, s.Start(t0))

	err := s.Update(uuid.New(), EntryUpdate{Completed: ptr(true)})
	assert.ErrorIs(t, err, ErrUnknownExercise)
}

// TestSession_UpdateLeavesNilFieldsUnchanged verifies partial updates.
func TestSession_UpdateLeavesNilFieldsUnchanged(t *testing.T) {
	w, exs := fixture()
	s := New(w, exs)
	require.NoError(t, s.Start(t0))

	require.NoError(t, s.Update(exs[1].ID, EntryUpdate{WeightUsed: ptr("85kg")}))
	require.NoError(t, s.Update(exs[1].ID, EntryUpdate{Completed: ptr(true)}))

	e := s.Entries[exs[1].ID]
	assert.Equal(t, "85kg", *e.WeightUsed)
	assert.Equal(t, 5, *e.SetsCompleted)
	assert.True(t, e.Completed)
	assert.True(t, e.Touched)

	done, total := s.Progress()
	assert.Equal(t, 1, done)
	assert.Equal(t, 3, total)
}

// TestSession_CompleteEndToEnd verifies the duration comes from the wall clock and that
// every planned exercise yields exactly one result, with null fields when untouched.
func TestSession_CompleteEndToEnd(t *testing.T) {
	w, exs := fixture()
	s := New(w, exs)
	require.NoError(t, s.Start(t0))

	require.NoError(t, s.Update(exs[2].ID, EntryUpdate{RepsCompleted: ptr("100"), TimeSeconds: ptr(310), Completed: ptr(true)}))
	require.NoError(t, s.Update(exs[0].ID, EntryUpdate{TimeSeconds: ptr(245), Completed: ptr(true)}))

	end := t0.Add(41*time.Minute + 12*time.Second + 900*time.Millisecond)
	assert.Equal(t, 41*time.Minute+12*time.Second+900*time.Millisecond, s.Elapsed(end))

	in := validInput()
	in.HeartRateAvg = ptr(152)
	in.Notes = "legs heavy on lunges"
	out, err := s.Complete(end, in)
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, s.State)
	assert.Equal(t, s.ID, out.Result.ID)
	assert.Equal(t, w.ID, out.Result.WorkoutID)
	require.NotNil(t, out.Result.TotalDurationSeconds)
	assert.Equal(t, 2472, *out.Result.TotalDurationSeconds)
	assert.Equal(t, 7, *out.Result.PerceivedEffort)
	assert.Equal(t, models.FeelingGood, *out.Result.Feeling)
	assert.Equal(t, 152, *out.Result.HeartRateAvg)
	assert.Nil(t, out.Result.HeartRateMax)
	assert.Equal(t, "legs heavy on lunges", *out.Result.Notes)
	assert.Equal(t, end, out.Result.CompletedAt)

	require.Len(t, out.Exercises, 3)
	for i, r := range out.Exercises {
		assert.Equal(t, exs[i].ID, r.ExerciseID, "results must follow planned order")
	}
	assert.Equal(t, 245, *out.Exercises[0].TimeSeconds)

	untouched := out.Exercises[1]
	assert.Nil(t, untouched.SetsCompleted)
	assert.Nil(t, untouched.RepsCompleted)
	assert.Nil(t, untouched.WeightUsed)
	assert.Nil(t, untouched.TimeSeconds)
	assert.Nil(t, untouched.DistanceCompleted)
	assert.Nil(t, untouched.Notes)

	assert.Equal(t, "100", *out.Exercises[2].RepsCompleted)
}

// TestSession_CompleteValidation checks the required and ranged completion inputs.
func TestSession_CompleteValidation(t *testing.T) {
	cases := []struct {
		name string
		in   CompleteInput
		want string
	}{
		{"missing effort", CompleteInput{Feeling: models.FeelingGood}, "perceived_effort is required"},
		{"effort too high", CompleteInput{PerceivedEffort: ptr(11), Feeling: models.FeelingGood}, "perceived_effort must be at most 10"},
		{"effort zero", CompleteInput{PerceivedEffort: ptr(0), Feeling: models.FeelingGood}, "perceived_effort must be at least 1"},
		{"missing feeling", CompleteInput{PerceivedEffort: ptr(5)}, "feeling is required"},
		{"unknown feeling", CompleteInput{PerceivedEffort: ptr(5), Feeling: "meh"}, "feeling must be one of"},
		{"heart rate out of range", CompleteInput{PerceivedEffort: ptr(5), Feeling: models.FeelingOkay, HeartRateMax: ptr(300)}, "heart_rate_max must be at most 250"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, exs := fixture()
			s := New(w, exs)
			require.NoError(t, s.Start(t0))

			_, err := s.Complete(t0.Add(time.Minute), tc.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tc.want)
			assert.Equal(t, StateInProgress, s.State, "failed completion must not change state")
		})
	}
}

// TestSession_ClockSkewNeverNegative verifies a completion time before the start yields zero.
func TestSession_ClockSkewNeverNegative(t *testing.T) {
	w, exs := fixture()
	s := New(w, exs)
	require.NoError(t, s.Start(t0))

	out, err := s.Complete(t0.Add(-time.Second), validInput())
	require.NoError(t, err)
	assert.Equal(t, 0, *out.Result.TotalDurationSeconds)
}

// TestSession_AbandonDiscardsEntries verifies no logged data survives abandonment.
func TestSession_AbandonDiscardsEntries(t *testing.T) {
	w, exs := fixture()
	s := New(w, exs)
	require.NoError(t, s.Start(t0))
	require.NoError(t, s.Update(exs[0].ID, EntryUpdate{Completed: ptr(true)}))

	require.NoError(t, s.Abandon())
	assert.Equal(t, StateAbandoned, s.State)
	assert.Empty(t, s.Entries)
}
