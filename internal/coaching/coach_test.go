package coaching

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/apatti/hyroxtrainer/internal/analytics"
	"github.com/apatti/hyroxtrainer/internal/models"
	"github.com/apatti/hyroxtrainer/internal/oracle"
)

func newCoach(t *testing.T) (*Coach, *oracle.MockCompleter) {
	ctrl := gomock.NewController(t)
	m := oracle.NewMockCompleter(ctrl)
	return New(m, slog.New(slog.NewTextHandler(io.Discard, nil))), m
}

// TestInsights_IncludesPayloadAndQuestion verifies the prompt carries the payload and question.
func TestInsights_IncludesPayloadAndQuestion(t *testing.T) {
	coach, m := newCoach(t)
	var got oracle.Request
	m.EXPECT().Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req oracle.Request) (string, error) {
			got = req
			return "  Strong month. Work on wall balls.  ", nil
		})

	payload := analytics.Payload{TotalWorkouts: 12, StreakDays: 3}
	text, err := coach.Insights(context.Background(), payload, "How are my sleds?")
	require.NoError(t, err)

	assert.Equal(t, "Strong month. Work on wall balls.", text)
	assert.Equal(t, systemPrompt, got.System)
	assert.False(t, got.JSON)
	assert.Contains(t, got.Prompt, `"total_workouts": 12`)
	assert.Contains(t, got.Prompt, "User Question: How are my sleds?")
}

// TestInsights_WithoutQuestion asks for a general analysis.
func TestInsights_WithoutQuestion(t *testing.T) {
	coach, m := newCoach(t)
	m.EXPECT().Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req oracle.Request) (string, error) {
			assert.Contains(t, req.Prompt, "general analysis")
			assert.NotContains(t, req.Prompt, "User Question")
			return "ok", nil
		})

	_, err := coach.Insights(context.Background(), analytics.Payload{}, "  ")
	require.NoError(t, err)
}

// TestCoach_BlankResponse verifies an empty narrative is a malformed response.
func TestCoach_BlankResponse(t *testing.T) {
	coach, m := newCoach(t)
	m.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(" \n ", nil)

	_, err := coach.RaceAnalysis(context.Background(), models.RaceResult{TotalTimeSeconds: 5400}, nil)
	assert.ErrorIs(t, err, oracle.ErrMalformedResponse)
}

// TestCoach_TimeoutPropagates verifies oracle timeouts reach the caller unchanged.
func TestCoach_TimeoutPropagates(t *testing.T) {
	coach, m := newCoach(t)
	m.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("", &oracle.TimeoutError{After: time.Minute})

	_, err := coach.WorkoutGuidance(context.Background(), models.Workout{Title: "Engine"}, nil, nil)
	assert.ErrorIs(t, err, oracle.ErrTimeout)
}

// TestRaceAnalysis_IncludesSplits verifies the split breakdown is part of the prompt.
func TestRaceAnalysis_IncludesSplits(t *testing.T) {
	coach, m := newCoach(t)
	m.EXPECT().Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req oracle.Request) (string, error) {
			assert.Contains(t, req.Prompt, "Split Breakdown")
			assert.Contains(t, req.Prompt, `"fastest_station"`)
			assert.Contains(t, req.Prompt, "Recent Training History")
			return "analysis", nil
		})

	ski := 250
	race := models.RaceResult{ID: uuid.New(), TotalTimeSeconds: 5400, SkiErgTime: &ski, Division: models.DivisionOpen}
	_, err := coach.RaceAnalysis(context.Background(), race, &analytics.Payload{TotalWorkouts: 3})
	require.NoError(t, err)
}

// TestReviewProgram_IncludesDistribution verifies the program review payload.
func TestReviewProgram_IncludesDistribution(t *testing.T) {
	coach, m := newCoach(t)
	m.EXPECT().Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req oracle.Request) (string, error) {
			assert.Contains(t, req.Prompt, `"workout_types"`)
			assert.Contains(t, req.Prompt, `"total_days": 2`)
			return "review", nil
		})

	ws := []models.Workout{
		{DayNumber: 1, WorkoutType: models.WorkoutRunning},
		{DayNumber: 2, WorkoutType: models.WorkoutStrength},
	}
	text, err := coach.ReviewProgram(context.Background(), models.Program{Name: "8 weeks"}, ws)
	require.NoError(t, err)
	assert.Equal(t, "review", text)
}
