package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/apatti/hyroxtrainer/internal/analytics"
	"github.com/apatti/hyroxtrainer/internal/models"
)

// fakeSource is an in-memory DataSource that records the arguments it was called with.
type fakeSource struct {
	programs  []models.Program
	workouts  []models.Workout
	exercises map[uuid.UUID][]models.Exercise
	results   []models.WorkoutResult
	records   []models.PersonalRecord
	races     []models.RaceResult
	err       error

	gotStart, gotEnd models.Date
	gotSince         time.Time
	gotLimit         int
	gotType          *models.ExerciseType
}

func (f *fakeSource) ListPrograms(context.Context) ([]models.Program, error) {
	return f.programs, f.err
}

func (f *fakeSource) GetProgram(_ context.Context, id uuid.UUID) (*models.Program, error) {
	for _, p := range f.programs {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeSource) ListWorkoutsByProgram(_ context.Context, programID uuid.UUID) ([]models.Workout, error) {
	var out []models.Workout
	for _, w := range f.workouts {
		if w.ProgramID == programID {
			out = append(out, w)
		}
	}
	return out, f.err
}

func (f *fakeSource) ListWorkoutsByDateRange(_ context.Context, start, end models.Date, _ *uuid.UUID) ([]models.Workout, error) {
	f.gotStart, f.gotEnd = start, end
	return f.workouts, f.err
}

func (f *fakeSource) ListExercises(_ context.Context, workoutID uuid.UUID) ([]models.Exercise, error) {
	return f.exercises[workoutID], nil
}

func (f *fakeSource) ListWorkoutResults(_ context.Context, _ *uuid.UUID, limit int) ([]models.WorkoutResult, error) {
	f.gotLimit = limit
	return f.results, f.err
}

func (f *fakeSource) ListWorkoutResultsSince(_ context.Context, since time.Time) ([]models.WorkoutResult, error) {
	f.gotSince = since
	return f.results, f.err
}

func (f *fakeSource) ExerciseHistory(_ context.Context, _ string, limit int) ([]models.ExerciseHistoryEntry, error) {
	f.gotLimit = limit
	return nil, f.err
}

func (f *fakeSource) ListPersonalRecords(_ context.Context, exerciseType *models.ExerciseType) ([]models.PersonalRecord, error) {
	f.gotType = exerciseType
	return f.records, f.err
}

func (f *fakeSource) ListRaceResults(context.Context) ([]models.RaceResult, error) {
	return f.races, f.err
}

// testNow is Wednesday 2024-03-13, 18:00 UTC.
var testNow = time.Date(2024, 3, 13, 18, 0, 0, 0, time.UTC)

func newTestHandlers(ds DataSource) *handlers {
	h := newHandlers(ds, time.UTC, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.now = func() time.Time { return testNow }
	return h
}

func toolRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

// resultText returns the text of the first text content of a tool result.
func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	for _, c := range res.Content {
		switch tc := c.(type) {
		case mcp.TextContent:
			return tc.Text
		case *mcp.TextContent:
			return tc.Text
		}
	}
	t.Fatal("tool result has no text content")
	return ""
}

func decodeResult[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	var v T
	if err := json.Unmarshal([]byte(resultText(t, res)), &v); err != nil {
		t.Fatalf("decoding tool result: %v", err)
	}
	return v
}

// TestNewRegistersCapabilities verifies the server builds with every tool and resource.
func TestNewRegistersCapabilities(t *testing.T) {
	s := New(&fakeSource{}, "test", nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if s == nil {
		t.Fatal("New returned nil")
	}
}

// TestDateRange verifies the week-from-today default and explicit dates.
func TestDateRange(t *testing.T) {
	today := models.NewDate(2024, 3, 13)
	tests := []struct {
		start, end         string
		wantStart, wantEnd string
		wantErr            bool
	}{
		{"", "", "2024-03-13", "2024-03-19", false},
		{"2024-03-01", "", "2024-03-01", "2024-03-07", false},
		{"2024-03-01", "2024-03-31", "2024-03-01", "2024-03-31", false},
		{"2024-06-15T10:30:00Z", "", "2024-06-15", "2024-06-21", false},
		{"not-a-date", "", "", "", true},
		{"", "31/03/2024", "", "", true},
	}
	for _, tt := range tests {
		start, end, err := dateRange(tt.start, tt.end, today)
		if (err != nil) != tt.wantErr {
			t.Errorf("dateRange(%q, %q) error = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if start.String() != tt.wantStart || end.String() != tt.wantEnd {
			t.Errorf("dateRange(%q, %q) = %s..%s, want %s..%s", tt.start, tt.end, start, end, tt.wantStart, tt.wantEnd)
		}
	}
}

// TestGetProgramSchedule verifies the schedule carries each workout's exercises.
func TestGetProgramSchedule(t *testing.T) {
	programID := uuid.New()
	w1, w2 := uuid.New(), uuid.New()
	ds := &fakeSource{
		programs: []models.Program{{ID: programID, Name: "Hyrox 12 Week"}},
		workouts: []models.Workout{
			{ID: w1, ProgramID: programID, DayNumber: 1, Title: "Run intervals"},
			{ID: w2, ProgramID: programID, DayNumber: 2, Title: "Stations"},
		},
		exercises: map[uuid.UUID][]models.Exercise{
			w2: {{ExerciseName: "SkiErg"}, {ExerciseName: "Sled Push"}},
		},
	}
	h := newTestHandlers(ds)

	res, err := h.getProgramSchedule(context.Background(), toolRequest(map[string]any{"program_id": programID.String()}))
	if err != nil {
		t.Fatal(err)
	}
	got := decodeResult[struct {
		Program  models.Program     `json:"program"`
		Workouts []scheduledWorkout `json:"workouts"`
	}](t, res)

	if got.Program.Name != "Hyrox 12 Week" {
		t.Errorf("program name = %q, want Hyrox 12 Week", got.Program.Name)
	}
	if len(got.Workouts) != 2 {
		t.Fatalf("got %d workouts, want 2", len(got.Workouts))
	}
	if n := len(got.Workouts[1].Exercises); n != 2 {
		t.Errorf("workout 2 has %d exercises, want 2", n)
	}
}

// TestGetProgramScheduleBadID verifies missing and malformed IDs are tool errors, not Go errors.
func TestGetProgramScheduleBadID(t *testing.T) {
	h := newTestHandlers(&fakeSource{})
	for _, args := range []map[string]any{{}, {"program_id": "nope"}} {
		res, err := h.getProgramSchedule(context.Background(), toolRequest(args))
		if err != nil {
			t.Fatalf("getProgramSchedule(%v) returned Go error %v", args, err)
		}
		if !res.IsError {
			t.Errorf("getProgramSchedule(%v) IsError = false, want true", args)
		}
	}
}

// TestGetWorkoutsDefaultsToThisWeek verifies the default window and the end-before-start check.
func TestGetWorkoutsDefaultsToThisWeek(t *testing.T) {
	ds := &fakeSource{}
	h := newTestHandlers(ds)

	res, err := h.getWorkouts(context.Background(), toolRequest(nil))
	if err != nil || res.IsError {
		t.Fatalf("getWorkouts() = %v, %v", res, err)
	}
	if ds.gotStart.String() != "2024-03-13" || ds.gotEnd.String() != "2024-03-19" {
		t.Errorf("range = %s..%s, want 2024-03-13..2024-03-19", ds.gotStart, ds.gotEnd)
	}

	res, _ = h.getWorkouts(context.Background(), toolRequest(map[string]any{"start": "2024-03-10", "end": "2024-03-01"}))
	if !res.IsError {
		t.Error("getWorkouts(end before start) IsError = false, want true")
	}
}

// TestGetWorkoutResultsLimit verifies the default limit and rejection of negative limits.
func TestGetWorkoutResultsLimit(t *testing.T) {
	ds := &fakeSource{}
	h := newTestHandlers(ds)

	if _, err := h.getWorkoutResults(context.Background(), toolRequest(nil)); err != nil {
		t.Fatal(err)
	}
	if ds.gotLimit != defaultResultsLimit {
		t.Errorf("limit = %d, want %d", ds.gotLimit, defaultResultsLimit)
	}

	res, _ := h.getWorkoutResults(context.Background(), toolRequest(map[string]any{"limit": -1}))
	if !res.IsError {
		t.Error("getWorkoutResults(limit=-1) IsError = false, want true")
	}
}

// TestGetTrainingDashboard verifies the window start and the dashboard totals.
func TestGetTrainingDashboard(t *testing.T) {
	mins := 45 * 60
	ds := &fakeSource{
		results: []models.WorkoutResult{
			{TotalDurationSeconds: &mins, CompletedAt: testNow.Add(-time.Hour)},
			{TotalDurationSeconds: &mins, CompletedAt: testNow.Add(-25 * time.Hour)},
		},
	}
	h := newTestHandlers(ds)

	res, err := h.getTrainingDashboard(context.Background(), toolRequest(map[string]any{"days": 7}))
	if err != nil {
		t.Fatal(err)
	}
	got := decodeResult[analytics.Dashboard](t, res)

	wantSince := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	if !ds.gotSince.Equal(wantSince) {
		t.Errorf("since = %v, want %v", ds.gotSince, wantSince)
	}
	if got.Summary.TotalWorkouts != 2 {
		t.Errorf("total workouts = %d, want 2", got.Summary.TotalWorkouts)
	}
	if got.Streak != 2 {
		t.Errorf("streak = %d, want 2", got.Streak)
	}
}

// TestGetTrainingDashboardAllTime verifies days=0 lists every result without a limit.
func TestGetTrainingDashboardAllTime(t *testing.T) {
	ds := &fakeSource{gotLimit: -1}
	h := newTestHandlers(ds)

	res, err := h.getTrainingDashboard(context.Background(), toolRequest(map[string]any{"days": 0}))
	if err != nil || res.IsError {
		t.Fatalf("getTrainingDashboard(days=0) = %v, %v", res, err)
	}
	if ds.gotLimit != 0 {
		t.Errorf("limit = %d, want 0", ds.gotLimit)
	}
	if !ds.gotSince.IsZero() {
		t.Errorf("since = %v, want unset", ds.gotSince)
	}
}

// TestGetPersonalRecordsCanonicalizesType verifies loose exercise type spellings are normalized.
func TestGetPersonalRecordsCanonicalizesType(t *testing.T) {
	ds := &fakeSource{}
	h := newTestHandlers(ds)

	if _, err := h.getPersonalRecords(context.Background(), toolRequest(map[string]any{"exercise_type": " WALL_BALLS "})); err != nil {
		t.Fatal(err)
	}
	if ds.gotType == nil || *ds.gotType != "wall_balls" {
		t.Errorf("exercise type filter = %v, want wall_balls", ds.gotType)
	}
}

// TestGetRaceResultsIncludesSplits verifies each race is returned with its breakdown.
func TestGetRaceResultsIncludesSplits(t *testing.T) {
	ski, run1 := 270, 240
	ds := &fakeSource{races: []models.RaceResult{{
		RaceDate:         models.NewDate(2024, 2, 10),
		Division:         "open",
		TotalTimeSeconds: 5400,
		SkiErgTime:       &ski,
		Run1Time:         &run1,
	}}}
	h := newTestHandlers(ds)

	res, err := h.getRaceResults(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	got := decodeResult[[]raceWithSplits](t, res)
	if len(got) != 1 {
		t.Fatalf("got %d races, want 1", len(got))
	}
	if n := len(got[0].Breakdown.Splits); n != 2 {
		t.Errorf("got %d splits, want 2", n)
	}
}

// TestQueryFailureIsToolError verifies data source errors become tool errors.
func TestQueryFailureIsToolError(t *testing.T) {
	h := newTestHandlers(&fakeSource{err: errors.New("connection refused")})

	res, err := h.listPrograms(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError || !strings.Contains(resultText(t, res), "connection refused") {
		t.Errorf("listPrograms() = %+v, want tool error mentioning the cause", res)
	}
}

// TestTodayResource verifies the today resource asks for today only and tags the JSON with its URI.
func TestTodayResource(t *testing.T) {
	ds := &fakeSource{workouts: []models.Workout{{ID: uuid.New(), Title: "Easy run"}}}
	h := newTestHandlers(ds)

	var req mcp.ReadResourceRequest
	req.Params.URI = "hyroxtrainer://today"
	contents, err := h.todaysPlan(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if ds.gotStart.String() != "2024-03-13" || !ds.gotEnd.Equal(ds.gotStart) {
		t.Errorf("range = %s..%s, want 2024-03-13 only", ds.gotStart, ds.gotEnd)
	}
	if len(contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents[0] is %T, want TextResourceContents", contents[0])
	}
	if tc.URI != "hyroxtrainer://today" || !strings.Contains(tc.Text, "Easy run") {
		t.Errorf("today resource = %+v", tc)
	}
}

// TestRecentResultsResource verifies the two-week window.
func TestRecentResultsResource(t *testing.T) {
	ds := &fakeSource{}
	h := newTestHandlers(ds)

	var req mcp.ReadResourceRequest
	req.Params.URI = "hyroxtrainer://recent_results"
	if _, err := h.recentResults(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	if !ds.gotSince.Equal(want) {
		t.Errorf("since = %v, want %v", ds.gotSince, want)
	}
}
