package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/apatti/hyroxtrainer/internal/models"
)

// HTTPClient implements DataSource by calling the hyroxtrainer REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. apiKey is sent as
// X-API-Key when non-empty.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

// getJSON fetches path and decodes the body into v; what names the payload in errors.
func (c *HTTPClient) getJSON(ctx context.Context, path string, params url.Values, what string, v any) error {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", what, err)
	}
	return nil
}

func (c *HTTPClient) ListPrograms(ctx context.Context) ([]models.Program, error) {
	var programs []models.Program
	if err := c.getJSON(ctx, "/api/v1/programs", nil, "programs", &programs); err != nil {
		return nil, err
	}
	return programs, nil
}

func (c *HTTPClient) GetProgram(ctx context.Context, id uuid.UUID) (*models.Program, error) {
	var p models.Program
	if err := c.getJSON(ctx, "/api/v1/programs/"+id.String(), nil, "program", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) ListWorkoutsByProgram(ctx context.Context, programID uuid.UUID) ([]models.Workout, error) {
	var workouts []models.Workout
	if err := c.getJSON(ctx, "/api/v1/programs/"+programID.String()+"/workouts", nil, "program workouts", &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (c *HTTPClient) ListWorkoutsByDateRange(ctx context.Context, start, end models.Date, programID *uuid.UUID) ([]models.Workout, error) {
	params := url.Values{}
	params.Set("start", start.String())
	params.Set("end", end.String())
	if programID != nil {
		params.Set("program_id", programID.String())
	}

	var workouts []models.Workout
	if err := c.getJSON(ctx, "/api/v1/workouts", params, "workouts", &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// ListExercises reads the exercises embedded in the workout detail response.
func (c *HTTPClient) ListExercises(ctx context.Context, workoutID uuid.UUID) ([]models.Exercise, error) {
	var resp struct {
		Exercises []models.Exercise `json:"exercises"`
	}
	if err := c.getJSON(ctx, "/api/v1/workouts/"+workoutID.String(), nil, "workout exercises", &resp); err != nil {
		return nil, err
	}
	return resp.Exercises, nil
}

func (c *HTTPClient) ListWorkoutResults(ctx context.Context, workoutID *uuid.UUID, limit int) ([]models.WorkoutResult, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(max(limit, 0)))
	if workoutID != nil {
		params.Set("workout_id", workoutID.String())
	}

	var results []models.WorkoutResult
	if err := c.getJSON(ctx, "/api/v1/results", params, "workout results", &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *HTTPClient) ListWorkoutResultsSince(ctx context.Context, since time.Time) ([]models.WorkoutResult, error) {
	params := url.Values{}
	params.Set("since", since.Format(time.RFC3339))

	var results []models.WorkoutResult
	if err := c.getJSON(ctx, "/api/v1/results", params, "workout results", &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *HTTPClient) ExerciseHistory(ctx context.Context, name string, limit int) ([]models.ExerciseHistoryEntry, error) {
	params := url.Values{}
	params.Set("name", name)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var history []models.ExerciseHistoryEntry
	if err := c.getJSON(ctx, "/api/v1/exercises/history", params, "exercise history", &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (c *HTTPClient) ListPersonalRecords(ctx context.Context, exerciseType *models.ExerciseType) ([]models.PersonalRecord, error) {
	params := url.Values{}
	if exerciseType != nil {
		params.Set("exercise_type", string(*exerciseType))
	}

	var records []models.PersonalRecord
	if err := c.getJSON(ctx, "/api/v1/records", params, "personal records", &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *HTTPClient) ListRaceResults(ctx context.Context) ([]models.RaceResult, error) {
	var races []models.RaceResult
	if err := c.getJSON(ctx, "/api/v1/races", nil, "race results", &races); err != nil {
		return nil, err
	}
	return races, nil
}
