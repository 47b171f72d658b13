package mcp

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/apatti/hyroxtrainer/internal/analytics"
	"github.com/apatti/hyroxtrainer/internal/models"
)

// Defaults for optional tool arguments.
const (
	defaultRangeDays     = 7
	defaultResultsLimit  = 20
	defaultHistoryLimit  = 10
	defaultDashboardDays = 30
	exerciseFetchLimit   = 4
)

// dateRange parses start/end, defaulting to a week starting today.
func dateRange(startStr, endStr string, today models.Date) (models.Date, models.Date, error) {
	start := today
	if startStr != "" {
		d, err := models.ParseDate(startStr)
		if err != nil {
			return models.Date{}, models.Date{}, err
		}
		start = d
	}

	end := start.AddDays(defaultRangeDays - 1)
	if endStr != "" {
		d, err := models.ParseDate(endStr)
		if err != nil {
			return models.Date{}, models.Date{}, err
		}
		end = d
	}
	return start, end, nil
}

// optionalUUID parses s, treating the empty string as absent.
func optionalUUID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// scheduledWorkout is a workout together with its prescribed exercises.
type scheduledWorkout struct {
	models.Workout
	Exercises []models.Exercise `json:"exercises"`
}

// withExercises fetches the exercises of every workout, a few at a time.
func (h *handlers) withExercises(ctx context.Context, workouts []models.Workout) ([]scheduledWorkout, error) {
	out := make([]scheduledWorkout, len(workouts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exerciseFetchLimit)
	for i, w := range workouts {
		g.Go(func() error {
			exercises, err := h.ds.ListExercises(gctx, w.ID)
			out[i] = scheduledWorkout{Workout: w, Exercises: exercises}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

type raceWithSplits struct {
	models.RaceResult
	Breakdown analytics.RaceBreakdown `json:"breakdown"`
}

// --- Tool definitions ---

var toolListPrograms = mcp.NewTool("list_programs",
	mcp.WithDescription("List all saved training programs, newest first. Returns name, description, and start/end dates."),
)

var toolGetProgramSchedule = mcp.NewTool("get_program_schedule",
	mcp.WithDescription("Get a training program with every workout in schedule order, including each workout's prescribed exercises (sets, reps, weight, distance, duration, rest)."),
	mcp.WithString("program_id", mcp.Required(), mcp.Description("Program UUID (see list_programs)")),
)

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("List scheduled workouts between two dates (inclusive) with their exercises."),
	mcp.WithString("start", mcp.Description("Start date (YYYY-MM-DD). Defaults to today.")),
	mcp.WithString("end", mcp.Description("End date (YYYY-MM-DD). Defaults to 6 days after start.")),
	mcp.WithString("program_id", mcp.Description("Restrict to one program (UUID).")),
)

var toolGetWorkoutResults = mcp.NewTool("get_workout_results",
	mcp.WithDescription("Logged workout results, newest first: duration, perceived effort (RPE 1-10), heart rate, feeling, and notes."),
	mcp.WithString("workout_id", mcp.Description("Only results for this workout (UUID).")),
	mcp.WithNumber("limit", mcp.Description("Maximum results to return. Defaults to 20; 0 returns all.")),
)

var toolGetExerciseHistory = mcp.NewTool("get_exercise_history",
	mcp.WithDescription("Past logged performances of an exercise (sets, reps, weight, time, distance), newest first."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (partial match, e.g. 'wall balls')")),
	mcp.WithNumber("limit", mcp.Description("Maximum entries. Defaults to 10.")),
)

var toolGetTrainingDashboard = mcp.NewTool("get_training_dashboard",
	mcp.WithDescription("Training overview: totals, average duration and effort, current streak, weekly workout counts, daily minutes, effort trend, and personal records grouped by exercise type."),
	mcp.WithNumber("days", mcp.Description("Window in days, including today. Defaults to 30; 0 covers all history.")),
)

var toolGetPersonalRecords = mcp.NewTool("get_personal_records",
	mcp.WithDescription("Personal records, newest first."),
	mcp.WithString("exercise_type", mcp.Description("Filter by exercise type (e.g. skierg, sled_push, wall_balls, running, strength)")),
)

var toolGetRaceResults = mcp.NewTool("get_race_results",
	mcp.WithDescription("Official Hyrox race results, newest first, each with its run and station splits in race order and the fastest and slowest stations."),
)

// --- Tool handlers ---

func (h *handlers) listPrograms(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	programs, err := h.ds.ListPrograms(ctx)
	if err != nil {
		h.log.Error("mcp list_programs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(programs)
}

func (h *handlers) getProgramSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("program_id")
	if err != nil {
		return mcp.NewToolResultError("program_id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid program_id: " + err.Error()), nil
	}

	program, err := h.ds.GetProgram(ctx, id)
	if err != nil {
		h.log.Error("mcp get_program_schedule", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	workouts, err := h.ds.ListWorkoutsByProgram(ctx, id)
	if err != nil {
		h.log.Error("mcp get_program_schedule", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	schedule, err := h.withExercises(ctx, workouts)
	if err != nil {
		h.log.Error("mcp get_program_schedule", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	return jsonResult(map[string]any{
		"program":  program,
		"workouts": schedule,
	})
}

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := dateRange(req.GetString("start", ""), req.GetString("end", ""), h.today())
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	if end.Before(start) {
		return mcp.NewToolResultError("end is before start"), nil
	}
	programID, err := optionalUUID(req.GetString("program_id", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid program_id: " + err.Error()), nil
	}

	workouts, err := h.ds.ListWorkoutsByDateRange(ctx, start, end, programID)
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	schedule, err := h.withExercises(ctx, workouts)
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(schedule)
}

func (h *handlers) getWorkoutResults(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workoutID, err := optionalUUID(req.GetString("workout_id", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid workout_id: " + err.Error()), nil
	}
	limit := req.GetInt("limit", defaultResultsLimit)
	if limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}

	results, err := h.ds.ListWorkoutResults(ctx, workoutID, limit)
	if err != nil {
		h.log.Error("mcp get_workout_results", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(results)
}

func (h *handlers) getExerciseHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("exercise")
	if err != nil || strings.TrimSpace(name) == "" {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	limit := req.GetInt("limit", defaultHistoryLimit)
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	history, err := h.ds.ExerciseHistory(ctx, strings.TrimSpace(name), limit)
	if err != nil {
		h.log.Error("mcp get_exercise_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(history)
}

func (h *handlers) getTrainingDashboard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := req.GetInt("days", defaultDashboardDays)
	if days < 0 {
		return mcp.NewToolResultError("days must not be negative"), nil
	}

	var (
		results []models.WorkoutResult
		records []models.PersonalRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if days == 0 {
			results, err = h.ds.ListWorkoutResults(gctx, nil, 0)
		} else {
			results, err = h.ds.ListWorkoutResultsSince(gctx, h.daysAgo(days))
		}
		return err
	})
	g.Go(func() error {
		var err error
		records, err = h.ds.ListPersonalRecords(gctx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		h.log.Error("mcp get_training_dashboard", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	return jsonResult(analytics.BuildDashboard(results, records, h.now().In(h.loc)))
}

func (h *handlers) getPersonalRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var filter *models.ExerciseType
	if v := strings.TrimSpace(req.GetString("exercise_type", "")); v != "" {
		et, _ := models.CanonicalExerciseType(v)
		filter = &et
	}

	records, err := h.ds.ListPersonalRecords(ctx, filter)
	if err != nil {
		h.log.Error("mcp get_personal_records", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(records)
}

func (h *handlers) getRaceResults(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	races, err := h.ds.ListRaceResults(ctx)
	if err != nil {
		h.log.Error("mcp get_race_results", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	out := make([]raceWithSplits, len(races))
	for i, r := range races {
		out[i] = raceWithSplits{RaceResult: r, Breakdown: analytics.StationSplits(r)}
	}
	return jsonResult(out)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
