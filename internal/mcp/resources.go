package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// recentResultsDays is the window of the recent_results resource.
const recentResultsDays = 14

// --- Resource definitions ---

var resToday = mcp.NewResource(
	"hyroxtrainer://today",
	"Today's Training",
	mcp.WithResourceDescription("Workouts scheduled for today with their prescribed exercises"),
	mcp.WithMIMEType("application/json"),
)

var resRecentResults = mcp.NewResource(
	"hyroxtrainer://recent_results",
	"Recent Results",
	mcp.WithResourceDescription("Workout results logged in the last 14 days"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) todaysPlan(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	today := h.today()

	workouts, err := h.ds.ListWorkoutsByDateRange(ctx, today, today, nil)
	if err != nil {
		return nil, err
	}
	schedule, err := h.withExercises(ctx, workouts)
	if err != nil {
		return nil, err
	}

	return jsonContents(req.Params.URI, map[string]any{
		"date":     today,
		"workouts": schedule,
	})
}

func (h *handlers) recentResults(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	results, err := h.ds.ListWorkoutResultsSince(ctx, h.daysAgo(recentResultsDays))
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, results)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
