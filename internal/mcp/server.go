package mcp

import (
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/apatti/hyroxtrainer/internal/models"
)

// New creates an MCP server with all tools and resources registered. loc decides which
// calendar day "today" is; nil means UTC.
func New(ds DataSource, version string, loc *time.Location, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("hyroxtrainer", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Hyrox training log. Query training programs and their schedules, logged workout results, personal records, official race results, and the training dashboard."),
	)

	h := newHandlers(ds, loc, log)

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListPrograms, Handler: h.listPrograms},
		server.ServerTool{Tool: toolGetProgramSchedule, Handler: h.getProgramSchedule},
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		server.ServerTool{Tool: toolGetWorkoutResults, Handler: h.getWorkoutResults},
		server.ServerTool{Tool: toolGetExerciseHistory, Handler: h.getExerciseHistory},
		server.ServerTool{Tool: toolGetTrainingDashboard, Handler: h.getTrainingDashboard},
		server.ServerTool{Tool: toolGetPersonalRecords, Handler: h.getPersonalRecords},
		server.ServerTool{Tool: toolGetRaceResults, Handler: h.getRaceResults},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resToday, Handler: h.todaysPlan},
		server.ServerResource{Resource: resRecentResults, Handler: h.recentResults},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
	loc *time.Location
	now func() time.Time
}

func newHandlers(ds DataSource, loc *time.Location, log *slog.Logger) *handlers {
	if loc == nil {
		loc = time.UTC
	}
	return &handlers{ds: ds, log: log, loc: loc, now: time.Now}
}

func (h *handlers) today() models.Date {
	return models.DateOf(h.now().In(h.loc))
}

// daysAgo returns local midnight at the start of the day n-1 days before today, so a window of
// n days includes today.
func (h *handlers) daysAgo(n int) time.Time {
	d := h.today().AddDays(-(n - 1)).Time()
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, h.loc)
}
