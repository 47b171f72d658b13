package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/apatti/hyroxtrainer/internal/coaching"
	"github.com/apatti/hyroxtrainer/internal/models"
	"github.com/apatti/hyroxtrainer/internal/program"
	"github.com/apatti/hyroxtrainer/internal/session"
	"github.com/apatti/hyroxtrainer/internal/storage"
)

// Store is the part of the persistence gateway the HTTP handlers use.
type Store interface {
	SavePlan(ctx context.Context, doc models.PlanDocument) (*storage.SavedPlan, error)
	ListPrograms(ctx context.Context) ([]models.Program, error)
	GetProgram(ctx context.Context, id uuid.UUID) (*models.Program, error)
	DeleteProgram(ctx context.Context, id uuid.UUID) error

	GetWorkout(ctx context.Context, id uuid.UUID) (*models.Workout, error)
	ListWorkoutsByProgram(ctx context.Context, programID uuid.UUID) ([]models.Workout, error)
	ListWorkoutsByDateRange(ctx context.Context, start, end models.Date, programID *uuid.UUID) ([]models.Workout, error)
	TodaysWorkouts(ctx context.Context, today models.Date, programID *uuid.UUID) ([]models.Workout, error)
	ListExercises(ctx context.Context, workoutID uuid.UUID) ([]models.Exercise, error)

	ListWorkoutResults(ctx context.Context, workoutID *uuid.UUID, limit int) ([]models.WorkoutResult, error)
	ListWorkoutResultsSince(ctx context.Context, since time.Time) ([]models.WorkoutResult, error)
	ListExerciseResults(ctx context.Context, workoutResultID uuid.UUID) ([]models.ExerciseResult, error)
	ExerciseHistory(ctx context.Context, name string, limit int) ([]models.ExerciseHistoryEntry, error)

	CreatePersonalRecord(ctx context.Context, pr models.PersonalRecord) (*models.PersonalRecord, error)
	ListPersonalRecords(ctx context.Context, exerciseType *models.ExerciseType) ([]models.PersonalRecord, error)

	CreateRaceResult(ctx context.Context, r models.RaceResult) (*models.RaceResult, error)
	GetRaceResult(ctx context.Context, id uuid.UUID) (*models.RaceResult, error)
	ListRaceResults(ctx context.Context) ([]models.RaceResult, error)

	GetDataStats(ctx context.Context) (*storage.DataStats, error)
	Ping(ctx context.Context) error
}

var _ Store = (*storage.DB)(nil)

// Options carries the server's settings from config.
type Options struct {
	APIKey      string
	CORSOrigins []string
	// Location decides which calendar day "today" is.
	Location *time.Location
	// Registry receives the HTTP metrics and is served on /metrics. Nil disables both.
	Registry *prometheus.Registry
	// MCP, when set, is mounted at /mcp behind the API key.
	MCP http.Handler
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    Store
	parser   *program.Parser
	coach    *coaching.Coach
	sessions *session.Manager
	log      *slog.Logger
	opts     Options
	now      func() time.Time
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(store Store, parser *program.Parser, coach *coaching.Coach, sessions *session.Manager, opts Options, log *slog.Logger) *Server {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	s := &Server{
		store:    store,
		parser:   parser,
		coach:    coach,
		sessions: sessions,
		log:      log,
		opts:     opts,
		now:      time.Now,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS(s.opts.CORSOrigins))
	if s.opts.Registry != nil {
		s.router.Use(RequestMetrics(NewHTTPMetrics(s.opts.Registry)))
		s.router.Handle("/metrics", promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{}))
	}

	s.router.Get("/healthz", s.handleHealth)

	if s.opts.MCP != nil {
		s.router.With(APIKeyAuth(s.opts.APIKey)).Handle("/mcp", s.opts.MCP)
	}

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(s.opts.APIKey))

		r.Post("/programs/parse", s.handleParseProgram)
		r.Post("/programs", s.handleCreateProgram)
		r.Get("/programs", s.handleListPrograms)
		r.Get("/programs/{id}", s.handleGetProgram)
		r.Delete("/programs/{id}", s.handleDeleteProgram)
		r.Get("/programs/{id}/workouts", s.handleProgramWorkouts)

		r.Get("/workouts", s.handleWorkoutsByDate)
		r.Get("/workouts/today", s.handleTodaysWorkouts)
		r.Get("/workouts/{id}", s.handleGetWorkout)

		r.Get("/session", s.handleGetSession)
		r.Post("/session", s.handleStartSession)
		r.Delete("/session", s.handleAbandonSession)
		r.Patch("/session/exercises/{exerciseID}", s.handleUpdateSessionExercise)
		r.Post("/session/complete", s.handleCompleteSession)

		r.Get("/results", s.handleListResults)
		r.Get("/results/{id}/exercises", s.handleResultExercises)
		r.Get("/exercises/history", s.handleExerciseHistory)

		r.Get("/analytics/dashboard", s.handleDashboard)
		r.Get("/analytics/stats", s.handleStats)

		r.Get("/records", s.handleListRecords)
		r.Post("/records", s.handleCreateRecord)
		r.Get("/races", s.handleListRaces)
		r.Post("/races", s.handleCreateRace)
		r.Get("/races/{id}", s.handleGetRace)

		r.Post("/coach/insights", s.handleCoachInsights)
		r.Post("/coach/workouts/{id}/guidance", s.handleCoachGuidance)
		r.Post("/coach/races/{id}/analysis", s.handleCoachRaceAnalysis)
		r.Post("/coach/programs/{id}/review", s.handleCoachProgramReview)
	})
}

// handleHealth reports 503 when the database is unreachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.log.Warn("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": "unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) today() models.Date {
	return models.DateOf(s.now().In(s.opts.Location))
}
