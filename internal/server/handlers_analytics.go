package server

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/apatti/hyroxtrainer/internal/analytics"
	"github.com/apatti/hyroxtrainer/internal/models"
)

// defaultDashboardDays is the dashboard window when ?days is absent. days=0 means all time.
const defaultDashboardDays = 30

// loadPerformance fetches the results completed in the last days (all when days is 0) and
// every personal record, concurrently.
func (s *Server) loadPerformance(ctx context.Context, days int) ([]models.WorkoutResult, []models.PersonalRecord, error) {
	var since time.Time
	if days > 0 {
		d := s.today().AddDays(-(days - 1)).Time()
		since = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.opts.Location)
	}

	var (
		results []models.WorkoutResult
		records []models.PersonalRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		results, err = s.store.ListWorkoutResultsSince(gctx, since)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.store.ListPersonalRecords(gctx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return results, records, nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", defaultDashboardDays)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	results, records, err := s.loadPerformance(r.Context(), days)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.BuildDashboard(results, records, s.now().In(s.opts.Location)))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetDataStats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
