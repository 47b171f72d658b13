package server

import (
	"errors"
	"io"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/apatti/hyroxtrainer/internal/analytics"
	"github.com/apatti/hyroxtrainer/internal/models"
)

// Training windows sent along with coaching questions.
const (
	insightsWindowDays     = 30
	raceAnalysisWindowDays = 90
	guidanceHistoryLimit   = 5
)

type coachingResponse struct {
	Advice string `json:"advice"`
}

type insightsRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleCoachInsights(w http.ResponseWriter, r *http.Request) {
	var req insightsRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, r, err)
		return
	}

	results, records, err := s.loadPerformance(r.Context(), insightsWindowDays)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	payload := analytics.PerformancePayload(results, records, s.now().In(s.opts.Location))

	advice, err := s.coach.Insights(r.Context(), payload, req.Question)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, coachingResponse{Advice: advice})
}

// handleCoachGuidance advises on one workout, drawing on past results of each of its exercises.
func (s *Server) handleCoachGuidance(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	workout, err := s.store.GetWorkout(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	exercises, err := s.store.ListExercises(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	histories := make([][]models.ExerciseHistoryEntry, len(exercises))
	g, gctx := errgroup.WithContext(r.Context())
	for i, e := range exercises {
		g.Go(func() error {
			h, err := s.store.ExerciseHistory(gctx, e.ExerciseName, guidanceHistoryLimit)
			histories[i] = h
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.writeError(w, r, err)
		return
	}
	var past []models.ExerciseHistoryEntry
	for _, h := range histories {
		past = append(past, h...)
	}

	advice, err := s.coach.WorkoutGuidance(r.Context(), *workout, exercises, past)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, coachingResponse{Advice: advice})
}

func (s *Server) handleCoachRaceAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	race, err := s.store.GetRaceResult(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	results, records, err := s.loadPerformance(r.Context(), raceAnalysisWindowDays)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var history *analytics.Payload
	if len(results) > 0 {
		p := analytics.PerformancePayload(results, records, s.now().In(s.opts.Location))
		history = &p
	}

	advice, err := s.coach.RaceAnalysis(r.Context(), *race, history)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, coachingResponse{Advice: advice})
}

func (s *Server) handleCoachProgramReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.store.GetProgram(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	workouts, err := s.store.ListWorkoutsByProgram(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(workouts) == 0 {
		s.writeError(w, r, badRequest("program has no workouts to review"))
		return
	}

	advice, err := s.coach.ReviewProgram(r.Context(), *p, workouts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, coachingResponse{Advice: advice})
}
