package server

import (
	"net/http"
	"strings"
	"time"
)

const (
	defaultResultsLimit = 50
	defaultHistoryLimit = 20
)

// handleListResults lists results newest first. With ?since (RFC 3339) it returns every result
// completed at or after that instant instead.
func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	if v := r.URL.Query().Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			s.writeError(w, r, badRequest("since must be an RFC 3339 timestamp"))
			return
		}
		results, err := s.store.ListWorkoutResultsSince(r.Context(), since)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, results)
		return
	}

	workoutID, err := queryUUID(r, "workout_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", defaultResultsLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	results, err := s.store.ListWorkoutResults(r.Context(), workoutID, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleResultExercises(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	results, err := s.store.ListExerciseResults(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		s.writeError(w, r, badRequest("name parameter required"))
		return
	}
	limit, err := queryInt(r, "limit", defaultHistoryLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	history, err := s.store.ExerciseHistory(r.Context(), name, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
