package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/apatti/hyroxtrainer/internal/session"
)

type sessionView struct {
	*session.Session
	ElapsedSeconds int `json:"elapsed_seconds"`
	Done           int `json:"exercises_done"`
	Total          int `json:"exercises_total"`
}

func (s *Server) viewSession(sess *session.Session) sessionView {
	done, total := sess.Progress()
	return sessionView{
		Session:        sess,
		ElapsedSeconds: int(sess.Elapsed(s.now()).Seconds()),
		Done:           done,
		Total:          total,
	}
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Current(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.viewSession(sess))
}

type startSessionRequest struct {
	WorkoutID uuid.UUID `json:"workout_id"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.WorkoutID == uuid.Nil {
		s.writeError(w, r, badRequest("workout_id is required"))
		return
	}

	workout, err := s.store.GetWorkout(r.Context(), req.WorkoutID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	exercises, err := s.store.ListExercises(r.Context(), workout.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.sessions.Start(r.Context(), *workout, exercises)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.viewSession(sess))
}

func (s *Server) handleUpdateSessionExercise(w http.ResponseWriter, r *http.Request) {
	exerciseID, err := pathUUID(r, "exerciseID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var u session.EntryUpdate
	if err := decodeJSON(r, &u); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.sessions.Update(r.Context(), exerciseID, u)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.viewSession(sess))
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	var in session.CompleteInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.sessions.Complete(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleAbandonSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Abandon(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
