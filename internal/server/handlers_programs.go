package server

import (
	"net/http"

	"github.com/apatti/hyroxtrainer/internal/models"
	"github.com/apatti/hyroxtrainer/internal/program"
	"github.com/apatti/hyroxtrainer/internal/validate"
)

type parseProgramRequest struct {
	RawText   string       `json:"raw_text" validate:"required"`
	Name      string       `json:"name" validate:"required"`
	StartDate *models.Date `json:"start_date"`
	// Save stores the parsed plan straight away instead of returning it for review.
	Save bool `json:"save"`
}

func (s *Server) handleParseProgram(w http.ResponseWriter, r *http.Request) {
	var req parseProgramRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		s.writeError(w, r, err)
		return
	}

	doc, err := s.parser.Parse(r.Context(), req.RawText, req.Name, req.StartDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !req.Save {
		writeJSON(w, http.StatusOK, doc)
		return
	}

	saved, err := s.store.SavePlan(r.Context(), *doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// handleCreateProgram stores a plan document the client already has, typically one returned by
// parse and reviewed by the athlete. It is validated again before saving.
func (s *Server) handleCreateProgram(w http.ResponseWriter, r *http.Request) {
	var doc models.PlanDocument
	if err := decodeJSON(r, &doc); err != nil {
		s.writeError(w, r, err)
		return
	}

	valid, err := program.Validate(doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	program.ApplySchedule(&valid, valid.Program.StartDate)
	if valid.Program.StartDate != nil && valid.Program.StartDate.IsZero() {
		valid.Program.StartDate = nil
	}

	saved, err := s.store.SavePlan(r.Context(), valid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	programs, err := s.store.ListPrograms(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, programs)
}

type programDetail struct {
	models.Program
	Workouts []models.Workout `json:"workouts"`
}

func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, programDetail{Program: *p, Workouts: workouts})
}

func (s *Server) handleDeleteProgram(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.DeleteProgram(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProgramWorkouts(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.store.GetProgram(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	workouts, err := s.store.ListWorkoutsByProgram(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}
