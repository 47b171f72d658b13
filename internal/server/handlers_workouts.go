package server

import (
	"net/http"

	"github.com/apatti/hyroxtrainer/internal/models"
)

// defaultRangeDays is the window of GET /workouts when no end date is given.
const defaultRangeDays = 7

// handleWorkoutsByDate lists scheduled workouts between start and end (inclusive). start
// defaults to today, end to a week after start.
func (s *Server) handleWorkoutsByDate(w http.ResponseWriter, r *http.Request) {
	start, err := queryDate(r, "start")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	end, err := queryDate(r, "end")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	programID, err := queryUUID(r, "program_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	from := s.today()
	if start != nil {
		from = *start
	}
	to := from.AddDays(defaultRangeDays - 1)
	if end != nil {
		to = *end
	}
	if to.Before(from) {
		s.writeError(w, r, badRequest("end is before start"))
		return
	}

	workouts, err := s.store.ListWorkoutsByDateRange(r.Context(), from, to, programID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleTodaysWorkouts(w http.ResponseWriter, r *http.Request) {
	programID, err := queryUUID(r, "program_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	workouts, err := s.store.TodaysWorkouts(r.Context(), s.today(), programID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

type workoutDetail struct {
	models.Workout
	Exercises []models.Exercise `json:"exercises"`
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, workoutDetail{Workout: *workout, Exercises: exercises})
}
