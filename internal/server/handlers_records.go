package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/apatti/hyroxtrainer/internal/analytics"
	"github.com/apatti/hyroxtrainer/internal/models"
	"github.com/apatti/hyroxtrainer/internal/validate"
)

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	var filter *models.ExerciseType
	if v := strings.TrimSpace(r.URL.Query().Get("exercise_type")); v != "" {
		et, _ := models.CanonicalExerciseType(v)
		filter = &et
	}
	records, err := s.store.ListPersonalRecords(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

type createRecordRequest struct {
	ExerciseType    string     `json:"exercise_type" validate:"required"`
	ExerciseName    string     `json:"exercise_name" validate:"required"`
	RecordType      string     `json:"record_type" validate:"required,oneof=time weight reps distance"`
	RecordValue     string     `json:"record_value" validate:"required"`
	WorkoutResultID *uuid.UUID `json:"workout_result_id"`
	AchievedAt      *time.Time `json:"achieved_at"`
	Notes           *string    `json:"notes"`
}

// handleCreateRecord stores a manually entered personal record.
func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.ExerciseName = strings.TrimSpace(req.ExerciseName)
	req.RecordValue = strings.TrimSpace(req.RecordValue)
	if err := validate.Struct(req); err != nil {
		s.writeError(w, r, err)
		return
	}

	et, _ := models.CanonicalExerciseType(req.ExerciseType)
	pr := models.PersonalRecord{
		ExerciseType:    et,
		ExerciseName:    req.ExerciseName,
		RecordType:      models.RecordType(req.RecordType),
		RecordValue:     req.RecordValue,
		WorkoutResultID: req.WorkoutResultID,
		Notes:           req.Notes,
	}
	if req.AchievedAt != nil {
		pr.AchievedAt = *req.AchievedAt
	}

	saved, err := s.store.CreatePersonalRecord(r.Context(), pr)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListRaces(w http.ResponseWriter, r *http.Request) {
	races, err := s.store.ListRaceResults(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, races)
}

type raceDetail struct {
	models.RaceResult
	Breakdown analytics.RaceBreakdown `json:"breakdown"`
}

type createRaceRequest struct {
	RaceDate             models.Date `json:"race_date"`
	RaceLocation         string      `json:"race_location"`
	Division             string      `json:"division" validate:"required,oneof=open pro doubles"`
	TotalTimeSeconds     int         `json:"total_time_seconds" validate:"required,min=1"`
	SkiErgTime           *int        `json:"skierg_time" validate:"omitempty,min=0"`
	SledPushTime         *int        `json:"sled_push_time" validate:"omitempty,min=0"`
	SledPullTime         *int        `json:"sled_pull_time" validate:"omitempty,min=0"`
	BurpeeBroadJumpTime  *int        `json:"burpee_broad_jump_time" validate:"omitempty,min=0"`
	RowingTime           *int        `json:"rowing_time" validate:"omitempty,min=0"`
	FarmersCarryTime     *int        `json:"farmers_carry_time" validate:"omitempty,min=0"`
	SandbagLungesTime    *int        `json:"sandbag_lunges_time" validate:"omitempty,min=0"`
	WallBallsTime        *int        `json:"wall_balls_time" validate:"omitempty,min=0"`
	RunTimes             []*int      `json:"run_times" validate:"max=8,dive,omitempty,min=0"`
	TransitionsTotalTime *int        `json:"transitions_total_time" validate:"omitempty,min=0"`
	Notes                *string     `json:"notes"`
}

func (req createRaceRequest) result() models.RaceResult {
	out := models.RaceResult{
		RaceDate:             req.RaceDate,
		RaceLocation:         strings.TrimSpace(req.RaceLocation),
		Division:             models.Division(req.Division),
		TotalTimeSeconds:     req.TotalTimeSeconds,
		SkiErgTime:           req.SkiErgTime,
		SledPushTime:         req.SledPushTime,
		SledPullTime:         req.SledPullTime,
		BurpeeBroadJumpTime:  req.BurpeeBroadJumpTime,
		RowingTime:           req.RowingTime,
		FarmersCarryTime:     req.FarmersCarryTime,
		SandbagLungesTime:    req.SandbagLungesTime,
		WallBallsTime:        req.WallBallsTime,
		TransitionsTotalTime: req.TransitionsTotalTime,
		Notes:                req.Notes,
	}
	runs := []**int{&out.Run1Time, &out.Run2Time, &out.Run3Time, &out.Run4Time,
		&out.Run5Time, &out.Run6Time, &out.Run7Time, &out.Run8Time}
	for i, t := range req.RunTimes {
		*runs[i] = t
	}
	return out
}

// handleCreateRace stores an official race result. Runs are given as an ordered list of up to
// eight splits.
func (s *Server) handleCreateRace(w http.ResponseWriter, r *http.Request) {
	var req createRaceRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.RaceDate.IsZero() {
		s.writeError(w, r, badRequest("race_date is required"))
		return
	}
	if err := validate.Struct(req); err != nil {
		s.writeError(w, r, err)
		return
	}

	saved, err := s.store.CreateRaceResult(r.Context(), req.result())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleGetRace(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, raceDetail{RaceResult: *race, Breakdown: analytics.StationSplits(*race)})
}
