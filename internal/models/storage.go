package models

import (
	"time"

	"github.com/google/uuid"
)

// Program is a row of the programs table.
type Program struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	RawInput    string    `json:"raw_input"`
	StartDate   *Date     `json:"start_date"`
	EndDate     *Date     `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// Workout is a row of the workouts table: one scheduled day of a program.
type Workout struct {
	ID            uuid.UUID   `json:"id"`
	ProgramID     uuid.UUID   `json:"program_id"`
	DayNumber     int         `json:"day_number"`
	WeekNumber    *int        `json:"week_number"`
	ScheduledDate *Date       `json:"scheduled_date"`
	Title         string      `json:"title"`
	WorkoutType   WorkoutType `json:"workout_type"`
	Description   string      `json:"description"`
	CreatedAt     time.Time   `json:"created_at"`
}

// DisplayWeek returns the stored week number or the one derived from the day number.
func (w Workout) DisplayWeek() int {
	if w.WeekNumber != nil {
		return *w.WeekNumber
	}
	return WeekOf(w.DayNumber)
}

// Exercise is a planned exercise of a workout. Prescription fields are free text.
type Exercise struct {
	ID            uuid.UUID    `json:"id"`
	WorkoutID     uuid.UUID    `json:"workout_id"`
	ExerciseOrder int          `json:"exercise_order"`
	ExerciseName  string       `json:"exercise_name"`
	ExerciseType  ExerciseType `json:"exercise_type"`
	Sets          *int         `json:"sets"`
	Reps          *string      `json:"reps"`
	Weight        *string      `json:"weight"`
	Distance      *string      `json:"distance"`
	Duration      *string      `json:"duration"`
	RestPeriod    *string      `json:"rest_period"`
	Notes         *string      `json:"notes"`
}

// WorkoutResult records one completed session of a workout.
type WorkoutResult struct {
	ID                   uuid.UUID `json:"id"`
	WorkoutID            uuid.UUID `json:"workout_id"`
	TotalDurationSeconds *int      `json:"total_duration_seconds"`
	PerceivedEffort      *int      `json:"perceived_effort"`
	HeartRateAvg         *int      `json:"heart_rate_avg"`
	HeartRateMax         *int      `json:"heart_rate_max"`
	Feeling              *Feeling  `json:"feeling"`
	Notes                *string   `json:"notes"`
	CompletedAt          time.Time `json:"completed_at"`
}

// ExerciseResult is the actual performance of one planned exercise within a WorkoutResult.
type ExerciseResult struct {
	ID                uuid.UUID `json:"id"`
	WorkoutResultID   uuid.UUID `json:"workout_result_id"`
	ExerciseID        uuid.UUID `json:"exercise_id"`
	SetsCompleted     *int      `json:"sets_completed"`
	RepsCompleted     *string   `json:"reps_completed"`
	WeightUsed        *string   `json:"weight_used"`
	TimeSeconds       *int      `json:"time_seconds"`
	DistanceCompleted *string   `json:"distance_completed"`
	Notes             *string   `json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
}

// ExerciseHistoryEntry is an exercise result joined with its planned exercise and completion time.
type ExerciseHistoryEntry struct {
	ExerciseResult
	ExerciseName string       `json:"exercise_name"`
	ExerciseType ExerciseType `json:"exercise_type"`
	CompletedAt  time.Time    `json:"completed_at"`
}

// PersonalRecord is a manually entered best performance.
type PersonalRecord struct {
	ID              uuid.UUID    `json:"id"`
	ExerciseType    ExerciseType `json:"exercise_type"`
	ExerciseName    string       `json:"exercise_name"`
	RecordType      RecordType   `json:"record_type"`
	RecordValue     string       `json:"record_value"`
	WorkoutResultID *uuid.UUID   `json:"workout_result_id"`
	AchievedAt      time.Time    `json:"achieved_at"`
	Notes           *string      `json:"notes"`
}

// RaceResult is an official race finish with optional station and run splits (seconds).
type RaceResult struct {
	ID                   uuid.UUID `json:"id"`
	RaceDate             Date      `json:"race_date"`
	RaceLocation         string    `json:"race_location"`
	Division             Division  `json:"division"`
	TotalTimeSeconds     int       `json:"total_time_seconds"`
	SkiErgTime           *int      `json:"skierg_time"`
	SledPushTime         *int      `json:"sled_push_time"`
	SledPullTime         *int      `json:"sled_pull_time"`
	BurpeeBroadJumpTime  *int      `json:"burpee_broad_jump_time"`
	RowingTime           *int      `json:"rowing_time"`
	FarmersCarryTime     *int      `json:"farmers_carry_time"`
	SandbagLungesTime    *int      `json:"sandbag_lunges_time"`
	WallBallsTime        *int      `json:"wall_balls_time"`
	Run1Time             *int      `json:"run_1_time"`
	Run2Time             *int      `json:"run_2_time"`
	Run3Time             *int      `json:"run_3_time"`
	Run4Time             *int      `json:"run_4_time"`
	Run5Time             *int      `json:"run_5_time"`
	Run6Time             *int      `json:"run_6_time"`
	Run7Time             *int      `json:"run_7_time"`
	Run8Time             *int      `json:"run_8_time"`
	TransitionsTotalTime *int      `json:"transitions_total_time"`
	Notes                *string   `json:"notes"`
	CreatedAt            time.Time `json:"created_at"`
}

// StationTimes returns the eight station splits in race order.
func (r RaceResult) StationTimes() []*int {
	return []*int{
		r.SkiErgTime, r.SledPushTime, r.SledPullTime, r.BurpeeBroadJumpTime,
		r.RowingTime, r.FarmersCarryTime, r.SandbagLungesTime, r.WallBallsTime,
	}
}

// RunTimes returns the eight run splits in race order.
func (r RaceResult) RunTimes() []*int {
	return []*int{
		r.Run1Time, r.Run2Time, r.Run3Time, r.Run4Time,
		r.Run5Time, r.Run6Time, r.Run7Time, r.Run8Time,
	}
}
