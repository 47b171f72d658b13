package analytics

import (
	"time"

	"github.com/apatti/hyroxtrainer/internal/models"
)

// Limits on the coaching payload.
const (
	PayloadHistoryLimit  = 20
	PayloadRecordLimit   = 10
	DashboardRecordLimit = 5
)

// Dashboard is everything the training overview shows.
type Dashboard struct {
	Summary       Summary                 `json:"summary"`
	Streak        int                     `json:"streak_days"`
	Weekly        []WeekCount             `json:"weekly_workouts"`
	Daily         []DayMinutes            `json:"daily_minutes"`
	Effort        []EffortPoint           `json:"effort_trend"`
	Records       []RecordGroup           `json:"records_by_type"`
	RecentRecords []models.PersonalRecord `json:"recent_records"`
}

// BuildDashboard assembles the dashboard for results and records as of now.
func BuildDashboard(results []models.WorkoutResult, records []models.PersonalRecord, now time.Time) Dashboard {
	loc := now.Location()
	return Dashboard{
		Summary:       Summarize(results),
		Streak:        Streak(results, now),
		Weekly:        WeeklyCounts(results, loc),
		Daily:         DailyMinutes(results, loc),
		Effort:        EffortTrend(results),
		Records:       GroupRecords(records),
		RecentRecords: RecentRecords(records, DashboardRecordLimit),
	}
}

// HistoryItem is one past workout as shown to the coaching oracle.
type HistoryItem struct {
	Date         string  `json:"date"`
	DurationMins *int    `json:"duration_mins"`
	RPE          *int    `json:"rpe"`
	Feeling      *string `json:"feeling"`
}

// RecordItem is one personal record as shown to the coaching oracle.
type RecordItem struct {
	Exercise string `json:"exercise"`
	Type     string `json:"type"`
	Value    string `json:"value"`
	Date     string `json:"date"`
}

// Payload is the performance summary sent with coaching questions.
type Payload struct {
	TotalWorkouts   int           `json:"total_workouts"`
	StreakDays      int           `json:"streak_days"`
	AvgRPE          *float64      `json:"avg_rpe"`
	WorkoutHistory  []HistoryItem `json:"workout_history"`
	PersonalRecords []RecordItem  `json:"personal_records"`
}

// PerformancePayload builds the coaching payload: the 20 most recent workouts, the average
// effort over those that recorded one, and the 10 most recent personal records.
func PerformancePayload(results []models.WorkoutResult, records []models.PersonalRecord, now time.Time) Payload {
	loc := now.Location()
	p := Payload{
		TotalWorkouts:   len(results),
		StreakDays:      Streak(results, now),
		WorkoutHistory:  []HistoryItem{},
		PersonalRecords: []RecordItem{},
	}

	recent := newestFirst(results)
	if len(recent) > PayloadHistoryLimit {
		recent = recent[:PayloadHistoryLimit]
	}
	for _, r := range recent {
		item := HistoryItem{
			Date: r.CompletedAt.In(loc).Format(models.DateLayout),
			RPE:  r.PerceivedEffort,
		}
		if r.TotalDurationSeconds != nil {
			mins := *r.TotalDurationSeconds / 60
			item.DurationMins = &mins
		}
		if r.Feeling != nil {
			f := string(*r.Feeling)
			item.Feeling = &f
		}
		p.WorkoutHistory = append(p.WorkoutHistory, item)
	}

	if s := Summarize(results); s.EffortSamples > 0 {
		avg := s.AvgPerceivedEffort
		p.AvgRPE = &avg
	}

	for _, r := range RecentRecords(records, PayloadRecordLimit) {
		p.PersonalRecords = append(p.PersonalRecords, RecordItem{
			Exercise: r.ExerciseName,
			Type:     string(r.RecordType),
			Value:    r.RecordValue,
			Date:     r.AchievedAt.In(loc).Format(models.DateLayout),
		})
	}
	return p
}
