// Package analytics computes training summaries from recorded results. Every function is pure
// and gives the same answer for any ordering of its input.
package analytics

import (
	"sort"
	"time"

	"github.com/apatti/hyroxtrainer/internal/models"
)

// Summary holds headline totals over a set of workout results.
type Summary struct {
	TotalWorkouts        int     `json:"total_workouts"`
	TotalDurationSeconds int     `json:"total_duration_seconds"`
	TotalHours           float64 `json:"total_hours"`
	AvgPerceivedEffort   float64 `json:"avg_perceived_effort"`
	EffortSamples        int     `json:"effort_samples"`
}

// Summarize totals results. Missing durations count as zero; the average effort covers only
// results that recorded one and is zero when none did.
func Summarize(results []models.WorkoutResult) Summary {
	s := Summary{TotalWorkouts: len(results)}
	effortSum := 0
	for _, r := range results {
		if r.TotalDurationSeconds != nil {
			s.TotalDurationSeconds += *r.TotalDurationSeconds
		}
		if r.PerceivedEffort != nil {
			effortSum += *r.PerceivedEffort
			s.EffortSamples++
		}
	}
	s.TotalHours = round1(float64(s.TotalDurationSeconds) / 3600)
	if s.EffortSamples > 0 {
		s.AvgPerceivedEffort = round1(float64(effortSum) / float64(s.EffortSamples))
	}
	return s
}

// CompletionDates returns the distinct calendar dates, observed in loc, on which at least one
// workout was completed, in ascending order.
func CompletionDates(results []models.WorkoutResult, loc *time.Location) []models.Date {
	seen := make(map[models.Date]bool, len(results))
	var dates []models.Date
	for _, r := range results {
		d := models.DateOf(r.CompletedAt.In(loc))
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Streak returns the number of consecutive training days ending at the most recent one. The
// streak is broken, and zero, unless that day is today or yesterday relative to now. Dates are
// taken in now's location; completions dated after today are ignored.
func Streak(results []models.WorkoutResult, now time.Time) int {
	loc := now.Location()
	today := models.DateOf(now)
	dates := CompletionDates(results, loc)
	for len(dates) > 0 && dates[len(dates)-1].After(today) {
		dates = dates[:len(dates)-1]
	}
	if len(dates) == 0 {
		return 0
	}

	last := dates[len(dates)-1]
	if !last.Equal(today) && !last.Equal(today.AddDays(-1)) {
		return 0
	}

	streak := 1
	for i := len(dates) - 1; i > 0; i-- {
		if dates[i].DaysSince(dates[i-1]) != 1 {
			break
		}
		streak++
	}
	return streak
}

// WeekCount is the number of workouts completed in one ISO week.
type WeekCount struct {
	Year     int `json:"year"`
	Week     int `json:"week"`
	Workouts int `json:"workouts"`
}

// WeeklyCounts groups results by ISO year and week, oldest first.
func WeeklyCounts(results []models.WorkoutResult, loc *time.Location) []WeekCount {
	type key struct{ year, week int }
	counts := make(map[key]int)
	for _, r := range results {
		y, w := r.CompletedAt.In(loc).ISOWeek()
		counts[key{y, w}]++
	}
	out := make([]WeekCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, WeekCount{Year: k.year, Week: k.week, Workouts: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Week < out[j].Week
	})
	return out
}

// DayMinutes is the total training time on one calendar date.
type DayMinutes struct {
	Date    models.Date `json:"date"`
	Minutes float64     `json:"minutes"`
}

// DailyMinutes sums recorded durations per calendar date, oldest first.
func DailyMinutes(results []models.WorkoutResult, loc *time.Location) []DayMinutes {
	seconds := make(map[models.Date]int)
	for _, r := range results {
		d := models.DateOf(r.CompletedAt.In(loc))
		if r.TotalDurationSeconds != nil {
			seconds[d] += *r.TotalDurationSeconds
		} else if _, ok := seconds[d]; !ok {
			seconds[d] = 0
		}
	}
	out := make([]DayMinutes, 0, len(seconds))
	for d, s := range seconds {
		out = append(out, DayMinutes{Date: d, Minutes: round1(float64(s) / 60)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// EffortPoint is one perceived-effort rating at its completion time.
type EffortPoint struct {
	CompletedAt time.Time `json:"completed_at"`
	Effort      int       `json:"effort"`
}

// EffortTrend returns every recorded effort rating in time order.
func EffortTrend(results []models.WorkoutResult) []EffortPoint {
	var out []EffortPoint
	for _, r := range results {
		if r.PerceivedEffort == nil {
			continue
		}
		out = append(out, EffortPoint{CompletedAt: r.CompletedAt, Effort: *r.PerceivedEffort})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CompletedAt.Equal(out[j].CompletedAt) {
			return out[i].CompletedAt.Before(out[j].CompletedAt)
		}
		return out[i].Effort < out[j].Effort
	})
	return out
}

// newestFirst orders results by completion time descending, breaking ties by id.
func newestFirst(results []models.WorkoutResult) []models.WorkoutResult {
	sorted := make([]models.WorkoutResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].CompletedAt.Equal(sorted[j].CompletedAt) {
			return sorted[i].CompletedAt.After(sorted[j].CompletedAt)
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})
	return sorted
}

func round1(v float64) float64 {
	if v < 0 {
		return -round1(-v)
	}
	return float64(int64(v*10+0.5)) / 10
}
