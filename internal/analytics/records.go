package analytics

import (
	"sort"

	"github.com/apatti/hyroxtrainer/internal/models"
)

// RecordGroup is the personal records of one exercise type, newest first.
type RecordGroup struct {
	ExerciseType models.ExerciseType     `json:"exercise_type"`
	Records      []models.PersonalRecord `json:"records"`
}

// GroupRecords groups records by exercise type. Groups are ordered by type name.
func GroupRecords(records []models.PersonalRecord) []RecordGroup {
	byType := make(map[models.ExerciseType][]models.PersonalRecord)
	for _, r := range records {
		byType[r.ExerciseType] = append(byType[r.ExerciseType], r)
	}
	out := make([]RecordGroup, 0, len(byType))
	for t, rs := range byType {
		sortRecords(rs)
		out = append(out, RecordGroup{ExerciseType: t, Records: rs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExerciseType < out[j].ExerciseType })
	return out
}

// RecentRecords returns up to n records, most recently achieved first.
func RecentRecords(records []models.PersonalRecord, n int) []models.PersonalRecord {
	sorted := make([]models.PersonalRecord, len(records))
	copy(sorted, records)
	sortRecords(sorted)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func sortRecords(rs []models.PersonalRecord) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].AchievedAt.Equal(rs[j].AchievedAt) {
			return rs[i].AchievedAt.After(rs[j].AchievedAt)
		}
		return rs[i].ID.String() < rs[j].ID.String()
	})
}

// TypeCount is how many workouts of one type a program schedules.
type TypeCount struct {
	WorkoutType models.WorkoutType `json:"workout_type"`
	Count       int                `json:"count"`
}

// WorkoutTypeDistribution counts a program's workouts by type, most frequent first.
func WorkoutTypeDistribution(workouts []models.Workout) []TypeCount {
	counts := make(map[models.WorkoutType]int)
	for _, w := range workouts {
		counts[w.WorkoutType]++
	}
	out := make([]TypeCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, TypeCount{WorkoutType: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].WorkoutType < out[j].WorkoutType
	})
	return out
}
