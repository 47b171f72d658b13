// Package program turns free-text training programs into validated, scheduled plan documents.
package program

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apatti/hyroxtrainer/internal/models"
)

// SchemaError reports a plan document that cannot be normalised.
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid plan: %s: %s", e.Path, e.Reason)
}

// Validate checks a candidate plan document and returns its canonical form. The input is not
// modified. Unrecognised workout and exercise types are kept verbatim and reported in
// Warnings; structural problems are returned as a *SchemaError.
//
// Validate is idempotent: validating its own output returns an identical document.
func Validate(doc models.PlanDocument) (models.PlanDocument, error) {
	out := models.PlanDocument{
		Program:  doc.Program,
		Warnings: append([]string(nil), doc.Warnings...),
	}
	out.Program.Name = strings.TrimSpace(out.Program.Name)
	out.Program.Description = strings.TrimSpace(out.Program.Description)
	if out.Program.Name == "" {
		return models.PlanDocument{}, &SchemaError{Path: "program.name", Reason: "is required"}
	}

	seen := make(map[int]int, len(doc.Workouts))
	for i, w := range doc.Workouts {
		path := fmt.Sprintf("workouts[%d].day_number", i)
		if !w.DayNumber.Valid {
			return models.PlanDocument{}, &SchemaError{Path: path, Reason: "is required"}
		}
		if w.DayNumber.Value < 1 {
			return models.PlanDocument{}, &SchemaError{Path: path, Reason: fmt.Sprintf("must be at least 1, got %d", w.DayNumber.Value)}
		}
		if j, dup := seen[w.DayNumber.Value]; dup {
			return models.PlanDocument{}, &SchemaError{Path: path, Reason: fmt.Sprintf("day %d already used by workouts[%d]", w.DayNumber.Value, j)}
		}
		seen[w.DayNumber.Value] = i
	}

	workouts := make([]models.PlanWorkout, len(doc.Workouts))
	copy(workouts, doc.Workouts)
	sort.SliceStable(workouts, func(a, b int) bool {
		return workouts[a].DayNumber.Value < workouts[b].DayNumber.Value
	})

	var warnings []string
	for i := range workouts {
		w, warn, err := normalizeWorkout(i, workouts[i])
		if err != nil {
			return models.PlanDocument{}, err
		}
		workouts[i] = w
		warnings = append(warnings, warn...)
	}
	out.Workouts = workouts

	for _, w := range warnings {
		out.Warnings = appendUnique(out.Warnings, w)
	}
	return out, nil
}

func normalizeWorkout(i int, w models.PlanWorkout) (models.PlanWorkout, []string, error) {
	var warnings []string
	prefix := fmt.Sprintf("workouts[%d]", i)

	w.Title = strings.TrimSpace(w.Title)
	w.Description = strings.TrimSpace(w.Description)

	wt, known := models.CanonicalWorkoutType(string(w.WorkoutType))
	w.WorkoutType = wt
	if !known && wt != "" {
		warnings = append(warnings, fmt.Sprintf("%s.workout_type: unrecognised value %q", prefix, wt))
	}

	exercises := make([]models.PlanExercise, len(w.Exercises))
	for j, ex := range w.Exercises {
		path := fmt.Sprintf("%s.exercises[%d]", prefix, j)
		ex.ExerciseName = strings.TrimSpace(ex.ExerciseName)
		if ex.ExerciseName == "" {
			return w, nil, &SchemaError{Path: path + ".exercise_name", Reason: "is required"}
		}
		ex.ExerciseOrder = models.Int(j + 1)

		et, known := models.CanonicalExerciseType(string(ex.ExerciseType))
		ex.ExerciseType = et
		if !known && et != "" {
			warnings = append(warnings, fmt.Sprintf("%s.exercise_type: unrecognised value %q", path, et))
		}

		ex.Reps = trimText(ex.Reps)
		ex.Weight = trimText(ex.Weight)
		ex.Distance = trimText(ex.Distance)
		ex.Duration = trimText(ex.Duration)
		ex.RestPeriod = trimText(ex.RestPeriod)
		ex.Notes = trimText(ex.Notes)
		exercises[j] = ex
	}
	w.Exercises = exercises
	return w, warnings, nil
}

func trimText(t models.FreeText) models.FreeText {
	return models.FreeText(strings.TrimSpace(string(t)))
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
