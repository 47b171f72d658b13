package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/apatti/hyroxtrainer/internal/models"
	"github.com/apatti/hyroxtrainer/internal/program"
)

// SavedPlan is the stored form of a plan document.
type SavedPlan struct {
	Program  models.Program   `json:"program"`
	Workouts []models.Workout `json:"workouts"`
	Warnings []string         `json:"warnings,omitempty"`
}

// SavePlan stores a validated plan: the program row, then each workout followed by a batch
// insert of its exercises. The steps are not wrapped in a transaction. If a step after the
// program insert fails, the rows written so far stay and a *PartialSaveError describes them.
func (db *DB) SavePlan(ctx context.Context, doc models.PlanDocument) (*SavedPlan, error) {
	p, err := db.CreateProgram(ctx, models.Program{
		Name:        doc.Program.Name,
		Description: doc.Program.Description,
		RawInput:    doc.Program.RawInput,
		StartDate:   doc.Program.StartDate,
		EndDate:     program.EndDate(doc),
	})
	if err != nil {
		return nil, err
	}

	saved := &SavedPlan{Program: *p, Workouts: []models.Workout{}, Warnings: doc.Warnings}
	for i, pw := range doc.Workouts {
		w, err := db.CreateWorkout(ctx, models.Workout{
			ProgramID:     p.ID,
			DayNumber:     pw.DayNumber.Value,
			WeekNumber:    pw.WeekNumber.Ptr(),
			ScheduledDate: pw.ScheduledDate,
			Title:         pw.Title,
			WorkoutType:   pw.WorkoutType,
			Description:   pw.Description,
		})
		if err != nil {
			return saved, &PartialSaveError{ProgramID: p.ID, WorkoutsSaved: i, Err: err}
		}

		if _, err := db.InsertExercises(ctx, planExercises(w.ID, pw.Exercises)); err != nil {
			return saved, &PartialSaveError{
				ProgramID:           p.ID,
				WorkoutsSaved:       i,
				IncompleteWorkoutID: w.ID,
				Err:                 fmt.Errorf("exercises of day %d: %w", pw.DayNumber.Value, err),
			}
		}
		saved.Workouts = append(saved.Workouts, *w)
	}
	return saved, nil
}

func planExercises(workoutID uuid.UUID, in []models.PlanExercise) []models.Exercise {
	out := make([]models.Exercise, 0, len(in))
	for j, pe := range in {
		order := pe.ExerciseOrder.Value
		if !pe.ExerciseOrder.Valid {
			order = j + 1
		}
		out = append(out, models.Exercise{
			WorkoutID:     workoutID,
			ExerciseOrder: order,
			ExerciseName:  pe.ExerciseName,
			ExerciseType:  pe.ExerciseType,
			Sets:          pe.Sets.Ptr(),
			Reps:          pe.Reps.Ptr(),
			Weight:        pe.Weight.Ptr(),
			Distance:      pe.Distance.Ptr(),
			Duration:      pe.Duration.Ptr(),
			RestPeriod:    pe.RestPeriod.Ptr(),
			Notes:         pe.Notes.Ptr(),
		})
	}
	return out
}
