package program

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/apatti/hyroxtrainer/internal/models"
)

func validDoc() models.PlanDocument {
	return models.PlanDocument{
		Program: models.PlanProgram{Name: "  Hyrox 8 Week  ", Description: " build "},
		Workouts: []models.PlanWorkout{
			{
				DayNumber:   models.Int(2),
				Title:       " Intervals ",
				WorkoutType: "Running",
				Exercises: []models.PlanExercise{
					{ExerciseName: "1km repeats", ExerciseType: "RUN", Sets: models.Int(4), Distance: " 1km "},
				},
			},
			{
				DayNumber:   models.Int(1),
				Title:       "Stations",
				WorkoutType: "hyrox_simulation",
				Exercises: []models.PlanExercise{
					{ExerciseOrder: models.Int(3), ExerciseName: "C", ExerciseType: "wall_balls", Reps: "AMRAP"},
					{ExerciseOrder: models.Int(1), ExerciseName: "A", ExerciseType: "SkiErg"},
					{ExerciseName: "B", ExerciseType: "burpees"},
				},
			},
		},
	}
}

// TestValidate_RejectsMissingRequiredFields checks each structural failure and its path.
func TestValidate_RejectsMissingRequiredFields(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*models.PlanDocument)
		wantPath string
	}{
		{"blank program name", func(d *models.PlanDocument) { d.Program.Name = "   " }, "program.name"},
		{"missing day number", func(d *models.PlanDocument) { d.Workouts[1].DayNumber = models.OptionalInt{} }, "workouts[1].day_number"},
		{"day zero", func(d *models.PlanDocument) { d.Workouts[0].DayNumber = models.Int(0) }, "workouts[0].day_number"},
		{"duplicate day", func(d *models.PlanDocument) { d.Workouts[1].DayNumber = models.Int(2) }, "workouts[1].day_number"},
		{"blank exercise name", func(d *models.PlanDocument) { d.Workouts[0].Exercises[0].ExerciseName = "" }, "workouts[1].exercises[0].exercise_name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := validDoc()
			tc.mutate(&doc)
			_, err := Validate(doc)
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("Validate() error = %v, want *SchemaError", err)
			}
			if se.Path != tc.wantPath {
				t.Errorf("SchemaError.Path = %q, want %q", se.Path, tc.wantPath)
			}
		})
	}
}

// TestValidate_Normalises verifies trimming, enum canonicalisation, day ordering and
// sequential exercise orders that follow the input array order.
func TestValidate_Normalises(t *testing.T) {
	got, err := Validate(validDoc())
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	if got.Program.Name != "Hyrox 8 Week" {
		t.Errorf("program name = %q, want trimmed", got.Program.Name)
	}
	if got.Workouts[0].DayNumber.Value != 1 || got.Workouts[1].DayNumber.Value != 2 {
		t.Fatalf("workouts not sorted by day: %d, %d", got.Workouts[0].DayNumber.Value, got.Workouts[1].DayNumber.Value)
	}
	if got.Workouts[0].WorkoutType != models.WorkoutRaceSimulation {
		t.Errorf("workout type = %q, want %q", got.Workouts[0].WorkoutType, models.WorkoutRaceSimulation)
	}
	if got.Workouts[1].WorkoutType != models.WorkoutRunning {
		t.Errorf("workout type = %q, want %q", got.Workouts[1].WorkoutType, models.WorkoutRunning)
	}
	if got.Workouts[1].Exercises[0].Distance != "1km" {
		t.Errorf("distance = %q, want trimmed 1km", got.Workouts[1].Exercises[0].Distance)
	}

	stations := got.Workouts[0].Exercises
	wantNames := []string{"C", "A", "B"}
	for i, ex := range stations {
		if ex.ExerciseName != wantNames[i] {
			t.Errorf("exercise %d name = %q, want %q", i, ex.ExerciseName, wantNames[i])
		}
		if ex.ExerciseOrder != models.Int(i+1) {
			t.Errorf("exercise %q order = %+v, want %d", ex.ExerciseName, ex.ExerciseOrder, i+1)
		}
	}
	if stations[1].ExerciseType != models.ExerciseSkiErg {
		t.Errorf("exercise type = %q, want skierg", stations[1].ExerciseType)
	}
	if stations[2].ExerciseType != "burpees" {
		t.Errorf("unknown exercise type = %q, want preserved verbatim", stations[2].ExerciseType)
	}
	if stations[0].Reps != "AMRAP" {
		t.Errorf("reps = %q, want AMRAP unchanged", stations[0].Reps)
	}
}

// TestValidate_FlagsUnknownTypes verifies that unknown enum values become warnings, not errors.
func TestValidate_FlagsUnknownTypes(t *testing.T) {
	got, err := Validate(validDoc())
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if len(got.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", got.Warnings)
	}
	want := `workouts[0].exercises[2].exercise_type: unrecognised value "burpees"`
	if got.Warnings[0] != want {
		t.Errorf("warning = %q, want %q", got.Warnings[0], want)
	}
}

// TestValidate_Idempotent verifies Validate(Validate(d)) == Validate(d).
func TestValidate_Idempotent(t *testing.T) {
	once, err := Validate(validDoc())
	if err != nil {
		t.Fatalf("first Validate() error: %v", err)
	}
	twice, err := Validate(once)
	if err != nil {
		t.Fatalf("second Validate() error: %v", err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Validate is not idempotent:\nonce  = %+v\ntwice = %+v", once, twice)
	}
}

// TestValidate_DoesNotModifyInput verifies the caller's document is left untouched.
func TestValidate_DoesNotModifyInput(t *testing.T) {
	doc := validDoc()
	if _, err := Validate(doc); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if doc.Workouts[0].DayNumber.Value != 2 {
		t.Error("input workouts were reordered")
	}
	if doc.Workouts[1].Exercises[0].ExerciseOrder != models.Int(3) {
		t.Error("input exercise order was rewritten")
	}
	if !strings.HasPrefix(doc.Program.Name, "  ") {
		t.Error("input program name was trimmed")
	}
}

// TestValidate_EmptyWorkoutList accepts a program with no workouts.
func TestValidate_EmptyWorkoutList(t *testing.T) {
	got, err := Validate(models.PlanDocument{Program: models.PlanProgram{Name: "Rest month"}})
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if len(got.Workouts) != 0 {
		t.Errorf("workouts = %d, want 0", len(got.Workouts))
	}
}
