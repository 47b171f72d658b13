package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// PlanDocument is the structured form of a training program: the shape the oracle is asked to
// produce, and the output of the program parser.
type PlanDocument struct {
	Program  PlanProgram   `json:"program"`
	Workouts []PlanWorkout `json:"workouts"`
	Warnings []string      `json:"warnings,omitempty"`
}

type PlanProgram struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	TotalWeeks  OptionalInt `json:"total_weeks"`
	TotalDays   OptionalInt `json:"total_days"`
	StartDate   *Date       `json:"start_date,omitempty"`
	RawInput    string      `json:"raw_input,omitempty"`
}

type PlanWorkout struct {
	DayNumber     OptionalInt    `json:"day_number"`
	WeekNumber    OptionalInt    `json:"week_number"`
	ScheduledDate *Date          `json:"scheduled_date,omitempty"`
	Title         string         `json:"title"`
	WorkoutType   WorkoutType    `json:"workout_type"`
	Description   string         `json:"description"`
	Exercises     []PlanExercise `json:"exercises"`
}

// DisplayWeek returns the stored week number, or the week derived from the day number.
func (w PlanWorkout) DisplayWeek() int {
	if w.WeekNumber.Valid {
		return w.WeekNumber.Value
	}
	if !w.DayNumber.Valid {
		return 0
	}
	return WeekOf(w.DayNumber.Value)
}

type PlanExercise struct {
	ExerciseOrder OptionalInt  `json:"exercise_order"`
	ExerciseName  string       `json:"exercise_name"`
	ExerciseType  ExerciseType `json:"exercise_type"`
	Sets          OptionalInt  `json:"sets"`
	Reps          FreeText     `json:"reps,omitempty"`
	Weight        FreeText     `json:"weight,omitempty"`
	Distance      FreeText     `json:"distance,omitempty"`
	Duration      FreeText     `json:"duration,omitempty"`
	RestPeriod    FreeText     `json:"rest_period,omitempty"`
	Notes         FreeText     `json:"notes,omitempty"`
}

// WeekOf returns the 1-based week a 1-based program day falls in.
func WeekOf(day int) int {
	if day < 1 {
		return 0
	}
	return (day-1)/7 + 1
}

// FreeText is a prescription value kept exactly as written ("3x10", "AMRAP", "60s").
// Numbers and booleans in the source JSON are kept as their literal text.
type FreeText string

func (t *FreeText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = FreeText(s)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return err
	}
	*t = FreeText(buf.String())
	return nil
}

// Ptr returns nil for empty text, for nullable columns.
func (t FreeText) Ptr() *string {
	if t == "" {
		return nil
	}
	s := string(t)
	return &s
}

// OptionalInt is an integer that may be absent. It decodes JSON numbers and numeric strings;
// any other value decodes as absent.
type OptionalInt struct {
	Value int
	Valid bool
}

// Int returns a present OptionalInt.
func Int(v int) OptionalInt { return OptionalInt{Value: v, Valid: true} }

// IntFromPtr converts a nullable column into an OptionalInt.
func IntFromPtr(p *int) OptionalInt {
	if p == nil {
		return OptionalInt{}
	}
	return Int(*p)
}

// Ptr returns nil when the value is absent.
func (o OptionalInt) Ptr() *int {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, int64(o.Value), 10), nil
}

func (o *OptionalInt) UnmarshalJSON(b []byte) error {
	*o = OptionalInt{}
	s := strings.TrimSpace(string(b))
	if s == "null" || s == "" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal([]byte(s), &str); err != nil {
			return nil
		}
		s = strings.TrimSpace(str)
	}
	if n, err := strconv.Atoi(s); err == nil {
		*o = Int(n)
		return nil
	}
	// Whole floats inside the int range only; anything else is absent.
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && f >= math.MinInt && f < math.MaxInt {
		*o = Int(int(f))
	}
	return nil
}
