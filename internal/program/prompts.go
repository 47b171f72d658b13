package program

import (
	"fmt"
	"strings"

	"github.com/apatti/hyroxtrainer/internal/models"
	"github.com/apatti/hyroxtrainer/internal/oracle"
)

const parserSystemPrompt = `You are an expert fitness coach specialising in Hyrox training.
Your task is to turn workout program descriptions into structured JSON.

Hyrox is a fitness race that alternates running with functional workout stations:
- 8 x 1km runs
- SkiErg (1000m)
- Sled Push (50m)
- Sled Pull (50m)
- Burpee Broad Jumps (80m)
- Rowing (1000m)
- Farmers Carry (200m)
- Sandbag Lunges (100m)
- Wall Balls (100 reps for men, 75 for women)

When reading a program, identify:
1. Individual training days or sessions, numbered from day 1
2. Exercise names and types
3. Sets, reps, weight, distance and duration, copied as written (e.g. "10-12", "AMRAP", "50kg", "30 seconds")
4. Rest periods
5. Any special notes or instructions

Workout types: %s.
Exercise types: %s (race stations) or %s (general categories).

Always output valid JSON matching the requested schema.`

const parserUserPrompt = `Parse the following workout program into structured JSON.

Program Name: %s
Start Date: %s

Workout Text:
%s

Return a JSON object with this structure:
{
  "program": {
    "name": %q,
    "description": "Brief description of the program",
    "total_weeks": number or null,
    "total_days": number
  },
  "workouts": [
    {
      "day_number": 1,
      "week_number": 1 or null,
      "title": "Workout title",
      "workout_type": "%s",
      "description": "Brief description of this workout",
      "exercises": [
        {
          "exercise_order": 1,
          "exercise_name": "Exercise name",
          "exercise_type": "run|skierg|sled_push|etc",
          "sets": number or null,
          "reps": "10" or "10-12" or "AMRAP" or null,
          "weight": "50kg" or "bodyweight" or null,
          "distance": "1km" or null,
          "duration": "30 seconds" or null,
          "rest_period": "60 seconds" or null,
          "notes": "Any special instructions" or null
        }
      ]
    }
  ]
}

Calendar dates are computed from day numbers by the caller; do not include them.
Be thorough and capture every exercise mentioned.`

// SystemPrompt returns the fixed parser instructions.
func SystemPrompt() string {
	workoutTypes := make([]string, len(models.WorkoutTypes))
	for i, t := range models.WorkoutTypes {
		workoutTypes[i] = string(t)
	}
	stations := []string{string(models.ExerciseRun)}
	for _, t := range models.StationTypes {
		stations = append(stations, string(t))
	}
	general := make([]string, len(models.GeneralTypes))
	for i, t := range models.GeneralTypes {
		general[i] = string(t)
	}
	return fmt.Sprintf(parserSystemPrompt,
		strings.Join(workoutTypes, ", "),
		strings.Join(stations, ", "),
		strings.Join(general, ", "),
	)
}

// BuildRequest assembles the oracle request for one parse.
func BuildRequest(rawText, programName string, startDate *models.Date) oracle.Request {
	start := "not specified, use day numbers only"
	if startDate != nil && !startDate.IsZero() {
		start = startDate.String()
	}
	workoutTypes := make([]string, len(models.WorkoutTypes))
	for i, t := range models.WorkoutTypes {
		workoutTypes[i] = string(t)
	}
	return oracle.Request{
		System: SystemPrompt(),
		Prompt: fmt.Sprintf(parserUserPrompt,
			programName, start, rawText, programName, strings.Join(workoutTypes, "|")),
		JSON: true,
	}
}
