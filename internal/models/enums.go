package models

import "strings"

// WorkoutType classifies a scheduled workout.
type WorkoutType string

const (
	WorkoutStrength       WorkoutType = "strength"
	WorkoutRunning        WorkoutType = "running"
	WorkoutRaceSimulation WorkoutType = "race_simulation"
	WorkoutRecovery       WorkoutType = "recovery"
	WorkoutMixed          WorkoutType = "mixed"
)

// WorkoutTypes lists every recognised workout type.
var WorkoutTypes = []WorkoutType{
	WorkoutStrength, WorkoutRunning, WorkoutRaceSimulation, WorkoutRecovery, WorkoutMixed,
}

func (t WorkoutType) Known() bool {
	for _, k := range WorkoutTypes {
		if t == k {
			return true
		}
	}
	return false
}

// ExerciseType is either a race station or a general training category.
type ExerciseType string

// Race stations.
const (
	ExerciseRun             ExerciseType = "run"
	ExerciseSkiErg          ExerciseType = "skierg"
	ExerciseSledPush        ExerciseType = "sled_push"
	ExerciseSledPull        ExerciseType = "sled_pull"
	ExerciseBurpeeBroadJump ExerciseType = "burpee_broad_jump"
	ExerciseRowing          ExerciseType = "rowing"
	ExerciseFarmersCarry    ExerciseType = "farmers_carry"
	ExerciseSandbagLunges   ExerciseType = "sandbag_lunges"
	ExerciseWallBalls       ExerciseType = "wall_balls"
)

// General categories.
const (
	ExerciseStrength ExerciseType = "strength"
	ExerciseCardio   ExerciseType = "cardio"
	ExerciseMobility ExerciseType = "mobility"
	ExerciseRecovery ExerciseType = "recovery"
)

// StationTypes are the race-specific exercise types, in race order (runs excluded).
var StationTypes = []ExerciseType{
	ExerciseSkiErg, ExerciseSledPush, ExerciseSledPull, ExerciseBurpeeBroadJump,
	ExerciseRowing, ExerciseFarmersCarry, ExerciseSandbagLunges, ExerciseWallBalls,
}

// GeneralTypes are the non-station exercise categories.
var GeneralTypes = []ExerciseType{
	ExerciseStrength, ExerciseCardio, ExerciseMobility, ExerciseRecovery,
}

func (t ExerciseType) Known() bool {
	if t == ExerciseRun {
		return true
	}
	for _, k := range StationTypes {
		if t == k {
			return true
		}
	}
	for _, k := range GeneralTypes {
		if t == k {
			return true
		}
	}
	return false
}

// IsStation reports whether t is one of the eight race stations.
func (t ExerciseType) IsStation() bool {
	for _, k := range StationTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Feeling is the athlete's self-reported state after a workout.
type Feeling string

const (
	FeelingGreat     Feeling = "great"
	FeelingGood      Feeling = "good"
	FeelingOkay      Feeling = "okay"
	FeelingTired     Feeling = "tired"
	FeelingExhausted Feeling = "exhausted"
)

func (f Feeling) Known() bool {
	switch f {
	case FeelingGreat, FeelingGood, FeelingOkay, FeelingTired, FeelingExhausted:
		return true
	default:
		return false
	}
}

// RecordType is the dimension a personal record is measured in.
type RecordType string

const (
	RecordTime     RecordType = "time"
	RecordWeight   RecordType = "weight"
	RecordReps     RecordType = "reps"
	RecordDistance RecordType = "distance"
)

func (r RecordType) Known() bool {
	switch r {
	case RecordTime, RecordWeight, RecordReps, RecordDistance:
		return true
	default:
		return false
	}
}

// Division is the race category entered.
type Division string

const (
	DivisionOpen    Division = "open"
	DivisionPro     Division = "pro"
	DivisionDoubles Division = "doubles"
)

func (d Division) Known() bool {
	switch d {
	case DivisionOpen, DivisionPro, DivisionDoubles:
		return true
	default:
		return false
	}
}

// normalizeToken lower-cases and trims an enumerated value for matching.
func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Common spellings that map onto a canonical value.
var (
	workoutTypeAliases = map[string]WorkoutType{
		"hyrox_simulation": WorkoutRaceSimulation,
		"race simulation":  WorkoutRaceSimulation,
		"run":              WorkoutRunning,
	}
	exerciseTypeAliases = map[string]ExerciseType{
		"ski_erg":            ExerciseSkiErg,
		"ski erg":            ExerciseSkiErg,
		"burpee_broad_jumps": ExerciseBurpeeBroadJump,
		"row":                ExerciseRowing,
		"farmers_walk":       ExerciseFarmersCarry,
		"sandbag_lunge":      ExerciseSandbagLunges,
		"wall_ball":          ExerciseWallBalls,
		"wallballs":          ExerciseWallBalls,
		"running":            ExerciseRun,
	}
)

// CanonicalWorkoutType returns the canonical enum value for s and whether it is recognised.
// Unrecognised values are returned trimmed but otherwise verbatim.
func CanonicalWorkoutType(s string) (WorkoutType, bool) {
	t := WorkoutType(normalizeToken(s))
	if alias, ok := workoutTypeAliases[string(t)]; ok {
		return alias, true
	}
	if t.Known() {
		return t, true
	}
	return WorkoutType(strings.TrimSpace(s)), false
}

// CanonicalExerciseType returns the canonical enum value for s and whether it is recognised.
func CanonicalExerciseType(s string) (ExerciseType, bool) {
	t := ExerciseType(normalizeToken(s))
	if alias, ok := exerciseTypeAliases[string(t)]; ok {
		return alias, true
	}
	if t.Known() {
		return t, true
	}
	return ExerciseType(strings.TrimSpace(s)), false
}
