// Package coaching asks the text oracle for narrative training advice.
package coaching

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/apatti/hyroxtrainer/internal/analytics"
	"github.com/apatti/hyroxtrainer/internal/models"
	"github.com/apatti/hyroxtrainer/internal/oracle"
)

const systemPrompt = `You are an expert Hyrox coach providing personalised training guidance.
Your role is to analyse workout performance data and give actionable insights.

Consider:
1. Progress trends over time
2. Weaknesses in specific Hyrox stations
3. Recovery and training balance
4. Race preparation strategies
5. Technique improvements

Be encouraging but honest. Give specific, actionable recommendations.
Keep responses concise and focused on the most important insights.`

// Coach produces coaching narratives. The only contract on the oracle's answer is that it is
// not blank.
type Coach struct {
	oracle oracle.Completer
	log    *slog.Logger
}

func New(c oracle.Completer, logger *slog.Logger) *Coach {
	return &Coach{oracle: c, log: logger}
}

// Insights analyses overall training performance, optionally answering a specific question.
func (c *Coach) Insights(ctx context.Context, payload analytics.Payload, question string) (string, error) {
	var b strings.Builder
	b.WriteString("Analyse this Hyrox training performance data and give coaching insights:\n\n")
	writeJSON(&b, "Performance Data", payload)
	if q := strings.TrimSpace(question); q != "" {
		fmt.Fprintf(&b, "User Question: %s\n\n", q)
	} else {
		b.WriteString("Give a general analysis with key insights and recommendations.\n\n")
	}
	b.WriteString(`Focus on:
1. Overall progress assessment
2. Strongest and weakest areas
3. Top 3 specific recommendations for improvement
4. Any concerns or areas needing attention

Keep the response under 500 words and format it with clear sections.`)
	return c.ask(ctx, "insights", b.String())
}

// WorkoutGuidance advises on an upcoming workout, using past results of the same exercises
// when there are any.
func (c *Coach) WorkoutGuidance(ctx context.Context, workout models.Workout, exercises []models.Exercise, past []models.ExerciseHistoryEntry) (string, error) {
	var b strings.Builder
	b.WriteString("Give guidance for today's workout:\n\n")
	writeJSON(&b, "Workout Details", struct {
		models.Workout
		Exercises []models.Exercise `json:"exercises"`
	}{workout, exercises})
	if len(past) > 0 {
		writeJSON(&b, "Past Performance for Similar Exercises", past)
	} else {
		b.WriteString("No past performance data available.\n\n")
	}
	b.WriteString(`Provide:
1. Brief warm-up recommendations
2. Pacing strategy for this workout
3. Key technique focus points
4. Target metrics based on past performance (if available)
5. Post-workout recovery tips

Keep the response concise and actionable.`)
	return c.ask(ctx, "workout_guidance", b.String())
}

// RaceAnalysis reviews a race result against recent training.
func (c *Coach) RaceAnalysis(ctx context.Context, race models.RaceResult, history *analytics.Payload) (string, error) {
	var b strings.Builder
	b.WriteString("Analyse this Hyrox race performance:\n\n")
	writeJSON(&b, "Race Result", race)
	writeJSON(&b, "Split Breakdown", analytics.StationSplits(race))
	if history != nil {
		writeJSON(&b, "Recent Training History", history)
	}
	b.WriteString(`Provide:
1. Overall race analysis
2. Station-by-station breakdown (identify fastest and slowest)
3. Transition time analysis
4. Comparison to typical Hyrox benchmarks
5. Specific training focus areas for the next race
6. Predicted improvement areas with targeted training

Format clearly with sections.`)
	return c.ask(ctx, "race_analysis", b.String())
}

// ReviewProgram critiques a training program's structure and balance.
func (c *Coach) ReviewProgram(ctx context.Context, program models.Program, workouts []models.Workout) (string, error) {
	var b strings.Builder
	b.WriteString("Review this Hyrox training program:\n\n")
	writeJSON(&b, "Program", struct {
		Name         string                `json:"name"`
		Description  string                `json:"description"`
		StartDate    *models.Date          `json:"start_date"`
		TotalDays    int                   `json:"total_days"`
		Distribution []analytics.TypeCount `json:"workout_types"`
		Workouts     []models.Workout      `json:"workouts"`
	}{program.Name, program.Description, program.StartDate, len(workouts), analytics.WorkoutTypeDistribution(workouts), workouts})
	b.WriteString(`Assess:
1. Whether the program prepares for all eight stations and the running volume
2. Balance between intensity, strength and recovery
3. Progression across the weeks
4. The two or three most valuable changes

Keep the response concise and format it with clear sections.`)
	return c.ask(ctx, "program_review", b.String())
}

func (c *Coach) ask(ctx context.Context, kind, prompt string) (string, error) {
	text, err := c.oracle.Complete(ctx, oracle.Request{System: systemPrompt, Prompt: prompt})
	if err != nil {
		c.log.Warn("coaching request failed", "kind", kind, "error", err)
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &oracle.ResponseError{Reason: "coaching response is empty"}
	}
	return text, nil
}

func writeJSON(b *strings.Builder, label string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		data = []byte(fmt.Sprintf("%q", err.Error()))
	}
	fmt.Fprintf(b, "%s:\n%s\n\n", label, data)
}
