package program

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/apatti/hyroxtrainer/internal/models"
	"github.com/apatti/hyroxtrainer/internal/oracle"
)

var tracer = otel.Tracer("hyroxtrainer/program")

// ErrEmptyInput is returned when there is no program text to parse.
var ErrEmptyInput = errors.New("program text is empty")

// Parser converts raw program text into a validated plan document using a text oracle.
// It never persists anything.
type Parser struct {
	oracle oracle.Completer
	log    *slog.Logger
}

// NewParser creates a Parser backed by c.
func NewParser(c oracle.Completer, logger *slog.Logger) *Parser {
	return &Parser{oracle: c, log: logger}
}

// Parse sends rawText to the oracle, validates the returned document and resolves calendar
// dates from startDate. Oracle errors are returned unchanged; an unparseable completion is an
// *oracle.ResponseError and an invalid document a *SchemaError.
func (p *Parser) Parse(ctx context.Context, rawText, programName string, startDate *models.Date) (*models.PlanDocument, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, ErrEmptyInput
	}

	ctx, span := tracer.Start(ctx, "program.parse")
	defer span.End()
	span.SetAttributes(
		attribute.String("program.name", programName),
		attribute.Int("program.raw_bytes", len(rawText)),
	)

	text, err := p.oracle.Complete(ctx, BuildRequest(rawText, programName, startDate))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		p.log.Warn("oracle completion failed", "program", programName, "error", err)
		return nil, err
	}

	doc, err := DecodePlan(text)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		p.log.Warn("oracle returned unparseable plan", "program", programName, "error", err)
		return nil, err
	}
	if strings.TrimSpace(doc.Program.Name) == "" {
		doc.Program.Name = programName
	}

	valid, err := Validate(doc)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	ApplySchedule(&valid, startDate)
	valid.Program.RawInput = rawText
	if startDate != nil && !startDate.IsZero() {
		sd := *startDate
		valid.Program.StartDate = &sd
	} else {
		valid.Program.StartDate = nil
	}

	span.SetAttributes(
		attribute.Int("program.workouts", len(valid.Workouts)),
		attribute.Int("program.warnings", len(valid.Warnings)),
	)
	p.log.Info("parsed program", "program", valid.Program.Name,
		"workouts", len(valid.Workouts), "warnings", len(valid.Warnings))
	return &valid, nil
}

// DecodePlan strips code fences from an oracle completion and decodes the plan document.
func DecodePlan(text string) (models.PlanDocument, error) {
	body := StripCodeFence(text)
	if !strings.HasPrefix(body, "{") {
		return models.PlanDocument{}, &oracle.ResponseError{
			Reason: "completion is not a JSON object",
			Raw:    oracle.Excerpt(body, 200),
		}
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &probe); err != nil {
		return models.PlanDocument{}, &oracle.ResponseError{
			Reason: "completion is not valid JSON",
			Raw:    oracle.Excerpt(body, 200),
			Err:    err,
		}
	}
	raw, ok := probe["workouts"]
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return models.PlanDocument{}, &oracle.ResponseError{
			Reason: "completion has no workouts array",
			Raw:    oracle.Excerpt(body, 200),
		}
	}

	// Calendar dates are derived from day numbers, never taken from the oracle.
	var workouts []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &workouts); err != nil {
		return models.PlanDocument{}, &oracle.ResponseError{
			Reason: "workouts must be objects",
			Raw:    oracle.Excerpt(body, 200),
			Err:    err,
		}
	}
	for _, w := range workouts {
		delete(w, "scheduled_date")
	}
	var prog map[string]json.RawMessage
	if err := json.Unmarshal(probe["program"], &prog); err == nil && prog != nil {
		delete(prog, "start_date")
		delete(prog, "raw_input")
		probe["program"], _ = json.Marshal(prog)
	}
	probe["workouts"], _ = json.Marshal(workouts)
	cleaned, _ := json.Marshal(probe)

	var doc models.PlanDocument
	if err := json.Unmarshal(cleaned, &doc); err != nil {
		return models.PlanDocument{}, &oracle.ResponseError{
			Reason: "completion does not match the plan shape",
			Raw:    oracle.Excerpt(body, 200),
			Err:    err,
		}
	}
	return doc, nil
}

// StripCodeFence removes a leading ``` or ```json line and a trailing ``` from s.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
			if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
				s = s[4:]
			}
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ScheduleDate returns the calendar date of a 1-based program day.
func ScheduleDate(start models.Date, day int) models.Date {
	return start.AddDays(day - 1)
}

// ApplySchedule sets every workout's scheduled date from start. Without a start date any
// dates already on the document are cleared.
func ApplySchedule(doc *models.PlanDocument, start *models.Date) {
	for i := range doc.Workouts {
		w := &doc.Workouts[i]
		if start == nil || start.IsZero() || !w.DayNumber.Valid {
			w.ScheduledDate = nil
			continue
		}
		d := ScheduleDate(*start, w.DayNumber.Value)
		w.ScheduledDate = &d
	}
}

// EndDate returns the date of the last scheduled workout, or nil for an unscheduled plan.
func EndDate(doc models.PlanDocument) *models.Date {
	var end *models.Date
	for _, w := range doc.Workouts {
		if w.ScheduledDate == nil {
			continue
		}
		if end == nil || w.ScheduledDate.After(*end) {
			d := *w.ScheduledDate
			end = &d
		}
	}
	return end
}

// Describe renders a short human summary of a plan for CLI output.
func Describe(doc models.PlanDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d workouts)\n", doc.Program.Name, len(doc.Workouts))
	for _, w := range doc.Workouts {
		date := "unscheduled"
		if w.ScheduledDate != nil {
			date = w.ScheduledDate.String()
		}
		fmt.Fprintf(&b, "  week %d day %d  %-10s  %s [%s] %d exercises\n",
			w.DisplayWeek(), w.DayNumber.Value, date, w.Title, w.WorkoutType, len(w.Exercises))
	}
	for _, warn := range doc.Warnings {
		fmt.Fprintf(&b, "  warning: %s\n", warn)
	}
	return b.String()
}
