package oracle

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("hyroxtrainer/oracle")

// Outcome label values of the request counter.
const (
	OutcomeOK        = "ok"
	OutcomeTimeout   = "timeout"
	OutcomeMalformed = "malformed"
	OutcomeError     = "error"
)

// Metrics are the prometheus collectors recorded around oracle calls.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics registers the oracle collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hyroxtrainer",
			Subsystem: "oracle",
			Name:      "requests_total",
			Help:      "The total number of oracle completions by provider and outcome",
		}, []string{"provider", "outcome"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hyroxtrainer",
			Subsystem: "oracle",
			Name:      "request_duration_seconds",
			Help:      "Latency of oracle completions",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		}, []string{"provider"}),
	}
}

type instrumented struct {
	next     Completer
	provider string
	metrics  *Metrics
}

// Instrument wraps c so every call is counted, timed and traced.
func Instrument(c Completer, provider string, metrics *Metrics) Completer {
	return &instrumented{next: c, provider: provider, metrics: metrics}
}

func (i *instrumented) Complete(ctx context.Context, req Request) (string, error) {
	ctx, span := tracer.Start(ctx, "oracle.complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("oracle.provider", i.provider),
		attribute.Bool("oracle.json", req.JSON),
		attribute.Int("oracle.prompt_bytes", len(req.Prompt)),
	)

	start := time.Now()
	text, err := i.next.Complete(ctx, req)
	i.metrics.Duration.WithLabelValues(i.provider).Observe(time.Since(start).Seconds())
	i.metrics.Requests.WithLabelValues(i.provider, outcome(err)).Inc()

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return "", err
	}
	span.SetAttributes(attribute.Int("oracle.completion_bytes", len(text)))
	return text, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrTimeout):
		return OutcomeTimeout
	case errors.Is(err, ErrMalformedResponse):
		return OutcomeMalformed
	default:
		return OutcomeError
	}
}
