// Package otel provides OpenTelemetry instruments for the research pipeline.
// Instruments are created against the global providers; without an SDK
// configured they are no-ops, so callers never need to guard on telemetry
// being enabled.
package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "aura.research"

// Metrics holds the research pipeline metric instruments.
type Metrics struct {
	TasksStarted     metric.Int64Counter
	TasksCompleted   metric.Int64Counter
	TasksFailed      metric.Int64Counter
	SearchesExecuted metric.Int64Counter
	PipelineDuration metric.Float64Histogram
}

// NewMetrics creates all pipeline instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.TasksStarted, err = meter.Int64Counter("aura.research.tasks.started",
		metric.WithDescription("Number of research tasks started"))
	if err != nil {
		return nil, err
	}

	m.TasksCompleted, err = meter.Int64Counter("aura.research.tasks.completed",
		metric.WithDescription("Number of research tasks completed"))
	if err != nil {
		return nil, err
	}

	m.TasksFailed, err = meter.Int64Counter("aura.research.tasks.failed",
		metric.WithDescription("Number of research tasks failed"))
	if err != nil {
		return nil, err
	}

	m.SearchesExecuted, err = meter.Int64Counter("aura.research.searches",
		metric.WithDescription("Number of search directives executed"))
	if err != nil {
		return nil, err
	}

	m.PipelineDuration, err = meter.Float64Histogram("aura.research.pipeline.duration_seconds",
		metric.WithDescription("Research pipeline duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
