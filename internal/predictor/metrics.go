package predictor

import (
	"github.com/prometheus/client_golang/prometheus"          // Metric types
	"github.com/prometheus/client_golang/prometheus/promauto" // Registration helpers
)

// Prediction sources
const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

// Metrics tracks how submissions were graded and how often the artifact was loaded
type Metrics struct {
	Predictions *prometheus.CounterVec // Grades by source and grade
	Reloads     *prometheus.CounterVec // Artifact loads by outcome
}

// NewMetrics registers the predictor metrics on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Predictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_predictions_total",
				Help: "Total number of credit score predictions by source",
			},
			[]string{"source", "grade"},
		),
		Reloads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_model_reloads_total",
				Help: "Total number of model artifact loads",
			},
			[]string{"result"},
		),
	}
}
