package predictor

import (
	"errors" // Error inspection

	"credit_scoring/internal/scoring" // Inputs and feature mapping

	"github.com/sirupsen/logrus" // Logging
)

// Prediction is a grade together with how it was produced
type Prediction struct {
	Grade  string // poor, standard or good
	Source string // model or fallback
}

// Predictor grades validated submissions
type Predictor struct {
	handle  *Handle
	metrics *Metrics
}

// New returns a Predictor backed by handle
func New(handle *Handle, metrics *Metrics) *Predictor {
	return &Predictor{handle: handle, metrics: metrics}
}

// Handle exposes the underlying artifact handle
func (p *Predictor) Handle() *Handle { return p.handle }

// Predict grades in. A feature shape mismatch is answered by the fallback
// rules; a missing artifact or any other model failure is returned.
func (p *Predictor) Predict(in scoring.Input) (Prediction, error) {
	model, err := p.handle.Model()
	if err != nil {
		return Prediction{}, err
	}

	grade, err := model.Predict(scoring.MapFeatures(in))
	if errors.Is(err, ErrFeatureShape) {
		grade = FallbackFor(in)
		logrus.WithFields(logrus.Fields{
			"reason":      err.Error(),                                   // Why the model was skipped
			"delayed":     in.Float(scoring.FieldNumberOfDelayedPayment), // Delayed payment count
			"utilization": in.Float(scoring.FieldCreditUtilizationRatio), // Utilization ratio
			"credit_mix":  in.String(scoring.FieldCreditMix),             // Credit mix category
			"grade":       grade,                                         // Fallback grade
		}).Warn("Model feature shape mismatch, using fallback grading")
		p.count(SourceFallback, grade)
		return Prediction{Grade: grade, Source: SourceFallback}, nil
	}
	if err != nil {
		return Prediction{}, err
	}
	p.count(SourceModel, grade)
	return Prediction{Grade: grade, Source: SourceModel}, nil
}

func (p *Predictor) count(source, grade string) {
	if p.metrics != nil {
		p.metrics.Predictions.WithLabelValues(source, grade).Inc()
	}
}
