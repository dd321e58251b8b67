package predictor

import (
	"strings" // Case folding

	"credit_scoring/internal/domain"  // Grade constants
	"credit_scoring/internal/scoring" // Field names
)

// Fallback grades a submission with fixed rules when the model cannot be applied.
// Thresholds: more than 10 delayed payments or utilization above 80 is poor;
// at most 2 delayed payments, utilization under 30 and a good or standard
// credit mix is good; anything else is standard.
func Fallback(delayedPayments, utilization float64, creditMix string) string {
	if delayedPayments > 10 || utilization > 80 {
		return domain.ScorePoor
	}
	mix := strings.ToLower(strings.TrimSpace(creditMix))
	if delayedPayments <= 2 && utilization < 30 && (mix == "good" || mix == "standard") {
		return domain.ScoreGood
	}
	return domain.ScoreStandard
}

// FallbackFor applies Fallback to a validated input
func FallbackFor(in scoring.Input) string {
	return Fallback(
		in.Float(scoring.FieldNumberOfDelayedPayment),
		in.Float(scoring.FieldCreditUtilizationRatio),
		in.String(scoring.FieldCreditMix),
	)
}
