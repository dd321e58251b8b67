package predictor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"credit_scoring/internal/scoring"

	"github.com/stretchr/testify/require"
)

// fullModel scores on utilization alone and expects every mapped feature
func fullModel() *Model {
	m := &Model{
		Version:  "test",
		Classes:  []string{"Poor", "Standard", "Good"},
		Encoders: map[string]map[string]float64{},
	}
	utilIdx := 0
	for i, f := range scoring.FeatureMap {
		m.Features = append(m.Features, f.Name)
		if !f.Numerical {
			m.Encoders[f.Name] = map[string]float64{"Good": 1, "Standard": 0.5}
		}
		if f.Field == scoring.FieldCreditUtilizationRatio {
			utilIdx = i
		}
	}
	for range m.Classes {
		m.Coefficients = append(m.Coefficients, make([]float64, len(m.Features)))
	}
	// poor: util-50, standard: 10, good: 50-util
	m.Coefficients[0][utilIdx] = 1
	m.Coefficients[2][utilIdx] = -1
	m.Intercepts = []float64{-50, 10, 50}
	return m
}

func writeModel(t *testing.T, dir string, m *Model) string {
	t.Helper()
	data, err := json.Marshal(m)
	require.NoError(t, err)
	path := filepath.Join(dir, "credit_model.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func fullInput(utilization, delayed float64, mix string) scoring.Input {
	return scoring.Input{
		"name":                      "John Doe",
		"month":                     "January",
		"occupation":                "Engineer",
		"delay_from_due_date":       "0",
		"credit_mix":                mix,
		"payment_of_minimum_amount": "Yes",
		"payment_behaviour":         "low_spend_small_value_payments",
		"changed_credit_limit":      "No",
		"credit_history_age":        "5",
		"age":                       30.0,
		"annual_income":             50000.0,
		"monthly_in_hand_salary":    4000.0,
		"number_of_bank_accounts":   2.0,
		"number_of_credit_cards":    1.0,
		"interest_rate":             12.5,
		"number_of_loans":           1.0,
		"number_of_delayed_payment": delayed,
		"num_credit_inquiries":      0.0,
		"outstanding_debt":          1000.0,
		"credit_utilization_ratio":  utilization,
		"total_emi_per_month":       500.0,
		"amount_invested_monthly":   200.0,
		"monthly_balance":           3000.0,
	}
}
