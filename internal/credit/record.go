package credit

import (
	"credit_scoring/internal/domain"  // Importing domain models
	"credit_scoring/internal/scoring" // Field names
)

// Record is the external representation of a credit parameters record
type Record struct {
	domain.CreditParameters
	User string `json:"user"` // Owner email
}

func toRecord(rec *domain.CreditParameters) Record {
	return Record{CreditParameters: *rec, User: rec.User.Email}
}

// numericalTargets maps each numerical field onto its column in the record
func numericalTargets(rec *domain.CreditParameters) map[string]*float64 {
	return map[string]*float64{
		scoring.FieldAge:                    &rec.Age,
		scoring.FieldAnnualIncome:           &rec.AnnualIncome,
		scoring.FieldMonthlyInHandSalary:    &rec.MonthlyInHandSalary,
		scoring.FieldNumberOfBankAccounts:   &rec.NumberOfBankAccounts,
		scoring.FieldNumberOfCreditCards:    &rec.NumberOfCreditCards,
		scoring.FieldInterestRate:           &rec.InterestRate,
		scoring.FieldNumberOfLoans:          &rec.NumberOfLoans,
		scoring.FieldNumberOfDelayedPayment: &rec.NumberOfDelayedPayment,
		scoring.FieldNumCreditInquiries:     &rec.NumCreditInquiries,
		scoring.FieldOutstandingDebt:        &rec.OutstandingDebt,
		scoring.FieldCreditUtilizationRatio: &rec.CreditUtilizationRatio,
		scoring.FieldTotalEMIPerMonth:       &rec.TotalEMIPerMonth,
		scoring.FieldAmountInvestedMonthly:  &rec.AmountInvestedMonthly,
		scoring.FieldMonthlyBalance:         &rec.MonthlyBalance,
	}
}

// categoricalTargets maps each required categorical field onto its column
func categoricalTargets(rec *domain.CreditParameters) map[string]*string {
	return map[string]*string{
		scoring.FieldName:                   &rec.Name,
		scoring.FieldOccupation:             &rec.Occupation,
		scoring.FieldDelayFromDueDate:       &rec.DelayFromDueDate,
		scoring.FieldCreditMix:              &rec.CreditMix,
		scoring.FieldPaymentOfMinimumAmount: &rec.PaymentOfMinimumAmount,
		scoring.FieldPaymentBehaviour:       &rec.PaymentBehaviour,
		scoring.FieldChangedCreditLimit:     &rec.ChangedCreditLimit,
	}
}

// optionalTargets maps each optional categorical field onto its nullable column
func optionalTargets(rec *domain.CreditParameters) map[string]**string {
	return map[string]**string{
		scoring.FieldMonth:            &rec.Month,
		scoring.FieldCreditHistoryAge: &rec.CreditHistoryAge,
	}
}

// apply copies every supplied field of a validated input onto rec
func apply(rec *domain.CreditParameters, in scoring.Input) {
	for field, dst := range numericalTargets(rec) {
		if in.Has(field) {
			*dst = in.Float(field)
		}
	}
	for field, dst := range categoricalTargets(rec) {
		if in.Has(field) {
			*dst = in.String(field)
		}
	}
	for field, dst := range optionalTargets(rec) {
		if !in.Has(field) {
			continue
		}
		if v, ok := in[field].(string); ok {
			*dst = &v
		} else {
			*dst = nil
		}
	}
	if in.Has(scoring.FieldCreditScore) {
		if v, ok := in[scoring.FieldCreditScore].(string); ok {
			rec.CreditScore = &v
		} else {
			rec.CreditScore = nil
		}
	}
}
