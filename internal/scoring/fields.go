// Package scoring validates credit parameter submissions and maps them onto
// the feature schema the credit model was trained with.
package scoring

// Input is a raw credit parameters submission keyed by application field name
type Input map[string]any

// Application field names
const (
	FieldUser        = "user"
	FieldCreditScore = "credit_score"

	FieldName                   = "name"
	FieldMonth                  = "month"
	FieldOccupation             = "occupation"
	FieldDelayFromDueDate       = "delay_from_due_date"
	FieldCreditMix              = "credit_mix"
	FieldPaymentOfMinimumAmount = "payment_of_minimum_amount"
	FieldPaymentBehaviour       = "payment_behaviour"
	FieldChangedCreditLimit     = "changed_credit_limit"
	FieldCreditHistoryAge       = "credit_history_age"

	FieldAge                    = "age"
	FieldAnnualIncome           = "annual_income"
	FieldMonthlyInHandSalary    = "monthly_in_hand_salary"
	FieldNumberOfBankAccounts   = "number_of_bank_accounts"
	FieldNumberOfCreditCards    = "number_of_credit_cards"
	FieldInterestRate           = "interest_rate"
	FieldNumberOfLoans          = "number_of_loans"
	FieldNumberOfDelayedPayment = "number_of_delayed_payment"
	FieldNumCreditInquiries     = "num_credit_inquiries"
	FieldOutstandingDebt        = "outstanding_debt"
	FieldCreditUtilizationRatio = "credit_utilization_ratio"
	FieldTotalEMIPerMonth       = "total_emi_per_month"
	FieldAmountInvestedMonthly  = "amount_invested_monthly"
	FieldMonthlyBalance         = "monthly_balance"
)

// CategoricalFields must be present on every full submission
var CategoricalFields = []string{
	FieldName,
	FieldOccupation,
	FieldDelayFromDueDate,
	FieldCreditMix,
	FieldPaymentOfMinimumAmount,
	FieldPaymentBehaviour,
	FieldChangedCreditLimit,
}

// OptionalCategoricalFields are stored and fed to the model when supplied
var OptionalCategoricalFields = []string{
	FieldMonth,
	FieldCreditHistoryAge,
}

// NumericalFields must be present on every full submission and parse as numbers
var NumericalFields = []string{
	FieldAge,
	FieldAnnualIncome,
	FieldMonthlyInHandSalary,
	FieldNumberOfBankAccounts,
	FieldNumberOfCreditCards,
	FieldInterestRate,
	FieldNumberOfLoans,
	FieldNumberOfDelayedPayment,
	FieldNumCreditInquiries,
	FieldOutstandingDebt,
	FieldCreditUtilizationRatio,
	FieldTotalEMIPerMonth,
	FieldAmountInvestedMonthly,
	FieldMonthlyBalance,
}

// Float returns the coerced value of a numerical field after Validate
func (in Input) Float(field string) float64 {
	v, _ := in[field].(float64)
	return v
}

// String returns the value of a categorical field after Validate
func (in Input) String(field string) string {
	v, _ := in[field].(string)
	return v
}

// Has reports whether field was supplied at all
func (in Input) Has(field string) bool {
	_, ok := in[field]
	return ok
}
