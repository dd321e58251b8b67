package scoring

// Feature pairs an application field with the column name the model was trained on
type Feature struct {
	Field     string // Application field name
	Name      string // Training-time feature name
	Numerical bool   // Coerced to float64 when true
}

// FeatureMap is the explicit field to feature table, in training column order
var FeatureMap = []Feature{
	{FieldMonth, "Month", false},
	{FieldName, "Name", false},
	{FieldAge, "Age", true},
	{FieldOccupation, "Occupation", false},
	{FieldAnnualIncome, "Annual_Income", true},
	{FieldMonthlyInHandSalary, "Monthly_Inhand_Salary", true},
	{FieldNumberOfBankAccounts, "Num_Bank_Accounts", true},
	{FieldNumberOfCreditCards, "Num_Credit_Card", true},
	{FieldInterestRate, "Interest_Rate", true},
	{FieldNumberOfLoans, "Num_of_Loan", true},
	{FieldDelayFromDueDate, "Delay_from_due_date", false},
	{FieldNumberOfDelayedPayment, "Num_of_Delayed_Payment", true},
	{FieldChangedCreditLimit, "Changed_Credit_Limit", false},
	{FieldNumCreditInquiries, "Num_Credit_Inquiries", true},
	{FieldCreditMix, "Credit_Mix", false},
	{FieldOutstandingDebt, "Outstanding_Debt", true},
	{FieldCreditUtilizationRatio, "Credit_Utilization_Ratio", true},
	{FieldCreditHistoryAge, "Credit_History_Age", false},
	{FieldPaymentOfMinimumAmount, "Payment_of_Min_Amount", false},
	{FieldTotalEMIPerMonth, "Total_EMI_per_month", true},
	{FieldAmountInvestedMonthly, "Amount_invested_monthly", true},
	{FieldPaymentBehaviour, "Payment_Behaviour", false},
	{FieldMonthlyBalance, "Monthly_Balance", true},
}

// Row is one model input row keyed by training-time feature name.
// Values are float64 for numerical features and string for categorical ones.
type Row map[string]any

// MapFeatures builds the model row for a validated input.
// Fields missing from in are left out of the row.
func MapFeatures(in Input) Row {
	row := make(Row, len(FeatureMap))
	for _, f := range FeatureMap {
		v, ok := in[f.Field]
		if !ok || v == nil {
			continue
		}
		if f.Numerical {
			n, err := toFloat(v)
			if err != nil {
				continue
			}
			row[f.Name] = n
			continue
		}
		s, err := toString(v)
		if err != nil {
			continue
		}
		row[f.Name] = s
	}
	return row
}
