package domain

import "time"

// Credit score grades produced by the model or the fallback rules
const (
	ScorePoor     = "poor"
	ScoreStandard = "standard"
	ScoreGood     = "good"
)

// CreditParameters Model, one record per user
type CreditParameters struct {
	ID     uint `gorm:"primaryKey" json:"id"`                // Primary key
	UserID uint `gorm:"uniqueIndex;not null" json:"-"`      // Foreign key to User, unique
	User   User `gorm:"constraint:OnUpdate:CASCADE;" json:"-"` // Owning user

	// Categorical attributes
	Name                   string  `gorm:"size:100;not null" json:"name"`
	Month                  *string `gorm:"size:20" json:"month"`
	Occupation             string  `gorm:"size:100;not null" json:"occupation"`
	DelayFromDueDate       string  `gorm:"size:50;not null" json:"delay_from_due_date"`
	CreditMix              string  `gorm:"size:20;not null" json:"credit_mix"`
	PaymentOfMinimumAmount string  `gorm:"size:20;not null" json:"payment_of_minimum_amount"`
	PaymentBehaviour       string  `gorm:"size:100;not null" json:"payment_behaviour"`
	ChangedCreditLimit     string  `gorm:"size:50;not null" json:"changed_credit_limit"`
	CreditHistoryAge       *string `gorm:"size:50" json:"credit_history_age"`

	// Numerical attributes, rounded to 2 decimals on input
	Age                    float64 `json:"age"`
	AnnualIncome           float64 `json:"annual_income"`
	MonthlyInHandSalary    float64 `json:"monthly_in_hand_salary"`
	NumberOfBankAccounts   float64 `json:"number_of_bank_accounts"`
	NumberOfCreditCards    float64 `json:"number_of_credit_cards"`
	InterestRate           float64 `json:"interest_rate"`
	NumberOfLoans          float64 `json:"number_of_loans"`
	NumberOfDelayedPayment float64 `json:"number_of_delayed_payment"`
	NumCreditInquiries     float64 `json:"num_credit_inquiries"`
	OutstandingDebt        float64 `json:"outstanding_debt"`
	CreditUtilizationRatio float64 `json:"credit_utilization_ratio"`
	TotalEMIPerMonth       float64 `gorm:"column:total_emi_per_month" json:"total_emi_per_month"`
	AmountInvestedMonthly  float64 `json:"amount_invested_monthly"`
	MonthlyBalance         float64 `json:"monthly_balance"`

	CreditScore *string   `gorm:"size:20" json:"credit_score"` // Predicted grade
	CreatedAt   time.Time `json:"created_at"`                  // Creation time
	UpdatedAt   time.Time `json:"updated_at"`                  // Last update time
}

// TableName pins the table name
func (CreditParameters) TableName() string { return "credit_parameters" }
