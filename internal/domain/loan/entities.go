package loan

import "time"

type State string

const (
	StateRequested State = "requested"
	StateFunded    State = "funded"
	StateRepaid    State = "repaid"
	StateDefaulted State = "defaulted"
)

// Loan is one collateralized loan record. Rows are an append-only audit
// trail: they move through the lifecycle but are never deleted.
type Loan struct {
	ID                uint64    `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Borrower          string    `gorm:"size:32;index:idx_loans_borrower" json:"borrower"`
	Lender            string    `gorm:"size:32;index:idx_loans_lender" json:"lender"`
	CollateralAmount  uint64    `gorm:"not null" json:"collateral_amount"`
	LoanAmount        uint64    `gorm:"not null" json:"loan_amount"`
	InterestRatePct   uint64    `gorm:"not null" json:"interest_rate_pct"`
	DurationSeconds   uint64    `gorm:"not null" json:"duration_seconds"`
	DueAt             int64     `gorm:"default:0" json:"due_at"`
	Funded            bool      `gorm:"default:false" json:"funded"`
	Repaid            bool      `gorm:"default:false" json:"repaid"`
	CollateralClaimed bool      `gorm:"default:false" json:"collateral_claimed"`
	State             State     `gorm:"size:16;index" json:"state"`
	StateUpdatedAt    time.Time `gorm:"autoCreateTime" json:"state_updated_at"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// RequiredRepayment is principal plus simple interest, truncating toward
// zero: loanAmount + loanAmount*ratePct/100.
func (l *Loan) RequiredRepayment() uint64 {
	return l.LoanAmount + l.LoanAmount*l.InterestRatePct/100
}

// Terminal reports whether the loan reached one of its two end states.
func (l *Loan) Terminal() bool { return l.Repaid || l.CollateralClaimed }
