package event

import "time"

type Kind string

const (
	KindLoanRequested     Kind = "loan_requested"
	KindLoanFunded        Kind = "loan_funded"
	KindLoanRepaid        Kind = "loan_repaid"
	KindCollateralClaimed Kind = "collateral_claimed"
)

// Event is one append-only log entry recorded against a successful ledger
// transition. Events are written in the same transaction as the loan row and
// never updated afterwards.
type Event struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement;column:id" json:"-"`
	EventID   string    `gorm:"size:32;uniqueIndex:ux_loan_events_event_id;column:event_id" json:"event_id"`
	LoanID    uint64    `gorm:"not null;index:idx_loan_events_loan;column:loan_id" json:"loan_id"`
	Kind      Kind      `gorm:"size:32;not null" json:"kind"`
	Actor     string    `gorm:"size:32;column:actor" json:"actor"`
	Amount    uint64    `gorm:"not null;default:0" json:"amount"`
	Payload   string    `gorm:"type:text" json:"payload,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Event) TableName() string { return "loan_events" }
