package ledger

import "time"

// Attached value is modeled explicitly: every mutating input carries the
// caller's account handle plus the amount the caller attached to the call.

type RequestLoanInput struct {
	Caller           string `json:"caller"`
	CollateralAmount uint64 `json:"collateral_amount"`
	LoanAmount       uint64 `json:"loan_amount"`
	InterestRatePct  uint64 `json:"interest_rate_pct"`
	DurationSeconds  uint64 `json:"duration_seconds"`
}

type FundLoanInput struct {
	Caller string `json:"caller"`
	LoanID uint64 `json:"loan_id"`
	Amount uint64 `json:"amount"`
}

type RepayLoanInput struct {
	Caller string `json:"caller"`
	LoanID uint64 `json:"loan_id"`
	Amount uint64 `json:"amount"`
}

type ClaimCollateralInput struct {
	Caller string `json:"caller"`
	LoanID uint64 `json:"loan_id"`
}

type LoanDTO struct {
	ID                uint64    `json:"id"`
	Borrower          string    `json:"borrower"`
	Lender            string    `json:"lender,omitempty"`
	CollateralAmount  uint64    `json:"collateral_amount"`
	LoanAmount        uint64    `json:"loan_amount"`
	InterestRatePct   uint64    `json:"interest_rate_pct"`
	DurationSeconds   uint64    `json:"duration_seconds"`
	DueAt             int64     `json:"due_at,omitempty"`
	Funded            bool      `json:"funded"`
	Repaid            bool      `json:"repaid"`
	CollateralClaimed bool      `json:"collateral_claimed"`
	State             string    `json:"state"`
	RequiredRepayment uint64    `json:"required_repayment"`
	CreatedAt         time.Time `json:"created_at"`
}

type EventDTO struct {
	EventID   string    `json:"event_id"`
	LoanID    uint64    `json:"loan_id"`
	Kind      string    `json:"kind"`
	Actor     string    `json:"actor"`
	Amount    uint64    `json:"amount"`
	Payload   string    `json:"payload,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
