package event

import "context"

type Repository interface {
	Append(ctx context.Context, e *Event) error
	ListByLoanID(ctx context.Context, loanID uint64) ([]Event, error)
}

// Publisher pushes committed events to external observers. Emission is a side
// channel: it never participates in the ledger's own decision logic.
type Publisher interface {
	Publish(ctx context.Context, e *Event) error
}
