package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	domainEvent "collateral-loan-ledger/internal/domain/event"
	domainLoan "collateral-loan-ledger/internal/domain/loan"
	"collateral-loan-ledger/internal/domain/uow"
	"collateral-loan-ledger/pkg/clock"
	"collateral-loan-ledger/pkg/id"

	"gorm.io/gorm"
)

// Usecase drives the loan lifecycle state machine:
// requested → funded → {repaid | defaulted}.
//
// Every mutating operation runs inside a unit-of-work transaction that locks
// the loan row first, so concurrent callers on the same loan serialize and
// the loser fails its precondition check cleanly. Value ordering inside a
// transition is fixed: check everything, debit the caller, save the state
// flags, then pay out. A recipient observing a payout always sees the loan
// already in its post-transition state.
type Usecase struct {
	loans  domainLoan.Repository
	events domainEvent.Repository
	uow    uow.UnitOfWork
	clock  clock.Clock
	pub    domainEvent.Publisher // optional; nil disables external publication
}

func NewUsecase(loans domainLoan.Repository, events domainEvent.Repository, tx uow.UnitOfWork, clk clock.Clock, pub domainEvent.Publisher) *Usecase {
	if clk == nil {
		clk = clock.System()
	}
	return &Usecase{loans: loans, events: events, uow: tx, clock: clk, pub: pub}
}

// RequestLoan escrows the attached collateral under ledger custody and
// creates the record with the next sequential id.
func (u *Usecase) RequestLoan(ctx context.Context, in RequestLoanInput) (*LoanDTO, error) {
	if in.LoanAmount == 0 || in.CollateralAmount == 0 || in.DurationSeconds == 0 || in.Caller == "" {
		return nil, domainLoan.ErrInvalidParameters
	}

	var (
		dto *LoanDTO
		ev  *domainEvent.Event
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l := &domainLoan.Loan{
			Borrower:         in.Caller,
			CollateralAmount: in.CollateralAmount,
			LoanAmount:       in.LoanAmount,
			InterestRatePct:  in.InterestRatePct,
			DurationSeconds:  in.DurationSeconds,
			State:            domainLoan.StateRequested,
			StateUpdatedAt:   u.clock.Now(),
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		// Escrow the attached collateral; failure rolls back the record.
		if err := r.Vault.Debit(ctx, in.Caller, in.CollateralAmount); err != nil {
			return err
		}
		ev = u.newEvent(domainEvent.KindLoanRequested, l.ID, in.Caller, in.CollateralAmount, map[string]any{
			"loan_amount":       in.LoanAmount,
			"interest_rate_pct": in.InterestRatePct,
			"duration_seconds":  in.DurationSeconds,
		})
		if err := r.Events.Append(ctx, ev); err != nil {
			return err
		}
		dto = toLoanDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.publish(ctx, ev)
	return dto, nil
}

// FundLoan is first-funder-wins: the row lock serializes racing lenders and
// the second sees funded == true. The attached principal is debited from the
// lender and disbursed straight to the borrower, never held in escrow.
func (u *Usecase) FundLoan(ctx context.Context, in FundLoanInput) (*LoanDTO, error) {
	var (
		dto *LoanDTO
		ev  *domainEvent.Event
	)
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Funded {
			return domainLoan.ErrAlreadyFunded
		}
		if in.Caller == l.Borrower {
			return domainLoan.ErrSelfFunding
		}
		if in.Amount != l.LoanAmount {
			return domainLoan.ErrIncorrectFundingAmount
		}

		if err := r.Vault.Debit(ctx, in.Caller, in.Amount); err != nil {
			return err
		}
		now := u.clock.Now()
		l.Lender = in.Caller
		l.Funded = true
		l.DueAt = now.Unix() + int64(l.DurationSeconds)
		l.State = domainLoan.StateFunded
		l.StateUpdatedAt = now
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		// Disburse after the state flags are saved.
		if err := r.Vault.Credit(ctx, l.Borrower, l.LoanAmount); err != nil {
			return err
		}
		ev = u.newEvent(domainEvent.KindLoanFunded, l.ID, in.Caller, in.Amount, nil)
		if err := r.Events.Append(ctx, ev); err != nil {
			return err
		}
		dto = toLoanDTO(l)
		return nil
	})
	if err != nil {
		return nil, mapNotFound(err)
	}
	u.publish(ctx, ev)
	return dto, nil
}

// RepayLoan requires attached value covering principal plus simple interest.
// Exactly the required amount is debited, so any excess the caller attached
// never leaves their account. Repayment stays open until the collateral has
// actually been claimed, due timestamp notwithstanding.
func (u *Usecase) RepayLoan(ctx context.Context, in RepayLoanInput) (*LoanDTO, error) {
	var (
		dto *LoanDTO
		ev  *domainEvent.Event
	)
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if !l.Funded {
			return domainLoan.ErrNotFunded
		}
		if l.CollateralClaimed {
			return domainLoan.ErrCollateralClaimed
		}
		if l.Repaid {
			return domainLoan.ErrAlreadyRepaid
		}
		if in.Caller != l.Borrower {
			return domainLoan.ErrUnauthorized
		}
		required := l.RequiredRepayment()
		if in.Amount < required {
			return domainLoan.ErrInsufficientRepayment
		}

		if err := r.Vault.Debit(ctx, l.Borrower, required); err != nil {
			return err
		}
		l.Repaid = true
		l.State = domainLoan.StateRepaid
		l.StateUpdatedAt = u.clock.Now()
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		// Payout order after save: lender gets the repayment, borrower gets
		// the escrowed collateral back.
		if err := r.Vault.Credit(ctx, l.Lender, required); err != nil {
			return err
		}
		if err := r.Vault.Credit(ctx, l.Borrower, l.CollateralAmount); err != nil {
			return err
		}
		ev = u.newEvent(domainEvent.KindLoanRepaid, l.ID, l.Borrower, required, nil)
		if err := r.Events.Append(ctx, ev); err != nil {
			return err
		}
		dto = toLoanDTO(l)
		return nil
	})
	if err != nil {
		return nil, mapNotFound(err)
	}
	u.publish(ctx, ev)
	return dto, nil
}

// ClaimCollateral seizes the escrowed collateral once the due timestamp has
// passed unpaid. Terminal and mutually exclusive with repayment.
func (u *Usecase) ClaimCollateral(ctx context.Context, in ClaimCollateralInput) (*LoanDTO, error) {
	var (
		dto *LoanDTO
		ev  *domainEvent.Event
	)
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if !l.Funded {
			return domainLoan.ErrNotFunded
		}
		if l.Repaid {
			return domainLoan.ErrAlreadyRepaid
		}
		if l.CollateralClaimed {
			return domainLoan.ErrCollateralClaimed
		}
		if in.Caller != l.Lender {
			return domainLoan.ErrUnauthorized
		}
		if u.clock.Now().Unix() < l.DueAt {
			return domainLoan.ErrNotYetDue
		}

		l.CollateralClaimed = true
		l.State = domainLoan.StateDefaulted
		l.StateUpdatedAt = u.clock.Now()
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := r.Vault.Credit(ctx, l.Lender, l.CollateralAmount); err != nil {
			return err
		}
		ev = u.newEvent(domainEvent.KindCollateralClaimed, l.ID, l.Lender, l.CollateralAmount, map[string]any{
			"borrower": l.Borrower,
		})
		if err := r.Events.Append(ctx, ev); err != nil {
			return err
		}
		dto = toLoanDTO(l)
		return nil
	})
	if err != nil {
		return nil, mapNotFound(err)
	}
	u.publish(ctx, ev)
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, loanID uint64) (*LoanDTO, error) {
	l, err := u.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toLoanDTO(l), nil
}

func (u *Usecase) ListEvents(ctx context.Context, loanID uint64) ([]EventDTO, error) {
	if _, err := u.loans.GetByID(ctx, loanID); err != nil {
		return nil, mapNotFound(err)
	}
	evs, err := u.events.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	out := make([]EventDTO, 0, len(evs))
	for i := range evs {
		out = append(out, toEventDTO(&evs[i]))
	}
	return out, nil
}

func (u *Usecase) newEvent(kind domainEvent.Kind, loanID uint64, actor string, amount uint64, payload map[string]any) *domainEvent.Event {
	e := &domainEvent.Event{
		EventID:   id.NewID32(),
		LoanID:    loanID,
		Kind:      kind,
		Actor:     actor,
		Amount:    amount,
		CreatedAt: u.clock.Now(),
	}
	if payload != nil {
		if b, err := json.Marshal(payload); err == nil {
			e.Payload = string(b)
		}
	}
	return e
}

// publish pushes a committed event to external observers; failures are
// logged, never surfaced. Emission is a side channel.
func (u *Usecase) publish(ctx context.Context, e *domainEvent.Event) {
	if u.pub == nil || e == nil {
		return
	}
	if err := u.pub.Publish(ctx, e); err != nil {
		log.Printf("event publish failed (loan %d, %s): %v", e.LoanID, e.Kind, err)
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainLoan.ErrNotFound
	}
	return err
}

func toLoanDTO(l *domainLoan.Loan) *LoanDTO {
	return &LoanDTO{
		ID:                l.ID,
		Borrower:          l.Borrower,
		Lender:            l.Lender,
		CollateralAmount:  l.CollateralAmount,
		LoanAmount:        l.LoanAmount,
		InterestRatePct:   l.InterestRatePct,
		DurationSeconds:   l.DurationSeconds,
		DueAt:             l.DueAt,
		Funded:            l.Funded,
		Repaid:            l.Repaid,
		CollateralClaimed: l.CollateralClaimed,
		State:             string(l.State),
		RequiredRepayment: l.RequiredRepayment(),
		CreatedAt:         l.CreatedAt,
	}
}

func toEventDTO(e *domainEvent.Event) EventDTO {
	return EventDTO{
		EventID:   e.EventID,
		LoanID:    e.LoanID,
		Kind:      string(e.Kind),
		Actor:     e.Actor,
		Amount:    e.Amount,
		Payload:   e.Payload,
		CreatedAt: e.CreatedAt,
	}
}
