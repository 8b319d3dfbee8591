package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	domainEvent "collateral-loan-ledger/internal/domain/event"
	domainLoan "collateral-loan-ledger/internal/domain/loan"
	"collateral-loan-ledger/internal/domain/uow"
	"collateral-loan-ledger/internal/testutil/loanmock"
	"collateral-loan-ledger/internal/testutil/uowmock"
	"collateral-loan-ledger/internal/testutil/vaultmock"
	"collateral-loan-ledger/pkg/clock"
)

// eventSink drops appended events.
type eventSink struct{}

func (eventSink) Append(context.Context, *domainEvent.Event) error { return nil }
func (eventSink) ListByLoanID(context.Context, uint64) ([]domainEvent.Event, error) {
	return nil, nil
}

// lockedLoanUoW hands fn a fixed loan plus the given repos, mimicking a
// unit of work that found and locked the row.
func lockedLoanUoW(l *domainLoan.Loan, r uow.Repos) *uowmock.UoW {
	m := uowmock.New()
	m.WithinLoanTxFn = func(ctx context.Context, id uint64, fn func(r uow.Repos, l *domainLoan.Loan) error) error {
		if id != l.ID {
			return errors.New("wrong loan id")
		}
		cp := *l
		return fn(r, &cp)
	}
	return m
}

func TestFundLoan_RejectionsNeverTouchTheVault(t *testing.T) {
	vm := &vaultmock.Vault{}
	funded := &domainLoan.Loan{
		ID: 1, Borrower: borrower, Lender: lender,
		CollateralAmount: collateral, LoanAmount: principal,
		Funded: true, State: domainLoan.StateFunded,
	}
	tx := lockedLoanUoW(funded, uow.Repos{Vault: vm})
	uc := NewUsecase(&loanmock.Repo{}, nil, tx, clock.NewManual(time.Now()), nil)

	_, err := uc.FundLoan(context.Background(), FundLoanInput{
		Caller: stranger, LoanID: 1, Amount: principal,
	})
	if !errors.Is(err, domainLoan.ErrAlreadyFunded) {
		t.Fatalf("err = %v", err)
	}
	if calls := vm.Calls(); len(calls) != 0 {
		t.Fatalf("vault touched on rejection: %+v", calls)
	}
}

func TestRepayLoan_UnauthorizedNeverTouchesTheVault(t *testing.T) {
	vm := &vaultmock.Vault{}
	funded := &domainLoan.Loan{
		ID: 1, Borrower: borrower, Lender: lender,
		CollateralAmount: collateral, LoanAmount: principal, InterestRatePct: 10,
		Funded: true, State: domainLoan.StateFunded,
	}
	tx := lockedLoanUoW(funded, uow.Repos{Vault: vm})
	uc := NewUsecase(&loanmock.Repo{}, nil, tx, clock.NewManual(time.Now()), nil)

	_, err := uc.RepayLoan(context.Background(), RepayLoanInput{
		Caller: stranger, LoanID: 1, Amount: principal * 2,
	})
	if !errors.Is(err, domainLoan.ErrUnauthorized) {
		t.Fatalf("err = %v", err)
	}
	if calls := vm.Calls(); len(calls) != 0 {
		t.Fatalf("vault touched on rejection: %+v", calls)
	}
}

func TestRepayLoan_StateSavedBeforePayouts(t *testing.T) {
	// Order within the transition: debit borrower → save flags → credit
	// lender → credit borrower. A reentrant observer must already see the
	// loan repaid when the first payout happens.
	var order []string
	vm := &vaultmock.Vault{}
	lm := &loanmock.Repo{
		SaveFn: func(ctx context.Context, l *domainLoan.Loan) error {
			if !l.Repaid {
				t.Fatal("save called with repaid == false")
			}
			order = append(order, "save")
			return nil
		},
	}
	vm.DebitFn = func(ctx context.Context, account string, amount uint64) error {
		order = append(order, "debit:"+account)
		return nil
	}
	vm.CreditFn = func(ctx context.Context, account string, amount uint64) error {
		order = append(order, "credit:"+account)
		return nil
	}

	funded := &domainLoan.Loan{
		ID: 1, Borrower: borrower, Lender: lender,
		CollateralAmount: collateral, LoanAmount: principal, InterestRatePct: 10,
		Funded: true, State: domainLoan.StateFunded,
	}
	tx := lockedLoanUoW(funded, uow.Repos{Loans: lm, Events: eventSink{}, Vault: vm})
	uc := NewUsecase(lm, nil, tx, clock.NewManual(time.Now()), nil)

	required := principal + principal*10/100
	if _, err := uc.RepayLoan(context.Background(), RepayLoanInput{
		Caller: borrower, LoanID: 1, Amount: required,
	}); err != nil {
		t.Fatalf("RepayLoan: %v", err)
	}

	want := []string{"debit:" + borrower, "save", "credit:" + lender, "credit:" + borrower}
	if len(order) != len(want) {
		t.Fatalf("order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order[%d] = %s, want %s (full: %v)", i, order[i], want[i], order)
		}
	}
}
