package uow

import (
	"context"

	"collateral-loan-ledger/internal/domain/event"
	"collateral-loan-ledger/internal/domain/loan"
	"collateral-loan-ledger/internal/domain/vault"
)

type Repos struct {
	Loans  loan.Repository
	Events event.Repository
	Vault  vault.Vault
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the loan row first, then pass it in; two operations
	// racing on the same id serialize here and the loser sees final state
	WithinLoanTx(ctx context.Context, id uint64, fn func(r Repos, l *loan.Loan) error) error
}
