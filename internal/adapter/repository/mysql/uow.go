package mysql

import (
	"context"

	"collateral-loan-ledger/internal/domain/loan"
	"collateral-loan-ledger/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Loans:  &LoanRepository{db: tx},
		Events: &EventRepository{db: tx},
		Vault:  &GormVault{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(u.repos(tx))
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, id uint64, fn func(r uow.Repos, l *loan.Loan) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := u.repos(tx)
		// lock the loan row up-front so racing operations serialize
		l, err := r.Loans.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}
