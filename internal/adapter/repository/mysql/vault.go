package mysql

import (
	"context"

	vaultDomain "collateral-loan-ledger/internal/domain/vault"

	"gorm.io/gorm"
)

// GormVault keeps native-unit balances in the vault_accounts table. Debit is
// a single conditional UPDATE so a balance can never go below zero, even
// under concurrent debits.
type GormVault struct{ db *gorm.DB }

func NewGormVault(db *gorm.DB) *GormVault { return &GormVault{db: db} }

func (v *GormVault) Debit(ctx context.Context, account string, amount uint64) error {
	res := v.db.WithContext(ctx).
		Model(&vaultDomain.Account{}).
		Where("handle = ? AND balance >= ?", account, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return vaultDomain.ErrInsufficientFunds
	}
	return nil
}

func (v *GormVault) Credit(ctx context.Context, account string, amount uint64) error {
	res := v.db.WithContext(ctx).
		Model(&vaultDomain.Account{}).
		Where("handle = ?", account).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// first credit opens the account
		return v.db.WithContext(ctx).Create(&vaultDomain.Account{Handle: account, Balance: amount}).Error
	}
	return nil
}
