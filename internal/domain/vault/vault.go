package vault

import (
	"context"
	"errors"
	"time"
)

var ErrInsufficientFunds = errors.New("account balance below requested amount")

// Vault is the value-transfer capability the ledger is built on. Debit pulls
// value from an account into ledger custody; Credit pays value out of custody.
// Both are atomic and all-or-nothing per call. The ledger only ever debits
// after every precondition of an operation has passed, so a failed call never
// leaves value stranded in custody.
type Vault interface {
	Debit(ctx context.Context, account string, amount uint64) error
	Credit(ctx context.Context, account string, amount uint64) error
}

// Account holds the native-unit balance for one opaque 32-hex handle.
type Account struct {
	Handle    string    `gorm:"primaryKey;size:32;column:handle" json:"handle"`
	Balance   uint64    `gorm:"not null;default:0" json:"balance"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string { return "vault_accounts" }
