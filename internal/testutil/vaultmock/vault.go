package vaultmock

import (
	"context"
	"sync"

	"collateral-loan-ledger/internal/domain/vault"
)

var _ vault.Vault = (*Vault)(nil)

// Transfer records one Debit or Credit call.
type Transfer struct {
	Op      string // "debit" or "credit"
	Account string
	Amount  uint64
}

// Vault is a function-backed mock that also records every call, so tests can
// assert exactly which transfers happened (or that none did).
type Vault struct {
	DebitFn  func(ctx context.Context, account string, amount uint64) error
	CreditFn func(ctx context.Context, account string, amount uint64) error

	mu    sync.Mutex
	calls []Transfer
}

func (m *Vault) Debit(ctx context.Context, account string, amount uint64) error {
	m.record("debit", account, amount)
	if m.DebitFn != nil {
		return m.DebitFn(ctx, account, amount)
	}
	return nil
}

func (m *Vault) Credit(ctx context.Context, account string, amount uint64) error {
	m.record("credit", account, amount)
	if m.CreditFn != nil {
		return m.CreditFn(ctx, account, amount)
	}
	return nil
}

func (m *Vault) record(op, account string, amount uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Transfer{Op: op, Account: account, Amount: amount})
}

func (m *Vault) Calls() []Transfer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Transfer(nil), m.calls...)
}
