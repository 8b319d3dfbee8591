package memledger

import (
	"context"
	"sync"

	"collateral-loan-ledger/internal/domain/event"
	"collateral-loan-ledger/internal/domain/loan"
	"collateral-loan-ledger/internal/domain/uow"
	"collateral-loan-ledger/internal/domain/vault"

	"gorm.io/gorm"
)

// Store is an in-memory ledger backend for tests: it satisfies
// loan.Repository, event.Repository, vault.Vault and uow.UnitOfWork at once,
// with snapshot-rollback semantics so a failed transaction leaves no trace,
// matching the guarantee the gorm unit of work gives in production.
type Store struct {
	mu sync.Mutex
	st state
}

type state struct {
	nextID   uint64
	loans    map[uint64]*loan.Loan
	events   []event.Event
	balances map[string]uint64
	custody  uint64
}

func New() *Store {
	return &Store{st: state{
		nextID:   1,
		loans:    map[uint64]*loan.Loan{},
		balances: map[string]uint64{},
	}}
}

func (s state) clone() state {
	c := state{
		nextID:   s.nextID,
		loans:    make(map[uint64]*loan.Loan, len(s.loans)),
		events:   append([]event.Event(nil), s.events...),
		balances: make(map[string]uint64, len(s.balances)),
		custody:  s.custody,
	}
	for id, l := range s.loans {
		cp := *l
		c.loans[id] = &cp
	}
	for h, b := range s.balances {
		c.balances[h] = b
	}
	return c
}

// ---- balance helpers for test setup/assertions ----

func (s *Store) SetBalance(account string, amount uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.balances[account] = amount
}

func (s *Store) Balance(account string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.balances[account]
}

// Custody is the value currently held by the ledger (debits minus credits).
func (s *Store) Custody() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.custody
}

// TotalValue sums every account balance plus ledger custody; it must stay
// constant across any sequence of operations (value conservation).
func (s *Store) TotalValue() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := s.st.custody
	for _, b := range s.st.balances {
		sum += b
	}
	return sum
}

// ---- loan.Repository ----

func (s *Store) Create(_ context.Context, l *loan.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create(l)
}

func (s *Store) create(l *loan.Loan) error {
	l.ID = s.st.nextID
	s.st.nextID++
	cp := *l
	s.st.loans[l.ID] = &cp
	return nil
}

func (s *Store) GetByID(_ context.Context, id uint64) (*loan.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

func (s *Store) GetByIDForUpdate(_ context.Context, id uint64) (*loan.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

func (s *Store) get(id uint64) (*loan.Loan, error) {
	l, ok := s.st.loans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (s *Store) Save(_ context.Context, l *loan.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(l)
}

func (s *Store) save(l *loan.Loan) error {
	cp := *l
	s.st.loans[l.ID] = &cp
	return nil
}

// ---- event.Repository ----

func (s *Store) Append(_ context.Context, e *event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.append(e)
}

func (s *Store) append(e *event.Event) error {
	e.ID = uint64(len(s.st.events) + 1)
	s.st.events = append(s.st.events, *e)
	return nil
}

func (s *Store) ListByLoanID(_ context.Context, loanID uint64) ([]event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []event.Event
	for _, e := range s.st.events {
		if e.LoanID == loanID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ---- vault.Vault ----

func (s *Store) Debit(_ context.Context, account string, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debit(account, amount)
}

func (s *Store) debit(account string, amount uint64) error {
	if s.st.balances[account] < amount {
		return vault.ErrInsufficientFunds
	}
	s.st.balances[account] -= amount
	s.st.custody += amount
	return nil
}

func (s *Store) Credit(_ context.Context, account string, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credit(account, amount)
}

func (s *Store) credit(account string, amount uint64) error {
	s.st.balances[account] += amount
	if s.st.custody >= amount {
		s.st.custody -= amount
	}
	return nil
}

// ---- uow.UnitOfWork ----

// txRepos routes repository calls back into the store without re-locking;
// the enclosing tx already holds the mutex.
type txRepos struct{ s *Store }

func (t txRepos) Create(_ context.Context, l *loan.Loan) error  { return t.s.create(l) }
func (t txRepos) Save(_ context.Context, l *loan.Loan) error    { return t.s.save(l) }
func (t txRepos) GetByID(_ context.Context, id uint64) (*loan.Loan, error) {
	return t.s.get(id)
}
func (t txRepos) GetByIDForUpdate(_ context.Context, id uint64) (*loan.Loan, error) {
	return t.s.get(id)
}
func (t txRepos) Append(_ context.Context, e *event.Event) error { return t.s.append(e) }
func (t txRepos) ListByLoanID(_ context.Context, loanID uint64) ([]event.Event, error) {
	var out []event.Event
	for _, e := range t.s.st.events {
		if e.LoanID == loanID {
			out = append(out, e)
		}
	}
	return out, nil
}
func (t txRepos) Debit(_ context.Context, account string, amount uint64) error {
	return t.s.debit(account, amount)
}
func (t txRepos) Credit(_ context.Context, account string, amount uint64) error {
	return t.s.credit(account, amount)
}

func (s *Store) repos() uow.Repos {
	r := txRepos{s: s}
	return uow.Repos{Loans: r, Events: r, Vault: r}
}

func (s *Store) WithinTx(_ context.Context, fn func(r uow.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.st.clone()
	if err := fn(s.repos()); err != nil {
		s.st = snap
		return err
	}
	return nil
}

func (s *Store) WithinLoanTx(_ context.Context, id uint64, fn func(r uow.Repos, l *loan.Loan) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.get(id)
	if err != nil {
		return err
	}
	snap := s.st.clone()
	if err := fn(s.repos(), l); err != nil {
		s.st = snap
		return err
	}
	return nil
}
