// Package finance implements the Account Registry: the cash balance plus
// the credit card and overdraft collections, with availability queries.
//
// The registry is a process-wide singleton owned by the daemon. All
// mutation goes through its methods; every successful mutation is written
// through to the store as a whole snapshot.
package finance

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quita-app/quita/internal/domain"
)

// Registry holds the account-side state.
type Registry struct {
	mu    sync.RWMutex
	store domain.Store
	state domain.FinanceState
	newID func() string
}

// NewRegistry loads persisted state from the store (if any) and returns a
// ready registry.
func NewRegistry(store domain.Store) (*Registry, error) {
	r := &Registry{
		store: store,
		state: domain.FinanceState{Balance: decimal.Zero},
		newID: uuid.NewString,
	}
	saved, err := store.LoadFinance()
	if err != nil {
		return nil, err
	}
	if saved != nil {
		r.state = *saved
	}
	return r, nil
}

func (r *Registry) persist() error {
	return r.store.SaveFinance(r.state)
}

// ─── Balance ────────────────────────────────────────────────────────────────

// Balance returns the current cash balance. Negative means overdrawn.
func (r *Registry) Balance() decimal.Decimal {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Balance
}

// SetBalance replaces the balance unconditionally.
func (r *Registry) SetBalance(amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Balance = amount
	return r.persist()
}

// AdjustBalance adds delta to the balance. Settlement uses this for both
// directions; the result is never validated against zero.
func (r *Registry) AdjustBalance(delta decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Balance = r.state.Balance.Add(delta)
	return r.persist()
}

// ─── Credit cards ───────────────────────────────────────────────────────────

// CreditCardUpdate carries the fields of a partial card edit. Nil fields
// are left untouched.
type CreditCardUpdate struct {
	Name       *string
	Limit      *decimal.Decimal
	UsedLimit  *decimal.Decimal
	ClosingDay *int
	DueDay     *int
}

// CreditCards returns a copy of the card collection.
func (r *Registry) CreditCards() []domain.CreditCard {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.CreditCard, len(r.state.CreditCards))
	copy(out, r.state.CreditCards)
	return out
}

// CreditCard returns the card with the given id.
func (r *Registry) CreditCard(id string) (domain.CreditCard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.state.CreditCards {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.CreditCard{}, domain.ErrCardNotFound
}

// AddCreditCard registers a new card and returns it with its assigned id.
func (r *Registry) AddCreditCard(name string, limit, usedLimit decimal.Decimal, closingDay, dueDay int) (domain.CreditCard, error) {
	if limit.IsNegative() || usedLimit.IsNegative() {
		return domain.CreditCard{}, domain.ErrInvalidLimit
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	card := domain.CreditCard{
		ID:         r.newID(),
		Name:       name,
		Limit:      limit,
		UsedLimit:  usedLimit,
		ClosingDay: closingDay,
		DueDay:     dueDay,
	}
	r.state.CreditCards = append(r.state.CreditCards, card)
	return card, r.persist()
}

// UpdateCreditCard applies a partial edit to the card with the given id.
func (r *Registry) UpdateCreditCard(id string, upd CreditCardUpdate) (domain.CreditCard, error) {
	if upd.Limit != nil && upd.Limit.IsNegative() {
		return domain.CreditCard{}, domain.ErrInvalidLimit
	}
	if upd.UsedLimit != nil && upd.UsedLimit.IsNegative() {
		return domain.CreditCard{}, domain.ErrInvalidLimit
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.state.CreditCards {
		c := &r.state.CreditCards[i]
		if c.ID != id {
			continue
		}
		if upd.Name != nil {
			c.Name = *upd.Name
		}
		if upd.Limit != nil {
			c.Limit = *upd.Limit
		}
		if upd.UsedLimit != nil {
			c.UsedLimit = *upd.UsedLimit
		}
		if upd.ClosingDay != nil {
			c.ClosingDay = *upd.ClosingDay
		}
		if upd.DueDay != nil {
			c.DueDay = *upd.DueDay
		}
		return *c, r.persist()
	}
	return domain.CreditCard{}, domain.ErrCardNotFound
}

// RemoveCreditCard deletes the card unconditionally. Debts that reference
// it keep their link; see the availability fallback in domain.
func (r *Registry) RemoveCreditCard(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.state.CreditCards {
		if c.ID == id {
			r.state.CreditCards = append(r.state.CreditCards[:i], r.state.CreditCards[i+1:]...)
			return r.persist()
		}
	}
	return domain.ErrCardNotFound
}

// AvailableCardLimit computes the card's available limit net of the given
// pending debts.
func (r *Registry) AvailableCardLimit(id string, debts []domain.Debt) (decimal.Decimal, error) {
	card, err := r.CreditCard(id)
	if err != nil {
		return decimal.Zero, err
	}
	return card.AvailableLimit(debts), nil
}

// ─── Overdrafts ─────────────────────────────────────────────────────────────

// OverdraftUpdate carries the fields of a partial overdraft edit.
type OverdraftUpdate struct {
	BankName  *string
	Limit     *decimal.Decimal
	UsedLimit *decimal.Decimal
}

// Overdrafts returns a copy of the overdraft collection.
func (r *Registry) Overdrafts() []domain.Overdraft {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Overdraft, len(r.state.Overdrafts))
	copy(out, r.state.Overdrafts)
	return out
}

// Overdraft returns the facility with the given id.
func (r *Registry) Overdraft(id string) (domain.Overdraft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.state.Overdrafts {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.Overdraft{}, domain.ErrOverdraftNotFound
}

// AddOverdraft registers a new overdraft facility. UsedLimit always starts
// at zero; external usage is recorded through UpdateOverdraft.
func (r *Registry) AddOverdraft(bankName string, limit decimal.Decimal) (domain.Overdraft, error) {
	if limit.IsNegative() {
		return domain.Overdraft{}, domain.ErrInvalidLimit
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	od := domain.Overdraft{
		ID:        r.newID(),
		BankName:  bankName,
		Limit:     limit,
		UsedLimit: decimal.Zero,
	}
	r.state.Overdrafts = append(r.state.Overdrafts, od)
	return od, r.persist()
}

// UpdateOverdraft applies a partial edit to the facility with the given id.
func (r *Registry) UpdateOverdraft(id string, upd OverdraftUpdate) (domain.Overdraft, error) {
	if upd.Limit != nil && upd.Limit.IsNegative() {
		return domain.Overdraft{}, domain.ErrInvalidLimit
	}
	if upd.UsedLimit != nil && upd.UsedLimit.IsNegative() {
		return domain.Overdraft{}, domain.ErrInvalidLimit
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.state.Overdrafts {
		o := &r.state.Overdrafts[i]
		if o.ID != id {
			continue
		}
		if upd.BankName != nil {
			o.BankName = *upd.BankName
		}
		if upd.Limit != nil {
			o.Limit = *upd.Limit
		}
		if upd.UsedLimit != nil {
			o.UsedLimit = *upd.UsedLimit
		}
		return *o, r.persist()
	}
	return domain.Overdraft{}, domain.ErrOverdraftNotFound
}

// RemoveOverdraft deletes the facility unconditionally.
func (r *Registry) RemoveOverdraft(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.state.Overdrafts {
		if o.ID == id {
			r.state.Overdrafts = append(r.state.Overdrafts[:i], r.state.Overdrafts[i+1:]...)
			return r.persist()
		}
	}
	return domain.ErrOverdraftNotFound
}

// AvailableOverdraftLimit computes the facility's available limit net of
// the given pending debts.
func (r *Registry) AvailableOverdraftLimit(id string, debts []domain.Debt) (decimal.Decimal, error) {
	od, err := r.Overdraft(id)
	if err != nil {
		return decimal.Zero, err
	}
	return od.AvailableLimit(debts), nil
}

// State returns a copy of the full account state for snapshots.
func (r *Registry) State() domain.FinanceState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state := domain.FinanceState{Balance: r.state.Balance}
	state.CreditCards = make([]domain.CreditCard, len(r.state.CreditCards))
	copy(state.CreditCards, r.state.CreditCards)
	state.Overdrafts = make([]domain.Overdraft, len(r.state.Overdrafts))
	copy(state.Overdrafts, r.state.Overdrafts)
	return state
}
