// Package debts implements the Debt Ledger: the debt collection, its
// lifecycle flags, and the provenance recorded when a debt is settled.
//
// The ledger never moves money. MarkPaid and MarkPending are raw flag
// transitions; the settlement engine wraps them with the matching fund
// movement. The ledger does keep one invariant on its own: payment info
// is present if and only if a debt is paid.
package debts

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quita-app/quita/internal/domain"
)

// Ledger holds the debt collection.
type Ledger struct {
	mu    sync.RWMutex
	store domain.Store
	debts []domain.Debt
	newID func() string
}

// NewLedger loads persisted debts from the store (if any) and returns a
// ready ledger.
func NewLedger(store domain.Store) (*Ledger, error) {
	l := &Ledger{store: store, newID: uuid.NewString}
	saved, err := store.LoadDebts()
	if err != nil {
		return nil, err
	}
	l.debts = saved
	return l, nil
}

func (l *Ledger) persist() error {
	return l.store.SaveDebts(l.debts)
}

// ─── Input validation ───────────────────────────────────────────────────────

func validateDebt(amount decimal.Decimal, category domain.DebtCategory, inst *domain.Installments) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if !category.Valid() {
		return domain.ErrInvalidCategory
	}
	if inst != nil && (inst.Current <= 0 || inst.Total <= 0 || inst.Current > inst.Total) {
		return domain.ErrInvalidInstallments
	}
	return nil
}

// ─── Queries ────────────────────────────────────────────────────────────────

// Debts returns a copy of the full debt list.
func (l *Ledger) Debts() []domain.Debt {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Debt, len(l.debts))
	copy(out, l.debts)
	return out
}

// Pending returns a copy of the debts that have not been settled.
func (l *Ledger) Pending() []domain.Debt {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []domain.Debt
	for _, d := range l.debts {
		if d.Pending() {
			out = append(out, d)
		}
	}
	return out
}

// Get returns the debt with the given id.
func (l *Ledger) Get(id string) (domain.Debt, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, d := range l.debts {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Debt{}, domain.ErrDebtNotFound
}

// SortKey selects the debt list ordering.
type SortKey string

const (
	SortByDueDate SortKey = "date"
	SortByAmount  SortKey = "amount"
)

// Sorted returns the debt list ordered by the given key.
func (l *Ledger) Sorted(key SortKey, descending bool) []domain.Debt {
	out := l.Debts()
	sort.SliceStable(out, func(i, j int) bool {
		var less bool
		switch key {
		case SortByAmount:
			less = out[i].Amount.LessThan(out[j].Amount)
		default:
			less = out[i].DueDate.Before(out[j].DueDate)
		}
		if descending {
			return !less
		}
		return less
	})
	return out
}

// ─── Mutations ──────────────────────────────────────────────────────────────

// Add registers a new debt. The id is assigned here; status is forced to
// pending and any payment info on the input is discarded.
func (l *Ledger) Add(input domain.Debt) (domain.Debt, error) {
	if err := validateDebt(input.Amount, input.Category, input.Installments); err != nil {
		return domain.Debt{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	input.ID = l.newID()
	input.Status = domain.StatusPending
	input.Payment = nil
	l.debts = append(l.debts, input)
	return input, l.persist()
}

// DebtUpdate carries the fields of a partial debt edit. Nil fields are left
// untouched; facility links can be cleared by setting the pointer to an
// empty string.
type DebtUpdate struct {
	Description  *string
	Amount       *decimal.Decimal
	Company      *string
	DueDate      *time.Time
	Category     *domain.DebtCategory
	Installments *domain.Installments
	CardID       *string
	OverdraftID  *string
}

// Update shallow-merges the provided fields onto the existing record.
// Status and payment info are not editable here; those transitions belong
// to MarkPaid/MarkPending so the provenance invariant cannot be broken by
// a plain edit.
func (l *Ledger) Update(id string, upd DebtUpdate) (domain.Debt, error) {
	if upd.Amount != nil && !upd.Amount.IsPositive() {
		return domain.Debt{}, domain.ErrInvalidAmount
	}
	if upd.Category != nil && !upd.Category.Valid() {
		return domain.Debt{}, domain.ErrInvalidCategory
	}
	if upd.Installments != nil {
		i := upd.Installments
		if i.Current <= 0 || i.Total <= 0 || i.Current > i.Total {
			return domain.Debt{}, domain.ErrInvalidInstallments
		}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.debts {
		d := &l.debts[i]
		if d.ID != id {
			continue
		}
		if upd.Description != nil {
			d.Description = *upd.Description
		}
		if upd.Amount != nil {
			d.Amount = *upd.Amount
		}
		if upd.Company != nil {
			d.Company = *upd.Company
		}
		if upd.DueDate != nil {
			d.DueDate = *upd.DueDate
		}
		if upd.Category != nil {
			d.Category = *upd.Category
		}
		if upd.Installments != nil {
			d.Installments = upd.Installments
		}
		if upd.CardID != nil {
			d.CardID = *upd.CardID
		}
		if upd.OverdraftID != nil {
			d.OverdraftID = *upd.OverdraftID
		}
		return *d, l.persist()
	}
	return domain.Debt{}, domain.ErrDebtNotFound
}

// Remove deletes the debt unconditionally. Deletion is not a reversal: a
// paid debt's funding is not returned.
func (l *Ledger) Remove(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, d := range l.debts {
		if d.ID == id {
			l.debts = append(l.debts[:i], l.debts[i+1:]...)
			return l.persist()
		}
	}
	return domain.ErrDebtNotFound
}

// MarkPaid flips the debt to paid and records where the money came from.
// No funds move here.
func (l *Ledger) MarkPaid(id string, info domain.PaymentInfo) (domain.Debt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.debts {
		d := &l.debts[i]
		if d.ID != id {
			continue
		}
		d.Status = domain.StatusPaid
		d.Payment = &info
		return *d, l.persist()
	}
	return domain.Debt{}, domain.ErrDebtNotFound
}

// MarkPending flips the debt back to pending and clears its provenance.
// No funds move here.
func (l *Ledger) MarkPending(id string) (domain.Debt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.debts {
		d := &l.debts[i]
		if d.ID != id {
			continue
		}
		d.Status = domain.StatusPending
		d.Payment = nil
		return *d, l.persist()
	}
	return domain.Debt{}, domain.ErrDebtNotFound
}
