// Package settlement couples the Account Registry and the Debt Ledger.
//
// Pay debits exactly one of three mutually exclusive sources and records
// provenance on the debt; Unpay credits the recorded source back and
// erases the provenance. Both validate everything before touching either
// store, so a refused operation is a pure no-op. A single engine mutex
// keeps pay/unpay calls from interleaving with each other.
package settlement

import (
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quita-app/quita/internal/app/debts"
	"github.com/quita-app/quita/internal/app/finance"
	"github.com/quita-app/quita/internal/domain"
	"github.com/quita-app/quita/internal/infra/observability"
)

// Engine executes and reverses debt payments.
type Engine struct {
	mu       sync.Mutex
	registry *finance.Registry
	ledger   *debts.Ledger
	now      func() time.Time
}

// New creates a settlement engine over the given registry and ledger.
func New(registry *finance.Registry, ledger *debts.Ledger) *Engine {
	return &Engine{registry: registry, ledger: ledger, now: time.Now}
}

// ─── Pay ────────────────────────────────────────────────────────────────────

// Pay settles the debt from the chosen source. sourceID names the facility
// for card and overdraft sources and must be empty for balance.
//
// Refusals (already paid, unknown source, insufficient availability) are
// surfaced as domain errors and leave both stores untouched.
func (e *Engine) Pay(debtID string, source domain.PaymentSource, sourceID string) (domain.Debt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	debt, err := e.ledger.Get(debtID)
	if err != nil {
		observability.ObserveRefusal("pay")
		return domain.Debt{}, err
	}
	if debt.Paid() {
		observability.ObserveRefusal("pay")
		return domain.Debt{}, domain.ErrAlreadyPaid
	}
	if !source.Valid() {
		observability.ObserveRefusal("pay")
		return domain.Debt{}, domain.ErrInvalidSource
	}

	// Validate coverage before any mutation.
	switch source {
	case domain.SourceBalance:
		if e.registry.Balance().LessThan(debt.Amount) {
			observability.ObserveRefusal("pay")
			return domain.Debt{}, domain.ErrInsufficientFunds
		}
	case domain.SourceCreditCard:
		if sourceID == "" {
			observability.ObserveRefusal("pay")
			return domain.Debt{}, domain.ErrSourceRequired
		}
		avail, err := e.registry.AvailableCardLimit(sourceID, e.ledger.Pending())
		if err != nil {
			observability.ObserveRefusal("pay")
			return domain.Debt{}, err
		}
		if avail.LessThan(debt.Amount) {
			observability.ObserveRefusal("pay")
			return domain.Debt{}, domain.ErrInsufficientFunds
		}
	case domain.SourceOverdraft:
		if sourceID == "" {
			observability.ObserveRefusal("pay")
			return domain.Debt{}, domain.ErrSourceRequired
		}
		avail, err := e.registry.AvailableOverdraftLimit(sourceID, e.ledger.Pending())
		if err != nil {
			observability.ObserveRefusal("pay")
			return domain.Debt{}, err
		}
		if avail.LessThan(debt.Amount) {
			observability.ObserveRefusal("pay")
			return domain.Debt{}, domain.ErrInsufficientFunds
		}
	}

	// Move the funds.
	switch source {
	case domain.SourceBalance:
		if err := e.registry.AdjustBalance(debt.Amount.Neg()); err != nil {
			return domain.Debt{}, err
		}
	case domain.SourceCreditCard:
		card, err := e.registry.CreditCard(sourceID)
		if err != nil {
			return domain.Debt{}, err
		}
		used := card.UsedLimit.Add(debt.Amount)
		if _, err := e.registry.UpdateCreditCard(sourceID, finance.CreditCardUpdate{UsedLimit: &used}); err != nil {
			return domain.Debt{}, err
		}
	case domain.SourceOverdraft:
		od, err := e.registry.Overdraft(sourceID)
		if err != nil {
			return domain.Debt{}, err
		}
		used := od.UsedLimit.Add(debt.Amount)
		if _, err := e.registry.UpdateOverdraft(sourceID, finance.OverdraftUpdate{UsedLimit: &used}); err != nil {
			return domain.Debt{}, err
		}
	}

	info := domain.PaymentInfo{PaidAt: e.now(), Source: source}
	if source != domain.SourceBalance {
		info.SourceID = sourceID
	}
	paid, err := e.ledger.MarkPaid(debtID, info)
	if err != nil {
		return domain.Debt{}, err
	}
	observability.ObservePayment(string(source))
	return paid, nil
}

// ─── Unpay ──────────────────────────────────────────────────────────────────

// Unpay reverses a settled payment: the recorded source is credited back
// and the debt returns to pending with its provenance cleared.
//
// A paid debt with no recorded provenance is a legacy case; the balance is
// credited as an approximation of the original source. Facility credits
// are clamped at zero so external edits between pay and unpay can never
// drive a used limit negative.
func (e *Engine) Unpay(debtID string) (domain.Debt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	debt, err := e.ledger.Get(debtID)
	if err != nil {
		observability.ObserveRefusal("unpay")
		return domain.Debt{}, err
	}
	if !debt.Paid() {
		observability.ObserveRefusal("unpay")
		return domain.Debt{}, domain.ErrNotPaid
	}

	switch {
	case debt.Payment == nil || debt.Payment.Source == domain.SourceBalance:
		if debt.Payment == nil {
			log.Printf("settlement: debt %s has no payment info, crediting balance as fallback", debt.ID)
		}
		if err := e.registry.AdjustBalance(debt.Amount); err != nil {
			return domain.Debt{}, err
		}
	case debt.Payment.Source == domain.SourceCreditCard:
		card, err := e.registry.CreditCard(debt.Payment.SourceID)
		if err != nil {
			// Facility deleted since payment; nothing to credit back.
			log.Printf("settlement: card %s not found while reversing debt %s", debt.Payment.SourceID, debt.ID)
		} else {
			used := clampZero(card.UsedLimit.Sub(debt.Amount))
			if _, err := e.registry.UpdateCreditCard(card.ID, finance.CreditCardUpdate{UsedLimit: &used}); err != nil {
				return domain.Debt{}, err
			}
		}
	case debt.Payment.Source == domain.SourceOverdraft:
		od, err := e.registry.Overdraft(debt.Payment.SourceID)
		if err != nil {
			log.Printf("settlement: overdraft %s not found while reversing debt %s", debt.Payment.SourceID, debt.ID)
		} else {
			used := clampZero(od.UsedLimit.Sub(debt.Amount))
			if _, err := e.registry.UpdateOverdraft(od.ID, finance.OverdraftUpdate{UsedLimit: &used}); err != nil {
				return domain.Debt{}, err
			}
		}
	}

	pending, err := e.ledger.MarkPending(debtID)
	if err != nil {
		return domain.Debt{}, err
	}
	observability.ObserveReversal()
	return pending, nil
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ─── Eligibility ────────────────────────────────────────────────────────────

// Eligibility lists which sources can cover a given amount. The order of
// the facility slices is the registry's insertion order: no preference
// ranking is computed here, that judgment belongs to the advisor.
type Eligibility struct {
	Balance    bool                `json:"balance"`
	Cards      []domain.CreditCard `json:"cards"`
	Overdrafts []domain.Overdraft  `json:"overdrafts"`
}

// EligibleSources returns every source whose availability covers amount.
func (e *Engine) EligibleSources(amount decimal.Decimal) Eligibility {
	pending := e.ledger.Pending()
	el := Eligibility{
		Balance: !e.registry.Balance().LessThan(amount),
	}
	for _, c := range e.registry.CreditCards() {
		if !c.AvailableLimit(pending).LessThan(amount) {
			el.Cards = append(el.Cards, c)
		}
	}
	for _, o := range e.registry.Overdrafts() {
		if !o.AvailableLimit(pending).LessThan(amount) {
			el.Overdrafts = append(el.Overdrafts, o)
		}
	}
	return el
}
