package domain

import "github.com/shopspring/decimal"

// ─── Availability math ──────────────────────────────────────────────────────
// Every caller (payment eligibility, display totals, the API) goes through
// these functions so there is exactly one definition of "available limit":
//
//	available = total limit − used limit − Σ(linked pending debts)
//
// A pending debt linked to a facility id that no longer resolves simply
// never shows up in any facility's sum.

// PendingLinkedTotal sums the amounts of pending debts of the given category
// whose facility link equals facilityID.
func PendingLinkedTotal(debts []Debt, category DebtCategory, facilityID string) decimal.Decimal {
	total := decimal.Zero
	for _, d := range debts {
		if !d.Pending() || d.Category != category {
			continue
		}
		switch category {
		case CategoryCreditCard:
			if d.CardID == facilityID {
				total = total.Add(d.Amount)
			}
		case CategoryOverdraft:
			if d.OverdraftID == facilityID {
				total = total.Add(d.Amount)
			}
		}
	}
	return total
}

// AvailableLimit returns the card's limit net of external usage and of
// pending debts linked to it.
func (c CreditCard) AvailableLimit(debts []Debt) decimal.Decimal {
	return c.Limit.Sub(c.UsedLimit).Sub(PendingLinkedTotal(debts, CategoryCreditCard, c.ID))
}

// AvailableLimit returns the overdraft's limit net of external usage and of
// pending debts linked to it.
func (o Overdraft) AvailableLimit(debts []Debt) decimal.Decimal {
	return o.Limit.Sub(o.UsedLimit).Sub(PendingLinkedTotal(debts, CategoryOverdraft, o.ID))
}
