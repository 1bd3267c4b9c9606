// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of clean architecture — it depends on nothing.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Enumerations ───────────────────────────────────────────────────────────

// DebtStatus is the lifecycle state of a debt.
type DebtStatus string

const (
	StatusPending DebtStatus = "pending"
	StatusPaid    DebtStatus = "paid"
)

// DebtCategory is the closed set of debt kinds.
type DebtCategory string

const (
	CategoryCreditCard DebtCategory = "credit_card"
	CategoryLoan       DebtCategory = "loan"
	CategoryOverdraft  DebtCategory = "overdraft"
	CategoryFinancing  DebtCategory = "financing"
	CategoryConsortium DebtCategory = "consortium"
	CategoryRent       DebtCategory = "rent"
	CategoryUtilities  DebtCategory = "utilities"
	CategoryEducation  DebtCategory = "education"
	CategoryTax        DebtCategory = "tax"
	CategoryHealth     DebtCategory = "health"
	CategoryOther      DebtCategory = "other"
)

// Valid reports whether c is a member of the closed category set.
func (c DebtCategory) Valid() bool {
	switch c {
	case CategoryCreditCard, CategoryLoan, CategoryOverdraft, CategoryFinancing,
		CategoryConsortium, CategoryRent, CategoryUtilities, CategoryEducation,
		CategoryTax, CategoryHealth, CategoryOther:
		return true
	}
	return false
}

// PaymentSource is the funding source a debt can be settled from.
type PaymentSource string

const (
	SourceBalance    PaymentSource = "balance"
	SourceCreditCard PaymentSource = "credit_card"
	SourceOverdraft  PaymentSource = "overdraft"
)

// Valid reports whether s is a known funding source.
func (s PaymentSource) Valid() bool {
	switch s {
	case SourceBalance, SourceCreditCard, SourceOverdraft:
		return true
	}
	return false
}

// ─── Debt ───────────────────────────────────────────────────────────────────

// Installments tracks position within an installment plan (current ≤ total).
type Installments struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// PaymentInfo records the provenance of a settled debt. It is present if and
// only if the debt's status is paid; reversal needs it to credit the exact
// source the payment came from.
type PaymentInfo struct {
	PaidAt   time.Time     `json:"paid_at"`
	Source   PaymentSource `json:"payment_source"`
	SourceID string        `json:"source_id,omitempty"` // card or overdraft id for facility sources
}

// Debt is a single obligation, one-time or one installment of a plan.
// CardID/OverdraftID are non-owning references into the facility collections;
// removing a facility does not touch debts that point at it.
type Debt struct {
	ID           string          `json:"id"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Company      string          `json:"company"`
	DueDate      time.Time       `json:"due_date"`
	Category     DebtCategory    `json:"category"`
	Installments *Installments   `json:"installments,omitempty"`
	CardID       string          `json:"card_id,omitempty"`
	OverdraftID  string          `json:"overdraft_id,omitempty"`
	Status       DebtStatus      `json:"status"`
	Payment      *PaymentInfo    `json:"payment_info,omitempty"`
}

// Pending reports whether the debt has not been settled.
func (d Debt) Pending() bool { return d.Status == StatusPending }

// Paid reports whether the debt has been settled.
func (d Debt) Paid() bool { return d.Status == StatusPaid }

// ─── Facilities ─────────────────────────────────────────────────────────────

// CreditCard is a credit facility. UsedLimit covers purchases made outside
// this system; pending debts recorded here count against availability
// separately and never touch UsedLimit until they are paid from the card.
type CreditCard struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Limit      decimal.Decimal `json:"limit"`
	UsedLimit  decimal.Decimal `json:"used_limit"`
	ClosingDay int             `json:"closing_day"`
	DueDay     int             `json:"due_day"`
}

// Overdraft is an overdraft facility attached to a bank account.
type Overdraft struct {
	ID        string          `json:"id"`
	BankName  string          `json:"bank_name"`
	Limit     decimal.Decimal `json:"limit"`
	UsedLimit decimal.Decimal `json:"used_limit"`
}

// ─── Aggregate state ────────────────────────────────────────────────────────

// FinanceState is the account-side collection persisted as one record:
// the cash balance plus every facility.
type FinanceState struct {
	Balance     decimal.Decimal `json:"balance"`
	CreditCards []CreditCard    `json:"credit_cards"`
	Overdrafts  []Overdraft     `json:"overdrafts"`
}
