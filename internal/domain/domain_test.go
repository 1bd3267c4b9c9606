package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ─── Enumeration Tests ──────────────────────────────────────────────────────

func TestDebtCategory_Valid(t *testing.T) {
	valid := []DebtCategory{
		CategoryCreditCard, CategoryLoan, CategoryOverdraft, CategoryFinancing,
		CategoryConsortium, CategoryRent, CategoryUtilities, CategoryEducation,
		CategoryTax, CategoryHealth, CategoryOther,
	}
	for _, c := range valid {
		if !c.Valid() {
			t.Errorf("%q.Valid() = false, want true", c)
		}
	}
	for _, c := range []DebtCategory{"", "mortgage", "CREDIT_CARD"} {
		if c.Valid() {
			t.Errorf("%q.Valid() = true, want false", c)
		}
	}
}

func TestPaymentSource_Valid(t *testing.T) {
	for _, s := range []PaymentSource{SourceBalance, SourceCreditCard, SourceOverdraft} {
		if !s.Valid() {
			t.Errorf("%q.Valid() = false, want true", s)
		}
	}
	for _, s := range []PaymentSource{"", "loan", "cash"} {
		if s.Valid() {
			t.Errorf("%q.Valid() = true, want false", s)
		}
	}
}

// ─── Availability Tests ─────────────────────────────────────────────────────

func TestCreditCard_AvailableLimit(t *testing.T) {
	card := CreditCard{ID: "c1", Name: "Black", Limit: dec("1000"), UsedLimit: dec("200")}
	debts := []Debt{
		{ID: "d1", Amount: dec("100"), Category: CategoryCreditCard, CardID: "c1", Status: StatusPending},
		{ID: "d2", Amount: dec("50"), Category: CategoryCreditCard, CardID: "c1", Status: StatusPending},
		// Linked but paid — must not count.
		{ID: "d3", Amount: dec("400"), Category: CategoryCreditCard, CardID: "c1", Status: StatusPaid},
		// Pending but linked elsewhere.
		{ID: "d4", Amount: dec("75"), Category: CategoryCreditCard, CardID: "c2", Status: StatusPending},
		// Pending, right card id, wrong category.
		{ID: "d5", Amount: dec("80"), Category: CategoryLoan, CardID: "c1", Status: StatusPending},
	}

	got := card.AvailableLimit(debts)
	if !got.Equal(dec("650")) {
		t.Errorf("AvailableLimit() = %s, want 650", got)
	}
}

func TestOverdraft_AvailableLimit(t *testing.T) {
	od := Overdraft{ID: "o1", BankName: "Itaú", Limit: dec("2000"), UsedLimit: dec("500")}
	debts := []Debt{
		{ID: "d1", Amount: dec("300"), Category: CategoryOverdraft, OverdraftID: "o1", Status: StatusPending},
		{ID: "d2", Amount: dec("200"), Category: CategoryOverdraft, OverdraftID: "o2", Status: StatusPending},
	}

	got := od.AvailableLimit(debts)
	if !got.Equal(dec("1200")) {
		t.Errorf("AvailableLimit() = %s, want 1200", got)
	}
}

func TestAvailableLimit_NoDebts(t *testing.T) {
	card := CreditCard{ID: "c1", Limit: dec("1000"), UsedLimit: dec("0")}
	if got := card.AvailableLimit(nil); !got.Equal(dec("1000")) {
		t.Errorf("AvailableLimit() = %s, want 1000", got)
	}
}

func TestPendingLinkedTotal_UnknownCategory(t *testing.T) {
	debts := []Debt{
		{ID: "d1", Amount: dec("10"), Category: CategoryRent, Status: StatusPending},
	}
	// Rent debts carry no facility link; the sum for any facility is zero.
	if got := PendingLinkedTotal(debts, CategoryRent, "x"); !got.IsZero() {
		t.Errorf("PendingLinkedTotal() = %s, want 0", got)
	}
}

func TestDebt_StatusHelpers(t *testing.T) {
	d := Debt{Status: StatusPending}
	if !d.Pending() || d.Paid() {
		t.Errorf("pending debt: Pending()=%v Paid()=%v", d.Pending(), d.Paid())
	}
	d.Status = StatusPaid
	if d.Pending() || !d.Paid() {
		t.Errorf("paid debt: Pending()=%v Paid()=%v", d.Pending(), d.Paid())
	}
}
