package sqlite

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quita-app/quita/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoadFinance_Empty(t *testing.T) {
	db := newTestDB(t)

	state, err := db.LoadFinance()
	if err != nil {
		t.Fatalf("LoadFinance() error: %v", err)
	}
	if state != nil {
		t.Errorf("LoadFinance() = %+v, want nil before first save", state)
	}
}

func TestSaveLoadFinance(t *testing.T) {
	db := newTestDB(t)

	in := domain.FinanceState{
		Balance: decimal.RequireFromString("1234.56"),
		CreditCards: []domain.CreditCard{
			{ID: "c1", Name: "Black", Limit: decimal.RequireFromString("1000"), UsedLimit: decimal.RequireFromString("200"), ClosingDay: 5, DueDay: 12},
		},
		Overdrafts: []domain.Overdraft{
			{ID: "o1", BankName: "Itaú", Limit: decimal.RequireFromString("2000"), UsedLimit: decimal.Zero},
		},
	}
	if err := db.SaveFinance(in); err != nil {
		t.Fatalf("SaveFinance() error: %v", err)
	}

	out, err := db.LoadFinance()
	if err != nil {
		t.Fatalf("LoadFinance() error: %v", err)
	}
	if out == nil {
		t.Fatal("LoadFinance() = nil after save")
	}
	if !out.Balance.Equal(in.Balance) {
		t.Errorf("Balance = %s, want %s", out.Balance, in.Balance)
	}
	if len(out.CreditCards) != 1 || out.CreditCards[0].Name != "Black" {
		t.Errorf("CreditCards = %+v", out.CreditCards)
	}
	if out.CreditCards[0].ClosingDay != 5 {
		t.Errorf("ClosingDay = %d, want 5", out.CreditCards[0].ClosingDay)
	}
	if len(out.Overdrafts) != 1 || out.Overdrafts[0].BankName != "Itaú" {
		t.Errorf("Overdrafts = %+v", out.Overdrafts)
	}
}

func TestSaveFinance_Overwrites(t *testing.T) {
	db := newTestDB(t)

	db.SaveFinance(domain.FinanceState{Balance: decimal.RequireFromString("10")})
	db.SaveFinance(domain.FinanceState{Balance: decimal.RequireFromString("20")})

	out, err := db.LoadFinance()
	if err != nil {
		t.Fatal(err)
	}
	if !out.Balance.Equal(decimal.RequireFromString("20")) {
		t.Errorf("Balance = %s, want 20 (last write wins)", out.Balance)
	}
}

func TestSaveLoadDebts(t *testing.T) {
	db := newTestDB(t)

	paidAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	in := []domain.Debt{
		{
			ID:          "d1",
			Description: "Rent march",
			Amount:      decimal.RequireFromString("1500.00"),
			Company:     "Imobiliária Sul",
			DueDate:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			Category:    domain.CategoryRent,
			Status:      domain.StatusPending,
		},
		{
			ID:           "d2",
			Description:  "Course 2/10",
			Amount:       decimal.RequireFromString("299.90"),
			Category:     domain.CategoryEducation,
			Installments: &domain.Installments{Current: 2, Total: 10},
			Status:       domain.StatusPaid,
			Payment:      &domain.PaymentInfo{PaidAt: paidAt, Source: domain.SourceBalance},
		},
	}
	if err := db.SaveDebts(in); err != nil {
		t.Fatalf("SaveDebts() error: %v", err)
	}

	out, err := db.LoadDebts()
	if err != nil {
		t.Fatalf("LoadDebts() error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if !out[0].Amount.Equal(in[0].Amount) {
		t.Errorf("Amount = %s, want %s", out[0].Amount, in[0].Amount)
	}
	if out[1].Installments == nil || out[1].Installments.Total != 10 {
		t.Errorf("Installments = %+v", out[1].Installments)
	}
	if out[1].Payment == nil || out[1].Payment.Source != domain.SourceBalance {
		t.Errorf("Payment = %+v", out[1].Payment)
	}
	if out[1].Payment != nil && !out[1].Payment.PaidAt.Equal(paidAt) {
		t.Errorf("PaidAt = %v, want %v", out[1].Payment.PaidAt, paidAt)
	}
}

func TestLoadDebts_Empty(t *testing.T) {
	db := newTestDB(t)

	debts, err := db.LoadDebts()
	if err != nil {
		t.Fatalf("LoadDebts() error: %v", err)
	}
	if debts != nil {
		t.Errorf("LoadDebts() = %+v, want nil before first save", debts)
	}
}

func TestStateSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	db, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	db.SaveFinance(domain.FinanceState{Balance: decimal.RequireFromString("777.77")})
	db.SaveDebts([]domain.Debt{{ID: "d1", Description: "Water", Amount: decimal.RequireFromString("80"), Category: domain.CategoryUtilities, Status: domain.StatusPending}})
	db.Close()

	db2, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer db2.Close()

	state, err := db2.LoadFinance()
	if err != nil || state == nil {
		t.Fatalf("LoadFinance() after reopen: state=%v err=%v", state, err)
	}
	if !state.Balance.Equal(decimal.RequireFromString("777.77")) {
		t.Errorf("Balance = %s, want 777.77", state.Balance)
	}
	debts, err := db2.LoadDebts()
	if err != nil || len(debts) != 1 {
		t.Fatalf("LoadDebts() after reopen: %v err=%v", debts, err)
	}
}
