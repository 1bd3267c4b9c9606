package finance

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/quita-app/quita/internal/domain"
	"github.com/quita-app/quita/internal/infra/sqlite"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	r, err := NewRegistry(db)
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}
	return r
}

// ─── Balance ────────────────────────────────────────────────────────────────

func TestRegistry_SetBalance(t *testing.T) {
	r := newTestRegistry(t)

	if err := r.SetBalance(dec("150.50")); err != nil {
		t.Fatalf("SetBalance() error: %v", err)
	}
	if got := r.Balance(); !got.Equal(dec("150.50")) {
		t.Errorf("Balance() = %s, want 150.50", got)
	}

	// Negative balances are allowed (overdrawn account).
	if err := r.SetBalance(dec("-99.99")); err != nil {
		t.Fatalf("SetBalance(negative) error: %v", err)
	}
	if got := r.Balance(); !got.Equal(dec("-99.99")) {
		t.Errorf("Balance() = %s, want -99.99", got)
	}
}

func TestRegistry_AdjustBalance(t *testing.T) {
	r := newTestRegistry(t)
	r.SetBalance(dec("100"))

	r.AdjustBalance(dec("-30"))
	r.AdjustBalance(dec("5.25"))

	if got := r.Balance(); !got.Equal(dec("75.25")) {
		t.Errorf("Balance() = %s, want 75.25", got)
	}
}

// ─── Credit cards ───────────────────────────────────────────────────────────

func TestRegistry_AddCreditCard(t *testing.T) {
	r := newTestRegistry(t)

	card, err := r.AddCreditCard("Nubank", dec("1000"), dec("200"), 5, 12)
	if err != nil {
		t.Fatalf("AddCreditCard() error: %v", err)
	}
	if card.ID == "" {
		t.Error("card.ID is empty")
	}
	if !card.UsedLimit.Equal(dec("200")) {
		t.Errorf("UsedLimit = %s, want 200", card.UsedLimit)
	}

	cards := r.CreditCards()
	if len(cards) != 1 || cards[0].Name != "Nubank" {
		t.Errorf("CreditCards() = %+v", cards)
	}
}

func TestRegistry_AddCreditCard_NegativeLimit(t *testing.T) {
	r := newTestRegistry(t)

	if _, err := r.AddCreditCard("Bad", dec("-1"), decimal.Zero, 1, 1); !errors.Is(err, domain.ErrInvalidLimit) {
		t.Errorf("err = %v, want ErrInvalidLimit", err)
	}
	if len(r.CreditCards()) != 0 {
		t.Error("refused add must not mutate the collection")
	}
}

func TestRegistry_UpdateCreditCard(t *testing.T) {
	r := newTestRegistry(t)
	card, _ := r.AddCreditCard("Nubank", dec("1000"), decimal.Zero, 5, 12)

	name := "Nubank Ultravioleta"
	used := dec("300")
	got, err := r.UpdateCreditCard(card.ID, CreditCardUpdate{Name: &name, UsedLimit: &used})
	if err != nil {
		t.Fatalf("UpdateCreditCard() error: %v", err)
	}
	if got.Name != name {
		t.Errorf("Name = %q, want %q", got.Name, name)
	}
	if !got.UsedLimit.Equal(used) {
		t.Errorf("UsedLimit = %s, want 300", got.UsedLimit)
	}
	// Untouched fields survive a partial edit.
	if !got.Limit.Equal(dec("1000")) || got.ClosingDay != 5 {
		t.Errorf("partial update clobbered fields: %+v", got)
	}
}

func TestRegistry_UpdateCreditCard_NotFound(t *testing.T) {
	r := newTestRegistry(t)
	if _, err := r.UpdateCreditCard("missing", CreditCardUpdate{}); !errors.Is(err, domain.ErrCardNotFound) {
		t.Errorf("err = %v, want ErrCardNotFound", err)
	}
}

func TestRegistry_RemoveCreditCard(t *testing.T) {
	r := newTestRegistry(t)
	card, _ := r.AddCreditCard("Nubank", dec("1000"), decimal.Zero, 5, 12)

	if err := r.RemoveCreditCard(card.ID); err != nil {
		t.Fatalf("RemoveCreditCard() error: %v", err)
	}
	if len(r.CreditCards()) != 0 {
		t.Error("card still present after removal")
	}
	if err := r.RemoveCreditCard(card.ID); !errors.Is(err, domain.ErrCardNotFound) {
		t.Errorf("second removal err = %v, want ErrCardNotFound", err)
	}
}

func TestRegistry_AvailableCardLimit(t *testing.T) {
	r := newTestRegistry(t)
	card, _ := r.AddCreditCard("Nubank", dec("1000"), dec("200"), 5, 12)

	debts := []domain.Debt{
		{ID: "d1", Amount: dec("100"), Category: domain.CategoryCreditCard, CardID: card.ID, Status: domain.StatusPending},
		{ID: "d2", Amount: dec("50"), Category: domain.CategoryCreditCard, CardID: card.ID, Status: domain.StatusPending},
	}
	avail, err := r.AvailableCardLimit(card.ID, debts)
	if err != nil {
		t.Fatalf("AvailableCardLimit() error: %v", err)
	}
	if !avail.Equal(dec("650")) {
		t.Errorf("available = %s, want 650", avail)
	}

	if _, err := r.AvailableCardLimit("missing", debts); !errors.Is(err, domain.ErrCardNotFound) {
		t.Errorf("err = %v, want ErrCardNotFound", err)
	}
}

// ─── Overdrafts ─────────────────────────────────────────────────────────────

func TestRegistry_AddOverdraft_ZeroesUsedLimit(t *testing.T) {
	r := newTestRegistry(t)

	od, err := r.AddOverdraft("Itaú", dec("2000"))
	if err != nil {
		t.Fatalf("AddOverdraft() error: %v", err)
	}
	if !od.UsedLimit.IsZero() {
		t.Errorf("UsedLimit = %s, want 0 on creation", od.UsedLimit)
	}
}

func TestRegistry_UpdateOverdraft(t *testing.T) {
	r := newTestRegistry(t)
	od, _ := r.AddOverdraft("Itaú", dec("2000"))

	used := dec("500")
	got, err := r.UpdateOverdraft(od.ID, OverdraftUpdate{UsedLimit: &used})
	if err != nil {
		t.Fatalf("UpdateOverdraft() error: %v", err)
	}
	if !got.UsedLimit.Equal(used) {
		t.Errorf("UsedLimit = %s, want 500", got.UsedLimit)
	}

	avail, err := r.AvailableOverdraftLimit(od.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !avail.Equal(dec("1500")) {
		t.Errorf("available = %s, want 1500", avail)
	}
}

func TestRegistry_RemoveOverdraft(t *testing.T) {
	r := newTestRegistry(t)
	od, _ := r.AddOverdraft("Itaú", dec("2000"))

	if err := r.RemoveOverdraft(od.ID); err != nil {
		t.Fatalf("RemoveOverdraft() error: %v", err)
	}
	if _, err := r.Overdraft(od.ID); !errors.Is(err, domain.ErrOverdraftNotFound) {
		t.Errorf("err = %v, want ErrOverdraftNotFound", err)
	}
}

// ─── Persistence ────────────────────────────────────────────────────────────

func TestRegistry_SurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	r, err := NewRegistry(db)
	if err != nil {
		t.Fatal(err)
	}
	r.SetBalance(dec("321"))
	card, _ := r.AddCreditCard("Inter", dec("800"), decimal.Zero, 1, 8)
	db.Close()

	db2, err := sqlite.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer db2.Close()
	r2, err := NewRegistry(db2)
	if err != nil {
		t.Fatal(err)
	}

	if got := r2.Balance(); !got.Equal(dec("321")) {
		t.Errorf("Balance() after restart = %s, want 321", got)
	}
	if _, err := r2.CreditCard(card.ID); err != nil {
		t.Errorf("CreditCard(%s) after restart: %v", card.ID, err)
	}
}
