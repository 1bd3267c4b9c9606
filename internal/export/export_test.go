package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quita-app/quita/internal/domain"
)

func sampleDebts() []domain.Debt {
	return []domain.Debt{
		{
			ID:          "d1",
			Description: "Rent, downtown flat",
			Amount:      decimal.RequireFromString("1500"),
			Company:     "Imobiliária Sul",
			DueDate:     time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
			Category:    domain.CategoryRent,
			Status:      domain.StatusPending,
		},
		{
			ID:           "d2",
			Description:  "Course",
			Amount:       decimal.RequireFromString("299.9"),
			Category:     domain.CategoryEducation,
			Installments: &domain.Installments{Current: 2, Total: 10},
			DueDate:      time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC),
			Status:       domain.StatusPaid,
			Payment: &domain.PaymentInfo{
				PaidAt:   time.Date(2025, 4, 18, 9, 30, 0, 0, time.UTC),
				Source:   domain.SourceCreditCard,
				SourceID: "c1",
			},
		},
	}
}

func TestDebtsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := DebtsCSV(&buf, sampleDebts()); err != nil {
		t.Fatalf("DebtsCSV() error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "id" || rows[0][2] != "amount" {
		t.Errorf("header = %v", rows[0])
	}
	// Embedded comma survives quoting.
	if rows[1][1] != "Rent, downtown flat" {
		t.Errorf("description = %q", rows[1][1])
	}
	if rows[1][2] != "1500.00" {
		t.Errorf("amount = %q, want 1500.00", rows[1][2])
	}
	if rows[2][6] != "2/10" {
		t.Errorf("installment = %q, want 2/10", rows[2][6])
	}
	if rows[2][11] != "credit_card" || rows[2][12] != "c1" {
		t.Errorf("payment columns = %q %q", rows[2][11], rows[2][12])
	}
	// Pending debt leaves payment columns empty.
	if rows[1][10] != "" || rows[1][11] != "" {
		t.Errorf("pending debt has payment columns: %v", rows[1])
	}
}

func TestDebtsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := DebtsJSON(&buf, sampleDebts()); err != nil {
		t.Fatalf("DebtsJSON() error: %v", err)
	}

	var out []domain.Debt
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if !out[1].Amount.Equal(decimal.RequireFromString("299.9")) {
		t.Errorf("Amount = %s, want 299.9", out[1].Amount)
	}
}

func TestDebtsJSON_EmptyListIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := DebtsJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("output = %q, want []", got)
	}
}
