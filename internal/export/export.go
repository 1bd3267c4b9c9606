// Package export flattens the debt list into delimited or structured text,
// one record per debt.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/quita-app/quita/internal/domain"
)

var csvHeader = []string{
	"id", "description", "amount", "company", "due_date", "category",
	"installment", "card_id", "overdraft_id", "status", "paid_at", "payment_source", "payment_source_id",
}

// DebtsCSV writes the debts as comma-delimited text with a header row.
func DebtsCSV(w io.Writer, debts []domain.Debt) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, d := range debts {
		record := []string{
			d.ID,
			d.Description,
			d.Amount.StringFixed(2),
			d.Company,
			d.DueDate.Format("2006-01-02"),
			string(d.Category),
			"",
			d.CardID,
			d.OverdraftID,
			string(d.Status),
			"", "", "",
		}
		if d.Installments != nil {
			record[6] = fmt.Sprintf("%d/%d", d.Installments.Current, d.Installments.Total)
		}
		if d.Payment != nil {
			record[10] = d.Payment.PaidAt.Format("2006-01-02 15:04:05")
			record[11] = string(d.Payment.Source)
			record[12] = d.Payment.SourceID
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DebtsJSON writes the debts as an indented JSON array.
func DebtsJSON(w io.Writer, debts []domain.Debt) error {
	if debts == nil {
		debts = []domain.Debt{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(debts)
}
