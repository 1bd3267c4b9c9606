package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/quita-app/quita/internal/app/debts"
	"github.com/quita-app/quita/internal/domain"
	"github.com/quita-app/quita/internal/export"
)

type debtRequest struct {
	Description  *string               `json:"description"`
	Amount       *decimal.Decimal      `json:"amount"`
	Company      *string               `json:"company"`
	DueDate      *time.Time            `json:"due_date"`
	Category     *domain.DebtCategory  `json:"category"`
	Installments *domain.Installments  `json:"installments"`
	CardID       *string               `json:"card_id"`
	OverdraftID  *string               `json:"overdraft_id"`
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	var list []domain.Debt
	if sortKey := r.URL.Query().Get("sort"); sortKey != "" {
		desc := r.URL.Query().Get("order") == "desc"
		list = s.ledger.Sorted(debts.SortKey(sortKey), desc)
	} else {
		list = s.ledger.Debts()
	}
	if list == nil {
		list = []domain.Debt{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleAddDebt(w http.ResponseWriter, r *http.Request) {
	var req debtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, "amount is required")
		return
	}
	if req.Category == nil {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}
	d := domain.Debt{
		Amount:       *req.Amount,
		Category:     *req.Category,
		Installments: req.Installments,
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.Company != nil {
		d.Company = *req.Company
	}
	if req.DueDate != nil {
		d.DueDate = *req.DueDate
	}
	if req.CardID != nil {
		d.CardID = *req.CardID
	}
	if req.OverdraftID != nil {
		d.OverdraftID = *req.OverdraftID
	}
	created, err := s.ledger.Add(d)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateDebt(w http.ResponseWriter, r *http.Request) {
	var req debtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := s.ledger.Update(chi.URLParam(r, "id"), debts.DebtUpdate{
		Description:  req.Description,
		Amount:       req.Amount,
		Company:      req.Company,
		DueDate:      req.DueDate,
		Category:     req.Category,
		Installments: req.Installments,
		CardID:       req.CardID,
		OverdraftID:  req.OverdraftID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleRemoveDebt(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Remove(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Settlement ─────────────────────────────────────────────────────────────

func (s *Server) handlePayDebt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Source   domain.PaymentSource `json:"source"`
		SourceID string               `json:"source_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	debt, err := s.engine.Pay(chi.URLParam(r, "id"), req.Source, req.SourceID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, debt)
}

func (s *Server) handleUnpayDebt(w http.ResponseWriter, r *http.Request) {
	debt, err := s.engine.Unpay(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, debt)
}

func (s *Server) handleDebtEligibility(w http.ResponseWriter, r *http.Request) {
	debt, err := s.ledger.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.EligibleSources(debt.Amount))
}

// ─── Export ─────────────────────────────────────────────────────────────────

func (s *Server) handleExportDebts(w http.ResponseWriter, r *http.Request) {
	list := s.ledger.Sorted(debts.SortByDueDate, false)
	switch r.URL.Query().Get("format") {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="debts.csv"`)
		if err := export.DebtsCSV(w, list); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="debts.json"`)
		if err := export.DebtsJSON(w, list); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
	default:
		writeError(w, http.StatusBadRequest, "unknown export format")
	}
}
