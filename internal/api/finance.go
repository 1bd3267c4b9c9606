package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/quita-app/quita/internal/app/finance"
)

// ─── Balance ────────────────────────────────────────────────────────────────

type balanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, balanceResponse{Balance: s.registry.Balance()})
}

func (s *Server) handleSetBalance(w http.ResponseWriter, r *http.Request) {
	var req balanceResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.registry.SetBalance(req.Balance); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Balance: s.registry.Balance()})
}

func (s *Server) handleAdjustBalance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta decimal.Decimal `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.registry.AdjustBalance(req.Delta); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Balance: s.registry.Balance()})
}

// ─── Credit cards ───────────────────────────────────────────────────────────

type cardRequest struct {
	Name       *string          `json:"name"`
	Limit      *decimal.Decimal `json:"limit"`
	UsedLimit  *decimal.Decimal `json:"used_limit"`
	ClosingDay *int             `json:"closing_day"`
	DueDay     *int             `json:"due_day"`
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.CreditCards())
}

func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == nil || *req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	limit, used := decimal.Zero, decimal.Zero
	if req.Limit != nil {
		limit = *req.Limit
	}
	if req.UsedLimit != nil {
		used = *req.UsedLimit
	}
	closing, due := 1, 1
	if req.ClosingDay != nil {
		closing = *req.ClosingDay
	}
	if req.DueDay != nil {
		due = *req.DueDay
	}
	card, err := s.registry.AddCreditCard(*req.Name, limit, used, closing, due)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	card, err := s.registry.UpdateCreditCard(chi.URLParam(r, "id"), finance.CreditCardUpdate{
		Name:       req.Name,
		Limit:      req.Limit,
		UsedLimit:  req.UsedLimit,
		ClosingDay: req.ClosingDay,
		DueDay:     req.DueDay,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (s *Server) handleRemoveCard(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.RemoveCreditCard(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCardAvailable(w http.ResponseWriter, r *http.Request) {
	avail, err := s.registry.AvailableCardLimit(chi.URLParam(r, "id"), s.ledger.Pending())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"available": avail})
}

// ─── Overdrafts ─────────────────────────────────────────────────────────────

type overdraftRequest struct {
	BankName  *string          `json:"bank_name"`
	Limit     *decimal.Decimal `json:"limit"`
	UsedLimit *decimal.Decimal `json:"used_limit"`
}

func (s *Server) handleListOverdrafts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Overdrafts())
}

func (s *Server) handleAddOverdraft(w http.ResponseWriter, r *http.Request) {
	var req overdraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BankName == nil || *req.BankName == "" {
		writeError(w, http.StatusBadRequest, "bank_name is required")
		return
	}
	limit := decimal.Zero
	if req.Limit != nil {
		limit = *req.Limit
	}
	od, err := s.registry.AddOverdraft(*req.BankName, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, od)
}

func (s *Server) handleUpdateOverdraft(w http.ResponseWriter, r *http.Request) {
	var req overdraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	od, err := s.registry.UpdateOverdraft(chi.URLParam(r, "id"), finance.OverdraftUpdate{
		BankName:  req.BankName,
		Limit:     req.Limit,
		UsedLimit: req.UsedLimit,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, od)
}

func (s *Server) handleRemoveOverdraft(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.RemoveOverdraft(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOverdraftAvailable(w http.ResponseWriter, r *http.Request) {
	avail, err := s.registry.AvailableOverdraftLimit(chi.URLParam(r, "id"), s.ledger.Pending())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"available": avail})
}
