package api

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/quita-app/quita/internal/domain"
)

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.advisor.Snapshot())
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	advice, err := s.advisor.Advise(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, advice)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string               `json:"message"`
		History []domain.ChatMessage `json:"history"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	reply, err := s.advisor.Chat(r.Context(), req.History, req.Message)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// handleSummary returns a compact headline view of the whole state:
// balance, totals and per-facility availability in one response.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	snap := s.advisor.Snapshot()
	pending := s.ledger.Pending()

	type facilitySummary struct {
		ID        string          `json:"id"`
		Name      string          `json:"name"`
		Limit     decimal.Decimal `json:"limit"`
		Used      decimal.Decimal `json:"used"`
		Available decimal.Decimal `json:"available"`
	}
	cards := make([]facilitySummary, 0, len(snap.CreditCards))
	for _, c := range snap.CreditCards {
		cards = append(cards, facilitySummary{
			ID:        c.ID,
			Name:      c.Name,
			Limit:     c.Limit,
			Used:      c.UsedLimit,
			Available: c.AvailableLimit(pending),
		})
	}
	overdrafts := make([]facilitySummary, 0, len(snap.Overdrafts))
	for _, o := range snap.Overdrafts {
		overdrafts = append(overdrafts, facilitySummary{
			ID:        o.ID,
			Name:      o.BankName,
			Limit:     o.Limit,
			Used:      o.UsedLimit,
			Available: o.AvailableLimit(pending),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"balance":    snap.Balance,
		"totals":     snap.Totals,
		"cards":      cards,
		"overdrafts": overdrafts,
	})
}
