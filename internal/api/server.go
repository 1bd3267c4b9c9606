// Package api provides the HTTP server for the tracker.
// It exposes a small REST surface over the Account Registry, the Debt
// Ledger, the Settlement Engine and the advisory service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quita-app/quita/internal/app/advisor"
	"github.com/quita-app/quita/internal/app/debts"
	"github.com/quita-app/quita/internal/app/finance"
	"github.com/quita-app/quita/internal/app/settlement"
	"github.com/quita-app/quita/internal/domain"
)

// Server is the tracker HTTP API server.
type Server struct {
	registry       *finance.Registry
	ledger         *debts.Ledger
	engine         *settlement.Engine
	advisor        *advisor.Service
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(registry *finance.Registry, ledger *debts.Ledger, engine *settlement.Engine, adv *advisor.Service) *Server {
	return &Server{registry: registry, ledger: ledger, engine: engine, advisor: adv}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)

		r.Get("/balance", s.handleGetBalance)
		r.Put("/balance", s.handleSetBalance)
		r.Post("/balance/adjust", s.handleAdjustBalance)

		r.Route("/cards", func(r chi.Router) {
			r.Get("/", s.handleListCards)
			r.Post("/", s.handleAddCard)
			r.Patch("/{id}", s.handleUpdateCard)
			r.Delete("/{id}", s.handleRemoveCard)
			r.Get("/{id}/available", s.handleCardAvailable)
		})

		r.Route("/overdrafts", func(r chi.Router) {
			r.Get("/", s.handleListOverdrafts)
			r.Post("/", s.handleAddOverdraft)
			r.Patch("/{id}", s.handleUpdateOverdraft)
			r.Delete("/{id}", s.handleRemoveOverdraft)
			r.Get("/{id}/available", s.handleOverdraftAvailable)
		})

		r.Route("/debts", func(r chi.Router) {
			r.Get("/", s.handleListDebts)
			r.Post("/", s.handleAddDebt)
			r.Get("/export", s.handleExportDebts)
			r.Patch("/{id}", s.handleUpdateDebt)
			r.Delete("/{id}", s.handleRemoveDebt)
			r.Post("/{id}/pay", s.handlePayDebt)
			r.Post("/{id}/unpay", s.handleUnpayDebt)
			r.Get("/{id}/eligibility", s.handleDebtEligibility)
		})

		r.Get("/snapshot", s.handleSnapshot)
		r.Post("/advice", s.handleAdvice)
		r.Post("/chat", s.handleChat)
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeDomainError maps domain refusals to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, errStatus(err), err.Error())
}

func errStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrDebtNotFound),
		errors.Is(err, domain.ErrCardNotFound),
		errors.Is(err, domain.ErrOverdraftNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyPaid),
		errors.Is(err, domain.ErrNotPaid),
		errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidSource),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidLimit),
		errors.Is(err, domain.ErrInvalidInstallments),
		errors.Is(err, domain.ErrSourceRequired):
		return http.StatusBadRequest
	case errors.Is(err, advisor.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrBadAdvice):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// corsMiddleware adds CORS headers for the local UI.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
