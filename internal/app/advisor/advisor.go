// Package advisor assembles read-only snapshots of the tracked state and
// relays them to the external advice collaborator. Nothing here is
// intelligent: the snapshot is the whole contract, and the collaborator's
// answers are displayed as-is, never validated arithmetically.
package advisor

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/quita-app/quita/internal/app/debts"
	"github.com/quita-app/quita/internal/app/finance"
	"github.com/quita-app/quita/internal/domain"
	"github.com/quita-app/quita/internal/infra/observability"
)

// ErrNotConfigured is returned when no advisor client is configured
// (missing API key).
var ErrNotConfigured = errors.New("advisor is not configured")

// Service builds snapshots and forwards advice/chat calls.
type Service struct {
	registry *finance.Registry
	ledger   *debts.Ledger
	client   domain.Advisor

	// HistoryLimit caps how many prior chat turns are forwarded.
	HistoryLimit int
}

// New creates an advisor service. client may be nil when no advisor is
// configured; snapshots still work, Advise and Chat refuse with
// ErrNotConfigured.
func New(registry *finance.Registry, ledger *debts.Ledger, client domain.Advisor) *Service {
	return &Service{registry: registry, ledger: ledger, client: client, HistoryLimit: 20}
}

// Configured reports whether an advisor client is wired in.
func (s *Service) Configured() bool { return s.client != nil }

// Snapshot assembles an immutable composite of balance, debts, cards and
// overdrafts plus derived totals.
func (s *Service) Snapshot() domain.Snapshot {
	state := s.registry.State()
	allDebts := s.ledger.Debts()

	totals := domain.SnapshotTotals{
		Debt:           decimal.Zero,
		PendingDebt:    decimal.Zero,
		PaidDebt:       decimal.Zero,
		CreditLimit:    decimal.Zero,
		OverdraftLimit: decimal.Zero,
	}
	for _, d := range allDebts {
		totals.Debt = totals.Debt.Add(d.Amount)
		if d.Pending() {
			totals.PendingDebt = totals.PendingDebt.Add(d.Amount)
		} else {
			totals.PaidDebt = totals.PaidDebt.Add(d.Amount)
		}
	}
	for _, c := range state.CreditCards {
		totals.CreditLimit = totals.CreditLimit.Add(c.Limit)
	}
	for _, o := range state.Overdrafts {
		totals.OverdraftLimit = totals.OverdraftLimit.Add(o.Limit)
	}

	return domain.Snapshot{
		Balance:     state.Balance,
		Debts:       allDebts,
		CreditCards: state.CreditCards,
		Overdrafts:  state.Overdrafts,
		Totals:      totals,
	}
}

// Advise requests a structured repayment plan for the current snapshot.
func (s *Service) Advise(ctx context.Context) (*domain.Advice, error) {
	if s.client == nil {
		return nil, ErrNotConfigured
	}
	advice, err := s.client.Advise(ctx, s.Snapshot())
	observability.ObserveAdvice(err)
	return advice, err
}

// Chat answers a free-text question with the current snapshot as context.
// Only the most recent HistoryLimit turns are forwarded.
func (s *Service) Chat(ctx context.Context, history []domain.ChatMessage, message string) (string, error) {
	if s.client == nil {
		return "", ErrNotConfigured
	}
	if s.HistoryLimit > 0 && len(history) > s.HistoryLimit {
		history = history[len(history)-s.HistoryLimit:]
	}
	reply, err := s.client.Chat(ctx, s.Snapshot(), history, message)
	observability.ObserveChat(err)
	return reply, err
}
