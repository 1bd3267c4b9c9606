package domain

import "context"

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// Store persists the two tracked collections under fixed keys and loads
// them back at process start. Writes are whole-snapshot: every mutation
// rewrites the full serialized collection.
type Store interface {
	// LoadFinance returns the persisted account state, or nil if nothing
	// has ever been saved.
	LoadFinance() (*FinanceState, error)
	SaveFinance(state FinanceState) error

	// LoadDebts returns the persisted debt list, or nil if nothing has
	// ever been saved.
	LoadDebts() ([]Debt, error)
	SaveDebts(debts []Debt) error
}

// Advisor is the external collaborator that turns a snapshot into prose.
// Both calls are strictly read-then-display: they never mutate tracked
// state, and any failure is surfaced to the caller, never fatal.
type Advisor interface {
	// Advise generates a structured repayment plan from the snapshot.
	Advise(ctx context.Context, snap Snapshot) (*Advice, error)

	// Chat answers a free-text question using the snapshot as context and
	// the prior turns as conversation history.
	Chat(ctx context.Context, snap Snapshot, history []ChatMessage, message string) (string, error)
}
