package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Advisory types ─────────────────────────────────────────────────────────
// The snapshot is the entire contract handed to the external advisor; the
// advisor's reasoning happens outside this codebase and its arithmetic is
// displayed, not verified.

// Snapshot is an immutable point-in-time copy of the whole tracked state
// plus derived totals.
type Snapshot struct {
	Balance     decimal.Decimal `json:"balance"`
	Debts       []Debt          `json:"debts"`
	CreditCards []CreditCard    `json:"credit_cards"`
	Overdrafts  []Overdraft     `json:"overdrafts"`
	Totals      SnapshotTotals  `json:"totals"`
}

// SnapshotTotals are the derived sums the advisor and the dashboard share.
type SnapshotTotals struct {
	Debt           decimal.Decimal `json:"debt"`
	PendingDebt    decimal.Decimal `json:"pending_debt"`
	PaidDebt       decimal.Decimal `json:"paid_debt"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	OverdraftLimit decimal.Decimal `json:"overdraft_limit"`
}

// Advice is a structured repayment plan returned by the advisor.
type Advice struct {
	Summary         string           `json:"summary"`
	Timeline        []AdviceAction   `json:"timeline"`
	Recommendations []Recommendation `json:"recommendations"`
}

// AdviceAction is one dated step of the plan. Source may additionally be
// "loan" — the advisor is allowed to suggest funding this core cannot settle
// from.
type AdviceAction struct {
	Date             string          `json:"date"`
	Action           string          `json:"action"`
	Amount           decimal.Decimal `json:"amount"`
	Source           string          `json:"source"`
	SourceName       string          `json:"sourceName,omitempty"`
	Reason           string          `json:"reason"`
	ProjectedBalance decimal.Decimal `json:"projectedBalance"`
}

// RecommendationType classifies a recommendation for display.
type RecommendationType string

const (
	RecommendationWarning RecommendationType = "warning"
	RecommendationTip     RecommendationType = "tip"
	RecommendationSuccess RecommendationType = "success"
)

// Recommendation is one categorized piece of advice.
type Recommendation struct {
	Type    RecommendationType `json:"type"`
	Message string             `json:"message"`
}

// ─── Chat types ─────────────────────────────────────────────────────────────

// ChatRole identifies who produced a chat turn.
type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

// ChatMessage is one prior turn of the assistant conversation.
type ChatMessage struct {
	Role      ChatRole  `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}
