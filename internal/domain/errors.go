package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.
// Every one of these is a local validation refusal: the caller gets a
// reason and neither store is mutated.

var (
	// Lookup errors
	ErrDebtNotFound      = errors.New("debt not found")
	ErrCardNotFound      = errors.New("credit card not found")
	ErrOverdraftNotFound = errors.New("overdraft not found")

	// Settlement errors
	ErrAlreadyPaid       = errors.New("debt is already paid")
	ErrNotPaid           = errors.New("debt is not paid")
	ErrInsufficientFunds = errors.New("insufficient funds in the chosen source")
	ErrSourceRequired    = errors.New("a facility id is required for this payment source")

	// Construction errors
	ErrInvalidCategory     = errors.New("unknown debt category")
	ErrInvalidSource       = errors.New("unknown payment source")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidLimit        = errors.New("limit must not be negative")
	ErrInvalidInstallments = errors.New("installment index must be positive and not exceed the total")

	// Advisor errors
	ErrBadAdvice = errors.New("advice response did not match the expected shape")
)
