package entities

import "errors"

// Stable domain errors. Callers branch on these with errors.Is; everything
// else bubbling out of the ledger is treated as a transient store failure.
var (
	// ErrInsufficientFunds is returned when a negative delta would take a
	// wallet balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrBalanceCeilingExceeded is returned when a positive delta would take
	// a wallet balance above the configured ceiling.
	ErrBalanceCeilingExceeded = errors.New("balance ceiling exceeded")

	// ErrInvalidDelta is returned by the pet progression engine for a
	// negative experience grant. The sign-in path only ever grants.
	ErrInvalidDelta = errors.New("experience delta must not be negative")

	// ErrIdempotencyConflict is returned when an idempotency key is reused
	// with a different result payload. This indicates a client bug.
	ErrIdempotencyConflict = errors.New("idempotency key reused with different result")
)
