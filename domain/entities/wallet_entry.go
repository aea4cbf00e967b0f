package entities

import (
	"errors"
	"time"
)

// WalletEntry represents a single immutable entry in the wallet ledger.
// Entries are append-only: the ordered sequence of entries for a user,
// summed, always equals the current account balance.
type WalletEntry struct {
	ID              int64      `db:"id"`
	UserID          int64      `db:"user_id"`
	BalanceBefore   int64      `db:"balance_before"`
	BalanceAfter    int64      `db:"balance_after"`
	ChangeAmount    int64      `db:"change_amount"`
	ChangeType      ChangeType `db:"change_type"`
	Description     string     `db:"description"`
	CorrelationCode *string    `db:"correlation_code"`
	CreatedAt       time.Time  `db:"created_at"`
}

// IsPositiveChange returns true if the change amount is positive
func (e *WalletEntry) IsPositiveChange() bool {
	return e.ChangeAmount > 0
}

// IsNegativeChange returns true if the change amount is negative
func (e *WalletEntry) IsNegativeChange() bool {
	return e.ChangeAmount < 0
}

// Validate performs basic consistency checks on the entry
func (e *WalletEntry) Validate() error {
	if e.ChangeAmount == 0 {
		return errors.New("change amount cannot be zero")
	}

	if e.BalanceAfter != e.BalanceBefore+e.ChangeAmount {
		return errors.New("balance calculation is inconsistent")
	}

	if !e.ChangeType.Valid() {
		return errors.New("unknown change type")
	}

	return nil
}
