package entities

import "time"

// WalletAccount represents a user's point balance.
// Accounts are created lazily on the first reward event and are never
// hard-deleted. The balance field is only ever mutated through the wallet
// service, which records a ledger entry in the same unit of work.
type WalletAccount struct {
	UserID    int64     `db:"user_id"`
	Balance   int64     `db:"balance"`
	UpdatedAt time.Time `db:"updated_at"`
	CreatedAt time.Time `db:"created_at"`
}

// CanAfford checks if the account has sufficient balance for a deduction
func (a *WalletAccount) CanAfford(amount int64) bool {
	return a.Balance >= amount
}

// WouldGoNegative checks if applying delta would violate the non-negativity
// invariant
func (a *WalletAccount) WouldGoNegative(delta int64) bool {
	return delta < 0 && a.Balance+delta < 0
}

// WouldExceedCeiling checks if applying delta would push the balance above
// the configured maximum
func (a *WalletAccount) WouldExceedCeiling(delta int64, ceiling int64) bool {
	return delta > 0 && a.Balance+delta > ceiling
}

// CalculateNewBalance calculates what the balance would be after a change
func (a *WalletAccount) CalculateNewBalance(delta int64) int64 {
	return a.Balance + delta
}
