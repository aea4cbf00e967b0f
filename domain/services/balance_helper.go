package services

import (
	"context"
	"fmt"

	"tally/domain/entities"
	"tally/domain/interfaces"
	"tally/events"
)

// ApplyBalanceChange is the single entry point for all wallet balance
// mutations. It loads the account under a row lock, enforces the
// non-negativity and ceiling invariants, updates the balance, appends the
// ledger entry, and publishes the balance change event on the unit of work's
// transactional bus. Everything happens inside the caller's transaction.
func ApplyBalanceChange(
	ctx context.Context,
	uow interfaces.UnitOfWork,
	ceiling int64,
	userID int64,
	delta int64,
	changeType entities.ChangeType,
	description string,
	correlationCode *string,
) (*entities.WalletEntry, error) {
	if delta == 0 {
		return nil, fmt.Errorf("change amount cannot be zero")
	}

	account, err := uow.WalletRepository().GetOrCreateForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet for user %d: %w", userID, err)
	}

	if account.WouldGoNegative(delta) {
		return nil, fmt.Errorf("balance %d with delta %d: %w", account.Balance, delta, entities.ErrInsufficientFunds)
	}
	if account.WouldExceedCeiling(delta, ceiling) {
		return nil, fmt.Errorf("balance %d with delta %d exceeds ceiling %d: %w", account.Balance, delta, ceiling, entities.ErrBalanceCeilingExceeded)
	}

	newBalance := account.CalculateNewBalance(delta)
	if err := uow.WalletRepository().UpdateBalance(ctx, userID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to update balance for user %d: %w", userID, err)
	}

	entry := &entities.WalletEntry{
		UserID:          userID,
		BalanceBefore:   account.Balance,
		BalanceAfter:    newBalance,
		ChangeAmount:    delta,
		ChangeType:      changeType,
		Description:     description,
		CorrelationCode: correlationCode,
	}
	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ledger entry for user %d: %w", userID, err)
	}
	if err := uow.WalletEntryRepository().Record(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record ledger entry for user %d: %w", userID, err)
	}

	// Flushed only after the transaction commits
	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:        userID,
		BalanceBefore: entry.BalanceBefore,
		BalanceAfter:  entry.BalanceAfter,
		ChangeAmount:  entry.ChangeAmount,
		ChangeType:    entry.ChangeType.String(),
	})

	return entry, nil
}
