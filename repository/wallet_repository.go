package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tally/database"
	"tally/domain/entities"
)

// WalletRepository implements the WalletRepository interface
type WalletRepository struct {
	q queryable
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *database.DB) *WalletRepository {
	return &WalletRepository{q: db.Pool}
}

// newWalletRepositoryWithTx creates a new wallet repository with a transaction
func newWalletRepositoryWithTx(tx queryable) *WalletRepository {
	return &WalletRepository{q: tx}
}

// GetByUserID retrieves a wallet account by user ID
func (r *WalletRepository) GetByUserID(ctx context.Context, userID int64) (*entities.WalletAccount, error) {
	query := `
		SELECT user_id, balance, updated_at, created_at
		FROM wallet_accounts
		WHERE user_id = $1
	`

	var account entities.WalletAccount
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&account.UserID,
		&account.Balance,
		&account.UpdatedAt,
		&account.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet for user %d: %w", userID, err)
	}

	return &account, nil
}

// GetOrCreateForUpdate loads the account row under a row-level lock, lazily
// creating it with a zero balance. Must run inside a transaction; the lock
// is held until commit or rollback.
func (r *WalletRepository) GetOrCreateForUpdate(ctx context.Context, userID int64) (*entities.WalletAccount, error) {
	insert := `
		INSERT INTO wallet_accounts (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, insert, userID); err != nil {
		return nil, fmt.Errorf("failed to create wallet for user %d: %w", userID, err)
	}

	query := `
		SELECT user_id, balance, updated_at, created_at
		FROM wallet_accounts
		WHERE user_id = $1
		FOR UPDATE
	`

	var account entities.WalletAccount
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&account.UserID,
		&account.Balance,
		&account.UpdatedAt,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to lock wallet for user %d: %w", userID, err)
	}

	return &account, nil
}

// UpdateBalance sets a wallet's balance
func (r *WalletRepository) UpdateBalance(ctx context.Context, userID int64, newBalance int64) error {
	query := `
		UPDATE wallet_accounts
		SET balance = $1, updated_at = NOW()
		WHERE user_id = $2
	`

	result, err := r.q.Exec(ctx, query, newBalance, userID)
	if err != nil {
		return fmt.Errorf("failed to update balance for user %d: %w", userID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("wallet for user %d not found", userID)
	}

	return nil
}
