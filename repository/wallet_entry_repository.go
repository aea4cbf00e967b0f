package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"tally/database"
	"tally/domain/entities"
)

// WalletEntryRepository implements the WalletEntryRepository interface
type WalletEntryRepository struct {
	q queryable
}

// NewWalletEntryRepository creates a new wallet entry repository
func NewWalletEntryRepository(db *database.DB) *WalletEntryRepository {
	return &WalletEntryRepository{q: db.Pool}
}

// newWalletEntryRepositoryWithTx creates a new wallet entry repository with a transaction
func newWalletEntryRepositoryWithTx(tx queryable) *WalletEntryRepository {
	return &WalletEntryRepository{q: tx}
}

// Record appends a new ledger entry. Entries are immutable once written.
func (r *WalletEntryRepository) Record(ctx context.Context, entry *entities.WalletEntry) error {
	query := `
		INSERT INTO wallet_entries
		(user_id, balance_before, balance_after, change_amount, change_type, description, correlation_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.UserID,
		entry.BalanceBefore,
		entry.BalanceAfter,
		entry.ChangeAmount,
		entry.ChangeType,
		entry.Description,
		entry.CorrelationCode,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record ledger entry for user %d: %w", entry.UserID, err)
	}

	return nil
}

// GetByUser returns the most recent ledger entries for a user
func (r *WalletEntryRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.WalletEntry, error) {
	query := `
		SELECT id, user_id, balance_before, balance_after, change_amount,
		       change_type, description, correlation_code, created_at
		FROM wallet_entries
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries for user %d: %w", userID, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GetByDateRange returns ledger entries within a date range
func (r *WalletEntryRepository) GetByDateRange(ctx context.Context, userID int64, from, to time.Time) ([]*entities.WalletEntry, error) {
	query := `
		SELECT id, user_id, balance_before, balance_after, change_amount,
		       change_type, description, correlation_code, created_at
		FROM wallet_entries
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY id DESC
	`

	rows, err := r.q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries for user %d in date range: %w", userID, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// SumByUser returns the sum of all change amounts for a user. The result
// must equal the wallet's current balance.
func (r *WalletEntryRepository) SumByUser(ctx context.Context, userID int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(change_amount), 0)
		FROM wallet_entries
		WHERE user_id = $1
	`

	var sum int64
	if err := r.q.QueryRow(ctx, query, userID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum ledger entries for user %d: %w", userID, err)
	}

	return sum, nil
}

func scanEntries(rows pgx.Rows) ([]*entities.WalletEntry, error) {
	var entries []*entities.WalletEntry
	for rows.Next() {
		var entry entities.WalletEntry
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.BalanceBefore,
			&entry.BalanceAfter,
			&entry.ChangeAmount,
			&entry.ChangeType,
			&entry.Description,
			&entry.CorrelationCode,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}
