package repository

import (
	"context"
	"fmt"
	"time"

	"tally/database"
	"tally/domain/entities"
)

// StreakRepository implements the StreakRepository interface
type StreakRepository struct {
	q queryable
}

// NewStreakRepository creates a new streak repository
func NewStreakRepository(db *database.DB) *StreakRepository {
	return &StreakRepository{q: db.Pool}
}

// newStreakRepositoryWithTx creates a new streak repository with a transaction
func newStreakRepositoryWithTx(tx queryable) *StreakRepository {
	return &StreakRepository{q: tx}
}

// GetOrCreateForUpdate loads the streak row under a row-level lock, creating
// an empty record on first sign-in. The lock serializes concurrent sign-ins
// for the same user until the transaction ends.
func (r *StreakRepository) GetOrCreateForUpdate(ctx context.Context, userID int64) (*entities.SignInStreak, error) {
	insert := `
		INSERT INTO signin_streaks (user_id, consecutive_days, lifetime_count)
		VALUES ($1, 0, 0)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, insert, userID); err != nil {
		return nil, fmt.Errorf("failed to create streak for user %d: %w", userID, err)
	}

	query := `
		SELECT user_id, last_signin_date, consecutive_days, lifetime_count, updated_at
		FROM signin_streaks
		WHERE user_id = $1
		FOR UPDATE
	`

	var streak entities.SignInStreak
	var lastSignIn *time.Time
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&streak.UserID,
		&lastSignIn,
		&streak.ConsecutiveDays,
		&streak.LifetimeCount,
		&streak.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to lock streak for user %d: %w", userID, err)
	}

	if lastSignIn != nil {
		streak.LastSignInDate = *lastSignIn
	}

	return &streak, nil
}

// Update persists the streak state after a successful sign-in
func (r *StreakRepository) Update(ctx context.Context, streak *entities.SignInStreak) error {
	query := `
		UPDATE signin_streaks
		SET last_signin_date = $1, consecutive_days = $2, lifetime_count = $3, updated_at = NOW()
		WHERE user_id = $4
	`

	result, err := r.q.Exec(ctx, query,
		streak.LastSignInDate,
		streak.ConsecutiveDays,
		streak.LifetimeCount,
		streak.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update streak for user %d: %w", streak.UserID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("streak for user %d not found", streak.UserID)
	}

	return nil
}
