package repository

import (
	"context"
	"fmt"

	"tally/database"
	"tally/domain/entities"
)

// PetRepository implements the PetRepository interface
type PetRepository struct {
	q queryable
}

// NewPetRepository creates a new pet repository
func NewPetRepository(db *database.DB) *PetRepository {
	return &PetRepository{q: db.Pool}
}

// newPetRepositoryWithTx creates a new pet repository with a transaction
func newPetRepositoryWithTx(tx queryable) *PetRepository {
	return &PetRepository{q: tx}
}

// GetOrCreateForUpdate loads the pet row under a row-level lock, creating a
// level-1 pet with zero experience if none exists
func (r *PetRepository) GetOrCreateForUpdate(ctx context.Context, userID int64) (*entities.PetProgress, error) {
	insert := `
		INSERT INTO pet_progress (user_id, level, experience)
		VALUES ($1, 1, 0)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, insert, userID); err != nil {
		return nil, fmt.Errorf("failed to create pet for user %d: %w", userID, err)
	}

	query := `
		SELECT user_id, level, experience, updated_at
		FROM pet_progress
		WHERE user_id = $1
		FOR UPDATE
	`

	var pet entities.PetProgress
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&pet.UserID,
		&pet.Level,
		&pet.Experience,
		&pet.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to lock pet for user %d: %w", userID, err)
	}

	return &pet, nil
}

// Update persists the pet's level and experience
func (r *PetRepository) Update(ctx context.Context, pet *entities.PetProgress) error {
	query := `
		UPDATE pet_progress
		SET level = $1, experience = $2, updated_at = NOW()
		WHERE user_id = $3
	`

	result, err := r.q.Exec(ctx, query, pet.Level, pet.Experience, pet.UserID)
	if err != nil {
		return fmt.Errorf("failed to update pet for user %d: %w", pet.UserID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("pet for user %d not found", pet.UserID)
	}

	return nil
}
