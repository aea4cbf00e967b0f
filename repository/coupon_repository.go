package repository

import (
	"context"
	"fmt"

	"tally/database"
	"tally/domain/entities"
)

// CouponRepository implements the CouponRepository interface
type CouponRepository struct {
	q queryable
}

// NewCouponRepository creates a new coupon repository
func NewCouponRepository(db *database.DB) *CouponRepository {
	return &CouponRepository{q: db.Pool}
}

// newCouponRepositoryWithTx creates a new coupon repository with a transaction
func newCouponRepositoryWithTx(tx queryable) *CouponRepository {
	return &CouponRepository{q: tx}
}

// Create inserts a newly minted coupon
func (r *CouponRepository) Create(ctx context.Context, coupon *entities.IssuedCoupon) error {
	query := `
		INSERT INTO issued_coupons (code, user_id, issued_at)
		VALUES ($1, $2, $3)
	`

	if _, err := r.q.Exec(ctx, query, coupon.Code, coupon.UserID, coupon.IssuedAt); err != nil {
		return fmt.Errorf("failed to create coupon %s: %w", coupon.Code, err)
	}

	return nil
}

// CodeExists reports whether a coupon code has already been issued
func (r *CouponRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM issued_coupons WHERE code = $1)
	`

	var exists bool
	if err := r.q.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check coupon code %s: %w", code, err)
	}

	return exists, nil
}

// GetByUser returns coupons issued to a user, newest first
func (r *CouponRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.IssuedCoupon, error) {
	query := `
		SELECT code, user_id, issued_at
		FROM issued_coupons
		WHERE user_id = $1
		ORDER BY issued_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get coupons for user %d: %w", userID, err)
	}
	defer rows.Close()

	var coupons []*entities.IssuedCoupon
	for rows.Next() {
		var coupon entities.IssuedCoupon
		if err := rows.Scan(&coupon.Code, &coupon.UserID, &coupon.IssuedAt); err != nil {
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, &coupon)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate coupons: %w", err)
	}

	return coupons, nil
}
