package entities

import "time"

// IssuedCoupon is a consumable reward minted as a side effect of a qualifying
// reward transaction. Codes are globally unique; coupons are never created
// outside a ledger transaction.
type IssuedCoupon struct {
	Code     string    `db:"code"`
	UserID   int64     `db:"user_id"`
	IssuedAt time.Time `db:"issued_at"`
}
