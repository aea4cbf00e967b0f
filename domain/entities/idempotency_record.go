package entities

import "time"

// IdempotencyRecord stores the serialized outcome of a previously executed
// operation, keyed by (operation, client-supplied key). A still-valid record
// always replays the original result; it is never recomputed.
type IdempotencyRecord struct {
	Key       string    `db:"idem_key"`
	Operation string    `db:"operation"`
	UserID    int64     `db:"user_id"`
	Payload   []byte    `db:"payload"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// Expired reports whether the record is past its retention window at now
func (r *IdempotencyRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
