package entities

import "time"

// PetProgress tracks a user's pet level and experience.
// Invariant: Experience is always strictly less than the threshold for the
// next level (Level * threshold unit); level-up roll-over is resolved by the
// pet progression engine before the row is persisted.
type PetProgress struct {
	UserID     int64     `db:"user_id"`
	Level      int       `db:"level"`
	Experience int64     `db:"experience"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// NextLevelThreshold returns the experience required to advance from the
// current level, given the configured per-level threshold unit
func (p *PetProgress) NextLevelThreshold(thresholdUnit int64) int64 {
	return int64(p.Level) * thresholdUnit
}
