package entities

import "time"

// SignInStreak tracks a user's consecutive-day sign-in state.
// One row per user. LastSignInDate is stored at UTC date granularity.
type SignInStreak struct {
	UserID          int64     `db:"user_id"`
	LastSignInDate  time.Time `db:"last_signin_date"`
	ConsecutiveDays int       `db:"consecutive_days"`
	LifetimeCount   int64     `db:"lifetime_count"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// DateOf truncates a timestamp to its UTC calendar date
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SignedInOn checks whether the last recorded sign-in fell on the same UTC
// calendar date as t
func (s *SignInStreak) SignedInOn(t time.Time) bool {
	if s.LastSignInDate.IsZero() {
		return false
	}
	return DateOf(s.LastSignInDate).Equal(DateOf(t))
}

// DayGap returns the number of whole calendar days between the last sign-in
// and t. A gap of 1 means consecutive days.
func (s *SignInStreak) DayGap(t time.Time) int {
	if s.LastSignInDate.IsZero() {
		return -1
	}
	return int(DateOf(t).Sub(DateOf(s.LastSignInDate)).Hours() / 24)
}
