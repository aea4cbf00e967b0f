package entities

// RewardResult is the terminal outcome of a reward trigger. It is serialized
// as JSON under the idempotency key, so a replayed request returns exactly
// the bytes the first attempt produced.
type RewardResult struct {
	Success         bool    `json:"success"`
	Message         string  `json:"message"`
	ConsecutiveDays int     `json:"consecutive_days"`
	PointsAwarded   int64   `json:"points_awarded"`
	ExpAwarded      int64   `json:"exp_awarded"`
	CouponCode      *string `json:"coupon_code"`
	TotalBalance    int64   `json:"total_balance"`
	IdempotencyKey  string  `json:"idempotency_key"`
}
