package services

import (
	"fmt"
	"time"

	"tally/config"
	"tally/domain/entities"
)

// RewardPolicy contains the pure computation for sign-in rewards: streak
// continuation or reset, point and experience amounts, and bonus eligibility.
// It performs no I/O and never draws randomness; the probabilistic coupon
// roll belongs to the orchestrator so this policy stays deterministic.
type RewardPolicy struct {
	basePoints       int64
	perDayBonus      int64
	streakCapDays    int
	baseExp          int64
	perDayExpBonus   int64
	expStreakCapDays int
	bonusStreakDays  int
}

// NewRewardPolicy creates a reward policy from configured constants
func NewRewardPolicy(cfg *config.Config) *RewardPolicy {
	return &RewardPolicy{
		basePoints:       cfg.BasePoints,
		perDayBonus:      cfg.PerDayBonus,
		streakCapDays:    cfg.StreakCapDays,
		baseExp:          cfg.BaseExp,
		perDayExpBonus:   cfg.PerDayExpBonus,
		expStreakCapDays: cfg.ExpStreakCapDays,
		bonusStreakDays:  cfg.BonusStreakDays,
	}
}

// RewardComputation is the output of a reward policy evaluation
type RewardComputation struct {
	ConsecutiveDays int
	PointsAwarded   int64
	ExpAwarded      int64
	BonusEligible   bool
}

// Compute evaluates the reward for a sign-in at triggerTime given the user's
// prior streak state. The caller must reject same-day repeats before calling;
// a same-day streak here is a contract violation.
func (p *RewardPolicy) Compute(streak *entities.SignInStreak, triggerTime time.Time) (*RewardComputation, error) {
	if streak.SignedInOn(triggerTime) {
		return nil, fmt.Errorf("reward policy invoked for a same-day repeat sign-in")
	}

	consecutiveDays := 1
	if streak.DayGap(triggerTime) == 1 {
		consecutiveDays = streak.ConsecutiveDays + 1
	}

	return &RewardComputation{
		ConsecutiveDays: consecutiveDays,
		PointsAwarded:   p.basePoints + int64(capDays(consecutiveDays-1, p.streakCapDays))*p.perDayBonus,
		ExpAwarded:      p.baseExp + int64(capDays(consecutiveDays-1, p.expStreakCapDays))*p.perDayExpBonus,
		BonusEligible:   consecutiveDays >= p.bonusStreakDays,
	}, nil
}

func capDays(days, cap int) int {
	if days > cap {
		return cap
	}
	return days
}
