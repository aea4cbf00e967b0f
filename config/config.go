package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// Wallet configuration
	BalanceCeiling int64 // Maximum allowed balance, guards against overflow

	// Sign-in reward configuration
	BasePoints       int64
	PerDayBonus      int64
	StreakCapDays    int
	BaseExp          int64
	PerDayExpBonus   int64
	ExpStreakCapDays int
	BonusStreakDays  int     // Consecutive days required for a coupon roll
	BonusProbability float64 // Chance of coupon issuance once eligible

	// Pet configuration
	PetExpThresholdUnit int64 // Experience per level is level * this unit

	// Idempotency configuration
	IdempotencyTTL time.Duration
	SweepInterval  time.Duration

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Defaults below are overridable by environment variables
		BalanceCeiling: 100_000_000,

		BasePoints:       10,
		PerDayBonus:      2,
		StreakCapDays:    20,
		BaseExp:          5,
		PerDayExpBonus:   1,
		ExpStreakCapDays: 10,
		BonusStreakDays:  7,
		BonusProbability: 0.20,

		PetExpThresholdUnit: 100,

		IdempotencyTTL: 24 * time.Hour,
		SweepInterval:  time.Hour,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	overrideInt64(&config.BalanceCeiling, "BALANCE_CEILING")
	overrideInt64(&config.BasePoints, "BASE_POINTS")
	overrideInt64(&config.PerDayBonus, "PER_DAY_BONUS")
	overrideInt(&config.StreakCapDays, "STREAK_CAP_DAYS")
	overrideInt64(&config.BaseExp, "BASE_EXP")
	overrideInt64(&config.PerDayExpBonus, "PER_DAY_EXP_BONUS")
	overrideInt(&config.ExpStreakCapDays, "EXP_STREAK_CAP_DAYS")
	overrideInt(&config.BonusStreakDays, "BONUS_STREAK_DAYS")
	overrideInt64(&config.PetExpThresholdUnit, "PET_EXP_THRESHOLD_UNIT")

	if prob := os.Getenv("BONUS_PROBABILITY"); prob != "" {
		if parsed, err := strconv.ParseFloat(prob, 64); err == nil {
			config.BonusProbability = parsed
		}
	}
	if hours := os.Getenv("IDEMPOTENCY_TTL_HOURS"); hours != "" {
		if parsed, err := strconv.Atoi(hours); err == nil && parsed > 0 {
			config.IdempotencyTTL = time.Duration(parsed) * time.Hour
		}
	}
	if minutes := os.Getenv("SWEEP_INTERVAL_MINUTES"); minutes != "" {
		if parsed, err := strconv.Atoi(minutes); err == nil && parsed > 0 {
			config.SweepInterval = time.Duration(parsed) * time.Minute
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	if config.BonusProbability < 0 || config.BonusProbability > 1 {
		return nil, fmt.Errorf("BONUS_PROBABILITY must be between 0 and 1")
	}

	// A non-positive threshold unit would make level roll-over never
	// terminate
	if config.PetExpThresholdUnit <= 0 {
		return nil, fmt.Errorf("PET_EXP_THRESHOLD_UNIT must be positive")
	}

	return config, nil
}

func overrideInt64(target *int64, name string) {
	if value := os.Getenv(name); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			*target = parsed
		}
	}
}

func overrideInt(target *int, name string) {
	if value := os.Getenv(name); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}
