package testhelpers

import (
	"context"
	"time"

	"tally/domain/entities"
	"tally/events"

	"github.com/stretchr/testify/mock"
)

// MockWalletRepository is a mock implementation of WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID int64) (*entities.WalletAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WalletAccount), args.Error(1)
}

func (m *MockWalletRepository) GetOrCreateForUpdate(ctx context.Context, userID int64) (*entities.WalletAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WalletAccount), args.Error(1)
}

func (m *MockWalletRepository) UpdateBalance(ctx context.Context, userID int64, newBalance int64) error {
	args := m.Called(ctx, userID, newBalance)
	return args.Error(0)
}

// MockWalletEntryRepository is a mock implementation of WalletEntryRepository
type MockWalletEntryRepository struct {
	mock.Mock
}

func (m *MockWalletEntryRepository) Record(ctx context.Context, entry *entities.WalletEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockWalletEntryRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.WalletEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WalletEntry), args.Error(1)
}

func (m *MockWalletEntryRepository) GetByDateRange(ctx context.Context, userID int64, from, to time.Time) ([]*entities.WalletEntry, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WalletEntry), args.Error(1)
}

func (m *MockWalletEntryRepository) SumByUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockStreakRepository is a mock implementation of StreakRepository
type MockStreakRepository struct {
	mock.Mock
}

func (m *MockStreakRepository) GetOrCreateForUpdate(ctx context.Context, userID int64) (*entities.SignInStreak, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SignInStreak), args.Error(1)
}

func (m *MockStreakRepository) Update(ctx context.Context, streak *entities.SignInStreak) error {
	args := m.Called(ctx, streak)
	return args.Error(0)
}

// MockPetRepository is a mock implementation of PetRepository
type MockPetRepository struct {
	mock.Mock
}

func (m *MockPetRepository) GetOrCreateForUpdate(ctx context.Context, userID int64) (*entities.PetProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PetProgress), args.Error(1)
}

func (m *MockPetRepository) Update(ctx context.Context, pet *entities.PetProgress) error {
	args := m.Called(ctx, pet)
	return args.Error(0)
}

// MockIdempotencyRepository is a mock implementation of IdempotencyRepository
type MockIdempotencyRepository struct {
	mock.Mock
}

func (m *MockIdempotencyRepository) Lookup(ctx context.Context, operation, key string) (*entities.IdempotencyRecord, error) {
	args := m.Called(ctx, operation, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.IdempotencyRecord), args.Error(1)
}

func (m *MockIdempotencyRepository) Record(ctx context.Context, record *entities.IdempotencyRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockIdempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockCouponRepository is a mock implementation of CouponRepository
type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) Create(ctx context.Context, coupon *entities.IssuedCoupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func (m *MockCouponRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCouponRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.IssuedCoupon, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.IssuedCoupon), args.Error(1)
}

// RecordingPublisher collects published events for later inspection.
// Useful when a test only cares about what was emitted, not how often.
type RecordingPublisher struct {
	Events []events.Event
}

func (r *RecordingPublisher) Publish(event events.Event) {
	r.Events = append(r.Events, event)
}
