package services

import (
	"context"
	"testing"
	"time"

	"tally/config"
	"tally/domain/interfaces"
	"tally/domain/testhelpers"

	"github.com/stretchr/testify/mock"
)

// Test constants for consistent test data
const (
	TestUserID  = int64(100)
	TestUser2ID = int64(200)
	TestIdemKey = "9f6f5c1e-0001-4b6e-8a57-3d1d3f9a0c11"
)

// TestMocks aggregates all repository mocks for testing
type TestMocks struct {
	WalletRepo *testhelpers.MockWalletRepository
	EntryRepo  *testhelpers.MockWalletEntryRepository
	StreakRepo *testhelpers.MockStreakRepository
	PetRepo    *testhelpers.MockPetRepository
	IdemRepo   *testhelpers.MockIdempotencyRepository
	CouponRepo *testhelpers.MockCouponRepository
	EventBus   *testhelpers.RecordingPublisher
}

// NewTestMocks creates a new set of mocks
func NewTestMocks() *TestMocks {
	return &TestMocks{
		WalletRepo: &testhelpers.MockWalletRepository{},
		EntryRepo:  &testhelpers.MockWalletEntryRepository{},
		StreakRepo: &testhelpers.MockStreakRepository{},
		PetRepo:    &testhelpers.MockPetRepository{},
		IdemRepo:   &testhelpers.MockIdempotencyRepository{},
		CouponRepo: &testhelpers.MockCouponRepository{},
		EventBus:   &testhelpers.RecordingPublisher{},
	}
}

// AssertAllExpectations verifies all mock expectations were met
func (m *TestMocks) AssertAllExpectations(t *testing.T) {
	m.WalletRepo.AssertExpectations(t)
	m.EntryRepo.AssertExpectations(t)
	m.StreakRepo.AssertExpectations(t)
	m.PetRepo.AssertExpectations(t)
	m.IdemRepo.AssertExpectations(t)
	m.CouponRepo.AssertExpectations(t)
}

// MockUnitOfWork is a mock implementation of UnitOfWork whose repository
// getters hand out the mocks configured via SetRepositories. Like the real
// unit of work's TransactionalBus, it buffers published events and hands
// them to the recording publisher only on a successful Commit, discarding
// them on Rollback.
type MockUnitOfWork struct {
	mock.Mock
	mocks   *TestMocks
	pending testhelpers.RecordingPublisher
}

// SetRepositories wires the repository mocks this unit of work hands out
func (m *MockUnitOfWork) SetRepositories(mocks *TestMocks) {
	m.mocks = mocks
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	if args.Error(0) == nil {
		m.mocks.EventBus.Events = append(m.mocks.EventBus.Events, m.pending.Events...)
		m.pending.Events = nil
	}
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	m.pending.Events = nil
	return args.Error(0)
}

func (m *MockUnitOfWork) WalletRepository() interfaces.WalletRepository {
	return m.mocks.WalletRepo
}

func (m *MockUnitOfWork) WalletEntryRepository() interfaces.WalletEntryRepository {
	return m.mocks.EntryRepo
}

func (m *MockUnitOfWork) StreakRepository() interfaces.StreakRepository {
	return m.mocks.StreakRepo
}

func (m *MockUnitOfWork) PetRepository() interfaces.PetRepository {
	return m.mocks.PetRepo
}

func (m *MockUnitOfWork) IdempotencyRepository() interfaces.IdempotencyRepository {
	return m.mocks.IdemRepo
}

func (m *MockUnitOfWork) CouponRepository() interfaces.CouponRepository {
	return m.mocks.CouponRepo
}

func (m *MockUnitOfWork) EventBus() interfaces.EventPublisher {
	return &m.pending
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() interfaces.UnitOfWork {
	args := m.Called()
	return args.Get(0).(interfaces.UnitOfWork)
}

// newMockUnitOfWork builds a unit of work wired to mocks, with the factory
// configured to hand it out on every Create call
func newMockUnitOfWork(mocks *TestMocks) (*MockUnitOfWork, *MockUnitOfWorkFactory) {
	uow := new(MockUnitOfWork)
	uow.SetRepositories(mocks)
	factory := new(MockUnitOfWorkFactory)
	factory.On("Create").Return(uow)
	return uow, factory
}

// fixedClock is a Clock pinned to a single instant
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

// stubRand is a Rand returning a fixed value on every draw
type stubRand struct {
	value float64
}

func (r stubRand) Float64() float64 {
	return r.value
}

// testConfig returns a config with the default reward constants, detached
// from the environment-backed singleton
func testConfig() *config.Config {
	return &config.Config{
		BalanceCeiling:      100_000_000,
		BasePoints:          10,
		PerDayBonus:         2,
		StreakCapDays:       20,
		BaseExp:             5,
		PerDayExpBonus:      1,
		ExpStreakCapDays:    10,
		BonusStreakDays:     7,
		BonusProbability:    0.20,
		PetExpThresholdUnit: 100,
		IdempotencyTTL:      24 * time.Hour,
		SweepInterval:       time.Hour,
		Environment:         "test",
	}
}
