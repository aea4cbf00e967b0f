package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange   EventType = "balance_change"
	EventTypeSignInCompleted EventType = "signin_completed"
	EventTypeCouponIssued    EventType = "coupon_issued"
	EventTypePetLevelUp      EventType = "pet_level_up"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a committed wallet balance change
type BalanceChangeEvent struct {
	UserID        int64
	BalanceBefore int64
	BalanceAfter  int64
	ChangeAmount  int64
	ChangeType    string
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// SignInCompletedEvent represents a successfully committed daily sign-in
type SignInCompletedEvent struct {
	UserID          int64
	ConsecutiveDays int
	PointsAwarded   int64
	ExpAwarded      int64
}

func (e SignInCompletedEvent) Type() EventType {
	return EventTypeSignInCompleted
}

// CouponIssuedEvent represents a coupon minted by a reward transaction
type CouponIssuedEvent struct {
	UserID int64
	Code   string
}

func (e CouponIssuedEvent) Type() EventType {
	return EventTypeCouponIssued
}

// PetLevelUpEvent represents a pet gaining one or more levels
type PetLevelUpEvent struct {
	UserID       int64
	OldLevel     int
	NewLevel     int
	LevelsGained int
}

func (e PetLevelUpEvent) Type() EventType {
	return EventTypePetLevelUp
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds pending events coupled to a unit of work and
// flushes them to the underlying bus only after a successful commit.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Use background context for event emission; events are processed
	// independently of the transaction lifecycle
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard is called after a rollback to clear pending state
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
