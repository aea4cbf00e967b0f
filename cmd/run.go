package cmd

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"tally/application"
	"tally/config"
	"tally/database"
	"tally/domain/interfaces"
	"tally/domain/services"
	"tally/events"
	"tally/repository"
)

// App bundles the wired ledger services. The transport layer (HTTP, bot,
// RPC) lives outside this repository and embeds App to reach the ledger.
type App struct {
	SignIn  interfaces.SignInService
	Wallet  interfaces.WalletService
	Events  *events.Bus
	Sweeper *application.IdempotencySweeper

	db *database.DB
}

// NewApp connects to the database and wires every ledger service
func NewApp(ctx context.Context) (*App, error) {
	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established")

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	clock := services.NewSystemClock()
	randSource := services.NewMathRand()
	policy := services.NewRewardPolicy(cfg)
	petEngine := services.NewPetProgressionEngine(cfg.PetExpThresholdUnit)

	return &App{
		SignIn:  services.NewSignInService(uowFactory, policy, petEngine, clock, randSource, cfg),
		Wallet:  services.NewWalletService(uowFactory, clock, cfg),
		Events:  eventBus,
		Sweeper: application.NewIdempotencySweeper(uowFactory, clock, cfg.SweepInterval),
		db:      db,
	}, nil
}

// Close releases the application's resources
func (a *App) Close() {
	a.db.Close()
}

// Run initializes the application and blocks until ctx is cancelled
func Run(ctx context.Context) error {
	log.Info("Starting reward ledger...")

	app, err := NewApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	subscribeLogging(app.Events)
	app.Sweeper.Start(ctx)

	log.Infof("Reward ledger running in %s mode", config.Get().Environment)
	<-ctx.Done()

	log.Info("Shutting down reward ledger...")
	return nil
}

// subscribeLogging attaches observability handlers for committed ledger
// events
func subscribeLogging(bus *events.Bus) {
	bus.Subscribe(events.EventTypeCouponIssued, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.CouponIssuedEvent); ok {
			log.WithFields(log.Fields{
				"userId": e.UserID,
				"code":   e.Code,
			}).Info("Coupon issued")
		}
	})

	bus.Subscribe(events.EventTypePetLevelUp, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.PetLevelUpEvent); ok {
			log.WithFields(log.Fields{
				"userId":   e.UserID,
				"newLevel": e.NewLevel,
			}).Info("Pet leveled up")
		}
	})
}
