package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/factgate/factgate/config"
	"github.com/factgate/factgate/internal/adapters/queue"
	"github.com/factgate/factgate/internal/adapters/reputation"
	"github.com/factgate/factgate/internal/adapters/urlscan"
	"github.com/factgate/factgate/internal/adapters/warehouse"
	"github.com/factgate/factgate/internal/background"
	"github.com/factgate/factgate/internal/data"
	"github.com/factgate/factgate/internal/events"
	"github.com/factgate/factgate/internal/notify"
	"github.com/factgate/factgate/internal/poll"
	"github.com/factgate/factgate/internal/service"
)

// shutdownGrace bounds how long we wait for in-flight work after a
// termination signal.
const shutdownGrace = 30 * time.Second

// ServiceDeps contains the shared infrastructure services are built on.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// ServiceContainer holds the wired application services.
type ServiceContainer struct {
	Checks       *data.CheckRepo
	Artifacts    *data.RedisArtifactRepo
	Notifier     *notify.HTTPSender
	Events       *events.Publisher
	Delta        *service.DeltaNotifier
	Verification *service.VerificationService
	Background   *background.Scheduler
	Consumer     *queue.Consumer
}

// NewServices wires the application services from configuration and shared
// infrastructure.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	checks := data.NewCheckRepo(deps.DB, logger)
	artifacts := data.NewRedisArtifactRepo(deps.RedisClient)

	notifier, err := notify.NewHTTPSender(notify.HTTPSenderOptions{
		BaseURL:   cfg.Notifier.BaseURL,
		AuthToken: cfg.Notifier.AuthToken,
		Logger:    logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create notification sender: %w", err)
	}

	publisher, err := events.NewPublisher(events.PublisherOptions{
		Client: deps.RedisClient,
		Stream: cfg.Consumer.EventStream,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create event publisher: %w", err)
	}

	delta, err := service.NewDeltaNotifier(service.DeltaNotifierOptions{
		Checks:   checks,
		Notifier: notifier,
		Events:   publisher,
		Logger:   logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create delta notifier: %w", err)
	}

	scheduler := background.NewScheduler(background.Options{
		Logger:      logger,
		TaskTimeout: cfg.Background.TaskTimeout,
	})

	verification, err := newVerificationService(cfg, artifacts, scheduler, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	consumer, err := queue.NewConsumer(queue.Options{
		Client:    deps.RedisClient,
		Processor: delta,
		Logger:    logger,
		Stream:    cfg.Consumer.Stream,
		Group:     cfg.Consumer.Group,
		BatchSize: cfg.Consumer.BatchSize,
		Block:     cfg.Consumer.Block,
		Workers:   cfg.Consumer.Workers,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create queue consumer: %w", err)
	}

	return ServiceContainer{
		Checks:       checks,
		Artifacts:    artifacts,
		Notifier:     notifier,
		Events:       publisher,
		Delta:        delta,
		Verification: verification,
		Background:   scheduler,
		Consumer:     consumer,
	}, nil
}

func newVerificationService(
	cfg *config.AppConfig,
	artifacts *data.RedisArtifactRepo,
	scheduler *background.Scheduler,
	logger *slog.Logger,
) (*service.VerificationService, error) {
	repClient, err := reputation.NewClient(reputation.Options{
		BaseURL: cfg.Reputation.BaseURL,
		APIKey:  cfg.Reputation.APIKey,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create reputation client: %w", err)
	}

	scanClient, err := urlscan.NewClient(urlscan.Options{
		BaseURL: cfg.URLScan.BaseURL,
		APIKey:  cfg.URLScan.APIKey,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create urlscan client: %w", err)
	}

	whClient, err := warehouse.NewClient(warehouse.Options{
		BaseURL:       cfg.Warehouse.BaseURL,
		APIKey:        cfg.Warehouse.APIKey,
		RowExpression: cfg.Warehouse.RowExpression,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create warehouse client: %w", err)
	}

	verification, err := service.NewVerificationService(service.VerificationServiceOptions{
		Reputation: repClient,
		URLScan:    scanClient,
		Warehouse:  whClient,
		ScanPolicy: poll.FixedPolicy{
			Interval: cfg.Reputation.Interval,
			Attempts: cfg.Reputation.MaxAttempts,
		},
		URLScanPolicy: poll.FixedPolicy{
			Interval: cfg.URLScan.Interval,
			Attempts: cfg.URLScan.MaxAttempts,
		},
		WarehousePolicy: poll.ExponentialPolicy{
			Initial:  cfg.Warehouse.InitialInterval,
			Attempts: cfg.Warehouse.MaxAttempts,
		},
		Artifacts:   artifacts,
		Background:  scheduler,
		Logger:      logger,
		ArtifactTTL: cfg.Background.ArtifactTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("create verification service: %w", err)
	}
	return verification, nil
}

// RunServicesWithShutdown runs the queue consumer until a termination signal
// arrives or the consumer fails, then drains scheduled background work.
func RunServicesWithShutdown(ctx context.Context, services ServiceContainer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return services.Consumer.Run(groupCtx)
	})

	logger.InfoContext(ctx, "services started")

	err := group.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.ErrorContext(ctx, "consumer stopped", "error", err)
	}

	// The run context is gone at this point; drain with a fresh deadline so
	// deferred work gets its extended lifetime.
	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if drainErr := services.Background.Wait(drainCtx); drainErr != nil {
		logger.ErrorContext(drainCtx, "background drain incomplete", "error", drainErr)
	}

	logger.InfoContext(drainCtx, "shutdown complete")

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run services: %w", err)
	}
	return nil
}
