package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	blocksapp "rently/internal/app/blocks"
	"rently/internal/app/commands"
	"rently/internal/app/middleware"
	appoutbox "rently/internal/app/outbox"
	"rently/internal/app/queries"
	reservationapp "rently/internal/app/reservation"
	"rently/internal/app/uow"
	kafkabroker "rently/internal/infra/broker/kafka"
	"rently/internal/infra/config"
	mongostore "rently/internal/infra/db/mongo"
	ginserver "rently/internal/infra/http/gin"
	"rently/internal/infra/obs"
	infraoutbox "rently/internal/infra/outbox"
	"rently/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("using fallback configuration", "error", err)
		cfg.Env = env
		cfg.HTTPAddr = getenv("HTTP_ADDR", ":8080")
		cfg.StorageMode = "memory"
		cfg.LockWaitTimeout = 10 * time.Second
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application bootstrap failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		if app.producer != nil {
			if err := app.producer.Close(); err != nil {
				logger.Error("kafka producer close failed", "error", err)
			}
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	worker   *infraoutbox.Worker
	producer *kafkabroker.Producer
	ready    func() error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	var (
		uowFactory  uow.UoWFactory
		outboxStore appoutbox.Outbox
		app         application
	)

	app.ready = func() error { return nil }

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongostore.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, err
		}
		uowFactory = mongostore.Factory{
			DB:           client.DB,
			PropertyRepo: mongostore.NewPropertyRepository(client.DB),
			BookingRepo:  mongostore.NewBookingRepository(client.DB),
			BlockRepo:    mongostore.NewBlockRepository(client.DB),
			TenancyRepo:  mongostore.NewTenancyRepository(client.DB),
		}
		store := infraoutbox.NewStore(client.DB)
		outboxStore = store
		app.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		if len(cfg.KafkaBrokers) > 0 {
			producer, err := kafkabroker.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				return application{}, err
			}
			app.producer = producer
			app.worker = &infraoutbox.Worker{
				Store:       store,
				Producer:    producer,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Backoff:     cfg.RetryBackoff,
			}
		} else {
			logger.Warn("no kafka brokers configured, outbox events stay queued")
		}
	default:
		uowFactory = memory.Factory{
			PropertyRepo: memory.NewPropertyRepository(),
			BookingRepo:  memory.NewBookingRepository(),
			BlockRepo:    memory.NewBlockRepository(),
			TenancyRepo:  memory.NewTenancyRepository(),
		}
		outboxStore = memory.NewOutbox()
	}

	idStore := memory.NewIdempotencyStore(cfg.IdempotencyTTL)
	locks := memory.NewPropertyLocks()
	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, reservationapp.RequestReservationCommand{}.Key(), &reservationapp.RequestReservationHandler{
		UoWFactory: uowFactory,
		Locks:      locks,
		Outbox:     outboxStore,
		Encoder:    encoder,
		LockWait:   cfg.LockWaitTimeout,
	})
	commands.RegisterHandler(commandBus, reservationapp.TransitionStatusCommand{}.Key(), &reservationapp.TransitionStatusHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, blocksapp.AddBlockCommand{}.Key(), &blocksapp.AddBlockHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, blocksapp.RemoveBlockCommand{}.Key(), &blocksapp.RemoveBlockHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    encoder,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, reservationapp.CheckAvailabilityQuery{}.Key(), &reservationapp.CheckAvailabilityHandler{
		UoWFactory: uowFactory,
	})
	queries.RegisterHandler(queryBus, reservationapp.PropertyStatusQuery{}.Key(), &reservationapp.PropertyStatusHandler{
		UoWFactory: uowFactory,
	})
	queries.RegisterHandler(queryBus, reservationapp.CanTransitionQuery{}.Key(), &reservationapp.CanTransitionHandler{
		UoWFactory: uowFactory,
	})
	queries.RegisterHandler(queryBus, blocksapp.ListBlocksQuery{}.Key(), &blocksapp.ListBlocksHandler{
		UoWFactory: uowFactory,
	})

	// The reservation handler owns its unit of work so the commit lands inside
	// the per-property scope; a transaction middleware around the bus would
	// commit after the scope is released.
	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore, nil),
		middleware.OutboxFlush(outboxStore),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	app.handlers = ginserver.Handlers{
		Reservation: ginserver.ReservationHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
		Property: ginserver.PropertyHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
		Block: ginserver.BlockHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
	}
	return app, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
