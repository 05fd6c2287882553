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

	"stayhub/internal/app/commands"
	availabilityapp "stayhub/internal/app/handlers/availability"
	bookingapp "stayhub/internal/app/handlers/booking"
	financeapp "stayhub/internal/app/handlers/finance"
	maintenanceapp "stayhub/internal/app/handlers/maintenance"
	messagingapp "stayhub/internal/app/handlers/messaging"
	propertyapp "stayhub/internal/app/handlers/property"
	"stayhub/internal/app/middleware"
	appoutbox "stayhub/internal/app/outbox"
	"stayhub/internal/app/policies"
	"stayhub/internal/app/queries"
	authsvc "stayhub/internal/app/services/auth"
	"stayhub/internal/app/uow"
	domainauth "stayhub/internal/domain/auth"
	domainuser "stayhub/internal/domain/user"
	"stayhub/internal/infra/broker/kafka"
	"stayhub/internal/infra/config"
	"stayhub/internal/infra/db/mongo"
	ginserver "stayhub/internal/infra/http/gin"
	"stayhub/internal/infra/obs"
	infraoutbox "stayhub/internal/infra/outbox"
	"stayhub/internal/infra/security"
	"stayhub/internal/infra/storage/memory"
	"stayhub/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	storage, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("storage init failed", "error", err)
		os.Exit(1)
	}

	if len(cfg.KafkaBrokers) > 0 && storage.outboxStore != nil {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			logger.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		worker := &infraoutbox.Worker{
			Store:       storage.outboxStore,
			Producer:    producer,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Backoff:     cfg.RetryBackoff,
		}
		go func() {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
		logger.Info("outbox worker started", "brokers", cfg.KafkaBrokers)
	}

	uploader := buildUploader(cfg, logger)
	handlers := buildHandlers(cfg, storage, uploader, logger)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: storage.ready,
	}, handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	if storage.close != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := storage.close(closeCtx); err != nil {
			logger.Error("storage close failed", "error", err)
		}
	}
	logger.Info("HTTP server stopped")
}

type storageSet struct {
	factory     uow.UoWFactory
	box         appoutbox.Outbox
	idStore     middleware.IdempotencyStore
	locks       policies.RoomLocker
	users       domainuser.Repository
	sessions    domainauth.SessionStore
	outboxStore *infraoutbox.Store
	ready       func() error
	close       func(context.Context) error
}

func buildStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (storageSet, error) {
	switch cfg.StorageMode {
	case "mongo":
		client, err := mongo.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return storageSet{}, err
		}
		if err := mongo.EnsureIndexes(ctx, client.DB, cfg.IdempotencyTTL); err != nil {
			return storageSet{}, err
		}
		factory := mongo.NewFactory(client.DB)
		store := infraoutbox.NewStore(client.DB)
		logger.Info("mongo storage ready", "db", cfg.MongoDB)
		return storageSet{
			factory:     factory,
			box:         store,
			idStore:     mongo.NewIdempotencyStore(client.DB),
			locks:       memory.NewRoomLocks(),
			users:       factory.UsersRepo,
			sessions:    factory.SessionsStore,
			outboxStore: store,
			ready:       func() error { return client.Ping(context.Background()) },
			close:       client.Close,
		}, nil
	default:
		factory := memory.NewFactory()
		return storageSet{
			factory:  factory,
			box:      memory.NewOutbox(),
			idStore:  memory.NewIdempotencyStore(cfg.IdempotencyTTL),
			locks:    memory.NewRoomLocks(),
			users:    factory.UsersRepo,
			sessions: factory.SessionsStore,
			ready:    func() error { return nil },
		}, nil
	}
}

func buildUploader(cfg config.Config, logger *slog.Logger) s3.Uploader {
	client, err := s3.NewClient(s3.Options{
		Endpoint:      cfg.S3Endpoint,
		PublicBaseURL: cfg.S3PublicEndpoint,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		Bucket:        cfg.S3Bucket,
		UseSSL:        cfg.S3UseSSL,
	}, logger)
	if err != nil {
		logger.Warn("photo storage unavailable", "error", err)
		return s3.NoopUploader{}
	}
	return client
}

func buildHandlers(cfg config.Config, storage storageSet, uploader s3.Uploader, logger *slog.Logger) ginserver.Handlers {
	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.CreateBookingCommand{}.Key(), &bookingapp.CreateBookingHandler{
		UoWFactory: storage.factory,
		Locks:      storage.locks,
		Outbox:     storage.box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.CancelBookingCommand{}.Key(), &bookingapp.CancelBookingHandler{
		UoWFactory: storage.factory,
		Outbox:     storage.box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.RescheduleBookingCommand{}.Key(), &bookingapp.RescheduleBookingHandler{
		UoWFactory: storage.factory,
		Locks:      storage.locks,
		Outbox:     storage.box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, availabilityapp.SetOverrideCommand{}.Key(), &availabilityapp.SetOverrideHandler{
		UoWFactory: storage.factory,
	})
	commands.RegisterHandler(commandBus, propertyapp.CreatePropertyCommand{}.Key(), &propertyapp.CreatePropertyHandler{
		UoWFactory: storage.factory,
	})
	commands.RegisterHandler(commandBus, propertyapp.AddRoomCommand{}.Key(), &propertyapp.AddRoomHandler{
		UoWFactory: storage.factory,
	})
	commands.RegisterHandler(commandBus, propertyapp.AttachRoomPhotoCommand{}.Key(), &propertyapp.AttachRoomPhotoHandler{
		UoWFactory: storage.factory,
	})
	commands.RegisterHandler(commandBus, maintenanceapp.CreateTaskCommand{}.Key(), &maintenanceapp.CreateTaskHandler{
		UoWFactory: storage.factory,
	})
	commands.RegisterHandler(commandBus, maintenanceapp.CompleteTaskCommand{}.Key(), &maintenanceapp.CompleteTaskHandler{
		UoWFactory: storage.factory,
	})
	commands.RegisterHandler(commandBus, messagingapp.PostMessageCommand{}.Key(), &messagingapp.PostMessageHandler{
		UoWFactory: storage.factory,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, availabilityapp.GetCalendarQuery{}.Key(), &availabilityapp.GetCalendarHandler{UoWFactory: storage.factory})
	queries.RegisterHandler(queryBus, availabilityapp.QuoteStayQuery{}.Key(), &availabilityapp.QuoteStayHandler{UoWFactory: storage.factory})
	queries.RegisterHandler(queryBus, bookingapp.ListGuestBookingsQuery{}.Key(), &bookingapp.ListGuestBookingsHandler{UoWFactory: storage.factory})
	queries.RegisterHandler(queryBus, propertyapp.ListPropertiesQuery{}.Key(), &propertyapp.ListPropertiesHandler{UoWFactory: storage.factory})
	queries.RegisterHandler(queryBus, propertyapp.ListRoomsQuery{}.Key(), &propertyapp.ListRoomsHandler{UoWFactory: storage.factory})
	queries.RegisterHandler(queryBus, maintenanceapp.ListTasksQuery{}.Key(), &maintenanceapp.ListTasksHandler{UoWFactory: storage.factory})
	queries.RegisterHandler(queryBus, messagingapp.ListThreadsQuery{}.Key(), &messagingapp.ListThreadsHandler{UoWFactory: storage.factory})
	queries.RegisterHandler(queryBus, messagingapp.GetThreadQuery{}.Key(), &messagingapp.GetThreadHandler{UoWFactory: storage.factory})
	queries.RegisterHandler(queryBus, financeapp.PropertyLedgerQuery{}.Key(), &financeapp.PropertyLedgerHandler{UoWFactory: storage.factory})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(storage.idStore, nil),
		middleware.Authorization(policies.KnownActorAuthorizer{}),
		middleware.Transaction(storage.factory, nil),
		middleware.OutboxFlush(storage.box),
	)
	queryBusWithMiddleware := middleware.ChainQueries(
		queryBus,
		middleware.QueryAuthorization(policies.KnownActorAuthorizer{}),
	)

	authService := &authsvc.Service{
		Users:      storage.users,
		Sessions:   storage.sessions,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}

	return ginserver.Handlers{
		Auth:        ginserver.AuthHandler{Service: authService},
		Booking:     ginserver.BookingHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		Calendar:    ginserver.CalendarHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		Property:    ginserver.PropertyHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware, Uploader: uploader},
		Maintenance: ginserver.MaintenanceHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		Messaging:   ginserver.MessagingHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		Finance:     ginserver.FinanceHandler{Queries: queryBusWithMiddleware},
		AuthMiddleware: ginserver.AuthMiddleware{
			Service: authService,
			Logger:  logger,
		}.Handle,
	}
}
