package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	token_adapter "saved-search-service/internal/adapters/jwt"
	logger_adapter "saved-search-service/internal/adapters/logger"
	"saved-search-service/internal/adapters/notifier"
	postgres_adapter "saved-search-service/internal/adapters/postgres"
	rabbitmq_adapter "saved-search-service/internal/adapters/rabbitmq"
	"saved-search-service/internal/adapters/rest"
	"saved-search-service/internal/adapters/scheduler"
	"saved-search-service/internal/configs"
	"saved-search-service/internal/constants"
	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/port"
	"saved-search-service/internal/core/usecase"
	fluentlogger "saved-search-service/pkg/fluent_logger"
	"saved-search-service/pkg/postgres"
	"saved-search-service/pkg/rabbitmq/rabbitmq_common"
	"saved-search-service/pkg/rabbitmq/rabbitmq_producer"
	redisclient "saved-search-service/pkg/redis"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
)

type namedListener struct {
	name     string
	listener port.EventListenerPort
}

type App struct {
	config      *configs.AppConfig
	dbPool      *pgxpool.Pool
	apiServer   *rest.Server
	listeners   []namedListener
	sseNotifier *notifier.SSENotifier

	redisClient *goredis.Client
	connManager *rabbitmq_common.ConnectionManager
	publisher   *rabbitmq_producer.Publisher

	logger       port.LoggerPort
	fluentClient *fluent.Fluent
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	app := &App{config: appConfig}

	// --- 1. ЛОГГЕРЫ ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: appConfig.StdoutLogger.UseColor,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	if appConfig.FluentBit.Enabled {
		app.fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(app.fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			app.fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiLoggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	app.logger = baseLogger.WithFields(port.Fields{"component": "app"})
	app.logger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// при ошибке дальше закрываем все, что успели открыть
	ok := false
	defer func() {
		if !ok {
			app.closeResources()
		}
	}()

	// --- 2. POSTGRES ---
	if appConfig.Database.RunMigrations {
		if err := postgres_adapter.RunMigrations(appConfig.Database.URL, app.logger); err != nil {
			app.logger.Error("Failed to run migrations", err, nil)
			return nil, err
		}
	}

	app.dbPool, err = postgres.NewClient(context.Background(), postgres.Config{
		DatabaseURL: appConfig.Database.URL,
		MaxConns:    int32(appConfig.Database.MaxConns),
	})
	if err != nil {
		app.logger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	app.logger.Info("Successfully connected to PostgreSQL pool!", nil)

	if appConfig.Database.SeedReference {
		if err := postgres_adapter.SeedReferenceData(context.Background(), app.dbPool); err != nil {
			app.logger.Error("Failed to seed reference data", err, nil)
			return nil, fmt.Errorf("failed to seed reference data: %w", err)
		}
	}

	searchRepo, err := postgres_adapter.NewPostgresSavedSearchRepository(app.dbPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create saved search repository: %w", err)
	}
	postRepo, err := postgres_adapter.NewPostgresPostRepository(app.dbPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create post repository: %w", err)
	}
	notificationRepo, err := postgres_adapter.NewPostgresNotificationRepository(app.dbPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification repository: %w", err)
	}
	appointmentRepo, err := postgres_adapter.NewPostgresAppointmentRepository(app.dbPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create appointment repository: %w", err)
	}
	locationRepo, err := postgres_adapter.NewPostgresLocationRepository(app.dbPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create location repository: %w", err)
	}

	// --- 3. ДОСТАВКА УВЕДОМЛЕНИЙ ---
	app.sseNotifier = notifier.NewSSENotifier(baseLogger)
	var sinks []port.NotifierPort

	if appConfig.Redis.Enabled {
		app.redisClient, err = redisclient.NewClient(context.Background(), redisclient.Config{URL: appConfig.Redis.URL})
		if err != nil {
			app.logger.Error("Failed to connect to Redis", err, nil)
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		redisNotifier, err := notifier.NewRedisNotifier(app.redisClient)
		if err != nil {
			return nil, err
		}
		// SSE получает события через Redis, чтобы их видели клиенты всех экземпляров
		sinks = append(sinks, redisNotifier)
		app.listeners = append(app.listeners, namedListener{
			name:     "Redis Notification Relay",
			listener: notifier.NewRedisRelay(redisNotifier, app.sseNotifier),
		})
		app.logger.Info("Redis pub/sub relay initialized.", nil)
	} else {
		sinks = append(sinks, app.sseNotifier)
	}

	if appConfig.RabbitMQ.Enabled {
		bridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
		app.connManager, err = rabbitmq_common.NewConnectionManager(rabbitmq_common.Config{
			URL:               appConfig.RabbitMQ.URL,
			ReconnectInterval: appConfig.RabbitMQ.ReconnectInterval,
		}, bridge)
		if err != nil {
			app.logger.Error("Failed to create connection manager", err, nil)
			return nil, fmt.Errorf("failed to create connection manager: %w", err)
		}

		app.publisher, err = rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			ExchangeName:    constants.NotificationsExchange,
			ExchangeType:    "topic",
			DurableExchange: true,
			DeclareExchange: true,
			Logger:          rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "notifications_publisher"})),
		}, app.connManager)
		if err != nil {
			app.logger.Error("Failed to create notifications publisher", err, nil)
			return nil, fmt.Errorf("failed to create notifications publisher: %w", err)
		}

		rabbitNotifier, err := notifier.NewRabbitMQNotifier(app.publisher)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, rabbitNotifier)
		app.logger.Info("RabbitMQ notifications publisher initialized.", nil)
	}

	delivery := notifier.NewMultiNotifier(sinks...)

	// --- 4. USE CASES ---
	createSearchUC := usecase.NewCreateSavedSearchUseCase(searchRepo)
	listSearchesUC := usecase.NewListSavedSearchesUseCase(searchRepo)
	deleteSearchUC := usecase.NewDeleteSavedSearchUseCase(searchRepo)
	findMatchesUC := usecase.NewFindMatchingPostsUseCase(searchRepo, postRepo)
	notifyMatchingUC := usecase.NewNotifyMatchingSearchesUseCase(postRepo, searchRepo, notificationRepo, delivery)
	approvePostUC := usecase.NewApprovePostUseCase(postRepo, notificationRepo, delivery, notifyMatchingUC)
	rejectPostUC := usecase.NewRejectPostUseCase(postRepo, notificationRepo, delivery)
	listNotificationsUC := usecase.NewListNotificationsUseCase(notificationRepo)
	markReadUC := usecase.NewMarkNotificationReadUseCase(notificationRepo, delivery)
	deleteNotificationUC := usecase.NewDeleteNotificationUseCase(notificationRepo)
	createAppointmentUC := usecase.NewCreateAppointmentUseCase(appointmentRepo)
	listAppointmentsUC := usecase.NewListAppointmentsUseCase(appointmentRepo)
	cancelAppointmentUC := usecase.NewCancelAppointmentUseCase(appointmentRepo)
	sendRemindersUC := usecase.NewSendDueRemindersUseCase(appointmentRepo, delivery)
	locationCatalogUC := usecase.NewLocationCatalogUseCase(locationRepo)
	listAllSearchesUC := usecase.NewListAllSavedSearchesUseCase(searchRepo)
	listAllNotificationsUC := usecase.NewListAllNotificationsUseCase(notificationRepo)
	listAllAppointmentsUC := usecase.NewListAllAppointmentsUseCase(appointmentRepo)
	app.logger.Info("All use cases initialized.", nil)

	// --- 5. ВХОДНЫЕ АДАПТЕРЫ ---
	var tokens port.TokenServicePort
	if appConfig.Auth.JWTSecret != "" {
		tokenService, err := token_adapter.NewTokenService(appConfig.Auth.JWTSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to create token service: %w", err)
		}
		tokens = tokenService
	}
	auth := rest.NewAuthMiddleware(tokens, appConfig.Rest.TrustGatewayHeaders)

	handlers := rest.Handlers{
		SavedSearches: rest.NewSavedSearchHandler(createSearchUC, listSearchesUC, deleteSearchUC, findMatchesUC),
		Notifications: rest.NewNotificationHandler(listNotificationsUC, markReadUC, deleteNotificationUC, app.sseNotifier),
		Appointments:  rest.NewAppointmentHandler(createAppointmentUC, listAppointmentsUC, cancelAppointmentUC),
		Locations:     rest.NewLocationHandler(locationCatalogUC),
		Moderation:    rest.NewModerationHandler(approvePostUC, rejectPostUC),
		Admin:         rest.NewAdminHandler(listAllSearchesUC, listAllNotificationsUC, listAllAppointmentsUC),
	}
	app.apiServer = rest.NewServer(appConfig.Rest, handlers, auth, baseLogger)
	app.logger.Info("REST API server configured.", nil)

	reminders, err := scheduler.NewReminderScheduler(appConfig.Scheduler.ReminderSpec, sendRemindersUC, baseLogger)
	if err != nil {
		app.logger.Error("Failed to create reminder scheduler", err, nil)
		return nil, err
	}
	app.listeners = append(app.listeners, namedListener{name: "Appointment Reminder Scheduler", listener: reminders})

	if app.connManager != nil {
		postActivatedListener, err := rabbitmq_adapter.NewPostActivatedConsumerAdapter(rabbitmq_adapter.PostActivatedConsumerConfig{
			Workers:    appConfig.RabbitMQ.ConsumerWorkers,
			MaxRetries: appConfig.RabbitMQ.MaxRetries,
			RetryTTL:   appConfig.RabbitMQ.RetryTTL,
		}, notifyMatchingUC, baseLogger, app.connManager)
		if err != nil {
			app.logger.Error("Failed to create post activated consumer", err, nil)
			return nil, fmt.Errorf("failed to create post activated consumer adapter: %w", err)
		}
		app.listeners = append(app.listeners, namedListener{name: "Post Activated Events Listener", listener: postActivatedListener})
	}
	app.logger.Info("All listeners initialized.", port.Fields{"count": len(app.listeners)})

	ok = true
	return app, nil
}

func (a *App) Run() error {
	// единый контекст приложения, его отмена запускает graceful shutdown
	appCtx, cancelApp := context.WithCancel(contextkeys.ContextWithLogger(context.Background(), a.logger))
	defer cancelApp()

	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Rest.ShutdownTimeout)
		defer cancel()
		if err := a.apiServer.Stop(shutdownCtx); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}

		a.logger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()
		a.logger.Info("All background processes finished.", nil)

		for _, l := range a.listeners {
			if err := l.listener.Close(); err != nil {
				a.logger.Error("Error closing listener", err, port.Fields{"listener": l.name})
			}
		}

		a.closeResources()
	}()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, len(a.listeners)+1)

	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.Port})
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errorsCh <- fmt.Errorf("HTTP server start error: %w", err)
		}
	}()

	startListener := func(name string, listener port.EventListenerPort) {
		defer wg.Done()
		listenerLogger := a.logger.WithFields(port.Fields{"listener": name})
		listenerLogger.Info("Starting listener...", nil)

		if err := listener.Start(appCtx); err != nil {
			listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
			errorsCh <- fmt.Errorf("%s error: %w", name, err)
		} else {
			listenerLogger.Info("Listener stopped gracefully.", nil)
		}
	}

	wg.Add(len(a.listeners))
	for _, l := range a.listeners {
		go startListener(l.name, l.listener)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or component error...", nil)
	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case runErr = <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", runErr, nil)
	}

	cancelApp()
	return runErr
}

// closeResources закрывает внешние подключения в обратном порядке их открытия.
func (a *App) closeResources() {
	if a.sseNotifier != nil {
		a.sseNotifier.Close()
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("Error closing notifications publisher", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection manager", err, nil)
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("Error closing Redis client", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}

	a.logger.Info("Application shut down gracefully.", nil)
	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
