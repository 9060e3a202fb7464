package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskmill/internal/api"
	apimiddleware "github.com/phrazzld/taskmill/internal/api/middleware"
	"github.com/phrazzld/taskmill/internal/config"
	"github.com/phrazzld/taskmill/internal/dispatch"
	"github.com/phrazzld/taskmill/internal/domain/schedule"
	"github.com/phrazzld/taskmill/internal/events"
	"github.com/phrazzld/taskmill/internal/platform/gcal"
	"github.com/phrazzld/taskmill/internal/platform/logger"
	"github.com/phrazzld/taskmill/internal/platform/mail"
	"github.com/phrazzld/taskmill/internal/platform/postgres"
	"github.com/phrazzld/taskmill/internal/service/lifecycle"
)

// application holds the wired dependencies of the running server.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	db      *sql.DB
	service lifecycle.Service
	sweeper *dispatch.Sweeper
	authMW  *apimiddleware.AuthMiddleware
}

// newApplication loads configuration and wires every component of the
// engine: stores, the calendar source, delivery channels, the dispatcher
// with its background sweeper, the lifecycle service and the HTTP layer.
func newApplication(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := setupDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, log); err != nil {
		return nil, err
	}

	// Stores
	taskStore := postgres.NewPostgresTaskStore(db)
	reminderStore := postgres.NewPostgresReminderStore(db)
	directoryStore := postgres.NewPostgresDirectoryStore(db)
	holidayStore := postgres.NewPostgresHolidayStore(db)
	workLogStore := postgres.NewPostgresWorkLogStore(db)

	// Business-day calendar with a cached holiday snapshot
	calendars := schedule.NewCachingCalendarSource(holidayStore, cfg.Scheduler.HolidayCacheTTL)

	// Delivery channels
	mailChannel := mail.NewSMTPChannel(mail.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		From:     cfg.Mail.From,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
	})

	var calendarChannel dispatch.CalendarChannel
	if cfg.Calendar.CredentialsFile != "" {
		gc, err := gcal.NewCalendarChannel(ctx, gcal.Config{
			CredentialsFile: cfg.Calendar.CredentialsFile,
			TokenFile:       cfg.Calendar.TokenFile,
			TimeZone:        cfg.Calendar.TimeZone,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to set up calendar channel: %w", err)
		}
		calendarChannel = gc
		log.Info("Calendar channel enabled", "time_zone", cfg.Calendar.TimeZone)
	} else {
		log.Info("Calendar channel disabled")
	}

	dispatcher := dispatch.NewDispatcher(reminderStore, taskStore, mailChannel, calendarChannel,
		dispatch.Config{DeliveryTimeout: cfg.Mail.Timeout})

	sweeper := dispatch.NewSweeper(dispatcher, reminderStore, dispatch.SweeperConfig{
		Interval:  cfg.Scheduler.SweepInterval,
		BatchSize: cfg.Scheduler.SweepBatchSize,
	})

	// Lifecycle events, logged for operational visibility
	emitter := events.NewInMemoryEventEmitter(log)
	emitter.RegisterHandler(events.NewLoggingEventHandler(log))

	service, err := lifecycle.NewTaskService(lifecycle.Deps{
		DB:         db,
		Tasks:      taskStore,
		Reminders:  reminderStore,
		Activities: directoryStore,
		Operators:  directoryStore,
		Customers:  directoryStore,
		WorkLog:    workLogStore,
		Calendars:  calendars,
		Dispatcher: dispatcher,
		Emitter:    emitter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create lifecycle service: %w", err)
	}

	return &application{
		config:  cfg,
		logger:  log,
		db:      db,
		service: service,
		sweeper: sweeper,
		authMW:  apimiddleware.NewAuthMiddleware(cfg.Auth.JWTSecret),
	}, nil
}

// run starts the background sweeper and the HTTP server, blocking until
// shutdown completes.
func (app *application) run(ctx context.Context) error {
	app.sweeper.Start(ctx)

	router := api.NewRouter(
		api.NewTaskHandler(app.service),
		api.NewReminderHandler(app.service),
		app.authMW,
	)

	return app.startHTTPServer(ctx, router)
}

// cleanup releases the application's long-lived resources during shutdown.
func (app *application) cleanup() {
	app.sweeper.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("Error closing database connection", "error", err)
	}
}
