// Package wire provides dependency injection for the brigadir engine.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"log"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/example/brigadir/internal/adapters/sqlite"
	"github.com/example/brigadir/internal/adapters/telegram"
	"github.com/example/brigadir/internal/app"
	"github.com/example/brigadir/internal/config"
	"github.com/example/brigadir/internal/db"
	"github.com/example/brigadir/internal/logging"
	"github.com/example/brigadir/internal/models"
	"github.com/example/brigadir/internal/ports/primary"
	"github.com/example/brigadir/internal/ports/secondary"
)

var (
	cfg                 *config.Config
	logger              *zap.Logger
	triggerService      primary.TriggerService
	escalationService   primary.EscalationService
	cascadeService      primary.CascadeService
	actionService       primary.ActionService
	schedulerService    primary.SchedulerService
	notificationService primary.NotificationService
	once                sync.Once
)

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the shared engine logger.
func Logger() *zap.Logger {
	once.Do(initServices)
	return logger
}

// TriggerService returns the singleton TriggerService instance.
func TriggerService() primary.TriggerService {
	once.Do(initServices)
	return triggerService
}

// EscalationService returns the singleton EscalationService instance.
func EscalationService() primary.EscalationService {
	once.Do(initServices)
	return escalationService
}

// CascadeService returns the singleton CascadeService instance.
func CascadeService() primary.CascadeService {
	once.Do(initServices)
	return cascadeService
}

// ActionService returns the singleton ActionService instance.
func ActionService() primary.ActionService {
	once.Do(initServices)
	return actionService
}

// SchedulerService returns the singleton SchedulerService instance.
func SchedulerService() primary.SchedulerService {
	once.Do(initServices)
	return schedulerService
}

// NotificationService returns the singleton NotificationService instance.
func NotificationService() primary.NotificationService {
	once.Do(initServices)
	return notificationService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to resolve working directory: %v", err)
	}
	cfg, err = config.LoadConfig(cwd)
	if err != nil {
		// No config file yet: run with defaults, push disabled.
		cfg = &config.Config{
			TickSeconds:     config.DefaultTickSeconds,
			DigestHour:      config.DefaultDigestHour,
			PlanFactHour:    config.DefaultPlanFactHour,
			EveningCutoffHr: config.DefaultEveningCutoffHr,
		}
	}

	logger = logging.New(cfg.LogPath)

	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Repository adapters (secondary ports) with injected DB
	notificationRepo := sqlite.NewNotificationRepository(database)
	scheduleRepo := sqlite.NewScheduleRepository(database)
	taskRepo := sqlite.NewTaskRepository(database)
	supplyRepo := sqlite.NewSupplyRepository(database)
	objectRepo := sqlite.NewObjectRepository(database)
	directory := sqlite.NewDirectoryRepository(database)
	audit := sqlite.NewAuditWriter(database)

	var push secondary.PushChannel
	if cfg.BotToken != "" {
		push, err = telegram.NewPushChannel(cfg.BotToken, cfg.MiniAppURL, logger)
		if err != nil {
			log.Fatalf("failed to connect push channel: %v", err)
		}
	} else {
		logger.Warn("no bot token configured, push delivery disabled")
		push = nopPush{}
	}

	clock := secondary.SystemClock{}

	// Services (primary ports implementation). Trigger and cascade reference
	// each other, so the cascade side is attached after construction.
	trigger := app.NewTriggerService(notificationRepo, directory, push, audit, clock, logger)
	cascadeService = app.NewCascadeService(scheduleRepo, objectRepo, audit, trigger, logger)
	trigger.AttachCascade(cascadeService)
	triggerService = trigger

	escalationService = app.NewEscalationService(notificationRepo, directory, audit, trigger, clock, logger)
	actionService = app.NewActionService(notificationRepo, audit, trigger, logger)
	notificationService = app.NewNotificationService(notificationRepo)
	schedulerService = app.NewSchedulerService(
		escalationService, trigger, notificationRepo, taskRepo, supplyRepo, objectRepo,
		scheduleRepo, directory, push, logger,
		cfg.DigestHour, cfg.PlanFactHour, cfg.EveningCutoffHr)
}

// nopPush drops deliveries when no bot token is configured.
type nopPush struct{}

func (nopPush) Deliver(ctx context.Context, chatID int64, n *models.Notification) error {
	return nil
}
