// Package app provides the main application structure for Cactusbot.
// It coordinates all components: the message bus, the Telegram channel,
// the LLM provider, the action classifier, the reminder scheduler and
// sweeper, user preferences, and the housekeeping cron.
package app

import (
	"context"
	"net/http"
	"sync"

	"github.com/lmoroni/cactusbot/internal/bus"
	"github.com/lmoroni/cactusbot/internal/channels/telegram"
	"github.com/lmoroni/cactusbot/internal/classifier"
	"github.com/lmoroni/cactusbot/internal/commands"
	"github.com/lmoroni/cactusbot/internal/config"
	"github.com/lmoroni/cactusbot/internal/housekeeping"
	"github.com/lmoroni/cactusbot/internal/llm"
	"github.com/lmoroni/cactusbot/internal/logger"
	"github.com/lmoroni/cactusbot/internal/persona"
	"github.com/lmoroni/cactusbot/internal/reminder"
	"github.com/lmoroni/cactusbot/internal/userprefs"
)

// App represents the main application structure.
// It holds references to all major components and manages their lifecycle.
type App struct {
	// Configuration and core services
	config *config.Config
	logger *logger.Logger

	// Communication infrastructure
	messageBus *bus.MessageBus

	// Reminder subsystem
	storage   *reminder.Storage
	metrics   *reminder.Metrics
	scheduler *reminder.Service
	sweeper   *reminder.Sweeper

	// Assistant components
	provider       llm.Provider
	classifier     *classifier.Classifier
	personas       *persona.Loader
	prefs          *userprefs.Store
	sessions       *commands.SessionStore
	commandHandler *commands.Handler

	// Channels
	telegram *telegram.Connector

	// Scheduled tasks
	housekeeper *housekeeping.Scheduler

	// Metrics endpoint
	metricsServer *http.Server

	// Context management
	ctx    context.Context
	cancel context.CancelFunc

	// Thread-safety
	mu      sync.RWMutex
	started bool
}

// New creates a new App instance with the provided configuration and logger.
// Only the config and logger fields are set; the remaining components are
// initialized in Initialize().
func New(cfg *config.Config, log *logger.Logger) *App {
	return &App{
		config: cfg,
		logger: log,
	}
}

// Run starts the application and blocks until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.Initialize(ctx); err != nil {
		return err
	}

	if err := a.StartMessageProcessing(a.ctx); err != nil {
		return err
	}

	a.logger.Info("application is running")

	<-ctx.Done()

	return a.Shutdown()
}
