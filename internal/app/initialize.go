package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lmoroni/cactusbot/internal/bus"
	"github.com/lmoroni/cactusbot/internal/channels/telegram"
	"github.com/lmoroni/cactusbot/internal/classifier"
	"github.com/lmoroni/cactusbot/internal/commands"
	"github.com/lmoroni/cactusbot/internal/constants"
	"github.com/lmoroni/cactusbot/internal/housekeeping"
	"github.com/lmoroni/cactusbot/internal/llm"
	"github.com/lmoroni/cactusbot/internal/logger"
	"github.com/lmoroni/cactusbot/internal/persona"
	"github.com/lmoroni/cactusbot/internal/reminder"
	"github.com/lmoroni/cactusbot/internal/userprefs"
	"github.com/lmoroni/cactusbot/internal/workspace"
)

// Initialize initializes all application components.
func (a *App) Initialize(ctx context.Context) error {
	// 1. Create application context
	a.ctx, a.cancel = context.WithCancel(ctx)

	// 2. Initialize message bus
	a.messageBus = bus.New(a.config.MessageBus.Capacity, a.logger)
	if err := a.messageBus.Start(a.ctx); err != nil {
		return fmt.Errorf("failed to start message bus: %w", err)
	}

	// 3. Initialize workspace
	ws := workspace.New(a.config.Workspace)
	if err := ws.Bootstrap(); err != nil {
		return fmt.Errorf("failed to bootstrap workspace: %w", err)
	}

	// 4. Initialize LLM provider and classifier
	a.provider = llm.NewGeminiProvider(llm.GeminiConfig{
		APIKey:         a.config.LLM.Gemini.APIKey,
		Model:          a.config.LLM.Gemini.Model,
		BaseURL:        a.config.LLM.Gemini.BaseURL,
		TimeoutSeconds: a.config.LLM.Gemini.TimeoutSeconds,
		MaxTokens:      a.config.LLM.Gemini.MaxTokens,
		Temperature:    a.config.LLM.Gemini.Temperature,
	}, a.logger)
	a.classifier = classifier.New(a.provider, a.logger)

	// 5. Load personas and user preferences
	a.personas = persona.NewLoader(ws.Subpath(constants.PersonaSubdirectory))
	if _, err := a.personas.Load(); err != nil {
		return fmt.Errorf("failed to load personas: %w", err)
	}
	a.prefs = userprefs.NewStore(ws.Path(), a.logger)

	// 6. Initialize the reminder subsystem
	if a.config.Metrics.Enabled {
		a.metrics = reminder.InitMetrics("cactusbot", nil)
	}
	a.storage = reminder.NewStorage(ws.Path(), a.logger)
	a.scheduler = reminder.NewService(a.storage, a.logger, a.metrics)

	a.sweeper = reminder.NewSweeper(a.storage, a.deliverEntry, reminder.SweeperConfig{
		Interval:        time.Duration(a.config.Scheduler.SweepIntervalSeconds) * time.Second,
		DeliveryTimeout: time.Duration(a.config.Scheduler.DeliveryTimeoutSeconds) * time.Second,
	}, a.logger, a.metrics)
	if err := a.sweeper.Start(a.ctx); err != nil {
		return fmt.Errorf("failed to start sweeper: %w", err)
	}

	// 7. Create the command handler
	a.sessions = commands.NewSessionStore()
	a.commandHandler = commands.NewHandler(a.scheduler, a.prefs, a.messageBus, a.sessions, a.logger)

	// 8. Initialize telegram connector if enabled
	if a.config.Channels.Telegram.Enabled {
		a.telegram = telegram.New(a.config.Channels.Telegram, a.logger, a.messageBus)
		if err := a.telegram.Start(a.ctx); err != nil {
			return fmt.Errorf("failed to start telegram connector: %w", err)
		}
	}

	// 9. Initialize housekeeping if enabled
	if a.config.Housekeeping.Enabled {
		a.housekeeper = housekeeping.New(a.storage, housekeeping.Config{
			Enabled:  a.config.Housekeeping.Enabled,
			Schedule: a.config.Housekeeping.Schedule,
		}, a.logger)
		if err := a.housekeeper.Start(); err != nil {
			return fmt.Errorf("failed to start housekeeping: %w", err)
		}
	}

	// 10. Expose the metrics endpoint if enabled
	if a.config.Metrics.Enabled {
		a.startMetricsServer()
	}

	// 11. Mark as started
	a.mu.Lock()
	a.started = true
	a.mu.Unlock()

	return nil
}

// deliverEntry is the sweeper's delivery sink: a fired entry becomes an
// outbound chat message.
func (a *App) deliverEntry(ctx context.Context, chatID string, entry reminder.Entry) error {
	text := constants.MsgTimerFired
	if entry.Kind == reminder.KindReminder {
		text = fmt.Sprintf(constants.MsgReminderFiredFormat, entry.Content)
	}

	outbound := bus.NewOutboundMessage(bus.ChannelTypeTelegram, chatID, text, entry.ID, nil)
	if err := a.messageBus.PublishOutbound(*outbound); err != nil {
		return fmt.Errorf("failed to publish fired entry: %w", err)
	}
	return nil
}

// startMetricsServer serves the Prometheus endpoint in the background.
func (a *App) startMetricsServer() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	a.metricsServer = &http.Server{
		Addr:    a.config.Metrics.Listen,
		Handler: mux,
	}

	go func() {
		a.logger.Info("metrics endpoint listening",
			logger.Field{Key: "addr", Value: a.config.Metrics.Listen})
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics endpoint failed", err)
		}
	}()
}
