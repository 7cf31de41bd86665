package telegram

import (
	"context"

	"github.com/mymmrac/telego"

	"github.com/lmoroni/cactusbot/internal/logger"
)

// LongPollManager handles long polling for Telegram updates.
type LongPollManager struct {
	connector *Connector
	logger    *logger.Logger
}

// NewLongPollManager creates a new long poll manager.
func NewLongPollManager(connector *Connector, log *logger.Logger) *LongPollManager {
	return &LongPollManager{
		connector: connector,
		logger:    log,
	}
}

// Start starts long polling for Telegram updates and dispatches them to the
// update handler until the context is cancelled.
func (lpm *LongPollManager) Start(ctx context.Context) {
	lpm.logger.Info("starting long polling for telegram updates")

	updates, err := lpm.connector.bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: 30,
	})
	if err != nil {
		lpm.logger.ErrorCtx(ctx, "failed to start long polling", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			lpm.logger.Info("long polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				lpm.logger.Info("updates channel closed")
				return
			}

			if err := lpm.connector.updateHandler.Handle(update); err != nil {
				lpm.logger.ErrorCtx(ctx, "failed to handle update", err)
			}
		}
	}
}
