// Package app graceful shutdown: components are stopped in the reverse
// order of their initialization so nothing publishes into a stopped bus.
package app

import (
	"context"
	"time"
)

// Shutdown performs graceful shutdown of all components.
// The method is thread-safe and idempotent.
func (a *App) Shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.started {
		return nil
	}

	// Cancel context to stop all background loops
	a.cancel()

	// Stop the metrics endpoint
	if a.metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("failed to stop metrics endpoint", err)
		}
		cancel()
	}

	// Stop housekeeping
	if a.housekeeper != nil {
		a.housekeeper.Stop()
	}

	// Stop the telegram connector
	if a.telegram != nil {
		if err := a.telegram.Stop(); err != nil {
			a.logger.Error("failed to stop telegram connector", err)
		}
	}

	// Stop the sweeper before the bus so no delivery hits a stopped queue
	if a.sweeper != nil {
		a.sweeper.Stop()
	}

	// Stop the message bus last
	var busErr error
	if a.messageBus != nil {
		if busErr = a.messageBus.Stop(); busErr != nil {
			a.logger.Error("failed to stop message bus", busErr)
		}
	}

	a.started = false
	a.logger.Info("application shutdown complete")

	return busErr
}
