// Package housekeeping prunes leftover conversation files on a cron
// schedule. Conversations accumulate storage files as reminders come and
// go; once every entry has fired or been cancelled the file sticks around
// empty, and this package removes it.
package housekeeping

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/lmoroni/cactusbot/internal/logger"
	"github.com/lmoroni/cactusbot/internal/reminder"
)

// Config holds configuration for the housekeeping scheduler.
type Config struct {
	Enabled  bool   // Enable scheduled housekeeping
	Schedule string // Cron expression, e.g. "0 4 * * *"
}

// Scheduler runs the prune pass on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	store  *reminder.Storage
	config Config
	logger *logger.Logger

	mu      sync.Mutex
	started bool
}

// New creates a housekeeping scheduler over the given entry storage.
func New(store *reminder.Storage, cfg Config, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		store:  store,
		config: cfg,
		logger: log,
	}
}

// Start registers the prune job and starts the cron scheduler. Disabled
// configuration is not an error; Start just does nothing.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.config.Enabled {
		s.logger.Info("housekeeping disabled")
		return nil
	}
	if s.started {
		return fmt.Errorf("housekeeping scheduler already started")
	}

	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		if _, err := s.RunOnce(); err != nil {
			s.logger.Error("housekeeping run failed", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid housekeeping schedule %q: %w", s.config.Schedule, err)
	}

	s.cron.Start()
	s.started = true
	s.logger.Info("housekeeping started",
		logger.Field{Key: "schedule", Value: s.config.Schedule})
	return nil
}

// Stop stops the cron scheduler and waits for a running prune pass to
// finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	<-s.cron.Stop().Done()
	s.started = false
	s.logger.Info("housekeeping stopped")
}

// RunOnce executes a single prune pass and returns the number of
// conversation files removed.
func (s *Scheduler) RunOnce() (int, error) {
	chatIDs, err := s.store.Conversations()
	if err != nil {
		return 0, fmt.Errorf("failed to list conversations: %w", err)
	}

	pruned := 0
	for _, chatID := range chatIDs {
		entries, err := s.store.List(chatID)
		if err != nil {
			s.logger.Error("failed to inspect conversation", err,
				logger.Field{Key: "chat_id", Value: chatID})
			continue
		}
		if len(entries) > 0 {
			continue
		}

		if err := s.store.Prune(chatID); err != nil {
			s.logger.Error("failed to prune conversation", err,
				logger.Field{Key: "chat_id", Value: chatID})
			continue
		}
		pruned++
		s.logger.Debug("conversation pruned",
			logger.Field{Key: "chat_id", Value: chatID})
	}

	if pruned > 0 {
		s.logger.Info("housekeeping completed",
			logger.Field{Key: "pruned", Value: pruned})
	}
	return pruned, nil
}
