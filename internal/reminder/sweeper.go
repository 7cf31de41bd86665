package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lmoroni/cactusbot/internal/logger"
)

// DeliverFunc hands a due entry to the surrounding chat layer. A failure
// is logged by the sweeper but does not prevent removal: an entry whose
// delivery channel vanished is consumed, not retried forever.
type DeliverFunc func(ctx context.Context, chatID string, entry Entry) error

// Sweeper is the recurring due-entry scan. On each tick it captures the
// current time, lists every pending entry, delivers the due ones and
// removes each immediately after its delivery attempt, so an entry fires
// at most once even when several are due in the same tick.
type Sweeper struct {
	store   *Storage
	deliver DeliverFunc
	logger  *logger.Logger
	metrics *Metrics

	interval        time.Duration
	deliveryTimeout time.Duration
	now             func() time.Time

	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	mu      sync.Mutex
}

// SweeperConfig holds the sweeper settings.
type SweeperConfig struct {
	Interval        time.Duration // Tick interval between scans
	DeliveryTimeout time.Duration // Per-entry delivery timeout
}

// NewSweeper creates a sweeper over the given store and delivery sink.
func NewSweeper(store *Storage, deliver DeliverFunc, cfg SweeperConfig, log *logger.Logger, metrics *Metrics) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = 5 * time.Second
	}
	return &Sweeper{
		store:           store,
		deliver:         deliver,
		logger:          log,
		metrics:         metrics,
		interval:        cfg.Interval,
		deliveryTimeout: cfg.DeliveryTimeout,
		now:             time.Now,
	}
}

// Start launches the sweep loop. It returns immediately; the loop runs
// until the context is cancelled or Stop is called.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("sweeper already started")
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true

	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				s.logger.Info("sweeper stopped")
				return
			case <-ticker.C:
				s.sweep(s.now())
			}
		}
	}()

	s.logger.Info("sweeper started",
		logger.Field{Key: "interval", Value: s.interval.String()})
	return nil
}

// Stop stops the sweep loop.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.cancel()
	s.started = false
}

// sweep performs a single scan at the given instant.
func (s *Sweeper) sweep(now time.Time) {
	start := time.Now()

	all, err := s.store.ListAll()
	if err != nil {
		s.logger.Error("failed to list entries for sweep", err)
		return
	}
	s.metrics.SetPending(len(all))

	for _, owned := range all {
		if !owned.Entry.Due(now) {
			continue
		}
		s.fire(owned.ChatID, owned.Entry)
	}

	s.metrics.ObserveSweepDuration(time.Since(start).Seconds())
}

// fire delivers one due entry and removes it. Removal happens right after
// the delivery attempt, successful or not.
func (s *Sweeper) fire(chatID string, entry Entry) {
	ctx := context.Background()
	if s.ctx != nil {
		ctx = s.ctx
	}
	deliverCtx, cancel := context.WithTimeout(ctx, s.deliveryTimeout)
	defer cancel()

	if err := s.deliver(deliverCtx, chatID, entry); err != nil {
		s.metrics.RecordDeliveryFailure()
		s.logger.Error("delivery failed, entry dropped", err,
			logger.Field{Key: "chat_id", Value: chatID},
			logger.Field{Key: "entry_id", Value: entry.ID})
	} else {
		s.metrics.RecordFired(entry.Kind)
		s.logger.Info("entry fired",
			logger.Field{Key: "chat_id", Value: chatID},
			logger.Field{Key: "entry_id", Value: entry.ID},
			logger.Field{Key: "kind", Value: entry.Kind})
	}

	if err := s.store.Remove(chatID, entry.ID); err != nil {
		s.logger.Error("failed to remove fired entry", err,
			logger.Field{Key: "chat_id", Value: chatID},
			logger.Field{Key: "entry_id", Value: entry.ID})
	}
}
