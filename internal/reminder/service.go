package reminder

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lmoroni/cactusbot/internal/logger"
	"github.com/lmoroni/cactusbot/internal/timeparse"
)

// Service is the scheduling facade. It resolves a time descriptor against
// the current clock, persists the resulting entry, and exposes listing and
// idempotent cancellation.
type Service struct {
	store   *Storage
	logger  *logger.Logger
	metrics *Metrics
	now     func() time.Time
}

// NewService creates a scheduling service over the given store.
func NewService(store *Storage, log *logger.Logger, metrics *Metrics) *Service {
	return &Service{
		store:   store,
		logger:  log,
		metrics: metrics,
		now:     time.Now,
	}
}

// Schedule resolves the descriptor and persists a new entry. On rejection
// (no time, past time, malformed descriptor) nothing is persisted and the
// rejection is returned as a value for the caller to render. A storage
// failure is an error too: the caller must never observe success for an
// entry that was not durably written.
func (s *Service) Schedule(chatID string, d timeparse.Descriptor, content string, kind Kind) (Entry, error) {
	dueAt, err := timeparse.Resolve(d, s.now())
	if err != nil {
		s.metrics.RecordRejection(rejectionReason(err))
		return Entry{}, err
	}

	return s.ScheduleAt(chatID, dueAt, content, kind)
}

// ScheduleAt persists an entry at an already-resolved instant. The
// confirmation flow resolves the descriptor once to show the user a
// concrete time; the instant persisted here is exactly that one, only
// re-checked to still be in the future.
func (s *Service) ScheduleAt(chatID string, dueAt time.Time, content string, kind Kind) (Entry, error) {
	now := s.now()

	if !dueAt.After(now) {
		s.metrics.RecordRejection(rejectionReason(timeparse.ErrInPast))
		return Entry{}, timeparse.ErrInPast
	}

	entry := Entry{
		ID:        uuid.NewString(),
		Kind:      kind,
		Content:   content,
		DueAt:     dueAt,
		CreatedAt: now,
	}

	if err := s.store.Add(chatID, entry); err != nil {
		return Entry{}, fmt.Errorf("failed to persist entry: %w", err)
	}

	s.metrics.RecordScheduled(kind)
	s.logger.Info("entry scheduled",
		logger.Field{Key: "chat_id", Value: chatID},
		logger.Field{Key: "entry_id", Value: entry.ID},
		logger.Field{Key: "kind", Value: kind},
		logger.Field{Key: "due_at", Value: dueAt})
	return entry, nil
}

// Cancel removes an entry. Cancelling an unknown or already-fired entry is
// not an error.
func (s *Service) Cancel(chatID, entryID string) error {
	if err := s.store.Remove(chatID, entryID); err != nil {
		return fmt.Errorf("failed to cancel entry: %w", err)
	}
	s.metrics.RecordCanceled()
	return nil
}

// List returns the conversation's pending entries in insertion order.
func (s *Service) List(chatID string) ([]Entry, error) {
	return s.store.List(chatID)
}

// rejectionReason maps a parse rejection to a metrics label.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, timeparse.ErrNoTimeSpecified):
		return "no_time"
	case errors.Is(err, timeparse.ErrInPast):
		return "in_past"
	case errors.Is(err, timeparse.ErrMalformedDescriptor):
		return "malformed"
	default:
		return "other"
	}
}
