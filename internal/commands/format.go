package commands

import (
	"fmt"
	"time"

	"github.com/lmoroni/cactusbot/internal/reminder"
)

// entryListFormat is the date layout of the /reminders listing and the
// delete buttons.
const entryListFormat = "02/01/2006 15:04"

// FormatConfirmation renders the Yes/No confirmation question for a
// proposed reminder, e.g. "Water the plants. For 15 January at 18:00.
// Is this correct?".
func FormatConfirmation(content string, dueAt time.Time) string {
	return fmt.Sprintf("%s. For %d %s at %s. Is this correct?",
		content, dueAt.Day(), dueAt.Month(), dueAt.Format("15:04"))
}

// entryLabel names an entry in listings. Bare timers have no content.
func entryLabel(e reminder.Entry) string {
	if e.Content == "" {
		return "Timer"
	}
	return e.Content
}

// entryLine is one row of the /reminders listing.
func entryLine(e reminder.Entry) string {
	return fmt.Sprintf("\n- %s - %s", entryLabel(e), e.DueAt.Format(entryListFormat))
}

// entryButtonText is the label of a delete button.
func entryButtonText(e reminder.Entry) string {
	return fmt.Sprintf("%s %s", entryLabel(e), e.DueAt.Format(entryListFormat))
}
