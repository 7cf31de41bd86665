package constants

// User-facing messages sent through the chat channel.

// Greeting and onboarding messages
const (
	// MsgGreeting is the reply to /start.
	MsgGreeting = "Hi! I am your smart cactus! How can I help you?"

	// MsgAskUsername asks the user for their name.
	MsgAskUsername = "What is your name?"

	// MsgAskInitPrompt asks the user for a new initialization prompt.
	MsgAskInitPrompt = "Send me the initialization prompt you want me to follow."

	// MsgInitPromptSaved confirms that the initialization prompt was stored.
	MsgInitPromptSaved = "Got it! I will keep that in mind from now on."

	// MsgNoInitPrompt is shown when no initialization prompt is set.
	MsgNoInitPrompt = "You did not set an initialization prompt. You can do so with the command /init_prompt"

	// MsgShowInitFormat wraps the current initialization prompt.
	MsgShowInitFormat = "Your current initialization prompt is:\n\n%s\n\nIs there something else I can do for you?"

	// MsgUsernameSavedFormat confirms the stored username.
	MsgUsernameSavedFormat = "Thanks %s! I will remember your name."
)

// Reminder flow messages
const (
	// MsgReminderConfirmed is sent after the user confirms a reminder.
	MsgReminderConfirmed = "Reminder confirmed! ✅"

	// MsgReminderCanceled is sent when the user declines the confirmation.
	MsgReminderCanceled = "Reminder canceled. ❌\n\nHow can I help you?"

	// MsgReminderDeleted is sent after a reminder is removed.
	MsgReminderDeleted = "Reminder deleted. 🗑️"

	// MsgNoReminders is shown when the user has no pending entries.
	MsgNoReminders = "You have no reminders"

	// MsgRemindersHeader is the header of the reminder listing.
	MsgRemindersHeader = "Here are your reminders:\n"

	// MsgWhichDelete asks the user which entry to delete.
	MsgWhichDelete = "Which reminder do you want to delete?"

	// MsgReminderFiredFormat is the delivery message for a due reminder.
	MsgReminderFiredFormat = "⏰ Reminder: %s"

	// MsgTimerFired is the delivery message for a due bare timer.
	MsgTimerFired = "⏰ Time's up!"

	// MsgTimeInPast is sent when the resolved instant is not in the future.
	MsgTimeInPast = "Sorry, you can't set a reminder in the past, is there anything else I can do for you?"

	// MsgTimeUnclear is sent when no time could be determined from the request.
	MsgTimeUnclear = "Sorry, I did not understand, can you rephrase the request clarifying the date and/or time?"

	// MsgScheduleFailed is sent when persisting a confirmed reminder fails.
	MsgScheduleFailed = "Sorry, something went wrong while saving your reminder. Please try again."

	// MsgTimerSet confirms a scheduled timer.
	MsgTimerSet = "Timer set! ⏱️"
)

// Chat fallback messages
const (
	// MsgLLMUnavailable is sent when the language model cannot be reached.
	MsgLLMUnavailable = "Sorry, I can't think straight right now. Please try again in a moment."
)

// Settings messages
const (
	// MsgWhichVoice asks the user for a voice preference.
	MsgWhichVoice = "Which one do you prefer?"

	// MsgVoiceSaved confirms the stored voice preference.
	MsgVoiceSaved = "Voice preference set! 🗣️"
)

// CLI messages
const (
	// MsgConfigLoadError is printed when configuration loading fails.
	MsgConfigLoadError = "❌ Failed to load configuration: %v\n"

	// MsgConfigValidationError is printed when configuration validation fails.
	MsgConfigValidationError = "❌ Configuration validation failed:\n"

	// MsgConfigValid is printed when the configuration is valid.
	MsgConfigValid = "✅ Configuration loaded"

	// MsgConfigValidatePrefix is the per-error prefix for validation output.
	MsgConfigValidatePrefix = "  - %v\n"
)
