package constants

// CommandStart is the command that greets a new user.
const CommandStart = "start"

// CommandReminders is the command that lists the pending reminders and timers.
const CommandReminders = "reminders"

// CommandDelete is the command that starts the delete-reminder flow.
const CommandDelete = "delete"

// CommandUsername is the command that sets the user's name.
const CommandUsername = "username"

// CommandInitPrompt is the command that sets the user's initialization prompt.
const CommandInitPrompt = "init_prompt"

// CommandShowInit is the command that shows the current initialization prompt.
const CommandShowInit = "show_init"

// CommandVoice is the command that sets the voice preference.
const CommandVoice = "voice_preference"
