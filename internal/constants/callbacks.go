package constants

// Inline keyboard callback payloads.

// CallbackConfirmYes confirms a proposed reminder.
const CallbackConfirmYes = "confirm_reminder_yes"

// CallbackConfirmNo declines a proposed reminder.
const CallbackConfirmNo = "confirm_reminder_no"

// CallbackDeletePrefix prefixes the entry id on delete buttons.
const CallbackDeletePrefix = "delete_reminder_"

// CallbackVoicePrefix prefixes the <language>-<voice> pair on voice buttons.
const CallbackVoicePrefix = "set_voice_preference_"
