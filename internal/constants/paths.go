package constants

// DefaultEnvPath is the default path to the .env file
const DefaultEnvPath = "./.env"

// DefaultConfigPath is the default path to the config.toml file
const DefaultConfigPath = "./config.toml"

// RemindersSubdirectory is the workspace subdirectory holding reminder files
const RemindersSubdirectory = "reminders"

// PrefsSubdirectory is the workspace subdirectory holding user preference files
const PrefsSubdirectory = "prefs"

// PersonaSubdirectory is the workspace subdirectory holding persona files
const PersonaSubdirectory = "personas"
