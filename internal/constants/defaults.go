package constants

// DefaultVersion is the default version of the application
const DefaultVersion = "0.1.0-dev"

// DefaultBuildTime is the default build time when not provided at build time
const DefaultBuildTime = "unknown"

// DefaultGitCommit is the default git commit hash when not provided at build time
const DefaultGitCommit = "unknown"

// DefaultGoVersion is the default Go version when not provided at build time
const DefaultGoVersion = "unknown"

// DefaultSweepIntervalSeconds is the default due-entry sweep interval
const DefaultSweepIntervalSeconds = 1

// DefaultDeliveryTimeoutSeconds is the default timeout for a single delivery attempt
const DefaultDeliveryTimeoutSeconds = 5

// DefaultHousekeepingSchedule is the default cron schedule for workspace pruning
const DefaultHousekeepingSchedule = "0 4 * * *"

// DefaultSendTimeoutSeconds is the default timeout for sending a channel message
const DefaultSendTimeoutSeconds = 10

// DefaultAnswerCallbackTimeoutSeconds is the default timeout for answering a callback query
const DefaultAnswerCallbackTimeoutSeconds = 5
