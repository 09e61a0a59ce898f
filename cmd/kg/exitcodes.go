package main

// Exit codes shared by every command.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (no knowledge base, bad config file, unreachable service)
	ExitDataError   = 3 // Data error (unreadable knowledge base, unknown concept, check --strict issues)
)
