package main

// Exit codes.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (bad environment, invalid paths)
	ExitDataError   = 3 // Data error (processing or validation failure)
	ExitNotFound    = 4 // Document not found in store
	ExitIndexError  = 5 // Semantic index missing or embedding service unavailable
)
