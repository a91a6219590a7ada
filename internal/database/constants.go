package database

import "time"

// Connection pool defaults.
const (
	DefaultMinConnections       = 2
	DefaultMaxConnections       = 25
	DefaultMaxConnIdleTime      = 5 * time.Minute
	DefaultMaxConnLifetime      = 30 * time.Minute
	DefaultMigrationLockTimeout = 30 * time.Second
)

// Error messages for database operations.
const (
	ErrMsgFailedToParseConnString     = "failed to parse connection string"
	ErrMsgFailedToCreatePool          = "failed to create connection pool"
	ErrMsgFailedToPingDatabase        = "failed to ping database"
	ErrMsgFailedToBeginTransaction    = "failed to begin transaction"
	ErrMsgFailedToRollbackTransaction = "Failed to rollback transaction"
	ErrMsgFailedToOpenMigrationConn   = "failed to open migration connection"
	ErrMsgFailedToRunMigrations       = "failed to run migrations"
)

// Log messages.
const (
	LogMsgSuccessfullyConnectedToDatabase = "Successfully connected to the database"
	LogMsgMigrationsApplied               = "Database migrations applied"
)
