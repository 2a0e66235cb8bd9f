package constants

import "time"

const (
	ResponseCacheTTL = 5 * time.Second
)

const (
	ExternalAPITimeout = 30 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 45 * time.Second
)

const (
	LoginAttempts   = 3
	LoginRetryDelay = 1 * time.Second
)

const (
	DBMaxOpenConns    = 1
	DBMaxIdleConns    = 1
	DBConnMaxLifetime = 1 * time.Hour
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// upstream allows at most 10 keys per developer account
	MaxAPIKeys = 10

	FanOutLimit = 8
)
