package constants

import "time"

// Endpoint defaults
const (
	DefaultBaseURL           = "http://127.0.0.1:5000"
	DefaultDirectoryEndpoint = "/api/social-media"
	DefaultFormEndpoint      = "/api/form"
	DefaultServerAddr        = "127.0.0.1:5000"
	SearchQueryParam         = "search"
)

// Client defaults
const (
	DefaultClientTimeout = 10 * time.Second
	DefaultUserAgent     = "frontc"
	ContentTypeJSON      = "application/json"
)

// Database Constants
const (
	DefaultPostgresPort    = 5432
	DefaultPostgresSSLMode = "disable"

	DefaultPostgresMaxConnections = 25
	DefaultPostgresMaxIdleConns   = 5
	DefaultSQLiteMaxConnections   = 1 // SQLite allows only one writer
	DefaultSQLiteMaxIdleConns     = 1

	DefaultMaxConnLifetime = 5 * time.Minute
	DefaultMaxIdleTime     = 1 * time.Minute
	DefaultSQLiteLifetime  = 10 * time.Minute
	DefaultSQLiteIdleTime  = 5 * time.Minute

	DefaultSQLitePath    = "frontc.db"
	DefaultContactsTable = "users"
	SQLiteBusyTimeoutMS  = 5000
)

// Server defaults
const (
	DefaultShutdownTimeout = 5 * time.Second
	DefaultReadTimeout     = 60 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultJWTClockSkew    = 30 * time.Second
	DefaultJWTTTL          = 5 * time.Minute
	DefaultMetricsPath     = "/metrics"
)
