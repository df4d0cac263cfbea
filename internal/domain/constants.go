package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Backend wire constants
const (
	// DefaultBackendBaseURL is the rule engine origin used when nothing overrides it
	DefaultBackendBaseURL = "http://localhost:8080"
	// AnalyzePath is appended to the base URL for analysis requests
	AnalyzePath = "/analyze"
	// HealthPath is the backend liveness probe
	HealthPath = "/health"
)

// Affinity bounds
const (
	MinAffinity = 0
	MaxAffinity = 100
)

// Row defaults applied when the backend omits a field
const (
	DefaultMedication = "none"
	DefaultUrgency    = "assessment recommended"
	DefaultSeverity   = "leve"
)

// History constants
const (
	// HistoryLimit is the maximum number of entries kept per session
	HistoryLimit = 10
	// HistoryStorageKey is the session storage key holding the JSON history
	HistoryStorageKey = "medilogic.history"
)

// Session and server constants
const (
	// DefaultServerAddr is where `medilogic serve` listens
	DefaultServerAddr = ":8090"
	// DefaultSessionTTL is the idle lifetime of a session
	DefaultSessionTTL = 30 * time.Minute
	// DefaultSubmitRate is the per-process submission rate (per second)
	DefaultSubmitRate = 5
	// DefaultSubmitBurst is the limiter burst size
	DefaultSubmitBurst = 10
	// DefaultCLISession names the history scope used by terminal commands
	DefaultCLISession = "cli"
)

// Session storage backends
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
	SessionBackendSQLite = "sqlite"
)

// User-facing messages
const (
	MsgNoSymptomsSelected = "no symptoms selected"
	MsgNoMatches          = "No matches were found for the current rules."
	MsgAnalyzing          = "Analyzing..."
	ReportSource          = "MediLogic rule engine"
	ReportDisclaimer      = "Informational output of an automated rule engine. It is not a medical diagnosis; consult a health professional."
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
