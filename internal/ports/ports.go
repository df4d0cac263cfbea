// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The intake controller in internal/application depends only on these
// contracts. Concrete adapters live under internal/infrastructure: the HTTP
// analysis client, the HTML renderer, session storage backends, and the web
// and terminal front ends that provide the UI surfaces.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., AnalysisClient, SessionStorage)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"time"

	"github.com/doeshing/medilogic/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.medilogic/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// AnalysisClient submits a payload to the remote rule engine.
// Errors are *domain.NetworkError, *domain.TransportError or *domain.ParseError.
type AnalysisClient interface {
	Analyze(ctx context.Context, req domain.AnalysisRequest) ([]domain.AnalysisResultRow, error)
}

// HealthProber checks that the rule engine is reachable.
type HealthProber interface {
	Health(ctx context.Context) error
}

// ResultRenderer turns rows into a report fragment.
type ResultRenderer interface {
	Render(rows []domain.AnalysisResultRow) (domain.Fragment, error)
	RenderEmpty() domain.Fragment
}

// HistoryRepository keeps the bounded, newest-first analysis history of one session.
// List and Get never fail: unreadable data is treated as empty.
type HistoryRepository interface {
	Save(ctx context.Context, input domain.AnalysisRequest, output []domain.AnalysisResultRow) error
	List(ctx context.Context) []domain.HistoryEntry
	Get(ctx context.Context, index int) (domain.HistoryEntry, bool)
	Clear(ctx context.Context) error
}

// SessionStorage is a key/value store scoped to a single session.
// GetItem returns nil, nil when the key is not set.
type SessionStorage interface {
	GetItem(ctx context.Context, key string) ([]byte, error)
	SetItem(ctx context.Context, key string, value []byte) error
	RemoveItem(ctx context.Context, key string) error
}

// SessionBackend hands out storage for individual sessions.
type SessionBackend interface {
	Name() string
	Open(sessionID string) SessionStorage
	Ping(ctx context.Context) error
	Close() error
}

// FormSurface is the intake form as seen by the controller.
type FormSurface interface {
	ReadForm() domain.FormState
	WriteForm(domain.FormState)
}

// ResultSurface is the result area of the page or terminal.
type ResultSurface interface {
	ShowAnalyzing()
	ShowValidation(message string)
	ShowError(message string)
	ShowFragment(domain.Fragment)
	Reset()
}

// HistoryPanel lists past analyses and can be shown or hidden.
type HistoryPanel interface {
	ShowEntries([]domain.HistoryEntry)
	SetVisible(bool)
	Visible() bool
}

// Telemetry records analysis outcomes. Implementations must be safe for concurrent use.
type Telemetry interface {
	ObserveAnalysis(outcome string, elapsed time.Duration)
	AnalysisError(kind string)
	PersistFailure()
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
