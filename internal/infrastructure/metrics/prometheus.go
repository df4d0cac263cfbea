package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doeshing/medilogic/internal/ports"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medilogic_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medilogic_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// Intake metrics
	analysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medilogic_analyses_total",
			Help: "Analysis submissions by outcome",
		},
		[]string{"outcome"},
	)

	analysisErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medilogic_analysis_errors_total",
			Help: "Failed analyses by error kind (network, transport, parse)",
		},
		[]string{"kind"},
	)

	analysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "medilogic_analysis_duration_seconds",
			Help:    "Round trip time of analysis requests",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	historyPersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "medilogic_history_persist_failures_total",
			Help: "History writes that failed and were skipped",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware creates HTTP metrics middleware. pathLabel maps a request to a
// low-cardinality route label.
func Middleware(pathLabel func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			path := pathLabel(r)
			httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
			httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Recorder implements ports.Telemetry on the package collectors.
type Recorder struct{}

// NewRecorder returns a Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (Recorder) ObserveAnalysis(outcome string, elapsed time.Duration) {
	analysesTotal.WithLabelValues(outcome).Inc()
	analysisDuration.Observe(elapsed.Seconds())
}

func (Recorder) AnalysisError(kind string) {
	analysisErrors.WithLabelValues(kind).Inc()
}

func (Recorder) PersistFailure() {
	historyPersistFailures.Inc()
}

var _ ports.Telemetry = Recorder{}
