package doctor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/medilogic/internal/domain"
	"github.com/doeshing/medilogic/internal/infrastructure/session"
	"github.com/doeshing/medilogic/internal/ports"
)

type stubProvider struct {
	cfg domain.Config
	err error
}

func (s stubProvider) Load(context.Context) (domain.Config, error) {
	return s.cfg, s.err
}

type proberFunc func(context.Context) error

func (f proberFunc) Health(ctx context.Context) error {
	return f(ctx)
}

func testConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Backend:             domain.BackendSettings{BaseURL: "http://localhost:8080"},
		Vocabulary:          domain.DefaultVocabulary(),
		Server:              domain.ServerSettings{SessionTTL: "30m"},
	}
}

func statuses(report domain.HealthReport) map[string]domain.HealthStatus {
	out := make(map[string]domain.HealthStatus, len(report.Checks))
	for _, check := range report.Checks {
		out[check.Name] = check.Status
	}
	return out
}

func TestRunAllHealthy(t *testing.T) {
	svc := &Service{
		ConfigProvider: stubProvider{cfg: testConfig()},
		Backend:        proberFunc(func(context.Context) error { return nil }),
		OpenSessions: func(context.Context, domain.Config) (ports.SessionBackend, error) {
			return session.NewMemoryBackend(time.Minute), nil
		},
	}
	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := map[string]domain.HealthStatus{
		"Config file":     domain.HealthOK,
		"Config values":   domain.HealthOK,
		"Rule engine":     domain.HealthOK,
		"Session storage": domain.HealthOK,
	}
	if diff := cmp.Diff(want, statuses(report)); diff != "" {
		t.Fatalf("statuses mismatch (-want +got):\n%s", diff)
	}
	if report.Failed() {
		t.Fatal("report should not fail")
	}
}

func TestRunReportsFailures(t *testing.T) {
	cfg := testConfig()
	cfg.Vocabulary.Symptoms = nil
	svc := &Service{
		ConfigProvider: stubProvider{cfg: cfg},
		Backend:        proberFunc(func(context.Context) error { return errors.New("connection refused") }),
		OpenSessions: func(context.Context, domain.Config) (ports.SessionBackend, error) {
			return nil, errors.New("redis down")
		},
	}
	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := map[string]domain.HealthStatus{
		"Config file":     domain.HealthOK,
		"Config values":   domain.HealthError,
		"Rule engine":     domain.HealthError,
		"Session storage": domain.HealthError,
	}
	if diff := cmp.Diff(want, statuses(report)); diff != "" {
		t.Fatalf("statuses mismatch (-want +got):\n%s", diff)
	}
	if !report.Failed() {
		t.Fatal("report should fail")
	}
}

func TestRunWithoutProbes(t *testing.T) {
	svc := &Service{ConfigProvider: stubProvider{cfg: testConfig()}}
	report, _ := svc.Run(context.Background())
	got := statuses(report)
	if got["Rule engine"] != domain.HealthWarn || got["Session storage"] != domain.HealthWarn {
		t.Fatalf("statuses = %v", got)
	}
}

func TestRunStopsWhenConfigFails(t *testing.T) {
	svc := &Service{ConfigProvider: stubProvider{err: errors.New("permission denied")}}
	report, err := svc.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(report.Checks) != 1 || report.Checks[0].Status != domain.HealthError {
		t.Fatalf("checks = %+v", report.Checks)
	}
}
