package doctor

import (
	"context"
	"fmt"
	"time"

	appconfig "github.com/doeshing/medilogic/internal/application/config"
	"github.com/doeshing/medilogic/internal/domain"
	"github.com/doeshing/medilogic/internal/ports"
)

const probeTimeout = 5 * time.Second

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Backend        ports.HealthProber
	// OpenSessions opens the configured session backend; nil skips the check.
	OpenSessions func(context.Context, domain.Config) (ports.SessionBackend, error)
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("loaded format %s", cfg.ConfigFormatVersion)))

	if err := appconfig.Validate(cfg); err != nil {
		checks = append(checks, fail("Config values", err.Error()))
	} else {
		checks = append(checks, ok("Config values", fmt.Sprintf("%d symptoms, %d severities",
			len(cfg.Vocabulary.Symptoms), len(cfg.Vocabulary.Severities))))
	}

	checks = append(checks, s.backendCheck(ctx, cfg))
	checks = append(checks, s.sessionCheck(ctx, cfg))

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) backendCheck(ctx context.Context, cfg domain.Config) domain.HealthCheck {
	if s.Backend == nil {
		return warn("Rule engine", "no client configured")
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if err := s.Backend.Health(ctx); err != nil {
		return fail("Rule engine", fmt.Sprintf("%s: %v", cfg.Backend.BaseURL, err))
	}
	return ok("Rule engine", fmt.Sprintf("%s reachable", cfg.Backend.BaseURL))
}

func (s *Service) sessionCheck(ctx context.Context, cfg domain.Config) domain.HealthCheck {
	if s.OpenSessions == nil {
		return warn("Session storage", "not checked")
	}
	backend, err := s.OpenSessions(ctx, cfg)
	if err != nil {
		return fail("Session storage", err.Error())
	}
	defer backend.Close()

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if err := backend.Ping(ctx); err != nil {
		return fail("Session storage", fmt.Sprintf("%s: %v", backend.Name(), err))
	}
	return ok("Session storage", fmt.Sprintf("%s ready", backend.Name()))
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
