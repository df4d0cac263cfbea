package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/doeshing/medilogic/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := validateBackend(cfg.Backend); err != nil {
		return err
	}
	if err := validateVocabulary(cfg.Vocabulary); err != nil {
		return err
	}
	if err := validateServer(cfg.Server); err != nil {
		return err
	}
	return validateSession(cfg.Session)
}

func validateBackend(backend domain.BackendSettings) error {
	if backend.BaseURL == "" {
		return errors.New("backend.base_url must be set")
	}
	u, err := url.Parse(backend.BaseURL)
	if err != nil {
		return fmt.Errorf("backend.base_url invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend.base_url must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("backend.base_url has no host: %s", backend.BaseURL)
	}
	return nil
}

func validateVocabulary(vocab domain.Vocabulary) error {
	if len(vocab.Symptoms) == 0 {
		return errors.New("vocabulary.symptoms must not be empty")
	}
	if len(vocab.Severities) == 0 {
		return errors.New("vocabulary.severities must not be empty")
	}
	seen := make(map[string]bool, len(vocab.Symptoms))
	for _, name := range vocab.Symptoms {
		name = strings.TrimSpace(name)
		if name == "" {
			return errors.New("vocabulary.symptoms contains an empty name")
		}
		if seen[name] {
			return fmt.Errorf("vocabulary.symptoms lists %s twice", name)
		}
		seen[name] = true
	}
	return nil
}

func validateServer(server domain.ServerSettings) error {
	if server.SessionTTL != "" {
		if ttl, err := time.ParseDuration(server.SessionTTL); err != nil {
			return fmt.Errorf("server.session_ttl invalid: %w", err)
		} else if ttl <= 0 {
			return fmt.Errorf("server.session_ttl must be > 0")
		}
	}
	if server.SubmitRate < 0 {
		return fmt.Errorf("server.submit_rate must be >= 0")
	}
	if server.SubmitBurst < 0 {
		return fmt.Errorf("server.submit_burst must be >= 0")
	}
	return nil
}

func validateSession(session domain.SessionSettings) error {
	backends := []struct{ field, name string }{
		{"session.backend", session.Backend},
		{"session.cli_backend", session.CLIBackend},
	}
	for _, b := range backends {
		field, name := b.field, b.name
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "", domain.SessionBackendMemory, domain.SessionBackendSQLite, domain.SessionBackendRedis:
		default:
			return fmt.Errorf("%s must be memory|redis|sqlite, got %s", field, name)
		}
	}
	if session.Uses(domain.SessionBackendRedis) && session.RedisAddr == "" {
		return errors.New("session.redis_addr must be set when redis is used")
	}
	if session.RedisDB < 0 {
		return fmt.Errorf("session.redis_db must be >= 0")
	}
	return nil
}
