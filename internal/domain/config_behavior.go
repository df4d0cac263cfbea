package domain

import (
	"strings"
	"time"
)

// TTL parses session_ttl. Missing, malformed or non-positive values fall back
// to DefaultSessionTTL.
func (s ServerSettings) TTL() time.Duration {
	ttl, err := time.ParseDuration(strings.TrimSpace(s.SessionTTL))
	if err != nil || ttl <= 0 {
		return DefaultSessionTTL
	}
	return ttl
}

// RateLimited reports whether submissions go through the rate limiter.
func (s ServerSettings) RateLimited() bool {
	return s.SubmitRate > 0
}

// BackendFor returns the storage backend name used by the web front end, or
// by terminal commands when terminal is true.
func (s SessionSettings) BackendFor(terminal bool) string {
	name := s.Backend
	if terminal {
		name = s.CLIBackend
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return SessionBackendMemory
	}
	return name
}

// Uses reports whether either front end stores sessions in the named backend.
func (s SessionSettings) Uses(name string) bool {
	return s.BackendFor(false) == name || s.BackendFor(true) == name
}
