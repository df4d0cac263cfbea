package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/medilogic/assets"
	"github.com/doeshing/medilogic/internal/domain"
	"github.com/doeshing/medilogic/internal/pkg/filesystem"
	"github.com/doeshing/medilogic/internal/ports"
)

// Environment variables that override values from the config file.
const (
	EnvConfigPath     = "MEDILOGIC_CONFIG"
	EnvBackendBaseURL = "MEDILOGIC_BACKEND_BASE_URL"
	EnvServerAddr     = "MEDILOGIC_ADDR"
	EnvSessionBackend = "MEDILOGIC_SESSION_BACKEND"
	EnvRedisAddr      = "MEDILOGIC_REDIS_ADDR"
	EnvRedisPassword  = "MEDILOGIC_REDIS_PASSWORD"
	EnvRedisDB        = "MEDILOGIC_REDIS_DB"
)

// FileLoader loads YAML configuration from ~/.medilogic/config.yaml (overridable via MEDILOGIC_CONFIG).
type FileLoader struct {
	overridePath string
	getenv       func(string) string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path, getenv: os.Getenv}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, err
		}
		if err := os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
			return domain.Config{}, fmt.Errorf("write default config: %w", err)
		}
		data = assets.DefaultConfigYAML
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return l.applyEnv(hydrateDefaults(cfg)), nil
}

// Path returns the resolved config file path.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := l.env(EnvConfigPath); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.AppDir(), "config.yaml")
}

func (l *FileLoader) env(key string) string {
	getenv := l.getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	return strings.TrimSpace(getenv(key))
}

func (l *FileLoader) applyEnv(cfg domain.Config) domain.Config {
	if v := l.env(EnvBackendBaseURL); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := l.env(EnvServerAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := l.env(EnvSessionBackend); v != "" {
		cfg.Session.Backend = strings.ToLower(v)
	}
	if v := l.env(EnvRedisAddr); v != "" {
		cfg.Session.RedisAddr = v
	}
	if v := l.env(EnvRedisPassword); v != "" {
		cfg.Session.RedisPassword = v
	}
	if v := l.env(EnvRedisDB); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Session.RedisDB = db
		}
	}
	return cfg
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

// DefaultConfig exposes the bootstrap configuration.
func DefaultConfig() domain.Config {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		cfg = domain.Config{}
	}
	return hydrateDefaults(cfg)
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = domain.DefaultBackendBaseURL
	}
	if len(cfg.Vocabulary.Symptoms) == 0 || len(cfg.Vocabulary.Severities) == 0 {
		def := domain.DefaultVocabulary()
		if len(cfg.Vocabulary.Symptoms) == 0 {
			cfg.Vocabulary.Symptoms = def.Symptoms
		}
		if len(cfg.Vocabulary.Severities) == 0 {
			cfg.Vocabulary.Severities = def.Severities
		}
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = domain.DefaultServerAddr
	}
	if cfg.Server.SessionTTL == "" {
		cfg.Server.SessionTTL = domain.DefaultSessionTTL.String()
	}
	if cfg.Server.SubmitRate <= 0 {
		cfg.Server.SubmitRate = domain.DefaultSubmitRate
	}
	if cfg.Server.SubmitBurst <= 0 {
		cfg.Server.SubmitBurst = domain.DefaultSubmitBurst
	}
	if cfg.Session.Backend == "" {
		cfg.Session.Backend = domain.SessionBackendMemory
	}
	if cfg.Session.CLIBackend == "" {
		cfg.Session.CLIBackend = domain.SessionBackendSQLite
	}
	if cfg.Session.SQLitePath == "" {
		cfg.Session.SQLitePath = filepath.Join(filesystem.AppDir(), "sessions.db")
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
