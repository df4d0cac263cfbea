package domain

// Config mirrors ~/.medilogic/config.yaml.
type Config struct {
	ConfigFormatVersion string          `yaml:"config_format_version"`
	Backend             BackendSettings `yaml:"backend"`
	Vocabulary          Vocabulary      `yaml:"vocabulary"`
	Server              ServerSettings  `yaml:"server"`
	Session             SessionSettings `yaml:"session"`
}

// BackendSettings points at the remote rule engine.
type BackendSettings struct {
	BaseURL string `yaml:"base_url"`
}

// ServerSettings configures `medilogic serve`.
type ServerSettings struct {
	Addr        string `yaml:"addr"`
	SessionTTL  string `yaml:"session_ttl"`
	SubmitRate  int    `yaml:"submit_rate"`
	SubmitBurst int    `yaml:"submit_burst"`
}

// SessionSettings selects and configures session-scoped storage.
type SessionSettings struct {
	Backend       string `yaml:"backend"`
	CLIBackend    string `yaml:"cli_backend"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	SQLitePath    string `yaml:"sqlite_path"`
}
