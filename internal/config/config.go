package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Address           string   `yaml:"address" mapstructure:"address"`
	CORSOrigins       []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	ShutdownTimeoutMs int      `yaml:"shutdown_timeout_ms" mapstructure:"shutdown_timeout_ms"`
}

// DatasetConfig says where the nonprofit records come from.
type DatasetConfig struct {
	Source string `yaml:"source" mapstructure:"source"` // file | postgres
	Path   string `yaml:"path" mapstructure:"path"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
	Watch  bool   `yaml:"watch" mapstructure:"watch"`
}

// LLMConfig holds configuration for the OpenAI-compatible generation client.
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env" mapstructure:"api_key_env"`
	Model       string  `yaml:"model" mapstructure:"model"`
	TimeoutMs   int     `yaml:"timeout_ms" mapstructure:"timeout_ms"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	TopP        float64 `yaml:"top_p" mapstructure:"top_p"`
}

// RankingConfig sets how many records each ranking mode returns by default.
type RankingConfig struct {
	ImpactK   int `yaml:"impact_k" mapstructure:"impact_k"`
	SemanticK int `yaml:"semantic_k" mapstructure:"semantic_k"`
}

// RedisConfig contains connection details for the redis session backend.
type RedisConfig struct {
	Address  string `yaml:"address" mapstructure:"address"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

// SessionConfig selects and configures the conversation history store.
type SessionConfig struct {
	Type     string      `yaml:"type" mapstructure:"type"` // memory | redis
	TTLMs    int64       `yaml:"ttl_ms" mapstructure:"ttl_ms"`
	MaxTurns int         `yaml:"max_turns" mapstructure:"max_turns"`
	Redis    RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Dataset DatasetConfig `yaml:"dataset" mapstructure:"dataset"`
	LLM     LLMConfig     `yaml:"llm" mapstructure:"llm"`
	Ranking RankingConfig `yaml:"ranking" mapstructure:"ranking"`
	Session SessionConfig `yaml:"session" mapstructure:"session"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// Duration converts a millisecond setting to a time.Duration.
func Duration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// Timeout is the bound on a single generation call.
func (c LLMConfig) Timeout() time.Duration { return Duration(int64(c.TimeoutMs)) }

// ShutdownTimeout bounds graceful shutdown of the HTTP server.
func (c ServerConfig) ShutdownTimeout() time.Duration { return Duration(int64(c.ShutdownTimeoutMs)) }

// TTL is how long an idle conversation is retained.
func (c SessionConfig) TTL() time.Duration { return Duration(c.TTLMs) }

// EnvPrefix prefixes environment overrides, e.g. RAG_LLM_MODEL.
const EnvPrefix = "RAG"

// Load reads a config from a specified path. If the file does not exist, returns
// defaults. Environment variables override file values in both cases.
func Load(path string) (*AppConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v, defaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/houston-rag/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err != nil {
		if err := Save(userPath, defaultConfig()); err != nil {
			return nil, "", err
		}
	}
	cfg, err := Load(userPath)
	return cfg, userPath, err
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "houston-rag", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Address:           ":8000",
			CORSOrigins:       []string{"http://localhost:3000"},
			ShutdownTimeoutMs: 10000,
		},
		Dataset: DatasetConfig{
			Source: "file",
			Path:   "data/processed/houston_nonprofits_sample.json",
			Watch:  true,
		},
		LLM: LLMConfig{
			BaseURL:     "https://api.groq.com/openai/v1",
			APIKeyEnv:   "GROQ_API_KEY",
			Model:       "llama-3.3-70b-versatile",
			TimeoutMs:   30000,
			MaxTokens:   1000,
			Temperature: 0.7,
			TopP:        0.9,
		},
		Ranking: RankingConfig{ImpactK: 10, SemanticK: 5},
		Session: SessionConfig{
			Type:     "memory",
			TTLMs:    int64(24 * time.Hour / time.Millisecond),
			MaxTurns: 50,
			Redis:    RedisConfig{Address: "localhost:6379"},
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// setDefaults registers every key with viper so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d *AppConfig) {
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("server.shutdown_timeout_ms", d.Server.ShutdownTimeoutMs)

	v.SetDefault("dataset.source", d.Dataset.Source)
	v.SetDefault("dataset.path", d.Dataset.Path)
	v.SetDefault("dataset.dsn", d.Dataset.DSN)
	v.SetDefault("dataset.watch", d.Dataset.Watch)

	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.api_key_env", d.LLM.APIKeyEnv)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.timeout_ms", d.LLM.TimeoutMs)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("llm.top_p", d.LLM.TopP)

	v.SetDefault("ranking.impact_k", d.Ranking.ImpactK)
	v.SetDefault("ranking.semantic_k", d.Ranking.SemanticK)

	v.SetDefault("session.type", d.Session.Type)
	v.SetDefault("session.ttl_ms", d.Session.TTLMs)
	v.SetDefault("session.max_turns", d.Session.MaxTurns)
	v.SetDefault("session.redis.address", d.Session.Redis.Address)
	v.SetDefault("session.redis.password", d.Session.Redis.Password)
	v.SetDefault("session.redis.db", d.Session.Redis.DB)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// applyDefaults fills zero values a partial config file may leave behind.
func applyDefaults(cfg *AppConfig) {
	d := defaultConfig()
	if cfg.Server.Address == "" {
		cfg.Server.Address = d.Server.Address
	}
	if cfg.Server.ShutdownTimeoutMs <= 0 {
		cfg.Server.ShutdownTimeoutMs = d.Server.ShutdownTimeoutMs
	}
	if cfg.Dataset.Source == "" {
		cfg.Dataset.Source = d.Dataset.Source
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = d.LLM.BaseURL
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = d.LLM.APIKeyEnv
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = d.LLM.Model
	}
	if cfg.LLM.TimeoutMs <= 0 {
		cfg.LLM.TimeoutMs = d.LLM.TimeoutMs
	}
	if cfg.LLM.MaxTokens <= 0 {
		cfg.LLM.MaxTokens = d.LLM.MaxTokens
	}
	if cfg.Ranking.ImpactK <= 0 {
		cfg.Ranking.ImpactK = d.Ranking.ImpactK
	}
	if cfg.Ranking.SemanticK <= 0 {
		cfg.Ranking.SemanticK = d.Ranking.SemanticK
	}
	if cfg.Session.Type == "" {
		cfg.Session.Type = d.Session.Type
	}
	if cfg.Session.TTLMs <= 0 {
		cfg.Session.TTLMs = d.Session.TTLMs
	}
	if cfg.Session.MaxTurns <= 0 {
		cfg.Session.MaxTurns = d.Session.MaxTurns
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = d.Logging.Level
	}
}

func validate(cfg *AppConfig) error {
	switch cfg.Dataset.Source {
	case "file":
		if cfg.Dataset.Path == "" {
			return errors.New("dataset.path is required for file source")
		}
	case "postgres":
		if cfg.Dataset.DSN == "" {
			return errors.New("dataset.dsn is required for postgres source")
		}
	default:
		return fmt.Errorf("unknown dataset source: %s", cfg.Dataset.Source)
	}
	switch cfg.Session.Type {
	case "memory":
	case "redis":
		if cfg.Session.Redis.Address == "" {
			return errors.New("session.redis.address is required for redis sessions")
		}
	default:
		return fmt.Errorf("unknown session store: %s", cfg.Session.Type)
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.TopP < 0 || cfg.LLM.TopP > 1 {
		return fmt.Errorf("llm sampling out of range: temperature=%v top_p=%v", cfg.LLM.Temperature, cfg.LLM.TopP)
	}
	return nil
}
