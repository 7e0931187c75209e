// Package config loads the DineBot YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goldenspoon/dinebot/internal/domain/restaurant"
)

// Database drivers.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Phrase extraction providers.
const (
	PhrasesNone      = "none"
	PhrasesHeuristic = "heuristic"
	PhrasesOpenAI    = "openai"
)

// Config holds the DineBot service configuration.
type Config struct {
	HTTP       HTTPConfig      `yaml:"http"`
	Database   DatabaseConfig  `yaml:"database"`
	Storage    StorageConfig   `yaml:"storage"`
	Seed       SeedConfig      `yaml:"seed"`
	NLP        NLPConfig       `yaml:"nlp"`
	Restaurant restaurant.Info `yaml:"restaurant"`
	Responses  ResponsesConfig `yaml:"responses"`
	Logging    LoggingConfig   `yaml:"logging"`
	Tracing    TracingConfig   `yaml:"tracing"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// TracingConfig toggles the stdout span exporter.
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int             `yaml:"port"`
	ReadTimeoutSec  int             `yaml:"read_timeout_sec"`
	WriteTimeoutSec int             `yaml:"write_timeout_sec"`
	ShutdownSec     int             `yaml:"shutdown_timeout_sec"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig is the token bucket guarding /api/chat. RPS 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// DatabaseConfig holds menu store connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // memory, redis, postgres (default: memory)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	DSN              string   `yaml:"dsn"`
	MaxOpenConns     int      `yaml:"max_open_conns"`
	MaxIdleConns     int      `yaml:"max_idle_conns"`
	ConnMaxLifetime  int      `yaml:"conn_max_lifetime_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// SeedConfig controls loading the menu dataset into an empty store.
type SeedConfig struct {
	DataFile      string `yaml:"data_file"`
	ValidateVegan bool   `yaml:"validate_vegan"` // reject vegan items not flagged vegetarian
}

// NLPConfig holds matching thresholds and the phrase extractor.
type NLPConfig struct {
	SimilarityThreshold float64       `yaml:"similarity_threshold"`
	DetailConfidence    float64       `yaml:"detail_confidence"`
	Phrases             PhrasesConfig `yaml:"phrases"`
}

// PhrasesConfig selects and tunes the dish phrase extractor.
type PhrasesConfig struct {
	Provider    string       `yaml:"provider"` // none, heuristic, openai (default: heuristic)
	TimeoutMs   int          `yaml:"timeout_ms"`
	CacheTTLSec int          `yaml:"cache_ttl_sec"` // redis driver only; 0 disables
	OpenAI      OpenAIConfig `yaml:"openai"`
}

// OpenAIConfig holds OpenAI-compatible completion API settings.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// ResponsesConfig holds the bot persona and canned replies.
type ResponsesConfig struct {
	BotName   string   `yaml:"bot_name"`
	Fallbacks []string `yaml:"fallbacks"`
}

// Load reads configuration from a YAML file by environment name (local, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 5000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.RateLimit.RPS > 0 && c.HTTP.RateLimit.Burst <= 0 {
		c.HTTP.RateLimit.Burst = int(c.HTTP.RateLimit.RPS) + 1
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverMemory
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.ConnMaxLifetime <= 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "dinebot:"
	}
	if c.Seed.DataFile == "" {
		c.Seed.DataFile = "data/menu.json"
	}
	if c.NLP.SimilarityThreshold <= 0 {
		c.NLP.SimilarityThreshold = 0.65
	}
	if c.NLP.DetailConfidence <= 0 {
		c.NLP.DetailConfidence = 0.6
	}
	if c.NLP.Phrases.Provider == "" {
		c.NLP.Phrases.Provider = PhrasesHeuristic
	}
	if c.NLP.Phrases.TimeoutMs <= 0 {
		c.NLP.Phrases.TimeoutMs = 2000
	}
	if c.Responses.BotName == "" {
		c.Responses.BotName = "DineBot"
	}
	if c.Restaurant.Name == "" {
		c.Restaurant.Name = "The Golden Spoon"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.HTTP.RateLimit.RPS < 0 {
		return fmt.Errorf("http.rate_limit.rps must be non-negative, got %v", c.HTTP.RateLimit.RPS)
	}

	switch c.Database.Driver {
	case DriverMemory:
	case DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", c.Database.Driver)
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for driver %q", c.Database.Driver)
		}
	default:
		return fmt.Errorf("database.driver must be %q, %q or %q, got %q",
			DriverMemory, DriverRedis, DriverPostgres, c.Database.Driver)
	}

	if t := c.NLP.SimilarityThreshold; t > 1 {
		return fmt.Errorf("nlp.similarity_threshold must be within (0, 1], got %v", t)
	}
	if t := c.NLP.DetailConfidence; t > 1 {
		return fmt.Errorf("nlp.detail_confidence must be within (0, 1], got %v", t)
	}

	switch c.NLP.Phrases.Provider {
	case PhrasesNone, PhrasesHeuristic:
	case PhrasesOpenAI:
		if c.NLP.Phrases.OpenAI.APIKey == "" {
			return fmt.Errorf("nlp.phrases.openai.api_key is required for provider %q", PhrasesOpenAI)
		}
	default:
		return fmt.Errorf("nlp.phrases.provider must be %q, %q or %q, got %q",
			PhrasesNone, PhrasesHeuristic, PhrasesOpenAI, c.NLP.Phrases.Provider)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
