package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "aura.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// The YAML file is optional; a missing file is not an error. Validation
// failures are fatal by design: a misconfigured provider should stop the
// process at startup, not surface per request.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Host, "AURA_HOST")
	setString(&cfg.Server.Port, "AURA_PORT")
	setString(&cfg.Server.RecommendPort, "AURA_RECOMMEND_PORT")
	setString(&cfg.Server.CORSOrigin, "AURA_CORS_ORIGIN")

	setString(&cfg.LLM.Provider, "AURA_LLM_PROVIDER")
	setString(&cfg.LLM.Groq.APIKey, "GROQ_API_KEY")
	setString(&cfg.LLM.Groq.Model, "GROQ_MODEL")
	setString(&cfg.LLM.Groq.BaseURL, "GROQ_BASE_URL")
	setString(&cfg.LLM.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&cfg.LLM.Gemini.Model, "GEMINI_MODEL")
	setString(&cfg.LLM.Gemini.BaseURL, "GEMINI_BASE_URL")
	setDuration(&cfg.LLM.Timeout, "AURA_LLM_TIMEOUT")

	setString(&cfg.Search.BaseURL, "AURA_SEARCH_BASE_URL")
	setInt(&cfg.Search.MaxResults, "AURA_SEARCH_MAX_RESULTS")
	setInt64(&cfg.Search.CacheMaxSizeMB, "AURA_SEARCH_CACHE_SIZE_MB")
	setDuration(&cfg.Search.CacheTTL, "AURA_SEARCH_CACHE_TTL")

	setDuration(&cfg.Research.TaskTimeout, "AURA_TASK_TIMEOUT")
	setDuration(&cfg.Research.MaxTaskAge, "AURA_MAX_TASK_AGE")
	setDuration(&cfg.Research.SweepInterval, "AURA_SWEEP_INTERVAL")

	setUint32(&cfg.Breaker.MaxFailures, "AURA_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "AURA_BREAKER_TIMEOUT")

	setString(&cfg.Dataset.Path, "AURA_DATASET_PATH")

	setString(&cfg.Logging.Level, "AURA_LOG_LEVEL")
	setString(&cfg.Logging.Service, "AURA_LOG_SERVICE")
}

// validate checks the structural fields every service needs. Provider
// credentials are checked separately via LLM.Validate, because only the
// research service talks to a completion provider.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Search.MaxResults < 1 {
		return errors.New("search.max_results must be >= 1")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setUint32(dst *uint32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			*dst = uint32(n)
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
