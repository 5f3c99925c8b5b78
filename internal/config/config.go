// Package config provides hierarchical configuration loading for the Aura
// services. Precedence: defaults < YAML file < environment variables.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all runtime configuration for both Aura services.
type Config struct {
	Server   Server   `yaml:"server"`
	LLM      LLM      `yaml:"llm"`
	Search   Search   `yaml:"search"`
	Research Research `yaml:"research"`
	Breaker  Breaker  `yaml:"breaker"`
	Dataset  Dataset  `yaml:"dataset"`
	Logging  Logging  `yaml:"logging"`
}

// Server holds HTTP binding configuration. Port serves the research API,
// RecommendPort the similarity recommender.
type Server struct {
	Host          string `yaml:"host"`
	Port          string `yaml:"port"`
	RecommendPort string `yaml:"recommend_port"`
	CORSOrigin    string `yaml:"cors_origin"`
}

// LLM selects the completion provider and its credentials. Exactly one
// provider is active per process.
type LLM struct {
	Provider string        `yaml:"provider"` // "groq" | "gemini"
	Groq     ProviderCreds `yaml:"groq"`
	Gemini   ProviderCreds `yaml:"gemini"`
	Timeout  time.Duration `yaml:"timeout"`
}

// ProviderCreds holds one provider's credential, model and endpoint.
// BaseURL is only overridden in tests and self-hosted proxies.
type ProviderCreds struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// Search holds web search provider configuration.
type Search struct {
	BaseURL        string        `yaml:"base_url"`
	MaxResults     int           `yaml:"max_results"`
	CacheMaxSizeMB int64         `yaml:"cache_max_size_mb"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
}

// Research holds task lifecycle configuration.
type Research struct {
	TaskTimeout   time.Duration `yaml:"task_timeout"`
	MaxTaskAge    time.Duration `yaml:"max_task_age"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// Breaker holds circuit breaker configuration for external calls.
type Breaker struct {
	MaxFailures uint32        `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Dataset holds the similarity recommender's catalogue location.
type Dataset struct {
	Path string `yaml:"path"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// Defaults returns a Config with sensible default values for local
// development. API keys have no default: the loader rejects a config whose
// selected provider carries no credential.
func Defaults() Config {
	return Config{
		Server: Server{
			Host:          "0.0.0.0",
			Port:          "5001",
			RecommendPort: "5000",
			CORSOrigin:    "*",
		},
		LLM: LLM{
			Provider: "groq",
			Groq: ProviderCreds{
				Model: "llama-3.3-70b-versatile",
			},
			Gemini: ProviderCreds{
				Model: "gemini-2.0-flash",
			},
			Timeout: 60 * time.Second,
		},
		Search: Search{
			MaxResults:     8,
			CacheMaxSizeMB: 8,
			CacheTTL:       15 * time.Minute,
		},
		Research: Research{
			TaskTimeout:   5 * time.Minute,
			MaxTaskAge:    24 * time.Hour,
			SweepInterval: time.Hour,
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
		Dataset: Dataset{
			Path: "perfumeData.csv",
		},
		Logging: Logging{
			Level:   "info",
			Service: "aura",
		},
	}
}

// Active returns the credentials of the selected provider. Only valid after
// a successful Load.
func (l LLM) Active() ProviderCreds {
	if l.Provider == "gemini" {
		return l.Gemini
	}
	return l.Groq
}

// Validate checks that the selected provider is known and carries a
// credential. Called by services that make completion calls; a missing key
// should stop the process at startup, not surface per request.
func (l LLM) Validate() error {
	switch l.Provider {
	case "groq":
		if l.Groq.APIKey == "" {
			return errors.New("llm.groq.api_key is required (set GROQ_API_KEY)")
		}
	case "gemini":
		if l.Gemini.APIKey == "" {
			return errors.New("llm.gemini.api_key is required (set GEMINI_API_KEY)")
		}
	default:
		return fmt.Errorf("unknown llm.provider %q: use \"groq\" or \"gemini\"", l.Provider)
	}
	return nil
}
