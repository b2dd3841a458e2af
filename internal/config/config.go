// Package config loads the assistant configuration from a TOML file,
// falling back to coded defaults when the file is absent.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultConfigPath      = "config.toml"
	DefaultHTTPAddr        = ":8080"
	DefaultJWTExpiresIn    = "24h"
	DefaultChatModel       = "gpt-4o-mini"
	DefaultEmbeddingModel  = "text-embedding-3-large"
	DefaultMaxToolCycles   = 8
	DefaultThinkingDelayMs = 300
	DefaultTokenDelayMs    = 20
	DefaultLLMTimeoutSecs  = 120
)

type Config struct {
	Log    LogConfig    `toml:"log"`
	Server ServerConfig `toml:"server"`
	Admin  AdminConfig  `toml:"admin"`
	Auth   AuthConfig   `toml:"auth"`
	LLM    LLMConfig    `toml:"llm"`
	Chat   ChatConfig   `toml:"chat"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format" validate:"omitempty,oneof=text json"`
}

type ServerConfig struct {
	Addr string `toml:"addr" validate:"required"`
}

// AdminConfig holds the single operator credential used by the auth
// collaborator endpoints. PasswordHash is a bcrypt hash.
type AdminConfig struct {
	Username     string `toml:"username"`
	PasswordHash string `toml:"password_hash"`
}

type AuthConfig struct {
	JWTSecret    string `toml:"jwt_secret"`
	JWTExpiresIn string `toml:"jwt_expires_in"`
}

// ExpiresIn parses the configured token lifetime.
func (c AuthConfig) ExpiresIn() time.Duration {
	d, err := time.ParseDuration(c.JWTExpiresIn)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultJWTExpiresIn)
	}
	return d
}

// LLMConfig configures the shared model provider client. When Azure is true
// the client speaks the Azure OpenAI dialect against BaseURL.
type LLMConfig struct {
	BaseURL        string `toml:"base_url" validate:"omitempty,url"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model" validate:"required"`
	EmbeddingModel string `toml:"embedding_model"`
	Azure          bool   `toml:"azure"`
	APIVersion     string `toml:"api_version"`
	TimeoutSeconds int    `toml:"timeout_seconds" validate:"gte=0"`
}

// Timeout returns the request timeout for non-streaming model calls.
func (c LLMConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultLLMTimeoutSecs * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ChatConfig tunes the streaming pipeline.
type ChatConfig struct {
	// MaxToolCycles caps agent⇄tools round trips; exceeding it fails the
	// request instead of looping.
	MaxToolCycles int `toml:"max_tool_cycles" validate:"gte=1"`
	// ThinkingDelayMs paces the scripted thinking steps.
	ThinkingDelayMs int `toml:"thinking_delay_ms" validate:"gte=0"`
	// TokenDelayMs paces answer token flushes.
	TokenDelayMs int `toml:"token_delay_ms" validate:"gte=0"`
}

func (c ChatConfig) ThinkingDelay() time.Duration {
	return time.Duration(c.ThinkingDelayMs) * time.Millisecond
}

func (c ChatConfig) TokenDelay() time.Duration {
	return time.Duration(c.TokenDelayMs) * time.Millisecond
}

func defaults() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Auth: AuthConfig{
			JWTExpiresIn: DefaultJWTExpiresIn,
		},
		LLM: LLMConfig{
			Model:          DefaultChatModel,
			EmbeddingModel: DefaultEmbeddingModel,
			TimeoutSeconds: DefaultLLMTimeoutSecs,
		},
		Chat: ChatConfig{
			MaxToolCycles:   DefaultMaxToolCycles,
			ThinkingDelayMs: DefaultThinkingDelayMs,
			TokenDelayMs:    DefaultTokenDelayMs,
		},
	}
}

// Load reads the config file at path, or returns defaults when it does not
// exist. The result is validated before being returned.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return cfg, err
		}
	} else if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
