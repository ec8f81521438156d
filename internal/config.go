// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/raido/internal/llm"
	"github.com/starford/raido/internal/models"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Vault   VaultConfig       `yaml:"vault"`
	Review  ReviewConfig      `yaml:"review"`
	LLM     LLMConfig         `yaml:"llm"`
	History HistoryConfig     `yaml:"history"`
	Auth    AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.Review.Validate(); err != nil {
		return err
	}
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration for serve mode.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// VaultConfig holds the path to the Markdown vault directory.
type VaultConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// ReviewConfig controls what gets scanned and where reviews land.
//
// Folders lists the vault folders in scope (empty means the whole
// vault). Preset picks the review period; CustomStart/CustomEnd are
// ISO dates used only with the "custom" preset and validated when the
// period is resolved.
type ReviewConfig struct {
	Folders         []string `yaml:"folders"`
	OutputFolder    string   `yaml:"output_folder"`
	Preset          string   `yaml:"preset"`
	CustomStart     string   `yaml:"custom_start"`
	CustomEnd       string   `yaml:"custom_end"`
	Timezone        string   `yaml:"timezone"`
	MaxNotes        int      `yaml:"max_notes"`
	MaxCharsPerNote int      `yaml:"max_chars_per_note"`
	PromptOnRun     bool     `yaml:"prompt_on_run"`
	SystemPrompt    string   `yaml:"system_prompt"`
}

// Validate validates the review configuration.
func (c *ReviewConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.OutputFolder, validation.Required),
		validation.Field(&c.MaxNotes, validation.Min(1)),
		validation.Field(&c.MaxCharsPerNote, validation.Min(1)),
	); err != nil {
		return err
	}
	if !models.Preset(c.Preset).Valid() {
		return fmt.Errorf("review: unknown preset %q", c.Preset)
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("review: bad timezone %q: %w", c.Timezone, err)
		}
	}
	return nil
}

// Location resolves the configured timezone, defaulting to local time.
func (c *ReviewConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LLMConfig holds the model endpoint settings.
type LLMConfig struct {
	Provider       string  `yaml:"provider"`
	BaseURL        string  `yaml:"base_url"`
	EndpointPath   string  `yaml:"endpoint_path"`
	Model          string  `yaml:"model"`
	APIKeyHeader   string  `yaml:"api_key_header"`
	APIKeyValue    string  `yaml:"api_key_value"`
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// Validate validates the LLM configuration.
func (c *LLMConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Provider, validation.Required,
			validation.In(string(llm.ProviderOllama), string(llm.ProviderOpenAI))),
		validation.Field(&c.BaseURL, validation.Required),
		validation.Field(&c.EndpointPath, validation.Required),
		validation.Field(&c.Model, validation.Required),
		validation.Field(&c.Temperature, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&c.MaxTokens, validation.Required, validation.Min(1)),
		validation.Field(&c.TimeoutSeconds, validation.Required, validation.Min(1)),
	)
}

// ClientConfig converts the YAML shape into the llm package's Config.
func (c *LLMConfig) ClientConfig() llm.Config {
	return llm.Config{
		Provider:     llm.Provider(c.Provider),
		BaseURL:      c.BaseURL,
		EndpointPath: c.EndpointPath,
		Model:        c.Model,
		APIKeyHeader: c.APIKeyHeader,
		APIKeyValue:  c.APIKeyValue,
		Temperature:  c.Temperature,
		MaxTokens:    c.MaxTokens,
		Timeout:      time.Duration(c.TimeoutSeconds) * time.Second,
	}
}

// HistoryConfig holds the SQLite run-log location. An empty path
// disables run recording.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds Bearer token authentication for serve mode. An
// empty token disables authentication (local dev).
type AuthConfig struct {
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Token != ""
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Vault: VaultConfig{
			Path: "./vault",
		},
		Review: ReviewConfig{
			OutputFolder:    "Weekly Reviews",
			Preset:          string(models.PresetCurrentWeek),
			MaxNotes:        30,
			MaxCharsPerNote: 1500,
		},
		LLM: LLMConfig{
			Provider:       string(llm.ProviderOllama),
			BaseURL:        "http://localhost:11434",
			EndpointPath:   "/api/chat",
			Model:          "llama3",
			Temperature:    0.4,
			MaxTokens:      1200,
			TimeoutSeconds: 120,
		},
		History: HistoryConfig{
			Path: "./raido.db",
		},
	}
}
