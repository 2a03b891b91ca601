// Package config loads configuration for the tutor from a .env file,
// a YAML config file in the user's config directory, and environment
// variables. API keys are resolved once at load time so a missing key
// fails before any request is made.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	appDirName = "ai-tech-tutor"
	envPrefix  = "TUTOR"

	defaultModel      = "gpt"
	defaultMaxTokens  = 1000
	defaultOllamaHost = "http://localhost:11434"
	defaultOutputDir  = "data"
)

// ErrMissingAPIKey indicates the API key required by the selected
// provider is not set anywhere in the environment or config files.
var ErrMissingAPIKey = errors.New("missing API key")

// Config holds everything the providers and pipelines need. Keys are
// passed explicitly into adapter constructors rather than read from
// the environment at call time.
type Config struct {
	OpenAIKey    string
	AnthropicKey string
	OllamaHost   string

	Model     string
	MaxTokens int
	OutputDir string
}

// Dir returns the user config directory (~/.config/ai-tech-tutor).
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appDirName)
}

func configPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("model", defaultModel)
	v.SetDefault("max_tokens", defaultMaxTokens)
	v.SetDefault("ollama_host", defaultOllamaHost)
	v.SetDefault("output_dir", defaultOutputDir)

	// The provider keys keep their conventional names instead of the
	// TUTOR_ prefix.
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("anthropic_api_key", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("ollama_host", "OLLAMA_HOST", "TUTOR_OLLAMA_HOST")

	return v
}

// Load reads configuration in priority order: defaults, the user
// config file, a .env in the working directory, then environment
// variables (highest). Missing files are not errors.
func Load() (*Config, error) {
	v := newViper()

	if path := configPath(); fileExists(path) {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if fileExists(".env") {
		env := viper.New()
		env.SetConfigFile(".env")
		env.SetConfigType("env")
		if err := env.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read .env: %w", err)
		}
		// .env values fill gaps only; real environment still wins
		// because AutomaticEnv is checked first by viper.
		for _, key := range []string{"openai_api_key", "anthropic_api_key", "ollama_host"} {
			if !v.IsSet(key) && env.IsSet(key) {
				v.Set(key, env.GetString(key))
			}
		}
	}

	cfg := &Config{
		OpenAIKey:    v.GetString("openai_api_key"),
		AnthropicKey: v.GetString("anthropic_api_key"),
		OllamaHost:   v.GetString("ollama_host"),
		Model:        v.GetString("model"),
		MaxTokens:    v.GetInt("max_tokens"),
		OutputDir:    v.GetString("output_dir"),
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	return cfg, nil
}

// Validate checks that the key required by the named provider is
// present. Called once before constructing an adapter, never per request.
func (c *Config) Validate(provider string) error {
	switch provider {
	case "openai":
		if c.OpenAIKey == "" {
			return fmt.Errorf("%w: set OPENAI_API_KEY", ErrMissingAPIKey)
		}
	case "anthropic":
		if c.AnthropicKey == "" {
			return fmt.Errorf("%w: set ANTHROPIC_API_KEY", ErrMissingAPIKey)
		}
	case "ollama":
		// Local models need no key.
	default:
		return fmt.Errorf("unknown provider %q", provider)
	}
	return nil
}

// Set persists a single key to the user config file.
func Set(key, value string) error {
	if key == "" {
		return errors.New("config key is required")
	}
	if err := os.MkdirAll(Dir(), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath())
	if fileExists(configPath()) {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}
	v.Set(key, value)
	if err := v.WriteConfigAs(configPath()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// List returns the resolved settings with key material redacted.
func (c *Config) List() map[string]string {
	return map[string]string{
		"model":             c.Model,
		"max_tokens":        fmt.Sprintf("%d", c.MaxTokens),
		"ollama_host":       c.OllamaHost,
		"output_dir":        c.OutputDir,
		"openai_api_key":    redact(c.OpenAIKey),
		"anthropic_api_key": redact(c.AnthropicKey),
	}
}

func redact(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
