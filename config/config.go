package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Providers ProvidersConfig
	Analysis  AnalysisConfig
	Storage   StorageConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ProvidersConfig holds the vision backend configuration. Order is priority
// order: the analysis tries providers front to back.
type ProvidersConfig struct {
	Order  []string     `mapstructure:"order"`
	OpenAI OpenAIConfig `mapstructure:"openai"`
	Gemini GeminiConfig `mapstructure:"gemini"`
}

// OpenAIConfig holds OpenAI vision API configuration
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// GeminiConfig holds Gemini vision API configuration
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// AnalysisConfig holds analysis-related configuration
type AnalysisConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// StorageConfig holds meal log storage configuration
type StorageConfig struct {
	SQLitePath string `mapstructure:"sqlite_path"`
}

// knownProviders are the provider names the server can construct
var knownProviders = map[string]bool{
	"openai": true,
	"gemini": true,
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/fitcoach/")

	// Environment variable settings
	v.SetEnvPrefix("FITCOACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Provider defaults. API keys default to empty so the keys are known
	// to viper and env overrides apply during Unmarshal.
	v.SetDefault("providers.order", []string{"openai", "gemini"})
	v.SetDefault("providers.openai.api_key", "")
	v.SetDefault("providers.openai.model", "gpt-4o-mini")
	v.SetDefault("providers.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("providers.gemini.api_key", "")
	v.SetDefault("providers.gemini.model", "gemini-1.5-flash")

	// Analysis defaults
	v.SetDefault("analysis.cache_ttl", "1h")

	// Storage defaults
	v.SetDefault("storage.sqlite_path", "fitcoach.db")
}

// validate validates the configuration
func validate(config *Config) error {
	if len(config.Providers.Order) == 0 {
		return fmt.Errorf("at least one provider must be configured in providers.order")
	}

	configured := 0
	for _, name := range config.Providers.Order {
		if !knownProviders[name] {
			return fmt.Errorf("unknown provider %q in providers.order (known: openai, gemini)", name)
		}
		switch name {
		case "openai":
			if config.Providers.OpenAI.APIKey != "" {
				configured++
			}
		case "gemini":
			if config.Providers.Gemini.APIKey != "" {
				configured++
			}
		}
	}
	if configured == 0 {
		return fmt.Errorf("no provider has an API key (set FITCOACH_PROVIDERS_OPENAI_API_KEY or FITCOACH_PROVIDERS_GEMINI_API_KEY)")
	}

	if config.Storage.SQLitePath == "" {
		return fmt.Errorf("storage.sqlite_path must not be empty")
	}

	return nil
}
