package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/opengrove/feedbridge/internal/domain"
)

const (
	envPrefix           = "FEEDBRIDGE"
	defaultDatabasePath = "feedbridge.db"
	defaultHTTPPort     = 3000
	defaultLogLevel     = "info"
	defaultProviderType = "jira"
)

// Config captures runtime configuration for the publish worker.
type Config struct {
	// Provider is the tracker provider to publish through. An empty base
	// URL means no provider is configured; stories then fail permanently.
	Provider domain.ProviderConfig

	// Actions selects which publish actions are active.
	Actions domain.ActionConfig

	// DatabasePath is the SQLite database file path.
	DatabasePath string

	// FeedURL is the websocket endpoint delivering story events.
	FeedURL string

	// HTTPPort is the operational HTTP server port.
	HTTPPort int

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// NewViper returns a viper instance with defaults and env bindings
// configured.
func NewViper() *viper.Viper {
	v := viper.New()
	ApplyDefaults(v)
	return v
}

// ApplyDefaults configures defaults and env bindings on the provided viper
// instance. Comment and link posting default to enabled, matching the
// expectation that a configured tracker wants both.
func ApplyDefaults(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("provider.type", defaultProviderType)
	v.SetDefault("provider.base_url", "")
	v.SetDefault("publish.post_comment", true)
	v.SetDefault("publish.post_link", true)
	v.SetDefault("database.path", defaultDatabasePath)
	v.SetDefault("feed.url", "")
	v.SetDefault("http.port", defaultHTTPPort)
	v.SetDefault("log.level", defaultLogLevel)
}

// Load parses runtime configuration from viper.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Provider: domain.ProviderConfig{
			Type:    v.GetString("provider.type"),
			BaseURL: v.GetString("provider.base_url"),
		},
		Actions: domain.ActionConfig{
			PostComment: v.GetBool("publish.post_comment"),
			PostLink:    v.GetBool("publish.post_link"),
		},
		DatabasePath: v.GetString("database.path"),
		FeedURL:      v.GetString("feed.url"),
		HTTPPort:     v.GetInt("http.port"),
		LogLevel:     v.GetString("log.level"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Provider.BaseURL != "" && !strings.HasPrefix(c.Provider.BaseURL, "http") {
		return fmt.Errorf("provider.base_url must be an http(s) URL")
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535")
	}
	return nil
}
