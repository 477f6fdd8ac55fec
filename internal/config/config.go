package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/newthinker/fearwatch/internal/core"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Symbols   SymbolsConfig   `mapstructure:"symbols"`
	Signal    SignalConfig    `mapstructure:"signal"`
	Format    FormatConfig    `mapstructure:"format"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host" default:"0.0.0.0"`
	Port int    `mapstructure:"port" default:"8080"`
}

// ProviderConfig selects and tunes the upstream quote provider.
type ProviderConfig struct {
	Name    string        `mapstructure:"name" default:"yahoo"` // "yahoo" or "static"
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" default:"10s"`
	// Crumb runs Yahoo's cookie and crumb handshake before quote requests.
	Crumb bool `mapstructure:"crumb" default:"true"`
}

// SymbolsConfig holds the fixed symbol set.
type SymbolsConfig struct {
	VIX    string `mapstructure:"vix" default:"^VIX"`
	Market string `mapstructure:"market" default:"^GSPC"`
}

type SignalConfig struct {
	Threshold float64 `mapstructure:"threshold" default:"30"`
}

type FormatConfig struct {
	Locale string `mapstructure:"locale" default:"en-US"`
}

// DashboardConfig holds poller settings.
type DashboardConfig struct {
	Endpoint        string        `mapstructure:"endpoint" default:"http://localhost:8080/api/quotes"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval" default:"2m"`
	ClockInterval   time.Duration `mapstructure:"clock_interval" default:"1s"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" default:"30s"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" default:"true"`
	Path    string `mapstructure:"path" default:"/metrics"`
}

// LogConfig tunes the zap logger. File redirects output away from the
// terminal, which the watch command needs for a clean screen.
type LogConfig struct {
	Level string `mapstructure:"level" default:"info"`
	File  string `mapstructure:"file"`
}

// Load reads configuration from file, layered over Defaults
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.SetEnvPrefix("FEARWATCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		// Only reachable if a default tag above is malformed.
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return cfg
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	switch c.Provider.Name {
	case "yahoo", "static":
	case "":
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("provider.name is required"))
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown provider %q", c.Provider.Name))
	}
	if c.Provider.Timeout < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("provider timeout cannot be negative, got %s", c.Provider.Timeout))
	}

	if c.Symbols.VIX == "" {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("symbols.vix is required"))
	}
	if c.Symbols.Market == "" {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("symbols.market is required"))
	}
	if c.Symbols.VIX == c.Symbols.Market {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("symbols.vix and symbols.market must differ, both are %q", c.Symbols.VIX))
	}

	if c.Signal.Threshold <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("signal threshold must be positive, got %g", c.Signal.Threshold))
	}

	if c.Dashboard.RefreshInterval <= 0 || c.Dashboard.ClockInterval <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("dashboard intervals must be positive"))
	}
	if u, err := url.Parse(c.Dashboard.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("dashboard endpoint must be an absolute URL, got %q", c.Dashboard.Endpoint))
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return core.WrapError(core.ErrConfigInvalid, err)
	}

	return nil
}
