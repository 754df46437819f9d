package config

import (
	"fmt"
	"strings"

	"hospital-triage/models"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. TRIAGE_FORMAT.
const EnvPrefix = "TRIAGE"

// ConfigKey names the optional config file variable, TRIAGE_CONFIG.
const ConfigKey = "CONFIG"

// Config holds the settings of the triage CLI. Flags override these values.
type Config struct {
	PatientsFile  string `mapstructure:"PATIENTS_FILE"`
	ResourcesFile string `mapstructure:"RESOURCES_FILE"`
	SnapshotFile  string `mapstructure:"SNAPSHOT_FILE"`
	Format        string `mapstructure:"FORMAT"`
	DefaultArea   string `mapstructure:"DEFAULT_AREA"`
	MetricsAddr   string `mapstructure:"METRICS_ADDR"`
	PushURL       string `mapstructure:"PUSH_URL"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	LogFormat     string `mapstructure:"LOG_FORMAT"`
}

var keys = []string{
	"PATIENTS_FILE",
	"RESOURCES_FILE",
	"SNAPSHOT_FILE",
	"FORMAT",
	"DEFAULT_AREA",
	"METRICS_ADDR",
	"PUSH_URL",
	"LOG_LEVEL",
	"LOG_FORMAT",
}

// ValidFormats lists the report output formats.
var ValidFormats = map[string]bool{"text": true, "json": true, "csv": true}

// Load reads configuration from TRIAGE_* environment variables and, when
// TRIAGE_CONFIG names a file, from that file. Environment wins over the file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("FORMAT", "text")
	v.SetDefault("DEFAULT_AREA", string(models.AreaEmergency))
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	if err := v.BindEnv(ConfigKey); err != nil {
		return nil, fmt.Errorf("bind %s: %w", ConfigKey, err)
	}
	if path := v.GetString(ConfigKey); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Format = strings.ToLower(cfg.Format)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the CLI cannot act on.
func (c *Config) Validate() error {
	if !ValidFormats[c.Format] {
		return fmt.Errorf("format must be one of: text, json, csv (got: %s)", c.Format)
	}
	if _, ok := models.ParseArea(c.DefaultArea); !ok {
		return fmt.Errorf("unknown default area %q", c.DefaultArea)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("log format must be console or json (got: %s)", c.LogFormat)
	}
	return nil
}

// Area returns the configured default area.
func (c *Config) Area() models.Area {
	a, _ := models.ParseArea(c.DefaultArea)
	return a
}

// Level returns the configured zerolog level, defaulting to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
