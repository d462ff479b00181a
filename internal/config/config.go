// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data   DataConfig   `yaml:"data" mapstructure:"data"`
	Style  StyleConfig  `yaml:"style" mapstructure:"style"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Fetch  FetchConfig  `yaml:"fetch" mapstructure:"fetch"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// DataConfig describes the demographic summary file layout.
type DataConfig struct {
	Source        string `yaml:"source" mapstructure:"source"`
	Format        string `yaml:"format" mapstructure:"format"`
	Delimiter     string `yaml:"delimiter" mapstructure:"delimiter"`
	HeaderRows    int    `yaml:"header_rows" mapstructure:"header_rows"`
	GeoIDProperty string `yaml:"geoid_property" mapstructure:"geoid_property"`
}

// StyleConfig configures the style encoder.
type StyleConfig struct {
	DominanceThreshold float64 `yaml:"dominance_threshold" mapstructure:"dominance_threshold"`
	StrokeWeight       float64 `yaml:"stroke_weight" mapstructure:"stroke_weight"`
	StrokeOpacityRatio float64 `yaml:"stroke_opacity_ratio" mapstructure:"stroke_opacity_ratio"`
	CatalogFile        string  `yaml:"catalog_file" mapstructure:"catalog_file"`
}

// StoreConfig configures the index store backend.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

// FetchConfig configures remote downloads.
type FetchConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	TempDir     string `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// ServerConfig configures the style API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SEGMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.format", "csv")
	v.SetDefault("data.delimiter", ",")
	v.SetDefault("data.header_rows", 1)
	v.SetDefault("data.geoid_property", "GEOID")
	v.SetDefault("style.dominance_threshold", 0.65)
	v.SetDefault("style.stroke_weight", 1.0)
	v.SetDefault("style.stroke_opacity_ratio", 0.5)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "segmap.db")
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.user_agent", "segmap/1.0")
	v.SetDefault("fetch.temp_dir", "/tmp/segmap")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
