package config

import (
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	configMutex   sync.RWMutex
	currentConfig *AppConfig
)

// ServerConfig holds the HTTP listen address and token lifetime.
type ServerConfig struct {
	Addr     string `mapstructure:"addr"`
	TokenTTL int    `mapstructure:"token_ttl_minutes"`
}

// TrackingConfig tunes the live-tracking engine per deployment.
type TrackingConfig struct {
	RouteToleranceMeters float64 `mapstructure:"route_tolerance_meters"`
	VelocitySmoothing    float64 `mapstructure:"velocity_smoothing"`
	MaxPredictionMs      int64   `mapstructure:"max_prediction_ms"`
	PredictionTickMs     int64   `mapstructure:"prediction_tick_ms"`
	PredictionGapMs      int64   `mapstructure:"prediction_gap_ms"`
}

// AppConfig holds entire config
type AppConfig struct {
	Server   ServerConfig   `mapstructure:"server"`
	Tracking TrackingConfig `mapstructure:"tracking"`
}

func defaults() {
	viper.SetDefault("server.addr", ":8081")
	viper.SetDefault("server.token_ttl_minutes", 240)
	viper.SetDefault("tracking.route_tolerance_meters", 50)
	viper.SetDefault("tracking.velocity_smoothing", 0.3)
	viper.SetDefault("tracking.max_prediction_ms", 5000)
	viper.SetDefault("tracking.prediction_tick_ms", 1000)
	viper.SetDefault("tracking.prediction_gap_ms", 2000)
}

// LoadConfig initializes and loads the configuration. A missing file is not
// fatal: defaults plus APP_* environment overrides apply.
func LoadConfig(path string) (*AppConfig, error) {
	viper.SetConfigFile(path)
	viper.SetEnvPrefix("APP")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetConfigType("yaml")

	defaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Config file not loaded, using defaults")
	}

	var cfg AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	configMutex.Lock()
	currentConfig = &cfg
	configMutex.Unlock()

	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		var newCfg AppConfig
		if err := viper.Unmarshal(&newCfg); err == nil {
			configMutex.Lock()
			currentConfig = &newCfg
			configMutex.Unlock()
			log.Info().Str("file", e.Name).Msg("Config reloaded")
		}
	})

	return &cfg, nil
}

// GetCurrentConfig returns the current configuration in a thread-safe way.
// Before LoadConfig has run (unit tests, mostly) it falls back to defaults.
func GetCurrentConfig() *AppConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()
	if currentConfig == nil {
		return &AppConfig{
			Server: ServerConfig{Addr: ":8081", TokenTTL: 240},
			Tracking: TrackingConfig{
				RouteToleranceMeters: 50,
				VelocitySmoothing:    0.3,
				MaxPredictionMs:      5000,
				PredictionTickMs:     1000,
				PredictionGapMs:      2000,
			},
		}
	}
	return currentConfig
}

func (c *TrackingConfig) PredictionTick() time.Duration {
	return time.Duration(c.PredictionTickMs) * time.Millisecond
}

func (c *TrackingConfig) PredictionGap() time.Duration {
	return time.Duration(c.PredictionGapMs) * time.Millisecond
}

func (c *ServerConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenTTL) * time.Minute
}
