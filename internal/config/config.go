// internal/config/config.go
package config

import (
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the server.
type Config struct {
	LogLevel string `mapstructure:"LOG_LEVEL"`
	// LogEnabled gates all log output. The stdio transport owns stdout, so
	// logging always goes to stderr; this flag silences even that, and is
	// threaded through construction instead of flipping a process-global.
	LogEnabled bool `mapstructure:"LOG_ENABLED"`

	ServerName    string `mapstructure:"SERVER_NAME"`
	ServerVersion string `mapstructure:"SERVER_VERSION"`

	DexBaseURL string `mapstructure:"DEX_BASE_URL"`

	RateLimit      int           `mapstructure:"RATE_LIMIT"`
	RatePeriod     time.Duration `mapstructure:"-"`
	CacheTTL       time.Duration `mapstructure:"-"`
	RequestTimeout time.Duration `mapstructure:"-"`
	MaxRetries     int           `mapstructure:"MAX_RETRIES"`
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(configPaths ...string) (*Config, error) {
	v := viper.New()

	// --- Set Defaults ---
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_ENABLED", true)
	v.SetDefault("SERVER_NAME", "dexscreener-mcp-server")
	v.SetDefault("SERVER_VERSION", "1.0.0")
	v.SetDefault("DEX_BASE_URL", "https://api.dexscreener.com/latest/dex")
	v.SetDefault("RATE_LIMIT", 300)             // requests per period
	v.SetDefault("RATE_PERIOD_SECONDS", 60)     // rolling window
	v.SetDefault("CACHE_TTL_SECONDS", 60)       // response cache TTL
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 30) // per-attempt timeout
	v.SetDefault("MAX_RETRIES", 3)              // total attempts per fetch

	// --- Configure Viper ---
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	for _, path := range configPaths {
		if path != "" {
			v.AddConfigPath(path)
		}
	}

	// --- Environment Variables ---
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)

	// --- Read Config File ---
	if err := v.ReadInConfig(); err != nil {
		// Missing file is fine: defaults and env vars cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Debug("Config file not found, using defaults and environment variables.")
		} else {
			log.Errorf("Error reading config file: %v", err)
			return nil, err
		}
	} else {
		log.Infof("Using config file: %s", v.ConfigFileUsed())
	}

	// --- Unmarshal into Struct ---
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Errorf("Unable to decode config into struct: %v", err)
		return nil, err
	}

	// Viper reads the *_SECONDS keys as plain integers; convert them here.
	cfg.RatePeriod = time.Duration(v.GetInt("RATE_PERIOD_SECONDS")) * time.Second
	cfg.CacheTTL = time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second
	cfg.RequestTimeout = time.Duration(v.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second

	// Validate log level early so a typo degrades instead of failing later.
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		log.Warnf("Invalid LOG_LEVEL '%s' found in config, defaulting to 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}

	return &cfg, nil
}
