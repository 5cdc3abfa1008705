package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Upstream rate provider
	OpenExchangeRatesAppID   string
	OpenExchangeRatesBaseURL string
	ProviderTimeout          time.Duration

	// Storage model: the provider publishes every rate relative to this currency.
	ReferenceCurrency string

	// Refresh job
	RefreshWindowDays int
	RefreshHour       int
	RefreshMinute     int
	RunScheduler      bool

	// Health checks
	HeartbeatCheckURL   string
	RefreshCompletedURL string
	HeartbeatInterval   time.Duration

	// Notification email
	SMTPServer   string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	AdminEmail   string
	SummaryBase  string
	SummaryQuote string

	// API rate limiting, in ulule/limiter notation (e.g. "100-M").
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("OPEN_EXCHANGE_RATES_APP_ID", "")
	viper.SetDefault("OPEN_EXCHANGE_RATES_BASE_URL", "")
	viper.SetDefault("PROVIDER_TIMEOUT", "30s")
	viper.SetDefault("REFERENCE_CURRENCY", "USD")
	viper.SetDefault("REFRESH_WINDOW_DAYS", 8)
	viper.SetDefault("REFRESH_HOUR", 3)
	viper.SetDefault("REFRESH_MINUTE", 0)
	viper.SetDefault("RUN_SCHEDULER", false)
	viper.SetDefault("HEARTBEAT_CHECK_URL", "")
	viper.SetDefault("REFRESH_COMPLETED_URL", "")
	viper.SetDefault("HEARTBEAT_INTERVAL", "15m")
	viper.SetDefault("SMTP_SERVER", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("ADMIN_EMAIL", "")
	viper.SetDefault("SUMMARY_BASE_CURRENCY", "SGD")
	viper.SetDefault("SUMMARY_QUOTE_CURRENCY", "USD")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.OpenExchangeRatesAppID = viper.GetString("OPEN_EXCHANGE_RATES_APP_ID")
	if cfg.OpenExchangeRatesAppID == "" {
		log.Println("Warning: OPEN_EXCHANGE_RATES_APP_ID not set. Exchange rate refresh will not function.")
	}
	cfg.OpenExchangeRatesBaseURL = viper.GetString("OPEN_EXCHANGE_RATES_BASE_URL")

	providerTimeoutStr := viper.GetString("PROVIDER_TIMEOUT")
	providerTimeout, err := time.ParseDuration(providerTimeoutStr)
	if err != nil {
		providerTimeout = 30 * time.Second
		if providerTimeoutStr != "" {
			log.Printf("Warning: Invalid value for PROVIDER_TIMEOUT ('%s'). Defaulting to %s.\n", providerTimeoutStr, providerTimeout)
		}
	}
	cfg.ProviderTimeout = providerTimeout

	cfg.ReferenceCurrency = viper.GetString("REFERENCE_CURRENCY")
	cfg.RefreshWindowDays = viper.GetInt("REFRESH_WINDOW_DAYS")
	cfg.RefreshHour = viper.GetInt("REFRESH_HOUR")
	cfg.RefreshMinute = viper.GetInt("REFRESH_MINUTE")
	cfg.RunScheduler = viper.GetBool("RUN_SCHEDULER")

	cfg.HeartbeatCheckURL = viper.GetString("HEARTBEAT_CHECK_URL")
	cfg.RefreshCompletedURL = viper.GetString("REFRESH_COMPLETED_URL")

	heartbeatIntervalStr := viper.GetString("HEARTBEAT_INTERVAL")
	heartbeatInterval, err := time.ParseDuration(heartbeatIntervalStr)
	if err != nil {
		heartbeatInterval = 15 * time.Minute
		if heartbeatIntervalStr != "" {
			log.Printf("Warning: Invalid value for HEARTBEAT_INTERVAL ('%s'). Defaulting to %s.\n", heartbeatIntervalStr, heartbeatInterval)
		}
	}
	cfg.HeartbeatInterval = heartbeatInterval

	cfg.SMTPServer = viper.GetString("SMTP_SERVER")
	cfg.SMTPPort = viper.GetInt("SMTP_PORT")
	cfg.SMTPUsername = viper.GetString("SMTP_USERNAME")
	cfg.SMTPPassword = viper.GetString("SMTP_PASSWORD")
	cfg.AdminEmail = viper.GetString("ADMIN_EMAIL")
	cfg.SummaryBase = viper.GetString("SUMMARY_BASE_CURRENCY")
	cfg.SummaryQuote = viper.GetString("SUMMARY_QUOTE_CURRENCY")

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}

// EmailConfigured reports whether the SMTP settings are complete enough to send.
func (c *Config) EmailConfigured() bool {
	return c.SMTPServer != "" && c.SMTPUsername != "" && c.SMTPPassword != "" && c.AdminEmail != ""
}
