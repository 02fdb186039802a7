package config

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration. It is constructed once at startup
// and passed by reference; nothing reads the environment after LoadConfig.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	MinSampleSize int
	QueryTimeout  time.Duration
	RateLimit     string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("POSTGRES_HOST", "127.0.0.1")
	viper.SetDefault("POSTGRES_PORT", "5432")
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "")
	viper.SetDefault("POSTGRES_DBNAME", "postgres")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("MIN_SAMPLE_SIZE", 3)
	viper.SetDefault("QUERY_TIMEOUT", "5s")
	viper.SetDefault("RATE_LIMIT", "120-M")

	// Environment variables override .env values, which override defaults.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = buildDatabaseURL(
		viper.GetString("POSTGRES_HOST"),
		viper.GetString("POSTGRES_PORT"),
		viper.GetString("POSTGRES_USER"),
		viper.GetString("POSTGRES_PASSWORD"),
		viper.GetString("POSTGRES_DBNAME"),
		viper.GetString("POSTGRES_SSLMODE"),
	)

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	// Minimum observations a day needs before its average is reported.
	cfg.MinSampleSize = viper.GetInt("MIN_SAMPLE_SIZE")
	if cfg.MinSampleSize < 1 {
		log.Printf("Warning: Invalid MIN_SAMPLE_SIZE (%d). Defaulting to 3.\n", cfg.MinSampleSize)
		cfg.MinSampleSize = 3
	}

	queryTimeoutStr := viper.GetString("QUERY_TIMEOUT")
	queryTimeout, err := time.ParseDuration(queryTimeoutStr)
	if err != nil || queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
		if queryTimeoutStr != "" {
			log.Printf("Warning: Invalid value for QUERY_TIMEOUT ('%s'). Defaulting to %s.\n", queryTimeoutStr, queryTimeout.String())
		}
	}
	cfg.QueryTimeout = queryTimeout

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	if cfg.RateLimit == "" {
		cfg.RateLimit = "120-M"
		log.Printf("Warning: RATE_LIMIT not set. Defaulting to %s.\n", cfg.RateLimit)
	}

	return cfg, nil
}

// buildDatabaseURL assembles a postgres:// URL from the discrete POSTGRES_*
// settings, escaping credentials.
func buildDatabaseURL(host, port, user, password, dbname, sslmode string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     fmt.Sprintf("%s:%s", host, port),
		Path:     "/" + dbname,
		RawQuery: "sslmode=" + sslmode,
	}
	return u.String()
}
