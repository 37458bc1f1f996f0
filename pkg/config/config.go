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

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// DateToleranceDays is the fuzzy-match window for reconciliation.
	DateToleranceDays int

	// Rate limiting, expressed as requests per period.
	RateLimitRequests int64
	RateLimitPeriod   time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "bookkeeping-app")
	viper.SetDefault("DATE_TOLERANCE_DAYS", 3)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_PERIOD", "1m")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.DateToleranceDays = viper.GetInt("DATE_TOLERANCE_DAYS")
	if cfg.DateToleranceDays < 0 {
		log.Printf("Warning: DATE_TOLERANCE_DAYS must not be negative, got %d. Defaulting to 3.\n", cfg.DateToleranceDays)
		cfg.DateToleranceDays = 3
	}

	cfg.RateLimitRequests = viper.GetInt64("RATE_LIMIT_REQUESTS")
	ratePeriodStr := viper.GetString("RATE_LIMIT_PERIOD")
	ratePeriod, err := time.ParseDuration(ratePeriodStr)
	if err != nil {
		ratePeriod = time.Minute
		log.Printf("Warning: Invalid value for RATE_LIMIT_PERIOD ('%s'). Defaulting to %s.\n", ratePeriodStr, ratePeriod.String())
	}
	cfg.RateLimitPeriod = ratePeriod

	return cfg, nil
}
