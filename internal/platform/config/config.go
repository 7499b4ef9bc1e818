package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// DefaultApprovalPolicy applies when an approval request names no policy:
	// ANY_ONE or ALL_REQUIRED.
	DefaultApprovalPolicy string

	// Recurring runner settings. The runner scans for companies with due
	// templates every RecurringInterval and fans the work out over
	// RecurringWorkers goroutines.
	RecurringEnabled  bool
	RecurringInterval time.Duration
	RecurringWorkers  int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("DEFAULT_APPROVAL_POLICY", "ANY_ONE")
	viper.SetDefault("RECURRING_ENABLED", true)
	viper.SetDefault("RECURRING_INTERVAL", "1h")
	viper.SetDefault("RECURRING_WORKERS", 4)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.DefaultApprovalPolicy = viper.GetString("DEFAULT_APPROVAL_POLICY")
	switch cfg.DefaultApprovalPolicy {
	case "ANY_ONE", "ALL_REQUIRED":
	default:
		log.Printf("Warning: Invalid DEFAULT_APPROVAL_POLICY ('%s'). Defaulting to ANY_ONE.\n", cfg.DefaultApprovalPolicy)
		cfg.DefaultApprovalPolicy = "ANY_ONE"
	}

	cfg.RecurringEnabled = viper.GetBool("RECURRING_ENABLED")

	recurringIntervalStr := viper.GetString("RECURRING_INTERVAL")
	recurringInterval, err := time.ParseDuration(recurringIntervalStr)
	if err != nil || recurringInterval <= 0 {
		recurringInterval = time.Hour
		if recurringIntervalStr != "" {
			log.Printf("Warning: Invalid value for RECURRING_INTERVAL ('%s'). Defaulting to %s.\n", recurringIntervalStr, recurringInterval.String())
		}
	}
	cfg.RecurringInterval = recurringInterval

	cfg.RecurringWorkers = viper.GetInt("RECURRING_WORKERS")
	if cfg.RecurringWorkers <= 0 {
		cfg.RecurringWorkers = 4
		log.Printf("Warning: RECURRING_WORKERS must be positive. Defaulting to %d.\n", cfg.RecurringWorkers)
	}

	return cfg, nil
}
