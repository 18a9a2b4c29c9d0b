package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AccountCodes are the chart codes the settlement posts against.
type AccountCodes struct {
	Cash       string
	Receivable string
	Revenue    string
	TaxPayable string
	COGS       string
	Inventory  string
}

// Config holds application configuration.
type Config struct {
	DatabaseURL      string
	Port             string
	IsProduction     bool
	EnableDBCheck    bool
	DBMaxConns       int32
	DBConnectTimeout time.Duration
	MigrationsPath   string

	RedisAddress       string
	SettlementLockTTL  time.Duration
	AllowNegativeStock bool
	BaseCurrency       string
	DefaultCashbookID  string
	Accounts           AccountCodes

	RateLimit          string
	CORSAllowedOrigins []string
}

func setDefaults() {
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_CONNECT_TIMEOUT", "5s")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("REDIS_ADDRESS", "")
	viper.SetDefault("SETTLEMENT_LOCK_TTL", "30s")
	viper.SetDefault("ALLOW_NEGATIVE_STOCK", false)
	viper.SetDefault("BASE_CURRENCY", "USD")
	viper.SetDefault("DEFAULT_CASHBOOK_ID", "MAIN")
	viper.SetDefault("ACCOUNT_CASH", "1000")
	viper.SetDefault("ACCOUNT_RECEIVABLE", "1100")
	viper.SetDefault("ACCOUNT_INVENTORY", "1200")
	viper.SetDefault("ACCOUNT_TAX_PAYABLE", "2100")
	viper.SetDefault("ACCOUNT_REVENUE", "4000")
	viper.SetDefault("ACCOUNT_COGS", "5000")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	setDefaults()
	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:        viper.GetString("PGSQL_URL"),
		Port:               viper.GetString("PORT"),
		IsProduction:       viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:      viper.GetBool("ENABLE_DB_CHECK"),
		DBMaxConns:         viper.GetInt32("DB_MAX_CONNS"),
		MigrationsPath:     viper.GetString("MIGRATIONS_PATH"),
		RedisAddress:       viper.GetString("REDIS_ADDRESS"),
		AllowNegativeStock: viper.GetBool("ALLOW_NEGATIVE_STOCK"),
		BaseCurrency:       strings.ToUpper(viper.GetString("BASE_CURRENCY")),
		DefaultCashbookID:  viper.GetString("DEFAULT_CASHBOOK_ID"),
		Accounts: AccountCodes{
			Cash:       viper.GetString("ACCOUNT_CASH"),
			Receivable: viper.GetString("ACCOUNT_RECEIVABLE"),
			Revenue:    viper.GetString("ACCOUNT_REVENUE"),
			TaxPayable: viper.GetString("ACCOUNT_TAX_PAYABLE"),
			COGS:       viper.GetString("ACCOUNT_COGS"),
			Inventory:  viper.GetString("ACCOUNT_INVENTORY"),
		},
		RateLimit:          viper.GetString("RATE_LIMIT"),
		CORSAllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.DBConnectTimeout = durationOrDefault("DB_CONNECT_TIMEOUT", 5*time.Second)
	cfg.SettlementLockTTL = durationOrDefault("SETTLEMENT_LOCK_TTL", 30*time.Second)

	if cfg.RedisAddress == "" {
		log.Println("Warning: REDIS_ADDRESS not set. Settlement locks are process-local.")
	}

	return cfg, nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
