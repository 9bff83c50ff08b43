package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Applications database (Supabase-hosted Postgres).
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	JWTSecret  string `mapstructure:"JWT_SECRET"`
	AdminToken string `mapstructure:"TRANSACTIONS_ADMIN_TOKEN"`

	// SwiftPay gateway.
	SwiftPayAPIKey     string `mapstructure:"SWIFTPAY_API_KEY"`
	SwiftPayTillID     string `mapstructure:"SWIFTPAY_TILL_ID"`
	SwiftPayBackendURL string `mapstructure:"SWIFTPAY_BACKEND_URL"`
	MpesaProxyURL      string `mapstructure:"MPESA_PROXY_URL"`
	MpesaProxyAPIKey   string `mapstructure:"MPESA_PROXY_API_KEY"`

	// SMTP for best-effort receipts.
	SMTPHost   string `mapstructure:"SMTP_HOST"`
	SMTPUser   string `mapstructure:"SMTP_USER"`
	SMTPPass   string `mapstructure:"SMTP_PASS"`
	SMTPSender string `mapstructure:"SMTP_SENDER"`

	// Wati WhatsApp notifications.
	WatiURL    string `mapstructure:"WATI_URL"`
	WatiAPIKey string `mapstructure:"WATI_API_KEY"`
}

// Load reads configuration from the environment (and an optional
// config.yaml) into a Config value. Callers pass the result around
// explicitly; nothing in this package is consulted afterwards.
func Load() Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	// viper only surfaces environment values through Unmarshal for keys
	// it already knows about, so every key gets a default.
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SWIFTPAY_BACKEND_URL", "https://swiftpay-backend-uvv9.onrender.com")
	viper.SetDefault("MPESA_PROXY_URL", "https://swiftpay-backend-uvv9.onrender.com/api/mpesa-verification-proxy")
	viper.SetDefault("MPESA_PROXY_API_KEY", "")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("TRANSACTIONS_ADMIN_TOKEN", "")
	viper.SetDefault("SWIFTPAY_API_KEY", "")
	viper.SetDefault("SWIFTPAY_TILL_ID", "")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASS", "")
	viper.SetDefault("SMTP_SENDER", "")
	viper.SetDefault("WATI_URL", "")
	viper.SetDefault("WATI_API_KEY", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	return cfg
}

// IsProduction reports whether the server runs with production settings.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}
