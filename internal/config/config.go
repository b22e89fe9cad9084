// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	AWS         AWSConfig
	Store       StoreConfig
	Email       EmailConfig
	Cache       CacheConfig
	RateLimit   RateLimitConfig
	I18n        I18nConfig
	Frontend    FrontendConfig
	AdminSeed   AdminSeedConfig
}

// AdminSeedConfig is the first admin account created by cmd/seed.
type AdminSeedConfig struct {
	Name     string
	Email    string
	Password string
}

type FrontendConfig struct {
	BaseURL        string
	AllowedOrigins []string
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
	URL          string
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  int // in hours
	RefreshTokenTTL int // in hours
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
}

// BankAccount is a manual transfer destination shown on the payment page.
type BankAccount struct {
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

type EWallet struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

type StoreConfig struct {
	Name               string
	WhatsAppNumber     string
	BankAccounts       []BankAccount
	EWallets           []EWallet
	PaymentWindowHours int
	ExpirySweepMinutes int
}

type EmailConfig struct {
	Provider            string // smtp, sendgrid, postmark or empty to disable
	SMTPHost            string
	SMTPPort            string
	SMTPUsername        string
	SMTPPassword        string
	SendGridAPIKey      string
	PostmarkServerToken string
	FromEmail           string
	FromName            string
	AdminEmail          string
}

type CacheConfig struct {
	Enabled        bool
	TTLSeconds     int
	CleanupSeconds int
}

type RateLimitConfig struct {
	GeneralPerSecond  int
	AuthPerMinute     int
	CheckoutPerMinute int
	UploadPerMinute   int
}

type I18nConfig struct {
	DefaultLocale string
	LocalesPath   string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "map_store"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "info"),
			URL:          getEnv("DATABASE_URL", ""),
		},
		JWT: JWTConfig{
			SecretKey:       getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenTTL:  getEnvAsInt("JWT_ACCESS_TTL", 24),   // 24 hours
			RefreshTokenTTL: getEnvAsInt("JWT_REFRESH_TTL", 168), // 7 days
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "ap-southeast-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "map-store-assets"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
		},
		Store: StoreConfig{
			Name:               getEnv("STORE_NAME", "MAP Store"),
			WhatsAppNumber:     getEnv("STORE_WHATSAPP", "6281234567890"),
			BankAccounts:       parseBankAccounts(getEnv("STORE_BANK_ACCOUNTS", "BCA:1234567890:MAP Store,Mandiri:0987654321:MAP Store,BRI:5678901234:MAP Store")),
			EWallets:           parseEWallets(getEnv("STORE_EWALLETS", "OVO:08123456789,DANA:08123456789,GoPay:08123456789")),
			PaymentWindowHours: getEnvAsInt("PAYMENT_WINDOW_HOURS", 24),
			ExpirySweepMinutes: getEnvAsInt("EXPIRY_SWEEP_MINUTES", 15),
		},
		Email: EmailConfig{
			Provider:            getEnv("EMAIL_PROVIDER", ""),
			SMTPHost:            getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:            getEnv("SMTP_PORT", "587"),
			SMTPUsername:        getEnv("SMTP_USERNAME", ""),
			SMTPPassword:        getEnv("SMTP_PASSWORD", ""),
			SendGridAPIKey:      getEnv("SENDGRID_API_KEY", ""),
			PostmarkServerToken: getEnv("POSTMARK_SERVER_TOKEN", ""),
			FromEmail:           getEnv("FROM_EMAIL", "noreply@mapstore.id"),
			FromName:            getEnv("FROM_NAME", "MAP Store"),
			AdminEmail:          getEnv("ADMIN_EMAIL", ""),
		},
		Cache: CacheConfig{
			Enabled:        getEnvAsBool("CACHE_ENABLED", true),
			TTLSeconds:     getEnvAsInt("CACHE_TTL_SECONDS", 60),
			CleanupSeconds: getEnvAsInt("CACHE_CLEANUP_SECONDS", 300),
		},
		RateLimit: RateLimitConfig{
			GeneralPerSecond:  getEnvAsInt("RATE_LIMIT_GENERAL", 10),
			AuthPerMinute:     getEnvAsInt("RATE_LIMIT_AUTH", 5),
			CheckoutPerMinute: getEnvAsInt("RATE_LIMIT_CHECKOUT", 5),
			UploadPerMinute:   getEnvAsInt("RATE_LIMIT_UPLOAD", 10),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "id"),
			LocalesPath:   getEnv("LOCALES_PATH", "./internal/i18n/locales"),
		},
		Frontend: FrontendConfig{
			BaseURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		AdminSeed: AdminSeedConfig{
			Name:     getEnv("ADMIN_SEED_NAME", "MAP Store Admin"),
			Email:    getEnv("ADMIN_SEED_EMAIL", ""),
			Password: getEnv("ADMIN_SEED_PASSWORD", ""),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == "your-secret-key-change-in-production" && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	switch c.Email.Provider {
	case "", "smtp":
	case "sendgrid":
		if c.Email.SendGridAPIKey == "" {
			return fmt.Errorf("SENDGRID_API_KEY is required when EMAIL_PROVIDER=sendgrid")
		}
	case "postmark":
		if c.Email.PostmarkServerToken == "" {
			return fmt.Errorf("POSTMARK_SERVER_TOKEN is required when EMAIL_PROVIDER=postmark")
		}
	default:
		return fmt.Errorf("unknown email provider %q", c.Email.Provider)
	}

	if c.Store.PaymentWindowHours <= 0 {
		return fmt.Errorf("PAYMENT_WINDOW_HOURS must be positive")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseBankAccounts reads "Bank:number:holder" entries separated by commas.
func parseBankAccounts(value string) []BankAccount {
	var accounts []BankAccount
	for _, entry := range splitList(value) {
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 {
			continue
		}
		accounts = append(accounts, BankAccount{
			Name:          strings.TrimSpace(parts[0]),
			AccountNumber: strings.TrimSpace(parts[1]),
			AccountName:   strings.TrimSpace(parts[2]),
		})
	}
	return accounts
}

// parseEWallets reads "Wallet:number" entries separated by commas.
func parseEWallets(value string) []EWallet {
	var wallets []EWallet
	for _, entry := range splitList(value) {
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 {
			continue
		}
		wallets = append(wallets, EWallet{
			Name:   strings.TrimSpace(parts[0]),
			Number: strings.TrimSpace(parts[1]),
		})
	}
	return wallets
}
