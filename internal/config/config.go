package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults that must never reach production.
var insecureDefaults = map[string]bool{
	"your-secret-key-change-in-production": true,
	"webhook-secret":                       true,
	"":                                     true,
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	S3       S3Config
	Telegram TelegramConfig
	Session  SessionConfig
	Wizard   WizardConfig
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	EndpointURL     string
	Bucket          string
	PublicBaseURL   string
}

type TelegramConfig struct {
	BotToken      string
	APIBaseURL    string
	WebhookSecret string
}

type SessionConfig struct {
	JWTSecret    string
	CacheTTL     time.Duration
	PollInterval time.Duration
}

type WizardConfig struct {
	TTL              time.Duration
	EvictionInterval time.Duration
}

func Load() *Config {
	// .env is optional, real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		log.Println("[config] Loaded environment from .env")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Mode: getEnv("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "rta_user"),
			Password: getEnv("DB_PASSWORD", "rta_pass"),
			DBName:   getEnv("DB_NAME", "rta_library"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		S3: S3Config{
			Region:          getEnv("S3_REGION", "auto"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			EndpointURL:     getEnv("S3_ENDPOINT_URL", ""),
			Bucket:          getEnv("S3_BUCKET", "rta-payment-proofs"),
			PublicBaseURL:   getEnv("S3_PUBLIC_BASE_URL", ""),
		},
		Telegram: TelegramConfig{
			BotToken:      getEnv("TELEGRAM_BOT_TOKEN", ""),
			APIBaseURL:    getEnv("TELEGRAM_API_BASE_URL", "https://api.telegram.org"),
			WebhookSecret: getEnv("TELEGRAM_WEBHOOK_SECRET", ""),
		},
		Session: SessionConfig{
			JWTSecret:    getEnv("JWT_SECRET_KEY", ""),
			CacheTTL:     getEnvDuration("SESSION_CACHE_TTL", 30*24*time.Hour),
			PollInterval: getEnvDuration("STATUS_POLL_INTERVAL", 30*time.Second),
		},
		Wizard: WizardConfig{
			TTL:              getEnvDuration("WIZARD_TTL", 2*time.Hour),
			EvictionInterval: getEnvDuration("WIZARD_EVICTION_INTERVAL", 10*time.Minute),
		},
	}

	// Secrets are never logged.
	log.Printf("[config] RTA Library loaded: port=%s db=%s/%s redis=%s bucket=%s",
		cfg.Server.Port, cfg.Database.Host, cfg.Database.DBName, cfg.Redis.Addr, cfg.S3.Bucket)

	return cfg
}

// Validate rejects configurations that cannot run safely.
func (c *Config) Validate() error {
	if insecureDefaults[c.Session.JWTSecret] {
		return fmt.Errorf("JWT_SECRET_KEY must be set to a secure value (current value is insecure or empty)")
	}
	if len(c.Session.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET_KEY must be at least 32 characters long")
	}

	if insecureDefaults[c.Telegram.WebhookSecret] {
		return fmt.Errorf("TELEGRAM_WEBHOOK_SECRET must be set to a secure value (current value is insecure or empty)")
	}

	if c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN must be set")
	}

	if c.S3.AccessKeyID == "" || c.S3.SecretAccessKey == "" {
		return fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set")
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + c.Port + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
