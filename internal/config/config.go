package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	Port           string
	MongoURI       string
	DBName         string
	JWTSecret      string
	AccessTokenTTL time.Duration

	AdminEmail         string
	AdminPassword      string
	StockAdminEmail    string
	StockAdminPassword string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	NotifyEmail  string
	DashboardURL string
	OrderListURL string

	StripeSecretKey     string
	StripeWebhookSecret string
	RazorpayKeyID       string
	RazorpayKeySecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	UploadDir string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		Port:           getEnvOrDefault("PORT", "5000"),
		MongoURI:       getEnvOrDefault("MONGO_URI", ""),
		DBName:         getEnvOrDefault("DB_NAME", "lifefashion"),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL: getDurationEnv("ACCESS_TOKEN_TTL_HOURS", 48, time.Hour),

		AdminEmail:         getEnvOrDefault("ADMIN_EMAIL", ""),
		AdminPassword:      getEnvOrDefault("ADMIN_PASSWORD", ""),
		StockAdminEmail:    getEnvOrDefault("STOCK_ADMIN_EMAIL", ""),
		StockAdminPassword: getEnvOrDefault("STOCK_ADMIN_PASSWORD", ""),

		SMTPHost:     getEnvOrDefault("SMTP_HOST", ""),
		SMTPPort:     getIntEnv("SMTP_PORT", 587),
		SMTPUser:     getEnvOrDefault("SMTP_USER", ""),
		SMTPPassword: getEnvOrDefault("SMTP_PASSWORD", ""),
		NotifyEmail:  getEnvOrDefault("ADMIN_NOTIFY_EMAIL", ""),
		DashboardURL: getEnvOrDefault("DASHBOARD_URL", ""),
		OrderListURL: getEnvOrDefault("ORDER_LIST_URL", ""),

		StripeSecretKey:     getEnvOrDefault("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnvOrDefault("STRIPE_WEBHOOK_SECRET", ""),
		RazorpayKeyID:       getEnvOrDefault("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret:   getEnvOrDefault("RAZORPAY_KEY_SECRET", ""),

		RedisAddr:     getEnvOrDefault("REDIS_ADDR", ""),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		UploadDir: getEnvOrDefault("UPLOAD_DIR", "public/uploads"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
