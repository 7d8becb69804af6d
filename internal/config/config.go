package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis (page cache)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Object storage (S3)
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	S3Bucket           string
	UploadURLExpiry    time.Duration

	// Stripe
	StripeSecretKey     string
	StripeWebhookSecret string
	StripeAdminPriceID  string
	BillingReturnURL    string

	// Admin
	AdminEmails  string
	AdminUserIDs string
	AdminToken   string

	// Bidding rules
	LotStaggerDelay   time.Duration
	MinBidIncrement   float64
	MaxBidJump        float64
	MaxLotsPerAuction int

	// Images
	MaxImagesPerLot int
	MaxUploadBytes  int64
	AcceptedMIMEs   []string

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "auction_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       parseInt(getEnv("REDIS_DB", "0"), 0),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		AWSRegion:          getEnv("AWS_BUCKET_REGION", "us-west-2"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		S3Bucket:           getEnv("AWS_BUCKET_NAME", ""),
		UploadURLExpiry:    parseDuration(getEnv("UPLOAD_URL_EXPIRY", "60s"), time.Minute),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		StripeAdminPriceID:  getEnv("STRIPE_ADMIN_PRICE_ID", ""),
		BillingReturnURL:    getEnv("BILLING_RETURN_URL", "http://localhost:3000/dashboard/billing"),

		AdminEmails:  getEnv("ADMIN_EMAILS", ""),
		AdminUserIDs: getEnv("ADMIN_USER_IDS", ""),
		AdminToken:   getEnv("ADMIN_TOKEN", ""),

		LotStaggerDelay:   parseDuration(getEnv("LOT_STAGGER_DELAY", "30s"), 30*time.Second),
		MinBidIncrement:   parseFloat(getEnv("MIN_BID_INCREMENT", "1"), 1),
		MaxBidJump:        parseFloat(getEnv("MAX_BID_JUMP", "1000"), 1000),
		MaxLotsPerAuction: parseInt(getEnv("MAX_LOTS_PER_AUCTION", "100"), 100),

		MaxImagesPerLot: parseInt(getEnv("MAX_IMAGES_PER_LOT", "5"), 5),
		MaxUploadBytes:  int64(parseInt(getEnv("MAX_UPLOAD_BYTES", "10485760"), 10485760)),
		AcceptedMIMEs:   parseCSV(getEnv("ACCEPTED_IMAGE_TYPES", "image/jpeg,image/png,image/webp,image/gif")),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseFloat(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseCSV(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
