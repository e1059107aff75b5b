package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	// Gateway checks: the API only answers requests relayed by the known
	// frontend carrying the shared secret header. Empty values disable the check.
	FrontendURL   string
	GatewaySecret string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret     string
	TokenExpiry   time.Duration
	SessionWindow time.Duration
	OtpExpiry     time.Duration

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	SNSRegion      string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users string
	Bans  string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		FrontendURL:   getEnv("FRONTEND_URL", ""),
		GatewaySecret: getEnv("QURANARA_SECRET", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenExpiry:   time.Duration(getEnvInt("TOKEN_EXPIRY_HOURS", 24)) * time.Hour,
		SessionWindow: time.Duration(getEnvInt("SESSION_WINDOW_DAYS", 90)) * 24 * time.Hour,
		OtpExpiry:     time.Duration(getEnvInt("OTP_EXPIRY_SECONDS", 120)) * time.Second,

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users: getEnv("DYNAMO_TABLE_USERS", "users"),
			Bans:  getEnv("DYNAMO_TABLE_BANS", "bans"),
		},
		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// Validate reports fatal misconfiguration. The signing secret has no usable
// default: the process must not serve traffic without it.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.TokenExpiry <= 0 {
		return fmt.Errorf("TOKEN_EXPIRY_HOURS must be positive")
	}
	if c.SessionWindow <= 0 {
		return fmt.Errorf("SESSION_WINDOW_DAYS must be positive")
	}
	return nil
}

// IsProduction reports whether secure cookie attributes should be set.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
