package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Email    EmailConfig
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

type AuthConfig struct {
	JWTSecret              string
	SessionTokenExpiry     time.Duration
	SuperadminTokenExpiry  time.Duration
	OTPExpiry              time.Duration
	OTPSweepInterval       time.Duration
	BcryptCost             int
	SuperadminUsername     string
	SuperadminPassword     string
	RateLimitPerMinute     int
	UserRateLimitPerMinute int
	TimingDelayBaseMs      int
	TimingDelayRandomMs    int
	TimingDelayOnSuccess   bool
}

type EmailConfig struct {
	AWSRegion   string
	FromAddress string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	env := getEnv("ENV", "development")

	dbCfg, err := loadDatabase()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Database: *dbCfg,
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: parseAllowedOrigins(env),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 60*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret:              jwtSecret,
			SessionTokenExpiry:     getEnvAsDuration("SESSION_TOKEN_EXPIRY", 24*time.Hour),
			SuperadminTokenExpiry:  getEnvAsDuration("SUPERADMIN_TOKEN_EXPIRY", 2*time.Hour),
			OTPExpiry:              getEnvAsDuration("OTP_EXPIRY", 10*time.Minute),
			OTPSweepInterval:       getEnvAsDuration("OTP_SWEEP_INTERVAL", 15*time.Minute),
			BcryptCost:             getEnvAsInt("BCRYPT_COST", 12),
			SuperadminUsername:     getEnv("SUPERADMIN_USERNAME", ""),
			SuperadminPassword:     getEnv("SUPERADMIN_PASSWORD", ""),
			RateLimitPerMinute:     getEnvAsInt("AUTH_RATE_LIMIT_PER_MINUTE", 10),
			UserRateLimitPerMinute: getEnvAsInt("USER_RATE_LIMIT_PER_MINUTE", 120),
			TimingDelayBaseMs:      getEnvAsInt("TIMING_DELAY_BASE_MS", 100),
			TimingDelayRandomMs:    getEnvAsInt("TIMING_DELAY_RANDOM_MS", 50),
			TimingDelayOnSuccess:   getEnvAsBool("TIMING_DELAY_ON_SUCCESS", false),
		},
		Email: EmailConfig{
			AWSRegion:   getEnv("AWS_REGION", "us-east-1"),
			FromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),
		},
	}

	if cfg.Auth.SuperadminUsername == "" || cfg.Auth.SuperadminPassword == "" {
		return nil, fmt.Errorf("SUPERADMIN_USERNAME and SUPERADMIN_PASSWORD are required")
	}
	if cfg.Email.FromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required")
	}

	if cfg.Auth.OTPSweepInterval <= 0 {
		return nil, fmt.Errorf("OTP_SWEEP_INTERVAL must be positive, got %s", cfg.Auth.OTPSweepInterval)
	}

	// Validate JWT secret strength
	if err := validateJWTSecret(jwtSecret, env); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDatabase reads only the database settings. quizctl uses it for
// migrations, which need no auth or email configuration.
func LoadDatabase() (*DatabaseConfig, error) {
	_ = godotenv.Load()
	return loadDatabase()
}

func loadDatabase() (*DatabaseConfig, error) {
	cfg := &DatabaseConfig{
		Host:              getEnv("DB_HOST", "localhost"),
		Port:              getEnvAsInt("DB_PORT", 5432),
		User:              getEnv("DB_USER", "postgres"),
		Password:          getEnv("DB_PASSWORD", ""),
		Name:              getEnv("DB_NAME", "quiz"),
		SSLMode:           getEnv("DB_SSLMODE", "disable"),
		MaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 25)),
		MinConns:          int32(getEnvAsInt("DB_MIN_CONNS", 5)),
		MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
		MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
		HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", 1*time.Minute),
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	return cfg, nil
}

// validateJWTSecret enforces minimum security standards for JWT secret
func validateJWTSecret(secret, env string) error {
	minLength := 16
	if env == "production" {
		minLength = 32
	}

	if len(secret) < minLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters in %s environment (got %d)",
			minLength, env, len(secret))
	}

	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}

	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("JWT_SECRET cannot be a common weak value")
		}
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func parseAllowedOrigins(env string) []string {
	if originsStr := getEnv("ALLOWED_ORIGINS", ""); originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		return origins
	}

	if env == "production" {
		return []string{}
	}

	// React dev servers
	return []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
}
