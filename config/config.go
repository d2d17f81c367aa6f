package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

const (
	// MinJWTSecretLength is the minimum required length for the token signing secret in production
	MinJWTSecretLength = 32
)

type Config struct {
	ServerPort  string
	DBPath      string
	Environment string
	UploadDir   string
	LogLevel    string
	// Remote database (Turso/libSQL)
	TursoDatabaseURL string
	TursoAuthToken   string
	// HTTP
	AllowedOrigins []string
	// CIDR ranges whose X-Forwarded-For is trusted; empty means use the connection address
	TrustedProxies []string
	// Tokens
	JWTSecret            string
	AccessTokenLifetime  time.Duration
	RefreshTokenLifetime time.Duration
	// When true drafts and attachments are only visible to the user who created them
	ScopeToOwner bool
	// Postal code lookup (ViaCEP)
	ViaCEPBaseURL  string
	ViaCEPTimeout  time.Duration
	ViaCEPCacheTTL time.Duration
	// Document conversion
	PandocPath       string
	ConverterTimeout time.Duration
	ScratchDir       string
	ChromePath       string
	// Cloudflare R2 Storage
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string
	// Tracing
	OTLPEndpoint string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using system environment variables")
	}

	environment := getEnv("ENVIRONMENT", "development")
	jwtSecret := getEnv("JWT_SECRET", "")

	if err := ValidateJWTSecret(jwtSecret, environment); err != nil {
		log.Fatalf("[CRITICAL] %v", err)
	}

	// In development, generate a secure secret if none provided
	if jwtSecret == "" && environment != "production" {
		jwtSecret = GenerateSecureSecret()
		log.Info("[INFO] Generated temporary JWT secret for development. Set JWT_SECRET env var so tokens survive restarts.")
	}

	return &Config{
		ServerPort:           getEnv("SERVER_PORT", "8000"),
		DBPath:               getEnv("DB_PATH", "db/contratos.db"),
		Environment:          environment,
		UploadDir:            getEnv("UPLOAD_DIR", "media"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		TursoDatabaseURL:     getEnv("TURSO_DATABASE_URL", ""),
		TursoAuthToken:       os.Getenv("TURSO_AUTH_TOKEN"),
		AllowedOrigins:       strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173"), ","),
		TrustedProxies:       getEnvList("TRUSTED_PROXIES"),
		JWTSecret:            jwtSecret,
		AccessTokenLifetime:  getEnvDuration("ACCESS_TOKEN_LIFETIME", 60*time.Minute),
		RefreshTokenLifetime: getEnvDuration("REFRESH_TOKEN_LIFETIME", 24*time.Hour),
		ScopeToOwner:         getEnvBool("SCOPE_TO_OWNER", false),
		ViaCEPBaseURL:        getEnv("VIACEP_BASE_URL", "https://viacep.com.br/ws"),
		ViaCEPTimeout:        getEnvDuration("VIACEP_TIMEOUT", 10*time.Second),
		ViaCEPCacheTTL:       getEnvDuration("VIACEP_CACHE_TTL", time.Hour),
		PandocPath:           getEnv("PANDOC_PATH", "pandoc"),
		ConverterTimeout:     getEnvDuration("CONVERTER_TIMEOUT", 60*time.Second),
		ScratchDir:           getEnv("SCRATCH_DIR", filepath.Join(os.TempDir(), "contratos-export")),
		ChromePath:           os.Getenv("CHROME_PATH"),
		R2AccountID:          getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:        getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey:    os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:         getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:          getEnv("R2_PUBLIC_URL", ""),
		OTLPEndpoint:         getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Using default value for %s: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

// getEnvList splits a comma separated value, dropping blanks
func getEnvList(key string) []string {
	var items []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// getEnvDuration accepts Go durations ("90s", "1h") or a bare number of seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Warnf("[WARNING] Invalid duration for %s: %q, using %s", key, value, defaultValue)
	return defaultValue
}

// ValidateJWTSecret checks the token signing secret.
// In production it must be at least 32 bytes and not a known insecure default.
func ValidateJWTSecret(secret string, environment string) error {
	insecureDefaults := []string{
		"dev-secret-change-in-production",
		"change-me",
		"secret",
		"development",
		"test",
		"",
	}

	for _, insecure := range insecureDefaults {
		if strings.EqualFold(secret, insecure) {
			if environment == "production" {
				return fmt.Errorf("JWT_SECRET is set to an insecure default value. Generate a secure random secret with: openssl rand -base64 32")
			}
			if secret != "" {
				log.Warn("[WARNING] JWT_SECRET is set to an insecure default value. This is acceptable only in development.")
			}
			return nil
		}
	}

	if environment == "production" && len(secret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters in production (current: %d)", MinJWTSecretLength, len(secret))
	}

	return nil
}

// GenerateSecureSecret generates a cryptographically secure random secret
// This is used only for development when no secret is provided
func GenerateSecureSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Warnf("[WARNING] Failed to generate secure secret: %v", err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(bytes)
}
