package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AlibekovAA/taskflow/backend/internal/common/constants"
	commonerrors "github.com/AlibekovAA/taskflow/backend/internal/common/errors"
)

const (
	StorageBackendPostgres = "postgres"
	StorageBackendMongo    = "mongo"
	StorageBackendMemory   = "memory"

	WriteModeLastWriterWins = "last_writer_wins"
	WriteModeOptimistic     = "optimistic"
)

type Config struct {
	HTTPPort       string
	StorageBackend string
	DatabaseURL    string
	MongoURI       string
	MongoDatabase  string
	JWTSecret      string
	AccessTokenTTL time.Duration
	RequestTimeout time.Duration
	AllowedOrigin  string
	BcryptCost     int
	Location       *time.Location

	ProjectWriteMode    string
	ProjectWriteRetries int

	CircuitBreakerThreshold int32
	CircuitBreakerTimeout   time.Duration
	CircuitBreakerReset     time.Duration
}

func LoadConfig() (Config, error) {
	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return Config{}, err
	}

	if err := validateJWTSecret(jwtSecret); err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTPPort:                getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		StorageBackend:          strings.ToLower(getEnv("STORAGE_BACKEND", StorageBackendPostgres)),
		MongoDatabase:           getEnv("MONGO_DATABASE", constants.DefaultMongoDatabase),
		JWTSecret:               jwtSecret,
		AccessTokenTTL:          getDurationEnv("ACCESS_TOKEN_TTL", constants.DefaultAccessTokenTTL),
		RequestTimeout:          getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		AllowedOrigin:           getEnv("ORIGIN", ""),
		BcryptCost:              getIntEnv("BCRYPT_COST", constants.DefaultBcryptCost),
		ProjectWriteMode:        strings.ToLower(getEnv("PROJECT_WRITE_MODE", WriteModeLastWriterWins)),
		ProjectWriteRetries:     getIntEnv("PROJECT_WRITE_RETRIES", constants.DefaultProjectWriteRetries),
		CircuitBreakerThreshold: int32(getIntEnv("CB_THRESHOLD", constants.DefaultCircuitBreakerThreshold)),
		CircuitBreakerTimeout:   getDurationEnv("CB_TIMEOUT", constants.DefaultCircuitBreakerTimeout),
		CircuitBreakerReset:     getDurationEnv("CB_RESET", constants.DefaultCircuitBreakerReset),
	}

	switch cfg.StorageBackend {
	case StorageBackendPostgres:
		if cfg.DatabaseURL, err = mustEnv("DATABASE_URL"); err != nil {
			return Config{}, err
		}
	case StorageBackendMongo:
		if cfg.MongoURI, err = mustEnv("MONGO_URI"); err != nil {
			return Config{}, err
		}
	case StorageBackendMemory:
	default:
		return Config{}, invalid("STORAGE_BACKEND", cfg.StorageBackend)
	}

	switch cfg.ProjectWriteMode {
	case WriteModeLastWriterWins, WriteModeOptimistic:
	default:
		return Config{}, invalid("PROJECT_WRITE_MODE", cfg.ProjectWriteMode)
	}

	loc, err := time.LoadLocation(getEnv("APP_TIMEZONE", "Local"))
	if err != nil {
		return Config{}, commonerrors.ErrInvalidConfig.WithMessage("invalid APP_TIMEZONE").WithCause(err)
	}
	cfg.Location = loc

	return cfg, nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return commonerrors.ErrInvalidJWTSecret.WithCause(fmt.Errorf("got %d bytes", len(secret)))
	}
	return nil
}

func invalid(key, value string) error {
	return commonerrors.ErrInvalidConfig.WithMessage(fmt.Sprintf("invalid %s: %q", key, value))
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", commonerrors.ErrMissingRequiredEnv.WithMessage("missing required environment variable: " + key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
