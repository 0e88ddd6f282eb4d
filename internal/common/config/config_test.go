package config

import (
	"errors"
	"testing"
	"time"

	"github.com/AlibekovAA/taskflow/backend/internal/common/constants"
	commonerrors "github.com/AlibekovAA/taskflow/backend/internal/common/errors"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", constants.TestJWTSecret)
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("APP_TIMEZONE", "UTC")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.HTTPPort != constants.DefaultHTTPPort {
		t.Errorf("expected port %s, got %s", constants.DefaultHTTPPort, cfg.HTTPPort)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Errorf("expected 15m access token ttl, got %v", cfg.AccessTokenTTL)
	}
	if cfg.ProjectWriteMode != WriteModeLastWriterWins {
		t.Errorf("expected default write mode %s, got %s", WriteModeLastWriterWins, cfg.ProjectWriteMode)
	}
	if cfg.BcryptCost != constants.DefaultBcryptCost {
		t.Errorf("expected bcrypt cost %d, got %d", constants.DefaultBcryptCost, cfg.BcryptCost)
	}
	if cfg.Location != time.UTC {
		t.Errorf("expected UTC location, got %v", cfg.Location)
	}
}

func TestLoadConfig_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORAGE_BACKEND", "memory")

	_, err := LoadConfig()
	if !errors.Is(err, commonerrors.ErrMissingRequiredEnv) {
		t.Fatalf("expected ErrMissingRequiredEnv, got %v", err)
	}
}

func TestLoadConfig_ShortJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	_, err := LoadConfig()
	if !errors.Is(err, commonerrors.ErrInvalidJWTSecret) {
		t.Fatalf("expected ErrInvalidJWTSecret, got %v", err)
	}
}

func TestLoadConfig_PostgresRequiresDatabaseURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := LoadConfig()
	if !errors.Is(err, commonerrors.ErrMissingRequiredEnv) {
		t.Fatalf("expected ErrMissingRequiredEnv, got %v", err)
	}
}

func TestLoadConfig_MongoBackend(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORAGE_BACKEND", "Mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_DATABASE", "boards")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.StorageBackend != StorageBackendMongo {
		t.Errorf("expected mongo backend, got %s", cfg.StorageBackend)
	}
	if cfg.MongoDatabase != "boards" {
		t.Errorf("expected database boards, got %s", cfg.MongoDatabase)
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	testCases := []struct {
		name string
		key  string
		val  string
	}{
		{name: "unknown backend", key: "STORAGE_BACKEND", val: "redis"},
		{name: "unknown write mode", key: "PROJECT_WRITE_MODE", val: "locking"},
		{name: "unknown timezone", key: "APP_TIMEZONE", val: "Mars/Olympus"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tc.key, tc.val)

			_, err := LoadConfig()
			if !errors.Is(err, commonerrors.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestGetDurationEnv_FallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_TIMEOUT", "soon")

	if got := getDurationEnv("SOME_TIMEOUT", 3*time.Second); got != 3*time.Second {
		t.Errorf("expected fallback 3s, got %v", got)
	}
}
