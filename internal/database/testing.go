package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yourusername/martingale-lab/internal/config"
)

// TestDSNEnv names the variable holding the integration test database host
const TestDSNEnv = "MARTINGALE_TEST_DB_HOST"

// SetupTestDB connects to the integration database or skips the test when none is configured
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	host := os.Getenv(TestDSNEnv)
	if host == "" {
		t.Skipf("%s not set, skipping database integration test", TestDSNEnv)
	}

	cfg := &config.DatabaseConfig{
		Enabled:  true,
		Host:     host,
		Port:     5432,
		Name:     envOr("MARTINGALE_TEST_DB_NAME", "martingale_test"),
		User:     envOr("MARTINGALE_TEST_DB_USER", "postgres"),
		Password: os.Getenv("MARTINGALE_TEST_DB_PASSWORD"),
		SSLMode:  "disable",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(db.Close)
	return db
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
