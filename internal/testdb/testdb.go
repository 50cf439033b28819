package testdb

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/phrazzld/shop-api/internal/platform/mysql"
	"github.com/phrazzld/shop-api/internal/platform/postgres"
	"github.com/phrazzld/shop-api/internal/platform/redisbus"
	"github.com/phrazzld/shop-api/internal/redact"
	"github.com/redis/go-redis/v9"
)

// Environment variables that enable the integration suites.
const (
	EnvPostgresURL = "SHOP_TEST_POSTGRES_URL"
	EnvMySQLDSN    = "SHOP_TEST_MYSQL_DSN"
	EnvRedisURL    = "SHOP_TEST_REDIS_URL"
)

// TestTimeout bounds connection and migration work in tests.
const TestTimeout = 30 * time.Second

// RequireEnv returns the value of name or skips the test when it is unset.
func RequireEnv(t *testing.T, name string) string {
	t.Helper()
	value := os.Getenv(name)
	if value == "" {
		t.Skipf("%s not set, skipping integration test", name)
	}
	return value
}

// OpenPostgres connects to the PostgreSQL test database, applies migrations
// and closes the connection when the test ends.
func OpenPostgres(t *testing.T) *sql.DB {
	t.Helper()
	url := RequireEnv(t, EnvPostgresURL)

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, url)
	if err != nil {
		t.Fatalf("failed to open postgres test database: %s", redact.Error(err))
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := postgres.Migrate(ctx, db, nil); err != nil {
		t.Fatalf("failed to migrate postgres test database: %s", redact.Error(err))
	}
	return db
}

// OpenMySQL connects to the MySQL test database, applies migrations and
// closes the connection when the test ends.
func OpenMySQL(t *testing.T) *sql.DB {
	t.Helper()
	dsn := RequireEnv(t, EnvMySQLDSN)

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := mysql.Open(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to open mysql test database: %s", redact.Error(err))
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := mysql.Migrate(ctx, db, nil); err != nil {
		t.Fatalf("failed to migrate mysql test database: %s", redact.Error(err))
	}
	return db
}

// OpenRedis connects to the Redis test server and closes the client when the
// test ends.
func OpenRedis(t *testing.T) *redis.Client {
	t.Helper()
	url := RequireEnv(t, EnvRedisURL)

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	client, err := redisbus.Open(ctx, url)
	if err != nil {
		t.Fatalf("failed to open redis test client: %s", redact.Error(err))
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}
