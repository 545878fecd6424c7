// Package testutil wires integration tests to the local Postgres and Redis
// instances from docker-compose. Tests skip themselves when the backing
// services are unreachable unless TEST_REQUIRE_INFRA forces a failure.
package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	// pgx stdlib driver so tests share the production driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/samprabha/portal/internal/migrate"
)

// TestingTB covers the subset of *testing.T and *testing.B these helpers use.
type TestingTB interface {
	Helper()
	Skip(args ...interface{})
	Skipf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Logf(format string, args ...interface{})
}

// dbConfig describes how to reach the test database. Defaults target the
// docker-compose test profile on port 55432; CI overrides via TEST_DB_* vars.
type dbConfig struct {
	host     string
	port     string
	user     string
	password string
	dbName   string
}

func testDBConfig() dbConfig {
	return dbConfig{
		host:     envOr("TEST_DB_HOST", "localhost"),
		port:     envOr("TEST_DB_PORT", "55432"),
		user:     envOr("TEST_DB_USER", "samprabha"),
		password: envOr("TEST_DB_PASSWORD", "samprabha"),
		dbName:   envOr("TEST_DB_NAME", "samprabha"),
	}
}

func (c dbConfig) dsn() string {
	hostPort := net.JoinHostPort(c.host, c.port)
	sslMode := envOr("DB_SSL_MODE", "disable")
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		c.user, c.password, hostPort, c.dbName, sslMode)
}

// SkipIfNoTestDB skips the test when the test database is unreachable.
// With TEST_REQUIRE_DB or TEST_REQUIRE_INFRA set, it fails instead.
func SkipIfNoTestDB(t TestingTB) {
	t.Helper()

	db, err := sql.Open("pgx", testDBConfig().dsn())
	if err != nil {
		skipOrFailDB(t, err)
		return
	}
	defer closeQuietly(t, "test db", db)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		skipOrFailDB(t, err)
	}
}

func skipOrFailDB(t TestingTB, err error) {
	if requireDB() {
		t.Fatal("Test database not available:", err)
	}
	t.Skip("Test database not available:", err)
}

// WithAutoDB runs fn against a migrated database. With TEST_DB_EPHEMERAL set,
// each test gets its own schema that is dropped afterwards; otherwise tests
// share the compose database and rows are wiped between tests.
func WithAutoDB(t TestingTB, fn func(*sql.DB)) {
	t.Helper()
	if envBool("TEST_DB_EPHEMERAL") {
		fn(setupEphemeralSchemaDB(t))
		return
	}

	db := setupSharedDB(t)
	defer func() {
		truncateTables(t, db)
		closeQuietly(t, "test db", db)
	}()
	fn(db)
}

// setupSharedDB connects to the compose database, applies migrations, and
// clears any rows left behind by earlier runs.
func setupSharedDB(t TestingTB) *sql.DB {
	t.Helper()
	SkipIfNoTestDB(t)

	db, err := sql.Open("pgx", testDBConfig().dsn())
	if err != nil {
		t.Fatal("Failed to open test database:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Fatal("Failed to connect to test database (is docker-compose up?):", err)
	}
	if err := migrate.Run(ctx, db); err != nil {
		t.Fatal("Failed to run migrations:", err)
	}

	truncateTables(t, db)
	return db
}

// truncateTables clears test data in child-before-parent order.
func truncateTables(t TestingTB, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, table := range []string{"user_documents", "accounts"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			t.Fatalf("Failed to clear table %s: %v", table, err)
		}
	}
}

// setupEphemeralSchemaDB creates a throwaway schema, migrates it, and points
// the returned connection's search_path at it. The schema is dropped when the
// test finishes.
func setupEphemeralSchemaDB(t TestingTB) *sql.DB {
	t.Helper()
	SkipIfNoTestDB(t)

	cfg := testDBConfig()

	adminDB, err := sql.Open("pgx", cfg.dsn())
	if err != nil {
		t.Fatal("Failed to open admin connection:", err)
	}

	schema := ephemeralSchemaName()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := adminDB.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+schema); err != nil {
		closeQuietly(t, "admin db", adminDB)
		t.Fatalf("Failed to create schema %s: %v", schema, err)
	}

	db := openSchemaScopedDB(t, cfg, schema, adminDB)

	// Register cleanup before migrating so the schema is dropped even when
	// migrations fail.
	registerCleanup(t, func() {
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dropCancel()

		closeQuietly(t, "schema db", db)
		if _, err := adminDB.ExecContext(dropCtx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("warning: failed to drop schema %s: %v", schema, err)
		}
		closeQuietly(t, "admin db", adminDB)
	})

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer migrateCancel()
	if err := migrate.Run(migrateCtx, db); err != nil {
		t.Fatalf("Failed to migrate schema %s: %v", schema, err)
	}

	t.Logf("Using ephemeral schema %s", schema)
	return db
}

func openSchemaScopedDB(t TestingTB, cfg dbConfig, schema string, adminDB *sql.DB) *sql.DB {
	u, err := url.Parse(cfg.dsn())
	if err != nil {
		closeQuietly(t, "admin db", adminDB)
		t.Fatal("Failed to parse DSN:", err)
	}
	q := u.Query()
	q.Set("search_path", schema+",public")
	u.RawQuery = q.Encode()

	db, err := sql.Open("pgx", u.String())
	if err != nil {
		closeQuietly(t, "admin db", adminDB)
		t.Fatal("Failed to open schema-scoped connection:", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		closeQuietly(t, "schema db", db)
		closeQuietly(t, "admin db", adminDB)
		t.Fatal("Failed to ping schema-scoped connection:", err)
	}
	return db
}

func ephemeralSchemaName() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("t_%d", time.Now().UnixNano())
	}
	return "t_" + hex.EncodeToString(b)
}

// SetupTestRedis returns a Redis client on an isolated DB index, flushed
// before use. Tests skip when no Redis instance responds.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	addr, ok := findTestRedis(t)
	if !ok {
		if requireRedis() {
			t.Fatal("Redis not available for testing")
		}
		t.Skip("Redis not available for testing")
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   reserveRedisDB(t, addr),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		closeQuietly(t, "redis client", client)
		if requireRedis() {
			t.Fatalf("Redis not available for testing at %s: %v", addr, err)
		}
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}

	client.FlushDB(ctx)
	return client
}

// findTestRedis probes REDIS_ADDR, then common compose addresses, then the
// local test instance on 56379.
func findTestRedis(t TestingTB) (string, bool) {
	t.Helper()

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr, pingRedis(t, addr)
	}

	for _, addr := range []string{"redis:6379", "localhost:6379"} {
		if pingRedis(t, addr) {
			return addr, true
		}
	}

	addr := "localhost:56379"
	return addr, pingRedis(t, addr)
}

func pingRedis(t TestingTB, addr string) bool {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer closeQuietly(t, "redis probe", client)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Logf("Redis not available at %s: %v", addr, err)
		return false
	}
	return true
}

// reserveRedisDB picks a DB index in [1..15] for this test run so packages
// flushing their DB cannot clobber each other. Reservations live as lock keys
// in DB 0, which the tests never flush. TEST_REDIS_DB overrides the choice.
func reserveRedisDB(t TestingTB, addr string) int {
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
		t.Logf("Invalid TEST_REDIS_DB=%q, auto-selecting instead", v)
	}

	meta := redis.NewClient(&redis.Options{Addr: addr, DB: 0})
	defer closeQuietly(t, "redis meta client", meta)

	for i := 1; i <= 15; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		lockKey := fmt.Sprintf("samprabha:testutil:db_lock:%d", i)
		lockVal := fmt.Sprintf("%d:%d", os.Getpid(), time.Now().UnixNano())
		ok, err := meta.SetNX(ctx, lockKey, lockVal, 30*time.Minute).Result()
		cancel()
		if err != nil || !ok {
			continue
		}

		registerCleanup(t, func() {
			c := redis.NewClient(&redis.Options{Addr: addr, DB: 0})
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := c.Del(ctx, lockKey).Err(); err != nil {
				t.Logf("warning: failed to release redis db lock %s: %v", lockKey, err)
			}
			closeQuietly(t, "redis lock client", c)
		})
		t.Logf("Using Redis DB=%d for tests at %s", i, addr)
		return i
	}

	t.Logf("All Redis DB locks taken at %s, falling back to DB=1", addr)
	return 1
}

// registerCleanup uses t.Cleanup when available. Bare TestingTB values
// without Cleanup leak the resources; only the real testing types are
// expected here.
func registerCleanup(t TestingTB, fn func()) {
	if tc, ok := any(t).(interface{ Cleanup(func()) }); ok {
		tc.Cleanup(fn)
		return
	}
	t.Logf("warning: no Cleanup support, skipping deferred cleanup")
}

func closeQuietly(t TestingTB, name string, closer interface{ Close() error }) {
	if err := closer.Close(); err != nil {
		t.Logf("warning: failed to close %s: %v", name, err)
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

func requireDB() bool    { return envBool("TEST_REQUIRE_DB") || envBool("TEST_REQUIRE_INFRA") }
func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }

// TestTime is the fixed timestamp repository tests pin their clocks to.
func TestTime() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

// StringPtr returns a pointer to s, for optional request fields.
func StringPtr(s string) *string {
	return &s
}
