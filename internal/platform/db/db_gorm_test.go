package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestBuildDSN_TCP verifies the DSN for a Postgres server reached over TCP.
func TestBuildDSN_TCP(t *testing.T) {
	t.Parallel()

	cfg := Config{
		User:     "testuser",
		Password: "testpass",
		Name:     "testdb",
		Host:     "localhost",
		Port:     "5432",
		SSLMode:  "disable",
	}

	dsn := BuildDSN(cfg)

	expected := "host=localhost user=testuser password=testpass dbname=testdb sslmode=disable port=5432"
	if dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

// TestBuildDSN_CloudSQL verifies the unix socket DSN and that it wins over Host and Port.
func TestBuildDSN_CloudSQL(t *testing.T) {
	t.Parallel()

	cfg := Config{
		User:         "testuser",
		Password:     "testpass",
		Name:         "testdb",
		Host:         "localhost",
		Port:         "5432",
		SSLMode:      "disable",
		InstanceName: "project:region:instance",
	}

	dsn := BuildDSN(cfg)

	expected := "host=/cloudsql/project:region:instance user=testuser password=testpass dbname=testdb sslmode=disable"
	if dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

// TestConnectWithRetry_SuccessOnFirstTry verifies no retry happens when the first attempt succeeds.
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 1, attempts)
}

// TestConnectWithRetry_RetriesOnFailure verifies the opener is retried until it succeeds.
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	// Not parallel because this test takes time due to retry sleeps

	mockDB := &gorm.DB{}
	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	// Allows two retries at the 3s interval
	db, err := ConnectWithRetry("test-dsn", 10*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 3, attempts)
}

// TestConnectWithRetry_TimeoutAfterRetries verifies an error once the deadline passes.
func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	t.Parallel()

	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		return nil, errors.New("connection refused")
	}

	_, err := ConnectWithRetry("test-dsn", 100*time.Millisecond, opener)

	require.Error(t, err)
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, 1, attempts)
}

// TestLoadConfigFromEnv verifies the settings are read from the environment.
func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_USER", "envuser")
	t.Setenv("DB_PASSWORD", "envpass")
	t.Setenv("DB_NAME", "envdb")
	t.Setenv("DB_HOST", "envhost")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_SSLMODE", "require")
	t.Setenv("INSTANCE_CONNECTION_NAME", "")
	t.Setenv("RUN_MIGRATIONS", "true")

	cfg := LoadConfigFromEnv()

	assert.Equal(t, Config{
		Driver:        DriverPostgres,
		User:          "envuser",
		Password:      "envpass",
		Name:          "envdb",
		Host:          "envhost",
		Port:          "5433",
		SSLMode:       "require",
		SQLitePath:    defaultSQLitePath,
		RunMigrations: true,
	}, cfg)
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"DB_DRIVER", "DB_SSLMODE", "SQLITE_PATH", "RUN_MIGRATIONS"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfigFromEnv()

	assert.Equal(t, DriverSQLite, cfg.Driver)
	assert.Equal(t, defaultSQLitePath, cfg.SQLitePath)
	assert.Equal(t, "disable", cfg.SSLMode)
	assert.True(t, cfg.RunMigrations, "sqlite migrates by default")
}

type widget struct {
	ID   uint
	Name string `gorm:"uniqueIndex"`
}

func TestOpenDB_SQLiteMemory(t *testing.T) {
	db, err := OpenDB(Config{Driver: DriverSQLite, SQLitePath: ":memory:", RunMigrations: true}, &widget{})
	require.NoError(t, err)

	require.NoError(t, db.Create(&widget{Name: "a"}).Error)
	err = db.Create(&widget{Name: "a"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey, "errors are translated")

	assert.NoError(t, PingFunc(db)(context.Background()))
}

func TestOpenDB_UnsupportedDriver(t *testing.T) {
	_, err := OpenDB(Config{Driver: "oracle"})

	assert.ErrorContains(t, err, "unsupported")
}
