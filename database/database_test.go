package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exostandards/logging"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(&logging.Config{Level: "error"})
}

func TestParseMigrationName(t *testing.T) {
	tests := []struct {
		file        string
		wantVersion int64
		wantName    string
		wantErr     string
	}{
		{file: "1_init.sql", wantVersion: 1, wantName: "1_init"},
		{file: "12_add_alert_index.sql", wantVersion: 12, wantName: "12_add_alert_index"},
		{file: "README.md", wantErr: "non-migration file"},
		{file: "init.sql", wantErr: "malformed migration filename"},
		{file: "x_init.sql", wantErr: "failed to parse version"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			version, name, err := parseMigrationName(tt.file)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, version)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestGetMigrations_Embedded(t *testing.T) {
	migrations, err := getMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, int64(1), migrations[0].Version)
	assert.Contains(t, migrations[0].SQL, "standard_logs")
}

func TestBuildDSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Path = "/tmp/x.db"
	assert.Equal(t, "file:/tmp/x.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", buildDSN(cfg))

	cfg.EnableWAL = false
	assert.NotContains(t, buildDSN(cfg), "journal_mode")
}

func TestNew_ReopenIsIdempotent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Path = filepath.Join(t.TempDir(), "standards.db")

	db, err := New(cfg, testLogger())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = New(cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var applied int
	require.NoError(t, db.ReadDB().QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 1, applied)

	stats, err := db.Health(context.Background())
	require.NoError(t, err)
	assert.Contains(t, stats, "read_pool")
	assert.Contains(t, stats, "write_pool")
}
