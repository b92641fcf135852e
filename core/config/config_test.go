package config

import (
	"os"
	"path/filepath"
	"testing"

	"schema-sentinel/core/database"
	"schema-sentinel/core/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateEnv makes sure keys touched by a test are restored afterwards.
func isolateEnv(t *testing.T, keys ...string) {
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolateEnv(t, "SNAPSHOT_BACKEND", "DATABASE_DRIVER", "TRACK_CLASS_EXTENSION", "SERVER_PORT")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, database.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, snapshot.BackendSQL, cfg.Snapshot.Backend)
	assert.Equal(t, "schema_baseline", cfg.Snapshot.Table)
	assert.Equal(t, "java", cfg.Track.ClassExtension)
	assert.Equal(t, 8, cfg.Track.Workers)
	assert.Equal(t, ".", cfg.Track.BaseDir)
	assert.False(t, cfg.Storage.UseSSL)

	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvFile(t *testing.T) {
	isolateEnv(t, "SNAPSHOT_BACKEND", "TRACK_IMPORT_FILES", "REDIS_DB", "TRACK_RESOURCE_FOLDERS")

	dir := t.TempDir()
	env := "SNAPSHOT_BACKEND=redis\nTRACK_IMPORT_FILES=import.sql, data.sql\nREDIS_DB=3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, snapshot.BackendRedis, cfg.Snapshot.Backend)
	assert.Equal(t, "import.sql, data.sql", cfg.Track.ImportFiles)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("TRACK_RESOURCE_FOLDERS", "db,extra")
	t.Setenv("SERVER_API_KEY", "secret")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "db,extra", cfg.Track.ResourceFolders)
	assert.Equal(t, "secret", cfg.Server.ApiKey)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		driver  string
		wantErr bool
	}{
		{"SQLite", snapshot.BackendSQL, database.DriverSQLite, false},
		{"MySQL", snapshot.BackendSQL, database.DriverMySQL, false},
		{"UnknownDriver", snapshot.BackendSQL, "postgres", true},
		{"RedisIgnoresDriver", snapshot.BackendRedis, "postgres", false},
		{"UnknownBackend", "etcd", database.DriverSQLite, true},
		{"ObjectWithoutBucket", snapshot.BackendObject, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Snapshot.Backend = tt.backend
			cfg.Database.Driver = tt.driver
			cfg.Storage.Endpoint = "localhost:9000"
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestBindValues_RegistersNestedKeys(t *testing.T) {
	isolateEnv(t, "SNAPSHOT_BACKEND")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "snapshot/baseline.msgpack", cfg.Snapshot.ObjectName)
	assert.Equal(t, "schema-sentinel:baseline", cfg.Snapshot.RedisKey)
}
