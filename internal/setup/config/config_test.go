package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/memegrid/memegrid/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches the working directory for the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()

	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

const testCommonTOML = `[common]
version = 1

[common.debug]
log_level = "debug"
max_logs_to_keep = 5

[common.postgresql]
host = "127.0.0.1"
port = 5432
db_name = "memegrid_test"

[common.redis]
host = "127.0.0.1"
port = 6379

[common.storage]
endpoint = "127.0.0.1:9000"
bucket_name = "memes"

[common.gamification]
meme_created_xp = 10
meme_liked_xp = 2
comment_created_xp = 3
clawback = false
`

const testAPITOML = `[api]
version = 1
request_timeout = 5000
feed_page_size = 10
leaderboard_size = 50

[api.server]
host = "0.0.0.0"
port = 8080

[api.auth]
token_secret = "test-secret"
`

const testWorkerTOML = `[worker]
version = 1
rank_interval_seconds = 30
rank_stale_seconds = 25
reconcile_interval_seconds = 300
`

func writeConfigDir(t *testing.T, common, api, worker string) {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("HOME", dir)

	configDir := filepath.Join(dir, "config")
	require.NoError(t, os.Mkdir(configDir, 0o755))

	for name, content := range map[string]string{
		"common.toml": common,
		"api.toml":    api,
		"worker.toml": worker,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(configDir, name), []byte(content), 0o644))
	}

	chdir(t, dir)
}

func TestLoadConfig(t *testing.T) {
	writeConfigDir(t, testCommonTOML, testAPITOML, testWorkerTOML)

	cfg, usedPath, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "config", usedPath)

	assert.Equal(t, config.CurrentCommonVersion, cfg.Common.Version)
	assert.Equal(t, config.CurrentAPIVersion, cfg.API.Version)
	assert.Equal(t, config.CurrentWorkerVersion, cfg.Worker.Version)

	assert.Equal(t, "memegrid_test", cfg.Common.PostgreSQL.DBName)
	assert.Equal(t, "memes", cfg.Common.Storage.BucketName)
	assert.Equal(t, 8080, cfg.API.Server.Port)
	assert.Equal(t, "test-secret", cfg.API.Auth.TokenSecret)
	assert.Equal(t, 10, cfg.API.FeedPageSize)
	assert.Equal(t, 30, cfg.Worker.RankIntervalSeconds)

	rules, err := cfg.Common.Gamification.Rules()
	require.NoError(t, err)
	assert.Equal(t, int64(10), rules.MemeCreatedXP)
	assert.False(t, rules.Clawback)
}

func TestLoadConfigMissingFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	chdir(t, dir)

	_, _, err := config.LoadConfig()
	require.ErrorIs(t, err, config.ErrConfigFileNotFound)
}

func TestLoadConfigVersionMissing(t *testing.T) {
	// A file without its section table leaves the version unset.
	writeConfigDir(t, "version = 1\n", testAPITOML, testWorkerTOML)

	_, _, err := config.LoadConfig()
	require.ErrorIs(t, err, config.ErrConfigVersionMissing)
}

func TestLoadConfigVersionMismatch(t *testing.T) {
	writeConfigDir(t, "[common]\nversion = 99\n", testAPITOML, testWorkerTOML)

	_, _, err := config.LoadConfig()
	require.ErrorIs(t, err, config.ErrConfigVersionMismatch)
}
