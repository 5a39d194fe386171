// Package config loads the application configuration from TOML files.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/memegrid/memegrid/internal/gamification"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
)

// RepositoryVersion is the repository version tag for config file references.
const RepositoryVersion = "v0.1.0"

// Current version of the config file.
const (
	CurrentCommonVersion = 1
	CurrentAPIVersion    = 1
	CurrentWorkerVersion = 1
)

// Config represents the entire application configuration.
type Config struct {
	Common CommonConfig
	API    APIConfig
	Worker WorkerConfig
}

// CommonConfig contains configuration shared between the API server and
// worker.
type CommonConfig struct {
	// Version of the common config.
	Version      int          `koanf:"version"`
	Debug        Debug        `koanf:"debug"`
	PostgreSQL   PostgreSQL   `koanf:"postgresql"`
	Redis        Redis        `koanf:"redis"`
	Storage      Storage      `koanf:"storage"`
	Gamification Gamification `koanf:"gamification"`
}

// APIConfig contains API server specific configuration.
type APIConfig struct {
	// Version of the api config.
	Version int `koanf:"version"`
	// Request timeout in milliseconds.
	RequestTimeout int `koanf:"request_timeout"`
	// Serving address and port.
	Server Server `koanf:"server"`
	// Token verification settings.
	Auth Auth `koanf:"auth"`
	// Number of memes per feed page.
	FeedPageSize int `koanf:"feed_page_size"`
	// Number of profiles on the leaderboard.
	LeaderboardSize int `koanf:"leaderboard_size"`
}

// WorkerConfig contains worker specific configuration.
type WorkerConfig struct {
	// Version of the worker config.
	Version int `koanf:"version"`
	// Startup delay in milliseconds.
	StartupDelay int `koanf:"startup_delay"`
	// Seconds between rank refresh passes.
	RankIntervalSeconds int `koanf:"rank_interval_seconds"`
	// Seconds after which the rank snapshot counts as stale.
	RankStaleSeconds int `koanf:"rank_stale_seconds"`
	// Seconds between counter reconciliation sweeps.
	ReconcileIntervalSeconds int `koanf:"reconcile_interval_seconds"`
	// Number of memes per reconciliation batch.
	ReconcileBatchSize int `koanf:"reconcile_batch_size"`
	// Concurrent reconciliation workers per sweep.
	ReconcileConcurrency int `koanf:"reconcile_concurrency"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Maximum log files to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
	// Enable pprof debugging.
	EnablePprof bool `koanf:"enable_pprof"`
	// pprof server port.
	PprofPort int `koanf:"pprof_port"`
}

// PostgreSQL contains database connection configuration.
type PostgreSQL struct {
	// Database hostname.
	Host string `koanf:"host"`
	// Database port.
	Port int `koanf:"port"`
	// Database username.
	User string `koanf:"user"`
	// Database password.
	Password string `koanf:"password"`
	// Database name.
	DBName string `koanf:"db_name"`
	// Maximum open connections.
	MaxOpenConns int `koanf:"max_open_conns"`
	// Maximum idle connections.
	MaxIdleConns int `koanf:"max_idle_conns"`
	// Connection lifetime in minutes.
	MaxLifetime int `koanf:"max_lifetime"`
	// Idle timeout in minutes.
	MaxIdleTime int `koanf:"max_idle_time"`
}

// Redis contains Redis connection configuration.
type Redis struct {
	// Redis hostname.
	Host string `koanf:"host"`
	// Redis port.
	Port int `koanf:"port"`
	// Redis username.
	Username string `koanf:"username"`
	// Redis password.
	Password string `koanf:"password"`
}

// Storage contains S3-compatible object storage configuration.
type Storage struct {
	// S3-compatible endpoint.
	Endpoint string `koanf:"endpoint"`
	// Access key ID for S3 authentication.
	AccessKeyID string `koanf:"access_key_id"`
	// Secret access key for S3 authentication.
	SecretAccessKey string `koanf:"secret_access_key"`
	// Bucket name for meme images.
	BucketName string `koanf:"bucket_name"`
	// Region (usually "auto" for R2-style storage).
	Region string `koanf:"region"`
	// Use SSL for connections.
	UseSSL bool `koanf:"use_ssl"`
	// Public base URL images are served from.
	PublicBaseURL string `koanf:"public_base_url"`
}

// Server contains HTTP serving configuration.
type Server struct {
	// Address to bind to.
	Host string `koanf:"host"`
	// Port to listen on.
	Port int `koanf:"port"`
}

// Auth contains token verification configuration.
type Auth struct {
	// HMAC secret used to verify bearer tokens.
	TokenSecret string `koanf:"token_secret"`
}

// Gamification contains experience and leveling configuration.
type Gamification struct {
	// Experience awarded for uploading a meme.
	MemeCreatedXP int64 `koanf:"meme_created_xp"`
	// Experience awarded to the author when their meme is liked.
	MemeLikedXP int64 `koanf:"meme_liked_xp"`
	// Experience awarded for posting a comment.
	CommentCreatedXP int64 `koanf:"comment_created_xp"`
	// Whether deleting content claws back the experience it earned.
	Clawback bool `koanf:"clawback"`
	// Cumulative experience required for each level past the first.
	LevelBreakpoints []int64 `koanf:"level_breakpoints"`
}

// Rules converts the TOML gamification section into the engine
// configuration, falling back to defaults for unset fields.
func (g *Gamification) Rules() (gamification.Config, error) {
	rules := gamification.DefaultConfig()

	if g.MemeCreatedXP > 0 {
		rules.MemeCreatedXP = g.MemeCreatedXP
	}

	if g.MemeLikedXP > 0 {
		rules.MemeLikedXP = g.MemeLikedXP
	}

	if g.CommentCreatedXP > 0 {
		rules.CommentCreatedXP = g.CommentCreatedXP
	}

	rules.Clawback = g.Clawback

	if len(g.LevelBreakpoints) > 0 {
		if err := gamification.ValidateBreakpoints(g.LevelBreakpoints); err != nil {
			return rules, fmt.Errorf("invalid level breakpoints: %w", err)
		}

		rules.LevelBreakpoints = g.LevelBreakpoints
	}

	return rules, nil
}

// LoadConfig loads the configuration from the specified file.
// Returns the config along with the used config directory.
func LoadConfig() (*Config, string, error) {
	k := koanf.New(".")

	// Get user's home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	// List search paths
	configPaths := []string{
		".memegrid",
		homeDir + "/.memegrid/config",
		"/etc/memegrid/config",
		"/app/config",
		"config",
		".",
	}

	// Load all config files
	var usedConfigPath string

	configFiles := []string{"common", "api", "worker"}
	for _, configName := range configFiles {
		configLoaded := false

		for _, path := range configPaths {
			configPath := fmt.Sprintf("%s/%s.toml", path, configName)
			if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
				configLoaded = true

				if usedConfigPath == "" {
					usedConfigPath = path
				}

				break
			}
		}

		if !configLoaded {
			return nil, "", fmt.Errorf("%w: %s.toml", ErrConfigFileNotFound, configName)
		}
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Check versions for each config file
	if err := checkConfigVersion("common", config.Common.Version, CurrentCommonVersion); err != nil {
		return nil, "", err
	}

	if err := checkConfigVersion("api", config.API.Version, CurrentAPIVersion); err != nil {
		return nil, "", err
	}

	if err := checkConfigVersion("worker", config.Worker.Version, CurrentWorkerVersion); err != nil {
		return nil, "", err
	}

	return &config, usedConfigPath, nil
}

// checkConfigVersion checks if the config file version is correct.
func checkConfigVersion(name string, current, expected int) error {
	if current == 0 {
		return fmt.Errorf("%w: %s.toml", ErrConfigVersionMissing, name)
	}

	if current != expected {
		return fmt.Errorf(
			"%w: %s.toml (got: %d, expected: %d)\n"+
				"Please update your config file from: https://github.com/memegrid/memegrid/tree/%s/config/%s.toml",
			ErrConfigVersionMismatch,
			name,
			current,
			expected,
			RepositoryVersion,
			name,
		)
	}

	return nil
}
