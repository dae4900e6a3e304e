// Package config holds the revshare server configuration, read from a YAML
// file and overridden by REVSHARE_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hirewell/revshare/pkg/split"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every configuration environment variable.
const EnvPrefix = "REVSHARE_"

// HTTPConfig is the HTTP API configuration.
type HTTPConfig struct {
	// ListenAddr is the address on which the HTTP server will listen.
	ListenAddr string `env:"LISTEN_ADDR" yaml:"listen_addr"`

	// PublicURL is the public URL of the HTTP server.
	PublicURL string `env:"PUBLIC_URL" yaml:"public_url"`

	// ReadHeaderTimeout is the number of seconds allowed to read request
	// headers.
	ReadHeaderTimeout int `env:"READ_HEADER_TIMEOUT" yaml:"read_header_timeout"`
}

// StatsConfig is the configuration for the stats server.
type StatsConfig struct {
	// ListenAddr is the address on which the stats server will listen.
	ListenAddr string `env:"LISTEN_ADDR" yaml:"listen_addr"`
}

// LogConfig is the logger configuration.
type LogConfig struct {
	// Format is the format of the logs.
	// Valid values are "json", "logfmt", and "text".
	Format string `env:"FORMAT" yaml:"format"`

	// Time format for the log `ts` field.
	// Format must be described in Golang's time format.
	TimeFormat string `env:"TIME_FORMAT" yaml:"time_format"`

	// Path to a file to write logs to.
	// If not set, logs will be written to stderr.
	Path string `env:"PATH" yaml:"path"`
}

// DBConfig is the database connection configuration.
type DBConfig struct {
	// Driver is the driver for the database, "sqlite" or "postgres".
	Driver string `env:"DRIVER" yaml:"driver"`

	// DataSource is the database data source name.
	DataSource string `env:"DATA_SOURCE" yaml:"data_source"`
}

// JobsConfig is the configuration for cron jobs.
type JobsConfig struct {
	// AnalyticsRefresh is the cron spec of the analytics refresh job.
	// Empty disables the job.
	AnalyticsRefresh string `env:"ANALYTICS_REFRESH" yaml:"analytics_refresh"`

	// AnalyticsWindow is the trailing window refreshed by the job, as a Go
	// duration.
	AnalyticsWindow time.Duration `env:"ANALYTICS_WINDOW" yaml:"analytics_window"`
}

// AuthConfig configures bearer token verification on the HTTP API.
type AuthConfig struct {
	// JWTSecret is the HS256 secret shared with the auth service. Empty
	// disables authentication.
	JWTSecret string `env:"JWT_SECRET" yaml:"jwt_secret"`

	// Issuer, when set, must match the token's iss claim.
	Issuer string `env:"ISSUER" yaml:"issuer"`
}

// SplitConfig holds engine defaults.
type SplitConfig struct {
	// EmptyTierPolicy applies to tiered configurations that do not set
	// their own policy. Valid values are "reject" and "redistribute".
	EmptyTierPolicy string `env:"EMPTY_TIER_POLICY" yaml:"empty_tier_policy"`

	// CacheSize is the number of resolved configurations kept in memory.
	CacheSize int `env:"CACHE_SIZE" yaml:"cache_size"`
}

// Config is the configuration for revshare.
type Config struct {
	// Name is the name of the server.
	Name string `env:"NAME" yaml:"name"`

	// HTTP is the configuration for the HTTP API.
	HTTP HTTPConfig `envPrefix:"HTTP_" yaml:"http"`

	// Stats is the configuration for the stats server.
	Stats StatsConfig `envPrefix:"STATS_" yaml:"stats"`

	// Log is the logger configuration.
	Log LogConfig `envPrefix:"LOG_" yaml:"log"`

	// DB is the database configuration.
	DB DBConfig `envPrefix:"DB_" yaml:"db"`

	// Jobs is the configuration for cron jobs.
	Jobs JobsConfig `envPrefix:"JOBS_" yaml:"jobs"`

	// Auth is the HTTP API authentication configuration.
	Auth AuthConfig `envPrefix:"AUTH_" yaml:"auth"`

	// Split holds engine defaults.
	Split SplitConfig `envPrefix:"SPLIT_" yaml:"split"`

	// DataPath is the directory where revshare stores its data.
	DataPath string `env:"DATA_PATH" yaml:"-"`
}

// Environ returns the config as a list of environment variables.
func (c *Config) Environ() []string {
	if c == nil {
		return nil
	}

	return []string{
		fmt.Sprintf("REVSHARE_DATA_PATH=%s", c.DataPath),
		fmt.Sprintf("REVSHARE_NAME=%s", c.Name),
		fmt.Sprintf("REVSHARE_HTTP_LISTEN_ADDR=%s", c.HTTP.ListenAddr),
		fmt.Sprintf("REVSHARE_HTTP_PUBLIC_URL=%s", c.HTTP.PublicURL),
		fmt.Sprintf("REVSHARE_HTTP_READ_HEADER_TIMEOUT=%d", c.HTTP.ReadHeaderTimeout),
		fmt.Sprintf("REVSHARE_STATS_LISTEN_ADDR=%s", c.Stats.ListenAddr),
		fmt.Sprintf("REVSHARE_LOG_FORMAT=%s", c.Log.Format),
		fmt.Sprintf("REVSHARE_LOG_TIME_FORMAT=%s", c.Log.TimeFormat),
		fmt.Sprintf("REVSHARE_LOG_PATH=%s", c.Log.Path),
		fmt.Sprintf("REVSHARE_DB_DRIVER=%s", c.DB.Driver),
		fmt.Sprintf("REVSHARE_DB_DATA_SOURCE=%s", c.DB.DataSource),
		fmt.Sprintf("REVSHARE_JOBS_ANALYTICS_REFRESH=%s", c.Jobs.AnalyticsRefresh),
		fmt.Sprintf("REVSHARE_JOBS_ANALYTICS_WINDOW=%s", c.Jobs.AnalyticsWindow),
		fmt.Sprintf("REVSHARE_AUTH_ISSUER=%s", c.Auth.Issuer),
		fmt.Sprintf("REVSHARE_SPLIT_EMPTY_TIER_POLICY=%s", c.Split.EmptyTierPolicy),
		fmt.Sprintf("REVSHARE_SPLIT_CACHE_SIZE=%d", c.Split.CacheSize),
	}
}

// IsDebug returns true if the server is running in debug mode.
func IsDebug() bool {
	debug, _ := strconv.ParseBool(os.Getenv("REVSHARE_DEBUG"))
	return debug
}

// IsVerbose returns true if the server is running in verbose mode.
// Verbose mode is only enabled if debug mode is enabled.
func IsVerbose() bool {
	verbose, _ := strconv.ParseBool(os.Getenv("REVSHARE_VERBOSE"))
	return IsDebug() && verbose
}

// parseFile parses the given file as a configuration file.
// The file must be in YAML format.
func parseFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	defer f.Close() // nolint: errcheck
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	return cfg.Validate()
}

// ParseFile parses the config from the default file path.
// This also calls Validate() on the config.
func (c *Config) ParseFile() error {
	return parseFile(c, c.ConfigPath())
}

// parseEnv parses the environment variables as a configuration file.
func parseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{
		Prefix: EnvPrefix,
	}); err != nil {
		return fmt.Errorf("parse environment variables: %w", err)
	}

	return cfg.Validate()
}

// ParseEnv parses the config from the environment variables.
// This also calls Validate() on the config.
func (c *Config) ParseEnv() error {
	return parseEnv(c)
}

// Parse parses the config from the default file path and environment
// variables. A missing file is not an error.
// This also calls Validate() on the config.
func (c *Config) Parse() error {
	if err := c.ParseFile(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return c.ParseEnv()
}

// writeConfig writes the configuration to the given file.
func writeConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(newConfigFile(cfg)), 0o600) // nolint: gosec
}

// WriteConfig writes the configuration to the default file.
func (c *Config) WriteConfig() error {
	return writeConfig(c, c.ConfigPath())
}

// DefaultDataPath returns the path to the data directory.
// It uses the REVSHARE_DATA_PATH environment variable if set, otherwise it
// uses "data".
func DefaultDataPath() string {
	dp := os.Getenv("REVSHARE_DATA_PATH")
	if dp == "" {
		dp = "data"
	}

	return dp
}

// ConfigPath returns the path to the config file. REVSHARE_CONFIG_LOCATION
// takes precedence when it names an existing file.
func (c *Config) ConfigPath() string { // nolint:revive
	if path := os.Getenv("REVSHARE_CONFIG_LOCATION"); path != "" && exist(path) {
		return path
	}
	return filepath.Join(c.DataPath, "config.yaml")
}

func exist(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Exist returns true if the config file exists.
func (c *Config) Exist() bool {
	return exist(c.ConfigPath())
}

// DefaultConfig returns the default Config. All the path values are relative
// to the data directory.
// Use Validate() to validate the config and ensure absolute paths.
func DefaultConfig() *Config {
	return &Config{
		Name:     "revshare",
		DataPath: DefaultDataPath(),
		HTTP: HTTPConfig{
			ListenAddr:        ":8080",
			PublicURL:         "http://localhost:8080",
			ReadHeaderTimeout: 10,
		},
		Stats: StatsConfig{
			ListenAddr: "localhost:8081",
		},
		Log: LogConfig{
			Format:     "text",
			TimeFormat: time.DateTime,
		},
		DB: DBConfig{
			Driver: "sqlite",
			DataSource: "revshare.db" +
				"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
		},
		Jobs: JobsConfig{
			AnalyticsRefresh: "@every 15m",
			AnalyticsWindow:  30 * 24 * time.Hour,
		},
		Split: SplitConfig{
			EmptyTierPolicy: string(split.RejectEmptyTiers),
			CacheSize:       1000,
		},
	}
}

// Validate validates the configuration.
// It updates the configuration with absolute paths.
func (c *Config) Validate() error {
	// Use absolute paths
	if !filepath.IsAbs(c.DataPath) {
		dp, err := filepath.Abs(c.DataPath)
		if err != nil {
			return err
		}
		c.DataPath = dp
	}

	c.HTTP.PublicURL = strings.TrimSuffix(c.HTTP.PublicURL, "/")

	switch c.DB.Driver {
	case "sqlite", "sqlite3":
		if !filepath.IsAbs(c.DB.DataSource) {
			c.DB.DataSource = filepath.Join(c.DataPath, c.DB.DataSource)
		}
	case "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.DB.Driver)
	}

	if c.Log.Path != "" && !filepath.IsAbs(c.Log.Path) {
		c.Log.Path = filepath.Join(c.DataPath, c.Log.Path)
	}

	switch c.Log.Format {
	case "", "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}

	if p := split.EmptyTierPolicy(c.Split.EmptyTierPolicy); p != "" && !p.Valid() {
		return fmt.Errorf("invalid empty tier policy %q", p)
	}

	if c.Split.CacheSize < 0 {
		return fmt.Errorf("invalid cache size %d", c.Split.CacheSize)
	}

	if c.Jobs.AnalyticsWindow < 0 {
		return fmt.Errorf("invalid analytics window %s", c.Jobs.AnalyticsWindow)
	}

	return nil
}

// ErrNilConfig is returned when a nil configuration is used.
var ErrNilConfig = errors.New("nil config")
