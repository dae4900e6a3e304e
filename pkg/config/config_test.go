package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestDefaultConfigIsValid(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.DataPath = t.TempDir()
	is.NoErr(cfg.Validate())
	is.True(filepath.IsAbs(cfg.DB.DataSource))
	is.Equal(cfg.Split.EmptyTierPolicy, "reject")
}

func TestWriteAndParseConfig(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.DataPath = t.TempDir()
	cfg.Name = "written"
	cfg.Jobs.AnalyticsWindow = 7 * 24 * time.Hour
	is.NoErr(cfg.WriteConfig())
	is.True(cfg.Exist())

	parsed := DefaultConfig()
	parsed.DataPath = cfg.DataPath
	is.NoErr(parsed.ParseFile())
	is.Equal(parsed.Name, "written")
	is.Equal(parsed.Jobs.AnalyticsWindow, 7*24*time.Hour)
	is.Equal(parsed.Split.CacheSize, 1000)
}

func TestParseEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("REVSHARE_DATA_PATH", t.TempDir())
	t.Setenv("REVSHARE_HTTP_LISTEN_ADDR", ":9999")
	t.Setenv("REVSHARE_SPLIT_EMPTY_TIER_POLICY", "redistribute")
	t.Setenv("REVSHARE_JOBS_ANALYTICS_WINDOW", "48h")

	cfg := DefaultConfig()
	is.NoErr(cfg.ParseEnv())
	is.Equal(cfg.HTTP.ListenAddr, ":9999")
	is.Equal(cfg.Split.EmptyTierPolicy, "redistribute")
	is.Equal(cfg.Jobs.AnalyticsWindow, 48*time.Hour)
}

func TestParseMissingFile(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.DataPath = t.TempDir()
	is.NoErr(cfg.Parse())
}

func TestCustomConfigLocation(t *testing.T) {
	is := is.New(t)
	t.Setenv("REVSHARE_DATA_PATH", t.TempDir())
	t.Setenv("REVSHARE_CONFIG_LOCATION", "testdata/config.yaml")

	cfg := DefaultConfig()
	is.NoErr(cfg.Parse())
	is.Equal(cfg.Name, "Test revshare")
	is.Equal(cfg.Split.EmptyTierPolicy, "redistribute")
	is.Equal(cfg.Split.CacheSize, 10)

	// A location that does not exist falls back to the data path.
	t.Setenv("REVSHARE_CONFIG_LOCATION", "testdata/config_nonexistent.yaml")
	cfg = DefaultConfig()
	is.NoErr(cfg.Parse())
	is.Equal(cfg.Name, "revshare")
}

func TestValidateRejects(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"driver":      func(c *Config) { c.DB.Driver = "mysql" },
		"log format":  func(c *Config) { c.Log.Format = "xml" },
		"tier policy": func(c *Config) { c.Split.EmptyTierPolicy = "ignore" },
		"cache size":  func(c *Config) { c.Split.CacheSize = -1 },
	} {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			cfg := DefaultConfig()
			cfg.DataPath = t.TempDir()
			mutate(cfg)
			is.True(cfg.Validate() != nil)
		})
	}
}

func TestDebugAndVerbose(t *testing.T) {
	is := is.New(t)
	t.Setenv("REVSHARE_VERBOSE", "true")
	t.Setenv("REVSHARE_DEBUG", "false")
	is.True(!IsVerbose())
	t.Setenv("REVSHARE_DEBUG", "true")
	is.True(IsDebug())
	is.True(IsVerbose())
}

func TestEnviron(t *testing.T) {
	is := is.New(t)
	var nilcfg *Config
	is.Equal(len(nilcfg.Environ()), 0)
	env := DefaultConfig().Environ()
	is.True(len(env) > 0)
	is.Equal(env[1], "REVSHARE_NAME=revshare")
}

func TestFromContext(t *testing.T) {
	is := is.New(t)
	is.Equal(FromContext(context.TODO()).Name, "revshare")

	cfg := &Config{Name: "ctx"}
	ctx := WithContext(context.TODO(), cfg)
	is.Equal(FromContext(ctx), cfg)
}

func TestMain(m *testing.M) {
	for _, k := range []string{"REVSHARE_DATA_PATH", "REVSHARE_CONFIG_LOCATION", "REVSHARE_DEBUG", "REVSHARE_VERBOSE"} {
		os.Unsetenv(k) // nolint: errcheck
	}
	os.Exit(m.Run())
}
