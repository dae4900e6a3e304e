package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hirewell/revshare/pkg/config"
	"github.com/matryer/is"
)

func TestNewLogger(t *testing.T) {
	for _, c := range []*config.Config{
		config.DefaultConfig(),
		{},
		{Log: config.LogConfig{Format: "json"}},
	} {
		is := is.New(t)
		logger, f, err := NewLogger(c)
		is.NoErr(err)
		is.True(logger != nil)
		is.True(f == nil)
	}
}

func TestNewLoggerFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "revshare.log")
	logger, f, err := NewLogger(&config.Config{Log: config.LogConfig{Path: path, Format: "logfmt"}})
	is.NoErr(err)
	logger.Info("split committed", "placement", "p1")
	is.NoErr(f.Close())

	b, err := os.ReadFile(path)
	is.NoErr(err)
	is.True(strings.Contains(string(b), "placement=p1"))
}

func TestBadNewLogger(t *testing.T) {
	for _, c := range []*config.Config{
		nil,
		{Log: config.LogConfig{Path: "\x00"}},
	} {
		is := is.New(t)
		_, f, err := NewLogger(c)
		is.True(err != nil)
		is.True(f == nil)
	}
}
