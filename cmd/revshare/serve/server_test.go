package serve

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hirewell/revshare/pkg/backend"
	"github.com/hirewell/revshare/pkg/config"
	"github.com/hirewell/revshare/pkg/db"
	"github.com/hirewell/revshare/pkg/db/migrate"
	"github.com/hirewell/revshare/pkg/store/database"
	"github.com/hirewell/revshare/pkg/test"
	"github.com/matryer/is"
)

func get(url string) (int, string, error) {
	resp, err := http.Get(url) //nolint:gosec,noctx
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close() //nolint:errcheck
	body, err := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body), err
}

func TestServer(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	cfg := config.DefaultConfig()
	cfg.DataPath = t.TempDir()
	cfg.DB.DataSource = filepath.Join(cfg.DataPath, "revshare.db") +
		"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	cfg.HTTP.ListenAddr = test.RandomAddr()
	cfg.Stats.ListenAddr = test.RandomAddr()
	ctx = config.WithContext(ctx, cfg)

	dbx, err := db.Open(ctx, cfg.DB.Driver, cfg.DB.DataSource)
	is.NoErr(err)
	t.Cleanup(func() { _ = dbx.Close() })
	is.NoErr(migrate.Migrate(ctx, dbx))
	ctx = db.WithContext(ctx, dbx)
	ctx = backend.WithContext(ctx, backend.New(ctx, cfg, dbx, database.New(ctx)))

	s, err := NewServer(ctx)
	is.NoErr(err)
	is.Equal(len(s.Cron.Entries()), 1) // analytics-refresh

	errc := make(chan error, 1)
	go func() { errc <- s.Start() }()

	var code int
	for i := 0; i < 50; i++ {
		code, _, err = get("http://" + cfg.HTTP.ListenAddr + "/livez")
		if err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	is.NoErr(err)
	is.Equal(code, http.StatusOK)

	var body string
	for i := 0; i < 50; i++ {
		code, body, err = get("http://" + cfg.Stats.ListenAddr + "/metrics")
		if err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	is.NoErr(err)
	is.Equal(code, http.StatusOK)
	is.True(strings.Contains(body, "revshare_http_requests_total"))

	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	is.NoErr(s.Shutdown(sctx))
	is.NoErr(<-errc)
}
