package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hirewell/revshare/pkg/backend"
	"github.com/hirewell/revshare/pkg/config"
	"github.com/hirewell/revshare/pkg/db"
	"github.com/hirewell/revshare/pkg/db/migrate"
	"github.com/hirewell/revshare/pkg/proto"
	"github.com/hirewell/revshare/pkg/store/database"
	"github.com/matryer/is"
)

func setup(tb testing.TB, mod func(*config.Config)) http.Handler {
	tb.Helper()
	is := is.New(tb)
	ctx := context.TODO()
	cfg := config.DefaultConfig()
	cfg.DataPath = tb.TempDir()
	cfg.DB.DataSource = filepath.Join(cfg.DataPath, "revshare.db") +
		"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	if mod != nil {
		mod(cfg)
	}
	ctx = config.WithContext(ctx, cfg)

	dbx, err := db.Open(ctx, cfg.DB.Driver, cfg.DB.DataSource)
	is.NoErr(err)
	tb.Cleanup(func() { _ = dbx.Close() })
	is.NoErr(migrate.Migrate(ctx, dbx))

	ctx = db.WithContext(ctx, dbx)
	ctx = backend.WithContext(ctx, backend.New(ctx, cfg, dbx, database.New(ctx)))
	return NewRouter(ctx)
}

func do(tb testing.TB, h http.Handler, method, path string, body interface{}, header ...string) *httptest.ResponseRecorder {
	tb.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			tb.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(tb testing.TB, w *httptest.ResponseRecorder, v interface{}) {
	tb.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		tb.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	is := is.New(t)
	h := setup(t, nil)

	is.Equal(do(t, h, http.MethodGet, "/livez", nil).Code, http.StatusOK)
	is.Equal(do(t, h, http.MethodGet, "/readyz", nil).Code, http.StatusOK)
	is.Equal(do(t, h, http.MethodGet, "/nope", nil).Code, http.StatusNotFound)
}

func TestValidateConfiguration(t *testing.T) {
	is := is.New(t)
	h := setup(t, nil)

	w := do(t, h, http.MethodPost, "/v1/configurations/validate", map[string]interface{}{
		"model": "flat_split",
		"config": map[string]interface{}{
			"entries": []map[string]interface{}{
				{"recruiter": "alice", "percentage": 60},
				{"recruiter": "bob", "percentage": 30},
			},
		},
	})
	is.Equal(w.Code, http.StatusOK)
	var res proto.ValidationResult
	decode(t, w, &res)
	is.True(!res.Valid)
	is.Equal(res.Errors[0].Field, "entries")

	w = do(t, h, http.MethodPost, "/v1/configurations/validate", map[string]interface{}{"model": "pie"})
	decode(t, w, &res)
	is.True(!res.Valid)
	is.Equal(res.Errors[0].Field, "model")

	w = do(t, h, http.MethodPost, "/v1/configurations/validate", map[string]interface{}{"modle": "pie"})
	is.Equal(w.Code, http.StatusBadRequest)
}

func TestSplitsFlow(t *testing.T) {
	is := is.New(t)
	h := setup(t, nil)

	w := do(t, h, http.MethodPost, "/v1/teams", map[string]string{"name": "north", "owner": "alice"})
	is.Equal(w.Code, http.StatusCreated)
	var team proto.Team
	decode(t, w, &team)
	base := fmt.Sprintf("/v1/teams/%d", team.ID)

	is.Equal(do(t, h, http.MethodPost, "/v1/teams", map[string]string{"name": "north", "owner": "carol"}).Code, http.StatusConflict)

	w = do(t, h, http.MethodPost, base+"/members", map[string]string{"recruiter_id": "bob", "role": "member"})
	is.Equal(w.Code, http.StatusCreated)

	w = do(t, h, http.MethodPost, base+"/configurations", map[string]interface{}{
		"name":  "60/40",
		"model": "flat_split",
		"config": map[string]interface{}{
			"entries": []map[string]interface{}{
				{"recruiter": "alice", "percentage": 60},
				{"recruiter": "bob", "percentage": 40},
			},
		},
	})
	is.Equal(w.Code, http.StatusCreated)
	var cfg proto.SplitConfiguration
	decode(t, w, &cfg)

	is.Equal(do(t, h, http.MethodGet, base+"/configurations/default", nil).Code, http.StatusNotFound)
	w = do(t, h, http.MethodPut, fmt.Sprintf("%s/configurations/%d/default", base, cfg.ID), nil)
	is.Equal(w.Code, http.StatusOK)
	decode(t, w, &cfg)
	is.True(cfg.IsDefault)

	w = do(t, h, http.MethodPost, base+"/placements", map[string]string{"placement_id": "p1", "role_id": "eng"})
	is.Equal(w.Code, http.StatusCreated)

	w = do(t, h, http.MethodPost, base+"/placements/p1/splits", map[string]int64{"total_fee": 50000})
	is.Equal(w.Code, http.StatusOK)
	var set proto.SplitSet
	decode(t, w, &set)
	is.True(!set.Committed)
	is.Equal(set.Splits[0].SplitAmount.Units(), int64(30000))

	is.Equal(do(t, h, http.MethodGet, base+"/placements/p1/splits", nil).Code, http.StatusNotFound)

	w = do(t, h, http.MethodPost, base+"/placements/p1/splits?commit=true", map[string]int64{"total_fee": 50000})
	is.Equal(w.Code, http.StatusCreated)
	decode(t, w, &set)
	is.True(set.Committed)

	w = do(t, h, http.MethodPost, base+"/placements/p1/splits?commit=true", map[string]int64{"total_fee": 1})
	is.Equal(w.Code, http.StatusConflict)

	w = do(t, h, http.MethodGet, base+"/placements/p1/splits", nil)
	is.Equal(w.Code, http.StatusOK)

	start := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	end := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	w = do(t, h, http.MethodGet, base+"/analytics?start="+start+"&end="+end, nil)
	is.Equal(w.Code, http.StatusOK)
	var a struct {
		TotalPlacements int   `json:"total_placements"`
		TotalRevenue    int64 `json:"total_revenue"`
	}
	decode(t, w, &a)
	is.Equal(a.TotalPlacements, 1)
	is.Equal(a.TotalRevenue, int64(50000))

	is.Equal(do(t, h, http.MethodGet, base+"/analytics?start="+end+"&end="+start, nil).Code, http.StatusUnprocessableEntity)
	is.Equal(do(t, h, http.MethodGet, base+"/analytics?start=yesterday", nil).Code, http.StatusBadRequest)
}

func TestSplitErrors(t *testing.T) {
	is := is.New(t)
	h := setup(t, nil)

	is.Equal(do(t, h, http.MethodGet, "/v1/teams/42", nil).Code, http.StatusNotFound)

	w := do(t, h, http.MethodPost, "/v1/teams", map[string]string{"name": "north", "owner": "alice"})
	var team proto.Team
	decode(t, w, &team)
	base := fmt.Sprintf("/v1/teams/%d", team.ID)

	w = do(t, h, http.MethodPost, base+"/configurations", map[string]interface{}{
		"name":  "bad",
		"model": "flat_split",
		"config": map[string]interface{}{
			"entries": []map[string]interface{}{{"recruiter": "alice", "percentage": 90}},
		},
	})
	is.Equal(w.Code, http.StatusUnprocessableEntity)
	var body errorResponse
	decode(t, w, &body)
	is.Equal(body.Kind, "invalid")
	is.Equal(body.Fields[0].Field, "entries")

	w = do(t, h, http.MethodPost, base+"/configurations", map[string]interface{}{
		"name":  "with bob",
		"model": "flat_split",
		"config": map[string]interface{}{
			"entries": []map[string]interface{}{
				{"recruiter": "alice", "percentage": 50},
				{"recruiter": "bob", "percentage": 50},
			},
		},
	})
	is.Equal(w.Code, http.StatusCreated)
	var cfg proto.SplitConfiguration
	decode(t, w, &cfg)

	do(t, h, http.MethodPost, base+"/placements", map[string]string{"placement_id": "p1", "role_id": "eng"})
	w = do(t, h, http.MethodPost, base+"/placements/p1/splits", map[string]interface{}{
		"total_fee":        100,
		"configuration_id": cfg.ID,
	})
	is.Equal(w.Code, http.StatusUnprocessableEntity)
	decode(t, w, &body)
	is.Equal(body.Kind, "configuration_mismatch")

	is.Equal(do(t, h, http.MethodPost, base+"/placements/p9/splits", map[string]int64{"total_fee": 1}).Code, http.StatusNotFound)
	is.Equal(do(t, h, http.MethodDelete, base+"/members/zed", nil).Code, http.StatusNotFound)

	w = do(t, h, http.MethodPut, base+"/status", map[string]string{"status": "suspended"})
	is.Equal(w.Code, http.StatusOK)
	w = do(t, h, http.MethodPost, base+"/placements/p1/splits", map[string]interface{}{
		"total_fee":        100,
		"configuration_id": cfg.ID,
	})
	is.Equal(w.Code, http.StatusUnprocessableEntity)
	decode(t, w, &body)
	is.Equal(body.Kind, "suspended")
}

func TestAuth(t *testing.T) {
	is := is.New(t)
	const secret = "s3cret"
	h := setup(t, func(cfg *config.Config) {
		cfg.Auth.JWTSecret = secret
		cfg.Auth.Issuer = "https://auth.example.com"
	})

	sign := func(key, issuer string) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "alice",
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		s, err := tok.SignedString([]byte(key))
		is.NoErr(err)
		return s
	}

	is.Equal(do(t, h, http.MethodGet, "/v1/teams", nil).Code, http.StatusUnauthorized)
	is.Equal(do(t, h, http.MethodGet, "/v1/teams", nil, "Authorization", "Basic abc").Code, http.StatusUnauthorized)
	is.Equal(do(t, h, http.MethodGet, "/v1/teams", nil,
		"Authorization", "Bearer "+sign("wrong", "https://auth.example.com")).Code, http.StatusUnauthorized)
	is.Equal(do(t, h, http.MethodGet, "/v1/teams", nil,
		"Authorization", "Bearer "+sign(secret, "https://evil.example.com")).Code, http.StatusUnauthorized)

	w := do(t, h, http.MethodGet, "/v1/teams", nil, "Authorization", "Bearer "+sign(secret, "https://auth.example.com"))
	is.Equal(w.Code, http.StatusOK)

	// Health checks stay open.
	is.Equal(do(t, h, http.MethodGet, "/livez", nil).Code, http.StatusOK)
}
