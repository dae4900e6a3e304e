package web

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hirewell/revshare/pkg/config"
)

// ErrInvalidToken is returned when a token is invalid.
var ErrInvalidToken = errors.New("invalid token")

var subjectContextKey = &struct{ string }{"subject"}

// SubjectFromContext returns the authenticated token subject, if any.
func SubjectFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(subjectContextKey).(string); ok {
		return s
	}
	return ""
}

// withAuth requires a valid HS256 bearer token on every request when a JWT
// secret is configured.
func withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		cfg := config.FromContext(ctx)
		logger := log.FromContext(ctx).WithPrefix("http.auth")

		if cfg.Auth.JWTSecret == "" {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			logger.Debug("missing bearer token")
			authFailureCounter.Inc()
			renderUnauthorized(w, r)
			return
		}

		claims, err := parseJWT(cfg, parts[1])
		if err != nil {
			logger.Info("rejected token", "err", err)
			authFailureCounter.Inc()
			renderUnauthorized(w, r)
			return
		}

		ctx = context.WithValue(ctx, subjectContextKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func parseJWT(cfg *config.Config, bearer string) (*jwt.RegisteredClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
	}
	if cfg.Auth.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Auth.Issuer))
	}

	token, err := jwt.ParseWithClaims(bearer, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(cfg.Auth.JWTSecret), nil
	}, opts...)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !token.Valid || !ok || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
