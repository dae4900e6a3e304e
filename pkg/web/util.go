package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/hirewell/revshare/pkg/proto"
	"github.com/hirewell/revshare/pkg/split"
)

// maxBodySize bounds request bodies.
const maxBodySize = 1 << 20

// errorResponse is the body of every error response.
type errorResponse struct {
	Error  string                  `json:"error"`
	Kind   string                  `json:"kind,omitempty"`
	Fields []split.ValidationError `json:"fields,omitempty"`
}

func renderStatus(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
		io.WriteString(w, fmt.Sprintf("%d %s", code, http.StatusText(code))) //nolint:errcheck,gosec
	}
}

func renderJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("error encoding json", "err", err)
	}
}

func renderNotFound(w http.ResponseWriter, _ *http.Request) {
	renderJSON(w, http.StatusNotFound, errorResponse{Error: "not found", Kind: "not_found"})
}

func renderMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	renderJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func renderUnauthorized(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="revshare"`)
	renderJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized", Kind: "unauthorized"})
}

func renderBadRequest(w http.ResponseWriter, err error) {
	renderJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "bad_request"})
}

// renderError maps a backend error to its HTTP status.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.FromContext(r.Context())

	var (
		verrs    split.ValidationErrors
		insuff   *split.InsufficientContributorsError
		mismatch *split.ConfigurationMismatchError
		rounding *split.RoundingInvariantViolation
		conflict *proto.ConflictError
	)
	switch {
	case errors.As(err, &verrs):
		renderJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  err.Error(),
			Kind:   "invalid",
			Fields: verrs,
		})
	case errors.As(err, &insuff):
		renderJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Kind: "insufficient_contributors"})
	case errors.As(err, &mismatch):
		renderJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Kind: "configuration_mismatch"})
	case errors.Is(err, proto.ErrTeamSuspended):
		renderJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Kind: "suspended"})
	case errors.As(err, &conflict), errors.Is(err, proto.ErrTeamExist):
		renderJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Kind: "conflict"})
	case errors.Is(err, proto.ErrTeamNotFound),
		errors.Is(err, proto.ErrMemberNotFound),
		errors.Is(err, proto.ErrConfigurationNotFound),
		errors.Is(err, proto.ErrPlacementNotFound),
		errors.Is(err, proto.ErrSplitsNotFound):
		renderJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Kind: "not_found"})
	case errors.Is(err, proto.ErrUnauthorized):
		renderUnauthorized(w, r)
	case errors.As(err, &rounding):
		logger.Error("rounding invariant violated", "err", err)
		renderJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Kind: "rounding_violation"})
	default:
		logger.Error("internal error", "err", err)
		renderJSON(w, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
	}
}

// decodeJSON reads a JSON request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
