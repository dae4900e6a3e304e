package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/hirewell/revshare/pkg/backend"
	"github.com/hirewell/revshare/pkg/config"
	"github.com/hirewell/revshare/pkg/money"
	"github.com/hirewell/revshare/pkg/proto"
	"github.com/hirewell/revshare/pkg/split"
)

// APIController registers the revshare API routes.
func APIController(_ context.Context, r *mux.Router) {
	r.Use(withAuth)

	r.HandleFunc("/configurations/validate", postValidateConfiguration).Methods(http.MethodPost)

	r.HandleFunc("/teams", getTeams).Methods(http.MethodGet)
	r.HandleFunc("/teams", postTeam).Methods(http.MethodPost)

	t := r.PathPrefix("/teams/{team:[0-9]+}").Subrouter()
	t.HandleFunc("", getTeam).Methods(http.MethodGet)
	t.HandleFunc("/status", putTeamStatus).Methods(http.MethodPut)

	t.HandleFunc("/members", getMembers).Methods(http.MethodGet)
	t.HandleFunc("/members", postMember).Methods(http.MethodPost)
	t.HandleFunc("/members/{recruiter}", deleteMember).Methods(http.MethodDelete)

	t.HandleFunc("/configurations", getConfigurations).Methods(http.MethodGet)
	t.HandleFunc("/configurations", postConfiguration).Methods(http.MethodPost)
	t.HandleFunc("/configurations/default", getDefaultConfiguration).Methods(http.MethodGet)
	t.HandleFunc("/configurations/{id:[0-9]+}", getConfiguration).Methods(http.MethodGet)
	t.HandleFunc("/configurations/{id:[0-9]+}/default", putDefaultConfiguration).Methods(http.MethodPut)
	t.HandleFunc("/configurations/{id:[0-9]+}/revisions", postRevision).Methods(http.MethodPost)

	t.HandleFunc("/placements", postPlacement).Methods(http.MethodPost)
	t.HandleFunc("/placements/{placement}/credits", postStageCredit).Methods(http.MethodPost)
	t.HandleFunc("/placements/{placement}/splits", postSplits).Methods(http.MethodPost)
	t.HandleFunc("/placements/{placement}/splits", getSplits).Methods(http.MethodGet)
	t.HandleFunc("/submissions", postSubmission).Methods(http.MethodPost)

	t.HandleFunc("/analytics", getAnalytics).Methods(http.MethodGet)
}

type configurationRequest struct {
	Name   string       `json:"name"`
	Model  string       `json:"model"`
	Config split.Config `json:"config"`
}

type teamRequest struct {
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

type statusRequest struct {
	Status proto.TeamStatus `json:"status"`
}

type memberRequest struct {
	RecruiterID string           `json:"recruiter_id"`
	Role        split.MemberRole `json:"role"`
}

type stageCreditRequest struct {
	RecruiterID string `json:"recruiter_id"`
	Stage       string `json:"stage"`
	Credits     int64  `json:"credits"`
}

type submissionRequest struct {
	CandidateRef string    `json:"candidate_ref"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

type splitsRequest struct {
	TotalFee        money.Money `json:"total_fee"`
	ConfigurationID *int64      `json:"configuration_id,omitempty"`
}

func teamID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["team"], 10, 64)
	return id
}

func configurationID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func postValidateConfiguration(w http.ResponseWriter, r *http.Request) {
	var req configurationRequest
	if err := decodeJSON(r, &req); err != nil {
		renderBadRequest(w, err)
		return
	}
	be := backend.FromContext(r.Context())
	renderJSON(w, http.StatusOK, be.ValidateConfiguration(split.Model(req.Model), req.Config))
}

func getTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := backend.FromContext(r.Context()).ListTeams(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, teams)
}

func postTeam(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := decodeJSON(r, &req); err != nil {
		renderBadRequest(w, err)
		return
	}
	team, err := backend.FromContext(r.Context()).CreateTeam(r.Context(), req.Name, req.Owner)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusCreated, team)
}

func getTeam(w http.ResponseWriter, r *http.Request) {
	team, err := backend.FromContext(r.Context()).Team(r.Context(), teamID(r))
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, team)
}

func putTeamStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		renderBadRequest(w, err)
		return
	}
	team, err := backend.FromContext(r.Context()).SetTeamStatus(r.Context(), teamID(r), req.Status)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, team)
}

func getMembers(w http.ResponseWriter, r *http.Request) {
	members, err := backend.FromContext(r.Context()).Members(r.Context(), teamID(r))
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, members)
}

func postMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := decodeJSON(r, &req); err != nil {
		renderBadRequest(w, err)
		return
	}
	m, err := backend.FromContext(r.Context()).AddMember(r.Context(), teamID(r), req.RecruiterID, req.Role)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusCreated, m)
}

func deleteMember(w http.ResponseWriter, r *http.Request) {
	be := backend.FromContext(r.Context())
	if err := be.RemoveMember(r.Context(), teamID(r), mux.Vars(r)["recruiter"]); err != nil {
		renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func getConfigurations(w http.ResponseWriter, r *http.Request) {
	cfgs, err := backend.FromContext(r.Context()).ListConfigurations(r.Context(), teamID(r))
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, cfgs)
}

func postConfiguration(w http.ResponseWriter, r *http.Request) {
	var req configurationRequest
	if err := decodeJSON(r, &req); err != nil {
		renderBadRequest(w, err)
		return
	}
	c, err := backend.FromContext(r.Context()).CreateConfiguration(r.Context(), teamID(r), req.Name, split.Model(req.Model), req.Config)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusCreated, c)
}

func getDefaultConfiguration(w http.ResponseWriter, r *http.Request) {
	c, err := backend.FromContext(r.Context()).DefaultConfiguration(r.Context(), teamID(r))
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, c)
}

func getConfiguration(w http.ResponseWriter, r *http.Request) {
	c, err := backend.FromContext(r.Context()).Configuration(r.Context(), configurationID(r))
	if err == nil && c.TeamID != teamID(r) {
		err = proto.ErrConfigurationNotFound
	}
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, c)
}

func putDefaultConfiguration(w http.ResponseWriter, r *http.Request) {
	c, err := backend.FromContext(r.Context()).SetDefaultConfiguration(r.Context(), teamID(r), configurationID(r))
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, c)
}

func postRevision(w http.ResponseWriter, r *http.Request) {
	var req configurationRequest
	if err := decodeJSON(r, &req); err != nil {
		renderBadRequest(w, err)
		return
	}
	c, err := backend.FromContext(r.Context()).ReviseConfiguration(r.Context(), teamID(r), configurationID(r),
		req.Name, split.Model(req.Model), req.Config)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusCreated, c)
}

func postPlacement(w http.ResponseWriter, r *http.Request) {
	var req proto.PlacementMeta
	if err := decodeJSON(r, &req); err != nil {
		renderBadRequest(w, err)
		return
	}
	p, err := backend.FromContext(r.Context()).RecordPlacement(r.Context(), teamID(r), req)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusCreated, p)
}

func postStageCredit(w http.ResponseWriter, r *http.Request) {
	var req stageCreditRequest
	if err := decodeJSON(r, &req); err != nil {
		renderBadRequest(w, err)
		return
	}
	be := backend.FromContext(r.Context())
	if err := be.RecordStageCredit(r.Context(), teamID(r), mux.Vars(r)["placement"], req.RecruiterID, req.Stage, req.Credits); err != nil {
		renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func postSubmission(w http.ResponseWriter, r *http.Request) {
	var req submissionRequest
	if err := decodeJSON(r, &req); err != nil {
		renderBadRequest(w, err)
		return
	}
	be := backend.FromContext(r.Context())
	if err := be.RecordSubmission(r.Context(), teamID(r), req.CandidateRef, req.SubmittedAt); err != nil {
		renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// postSplits previews a split set, or commits it when the commit query
// parameter is true.
func postSplits(w http.ResponseWriter, r *http.Request) {
	var req splitsRequest
	if err := decodeJSON(r, &req); err != nil {
		renderBadRequest(w, err)
		return
	}
	commit := false
	if v := r.URL.Query().Get("commit"); v != "" {
		var err error
		if commit, err = strconv.ParseBool(v); err != nil {
			renderBadRequest(w, fmt.Errorf("invalid commit parameter: %w", err))
			return
		}
	}

	ctx := r.Context()
	be := backend.FromContext(ctx)
	placement := mux.Vars(r)["placement"]
	var (
		set proto.SplitSet
		err error
	)
	if commit {
		set, err = be.CommitSplits(ctx, teamID(r), placement, req.TotalFee, req.ConfigurationID)
	} else {
		set, err = be.CalculateSplits(ctx, teamID(r), placement, req.TotalFee, req.ConfigurationID)
	}
	if err != nil {
		renderError(w, r, err)
		return
	}
	code := http.StatusOK
	if commit {
		code = http.StatusCreated
	}
	renderJSON(w, code, set)
}

func getSplits(w http.ResponseWriter, r *http.Request) {
	set, err := backend.FromContext(r.Context()).PlacementSplits(r.Context(), teamID(r), mux.Vars(r)["placement"])
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, set)
}

// getAnalytics reports over [start, end). end defaults to now and start to
// the configured analytics window before end.
func getAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := config.FromContext(ctx)
	q := r.URL.Query()

	end := time.Now().UTC()
	if v := q.Get("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			renderBadRequest(w, fmt.Errorf("invalid end: %w", err))
			return
		}
		end = t
	}
	start := end.Add(-cfg.Jobs.AnalyticsWindow)
	if v := q.Get("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			renderBadRequest(w, fmt.Errorf("invalid start: %w", err))
			return
		}
		start = t
	}

	a, err := backend.FromContext(ctx).ComputeAnalytics(ctx, teamID(r), start, end)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, a)
}
