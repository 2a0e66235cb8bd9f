package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"warboard/internal/api"
	"warboard/internal/cache"
	"warboard/internal/config"
	"warboard/internal/domain"
	"warboard/internal/repository"
	"warboard/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminPassword = "letmein"

type stubUpstream struct {
	clans   map[string]*api.Clan
	warErr  error
	slowErr error
}

func (u *stubUpstream) GetClan(_ context.Context, tag string) (*api.Clan, error) {
	if u.slowErr != nil {
		return nil, u.slowErr
	}
	if c, ok := u.clans[tag]; ok {
		return c, nil
	}
	return nil, &api.Error{Status: 404, Reason: api.ReasonNotFound}
}

func (u *stubUpstream) GetPlayer(_ context.Context, tag string) (*api.Player, error) {
	return &api.Player{Tag: tag, Name: "Chief"}, nil
}

func (u *stubUpstream) GetCurrentWar(_ context.Context, _ string) (*api.ClanWar, error) {
	if u.warErr != nil {
		return nil, u.warErr
	}
	return &api.ClanWar{State: "notInWar"}, nil
}

func (u *stubUpstream) GetWarLeagueGroup(_ context.Context, _ string) (*api.WarLeagueGroup, error) {
	return nil, &api.Error{Status: 404, Reason: api.ReasonNotFound}
}

func (u *stubUpstream) GetWarLeagueWar(_ context.Context, warTag string) (*api.ClanWar, error) {
	return &api.ClanWar{State: "inWar", Clan: api.WarClan{Tag: "#A"}}, nil
}

func (u *stubUpstream) GetWarLog(_ context.Context, _ string) (*api.WarLog, error) {
	return &api.WarLog{}, nil
}

type noopSession struct{}

func (noopSession) EnsureLoggedIn(context.Context) error { return nil }

func newTestRouter(t *testing.T, upstream *stubUpstream, password string) http.Handler {
	t.Helper()

	logger := zerolog.Nop()
	store := repository.NewFileTagStore(filepath.Join(t.TempDir(), "clans.json"), logger)
	fetcher := service.NewFetcher(upstream, noopSession{}, cache.NewResponseCache(), logger)
	listing := service.NewListingService(store, fetcher, logger)
	admin := service.NewAdminService(store, fetcher, &config.Config{AdminPassword: password}, logger)

	r := mux.NewRouter()
	NewHandler(fetcher, listing, admin, logger).Register(r)
	return r
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, reader))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	h := newTestRouter(t, &stubUpstream{}, adminPassword)

	rec := do(t, h, http.MethodGet, "/api/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestClan(t *testing.T) {
	upstream := &stubUpstream{clans: map[string]*api.Clan{"#ABC": {Tag: "#ABC", Name: "Alpha"}}}
	h := newTestRouter(t, upstream, adminPassword)

	rec := do(t, h, http.MethodGet, "/api/clan?tag=abc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, cacheControl, rec.Header().Get("Cache-Control"))
	body := decode(t, rec)
	assert.Equal(t, "Alpha", body["name"])
	assert.Equal(t, false, body["cached"])

	rec = do(t, h, http.MethodGet, "/api/clan?tag=%23ABC", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["cached"])
}

func TestClan_MissingTag(t *testing.T) {
	h := newTestRouter(t, &stubUpstream{}, adminPassword)

	for _, path := range []string{"/api/clan", "/api/player", "/api/war", "/api/cwl", "/api/warlog"} {
		rec := do(t, h, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, "tag is required", decode(t, rec)["error"], path)
	}
}

func TestClan_UpstreamFailures(t *testing.T) {
	upstream := &stubUpstream{slowErr: fmt.Errorf("%w: dial", domain.ErrUpstreamTimeout)}
	h := newTestRouter(t, upstream, adminPassword)

	rec := do(t, h, http.MethodGet, "/api/clan?tag=ABC", nil)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, timeoutMessage, decode(t, rec)["error"])

	h = newTestRouter(t, &stubUpstream{}, adminPassword)
	rec = do(t, h, http.MethodGet, "/api/clan?tag=ABC", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch clan data", decode(t, rec)["error"])
}

func TestWar_Private(t *testing.T) {
	upstream := &stubUpstream{warErr: &api.Error{Status: 403, Reason: api.ReasonAccessDenied}}
	h := newTestRouter(t, upstream, adminPassword)

	rec := do(t, h, http.MethodGet, "/api/war?tag=ABC", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "private", body["state"])
	assert.Equal(t, false, body["cached"])
	assert.NotEmpty(t, body["error"])
}

func TestCWL(t *testing.T) {
	h := newTestRouter(t, &stubUpstream{}, adminPassword)

	rec := do(t, h, http.MethodGet, "/api/cwl?tag=ABC", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "notInCWL", decode(t, rec)["state"])

	rec = do(t, h, http.MethodGet, "/api/cwl/%23W1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "inWar", decode(t, rec)["state"])
	assert.Equal(t, cacheControl, rec.Header().Get("Cache-Control"))
}

func TestAdmin_Flow(t *testing.T) {
	upstream := &stubUpstream{clans: map[string]*api.Clan{
		"#A": {Tag: "#A", Name: "Alpha"},
		"#B": {Tag: "#B", Name: "Bravo"},
	}}
	h := newTestRouter(t, upstream, adminPassword)

	for _, tag := range []string{"a", "B"} {
		rec := do(t, h, http.MethodPost, "/api/admin", service.AdminRequest{Password: adminPassword, Action: service.ActionAdd, Tag: tag})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, true, decode(t, rec)["success"])
	}

	rec := do(t, h, http.MethodPost, "/api/admin", service.AdminRequest{Password: adminPassword, Action: service.ActionAdd, Tag: "#ZZZ"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid Clan Tag: Clan not found", decode(t, rec)["message"])

	rec = do(t, h, http.MethodPost, "/api/admin", service.AdminRequest{Password: adminPassword, Action: service.ActionReorder, NewTags: []string{"#B", "#A"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"#B", "#A"}, decode(t, rec)["tags"])

	rec = do(t, h, http.MethodGet, "/api/admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state := decode(t, rec)
	assert.Equal(t, []any{
		map[string]any{"tag": "#B", "name": "Bravo"},
		map[string]any{"tag": "#A", "name": "Alpha"},
	}, state["enrichedTags"])

	rec = do(t, h, http.MethodGet, "/api/clans", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listing := decode(t, rec)
	clans := listing["clans"].([]any)
	require.Len(t, clans, 2)
	assert.Equal(t, "Bravo", clans[0].(map[string]any)["name"])
	assert.EqualValues(t, 3, listing["settings"].(map[string]any)["clansPerRow"])
}

func TestAdmin_Failures(t *testing.T) {
	h := newTestRouter(t, &stubUpstream{}, adminPassword)

	rec := do(t, h, http.MethodPost, "/api/admin", service.AdminRequest{Password: "nope", Action: service.ActionCheck})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid password", decode(t, rec)["message"])

	rec = do(t, h, http.MethodPost, "/api/admin", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/admin", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method not allowed", decode(t, rec)["message"])

	rec = do(t, h, http.MethodPost, "/api/admin", service.AdminRequest{Password: adminPassword, Action: "launch"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Unknown action", decode(t, rec)["message"])

	h = newTestRouter(t, &stubUpstream{}, "")
	rec = do(t, h, http.MethodPost, "/api/admin", service.AdminRequest{Password: "x", Action: service.ActionCheck})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Admin password not configured", decode(t, rec)["message"])
}
