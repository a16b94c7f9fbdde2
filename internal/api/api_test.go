package api_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/playerdb/internal/api"
	"github.com/mcoot/playerdb/internal/api/apierr"
	"github.com/mcoot/playerdb/internal/api/response"
	"github.com/mcoot/playerdb/internal/factory"
	"github.com/mcoot/playerdb/internal/model"
	"github.com/mcoot/playerdb/internal/testutil"
)

// testServer wires the real router to a throwaway database
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
	ids     []model.PlayerID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp(t)
	ids := app.SeedDefaultPlayers()

	router := api.NewRouter(api.RouterConfig{
		Logger:        testutil.NopLogger(),
		PlayerService: app.PlayerService,
		Health:        app.Store,
	})

	return &testServer{
		handler: router,
		app:     app,
		ids:     ids,
	}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) path(id model.PlayerID, suffix string) string {
	return fmt.Sprintf("/api/players/%d%s", id, suffix)
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func names(players []response.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Firstname
	}
	return out
}

func validBody() map[string]any {
	return map[string]any{
		"firstname":    "Zoé",
		"isok":         true,
		"nbgame":       2,
		"datelastgame": "2021-02-03",
	}
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.request(http.MethodGet, "/api/players", nil)

	rr := ts.request(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `playerdb_http_requests_total{method="GET",route="/api/players",status="200"}`)
}

func TestListPlayers(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/players", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	players := decode[[]response.Player](t, rr)
	assert.Equal(t, []string{"Toto", "Motor", "Abc"}, names(players))
	assert.Equal(t, response.Player{
		ID:           int64(ts.ids[0]),
		Firstname:    "Toto",
		IsOK:         true,
		NbGame:       3,
		DateLastGame: "2020-01-01",
	}, players[0])
}

func TestListPlayers_EmptyIsArray(t *testing.T) {
	ts := newTestServer(t)
	ts.request(http.MethodDelete, "/api/players/isok0", nil)
	ts.request(http.MethodDelete, ts.path(ts.ids[0], ""), nil)

	rr := ts.request(http.MethodGet, "/api/players", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestProjections(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		path  string
		field string
		first any
	}{
		{"/api/players/ids", "id", float64(ts.ids[0])},
		{"/api/players/firstnames", "firstname", "Toto"},
		{"/api/players/isoks", "isok", true},
		{"/api/players/nbgames", "nbgame", float64(3)},
		{"/api/players/datelastgames", "datelastgame", "2020-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			rr := ts.request(http.MethodGet, tt.path, nil)
			require.Equal(t, http.StatusOK, rr.Code)

			rows := decode[[]map[string]any](t, rr)
			require.Len(t, rows, 3)
			for _, row := range rows {
				assert.Len(t, row, 1)
				assert.Contains(t, row, tt.field)
			}
			assert.Equal(t, tt.first, rows[0][tt.field])
		})
	}
}

func TestSearch(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/players/search?firstname=Toto&nbgame=3", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"Toto"}, names(decode[[]response.Player](t, rr)))
}

func TestSearch_NoMatch(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/players/search?firstname=Nobody", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodePlayerNotFound, decode[apierr.ErrorResponse](t, rr).Code)
}

func TestSearch_UnknownColumn(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/players/search?id%3D1%20OR%201=1", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeUnknownColumn, decode[apierr.ErrorResponse](t, rr).Code)
}

func TestSearch_InjectionInValueIsBound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/players/search?firstname=Toto%27%20OR%20%271%27=%271", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestFirstnameFilters(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/players/firstnames/like?firstname=ot", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.ElementsMatch(t, []string{"Toto", "Motor"}, names(decode[[]response.Player](t, rr)))

	rr = ts.request(http.MethodGet, "/api/players/firstnames/begin?firstname=Mo", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"Motor"}, names(decode[[]response.Player](t, rr)))

	rr = ts.request(http.MethodGet, "/api/players/firstnames/begin?firstname=zz", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDateFilter(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/players/datelastgames/sup?datelastgame=2018-04-20", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.ElementsMatch(t, []string{"Toto", "Abc"}, names(decode[[]response.Player](t, rr)))

	rr = ts.request(http.MethodGet, "/api/players/datelastgames/sup?datelastgame=2030-01-01", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDesc(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/players/desc", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"Toto", "Motor", "Abc"}, names(decode[[]response.Player](t, rr)))
}

func TestCreatePlayer(t *testing.T) {
	ts := newTestServer(t)

	body := validBody()
	body["id"] = 999

	rr := ts.request(http.MethodPost, "/api/players", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	created := decode[response.Player](t, rr)
	assert.NotEqual(t, int64(999), created.ID)
	assert.Equal(t, "Zoé", created.Firstname)
	assert.True(t, created.IsOK)
	assert.Equal(t, int64(2), created.NbGame)
	assert.Equal(t, "2021-02-03", created.DateLastGame)
	assert.Equal(t, fmt.Sprintf("http://example.com/api/players/%d", created.ID), rr.Header().Get("Location"))

	rr = ts.request(http.MethodGet, ts.path(model.PlayerID(created.ID), ""), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, created, decode[response.Player](t, rr))
}

func TestCreatePlayer_ForwardedProto(t *testing.T) {
	ts := newTestServer(t)

	raw, _ := json.Marshal(validBody())
	req := httptest.NewRequest(http.MethodPost, "/api/players", bytes.NewReader(raw))
	req.Host = "players.example.org"
	req.Header.Set("X-Forwarded-Proto", "https")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Header().Get("Location"), "https://players.example.org/api/players/"))
}

func TestCreatePlayer_StringForms(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/players", map[string]any{
		"firstname":    "Al",
		"isok":         "0",
		"nbgame":       "-2",
		"datelastgame": "2021-02-03T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	created := decode[response.Player](t, rr)
	assert.False(t, created.IsOK)
	assert.Equal(t, int64(-2), created.NbGame)
	assert.Equal(t, "2021-02-03", created.DateLastGame)
}

func TestCreatePlayer_ValidationListsEveryViolation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/players", map[string]any{
		"firstname":    "Z",
		"isok":         "maybe",
		"nbgame":       "abc",
		"datelastgame": "yesterday",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	resp := decode[apierr.ErrorResponse](t, rr)
	fields := make([]string, len(resp.Errors))
	for i, e := range resp.Errors {
		fields[i] = e.Field
	}
	assert.Equal(t, []string{"datelastgame", "nbgame", "isok", "firstname"}, fields)

	rr = ts.request(http.MethodGet, "/api/players", nil)
	assert.Len(t, decode[[]response.Player](t, rr), 3)
}

func TestCreatePlayer_EmptyBody(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/players", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Len(t, decode[apierr.ErrorResponse](t, rr).Errors, 4)
}

func TestCreatePlayer_MalformedJSON(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/players", "{not json")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decode[apierr.ErrorResponse](t, rr).Code)
}

func TestUpdatePlayer(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPut, ts.path(ts.ids[1], ""), validBody())
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	updated := decode[response.Player](t, rr)
	assert.Equal(t, int64(ts.ids[1]), updated.ID)
	assert.Equal(t, "Zoé", updated.Firstname)
	assert.Equal(t, fmt.Sprintf("http://example.com/api/players/%d", ts.ids[1]), rr.Header().Get("Location"))
}

func TestUpdatePlayer_InvalidLeavesRowUntouched(t *testing.T) {
	ts := newTestServer(t)

	body := validBody()
	body["firstname"] = "Z"
	rr := ts.request(http.MethodPut, ts.path(ts.ids[0], ""), body)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = ts.request(http.MethodGet, ts.path(ts.ids[0], ""), nil)
	assert.Equal(t, "Toto", decode[response.Player](t, rr).Firstname)
}

func TestUpdatePlayer_NotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPut, "/api/players/9999", validBody())
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdatePlayer_ValidationListsEveryViolation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPut, ts.path(ts.ids[0], ""), map[string]any{
		"firstname":    "Z",
		"isok":         "maybe",
		"nbgame":       "abc",
		"datelastgame": "yesterday",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	resp := decode[apierr.ErrorResponse](t, rr)
	fields := make([]string, len(resp.Errors))
	for i, e := range resp.Errors {
		fields[i] = e.Field
	}
	assert.Equal(t, []string{"datelastgame", "nbgame", "isok", "firstname"}, fields)

	rr = ts.request(http.MethodGet, ts.path(ts.ids[0], ""), nil)
	unchanged := decode[response.Player](t, rr)
	assert.Equal(t, "Toto", unchanged.Firstname)
	assert.True(t, unchanged.IsOK)
}

func TestUpdatePlayer_OutOfRangeID(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPut, "/api/players/99999999999999999999", validBody())
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidID, decode[apierr.ErrorResponse](t, rr).Code)
}

func TestNonNumericIDIsNotFound(t *testing.T) {
	ts := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/players/abc"},
		{http.MethodPut, "/api/players/abc"},
		{http.MethodDelete, "/api/players/abc"},
		{http.MethodPut, "/api/players/abc/toogle"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rr := ts.request(tc.method, tc.path, validBody())
			require.Equal(t, http.StatusNotFound, rr.Code)
			assert.Equal(t, apierr.CodeNotFound, decode[apierr.ErrorResponse](t, rr).Code)
		})
	}
}

func TestTogglePlayer_TwiceRestores(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPut, ts.path(ts.ids[0], "/toogle"), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decode[response.Player](t, rr).IsOK)
	assert.NotEmpty(t, rr.Header().Get("Location"))

	rr = ts.request(http.MethodPut, ts.path(ts.ids[0], "/toogle"), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	toggled := decode[response.Player](t, rr)
	assert.True(t, toggled.IsOK)
	assert.Equal(t, "Toto", toggled.Firstname)
}

func TestTogglePlayer_NotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPut, "/api/players/9999/toogle", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeletePlayer(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodDelete, ts.path(ts.ids[0], ""), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(1), decode[response.DeleteResponse](t, rr).Deleted)

	rr = ts.request(http.MethodDelete, ts.path(ts.ids[0], ""), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteInactive(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodDelete, "/api/players/isok0", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(2), decode[response.DeleteResponse](t, rr).Deleted)

	rr = ts.request(http.MethodGet, "/api/players", nil)
	assert.Equal(t, []string{"Toto"}, names(decode[[]response.Player](t, rr)))

	rr = ts.request(http.MethodDelete, "/api/players/isok0", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Zero(t, decode[response.DeleteResponse](t, rr).Deleted)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/nothing", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeNotFound, decode[apierr.ErrorResponse](t, rr).Code)
}

func TestWrongMethodIsMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		method string
		path   string
		allow  string
	}{
		{http.MethodPatch, "/api/players", "GET, POST"},
		{http.MethodPost, "/api/players/desc", "GET"},
		{http.MethodDelete, "/api/players/search", "GET"},
		{http.MethodGet, "/api/players/isok0", "DELETE"},
		{http.MethodGet, ts.path(ts.ids[0], "/toogle"), "PUT"},
		{http.MethodPost, ts.path(ts.ids[0], ""), "GET, PUT, DELETE"},
		{http.MethodPost, "/api/health", "GET"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := ts.request(tt.method, tt.path, nil)
			require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
			assert.Equal(t, apierr.CodeMethodNotAllowed, decode[apierr.ErrorResponse](t, rr).Code)
			assert.Equal(t, tt.allow, rr.Header().Get("Allow"))
		})
	}

	// The rejected request changed nothing
	rr := ts.request(http.MethodGet, "/api/players", nil)
	assert.Len(t, decode[[]response.Player](t, rr), 3)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/players", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	app := factory.NewTestApp(t)
	router := api.NewRouter(api.RouterConfig{
		Logger:            testutil.NopLogger(),
		PlayerService:     app.PlayerService,
		Health:            app.Store,
		RateLimitRequests: 2,
		RateLimitWindow:   time.Minute,
	})

	var last *httptest.ResponseRecorder
	for range 3 {
		last = httptest.NewRecorder()
		router.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/api/players", nil))
	}

	require.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, apierr.CodeRateLimited, decode[apierr.ErrorResponse](t, last).Code)
}
