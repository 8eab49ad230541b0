package router

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/reportviewer/internal/testutil"
	"github.com/leapstack-labs/reportviewer/internal/ui/features"
	"github.com/leapstack-labs/reportviewer/internal/ui/session"
)

func setupRouter(t *testing.T) (*chi.Mux, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t)
	r := chi.NewMux()
	require.NoError(t, SetupRoutes(r, Deps{
		Client:       fixture.Client,
		SessionStore: fixture.SessionStore,
		Notifier:     fixture.Notifier,
		Inflight:     fixture.Inflight,
		Logger:       testutil.NewTestLogger(t),
		AlertTTL:     features.TestAlertTTL,
		PageSize:     20,
	}))
	return r, fixture
}

func TestSetupRoutes(t *testing.T) {
	r, fixture := setupRouter(t)
	fixture.API.SetTables("users")
	fixture.API.SetUser("3", `{"id":3,"name":"Linus"}`)

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
		wantBody string
	}{
		{"home page", http.MethodGet, "/", "", http.StatusOK, "API &amp; Data Query Test"},
		{"stylesheet", http.MethodGet, "/static/app.css", "", http.StatusOK, ".alert--error"},
		{"table list", http.MethodGet, "/api/browse/tables", "", http.StatusOK, `<option value="users">`},
		{"user search", http.MethodPost, "/api/lookup/search", `{"userId":"3"}`, http.StatusOK, "<td>Linus</td>"},
		{"browse clear", http.MethodPost, "/api/browse/clear", "{}", http.StatusOK, "browse-result"},
		{"wrong method", http.MethodGet, "/api/lookup/search", "", http.StatusMethodNotAllowed, ""},
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestSetupRoutes_IssuesSessionOnce(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/browse/test-connection", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var sessionCookies int
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			sessionCookies++
		}
	}
	assert.Equal(t, 1, sessionCookies)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := chi.NewMux()
	r.Use(middleware.RequestID, RequestLogger(logger))
	r.Get("/teapot", func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(time.Millisecond)
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/teapot", nil))

	out := buf.String()
	assert.Contains(t, out, "msg=http_request")
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "path=/teapot")
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "request_id=")
}
