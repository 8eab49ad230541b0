// Package features provides shared test utilities for UI feature tests.
package features

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/reportviewer/internal/apiclient"
	"github.com/leapstack-labs/reportviewer/internal/testutil"
	"github.com/leapstack-labs/reportviewer/internal/ui/inflight"
	"github.com/leapstack-labs/reportviewer/internal/ui/notifier"
	"github.com/leapstack-labs/reportviewer/internal/ui/session"
)

// TestAlertTTL keeps notices short-lived so handler tests finish quickly.
const TestAlertTTL = 20 * time.Millisecond

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	API          *testutil.FakeAPI
	Client       *apiclient.Client
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
	Inflight     *inflight.Tracker
}

// SetupTestFixture creates a fake upstream API and a client pointed at it.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	api := testutil.NewFakeAPI(t)
	client, err := apiclient.New(apiclient.Config{
		BaseURL: api.URL,
		Timeout: 2 * time.Second,
		Logger:  testutil.NewTestLogger(t),
	})
	require.NoError(t, err)

	return &TestFixture{
		API:          api,
		Client:       client,
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
		Inflight:     inflight.New(),
	}
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return session.NewStore("test-secret-key-32-bytes-long!!")
}

// SignalsRequest builds a Datastar action request carrying signals as its
// JSON body.
func SignalsRequest(t *testing.T, method, target string, signals any) *http.Request {
	t.Helper()

	body, err := json.Marshal(signals)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Datastar-Request", "true")
	return req
}

// SignalsQueryRequest builds a Datastar GET action request carrying signals
// in the datastar query parameter.
func SignalsQueryRequest(t *testing.T, target string, signals any) *http.Request {
	t.Helper()

	body, err := json.Marshal(signals)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, target+"?datastar="+url.QueryEscape(string(body)), nil)
	req.Header.Set("Datastar-Request", "true")
	return req
}

// WithSession copies the session cookie issued in rec onto req so both
// requests belong to the same browser session.
func WithSession(req *http.Request, rec *httptest.ResponseRecorder) *http.Request {
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			req.AddCookie(c)
		}
	}
	return req
}
