package home

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/reportviewer/internal/testutil"
	"github.com/leapstack-labs/reportviewer/internal/ui/features"
	"github.com/leapstack-labs/reportviewer/internal/ui/notifier"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func setupTestHandlers(t *testing.T) (*Handlers, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t)
	handlers := NewHandlers(fixture.Client, fixture.Notifier, testutil.NewTestLogger(t))
	return handlers, fixture
}

// runUpdates serves /updates until timeout, calling during once the
// subscription is live.
func runUpdates(t *testing.T, h *Handlers, timeout time.Duration, during func()) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/updates", nil)
	ctx, cancel := context.WithTimeout(req.Context(), timeout)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		h.HomePageUpdates(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return h.notifier.Len() == 1 }, time.Second, 5*time.Millisecond)
	during()
	<-done

	return rec.Body.String()
}

// =============================================================================
// HomePage Tests - Full HTML page responses with server-rendered content
// =============================================================================

func TestHomePage(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.HomePage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()

	wantBody := []string{
		"<!doctype html>",
		"<title>API &amp; Data Query Test - Report Viewer</title>",
		"<h1>API &amp; Data Query Test</h1>",
		">API</button>",
		">Direct DB</button>",
		`data-init="@get('/updates')"`,
		`id="lookup-panel"`,
		`id="browse-panel"`,
		"API: " + fixture.API.URL,
	}
	for _, want := range wantBody {
		assert.Contains(t, body, want, "response should contain %q", want)
	}

	// Rendering the page must not call the API; the table list is
	// requested by the browser once the panel initialises.
	assert.Equal(t, 0, fixture.API.Hits(testutil.PathTables))
}

func TestHomePage_TabsToggleClientSide(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Shell("http://api.local", "page-1").Render(t.Context(), &b))
	html := b.String()

	assert.Contains(t, html, `data-signals="{tab: 'api', pageId: 'page-1'}"`)
	assert.Contains(t, html, `data-on:click="$tab = 'db'"`)
	assert.Contains(t, html, `data-show="$tab === 'api'"`)
	assert.Contains(t, html, `data-show="$tab === 'db'"`)
}

func TestHomePage_FreshPageIDPerLoad(t *testing.T) {
	h, _ := setupTestHandlers(t)

	pageIDs := make(map[string]bool)
	for range 2 {
		rec := httptest.NewRecorder()
		h.HomePage(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		body := rec.Body.String()
		start := strings.Index(body, "pageId: '")
		require.NotEqual(t, -1, start)
		id := body[start+len("pageId: '"):]
		id = id[:strings.Index(id, "'")]
		require.NotEmpty(t, id)
		pageIDs[id] = true
	}
	assert.Len(t, pageIDs, 2, "each load gets its own page id")
}

// =============================================================================
// HomePageUpdates Tests - SSE endpoint for live updates only
// =============================================================================

func TestHomePageUpdates_SendsEndpointOnBroadcast(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	body := runUpdates(t, h, 200*time.Millisecond, func() {
		fixture.Notifier.Broadcast(notifier.Change{BaseURL: "http://reports.internal:9000", At: time.Now()})
	})

	assert.GreaterOrEqual(t, strings.Count(body, "event:"), 1)
	assert.Contains(t, body, `id="api-endpoint"`)
	assert.Contains(t, body, "API: http://reports.internal:9000")
}

func TestHomePageUpdates_FallsBackToClientAddress(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	body := runUpdates(t, h, 200*time.Millisecond, func() {
		fixture.Notifier.Broadcast(notifier.Change{At: time.Now()})
	})

	assert.Contains(t, body, "API: "+fixture.Client.BaseURL())
}

func TestHomePageUpdates_NoInitialState(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/updates", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 50*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	h.HomePageUpdates(rec, req)

	assert.Equal(t, 0, strings.Count(rec.Body.String(), "event:"), "should have no SSE events without broadcast")
	assert.Equal(t, 0, h.notifier.Len(), "subscription is released")
}
