package browse

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/reportviewer/internal/testutil"
	"github.com/leapstack-labs/reportviewer/internal/ui/features"
	"github.com/leapstack-labs/reportviewer/internal/ui/session"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func setupTestHandlers(t *testing.T) (*Handlers, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t)
	handlers := NewHandlers(
		fixture.Client,
		fixture.SessionStore,
		fixture.Inflight,
		testutil.NewTestLogger(t),
		features.TestAlertTTL,
		DefaultPageSize,
	)
	return handlers, fixture
}

func query(t *testing.T, h *Handlers, table string) string {
	t.Helper()
	req := features.SignalsRequest(t, http.MethodPost, "/api/browse/query", Signals{Table: table})
	rec := httptest.NewRecorder()
	h.QuerySSE(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func usersJSON(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf(`{"id":%d,"name":"user-%d","active":true}`, i+1, i+1)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// =============================================================================
// TablesSSE Tests
// =============================================================================

func TestTablesSSE(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	fixture.API.SetTables("users", "orders")

	rec := httptest.NewRecorder()
	h.TablesSSE(rec, httptest.NewRequest(http.MethodGet, "/api/browse/tables", nil))

	body := rec.Body.String()
	assert.Equal(t, 1, fixture.API.Hits(testutil.PathTables))
	assert.Contains(t, body, `<option value="">Select a table</option><option value="users">users</option><option value="orders">orders</option>`)
}

func TestTablesSSE_PagesOfOneSessionDoNotCancelEachOther(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	fixture.API.SetTables("users")
	fixture.API.Delay(testutil.PathTables, 300*time.Millisecond)

	primer := httptest.NewRecorder()
	_, err := session.ID(primer, httptest.NewRequest(http.MethodGet, "/", nil), fixture.SessionStore)
	require.NoError(t, err)

	tablesRequest := func(pageID string) *http.Request {
		var signals Signals
		signals.PageID = pageID
		return features.WithSession(features.SignalsQueryRequest(t, "/api/browse/tables", signals), primer)
	}

	recA := httptest.NewRecorder()
	reqA := tablesRequest("page-a")
	done := make(chan struct{})
	go func() {
		h.TablesSSE(recA, reqA)
		close(done)
	}()
	require.Eventually(t, func() bool { return fixture.API.Hits(testutil.PathTables) == 1 }, time.Second, 5*time.Millisecond)

	recB := httptest.NewRecorder()
	h.TablesSSE(recB, tablesRequest("page-b"))
	<-done

	assert.Contains(t, recA.Body.String(), `<option value="users">users</option>`, "first tab keeps its table list")
	assert.Contains(t, recB.Body.String(), `<option value="users">users</option>`)
}

func TestTablesSSE_Failures(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(api *testutil.FakeAPI)
		wantMsg string
	}{
		{
			name:    "api message",
			setup:   func(api *testutil.FakeAPI) { api.SetStatus(testutil.PathTables, "error", "permission denied") },
			wantMsg: "permission denied",
		},
		{
			name:    "no api message",
			setup:   func(api *testutil.FakeAPI) { api.SetStatus(testutil.PathTables, "error", "") },
			wantMsg: msgTablesFailed,
		},
		{
			name:    "http failure",
			setup:   func(api *testutil.FakeAPI) { api.FailWith(testutil.PathTables, http.StatusBadGateway) },
			wantMsg: "Request failed with status: 502 - Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t)
			tt.setup(fixture.API)

			rec := httptest.NewRecorder()
			h.TablesSSE(rec, httptest.NewRequest(http.MethodGet, "/api/browse/tables", nil))

			body := rec.Body.String()
			assert.Contains(t, body, tt.wantMsg)
			assert.Contains(t, body, "alert--error")
			assert.NotContains(t, body, `id="`+SelectID+`"`)
			assert.Equal(t, 1, fixture.API.Hits(testutil.PathTables), "tables are never retried")
		})
	}
}

// =============================================================================
// QuerySSE Tests
// =============================================================================

func TestQuerySSE_NoTableSelected(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	body := query(t, h, "")

	assert.Equal(t, 0, fixture.API.Hits(testutil.PathQuery))
	assert.Contains(t, body, msgSelectTable)
	assert.Contains(t, body, "alert--warning")
	assert.Contains(t, body, `"tableInvalid":true`)
	assert.NotContains(t, body, `id="`+ResultID+`"`)
}

func TestQuerySSE_NoTableSelectedKeepsQueryInFlight(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	fixture.API.SetRows("slow", `[{"id":1,"table":"slow"}]`)
	fixture.API.Delay(testutil.PathQuery, 200*time.Millisecond)

	primer := httptest.NewRecorder()
	_, err := session.ID(primer, httptest.NewRequest(http.MethodGet, "/", nil), fixture.SessionStore)
	require.NoError(t, err)

	slowRec := httptest.NewRecorder()
	slowReq := features.WithSession(features.SignalsRequest(t, http.MethodPost, "/api/browse/query", Signals{Table: "slow"}), primer)
	done := make(chan struct{})
	go func() {
		h.QuerySSE(slowRec, slowReq)
		close(done)
	}()
	require.Eventually(t, func() bool { return fixture.API.Hits(testutil.PathQuery) == 1 }, time.Second, 5*time.Millisecond)

	emptyRec := httptest.NewRecorder()
	h.QuerySSE(emptyRec, features.WithSession(features.SignalsRequest(t, http.MethodPost, "/api/browse/query", Signals{}), primer))
	<-done

	assert.Contains(t, emptyRec.Body.String(), msgSelectTable)
	assert.Contains(t, slowRec.Body.String(), "<td>slow</td>")
}

func TestQuerySSE_NoticeDoesNotHoldResponse(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	h := NewHandlers(fixture.Client, fixture.SessionStore, fixture.Inflight, testutil.NewTestLogger(t), 5*time.Second, DefaultPageSize)
	fixture.API.SetRows("users", `[]`)

	start := time.Now()
	body := query(t, h, "users")

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Contains(t, body, msgEmptyTable)
	assert.Contains(t, body, "el.remove(), 5000)")
}

func TestQuerySSE_RendersRows(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	fixture.API.SetRows("users", `[{"zeta":1,"alpha":"a","mid":null},{"zeta":2,"alpha":"b","mid":{"k":1}}]`)

	body := query(t, h, "users")

	assert.Equal(t, 1, fixture.API.Hits(testutil.PathQuery))
	assert.Equal(t, "table=users", fixture.API.LastQuery(testutil.PathQuery))
	assert.Contains(t, body, `"tableInvalid":false`)
	assert.Contains(t, body, `"browsePage":1`)
	assert.Contains(t, body, `<th>zeta</th><th>alpha</th><th>mid</th></tr>`)
	assert.Contains(t, body, `<td>1</td><td>a</td><td>NULL</td>`)
	assert.Contains(t, body, `<td>{&#34;k&#34;:1}</td>`)
	assert.NotContains(t, body, "alert--")
}

func TestQuerySSE_PagesLargeResults(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	fixture.API.SetRows("users", usersJSON(45))

	body := query(t, h, "users")

	assert.Equal(t, 3, strings.Count(body, "<tbody"))
	assert.Contains(t, body, `data-show="$browsePage === 3"`)
	assert.Contains(t, body, "<td>user-45</td>")
}

func TestQuerySSE_Failures(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(api *testutil.FakeAPI)
		wantMsg  string
		wantKind string
	}{
		{
			name:     "empty table",
			setup:    func(api *testutil.FakeAPI) { api.SetRows("users", `[]`) },
			wantMsg:  msgEmptyTable,
			wantKind: "alert--info",
		},
		{
			name:     "status error with message",
			setup:    func(api *testutil.FakeAPI) { api.SetStatus(testutil.PathQuery, "error", "table is locked") },
			wantMsg:  "table is locked",
			wantKind: "alert--error",
		},
		{
			name:     "status error without message",
			setup:    func(api *testutil.FakeAPI) { api.SetStatus(testutil.PathQuery, "error", "") },
			wantMsg:  msgNoData,
			wantKind: "alert--error",
		},
		{
			name:     "non-2xx",
			setup:    func(api *testutil.FakeAPI) { api.FailWith(testutil.PathQuery, http.StatusInternalServerError) },
			wantMsg:  "Error: Request failed with status: 500 - Internal Server Error",
			wantKind: "alert--error",
		},
		{
			name:     "transport failure",
			setup:    func(api *testutil.FakeAPI) { api.Close() },
			wantMsg:  "Error: request to /api/query failed",
			wantKind: "alert--error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t)
			tt.setup(fixture.API)

			body := query(t, h, "users")

			assert.Contains(t, body, tt.wantMsg)
			assert.Contains(t, body, tt.wantKind)
			assert.Contains(t, body, `<div id="browse-result"><div class="placeholder">`, "rows are cleared")

			// The notice removes itself after its TTL.
			assert.Contains(t, body, `id="alert-`)
			assert.Contains(t, body, "el.remove(), 20)")
		})
	}
}

func TestQuerySSE_NewQueryCancelsPrevious(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	fixture.API.SetRows("slow", `[{"id":1,"table":"slow"}]`)
	fixture.API.SetRows("fast", `[{"id":1,"table":"fast"}]`)
	fixture.API.Delay(testutil.PathQuery, 2*time.Second)

	primer := httptest.NewRecorder()
	_, err := session.ID(primer, httptest.NewRequest(http.MethodGet, "/", nil), fixture.SessionStore)
	require.NoError(t, err)

	slowRec := httptest.NewRecorder()
	slowReq := features.WithSession(features.SignalsRequest(t, http.MethodPost, "/api/browse/query", Signals{Table: "slow"}), primer)
	done := make(chan struct{})
	go func() {
		h.QuerySSE(slowRec, slowReq)
		close(done)
	}()

	require.Eventually(t, func() bool { return fixture.API.Hits(testutil.PathQuery) == 1 }, time.Second, 5*time.Millisecond)
	fixture.API.Delay(testutil.PathQuery, 0)

	fastRec := httptest.NewRecorder()
	fastReq := features.WithSession(features.SignalsRequest(t, http.MethodPost, "/api/browse/query", Signals{Table: "fast"}), primer)
	h.QuerySSE(fastRec, fastReq)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("superseded query did not return")
	}

	assert.Contains(t, fastRec.Body.String(), "<td>fast</td>")
	assert.NotContains(t, slowRec.Body.String(), "<td>slow</td>")
	assert.NotContains(t, slowRec.Body.String(), "alert--error")
}

// =============================================================================
// TestConnectionSSE Tests
// =============================================================================

func TestTestConnectionSSE(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(api *testutil.FakeAPI)
		wantMsg  string
		wantKind string
	}{
		{
			name:     "success",
			setup:    func(_ *testutil.FakeAPI) {},
			wantMsg:  msgProbeOK,
			wantKind: "alert--success",
		},
		{
			name:     "probe failed",
			setup:    func(api *testutil.FakeAPI) { api.SetStatus(testutil.PathProbe, "error", "connection refused") },
			wantMsg:  msgProbeFailed,
			wantKind: "alert--error",
		},
		{
			name:     "api unreachable",
			setup:    func(api *testutil.FakeAPI) { api.Close() },
			wantMsg:  msgProbeUnreached,
			wantKind: "alert--error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t)
			tt.setup(fixture.API)

			rec := httptest.NewRecorder()
			h.TestConnectionSSE(rec, httptest.NewRequest(http.MethodPost, "/api/browse/test-connection", nil))

			body := rec.Body.String()
			assert.Contains(t, body, tt.wantMsg)
			assert.Contains(t, body, tt.wantKind)
			assert.NotContains(t, body, `id="`+ResultID+`"`, "rows are never touched")
		})
	}
}

// =============================================================================
// ClearSSE Tests
// =============================================================================

func TestClearSSE(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.ClearSSE(rec, httptest.NewRequest(http.MethodPost, "/api/browse/clear", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `<div id="browse-result"><div class="placeholder">`)
	assert.NotContains(t, body, NoticeSlotID)
	assert.Equal(t, 0, fixture.API.Hits(testutil.PathQuery))
}

// =============================================================================
// Component Tests
// =============================================================================

func TestPanel(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Panel().Render(t.Context(), &b))
	html := b.String()

	assert.Contains(t, html, `data-init="@get('/api/browse/tables')"`)
	assert.Contains(t, html, `data-bind:table`)
	assert.Contains(t, html, `data-class:is-invalid="$tableInvalid"`)
	assert.Contains(t, html, `@post('/api/browse/test-connection')`)
}

func TestTableSelect_EscapesNames(t *testing.T) {
	var b strings.Builder
	require.NoError(t, TableSelect([]string{`a"b`}).Render(t.Context(), &b))
	assert.Contains(t, b.String(), `<option value="a&#34;b">a&#34;b</option>`)
}
