package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// Paths served by FakeAPI, usable as keys for Hits and FailWith.
const (
	PathUser   = "/api/user"
	PathTables = "/api/query/tables"
	PathQuery  = "/api/query"
	PathProbe  = "/api/db/test-connection"
)

// FakeAPI is an in-process stand-in for the external report API.
// All fields may be changed between requests through the setters.
type FakeAPI struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[string]json.RawMessage
	tables   []string
	rows     map[string]json.RawMessage
	status   map[string]string
	message  map[string]string
	failWith map[string]int
	delay    map[string]time.Duration
	hits     map[string]int
	lastQS   map[string]string
}

// NewFakeAPI starts a fake API that is closed when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		users:    make(map[string]json.RawMessage),
		rows:     make(map[string]json.RawMessage),
		status:   make(map[string]string),
		message:  make(map[string]string),
		failWith: make(map[string]int),
		delay:    make(map[string]time.Duration),
		hits:     make(map[string]int),
		lastQS:   make(map[string]string),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/user/{id}", f.handleUser)
	mux.HandleFunc("GET /api/query/tables", f.handleTables)
	mux.HandleFunc("GET /api/query", f.handleQuery)
	mux.HandleFunc("GET /api/db/test-connection", f.handleProbe)

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

// SetUser registers a user record; raw must be a JSON object.
func (f *FakeAPI) SetUser(id, raw string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id] = json.RawMessage(raw)
}

// SetTables sets the table list returned by the tables endpoint.
func (f *FakeAPI) SetTables(tables ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables = tables
}

// SetRows sets the rows for table; raw must be a JSON array.
func (f *FakeAPI) SetRows(table, raw string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[table] = json.RawMessage(raw)
}

// SetStatus overrides the "status" and "message" fields returned on path.
func (f *FakeAPI) SetStatus(path, status, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status[path] = status
	f.message[path] = message
}

// FailWith makes path answer with the given HTTP status code.
func (f *FakeAPI) FailWith(path string, code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWith[path] = code
}

// Delay makes path wait before answering (or until the client goes away).
func (f *FakeAPI) Delay(path string, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay[path] = d
}

// Hits returns how many requests reached path.
func (f *FakeAPI) Hits(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

// LastQuery returns the raw query string of the last request to path.
func (f *FakeAPI) LastQuery(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQS[path]
}

// begin records the hit and applies delay and forced failures.
// It returns false when the response has already been written.
func (f *FakeAPI) begin(w http.ResponseWriter, r *http.Request, path string) bool {
	f.mu.Lock()
	f.hits[path]++
	f.lastQS[path] = r.URL.RawQuery
	delay := f.delay[path]
	code := f.failWith[path]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return false
		}
	}
	if code != 0 {
		http.Error(w, http.StatusText(code), code)
		return false
	}
	return true
}

func (f *FakeAPI) statusFor(path string) (string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	status, ok := f.status[path]
	if !ok {
		status = "success"
	}
	return status, f.message[path]
}

func (f *FakeAPI) handleUser(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, r, PathUser) {
		return
	}
	f.mu.Lock()
	raw, ok := f.users[r.PathValue("id")]
	f.mu.Unlock()

	if !ok {
		raw = json.RawMessage("null")
	}
	writeJSON(w, map[string]any{"data": raw})
}

func (f *FakeAPI) handleTables(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, r, PathTables) {
		return
	}
	status, message := f.statusFor(PathTables)
	f.mu.Lock()
	tables := f.tables
	f.mu.Unlock()
	if tables == nil {
		tables = []string{}
	}

	body := map[string]any{"status": status, "tables": tables}
	if message != "" {
		body["message"] = message
	}
	writeJSON(w, body)
}

func (f *FakeAPI) handleQuery(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, r, PathQuery) {
		return
	}
	status, message := f.statusFor(PathQuery)
	f.mu.Lock()
	raw, ok := f.rows[r.URL.Query().Get("table")]
	f.mu.Unlock()
	if !ok {
		raw = json.RawMessage("[]")
	}

	body := map[string]any{"status": status, "data": raw}
	if message != "" {
		body["message"] = message
	}
	writeJSON(w, body)
}

func (f *FakeAPI) handleProbe(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, r, PathProbe) {
		return
	}
	status, message := f.statusFor(PathProbe)
	body := map[string]any{"status": status}
	if message != "" {
		body["message"] = message
	}
	writeJSON(w, body)
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
