package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/objectgrid/pkg/cache"
	"github.com/matzehuels/objectgrid/pkg/collection"
	"github.com/matzehuels/objectgrid/pkg/errors"
	"github.com/matzehuels/objectgrid/pkg/layout"
	"github.com/matzehuels/objectgrid/pkg/observability"
	"github.com/matzehuels/objectgrid/pkg/pipeline"
)

const galleryJSON = `{
  "name": "gallery",
  "items": [
    {"id": "a", "name": "Dawn"},
    {"id": "b", "name": "Noon"},
    {"id": "c", "name": "Dusk"}
  ]
}`

func newTestServer(t *testing.T, maxBody int64) http.Handler {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	s := &server{
		runner:  pipeline.NewRunner(fc, cache.NewScopedKeyer(nil, serveKeyPrefix), logger),
		base:    collection.DefaultConfig(),
		seed:    pipeline.DefaultSeed,
		passes:  collection.DefaultPackPasses,
		maxBody: maxBody,
		timeout: 5 * time.Second,
		logger:  logger,
	}
	t.Cleanup(func() { s.runner.Close() })
	return s.routes()
}

func postLayout(h http.Handler, query, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/layout"+query, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestServeHealth(t *testing.T) {
	h := newTestServer(t, 0)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil || body["status"] != "ok" {
		t.Errorf("body = %s, err = %v", rr.Body.String(), err)
	}
}

func TestServeLayout(t *testing.T) {
	h := newTestServer(t, 0)

	rr := postLayout(h, "", "application/json", galleryJSON)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("X-Objectgrid-Cache"); got != "miss" {
		t.Errorf("first X-Objectgrid-Cache = %q, want miss", got)
	}
	if rr.Header().Get("X-Objectgrid-Scene-Hash") != cache.Hash([]byte(galleryJSON)) {
		t.Error("scene hash header does not match the body")
	}
	l, err := layout.Unmarshal(rr.Body.Bytes())
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if l.Scene != "gallery" || len(l.Placements) != 3 {
		t.Errorf("layout scene=%q placements=%d", l.Scene, len(l.Placements))
	}

	again := postLayout(h, "", "application/json", galleryJSON)
	if got := again.Header().Get("X-Objectgrid-Cache"); got != "hit" {
		t.Errorf("second X-Objectgrid-Cache = %q, want hit", got)
	}
	if again.Body.String() != rr.Body.String() {
		t.Error("cached body differs")
	}
}

func TestServeLayoutQueryOverrides(t *testing.T) {
	h := newTestServer(t, 0)

	rr := postLayout(h, "?surface=sphere&rows=1&radius=4&orient=face-origin-reversed", "application/json", galleryJSON)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	l, err := layout.Unmarshal(rr.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	c := l.Config
	if c.Surface != collection.SurfaceSphere || c.Rows != 1 || c.Radius != 4 || c.Orient != collection.OrientFaceOriginReversed {
		t.Errorf("Config = %+v", c)
	}

	toml := "[[items]]\nid = \"x\"\n"
	rr = postLayout(h, "?name=hall", "text/plain", toml)
	if rr.Code != http.StatusOK {
		t.Fatalf("toml status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if l, _ := layout.Unmarshal(rr.Body.Bytes()); l.Scene != "hall" {
		t.Errorf("Scene = %q, want name parameter", l.Scene)
	}
}

func TestServeLayoutErrors(t *testing.T) {
	h := newTestServer(t, 256)

	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   errors.Code
	}{
		{"malformed scene", "", `{"items": [`, http.StatusBadRequest, errors.ErrCodeInvalidScene},
		{"bad rows", "?rows=many", galleryJSON, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad surface", "?surface=torus", galleryJSON, http.StatusBadRequest, errors.ErrCodeInvalidSurface},
		{"zero radius", "?surface=cylinder&radius=0", galleryJSON, http.StatusBadRequest, errors.ErrCodeInvalidConfig},
		{"bad format", "?format=yaml", galleryJSON, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"too large", "", `{"items": [` + strings.Repeat(`{"id": "x"},`, 64) + `]}`, http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidScene},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postLayout(h, tt.query, "application/json", tt.body)
			if rr.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.status, rr.Body.String())
			}
			var body errorBody
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("error body: %v", err)
			}
			if body.Code != tt.code || body.Error == "" {
				t.Errorf("body = %+v, want code %s", body, tt.code)
			}
		})
	}
}

func TestServeMethodNotAllowed(t *testing.T) {
	h := newTestServer(t, 0)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/layout", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rr.Code)
	}
}

type recordingHTTPHooks struct {
	mu        sync.Mutex
	requests  []string
	responses []string
	statuses  []int
}

func (h *recordingHTTPHooks) OnRequest(_ context.Context, method, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, method+" "+path)
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, method, path string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, method+" "+path)
	h.statuses = append(h.statuses, status)
}

func TestServeHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	h := newTestServer(t, 0)
	postLayout(h, "", "application/json", galleryJSON)
	postLayout(h, "?rows=x", "application/json", galleryJSON)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.requests) != 2 || hooks.requests[0] != "POST /v1/layout" {
		t.Errorf("requests = %v", hooks.requests)
	}
	if len(hooks.responses) != 2 || hooks.responses[0] != "POST /v1/layout" {
		t.Errorf("responses = %v", hooks.responses)
	}
	if len(hooks.statuses) != 2 || hooks.statuses[0] != http.StatusOK || hooks.statuses[1] != http.StatusBadRequest {
		t.Errorf("statuses = %v", hooks.statuses)
	}
}
