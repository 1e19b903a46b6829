package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	mazeerrors "github.com/matzehuels/tiltmaze/pkg/errors"
	"github.com/matzehuels/tiltmaze/pkg/level"
	"github.com/matzehuels/tiltmaze/pkg/pipeline"
	"github.com/matzehuels/tiltmaze/pkg/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(pipeline.NewRunner(nil, nil, logger), store.NewMemoryStore(), logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode %s: %v", resp.Request.URL, err)
	}
	return v
}

func expectError(t *testing.T, resp *http.Response, status int, code mazeerrors.Code) {
	t.Helper()
	if resp.StatusCode != status {
		t.Errorf("%s %s: status %d, want %d", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, status)
	}
	body := decode[errorBody](t, resp)
	if body.Code != code {
		t.Errorf("%s %s: code %q, want %q", resp.Request.Method, resp.Request.URL.Path, body.Code, code)
	}
	if body.Message == "" {
		t.Error("error body has no message")
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if resp.Header.Get(requestIDHeader) == "" {
		t.Error("missing request id")
	}
}

func TestRequestIDEcho(t *testing.T) {
	ts := newTestServer(t)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(requestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestLevelLifecycle(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/v1/levels",
		`{"name":"intro","size":5,"seed":3,"floor_hole_probability":0.5,"next_level":"level-2"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d", resp.StatusCode)
	}
	created := decode[level.Level](t, resp)
	if created.ID == "" || created.Size != 5 || created.Seed != 3 || created.NextLevel != "level-2" {
		t.Fatalf("created = %+v", created.Summarize())
	}
	if loc := resp.Header.Get("Location"); loc != "/v1/levels/"+created.ID {
		t.Errorf("Location = %q", loc)
	}

	list := decode[struct {
		Levels []level.Summary `json:"levels"`
	}](t, do(t, http.MethodGet, ts.URL+"/v1/levels", ""))
	if len(list.Levels) != 1 || list.Levels[0].ID != created.ID {
		t.Errorf("list = %+v", list.Levels)
	}

	for _, ref := range []string{created.ID, "intro"} {
		resp := do(t, http.MethodGet, ts.URL+"/v1/levels/"+ref, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("get %s: status %d", ref, resp.StatusCode)
		}
		got := decode[level.Level](t, resp)
		if got.ID != created.ID {
			t.Errorf("get %s returned %s", ref, got.ID)
		}
		if _, err := got.ToMaze(); err != nil {
			t.Errorf("served level invalid: %v", err)
		}
	}

	resp = do(t, http.MethodDelete, ts.URL+"/v1/levels/"+created.ID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete: status %d", resp.StatusCode)
	}
	expectError(t, do(t, http.MethodGet, ts.URL+"/v1/levels/"+created.ID, ""),
		http.StatusNotFound, mazeerrors.ErrCodeLevelNotFound)
	expectError(t, do(t, http.MethodDelete, ts.URL+"/v1/levels/"+created.ID, ""),
		http.StatusNotFound, mazeerrors.ErrCodeLevelNotFound)
}

func TestCreateDefaults(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodPost, ts.URL+"/v1/levels", "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status %d", resp.StatusCode)
	}
	l := decode[level.Level](t, resp)
	if l.Size != pipeline.DefaultSize || l.Seed == 0 {
		t.Errorf("defaults not applied: size=%d seed=%d", l.Size, l.Seed)
	}
	if l.Palette.Single != level.DefaultSingle {
		t.Errorf("palette = %+v", l.Palette)
	}
}

func TestCreateErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name string
		body string
		code mazeerrors.Code
	}{
		{"size one", `{"size":1}`, mazeerrors.ErrCodeInvalidConfiguration},
		{"probability", `{"death_wall_probability":2}`, mazeerrors.ErrCodeInvalidConfiguration},
		{"unknown field", `{"sise":4}`, mazeerrors.ErrCodeInvalidInput},
		{"malformed", `{"size":`, mazeerrors.ErrCodeInvalidInput},
		{"bad name", `{"name":"../x"}`, mazeerrors.ErrCodeInvalidLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, do(t, http.MethodPost, ts.URL+"/v1/levels", tt.body), http.StatusBadRequest, tt.code)
		})
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t)
	created := decode[level.Level](t, do(t, http.MethodPost, ts.URL+"/v1/levels", `{"size":4,"seed":9}`))
	base := ts.URL + "/v1/levels/" + created.ID + "/render/"

	tests := []struct {
		path        string
		contentType string
		want        string
	}{
		{"txt", "text/plain; charset=utf-8", "+---+"},
		{"txt?solution=true", "text/plain; charset=utf-8", "."},
		{"tree", "text/plain; charset=utf-8", ""},
		{"dot", "text/vnd.graphviz; charset=utf-8", "graph G"},
		{"svg", "image/svg+xml", "<svg"},
		{"svg?type=nodelink", "image/svg+xml", "<svg"},
		{"json", "application/json", `"corridors"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := do(t, http.MethodGet, base+tt.path, "")
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status %d", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			body, _ := io.ReadAll(resp.Body)
			if len(body) == 0 || !strings.Contains(string(body), tt.want) {
				t.Errorf("body does not contain %q", tt.want)
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	ts := newTestServer(t)
	created := decode[level.Level](t, do(t, http.MethodPost, ts.URL+"/v1/levels", `{"size":3,"seed":1}`))
	base := ts.URL + "/v1/levels/" + created.ID + "/render/"

	expectError(t, do(t, http.MethodGet, base+"gif", ""), http.StatusBadRequest, mazeerrors.ErrCodeInvalidFormat)
	expectError(t, do(t, http.MethodGet, base+"svg?type=tower", ""), http.StatusBadRequest, mazeerrors.ErrCodeInvalidVizType)
	expectError(t, do(t, http.MethodGet, base+"svg?solution=maybe", ""), http.StatusBadRequest, mazeerrors.ErrCodeInvalidInput)
	for _, size := range []string{"NaN", "Inf", "-Inf", "-1", "100000"} {
		expectError(t, do(t, http.MethodGet, base+"svg?cell_size="+size, ""),
			http.StatusBadRequest, mazeerrors.ErrCodeInvalidConfiguration)
	}
	expectError(t, do(t, http.MethodGet, ts.URL+"/v1/levels/missing/render/txt", ""),
		http.StatusNotFound, mazeerrors.ErrCodeLevelNotFound)
}

func TestUnknownRoutes(t *testing.T) {
	ts := newTestServer(t)
	expectError(t, do(t, http.MethodGet, ts.URL+"/v2/levels", ""), http.StatusNotFound, mazeerrors.ErrCodeNotFound)

	resp := do(t, http.MethodPut, ts.URL+"/v1/levels", "{}")
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("PUT status %d, want 405", resp.StatusCode)
	}
}
