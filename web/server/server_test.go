package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
)

const tinyScene = `# Scene: Tiny
# Description: One red sphere
camera:
  center: [0, 0, 0]
  look_at: [0, 0, -1]
materials:
  red: {type: lambertian, color: [1, 0, 0]}
shapes:
  - {type: sphere, center: [0, 0, -3], radius: 1, material: red}
lights:
  - position: [0, 0, 0]
`

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "tiny.yaml"), []byte(tinyScene), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewServer(dir, core.NopLogger{})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandleHealth(t *testing.T) {
	_, ts := newTestServer(t)

	resp := get(t, ts.URL+"/api/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body)
	}
}

func TestHandleScenes(t *testing.T) {
	_, ts := newTestServer(t)

	resp := get(t, ts.URL+"/api/scenes")
	var groups []scene.SceneGroup
	if err := json.NewDecoder(resp.Body).Decode(&groups); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	ids := map[string]bool{}
	for _, group := range groups {
		for _, info := range group.Scenes {
			ids[info.ID] = true
		}
	}
	for _, id := range []string{"default", "cornell", "file:tiny"} {
		if !ids[id] {
			t.Errorf("Expected scene %q in listing %v", id, ids)
		}
	}
}

func TestHandleRender(t *testing.T) {
	_, ts := newTestServer(t)

	resp := get(t, ts.URL+"/api/scenes/file:tiny/render?width=40&height=30&samples=1&gamma=2.2")
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}
	if resp.Header.Get("X-Render-Samples") != "1200" {
		t.Errorf("Expected 1200 samples, got %q", resp.Header.Get("X-Render-Samples"))
	}

	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("Response is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("Expected 40x30, got %v", b)
	}
	if r, g, _, _ := img.At(20, 15).RGBA(); r == 0 || g != 0 {
		t.Errorf("Expected red center pixel, got r=%d g=%d", r, g)
	}
}

func TestHandleRender_Errors(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"unknown scene", "/api/scenes/nonexistent/render", http.StatusNotFound},
		{"width too small", "/api/scenes/default/render?width=2", http.StatusBadRequest},
		{"non-numeric samples", "/api/scenes/default/render?samples=lots", http.StatusBadRequest},
		{"depth too large", "/api/scenes/default/render?depth=9999", http.StatusBadRequest},
		{"bad row order", "/api/scenes/default/render?rowOrder=sideways", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, ts.URL+tt.path)
			if resp.StatusCode != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, resp.StatusCode)
			}
			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body["error"] == "" {
				t.Errorf("Expected JSON error body, got %v (%v)", body, err)
			}
		})
	}
}

func TestHandleInspect(t *testing.T) {
	_, ts := newTestServer(t)

	resp := get(t, ts.URL+"/api/scenes/file:tiny/inspect?width=40&height=30&x=20&y=15")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var result InspectResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !result.Hit || result.ShapeIndex != 0 {
		t.Fatalf("Expected a hit on shape 0, got %+v", result)
	}
	if result.GeometryType != "sphere" || result.MaterialType != "lambertian" {
		t.Errorf("Expected lambertian sphere, got %s %s", result.MaterialType, result.GeometryType)
	}
	if !result.FrontFace || result.Normal[2] <= 0 {
		t.Errorf("Expected front face facing the camera, got %+v", result)
	}

	materialProps, ok := result.Properties["material"].(map[string]interface{})
	if !ok || materialProps["color"] != "#ff0000" {
		t.Errorf("Expected red material color, got %v", result.Properties["material"])
	}
}

func TestHandleInspect_Miss(t *testing.T) {
	_, ts := newTestServer(t)

	resp := get(t, ts.URL+"/api/scenes/file:tiny/inspect?width=40&height=30&x=0&y=0")
	var result InspectResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if result.Hit || result.ShapeIndex != -1 {
		t.Errorf("Expected a miss in the corner, got %+v", result)
	}
}

func TestHandleInspect_Errors(t *testing.T) {
	_, ts := newTestServer(t)

	for _, path := range []string{
		"/api/scenes/file:tiny/inspect?width=40&height=30",
		"/api/scenes/file:tiny/inspect?width=40&height=30&x=40&y=0",
		"/api/scenes/file:tiny/inspect?width=40&height=30&x=0&y=-1",
	} {
		if resp := get(t, ts.URL+path); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, resp.StatusCode)
		}
	}
}

func TestMetrics(t *testing.T) {
	_, ts := newTestServer(t)

	get(t, ts.URL+"/api/scenes/file:tiny/render?width=16&height=16&samples=1")
	get(t, ts.URL+"/api/scenes/file:tiny/inspect?width=40&height=30&x=20&y=15")

	body, err := io.ReadAll(get(t, ts.URL+"/metrics").Body)
	if err != nil {
		t.Fatal(err)
	}
	for _, expected := range []string{
		`raytracer_renders_total{status="ok"} 1`,
		`raytracer_primary_samples_total 256`,
		`raytracer_inspects_total{hit="true"} 1`,
		`raytracer_render_duration_seconds_count 1`,
	} {
		if !strings.Contains(string(body), expected) {
			t.Errorf("Expected %q in metrics output", expected)
		}
	}
}

func TestHandleRender_CancelledRequest(t *testing.T) {
	s, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/scenes/file:tiny/render?width=16&height=16", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", rec.Code)
	}
	if got := testutil.ToFloat64(s.metrics.RendersTotal.WithLabelValues("cancelled")); got != 1 {
		t.Errorf("Expected 1 cancelled render, got %v", got)
	}
	if got := testutil.ToFloat64(s.metrics.RendersTotal.WithLabelValues("error")); got != 0 {
		t.Errorf("Expected no errored renders, got %v", got)
	}
}

func TestRenderFailure(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status string
		code   int
	}{
		{"cancelled", context.Canceled, "cancelled", http.StatusServiceUnavailable},
		{"wrapped cancel", fmt.Errorf("tile 3: %w", context.Canceled), "cancelled", http.StatusServiceUnavailable},
		{"deadline", context.DeadlineExceeded, "cancelled", http.StatusServiceUnavailable},
		{"other failure", errors.New("framebuffer full"), "error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := renderFailure(tt.err)
			if status != tt.status || code != tt.code {
				t.Errorf("Expected (%s, %d), got (%s, %d)", tt.status, tt.code, status, code)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	_, ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/health", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Origin", "http://example.com")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected wildcard CORS origin, got %q", got)
	}
}

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected int
		wantErr  bool
	}{
		{"default", "", 7, false},
		{"value", "n=12", 12, false},
		{"below min", "n=0", 0, true},
		{"above max", "n=101", 0, true},
		{"not a number", "n=ten", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			got, err := parseIntParam(req.URL.Query(), "n", 7, 1, 100)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestStart_ShutsDownOnCancel(t *testing.T) {
	s := NewServer(t.TempDir(), core.NopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
