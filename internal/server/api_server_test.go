package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"cinematch/internal/api"
	"cinematch/internal/testsupport"
)

func newTestServer(t *testing.T, build bool) *Server {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithSampleDataset())
	srv, err := New(cfg, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if build {
		if _, err := srv.Rebuild(context.Background()); err != nil {
			t.Fatalf("Rebuild: %v", err)
		}
	}
	return srv
}

func serve(t *testing.T, srv *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, body io.Reader) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestHandleRecommendations(t *testing.T) {
	srv := newTestServer(t, true)

	w := serve(t, srv, http.MethodGet, "/api/recommendations?title=Alien&top_n=1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected a request id header")
	}
	resp := decode[api.RecommendationsResponse](t, w.Body)
	if len(resp.Recommendations) != 1 || resp.Recommendations[0].Title != "Aliens" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Recommendations[0].Score != nil {
		t.Fatal("scores should be omitted unless requested")
	}

	w = serve(t, srv, http.MethodGet, "/api/recommendations?title=Alien&top_n=1&scores=true")
	resp = decode[api.RecommendationsResponse](t, w.Body)
	if resp.Recommendations[0].Score == nil {
		t.Fatal("expected score when requested")
	}
}

func TestHandleRecommendationsErrors(t *testing.T) {
	srv := newTestServer(t, true)

	tests := []struct {
		name   string
		target string
		status int
		kind   string
	}{
		{name: "missing title", target: "/api/recommendations", status: http.StatusBadRequest, kind: "validation"},
		{name: "bad top_n", target: "/api/recommendations?title=Alien&top_n=abc", status: http.StatusBadRequest, kind: "validation"},
		{name: "zero top_n", target: "/api/recommendations?title=Alien&top_n=0", status: http.StatusBadRequest, kind: "validation"},
		{name: "unknown title", target: "/api/recommendations?title=Nope", status: http.StatusNotFound, kind: "not_found"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(t, srv, http.MethodGet, tc.target)
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.status, w.Body.String())
			}
			resp := decode[api.ErrorResponse](t, w.Body)
			if resp.Kind != tc.kind || resp.Error == "" {
				t.Fatalf("unexpected error body %+v", resp)
			}
		})
	}
}

func TestHandleRecommendationsSuggestions(t *testing.T) {
	srv := newTestServer(t, true)
	w := serve(t, srv, http.MethodGet, "/api/recommendations?title=ALIENS")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	resp := decode[api.ErrorResponse](t, w.Body)
	if len(resp.Suggestions) != 1 || resp.Suggestions[0] != "Aliens" {
		t.Fatalf("suggestions = %q", resp.Suggestions)
	}
}

func TestHandleHealthAndProfilesBeforeBuild(t *testing.T) {
	srv := newTestServer(t, false)

	w := serve(t, srv, http.MethodGet, "/api/health")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before build, got %d", w.Code)
	}
	health := decode[api.HealthResponse](t, w.Body)
	if health.Ready || health.Status != "starting" {
		t.Fatalf("unexpected health %+v", health)
	}

	w = serve(t, srv, http.MethodGet, "/api/profiles")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for profiles before build, got %d", w.Code)
	}
}

func TestHandleRebuildAndProfiles(t *testing.T) {
	srv := newTestServer(t, false)

	w := serve(t, srv, http.MethodPost, "/api/rebuild")
	if w.Code != http.StatusOK {
		t.Fatalf("rebuild status = %d: %s", w.Code, w.Body.String())
	}
	summary := decode[api.BuildSummary](t, w.Body)
	if summary.Profiles != 5 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	w = serve(t, srv, http.MethodGet, "/api/profiles?limit=2")
	if w.Code != http.StatusOK {
		t.Fatalf("profiles status = %d", w.Code)
	}
	profiles := decode[api.ProfilesResponse](t, w.Body)
	if profiles.Total != 5 || len(profiles.Profiles) != 2 || profiles.Profiles[0].Title != "Alien" {
		t.Fatalf("unexpected profiles %+v", profiles)
	}
	if profiles.Profiles[0].Features != "horror|scifi" {
		t.Fatalf("features = %q", profiles.Profiles[0].Features)
	}

	w = serve(t, srv, http.MethodGet, "/api/health")
	health := decode[api.HealthResponse](t, w.Body)
	if !health.Ready || health.Build == nil || health.Build.ID != summary.ID {
		t.Fatalf("unexpected health %+v", health)
	}
}

func TestRoutingErrorsAndMetrics(t *testing.T) {
	srv := newTestServer(t, true)

	if w := serve(t, srv, http.MethodGet, "/api/rebuild"); w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /api/rebuild = %d, want 405", w.Code)
	}
	if w := serve(t, srv, http.MethodGet, "/api/nope"); w.Code != http.StatusNotFound {
		t.Fatalf("GET /api/nope = %d, want 404", w.Code)
	}

	serve(t, srv, http.MethodGet, "/api/recommendations?title=Alien")
	w := serve(t, srv, http.MethodGet, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", w.Code)
	}
	body := w.Body.String()
	for _, name := range []string{"cinematch_queries_total", "cinematch_builds_total", "cinematch_http_requests_total"} {
		if !strings.Contains(body, name) {
			t.Fatalf("metrics output missing %s", name)
		}
	}
}

func TestRequestIDPropagates(t *testing.T) {
	srv := newTestServer(t, true)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("request id = %q, want abc-123", got)
	}
}
