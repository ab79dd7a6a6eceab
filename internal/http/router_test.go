package http_test

import (
	"io"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/TC28082003/datanaver/internal/config"
	httpx "github.com/TC28082003/datanaver/internal/http"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRouter() *gin.Engine {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := config.Config{
		Env:          "dev",
		JWTSecret:    "test-secret",
		TokenTTL:     time.Hour,
		MaxBodyBytes: 1 << 20,
	}

	// nil pool: routes that need the store are not exercised here
	return httpx.NewRouter(log, nil, cfg)
}

func TestUnmatchedRoute(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(nethttp.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != nethttp.StatusNotFound {
		t.Fatalf("got status %d, want 404", w.Code)
	}

	want := `"Endpoint not found: GET /nope"`

	if !strings.Contains(w.Body.String(), want) {
		t.Fatalf("body %q missing %s", w.Body.String(), want)
	}
}

func TestRootLiveness(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(nethttp.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != nethttp.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}

	if w.Body.String() != "Navigation App Backend is running!" {
		t.Fatalf("unexpected body: %q", w.Body.String())
	}
}

func TestCORSHeaders(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(nethttp.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://somewhere.example")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want *", got)
	}

	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("Access-Control-Allow-Credentials = %q, want true", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(nethttp.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://somewhere.example")
	req.Header.Set("Access-Control-Request-Method", "POST")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != nethttp.StatusNoContent {
		t.Fatalf("got status %d, want 204", w.Code)
	}
}

func TestNonJSONBodyRejected(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(nethttp.MethodPost, "/api/auth/login", strings.NewReader("email=a@x.com"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != nethttp.StatusUnsupportedMediaType {
		t.Fatalf("got status %d, want 415", w.Code)
	}
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	r := testRouter()

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		req := httptest.NewRequest(nethttp.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != nethttp.StatusOK {
			t.Fatalf("%s: got status %d, want 200", path, w.Code)
		}
	}
}
