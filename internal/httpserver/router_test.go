package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error { return s.err }

func newTestRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.NewRegistry()
	}
	router, err := buildRouter(logDiscard(), deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func serve(router http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := serve(newTestRouter(t, Deps{}), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadyz(t *testing.T) {
	if rec := serve(newTestRouter(t, Deps{}), http.MethodGet, "/readyz", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without cache, got %d", rec.Code)
	}
	if rec := serve(newTestRouter(t, Deps{Cache: stubPinger{err: errors.New("down")}}), http.MethodGet, "/readyz", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with failing cache, got %d", rec.Code)
	}
	if rec := serve(newTestRouter(t, Deps{Cache: stubPinger{}}), http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	router := newTestRouter(t, Deps{})
	rec := serve(router, http.MethodGet, "/healthz", "", requestIDHeader, "abc-123")
	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("expected propagated id, got %q", got)
	}
	rec = serve(router, http.MethodGet, "/healthz", "")
	if got := rec.Header().Get(requestIDHeader); len(got) != 36 {
		t.Fatalf("expected generated uuid, got %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "storefront_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	rec := serve(newTestRouter(t, Deps{Gatherer: reg}), http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "storefront_test_total 1") {
		t.Fatalf("unexpected metrics response %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCORS(t *testing.T) {
	router := newTestRouter(t, Deps{AllowedOrigins: []string{"https://shop.example.com"}})
	rec := serve(router, http.MethodGet, "/healthz", "", "Origin", "https://shop.example.com")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("expected credentials allowed, got %q", got)
	}
}

func TestUnregisteredServices(t *testing.T) {
	rec := serve(newTestRouter(t, Deps{}), http.MethodGet, "/api/cart", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without cart service, got %d", rec.Code)
	}
}
