package limiter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"goroda/internal/pkg/errs"
	"goroda/internal/pkg/resp"
)

func TestGetLimiterReusesBucketPerIP(t *testing.T) {
	l := NewIPRateLimiter(1, 1)

	if l.GetLimiter("1.2.3.4") != l.GetLimiter("1.2.3.4") {
		t.Fatal("the same IP should keep its bucket")
	}
	if l.GetLimiter("1.2.3.4") == l.GetLimiter("5.6.7.8") {
		t.Fatal("distinct IPs should get distinct buckets")
	}
}

func TestMiddlewareThrottlesPerIP(t *testing.T) {
	l := NewIPRateLimiter(0.001, 1)
	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	hit := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	if rec := hit("1.2.3.4:40000"); rec.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", rec.Code)
	}

	rec := hit("1.2.3.4:40001")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("burst exhausted, expected 429, got %d", rec.Code)
	}
	var res resp.JSONResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("429 body is not the JSON envelope: %v", err)
	}
	if res.Code != errs.ErrRateLimitExceeded {
		t.Fatalf("expected business code %d, got %d", errs.ErrRateLimitExceeded, res.Code)
	}

	// Another visitor is unaffected.
	if rec := hit("5.6.7.8:40000"); rec.Code != http.StatusOK {
		t.Fatalf("a fresh IP should pass, got %d", rec.Code)
	}
}
