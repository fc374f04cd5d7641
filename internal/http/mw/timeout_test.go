package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTimeoutDefault(t *testing.T) {
	handler := Timeout(TimeoutConfig{
		Default:  50 * time.Millisecond,
		Extended: time.Second,
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
			t.Error("handler context should have been cancelled")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/brands", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusGatewayTimeout)
	}
}

func TestTimeoutExtendedPattern(t *testing.T) {
	handler := Timeout(TimeoutConfig{
		Default:          10 * time.Millisecond,
		Extended:         time.Second,
		ExtendedPatterns: []string{"/analyze"},
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Sleeps past the default timeout; only the extended one saves it.
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/brands/analyze", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestTimeoutFastHandler(t *testing.T) {
	handler := Timeout(TimeoutConfig{
		Default:  time.Second,
		Extended: time.Second,
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}
