package adminhttp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"crabdb/pkg/config"
)

func TestHealthzReflectsReadiness(t *testing.T) {
	s := New(config.Default(), prometheus.NewRegistry())
	h := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("before ready: status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	s.SetReady(true)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("after ready: status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestDebugVarsReportsConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Workers = 7
	s := New(cfg, prometheus.NewRegistry())
	h := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/debug/vars", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var v debugVars
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if v.Workers != 7 {
		t.Fatalf("Workers = %d, want 7", v.Workers)
	}
}

func TestMetricsServesRegisteredFamilies(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_counter_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	s := New(config.Default(), reg)
	h := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "test_counter_total") {
		t.Fatalf("expected registered family in response body")
	}
}
