package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/quantumventures/credentials/credentials"
	"github.com/quantumventures/credentials/internal/api"
	"github.com/quantumventures/credentials/internal/config"
	"github.com/quantumventures/credentials/internal/provider"
)

type staticResolver map[string]string

func (s staticResolver) Resolve(ctx context.Context, name string) (string, string, error) {
	v, ok := s[name]
	if !ok {
		return "", "", credentials.ErrSecretNotFound
	}
	return v, "static", nil
}

func newTestCredentials(t *testing.T, opts ...credentials.Option) *credentials.Credentials {
	t.Helper()
	c, err := credentials.New(context.Background(), staticResolver{
		"QuantumDB-Server":                    "srv.database.windows.net",
		"QuantumDB-Database":                  "qdb",
		"QuantumDB-username":                  "svc",
		"QuantumDB-password":                  "p@ss",
		"storage-phoenixus-connection-string": "UseDevelopmentStorage=true",
	}, opts...)
	if err != nil {
		t.Fatalf("credentials.New() error = %v", err)
	}
	return c
}

type fakeHealth struct {
	results []provider.ProviderHealth
	calls   int
}

func (f *fakeHealth) Health(ctx context.Context) []provider.ProviderHealth {
	f.calls++
	return f.results
}

func newTestServer(t *testing.T, h api.HealthChecker) *api.Server {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	return api.NewServer(cfg, h)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	w := httptest.NewRecorder()

	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
}

func TestHealthDegradedAndCached(t *testing.T) {
	h := &fakeHealth{results: []provider.ProviderHealth{
		{Name: "quantumkeys", Type: "keyvault", Healthy: false, Error: "authentication failed"},
	}}
	srv := newTestServer(t, h)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", w.Code)
		}
		var resp api.HealthResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decode error: %v", err)
		}
		if resp.Status != "degraded" || len(resp.Providers) != 1 || resp.Providers[0].Status != "unhealthy" {
			t.Errorf("resp = %+v", resp)
		}
	}
	if h.calls != 1 {
		t.Errorf("provider health probed %d times, want 1 within the cache window", h.calls)
	}
}

func TestDescriptorRedacted(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.SetCredentials(newTestCredentials(t))

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/descriptor", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if strings.Contains(body, "p@ss") {
		t.Errorf("descriptor response leaks password: %s", body)
	}
	if !strings.Contains(body, "applicationIntent=ReadOnly") {
		t.Errorf("missing read-only variant: %s", body)
	}
}

func TestDescriptorWithoutCredentials(t *testing.T) {
	srv := newTestServer(t, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/descriptor", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv := newTestServer(t, nil)
	srv.SetGatherer(reg)
	srv.SetCredentials(newTestCredentials(t, credentials.WithRegisterer(reg)))

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "qvcreds_secret_fetches_total") {
		t.Errorf("metrics output missing secret fetch counter:\n%s", w.Body.String())
	}
}
