package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type HealthResponse struct {
	Status    string           `json:"status"`
	Providers []ProviderStatus `json:"providers"`
	Uptime    int64            `json:"uptime_seconds"`
}

type ProviderStatus struct {
	Name      string `json:"name"`
	Type      string `json:"type,omitempty"`
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

var startTime = time.Now()

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := s.cachedHealth(r.Context())
	resp.Uptime = int64(time.Since(startTime).Seconds())

	w.Header().Set("Content-Type", "application/json")
	if resp.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("health: encode response failed")
	}
}

// cachedHealth probes the providers at most once per healthCacheTTL; each
// probe acquires a token.
func (s *Server) cachedHealth(ctx context.Context) HealthResponse {
	s.healthMu.RLock()
	if s.healthCached != nil && time.Since(s.healthCheckedAt) < healthCacheTTL {
		resp := *s.healthCached
		s.healthMu.RUnlock()
		return resp
	}
	s.healthMu.RUnlock()

	resp := HealthResponse{Status: "ok", Providers: []ProviderStatus{}}
	if s.health != nil {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		for _, h := range s.health.Health(ctx) {
			ps := ProviderStatus{Name: h.Name, Type: h.Type, Status: "ok", LatencyMs: h.LatencyMs, Error: h.Error}
			if !h.Healthy {
				ps.Status = "unhealthy"
				resp.Status = "degraded"
			}
			resp.Providers = append(resp.Providers, ps)
		}
	}

	s.healthMu.Lock()
	s.healthCached = &resp
	s.healthCheckedAt = time.Now()
	s.healthMu.Unlock()
	return resp
}
