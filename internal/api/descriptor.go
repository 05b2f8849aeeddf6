package api

import (
	"encoding/json"
	"net/http"
)

type descriptorResponse struct {
	Descriptor        string `json:"descriptor"`
	ReadOnly          string `json:"read_only_descriptor"`
	StorageConfigured bool   `json:"storage_configured"`
}

// handleDescriptor returns the Quantum DB descriptor with the password masked.
func (s *Server) handleDescriptor(w http.ResponseWriter, r *http.Request) {
	if s.creds == nil {
		http.Error(w, "credentials not loaded", http.StatusServiceUnavailable)
		return
	}
	d := s.creds.Descriptor()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(descriptorResponse{
		Descriptor:        d.Redacted(),
		ReadOnly:          d.WithReadOnly().Redacted(),
		StorageConfigured: s.creds.StorageConnectionString() != "",
	})
}
