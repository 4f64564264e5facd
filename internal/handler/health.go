package handler

import (
	"net/http"
	"time"
)

// GetHealth handles GET /api/health.
// It returns HTTP 200 with the current server time when the server is running.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
