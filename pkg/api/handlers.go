package api

import (
	"encoding/json"
	"net/http"

	"github.com/marcusgo82/stridelab/util/log"
)

// handleReport serves the current report snapshot as JSON.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.session.Snapshot()); err != nil {
		log.Printf("Failed to encode report: %v", err)
	}
}
