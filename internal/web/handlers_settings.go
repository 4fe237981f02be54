package web

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	current, err := s.deps.Settings.Get(r.Context())
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, current)
}

// handleUpdateSettings applies the body over the stored settings; fields
// missing from the body keep their stored values.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	updated, err := s.deps.Settings.Get(r.Context())
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		s.respondError(w, r, errBadBody, 0)
		return
	}

	saved, err := s.deps.Settings.Update(r.Context(), updated)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
