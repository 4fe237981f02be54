package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/JonMunkholm/pos/internal/cashcut"
)

// dayParam reads ?date=YYYY-MM-DD, defaulting to today.
func (s *Server) dayParam(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return s.now(), nil
	}
	day, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
	if err != nil {
		return time.Time{}, errBadDate
	}
	return day, nil
}

func (s *Server) handleCashCut(w http.ResponseWriter, r *http.Request) {
	day, err := s.dayParam(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	cut, err := s.deps.Cash.Cut(r.Context(), day)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, cut)
}

func (s *Server) handleCashMovements(w http.ResponseWriter, r *http.Request) {
	day, err := s.dayParam(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	movements, err := s.deps.Cash.ListMovements(r.Context(), day)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, movements)
}

func (s *Server) handleRecordCashMovement(w http.ResponseWriter, r *http.Request) {
	var in cashcut.MovementInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, r, errBadBody, 0)
		return
	}

	m, err := s.deps.Cash.RecordMovement(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}
