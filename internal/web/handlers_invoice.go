package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/pos/internal/invoice"
)

// handleInvoiceExtract reads an invoice from an uploaded PDF ("file") or
// from pasted text ("text", multipart or urlencoded). An invoice without
// recognisable items is 422 and still carries the extraction so the client
// can show its messages.
func (s *Server) handleInvoiceExtract(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.respondError(w, r, errFileTooBig, 0)
			return
		}
		s.respondError(w, r, errNoFile, 0)
		return
	}

	var (
		ex  *invoice.Extraction
		err error
	)
	if text := strings.TrimSpace(r.FormValue("text")); text != "" {
		ex, err = s.deps.Invoices.ExtractText(r.Context(), text)
	} else {
		file, header, ferr := r.FormFile("file")
		if ferr != nil {
			s.respondError(w, r, errNoFile, 0)
			return
		}
		defer file.Close()
		ex, err = s.deps.Invoices.ExtractDocument(r.Context(), header.Filename, file)
	}

	if errors.Is(err, invoice.ErrNoProducts) && ex != nil {
		writeJSON(w, http.StatusUnprocessableEntity, ex)
		return
	}
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

// handleInvoiceSave creates products for the confirmed invoice items.
func (s *Server) handleInvoiceSave(w http.ResponseWriter, r *http.Request) {
	var req invoice.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, errBadBody, 0)
		return
	}

	result, err := s.deps.Invoices.Save(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
