package web

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/pos/internal/core"
)

// readUpload parses the multipart form and returns the "file" part. The
// caller closes the file.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	maxSize := s.cfg.Import.MaxFileSize
	if r.ContentLength > maxSize {
		return nil, nil, errFileTooBig
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, nil, errFileTooBig
		}
		return nil, nil, errNoFile
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, errNoFile
	}
	return file, header, nil
}

// handleImport imports a catalog file. Validation failures come back as
// 422 with the full report; nothing was written.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	file, header, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	defer file.Close()

	result, err := s.deps.Importer.Import(withClient(r.Context(), r), header.Filename, file)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	status := http.StatusOK
	if result.Aborted {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

// handlePreview reports what an import would do without writing.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	file, header, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	defer file.Close()

	preview, err := s.deps.Importer.Preview(r.Context(), header.Filename, file)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

func (s *Server) handleImportReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.deps.Importer.Report(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleExport downloads the catalog in the import layout.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := core.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	// Buffer so a failed read still gets a JSON error instead of a
	// truncated download.
	var buf bytes.Buffer
	if err := core.ExportCatalog(r.Context(), s.deps.Catalog, &buf, format); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeFile(w, core.ExportFileName(format, s.now()), format, buf.Bytes())
}

// handleTemplate downloads the sample import file.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	format, err := core.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := core.WriteTemplate(&buf, format); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeFile(w, core.TemplateFileName(format), format, buf.Bytes())
}

func writeFile(w http.ResponseWriter, name string, format core.Format, data []byte) {
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
