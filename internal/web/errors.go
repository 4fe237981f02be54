package web

// errors.go provides unified error responses for the API.
//
// Every error is:
//   - logged with full technical details and the request id (server-side)
//   - returned to the client as a user message with an action and a code
//
// Handlers pass an explicit status when they know it. A zero status is
// derived from the mapped error code.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/pos/internal/core"
)

var (
	errRateLimited = errors.New("rate limit exceeded")
	errNoFile      = errors.New("no file provided")
	errFileTooBig  = errors.New("file too large")
	errBadDate     = errors.New("invalid date, expected YYYY-MM-DD")
	errBadBody     = errors.New("invalid request body")
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes the mapped user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)
	if statusCode == 0 {
		statusCode = statusForCode(userMsg.Code)
	}

	level := slog.LevelWarn
	if statusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// statusForCode maps an error code onto an HTTP status.
func statusForCode(code string) int {
	switch code {
	case "DB001", "DB002":
		return http.StatusConflict
	case "VAL007", "INV001":
		return http.StatusUnprocessableEntity
	case "FILE001":
		return http.StatusRequestEntityTooLarge
	case "UPL002":
		return http.StatusServiceUnavailable
	case "UPL003":
		return http.StatusNotFound
	case "UPL005", "DB006":
		return http.StatusGatewayTimeout
	case "INV002":
		return http.StatusBadGateway
	case "RATE001":
		return http.StatusTooManyRequests
	case "AUTH001":
		return http.StatusUnauthorized
	}

	switch {
	case strings.HasPrefix(code, "VAL"), strings.HasPrefix(code, "FILE"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "UPL"):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
