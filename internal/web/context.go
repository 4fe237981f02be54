package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/pos/internal/core"
)

// withClient records the caller's IP and User-Agent for the import report.
func withClient(ctx context.Context, r *http.Request) context.Context {
	// RemoteAddr was already rewritten by TrustedRealIP.
	return core.ContextWithClient(ctx, r.RemoteAddr, r.UserAgent())
}
