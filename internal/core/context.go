package core

import "context"

type contextKey string

const ctxKeyClient contextKey = "import_client"

// Client identifies who started an import; it is copied into the report.
type Client struct {
	IPAddress string
	UserAgent string
}

// ContextWithClient attaches the caller's address and user agent.
func ContextWithClient(ctx context.Context, ip, userAgent string) context.Context {
	return context.WithValue(ctx, ctxKeyClient, Client{IPAddress: ip, UserAgent: userAgent})
}

// ClientFromContext returns the attached client, or the zero Client.
func ClientFromContext(ctx context.Context) Client {
	if c, ok := ctx.Value(ctxKeyClient).(Client); ok {
		return c
	}
	return Client{}
}
