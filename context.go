package goSession

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// requestInfo is what the Engine knows about the caller beyond the cookie.
type requestInfo struct {
	ip        string
	userAgent string
}

type requestInfoKey struct{}

func requestInfoFrom(ctx context.Context) requestInfo {
	if ctx == nil {
		return requestInfo{}
	}
	info, _ := ctx.Value(requestInfoKey{}).(requestInfo)
	return info
}

func withRequestInfo(ctx context.Context, update func(*requestInfo)) context.Context {
	info := requestInfoFrom(ctx)
	update(&info)
	return context.WithValue(ctx, requestInfoKey{}, info)
}

// WithClientIP records the caller's IP on ctx. It feeds audit events and the
// per-IP login limiter.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return withRequestInfo(ctx, func(i *requestInfo) { i.ip = ip })
}

// WithUserAgent records the User-Agent on ctx for audit events.
func WithUserAgent(ctx context.Context, userAgent string) context.Context {
	return withRequestInfo(ctx, func(i *requestInfo) { i.userAgent = userAgent })
}

// RequestContext derives a context from r carrying the remote IP and
// User-Agent. Values a caller already attached (for example a proxy-aware IP)
// take precedence.
func RequestContext(r *http.Request) context.Context {
	if r == nil {
		return context.Background()
	}
	ctx := r.Context()
	info := requestInfoFrom(ctx)
	before := info
	if info.ip == "" {
		info.ip = hostOnly(r.RemoteAddr)
	}
	if info.userAgent == "" {
		info.userAgent = strings.TrimSpace(r.UserAgent())
	}
	if info == before {
		return ctx
	}
	return context.WithValue(ctx, requestInfoKey{}, info)
}

func hostOnly(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
