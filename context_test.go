package goSession

import (
	"context"
	"net/http/httptest"
	"testing"
)

func TestRequestContextFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "198.51.100.7:41000"
	r.Header.Set("User-Agent", " curl/8.0 ")

	info := requestInfoFrom(RequestContext(r))
	if info.ip != "198.51.100.7" {
		t.Fatalf("ip = %q", info.ip)
	}
	if info.userAgent != "curl/8.0" {
		t.Fatalf("user agent = %q", info.userAgent)
	}
}

func TestRequestContextKeepsCallerValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	r = r.WithContext(WithClientIP(r.Context(), "203.0.113.50"))

	info := requestInfoFrom(RequestContext(r))
	if info.ip != "203.0.113.50" {
		t.Fatalf("expected caller ip to win, got %q", info.ip)
	}
	if info.userAgent != "" {
		t.Fatalf("expected empty user agent, got %q", info.userAgent)
	}
}

func TestWithUserAgentKeepsClientIP(t *testing.T) {
	ctx := WithUserAgent(WithClientIP(context.Background(), "192.0.2.1"), "agent")
	info := requestInfoFrom(ctx)
	if info.ip != "192.0.2.1" || info.userAgent != "agent" {
		t.Fatalf("unexpected info %+v", info)
	}
	if got := requestInfoFrom(nil); got != (requestInfo{}) {
		t.Fatalf("nil ctx should be empty, got %+v", got)
	}
}

func TestRequestContextNilRequest(t *testing.T) {
	if RequestContext(nil) == nil {
		t.Fatal("expected background context")
	}
}
