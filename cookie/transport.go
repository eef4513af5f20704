package cookie

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultName is the session cookie name used when none is configured.
const DefaultName = "gosession"

// ErrInvalidName is returned for an empty or non-token cookie name.
var ErrInvalidName = errors.New("cookie: invalid cookie name")

// Options controls the attributes of the session cookie.
type Options struct {
	Name     string
	Domain   string
	Path     string
	MaxAge   time.Duration
	Secure   bool
	SameSite http.SameSite
}

// Transport moves the session token in and out of a Jar. It is the single
// reader used by every call context.
type Transport struct {
	opts Options
}

// NewTransport applies defaults (DefaultName, Path "/", SameSite Lax) and
// validates the cookie name.
func NewTransport(opts Options) (*Transport, error) {
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	if !validName(opts.Name) {
		return nil, ErrInvalidName
	}
	if opts.Path == "" {
		opts.Path = "/"
	}
	if opts.SameSite == 0 {
		opts.SameSite = http.SameSiteLaxMode
	}
	return &Transport{opts: opts}, nil
}

// Name returns the cookie name.
func (t *Transport) Name() string {
	return t.opts.Name
}

// Read returns the decoded session token from jar. Empty, whitespace-only
// and undecodable values are reported as absent.
func (t *Transport) Read(jar Jar) (string, bool) {
	if jar == nil {
		return "", false
	}
	raw, ok := jar.Get(t.opts.Name)
	if !ok {
		return "", false
	}
	value, err := url.PathUnescape(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// Write sets the session cookie carrying value.
func (t *Transport) Write(jar Jar, value string) {
	if jar == nil {
		return
	}
	jar.Set(t.Cookie(value))
}

// Clear sets an expired session cookie. Clearing an absent cookie is harmless.
func (t *Transport) Clear(jar Jar) {
	if jar == nil {
		return
	}
	c := t.base()
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	jar.Set(c)
}

// Cookie builds the Set-Cookie value for value.
func (t *Transport) Cookie(value string) *http.Cookie {
	c := t.base()
	c.Value = url.PathEscape(value)
	if t.opts.MaxAge > 0 {
		c.MaxAge = int(t.opts.MaxAge / time.Second)
	}
	return c
}

func (t *Transport) base() *http.Cookie {
	return &http.Cookie{
		Name:     t.opts.Name,
		Domain:   t.opts.Domain,
		Path:     t.opts.Path,
		HttpOnly: true,
		Secure:   t.opts.Secure,
		SameSite: t.opts.SameSite,
	}
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r <= ' ' || r >= 0x7f || strings.ContainsRune("()<>@,;:\\\"/[]?={}", r) {
			return false
		}
	}
	return true
}
