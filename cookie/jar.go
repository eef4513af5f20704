package cookie

import (
	"net/http"
	"strings"
	"sync"
)

// Jar is the cookie store of one call context. Request handlers use
// RequestJar; render contexts with a framework-provided store use MapJar.
type Jar interface {
	// Get returns the raw value of the named cookie.
	Get(name string) (string, bool)
	// Set records an outgoing cookie. A negative MaxAge deletes it.
	Set(c *http.Cookie)
}

// ParseHeader splits raw Cookie header values into name/value pairs.
// Malformed pairs are skipped and the first occurrence of a name wins.
func ParseHeader(headers ...string) map[string]string {
	out := make(map[string]string)
	for _, line := range headers {
		for _, part := range strings.Split(line, ";") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			name, value, ok := strings.Cut(part, "=")
			if !ok {
				continue
			}
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if _, seen := out[name]; seen {
				continue
			}
			value = strings.TrimSpace(value)
			if len(value) > 1 && value[0] == '"' && value[len(value)-1] == '"' {
				value = value[1 : len(value)-1]
			}
			out[name] = value
		}
	}
	return out
}

type requestJar struct {
	w http.ResponseWriter

	mu      sync.Mutex
	values  map[string]string
	removed map[string]bool
}

// RequestJar returns a Jar reading the Cookie headers of r and writing
// Set-Cookie headers on w. Cookies set through the jar are visible to later
// Get calls on the same jar.
func RequestJar(w http.ResponseWriter, r *http.Request) Jar {
	var headers []string
	if r != nil {
		headers = r.Header.Values("Cookie")
	}
	return &requestJar{
		w:       w,
		values:  ParseHeader(headers...),
		removed: make(map[string]bool),
	}
}

func (j *requestJar) Get(name string) (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.removed[name] {
		return "", false
	}
	v, ok := j.values[name]
	return v, ok
}

func (j *requestJar) Set(c *http.Cookie) {
	if c == nil {
		return
	}
	j.mu.Lock()
	if c.MaxAge < 0 {
		j.removed[c.Name] = true
		delete(j.values, c.Name)
	} else {
		delete(j.removed, c.Name)
		j.values[c.Name] = c.Value
	}
	j.mu.Unlock()

	if j.w != nil {
		http.SetCookie(j.w, c)
	}
}

// MapJar is an in-memory Jar for contexts that hand over already-split
// cookies and collect outgoing ones, such as server-side renderers.
type MapJar struct {
	mu       sync.Mutex
	values   map[string]string
	outgoing []*http.Cookie
}

// NewMapJar returns a jar seeded with incoming cookie values.
func NewMapJar(incoming map[string]string) *MapJar {
	values := make(map[string]string, len(incoming))
	for k, v := range incoming {
		values[k] = v
	}
	return &MapJar{values: values}
}

// Get returns the current value of the named cookie.
func (j *MapJar) Get(name string) (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	v, ok := j.values[name]
	return v, ok
}

// Set applies c and records it as outgoing.
func (j *MapJar) Set(c *http.Cookie) {
	if c == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	if c.MaxAge < 0 {
		delete(j.values, c.Name)
	} else {
		j.values[c.Name] = c.Value
	}
	copied := *c
	j.outgoing = append(j.outgoing, &copied)
}

// Outgoing returns the cookies set on the jar, in order.
func (j *MapJar) Outgoing() []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]*http.Cookie, len(j.outgoing))
	copy(out, j.outgoing)
	return out
}

// Flush copies the outgoing cookies onto w as Set-Cookie headers.
func (j *MapJar) Flush(w http.ResponseWriter) {
	for _, c := range j.Outgoing() {
		http.SetCookie(w, c)
	}
}
