// Package policy maps request paths to HTTP caching headers and implements
// conditional GET revalidation with content-independent ETags.
package policy

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/zeebo/xxh3"
)

const varyHeader = "Accept-Encoding, User-Agent"

// Resolver is immutable after construction and safe for concurrent use.
type Resolver struct {
	routes []RoutePolicy
	clock  clock.Clock
}

// NewResolver uses DefaultRoutes when routes is empty. A nil clock reads the wall clock.
func NewResolver(routes []RoutePolicy, clk clock.Clock) *Resolver {
	if len(routes) == 0 {
		routes = DefaultRoutes()
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Resolver{
		routes: append([]RoutePolicy(nil), routes...),
		clock:  clk,
	}
}

// Routes returns a copy of the table in match order.
func (r *Resolver) Routes() []RoutePolicy {
	return append([]RoutePolicy(nil), r.routes...)
}

// Resolve returns the first route whose prefix starts path, or Fallback.
func (r *Resolver) Resolve(path string) RoutePolicy {
	for _, route := range r.routes {
		if strings.HasPrefix(path, route.Prefix) {
			return route
		}
	}
	return Fallback
}

var hasherPool = sync.Pool{New: func() any { return xxh3.New() }}

// ETag derives a strong validator from the path and query only; the response body is not
// part of it. Parameter order in the original URL does not matter.
func (r *Resolver) ETag(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	// map keys are sorted by encoding/json and values are plain strings, so this cannot fail
	encoded, _ := json.Marshal(query)

	hasher := hasherPool.Get().(*xxh3.Hasher)
	hasher.Reset()
	_, _ = hasher.Write([]byte(path))
	_, _ = hasher.Write(encoded)
	sum := hasher.Sum128()
	hasherPool.Put(hasher)

	return fmt.Sprintf(`"%016x%016x"`, sum.Hi, sum.Lo)
}

// BuildHeaders returns the caching headers for a response to path with query.
func (r *Resolver) BuildHeaders(path string, query url.Values) http.Header {
	h := make(http.Header, 4)
	h.Set("Cache-Control", r.Resolve(path).CacheControl)
	h.Set("ETag", r.ETag(path, query))
	h.Set("Vary", varyHeader)
	h.Set("Last-Modified", r.clock.Now().UTC().Format(http.TimeFormat))
	return h
}

// ShouldReturnNotModified reports whether the client's If-None-Match equals etag exactly.
// Lists of tags and weak comparison are not supported.
func ShouldReturnNotModified(ifNoneMatch, etag string) bool {
	return ifNoneMatch != "" && ifNoneMatch == etag
}
