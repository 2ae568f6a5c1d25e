package policy

import "net/http"

// Middleware decorates GET and HEAD responses with caching headers and answers
// 304 Not Modified without calling next when the client already holds the ETag.
func (r *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet && req.Method != http.MethodHead {
			next.ServeHTTP(w, req)
			return
		}

		headers := r.BuildHeaders(req.URL.Path, req.URL.Query())
		dst := w.Header()
		for k, v := range headers {
			dst[k] = v
		}

		if ShouldReturnNotModified(req.Header.Get("If-None-Match"), headers.Get("ETag")) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		next.ServeHTTP(w, req)
	})
}
