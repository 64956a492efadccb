package appMiddleware

import (
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// RequireJSON rejects requests that carry a body in anything other than application/json.
// Requests without a body pass through so handlers can report the missing body themselves.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 || r.Method == http.MethodGet || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnsupportedMediaType)
			_, _ = w.Write([]byte(`{"detail":"Content-Type must be application/json","request_id":"` +
				middleware.GetReqID(r.Context()) + `"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
