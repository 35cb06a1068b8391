package gateway

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestID echoes the caller's X-Request-ID or assigns a new one. Handlers
// read it back from the response headers.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = NewRequestID()
		}
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r)
	})
}

func NewRequestID() string {
	return "req_" + uuid.NewString()
}
