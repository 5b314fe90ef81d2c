package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/passcheck/passcheck-go/internal/ids"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]{1,64}$`)

// RequestID accepts a well-formed X-Request-ID from the client or assigns a
// new ULID, and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(RequestIDHeader)
		if !requestIDPattern.MatchString(rid) {
			var err error
			rid, err = ids.NewULID(time.Now())
			if err != nil {
				rid = "unknown"
			}
		}

		w.Header().Set(RequestIDHeader, rid)
		ctx := context.WithValue(r.Context(), requestIDKey, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the id assigned by RequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}
