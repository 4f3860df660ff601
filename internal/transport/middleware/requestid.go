package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/frahmantamala/reimbursement-tracker/pkg/logger"
)

// RequestID propagates the caller's X-Trace-ID or mints one, attaches it to
// the context logger, and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "trace_id", traceID)
		w.Header().Set("X-Trace-ID", traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
