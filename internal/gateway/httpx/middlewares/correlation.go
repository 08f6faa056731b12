package middlewares

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jcmexdev/order-placement/internal/pkg/correlation"
)

// AttachCorrelationID lifts the caller-supplied X-Correlation-Id header
// into the request context, generating one when the caller sent none, and
// echoes it back on the response so clients can always join their logs
// with ours.
func AttachCorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(correlation.Header)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(correlation.Header, id)
		next.ServeHTTP(w, r.WithContext(correlation.WithID(r.Context(), id)))
	})
}
