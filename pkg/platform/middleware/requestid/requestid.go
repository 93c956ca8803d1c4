package requestid

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"countryapi/pkg/requestcontext"
)

// Header is echoed on every response and accepted from trusted callers.
const Header = "X-Request-ID"

const maxInboundLength = 128

// Middleware assigns a request ID, reusing a caller-supplied one when it is
// short enough to be safe to log.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := strings.TrimSpace(r.Header.Get(Header))
		if reqID == "" || len(reqID) > maxInboundLength {
			reqID = uuid.NewString()
		}
		w.Header().Set(Header, reqID)
		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
