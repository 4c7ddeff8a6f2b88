package middleware

import (
	"net/http"
	"strings"

	"github.com/studyhall/studyhall/pkg/auth"
	"github.com/studyhall/studyhall/pkg/contextkeys"
	"github.com/studyhall/studyhall/pkg/httputil"
)

const bearerPrefix = "Bearer "

// TokenFilter validates bearer tokens on inbound requests.
//
// Decision per request:
//   - no Authorization header, or not a Bearer scheme: pass through with no
//     principal attached
//   - bearer token present but invalid or expired: reject with 401 before
//     the route handler is reached
//   - valid token: bind the resolved user ID into the request context
func TokenFilter(codec *auth.TokenCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, bearerPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))

			userID, err := codec.Parse(token)
			if err != nil {
				httputil.WriteUnauthorized(w, "invalid or expired token")
				return
			}

			ctx := contextkeys.WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
