package middleware

import (
	"context"
	"net/http"
)

// The auth gateway in front of this service authenticates the session
// and forwards the user identity as a header. Role enforcement also
// lives there; this service only needs to know who is calling.
const userIDHeader = "X-User-Id"

type contextKey string

const userIDKey contextKey = "user_id"

// Identity extracts the gateway-injected user id into the request
// context. Requests without the header pass through; handlers that
// require an identity reject them with 401 via UserID.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(userIDHeader); id != "" {
			r = r.WithContext(context.WithValue(r.Context(), userIDKey, id))
		}
		next.ServeHTTP(w, r)
	})
}

// UserID returns the authenticated user id from the context, or ""
// when the request carried no identity.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
