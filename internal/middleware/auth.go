package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/De27vin/M210-inventory-app/internal/auth"
)

type contextKey string

// identityKey carries the authenticated username through the request
// context.
const identityKey contextKey = "identity"

// Identity returns the username the request's token was issued to, or ""
// for requests that never passed TokenAuth.
func Identity(ctx context.Context) string {
	identity, _ := ctx.Value(identityKey).(string)
	return identity
}

// TokenAuth returns a handler that requires a valid, unexpired bearer
// token before delegating to next. Responds with 401 if the header is
// missing, malformed, or fails verification. The token's identity is made
// available via Identity.
func TokenAuth(verifier auth.Verifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(w)
			return
		}
		identity, err := verifier.Verify(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
	})
}

func unauthorized(w http.ResponseWriter) {
	// http.Error would reset Content-Type to text/plain, so write directly.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"invalid or expired token"}` + "\n"))
}
