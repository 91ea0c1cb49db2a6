package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type for this package's context keys, so no
// other package can collide with (or spoof) the identity value.
type contextKey string

const claimsKey contextKey = "claims"

// RequireAuth is the session guard: it extracts the bearer token from the
// Authorization header, validates it, and stores the decoded claims in the
// request context for downstream handlers.
//
// Two distinct failures, both 401:
//   - no token at all          → "unauthenticated"
//   - bad signature or expired → "invalid_token"
//
// The claims are trusted as-is — there is no per-request user lookup, so a
// role change server-side only takes effect once the old token expires.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "unauthenticated", "authentication token required")
				return
			}

			claims, err := tokens.Validate(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid_token", "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole declares the capability a route needs; the check runs before
// the handler, so handlers never re-implement role tests ad hoc.
//
// Must be chained after RequireAuth:
//
//	r.With(auth.RequireAuth(tokens), auth.RequireRole(model.RoleAdmin)).
//	    Delete("/{id}", h.HandleDelete)
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				// RequireRole without RequireAuth is a wiring bug, but an
				// anonymous 401 is still the right answer for the caller.
				writeAuthError(w, http.StatusUnauthorized, "unauthenticated", "authentication token required")
				return
			}
			if claims.Role != role {
				writeAuthError(w, http.StatusForbidden, "forbidden", "admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext retrieves the authenticated identity set by RequireAuth.
// Returns (nil, false) on routes where the guard didn't run.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok && claims != nil
}

// writeAuthError emits the guard's error responses. The middleware can't
// use the handler package's helpers without an import cycle, and the two
// bodies it produces are fixed, so a literal is fine.
func writeAuthError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + errType + `","message":"` + message + `"}`))
}
