package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey string

const principalContextKey contextKey = "principal"

// Authenticator gates requests behind a bearer JWT. Unlike a full RBAC
// layer, it only establishes who is calling; no per-caller permission check
// is made, and any authenticated subject may use every gated route.
type Authenticator struct {
	jwtValidator JWTValidator
}

// NewAuthenticator creates an Authenticator backed by validator. A nil
// validator disables auth entirely — every request passes through
// unauthenticated, which callers should only do outside production.
func NewAuthenticator(jwtValidator JWTValidator) *Authenticator {
	return &Authenticator{jwtValidator: jwtValidator}
}

// Middleware returns an HTTP middleware that authenticates requests bearing
// an "Authorization: Bearer <token>" header and stores the token subject in
// the request context.
func (a *Authenticator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if a.jwtValidator == nil {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				writeUnauthorized(w)
				return
			}

			claims, err := a.jwtValidator.Validate(r.Context(), strings.TrimPrefix(auth, "Bearer "))
			if err != nil || claims.Subject == "" {
				writeUnauthorized(w)
				return
			}

			ctx := WithPrincipal(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithPrincipal stores the authenticated subject in the context.
func WithPrincipal(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, principalContextKey, subject)
}

// PrincipalFromContext extracts the authenticated subject from the context.
func PrincipalFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(principalContextKey).(string)
	return v, ok
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    401,
		"message": "unauthorized: provide a valid JWT Bearer token",
	})
}
