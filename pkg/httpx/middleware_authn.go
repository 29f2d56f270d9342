package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/javaqube/cas/pkg/jwtx"
	"github.com/javaqube/cas/pkg/slogx"
)

// AuthnMiddleware verifies the bearer session token and injects its subject
// (the claimed user id) into the request context. The surrounding system
// established that identity during primary authentication; handlers below
// this middleware receive it as plain data and never reach into ambient
// session state themselves.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("session token verification failed", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			ctx = context.WithValue(ctx, CtxKeyUserID, claims.Subject)
			ctx = context.WithValue(ctx, CtxKeyAMR, claims.AMR)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated subject set by
// AuthnMiddleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(CtxKeyUserID).(string)
	return uid, ok && uid != ""
}

// RFC 6750 error response for bearer auth failures.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
