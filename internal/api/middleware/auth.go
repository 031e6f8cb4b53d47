package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hungrymonkey/finder/internal/infrastructure/auth"
	"github.com/hungrymonkey/finder/internal/infrastructure/observability"
)

type claimsKey struct{}

// devUserID identifies callers when the API runs without a signing secret
const devUserID = "dev-user"

// RequireAuth rejects requests without a bearer token. With a secret the
// token must be a valid HS256 JWT; without one any token is accepted.
func RequireAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeUnauthorized(w, "Not authenticated")
				return
			}

			claims := &auth.Claims{UserID: devUserID}
			if len(secret) > 0 {
				var err error
				claims, err = auth.ValidateToken(token, secret)
				if err != nil {
					observability.LoggerFromContext(r.Context()).Debug().Err(err).Msg("Rejected bearer token")
					writeUnauthorized(w, "Invalid authentication credentials")
					return
				}
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the authenticated caller, if any
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"detail":"` + detail + `"}`))
}
