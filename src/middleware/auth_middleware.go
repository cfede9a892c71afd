package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/YukichiOhno/expense-tracker/src/auth"
)

type contextKey string

const claimsKey contextKey = "claims"

// TokenParser verifies a raw session token.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the identity installed by JWTAuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// ParseTokenFromRequest reads the session cookie and verifies it.
func ParseTokenFromRequest(r *http.Request, tokens TokenParser) (*auth.Claims, error) {
	raw, err := auth.TokenFromRequest(r)
	if err != nil {
		return nil, err
	}
	return tokens.Parse(raw)
}

func JWTAuthMiddleware(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := ParseTokenFromRequest(r, tokens)
			if err != nil {
				if errors.Is(err, auth.ErrMissingToken) {
					slog.WarnContext(r.Context(), "Unauthorized: no token provided", "path", r.URL.Path)
					writeMessage(w, http.StatusUnauthorized, "unauthorized: no token provided")
					return
				}
				slog.WarnContext(r.Context(), "Unauthorized: invalid token", "path", r.URL.Path, "error", err)
				writeMessage(w, http.StatusUnauthorized, "unauthorized: invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}
