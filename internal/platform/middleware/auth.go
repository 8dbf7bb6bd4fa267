package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	dErrors "github.com/ZafarDakhnairi/iGameDB/pkg/domain-errors"
	"github.com/ZafarDakhnairi/iGameDB/pkg/platform/httputil"
	"github.com/ZafarDakhnairi/iGameDB/pkg/requestcontext"
)

// AuthCookieName is the session-token cookie set on login and cleared on logout.
const AuthCookieName = "authToken"

// TokenClaims represents the claims the middleware expects from the validator.
type TokenClaims struct {
	UserID    string
	Email     string
	JTI       string
	ExpiresAt time.Time
}

type claimsKey struct{}

// ClaimsFrom returns the validated token claims, or nil outside RequireAuth.
func ClaimsFrom(ctx context.Context) *TokenClaims {
	claims, _ := ctx.Value(claimsKey{}).(*TokenClaims)
	return claims
}

// TokenValidator validates a signed session token.
type TokenValidator interface {
	ValidateToken(tokenString string) (*TokenClaims, error)
}

// RevocationChecker reports whether a token ID has been revoked at logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RequireAuth authenticates requests from the authToken cookie, falling back
// to an Authorization bearer header. Missing and invalid tokens both yield
// 401 but with distinguishable messages.
func RequireAuth(validator TokenValidator, revocations RevocationChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := extractToken(r)
			if token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "No token provided"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid token"))
				return
			}

			if revocations != nil && claims.JTI != "" {
				revoked, err := revocations.IsRevoked(ctx, claims.JTI)
				if err != nil {
					logger.ErrorContext(ctx, "failed to check token revocation",
						"error", err,
						"request_id", requestcontext.RequestID(ctx),
					)
					httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to validate token"))
					return
				}
				if revoked {
					logger.WarnContext(ctx, "unauthorized access - token revoked",
						"jti", claims.JTI,
						"request_id", requestcontext.RequestID(ctx),
					)
					httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid token"))
					return
				}
			}

			ctx = requestcontext.WithUserID(ctx, claims.UserID)
			ctx = requestcontext.WithUserEmail(ctx, claims.Email)
			ctx = context.WithValue(ctx, claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken prefers the cookie; clients that cannot send cookies use the
// bearer header instead.
func extractToken(r *http.Request) string {
	if c, err := r.Cookie(AuthCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	const bearerPrefix = "Bearer "
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix); ok {
		return after
	}
	return ""
}
