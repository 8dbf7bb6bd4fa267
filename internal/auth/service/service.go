// Package service implements the account flows: Google sign-in, password
// signup and login, profile reads and updates, and logout. Both sign-in paths
// converge on the same user record and the same session token.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ZafarDakhnairi/iGameDB/internal/audit"
	"github.com/ZafarDakhnairi/iGameDB/internal/auth/oauth"
	"github.com/ZafarDakhnairi/iGameDB/internal/auth/store/revocation"
	jwttoken "github.com/ZafarDakhnairi/iGameDB/internal/jwt_token"
	"github.com/ZafarDakhnairi/iGameDB/internal/platform/metrics"
	"github.com/ZafarDakhnairi/iGameDB/internal/users"
	"github.com/ZafarDakhnairi/iGameDB/internal/users/store"
	dErrors "github.com/ZafarDakhnairi/iGameDB/pkg/domain-errors"
	"github.com/ZafarDakhnairi/iGameDB/pkg/platform/sentinel"
	"github.com/ZafarDakhnairi/iGameDB/pkg/requestcontext"
)

// Session is the result of a successful sign-in.
type Session struct {
	Token string
	User  *users.User
}

// Service orchestrates account flows over the user store. It keeps transport
// concerns out of business logic.
type Service struct {
	users       store.Store
	tokens      *jwttoken.JWTService
	provider    oauth.Provider
	revocations revocation.TokenRevocationList
	audit       audit.Recorder
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

func NewService(
	users store.Store,
	tokens *jwttoken.JWTService,
	provider oauth.Provider,
	revocations revocation.TokenRevocationList,
	auditor audit.Recorder,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:       users,
		tokens:      tokens,
		provider:    provider,
		revocations: revocations,
		audit:       auditor,
		metrics:     m,
		logger:      logger,
	}
}

// AuthCodeURL returns the provider consent URL for the given state.
func (s *Service) AuthCodeURL(state string) string {
	return s.provider.AuthCodeURL(state)
}

// CurrentUser loads the account behind a validated token subject.
func (s *Service) CurrentUser(ctx context.Context, userID string) (*users.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "User not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return u, nil
}

// Logout revokes the presented token until its natural expiry.
func (s *Service) Logout(ctx context.Context, userID, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl > 0 && jti != "" {
		if err := s.revocations.RevokeToken(ctx, jti, ttl); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
		}
	}
	s.audit.Record(ctx, audit.Event{
		Action: audit.ActionUserLogout,
		UserID: userID,
		Email:  requestcontext.UserEmail(ctx),
	})
	return nil
}

// issueSession signs a token and bumps the login counters on the record.
func (s *Service) issueSession(ctx context.Context, u *users.User, method string) (*Session, error) {
	now := requestcontext.Now(ctx)
	u.LoginCount++
	u.LastLogin = &now
	u.UpdatedAt = now
	if err := s.users.Update(ctx, u); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record login")
	}

	token, err := s.tokens.GenerateSessionToken(u.ID, u.Email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign session token")
	}

	s.metrics.IncrementLogins(method)
	s.audit.Record(ctx, audit.Event{
		Action: audit.ActionUserLogin,
		UserID: u.ID,
		Email:  u.Email,
		Method: method,
	})
	s.logger.InfoContext(ctx, "user logged in",
		"user_id", u.ID,
		"method", method,
		"login_count", u.LoginCount,
	)
	return &Session{Token: token, User: u}, nil
}

func newUserID() string { return uuid.NewString() }
