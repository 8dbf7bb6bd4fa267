package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ZafarDakhnairi/iGameDB/internal/audit"
	"github.com/ZafarDakhnairi/iGameDB/internal/auth/oauth"
	"github.com/ZafarDakhnairi/iGameDB/internal/auth/store/revocation"
	jwttoken "github.com/ZafarDakhnairi/iGameDB/internal/jwt_token"
	"github.com/ZafarDakhnairi/iGameDB/internal/users"
	"github.com/ZafarDakhnairi/iGameDB/internal/users/store"
	dErrors "github.com/ZafarDakhnairi/iGameDB/pkg/domain-errors"
	"github.com/ZafarDakhnairi/iGameDB/pkg/requestcontext"
)

// mockProvider implements oauth.Provider for tests.
type mockProvider struct {
	name        string
	authCodeURL string
	profile     *oauth.Profile
	exchangeErr error
}

func (m *mockProvider) Name() string { return m.name }
func (m *mockProvider) AuthCodeURL(state string) string {
	return m.authCodeURL + "?state=" + state
}
func (m *mockProvider) Exchange(context.Context, string) (*oauth.Profile, error) {
	return m.profile, m.exchangeErr
}

// recordingAuditor captures emitted audit events.
type recordingAuditor struct {
	events []audit.Event
}

func (r *recordingAuditor) Record(_ context.Context, event audit.Event) {
	r.events = append(r.events, event)
}

func (r *recordingAuditor) actions() []audit.Action {
	var out []audit.Action
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

type AuthServiceSuite struct {
	suite.Suite
	store    *store.Memory
	tokens   *jwttoken.JWTService
	trl      *revocation.MemoryTRL
	provider *mockProvider
	auditor  *recordingAuditor
	svc      *Service
	ctx      context.Context
}

func (s *AuthServiceSuite) SetupTest() {
	s.store = store.NewMemory()
	s.tokens = jwttoken.NewJWTService("test-signing-key", "igamedb", time.Hour)
	s.trl = revocation.NewMemoryTRL()
	s.provider = &mockProvider{
		name:        "google",
		authCodeURL: "https://accounts.google.test/auth",
		profile: &oauth.Profile{
			Sub:           "google-sub-1",
			Email:         "player@example.com",
			EmailVerified: true,
			FirstName:     "Alex",
			LastName:      "Chen",
			FullName:      "Alex Chen",
			Picture:       "https://example.com/pic.jpg",
		},
	}
	s.auditor = &recordingAuditor{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.svc = NewService(s.store, s.tokens, s.provider, s.trl, s.auditor, nil, logger)
	s.ctx = context.Background()
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) signup(email, username, password string) *users.User {
	u, err := s.svc.Signup(s.ctx, SignupRequest{
		Username: username,
		Email:    email,
		Password: password,
		Terms:    true,
	})
	s.Require().NoError(err)
	return u
}

// TestGoogleLogin covers first login, repeat login, and account linking.
func (s *AuthServiceSuite) TestGoogleLogin() {
	s.Run("first login creates the account", func() {
		session, err := s.svc.LoginWithGoogle(s.ctx, "auth-code")
		s.Require().NoError(err)
		s.NotEmpty(session.Token)
		s.Equal("google-sub-1", session.User.GoogleID)
		s.Equal("player@example.com", session.User.Email)
		s.Equal(1, session.User.LoginCount)
		s.Require().NotNil(session.User.LastLogin)
		s.Equal([]audit.Action{audit.ActionUserCreated, audit.ActionUserLogin}, s.auditor.actions())
	})

	s.Run("repeat login bumps the counter without a new account", func() {
		session, err := s.svc.LoginWithGoogle(s.ctx, "auth-code")
		s.Require().NoError(err)
		s.Equal(2, session.User.LoginCount)

		claims, err := s.tokens.ValidateToken(session.Token)
		s.Require().NoError(err)
		s.Equal(session.User.ID, claims.UserID)
	})
}

func (s *AuthServiceSuite) TestGoogleLogin_LinksPasswordAccountByEmail() {
	existing := s.signup("player@example.com", "handle", "secret123")

	session, err := s.svc.LoginWithGoogle(s.ctx, "auth-code")
	s.Require().NoError(err)
	s.Equal(existing.ID, session.User.ID)
	s.Equal("google-sub-1", session.User.GoogleID)
	s.Equal("handle", session.User.Username)

	// The linked account still works with its password.
	pwSession, err := s.svc.Login(s.ctx, LoginRequest{Login: "handle", Password: "secret123"})
	s.Require().NoError(err)
	s.Equal(existing.ID, pwSession.User.ID)
}

func (s *AuthServiceSuite) TestGoogleLogin_Failures() {
	s.Run("missing code", func() {
		_, err := s.svc.LoginWithGoogle(s.ctx, "")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("exchange failure maps to unauthorized", func() {
		s.provider.exchangeErr = errors.New("code expired")
		_, err := s.svc.LoginWithGoogle(s.ctx, "stale-code")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *AuthServiceSuite) TestSignup() {
	s.Run("creates an account with a hashed password", func() {
		u := s.signup("new@example.com", "newbie", "secret123")
		s.NotEmpty(u.ID)
		s.NotEmpty(u.PasswordHash)
		s.NotEqual("secret123", u.PasswordHash)
		s.Equal(users.StatusActive, u.Status)
	})

	s.Run("rejects duplicate email", func() {
		s.signup("dupe@example.com", "first", "secret123")
		_, err := s.svc.Signup(s.ctx, SignupRequest{
			Username: "second", Email: "dupe@example.com", Password: "secret123", Terms: true,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("validates input", func() {
		cases := []SignupRequest{
			{Username: "ab", Email: "a@b.com", Password: "secret123", Terms: true},
			{Username: "valid", Email: "not-an-email", Password: "secret123", Terms: true},
			{Username: "valid", Email: "a@b.com", Password: "short", Terms: true},
			{Username: "valid", Email: "a@b.com", Password: "secret123", Terms: false},
		}
		for _, req := range cases {
			_, err := s.svc.Signup(s.ctx, req)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation), "expected validation error for %+v", req)
		}
	})
}

func (s *AuthServiceSuite) TestLogin() {
	s.signup("login@example.com", "loginuser", "secret123")

	s.Run("accepts email", func() {
		session, err := s.svc.Login(s.ctx, LoginRequest{Login: "login@example.com", Password: "secret123"})
		s.Require().NoError(err)
		s.NotEmpty(session.Token)
	})

	s.Run("accepts username in any case", func() {
		session, err := s.svc.Login(s.ctx, LoginRequest{Login: "LoginUser", Password: "secret123"})
		s.Require().NoError(err)
		s.Equal("login@example.com", session.User.Email)
	})

	s.Run("wrong password and unknown account look identical", func() {
		_, badPassword := s.svc.Login(s.ctx, LoginRequest{Login: "loginuser", Password: "wrong"})
		_, unknownUser := s.svc.Login(s.ctx, LoginRequest{Login: "nobody", Password: "secret123"})
		s.Require().Error(badPassword)
		s.Require().Error(unknownUser)
		s.Equal(badPassword.Error(), unknownUser.Error())
		s.True(dErrors.HasCode(badPassword, dErrors.CodeUnauthorized))
	})

	s.Run("google-only account cannot password login", func() {
		_, err := s.svc.LoginWithGoogle(s.ctx, "auth-code")
		s.Require().NoError(err)
		_, err = s.svc.Login(s.ctx, LoginRequest{Login: "player@example.com", Password: "secret123"})
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("missing fields", func() {
		_, err := s.svc.Login(s.ctx, LoginRequest{})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *AuthServiceSuite) TestCurrentUser() {
	u := s.signup("me@example.com", "meuser", "secret123")

	found, err := s.svc.CurrentUser(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(u.Email, found.Email)

	_, err = s.svc.CurrentUser(s.ctx, "missing-id")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Equal("User not found", dErrors.MessageOf(err))
}

func (s *AuthServiceSuite) TestUpdateProfile() {
	u := s.signup("profile@example.com", "profileuser", "secret123")

	s.Run("merges provided fields", func() {
		first, last := "Sam", "Rivera"
		prefs := users.Preferences{Theme: "dark", FavoriteGenres: []string{"rpg"}}
		updated, err := s.svc.UpdateProfile(s.ctx, u.ID, ProfileUpdate{
			FirstName:   &first,
			LastName:    &last,
			Preferences: &prefs,
		})
		s.Require().NoError(err)
		s.Equal("Sam Rivera", updated.FullName)
		s.Equal("dark", updated.Preferences.Theme)
		s.Equal("profileuser", updated.Username)
	})

	s.Run("rejects bad theme", func() {
		prefs := users.Preferences{Theme: "neon"}
		_, err := s.svc.UpdateProfile(s.ctx, u.ID, ProfileUpdate{Preferences: &prefs})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects short username", func() {
		bad := "ab"
		_, err := s.svc.UpdateProfile(s.ctx, u.ID, ProfileUpdate{Username: &bad})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects taken username", func() {
		s.signup("other@example.com", "takenname", "secret123")
		taken := "takenname"
		_, err := s.svc.UpdateProfile(s.ctx, u.ID, ProfileUpdate{Username: &taken})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *AuthServiceSuite) TestLogout() {
	u := s.signup("out@example.com", "outuser", "secret123")
	session, err := s.svc.Login(s.ctx, LoginRequest{Login: "outuser", Password: "secret123"})
	s.Require().NoError(err)

	claims, err := s.tokens.ValidateToken(session.Token)
	s.Require().NoError(err)

	ctx := requestcontext.WithUserEmail(s.ctx, "out@example.com")
	s.Require().NoError(s.svc.Logout(ctx, u.ID, claims.ID, claims.ExpiresAt.Time))

	revoked, err := s.trl.IsRevoked(s.ctx, claims.ID)
	s.Require().NoError(err)
	s.True(revoked)

	s.Require().Contains(s.auditor.actions(), audit.ActionUserLogout)
	last := s.auditor.events[len(s.auditor.events)-1]
	s.Equal("out@example.com", last.Email)
}

// TestLoginUsesRequestTime pins the context clock and checks the login
// bookkeeping stamps it.
func (s *AuthServiceSuite) TestLoginUsesRequestTime() {
	s.signup("clock@example.com", "clockuser", "secret123")

	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	ctx := requestcontext.WithTime(s.ctx, at)

	session, err := s.svc.Login(ctx, LoginRequest{Login: "clockuser", Password: "secret123"})
	s.Require().NoError(err)

	s.Require().NotNil(session.User.LastLogin)
	s.True(session.User.LastLogin.Equal(at))
	s.True(session.User.UpdatedAt.Equal(at))
}
