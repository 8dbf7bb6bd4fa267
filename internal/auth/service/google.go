package service

import (
	"context"
	"errors"
	"time"

	"github.com/ZafarDakhnairi/iGameDB/internal/audit"
	"github.com/ZafarDakhnairi/iGameDB/internal/auth/oauth"
	"github.com/ZafarDakhnairi/iGameDB/internal/users"
	dErrors "github.com/ZafarDakhnairi/iGameDB/pkg/domain-errors"
	"github.com/ZafarDakhnairi/iGameDB/pkg/platform/sentinel"
)

// LoginWithGoogle exchanges the authorization code and signs the caller in,
// creating the account on first login. An existing password account with the
// same email is linked rather than duplicated.
func (s *Service) LoginWithGoogle(ctx context.Context, code string) (*Session, error) {
	if code == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "authorization code is required")
	}

	profile, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "Google sign-in failed")
	}

	u, err := s.findOrCreateGoogleUser(ctx, profile)
	if err != nil {
		return nil, err
	}
	return s.issueSession(ctx, u, "google")
}

func (s *Service) findOrCreateGoogleUser(ctx context.Context, profile *oauth.Profile) (*users.User, error) {
	u, err := s.users.FindByGoogleID(ctx, profile.Sub)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	// First Google login. Link an existing account that signed up with the
	// same email, otherwise create a fresh one.
	if profile.Email != "" {
		existing, err := s.users.FindByLogin(ctx, profile.Email)
		if err == nil {
			return s.linkGoogleIdentity(ctx, existing, profile)
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
		}
	}

	return s.createGoogleUser(ctx, profile)
}

func (s *Service) linkGoogleIdentity(ctx context.Context, u *users.User, profile *oauth.Profile) (*users.User, error) {
	u.GoogleID = profile.Sub
	if u.FirstName == "" {
		u.FirstName = profile.FirstName
	}
	if u.LastName == "" {
		u.LastName = profile.LastName
	}
	if u.FullName == "" {
		u.FullName = profile.FullName
	}
	if u.ProfilePicture == "" {
		u.ProfilePicture = profile.Picture
	}
	u.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, u); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to link account")
	}
	s.logger.InfoContext(ctx, "linked Google identity to existing account", "user_id", u.ID)
	return u, nil
}

func (s *Service) createGoogleUser(ctx context.Context, profile *oauth.Profile) (*users.User, error) {
	now := time.Now()
	u := &users.User{
		ID:             newUserID(),
		GoogleID:       profile.Sub,
		Email:          profile.Email,
		FirstName:      profile.FirstName,
		LastName:       profile.LastName,
		FullName:       profile.FullName,
		ProfilePicture: profile.Picture,
		Status:         users.StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "account already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	s.metrics.IncrementUsersCreated()
	s.audit.Record(ctx, audit.Event{
		Action: audit.ActionUserCreated,
		UserID: u.ID,
		Email:  u.Email,
		Method: "google",
	})
	s.logger.InfoContext(ctx, "created user from Google profile", "user_id", u.ID)
	return u, nil
}
