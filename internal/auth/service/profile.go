package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	"github.com/ZafarDakhnairi/iGameDB/internal/users"
	dErrors "github.com/ZafarDakhnairi/iGameDB/pkg/domain-errors"
	"github.com/ZafarDakhnairi/iGameDB/pkg/platform/sentinel"
)

// ProfileUpdate holds optional field changes. Nil fields are left untouched.
type ProfileUpdate struct {
	Username    *string            `json:"username,omitempty"`
	FirstName   *string            `json:"firstName,omitempty"`
	LastName    *string            `json:"lastName,omitempty"`
	Gender      *string            `json:"gender,omitempty"`
	Platforms   *[]string          `json:"platforms,omitempty"`
	Preferences *users.Preferences `json:"preferences,omitempty"`
	Metadata    *users.Metadata    `json:"metadata,omitempty"`
}

// UpdateProfile applies the requested changes to the caller's account.
func (s *Service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*users.User, error) {
	u, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Username != nil {
		username := strings.TrimSpace(*update.Username)
		if !govalidator.StringLength(username, "3", "30") {
			return nil, dErrors.New(dErrors.CodeValidation, "username must be between 3 and 30 characters")
		}
		u.Username = username
	}
	if update.FirstName != nil {
		u.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		u.LastName = *update.LastName
	}
	if update.FirstName != nil || update.LastName != nil {
		u.FullName = strings.TrimSpace(u.FirstName + " " + u.LastName)
	}
	if update.Gender != nil {
		u.Gender = *update.Gender
	}
	if update.Platforms != nil {
		u.Platforms = *update.Platforms
	}
	if update.Preferences != nil {
		if theme := update.Preferences.Theme; theme != "" && theme != "dark" && theme != "light" {
			return nil, dErrors.New(dErrors.CodeValidation, "theme must be dark or light")
		}
		u.Preferences = *update.Preferences
	}
	if update.Metadata != nil {
		u.Metadata = *update.Metadata
	}

	u.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "username or email already in use")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update profile")
	}
	return u, nil
}
