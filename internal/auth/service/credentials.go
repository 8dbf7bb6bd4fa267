package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	"github.com/ZafarDakhnairi/iGameDB/internal/audit"
	"github.com/ZafarDakhnairi/iGameDB/internal/users"
	dErrors "github.com/ZafarDakhnairi/iGameDB/pkg/domain-errors"
	"github.com/ZafarDakhnairi/iGameDB/pkg/platform/sentinel"
)

// SignupRequest is the password registration form.
type SignupRequest struct {
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Gender    string   `json:"gender"`
	Platforms []string `json:"platforms"`
	Terms     bool     `json:"terms"`
}

// LoginRequest carries password credentials. Login accepts either the email
// or the username.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (r *SignupRequest) normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
}

func (r *SignupRequest) validate() error {
	if !govalidator.StringLength(r.Username, "3", "30") {
		return dErrors.New(dErrors.CodeValidation, "username must be between 3 and 30 characters")
	}
	if !govalidator.IsEmail(r.Email) || !govalidator.StringLength(r.Email, "1", "255") {
		return dErrors.New(dErrors.CodeValidation, "invalid email")
	}
	if len(r.Password) < 6 {
		return dErrors.New(dErrors.CodeValidation, "password must be at least 6 characters")
	}
	if !r.Terms {
		return dErrors.New(dErrors.CodeValidation, "terms must be accepted")
	}
	return nil
}

// Signup registers a password account.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*users.User, error) {
	req.normalize()
	if err := req.validate(); err != nil {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &users.User{
		ID:           newUserID(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		Gender:       req.Gender,
		Platforms:    req.Platforms,
		Status:       users.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "username or email already in use")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	s.metrics.IncrementUsersCreated()
	s.audit.Record(ctx, audit.Event{
		Action: audit.ActionUserCreated,
		UserID: u.ID,
		Email:  u.Email,
		Method: "password",
	})
	s.logger.InfoContext(ctx, "user signed up", "user_id", u.ID)
	return u, nil
}

// Login verifies password credentials and signs the caller in. The failure
// message never reveals whether the account or the password was wrong.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	login := strings.TrimSpace(req.Login)
	if login == "" || req.Password == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "login and password are required")
	}

	u, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	// Google-only accounts have no password hash and cannot use this flow.
	if u.PasswordHash == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	if err := VerifyPassword(req.Password, u.PasswordHash); err != nil {
		if !dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			s.logger.ErrorContext(ctx, "password verification failed", "user_id", u.ID, "error", err)
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	return s.issueSession(ctx, u, "password")
}
