package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ZafarDakhnairi/iGameDB/internal/platform/config"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// Google implements Provider against Google's OAuth2 endpoints, asking for
// the profile and email scopes.
type Google struct {
	config      *oauth2.Config
	userInfoURL string
}

// GoogleOption configures a Google provider.
type GoogleOption func(*Google)

// WithEndpoints overrides the token and userinfo endpoints, for tests.
func WithEndpoints(endpoint oauth2.Endpoint, userInfoURL string) GoogleOption {
	return func(g *Google) {
		g.config.Endpoint = endpoint
		g.userInfoURL = userInfoURL
	}
}

// NewGoogle constructs the Google provider from the OAuth client registration.
func NewGoogle(cfg config.GoogleConfig, opts ...GoogleOption) *Google {
	g := &Google{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: defaultUserInfoURL,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Google) Name() string { return "google" }

func (g *Google) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state)
}

// googleUserInfo mirrors the OpenID Connect userinfo response.
type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (g *Google) Exchange(ctx context.Context, code string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}

	resp, err := g.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("userinfo returned %d: %s", resp.StatusCode, body)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Sub == "" {
		return nil, fmt.Errorf("userinfo response missing subject")
	}

	return &Profile{
		Sub:           info.Sub,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
		FirstName:     info.GivenName,
		LastName:      info.FamilyName,
		FullName:      info.Name,
		Picture:       info.Picture,
	}, nil
}

var _ Provider = (*Google)(nil)
