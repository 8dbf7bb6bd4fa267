// Package oauth abstracts the external identity providers the login flow can
// delegate to. Google is the only wired provider today.
package oauth

import "context"

// Profile holds the normalized identity claims returned by a provider.
// All fields are verified server-side; never trust client-supplied values.
type Profile struct {
	Sub           string // provider-specific stable user ID (e.g. Google "sub")
	Email         string
	EmailVerified bool
	FirstName     string
	LastName      string
	FullName      string
	Picture       string
}

// Provider is an OAuth2 identity provider. Implementations handle the
// provider-specific auth URL, code exchange, and profile fetch.
type Provider interface {
	// Name returns the provider identifier used in logs and stored records.
	Name() string

	// AuthCodeURL returns the provider consent URL with state embedded.
	AuthCodeURL(state string) string

	// Exchange exchanges the authorization code for a verified profile.
	Exchange(ctx context.Context, code string) (*Profile, error)
}
