package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/ZafarDakhnairi/iGameDB/internal/platform/config"
)

func testGoogleConfig() config.GoogleConfig {
	return config.GoogleConfig{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		CallbackURL:  "http://localhost:5000/auth/google/callback",
	}
}

func TestGoogle_AuthCodeURL(t *testing.T) {
	g := NewGoogle(testGoogleConfig())

	raw := g.AuthCodeURL("state-123")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	q := parsed.Query()
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "test-client", q.Get("client_id"))
	assert.Equal(t, "http://localhost:5000/auth/google/callback", q.Get("redirect_uri"))
	assert.Contains(t, q.Get("scope"), "email")
}

func TestGoogle_Exchange(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"mock-access","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer mock-access", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"sub": "google-sub-42",
			"email": "player@example.com",
			"email_verified": true,
			"given_name": "Alex",
			"family_name": "Chen",
			"name": "Alex Chen",
			"picture": "https://example.com/pic.jpg"
		}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	endpoint := oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	g := NewGoogle(testGoogleConfig(), WithEndpoints(endpoint, srv.URL+"/userinfo"))

	profile, err := g.Exchange(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "google-sub-42", profile.Sub)
	assert.Equal(t, "player@example.com", profile.Email)
	assert.True(t, profile.EmailVerified)
	assert.Equal(t, "Alex", profile.FirstName)
	assert.Equal(t, "Alex Chen", profile.FullName)
}

func TestGoogle_Exchange_RejectsMissingSubject(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"mock-access","token_type":"Bearer"}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email":"nobody@example.com"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	endpoint := oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	g := NewGoogle(testGoogleConfig(), WithEndpoints(endpoint, srv.URL+"/userinfo"))

	_, err := g.Exchange(context.Background(), "auth-code")
	require.Error(t, err)
}

func TestGoogle_Exchange_TokenEndpointFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad code", http.StatusBadRequest)
	}))
	defer srv.Close()

	endpoint := oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	g := NewGoogle(testGoogleConfig(), WithEndpoints(endpoint, srv.URL+"/userinfo"))

	_, err := g.Exchange(context.Background(), "expired-code")
	require.Error(t, err)
}
