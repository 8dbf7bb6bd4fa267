package httptransport

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	authservice "github.com/ZafarDakhnairi/iGameDB/internal/auth/service"
	"github.com/ZafarDakhnairi/iGameDB/internal/platform/middleware"
	dErrors "github.com/ZafarDakhnairi/iGameDB/pkg/domain-errors"
	"github.com/ZafarDakhnairi/iGameDB/pkg/platform/httputil"
	"github.com/ZafarDakhnairi/iGameDB/pkg/requestcontext"
)

const (
	stateCookieName = "oauth_state"
	stateCookieTTL  = 600 // seconds

	successRedirect = "/index.html?login=success&userId="
	failureRedirect = "/signin?error=auth_failed"
)

// newState mints a nonce.signature pair so a callback state is only accepted
// when it was minted by this server, not just echoed by the client.
func (h *Handler) newState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	nonce := base64.RawURLEncoding.EncodeToString(buf)
	return nonce + "." + h.signState(nonce), nil
}

func (h *Handler) signState(nonce string) string {
	mac := hmac.New(sha256.New, []byte(h.stateSecret))
	mac.Write([]byte(nonce))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (h *Handler) validState(state string) bool {
	nonce, sig, ok := strings.Cut(state, ".")
	return ok && hmac.Equal([]byte(sig), []byte(h.signState(nonce)))
}

func (h *Handler) handleGoogleRedirect(w http.ResponseWriter, r *http.Request) {
	state, err := h.newState()
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to start sign-in"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   stateCookieTTL,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.auth.AuthCodeURL(state), http.StatusFound)
}

func (h *Handler) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	h.clearCookie(w, stateCookieName)

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != state || !h.validState(state) {
		h.logger.WarnContext(ctx, "oauth callback state mismatch",
			"request_id", requestcontext.RequestID(ctx),
		)
		http.Redirect(w, r, failureRedirect, http.StatusFound)
		return
	}

	session, err := h.auth.LoginWithGoogle(ctx, r.URL.Query().Get("code"))
	if err != nil {
		h.logger.WarnContext(ctx, "google sign-in failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		http.Redirect(w, r, failureRedirect, http.StatusFound)
		return
	}

	h.setAuthCookie(w, session.Token)
	http.Redirect(w, r, successRedirect+url.QueryEscape(session.User.ID), http.StatusFound)
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req authservice.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	u, err := h.auth.Signup(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Account created successfully",
		"user":    u,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req authservice.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	session, err := h.auth.Login(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.setAuthCookie(w, session.Token)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Logged in successfully",
		"user": map[string]string{
			"id":       session.User.ID,
			"email":    session.User.Email,
			"fullName": session.User.FullName,
			"username": session.User.Username,
		},
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := h.auth.CurrentUser(r.Context(), requestcontext.UserID(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update authservice.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	u, err := h.auth.UpdateProfile(r.Context(), requestcontext.UserID(r.Context()), update)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims := middleware.ClaimsFrom(ctx)
	userID := requestcontext.UserID(ctx)
	var jti string
	var expiresAt time.Time
	if claims != nil {
		jti = claims.JTI
		expiresAt = claims.ExpiresAt
	}

	if err := h.auth.Logout(ctx, userID, jti, expiresAt); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.clearCookie(w, middleware.AuthCookieName)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

func (h *Handler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
