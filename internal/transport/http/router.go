// Package httptransport is the thin HTTP layer. Handlers decode, delegate to
// domain services, and encode; business rules stay in the services.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authservice "github.com/ZafarDakhnairi/iGameDB/internal/auth/service"
	"github.com/ZafarDakhnairi/iGameDB/internal/catalog"
	"github.com/ZafarDakhnairi/iGameDB/internal/news"
	"github.com/ZafarDakhnairi/iGameDB/internal/platform/metrics"
	"github.com/ZafarDakhnairi/iGameDB/internal/platform/middleware"
	"github.com/ZafarDakhnairi/iGameDB/internal/users"
	"github.com/ZafarDakhnairi/iGameDB/internal/wishlist"
	"github.com/ZafarDakhnairi/iGameDB/pkg/platform/httputil"
)

//go:generate mockgen -source=router.go -destination=mocks/services.go -package=mocks

// AuthService covers the account flows the handlers call.
type AuthService interface {
	AuthCodeURL(state string) string
	LoginWithGoogle(ctx context.Context, code string) (*authservice.Session, error)
	Signup(ctx context.Context, req authservice.SignupRequest) (*users.User, error)
	Login(ctx context.Context, req authservice.LoginRequest) (*authservice.Session, error)
	CurrentUser(ctx context.Context, userID string) (*users.User, error)
	UpdateProfile(ctx context.Context, userID string, update authservice.ProfileUpdate) (*users.User, error)
	Logout(ctx context.Context, userID, jti string, expiresAt time.Time) error
}

// WishlistService manages the per-user saved games.
type WishlistService interface {
	Add(ctx context.Context, ownerID string, req wishlist.AddRequest) ([]users.WishlistEntry, error)
	Remove(ctx context.Context, ownerID string, gameID int64) ([]users.WishlistEntry, error)
	List(ctx context.Context, ownerID string) ([]users.WishlistEntry, error)
}

// CatalogService proxies the games database.
type CatalogService interface {
	ListGames(ctx context.Context, q catalog.GamesQuery) (*catalog.GamesPage, error)
}

// NewsService serves the gaming headlines rail.
type NewsService interface {
	LatestArticles(ctx context.Context, pageSize int) []news.Article
}

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	auth     AuthService
	wishlist WishlistService
	catalog  CatalogService
	news     NewsService

	tokenTTL      time.Duration
	secureCookies bool
	stateSecret   string
	logger        *slog.Logger
}

// Config carries the transport-level knobs.
type Config struct {
	TokenTTL      time.Duration
	SecureCookies bool

	// StateSecret keys the HMAC over the OAuth state cookie.
	StateSecret string
}

func NewHandler(
	auth AuthService,
	wishlistSvc WishlistService,
	catalogSvc CatalogService,
	newsSvc NewsService,
	cfg Config,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		auth:          auth,
		wishlist:      wishlistSvc,
		catalog:       catalogSvc,
		news:          newsSvc,
		tokenTTL:      cfg.TokenTTL,
		secureCookies: cfg.SecureCookies,
		stateSecret:   cfg.StateSecret,
		logger:        logger,
	}
}

// NewRouter wires all public endpoints behind the middleware chain.
func NewRouter(
	h *Handler,
	validator middleware.TokenValidator,
	revocations middleware.RevocationChecker,
	m *metrics.Metrics,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metadata)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Latency(m))

	r.Get("/health", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/auth/google", h.handleGoogleRedirect)
	r.Get("/auth/google/callback", h.handleGoogleCallback)
	r.Post("/signup", h.handleSignup)
	r.Post("/login", h.handleLogin)

	r.Get("/api/games", h.handleGames)
	r.Get("/api/news", h.handleNews)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator, revocations, logger))

		r.Get("/auth/me", h.handleMe)
		r.Get("/auth/profile", h.handleMe)
		r.Put("/auth/profile", h.handleUpdateProfile)
		r.Get("/auth/logout", h.handleLogout)

		r.Get("/auth/wishlist", h.handleWishlist)
		r.Post("/auth/wishlist/add", h.handleWishlistAdd)
		r.Post("/auth/wishlist/remove", h.handleWishlistRemove)

		r.Post("/wishlist", h.handleLegacyWishlistAdd)
		r.Get("/wishlist/{userId}", h.handleLegacyWishlistGet)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
