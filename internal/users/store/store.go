// Package store persists user records. One interface, three backends:
// in-memory (development and tests), flat-file JSON, and Postgres. The
// backend is selected by configuration at startup.
package store

import (
	"context"

	"github.com/ZafarDakhnairi/iGameDB/internal/users"
)

// Store is the persistence contract for user records and their wishlists.
// Implementations return pkg/platform/sentinel errors: ErrNotFound when a
// record does not exist, ErrConflict when a unique identity field (email,
// username, google id) is already taken.
type Store interface {
	// Create inserts a new record. Identity fields must be unique.
	Create(ctx context.Context, u *users.User) error
	// Update replaces an existing record, matched by ID.
	Update(ctx context.Context, u *users.User) error

	FindByID(ctx context.Context, id string) (*users.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*users.User, error)
	// FindByLogin matches the identifier against email or username.
	FindByLogin(ctx context.Context, login string) (*users.User, error)

	// AddWishlistEntry appends the entry unless the owner already saved that
	// game (set semantics keyed by GameID). Returns the updated wishlist.
	AddWishlistEntry(ctx context.Context, ownerID string, entry users.WishlistEntry) ([]users.WishlistEntry, error)
	// RemoveWishlistEntry removes the game if present; removing an absent
	// entry is not an error. Returns the updated wishlist.
	RemoveWishlistEntry(ctx context.Context, ownerID string, gameID int64) ([]users.WishlistEntry, error)
	// ListWishlist returns the owner's wishlist in insertion order.
	ListWishlist(ctx context.Context, ownerID string) ([]users.WishlistEntry, error)
}
