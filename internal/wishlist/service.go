// Package wishlist manages each user's saved games. The wishlist behaves as a
// set keyed by game ID: adding twice keeps one entry, removing an absent game
// succeeds quietly.
package wishlist

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ZafarDakhnairi/iGameDB/internal/audit"
	"github.com/ZafarDakhnairi/iGameDB/internal/platform/metrics"
	"github.com/ZafarDakhnairi/iGameDB/internal/users"
	"github.com/ZafarDakhnairi/iGameDB/internal/users/store"
	dErrors "github.com/ZafarDakhnairi/iGameDB/pkg/domain-errors"
	"github.com/ZafarDakhnairi/iGameDB/pkg/platform/sentinel"
)

// AddRequest is the wishlist form payload. Only the game ID is required.
type AddRequest struct {
	GameID   int64    `json:"gameId"`
	Title    string   `json:"title"`
	Platform string   `json:"platform"`
	Genres   []string `json:"genres"`
	Reason   string   `json:"reason"`
}

type Service struct {
	users   store.Store
	audit   audit.Recorder
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(users store.Store, auditor audit.Recorder, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{users: users, audit: auditor, metrics: m, logger: logger}
}

// Add saves a game to the owner's wishlist and returns the updated list.
func (s *Service) Add(ctx context.Context, ownerID string, req AddRequest) ([]users.WishlistEntry, error) {
	if req.GameID <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "gameId must be a positive integer")
	}

	entry := users.WishlistEntry{
		GameID:   req.GameID,
		Title:    req.Title,
		Platform: req.Platform,
		Genres:   req.Genres,
		Reason:   req.Reason,
		AddedAt:  time.Now(),
	}
	list, err := s.users.AddWishlistEntry(ctx, ownerID, entry)
	if err != nil {
		return nil, translateOwnerErr(err)
	}

	s.metrics.IncrementWishlist("add")
	s.audit.Record(ctx, audit.Event{
		Action: audit.ActionWishlistAdded,
		UserID: ownerID,
		GameID: req.GameID,
	})
	s.logger.InfoContext(ctx, "wishlist entry added", "user_id", ownerID, "game_id", req.GameID)
	return list, nil
}

// Remove deletes a game from the owner's wishlist. Removing a game that is
// not there is not an error.
func (s *Service) Remove(ctx context.Context, ownerID string, gameID int64) ([]users.WishlistEntry, error) {
	if gameID <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "gameId must be a positive integer")
	}

	list, err := s.users.RemoveWishlistEntry(ctx, ownerID, gameID)
	if err != nil {
		return nil, translateOwnerErr(err)
	}

	s.metrics.IncrementWishlist("remove")
	s.audit.Record(ctx, audit.Event{
		Action: audit.ActionWishlistRemoved,
		UserID: ownerID,
		GameID: gameID,
	})
	return list, nil
}

// List returns the owner's current wishlist.
func (s *Service) List(ctx context.Context, ownerID string) ([]users.WishlistEntry, error) {
	list, err := s.users.ListWishlist(ctx, ownerID)
	if err != nil {
		return nil, translateOwnerErr(err)
	}
	return list, nil
}

func translateOwnerErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "User not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "wishlist operation failed")
}
