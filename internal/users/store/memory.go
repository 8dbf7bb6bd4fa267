package store

import (
	"context"
	"strings"
	"sync"

	"github.com/ZafarDakhnairi/iGameDB/internal/users"
	"github.com/ZafarDakhnairi/iGameDB/pkg/platform/sentinel"
)

// Memory is an in-memory Store used in development and tests.
type Memory struct {
	mu      sync.RWMutex
	byID    map[string]*users.User
	byEmail map[string]string // email -> id
	byName  map[string]string // username -> id
	byGID   map[string]string // google id -> id
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		byID:    make(map[string]*users.User),
		byEmail: make(map[string]string),
		byName:  make(map[string]string),
		byGID:   make(map[string]string),
	}
}

func (s *Memory) Create(_ context.Context, u *users.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, taken := s.byEmail[email]; taken {
		return sentinel.ErrConflict
	}
	if u.Username != "" {
		if _, taken := s.byName[strings.ToLower(u.Username)]; taken {
			return sentinel.ErrConflict
		}
	}
	if u.GoogleID != "" {
		if _, taken := s.byGID[u.GoogleID]; taken {
			return sentinel.ErrConflict
		}
	}

	cp := u.Clone()
	cp.Email = email
	s.byID[cp.ID] = cp
	s.byEmail[email] = cp.ID
	if cp.Username != "" {
		s.byName[strings.ToLower(cp.Username)] = cp.ID
	}
	if cp.GoogleID != "" {
		s.byGID[cp.GoogleID] = cp.ID
	}
	return nil
}

func (s *Memory) Update(_ context.Context, u *users.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.byID[u.ID]
	if !ok {
		return sentinel.ErrNotFound
	}

	cp := u.Clone()
	cp.Email = strings.ToLower(cp.Email)

	if id, taken := s.byEmail[cp.Email]; taken && id != cp.ID {
		return sentinel.ErrConflict
	}
	if cp.Username != "" {
		if id, taken := s.byName[strings.ToLower(cp.Username)]; taken && id != cp.ID {
			return sentinel.ErrConflict
		}
	}
	if cp.GoogleID != "" {
		if id, taken := s.byGID[cp.GoogleID]; taken && id != cp.ID {
			return sentinel.ErrConflict
		}
	}

	delete(s.byEmail, prev.Email)
	if prev.Username != "" {
		delete(s.byName, strings.ToLower(prev.Username))
	}
	if prev.GoogleID != "" {
		delete(s.byGID, prev.GoogleID)
	}

	s.byID[cp.ID] = cp
	s.byEmail[cp.Email] = cp.ID
	if cp.Username != "" {
		s.byName[strings.ToLower(cp.Username)] = cp.ID
	}
	if cp.GoogleID != "" {
		s.byGID[cp.GoogleID] = cp.ID
	}
	return nil
}

func (s *Memory) FindByID(_ context.Context, id string) (*users.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return u.Clone(), nil
}

func (s *Memory) FindByGoogleID(_ context.Context, googleID string) (*users.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byGID[googleID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.byID[id].Clone(), nil
}

func (s *Memory) FindByLogin(_ context.Context, login string) (*users.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := strings.ToLower(login)
	if id, ok := s.byEmail[key]; ok {
		return s.byID[id].Clone(), nil
	}
	if id, ok := s.byName[key]; ok {
		return s.byID[id].Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *Memory) AddWishlistEntry(_ context.Context, ownerID string, entry users.WishlistEntry) ([]users.WishlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[ownerID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if !u.HasWishlisted(entry.GameID) {
		u.Wishlist = append(u.Wishlist, entry)
	}
	return cloneWishlist(u.Wishlist), nil
}

func (s *Memory) RemoveWishlistEntry(_ context.Context, ownerID string, gameID int64) ([]users.WishlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[ownerID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	kept := u.Wishlist[:0]
	for _, e := range u.Wishlist {
		if e.GameID != gameID {
			kept = append(kept, e)
		}
	}
	u.Wishlist = kept
	return cloneWishlist(u.Wishlist), nil
}

func (s *Memory) ListWishlist(_ context.Context, ownerID string) ([]users.WishlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[ownerID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneWishlist(u.Wishlist), nil
}

func cloneWishlist(entries []users.WishlistEntry) []users.WishlistEntry {
	out := make([]users.WishlistEntry, len(entries))
	for i, e := range entries {
		out[i] = e
		out[i].Genres = append([]string(nil), e.Genres...)
	}
	return out
}
