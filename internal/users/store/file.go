package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/ZafarDakhnairi/iGameDB/internal/users"
)

const fileStoreName = "users.json"

// File is a flat-file JSON Store. All mutations are serialized through one
// mutex and flushed with a write-temp-then-rename, so concurrent requests
// cannot interleave whole-file read-modify-write cycles and lose updates.
type File struct {
	fs   afero.Fs
	path string

	mu   sync.RWMutex
	mem  *Memory
	list []string // ids in creation order, for a stable on-disk layout
}

type fileDocument struct {
	Users []fileUser `json:"users"`
}

// fileUser carries the password hash, which the API representation of a user
// deliberately never serializes.
type fileUser struct {
	users.User
	PasswordHash string `json:"passwordHash,omitempty"`
}

// NewFile opens (or creates) the store file under dir.
func NewFile(fs afero.Fs, dir string) (*File, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &File{
		fs:   fs,
		path: filepath.Join(dir, fileStoreName),
		mem:  NewMemory(),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *File) load() error {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read store file: %w", err)
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse store file %s: %w", s.path, err)
	}
	for _, fu := range doc.Users {
		u := fu.User
		u.PasswordHash = fu.PasswordHash
		if err := s.mem.Create(context.Background(), &u); err != nil {
			return fmt.Errorf("load user %s: %w", u.ID, err)
		}
		s.list = append(s.list, u.ID)
	}
	return nil
}

// flush writes the full document to a temp file and renames it into place.
// Callers must hold the write lock.
func (s *File) flush() error {
	doc := fileDocument{Users: make([]fileUser, 0, len(s.list))}
	for _, id := range s.list {
		if u, err := s.mem.FindByID(context.Background(), id); err == nil {
			doc.Users = append(doc.Users, fileUser{User: *u, PasswordHash: u.PasswordHash})
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

func (s *File) Create(ctx context.Context, u *users.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mem.Create(ctx, u); err != nil {
		return err
	}
	s.list = append(s.list, u.ID)
	return s.flush()
}

func (s *File) Update(ctx context.Context, u *users.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mem.Update(ctx, u); err != nil {
		return err
	}
	return s.flush()
}

func (s *File) FindByID(ctx context.Context, id string) (*users.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mem.FindByID(ctx, id)
}

func (s *File) FindByGoogleID(ctx context.Context, googleID string) (*users.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mem.FindByGoogleID(ctx, googleID)
}

func (s *File) FindByLogin(ctx context.Context, login string) (*users.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mem.FindByLogin(ctx, login)
}

func (s *File) AddWishlistEntry(ctx context.Context, ownerID string, entry users.WishlistEntry) ([]users.WishlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.mem.AddWishlistEntry(ctx, ownerID, entry)
	if err != nil {
		return nil, err
	}
	if err := s.flush(); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *File) RemoveWishlistEntry(ctx context.Context, ownerID string, gameID int64) ([]users.WishlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.mem.RemoveWishlistEntry(ctx, ownerID, gameID)
	if err != nil {
		return nil, err
	}
	if err := s.flush(); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *File) ListWishlist(ctx context.Context, ownerID string) ([]users.WishlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mem.ListWishlist(ctx, ownerID)
}

var _ Store = (*File)(nil)
