package wishlist

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/ZafarDakhnairi/iGameDB/internal/audit"
	"github.com/ZafarDakhnairi/iGameDB/internal/users"
	"github.com/ZafarDakhnairi/iGameDB/internal/users/store"
	dErrors "github.com/ZafarDakhnairi/iGameDB/pkg/domain-errors"
)

type WishlistServiceSuite struct {
	suite.Suite
	store *store.Memory
	svc   *Service
	owner *users.User
	ctx   context.Context
}

func (s *WishlistServiceSuite) SetupTest() {
	s.store = store.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.svc = NewService(s.store, audit.NopRecorder{}, nil, logger)
	s.ctx = context.Background()

	now := time.Now()
	s.owner = &users.User{
		ID:        uuid.NewString(),
		Email:     "owner@example.com",
		Status:    users.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Require().NoError(s.store.Create(s.ctx, s.owner))
}

func TestWishlistServiceSuite(t *testing.T) {
	suite.Run(t, new(WishlistServiceSuite))
}

func (s *WishlistServiceSuite) TestAdd() {
	s.Run("adds an entry with the form fields", func() {
		list, err := s.svc.Add(s.ctx, s.owner.ID, AddRequest{
			GameID:   3498,
			Title:    "Grand Theft Auto V",
			Platform: "pc",
			Genres:   []string{"Action"},
			Reason:   "heist missions",
		})
		s.Require().NoError(err)
		s.Require().Len(list, 1)
		s.Equal(int64(3498), list[0].GameID)
		s.False(list[0].AddedAt.IsZero())
	})

	s.Run("duplicate add keeps one entry", func() {
		_, err := s.svc.Add(s.ctx, s.owner.ID, AddRequest{GameID: 3498})
		s.Require().NoError(err)
		list, err := s.svc.List(s.ctx, s.owner.ID)
		s.Require().NoError(err)
		s.Len(list, 1)
	})

	s.Run("rejects non-positive game id", func() {
		_, err := s.svc.Add(s.ctx, s.owner.ID, AddRequest{GameID: 0})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown owner", func() {
		_, err := s.svc.Add(s.ctx, uuid.NewString(), AddRequest{GameID: 1})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *WishlistServiceSuite) TestRemove() {
	_, err := s.svc.Add(s.ctx, s.owner.ID, AddRequest{GameID: 10})
	s.Require().NoError(err)

	s.Run("removes the entry", func() {
		list, err := s.svc.Remove(s.ctx, s.owner.ID, 10)
		s.Require().NoError(err)
		s.Empty(list)
	})

	s.Run("removing again succeeds quietly", func() {
		list, err := s.svc.Remove(s.ctx, s.owner.ID, 10)
		s.Require().NoError(err)
		s.Empty(list)
	})

	s.Run("rejects non-positive game id", func() {
		_, err := s.svc.Remove(s.ctx, s.owner.ID, -1)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *WishlistServiceSuite) TestList() {
	for _, id := range []int64{5, 3, 8} {
		_, err := s.svc.Add(s.ctx, s.owner.ID, AddRequest{GameID: id})
		s.Require().NoError(err)
	}

	list, err := s.svc.List(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	s.Len(list, 3)

	_, err = s.svc.List(s.ctx, uuid.NewString())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
