package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/ZafarDakhnairi/iGameDB/pkg/domain-errors"
)

const gamesPayload = `{
	"count": 2,
	"next": "https://api.rawg.io/api/games?page=2",
	"results": [
		{"id": 3498, "slug": "grand-theft-auto-v", "name": "Grand Theft Auto V", "rating": 4.47,
		 "genres": [{"id": 4, "name": "Action", "slug": "action"}]},
		{"id": 3328, "slug": "the-witcher-3-wild-hunt", "name": "The Witcher 3: Wild Hunt", "rating": 4.65}
	]
}`

func TestListGames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "20", q.Get("page_size"))
		assert.Equal(t, "witcher", q.Get("search"))
		assert.Equal(t, "-rating", q.Get("ordering"))
		assert.Equal(t, "action,rpg", q.Get("genres"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(gamesPayload))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	page, err := client.ListGames(context.Background(), GamesQuery{
		Page:     2,
		PageSize: 20,
		Search:   "witcher",
		Ordering: "-rating",
		Genres:   []string{"action", "rpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "Grand Theft Auto V", page.Results[0].Name)
	assert.Equal(t, "action", page.Results[0].Genres[0].Slug)
}

func TestListGames_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(gamesPayload))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	page, err := client.ListGames(context.Background(), GamesQuery{})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 2, page.Count)
}

func TestListGames_SurfacesPersistentFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.ListGames(context.Background(), GamesQuery{})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	assert.Equal(t, int32(3), calls.Load())
}

func TestListGames_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.ListGames(context.Background(), GamesQuery{})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	assert.Equal(t, int32(1), calls.Load())
}
