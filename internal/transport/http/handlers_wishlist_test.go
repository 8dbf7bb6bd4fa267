package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ZafarDakhnairi/iGameDB/internal/transport/http/mocks"
	"github.com/ZafarDakhnairi/iGameDB/internal/users"
	"github.com/ZafarDakhnairi/iGameDB/internal/wishlist"
	dErrors "github.com/ZafarDakhnairi/iGameDB/pkg/domain-errors"
	"github.com/ZafarDakhnairi/iGameDB/pkg/requestcontext"
)

func TestHandleWishlistAdd(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	addReq := wishlist.AddRequest{
		GameID:   3498,
		Title:    "Grand Theft Auto V",
		Platform: "PC",
		Genres:   []string{"Action"},
		Reason:   "co-op weekends",
	}

	mockWishlist := mocks.NewMockWishlistService(ctrl)
	mockWishlist.EXPECT().
		Add(gomock.Any(), "user-1", addReq).
		Return([]users.WishlistEntry{{GameID: 3498, Title: "Grand Theft Auto V"}}, nil).
		Times(1)

	handler := newTestHandler(nil, mockWishlist)

	body, err := json.Marshal(addReq)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/auth/wishlist/add", bytes.NewReader(body))
	req = req.WithContext(requestcontext.WithUserID(req.Context(), "user-1"))

	w := httptest.NewRecorder()
	handler.handleWishlistAdd(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message  string                `json:"message"`
		Wishlist []users.WishlistEntry `json:"wishlist"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Game added to wishlist", resp.Message)
	require.Len(t, resp.Wishlist, 1)
	assert.Equal(t, int64(3498), resp.Wishlist[0].GameID)
}

func TestHandleWishlistAdd_InvalidGame(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWishlist := mocks.NewMockWishlistService(ctrl)
	mockWishlist.EXPECT().
		Add(gomock.Any(), "user-1", gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeValidation, "gameId must be positive")).
		Times(1)

	handler := newTestHandler(nil, mockWishlist)

	req := httptest.NewRequest("POST", "/auth/wishlist/add", bytes.NewReader([]byte(`{"gameId":0}`)))
	req = req.WithContext(requestcontext.WithUserID(req.Context(), "user-1"))

	w := httptest.NewRecorder()
	handler.handleWishlistAdd(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleWishlistRemove(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWishlist := mocks.NewMockWishlistService(ctrl)
	mockWishlist.EXPECT().
		Remove(gomock.Any(), "user-1", int64(3498)).
		Return([]users.WishlistEntry{}, nil).
		Times(1)

	handler := newTestHandler(nil, mockWishlist)

	req := httptest.NewRequest("POST", "/auth/wishlist/remove", bytes.NewReader([]byte(`{"gameId":3498}`)))
	req = req.WithContext(requestcontext.WithUserID(req.Context(), "user-1"))

	w := httptest.NewRecorder()
	handler.handleWishlistRemove(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message  string                `json:"message"`
		Wishlist []users.WishlistEntry `json:"wishlist"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Game removed from wishlist", resp.Message)
	assert.Empty(t, resp.Wishlist)
}

func TestHandleWishlist(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWishlist := mocks.NewMockWishlistService(ctrl)
	mockWishlist.EXPECT().
		List(gomock.Any(), "user-1").
		Return([]users.WishlistEntry{{GameID: 3498}, {GameID: 5286}}, nil).
		Times(1)

	handler := newTestHandler(nil, mockWishlist)

	req := httptest.NewRequest("GET", "/auth/wishlist", nil)
	req = req.WithContext(requestcontext.WithUserID(req.Context(), "user-1"))

	w := httptest.NewRecorder()
	handler.handleWishlist(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Wishlist []users.WishlistEntry `json:"wishlist"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp.Wishlist, 2)
}

func TestHandleLegacyWishlistAdd_OwnList(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWishlist := mocks.NewMockWishlistService(ctrl)
	mockWishlist.EXPECT().
		Add(gomock.Any(), "user-1", wishlist.AddRequest{GameID: 3498}).
		Return([]users.WishlistEntry{{GameID: 3498}}, nil).
		Times(1)

	handler := newTestHandler(nil, mockWishlist)

	req := httptest.NewRequest("POST", "/wishlist",
		bytes.NewReader([]byte(`{"userId":"user-1","gameId":3498}`)))
	req = req.WithContext(requestcontext.WithUserID(req.Context(), "user-1"))

	w := httptest.NewRecorder()
	handler.handleLegacyWishlistAdd(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool                  `json:"success"`
		Data    []users.WishlistEntry `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data, 1)
}

func TestHandleLegacyWishlistAdd_ForeignListRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := newTestHandler(nil, mocks.NewMockWishlistService(ctrl))

	req := httptest.NewRequest("POST", "/wishlist",
		bytes.NewReader([]byte(`{"userId":"someone-else","gameId":3498}`)))
	req = req.WithContext(requestcontext.WithUserID(req.Context(), "user-1"))

	w := httptest.NewRecorder()
	handler.handleLegacyWishlistAdd(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "cannot modify another user's wishlist", resp["error_description"])
}

func legacyGetRequest(userParam, owner string) *http.Request {
	req := httptest.NewRequest("GET", "/wishlist/"+userParam, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("userId", userParam)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = requestcontext.WithUserID(ctx, owner)
	return req.WithContext(ctx)
}

func TestHandleLegacyWishlistGet_OwnList(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWishlist := mocks.NewMockWishlistService(ctrl)
	mockWishlist.EXPECT().
		List(gomock.Any(), "user-1").
		Return([]users.WishlistEntry{{GameID: 3498}}, nil).
		Times(1)

	handler := newTestHandler(nil, mockWishlist)

	w := httptest.NewRecorder()
	handler.handleLegacyWishlistGet(w, legacyGetRequest("user-1", "user-1"))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                  `json:"success"`
		Data    []users.WishlistEntry `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data, 1)
}

func TestHandleLegacyWishlistGet_ForeignListRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := newTestHandler(nil, mocks.NewMockWishlistService(ctrl))

	w := httptest.NewRecorder()
	handler.handleLegacyWishlistGet(w, legacyGetRequest("someone-else", "user-1"))

	assert.Equal(t, http.StatusForbidden, w.Code)
}
