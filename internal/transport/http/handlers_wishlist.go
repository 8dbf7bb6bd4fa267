package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ZafarDakhnairi/iGameDB/internal/wishlist"
	dErrors "github.com/ZafarDakhnairi/iGameDB/pkg/domain-errors"
	"github.com/ZafarDakhnairi/iGameDB/pkg/platform/httputil"
	"github.com/ZafarDakhnairi/iGameDB/pkg/requestcontext"
)

func (h *Handler) handleWishlist(w http.ResponseWriter, r *http.Request) {
	list, err := h.wishlist.List(r.Context(), requestcontext.UserID(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"wishlist": list})
}

func (h *Handler) handleWishlistAdd(w http.ResponseWriter, r *http.Request) {
	var req wishlist.AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	list, err := h.wishlist.Add(r.Context(), requestcontext.UserID(r.Context()), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message":  "Game added to wishlist",
		"wishlist": list,
	})
}

func (h *Handler) handleWishlistRemove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID int64 `json:"gameId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	list, err := h.wishlist.Remove(r.Context(), requestcontext.UserID(r.Context()), req.GameID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message":  "Game removed from wishlist",
		"wishlist": list,
	})
}

// legacyAddRequest is the older wishlist form that names its owner explicitly.
type legacyAddRequest struct {
	UserID string `json:"userId"`
	wishlist.AddRequest
}

func (h *Handler) handleLegacyWishlistAdd(w http.ResponseWriter, r *http.Request) {
	var req legacyAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	owner := requestcontext.UserID(r.Context())
	if req.UserID != "" && req.UserID != owner {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "cannot modify another user's wishlist"))
		return
	}

	list, err := h.wishlist.Add(r.Context(), owner, req.AddRequest)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    list,
	})
}

func (h *Handler) handleLegacyWishlistGet(w http.ResponseWriter, r *http.Request) {
	owner := requestcontext.UserID(r.Context())
	if chi.URLParam(r, "userId") != owner {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "cannot read another user's wishlist"))
		return
	}

	list, err := h.wishlist.List(r.Context(), owner)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    list,
	})
}
