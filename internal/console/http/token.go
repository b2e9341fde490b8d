package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goedr/console/internal/console/service"
	"github.com/goedr/console/pkg/httpx"
)

type tokenAddRequest struct {
	Token string `json:"token"`
}

// TokenHandler manages the stored API token for the authenticated user and
// mirrors it into the apiToken cookie.
type TokenHandler struct {
	Auth   *service.AuthService
	Secure bool
}

// HandleAdd stores the token, inserting or replacing as one operation. The
// status code keeps the historical split: 201 for a first insert, 200 when
// an existing value was replaced.
func (h *TokenHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req tokenAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error": "API Token is required",
		})
		return
	}

	username := httpx.UsernameFromContext(ctx)
	replaced, err := h.Auth.UpsertToken(ctx, username, req.Token)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, map[string]string{
			"error": "User not found",
		})
		return
	default:
		writeServerError(ctx, w, "token upsert failed", err)
		return
	}

	setAPITokenCookie(w, req.Token, h.Secure)

	if replaced {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{
			"newToken": req.Token,
		})
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]string{
		"message": "Token added and cookie set",
		"token":   req.Token,
	})
}

// HandleDelete clears the stored token and the cookie. A request without
// the apiToken cookie has nothing to delete and is rejected.
func (h *TokenHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := r.Cookie(APITokenCookieName); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error": "API Token is required",
		})
		return
	}

	username := httpx.UsernameFromContext(ctx)
	err := h.Auth.DeleteToken(ctx, username)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, map[string]string{
			"error": "User not found",
		})
		return
	default:
		writeServerError(ctx, w, "token delete failed", err)
		return
	}

	clearAPITokenCookie(w, h.Secure)

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Token deleted and cookie cleared",
	})
}

// HandleGet returns the stored token verbatim.
func (h *TokenHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username := httpx.UsernameFromContext(ctx)
	token, err := h.Auth.GetToken(ctx, username)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrNoToken):
		httpx.WriteJSON(w, http.StatusNotFound, map[string]string{
			"error": "No token found",
		})
		return
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, map[string]string{
			"error": "User not found",
		})
		return
	default:
		writeServerError(ctx, w, "token fetch failed", err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"token": token,
	})
}
