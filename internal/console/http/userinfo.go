package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/goedr/console/internal/console/service"
	"github.com/goedr/console/pkg/httpx"
)

type userInfoResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// UserInfoHandler returns the public profile for the authenticated user.
type UserInfoHandler struct {
	Auth *service.AuthService
}

func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username := httpx.UsernameFromContext(ctx)
	if username == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, map[string]string{
			"message": "Unauthorized: No username found in token.",
		})
		return
	}

	user, err := h.Auth.CurrentUser(ctx, username)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrNotFound):
		// The bearer credential can outlive the row it was minted for.
		httpx.WriteJSON(w, http.StatusNotFound, map[string]string{
			"message": "User not found.",
		})
		return
	default:
		writeServerError(ctx, w, "user lookup failed", err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, userInfoResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.DateCreated,
		UpdatedAt: user.LastLogin,
	})
}
