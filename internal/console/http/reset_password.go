package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goedr/console/internal/console/service"
	"github.com/goedr/console/pkg/httpx"
)

type resetPasswordRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"newPassword"`
}

// ResetPasswordHandler replaces an account's password. The caller already
// knows the username here, so an absent user is a plain 404.
type ResetPasswordHandler struct {
	Auth *service.AuthService
}

func (h *ResetPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Invalid request body.",
		})
		return
	}

	err := h.Auth.ResetPassword(ctx, req.Username, req.NewPassword)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidInput):
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"message": inputDetail(err),
		})
		return
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, map[string]string{
			"message": "User not found.",
		})
		return
	default:
		writeServerError(ctx, w, "password reset failed", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Password reset successful.",
	})
}
