package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goedr/console/internal/console/service"
	"github.com/goedr/console/pkg/httpx"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string    `json:"message"`
	User    loginUser `json:"user"`
}

type loginUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	JWT      string `json:"jwt"`
}

// LoginHandler verifies credentials and issues the bearer credential. When
// the account already has an API token, the handler also drops it into the
// long-lived apiToken cookie so the UI can talk to the scan engine.
type LoginHandler struct {
	Auth   *service.AuthService
	Secure bool
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Invalid request body.",
		})
		return
	}

	user, token, err := h.Auth.Login(ctx, req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidInput):
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"message": inputDetail(err),
		})
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteJSON(w, http.StatusUnauthorized, map[string]string{
			"message": "Invalid username or password.",
		})
		return
	default:
		writeServerError(ctx, w, "login failed", err)
		return
	}

	if user.APIToken != "" {
		setAPITokenCookie(w, user.APIToken, h.Secure)
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful!",
		User:    loginUser{ID: user.ID, Username: user.Username, JWT: token},
	})
}
