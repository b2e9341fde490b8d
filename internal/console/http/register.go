package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goedr/console/internal/console/service"
	"github.com/goedr/console/pkg/httpx"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string      `json:"message"`
	JWT     string      `json:"jwt"`
	User    userSummary `json:"user"`
}

type userSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// RegisterHandler creates a new console account and hands back a bearer
// credential for it.
type RegisterHandler struct {
	Auth *service.AuthService
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Invalid request body.",
		})
		return
	}

	user, token, err := h.Auth.Register(ctx, req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidInput):
		httpx.WriteJSON(w, http.StatusNotAcceptable, map[string]string{
			"message": inputDetail(err),
		})
		return
	case errors.Is(err, service.ErrConflict):
		httpx.WriteJSON(w, http.StatusNotAcceptable, map[string]string{
			"message": "This username is unavailable.",
		})
		return
	default:
		writeServerError(ctx, w, "register failed", err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, registerResponse{
		Message: "User created successfully!",
		JWT:     token,
		User:    userSummary{ID: user.ID, Username: user.Username},
	})
}
