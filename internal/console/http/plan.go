package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goedr/console/internal/console/domain"
	"github.com/goedr/console/internal/console/service"
	"github.com/goedr/console/pkg/httpx"
)

type planAddResponse struct {
	Message string      `json:"message"`
	Result  domain.Plan `json:"result"`
}

// PlanHandler stores remediation plans and backs the database reset switch.
type PlanHandler struct {
	Plans *service.PlanService
}

func (h *PlanHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in domain.PlanInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Plan data is required",
		})
		return
	}

	plan, _, err := h.Plans.Add(ctx, in)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidInput):
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Plan data is required",
		})
		return
	default:
		writeServerError(ctx, w, "plan add failed", err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, planAddResponse{
		Message: "Plan added successfully",
		Result:  plan,
	})
}

// HandleClear wipes both stores. Each clear runs regardless of the other's
// outcome; any failure still comes back as a 500.
func (h *PlanHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.Plans.ClearAll(ctx); err != nil {
		writeServerError(ctx, w, "database clear failed", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Databases successfully cleared",
	})
}
