package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/goedr/console/internal/console/service"
	"github.com/goedr/console/pkg/httpx"
	"github.com/goedr/console/pkg/slogx"
)

// inputDetail extracts the human half of a wrapped ErrInvalidInput so the
// response carries the field-level reason without the sentinel prefix.
func inputDetail(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, service.ErrInvalidInput.Error()+": "); ok {
		return rest
	}
	return msg
}

// writeServerError logs the real failure and hands the client a generic 500.
// Store and hash details never reach the response body.
func writeServerError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	slogx.FromContext(ctx).Error(op, "err", err)
	httpx.WriteJSON(w, http.StatusInternalServerError, map[string]string{
		"message": "An internal error occurred. Please try again.",
	})
}
