package backup

import (
	"context"
	"net/http"

	"github.com/hasanbasri/attendance-management/internal/transport"
)

type ServiceAPI interface {
	Run(ctx context.Context) (*RunResult, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// RunBackup handles POST /backups/run: an on-demand run outside the
// schedule. It blocks until the run finishes so the caller sees the result.
func (h *Handler) RunBackup(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.Run(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}
