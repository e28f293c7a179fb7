package notification

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hasanbasri/attendance-management/internal/transport"
)

type ServiceAPI interface {
	NotifyClass(ctx context.Context, dto NotifyClassDTO) (*NotifyClassResponse, error)
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

// NotifyClass handles POST /notifications/class.
func (h *Handler) NotifyClass(w http.ResponseWriter, r *http.Request) {
	var dto NotifyClassDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.NotifyClass(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusAccepted, resp)
}
