package attendance

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/hasanbasri/attendance-management/internal/transport"
)

type ServiceAPI interface {
	MarkSheet(ctx context.Context, dto MarkSheetDTO) (*MarkSheetResponse, error)
	Sheet(classID int64, date string) (*Sheet, error)
	History(studentID int64, from, to string) (*HistoryResponse, error)
	Summarize(classID int64, from, to string) (*Summary, error)
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

// MarkSheet handles POST /attendance: one whole class sheet for one day.
func (h *Handler) MarkSheet(w http.ResponseWriter, r *http.Request) {
	var dto MarkSheetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.MarkSheet(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// GetSheet handles GET /attendance/sheet?class_id=&date=.
func (h *Handler) GetSheet(w http.ResponseWriter, r *http.Request) {
	classID, err := strconv.ParseInt(r.URL.Query().Get("class_id"), 10, 64)
	if err != nil || classID <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid class_id")
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		h.WriteError(w, http.StatusBadRequest, "date is required")
		return
	}

	sheet, err := h.Service.Sheet(classID, date)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, sheet)
}

// GetHistory handles GET /attendance/students/{id}?from=&to=.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	studentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || studentID <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid student id")
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		h.WriteError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	history, err := h.Service.History(studentID, from, to)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, history)
}

// GetSummary handles GET /attendance/summary?class_id=&from=&to=.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	classID, err := strconv.ParseInt(r.URL.Query().Get("class_id"), 10, 64)
	if err != nil || classID <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid class_id")
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		h.WriteError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	summary, err := h.Service.Summarize(classID, from, to)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}
