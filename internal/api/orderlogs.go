package api

import (
	"net/http"

	"atelier/internal/models"
)

type addLogRequest struct {
	OrderID uint   `json:"order_id"`
	UserID  uint   `json:"user_id"`
	Message string `json:"message"`
}

func (h *Handler) AddOrderLog(w http.ResponseWriter, r *http.Request) {
	var req addLogRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.OrderID == 0 || req.Message == "" {
		writeBadRequest(w, "order_id and message are required")
		return
	}
	if err := h.Logs.Append(r.Context(), req.OrderID, req.UserID, req.Message); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) GetOrderLog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid log id")
		return
	}
	l, err := h.Logs.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, l)
}

func (h *Handler) AllOrderLogs(w http.ResponseWriter, r *http.Request) {
	ls, err := h.Logs.All(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, ls)
}

func (h *Handler) OrderLogsByOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid order id")
		return
	}
	ls, err := h.Logs.ByOrder(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	entries := make([]models.LogEntry, 0, len(ls))
	for i := range ls {
		entries = append(entries, models.LogEntry{
			ID:        ls[i].ID,
			Message:   ls[i].Message,
			Username:  ls[i].Username(),
			Timestamp: ls[i].CreatedAt,
		})
	}
	models.WriteJSON(w, http.StatusOK, entries)
}

// DeleteOrderLog is the only way a log entry ever disappears; there is no
// update path at all.
func (h *Handler) DeleteOrderLog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid log id")
		return
	}
	if err := h.Logs.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
