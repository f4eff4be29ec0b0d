package api

import (
	"net/http"

	"atelier/internal/models"
)

func (h *Handler) AddNotification(w http.ResponseWriter, r *http.Request) {
	var n models.Notification
	if err := decode(r, &n); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := h.Notifications.Add(r.Context(), &n); err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, n)
}

func (h *Handler) GetNotification(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid notification id")
		return
	}
	n, err := h.Notifications.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, n)
}

func (h *Handler) AllNotifications(w http.ResponseWriter, r *http.Request) {
	ns, err := h.Notifications.All(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, ns)
}

func (h *Handler) NotificationsByOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid order id")
		return
	}
	ns, err := h.Notifications.ByOrder(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, ns)
}

func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid notification id")
		return
	}
	if err := h.Notifications.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
