package api

import (
	"net/http"
	"strconv"

	"atelier/internal/models"
)

func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Dashboard.Stats(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) DashboardRecentOrders(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	orders, err := h.Dashboard.RecentOrders(r.Context(), limit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) DashboardMonthlyOrders(w http.ResponseWriter, r *http.Request) {
	m, err := h.Dashboard.MonthlyOrders(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) DashboardStatusDistribution(w http.ResponseWriter, r *http.Request) {
	d, err := h.Dashboard.StatusDistribution(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, d)
}
