package api

import (
	"net/http"
	"strconv"

	"atelier/internal/logs"
	"atelier/internal/models"
)

func (h *Handler) AddOrder(w http.ResponseWriter, r *http.Request) {
	var o models.Order
	if err := decode(r, &o); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := h.Orders.Add(r.Context(), &o); err != nil {
		writeStoreError(w, err)
		return
	}
	h.generateOrderQRs(r, &o)
	models.WriteJSON(w, http.StatusCreated, o)
}

// generateOrderQRs creates the client QR plus one service QR per device.
// Failures are logged and dropped; the order stands either way.
func (h *Handler) generateOrderQRs(r *http.Request, o *models.Order) {
	ctx := r.Context()
	if err := h.QR.GenerateClientOrder(o); err != nil {
		logs.Logger.Errorf("client qr for order %d: %v", o.ID, err)
	} else if err := h.Orders.SaveQR(ctx, o.ID, o.ClientQrLink, o.ClientQrPath); err != nil {
		logs.Logger.Errorf("persist client qr for order %d: %v", o.ID, err)
	}
	for i := range o.Devices {
		d := &o.Devices[i]
		if err := h.QR.GenerateServiceDevice(d); err != nil {
			logs.Logger.Errorf("service qr for device %d: %v", d.ID, err)
			continue
		}
		if err := h.Devices.SaveQR(ctx, d.ID, d.ServiceQrLink, d.ServiceQrPath); err != nil {
			logs.Logger.Errorf("persist service qr for device %d: %v", d.ID, err)
		}
	}
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid order id")
		return
	}
	o, err := h.Orders.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) AllOrders(w http.ResponseWriter, r *http.Request) {
	os, err := h.Orders.All(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, os)
}

func (h *Handler) OrderDetails(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid order id")
		return
	}
	d, err := h.Orders.Details(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, d)
}

// ClientOrderView is the public endpoint behind the scanned client QR code.
func (h *Handler) ClientOrderView(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid order id")
		return
	}
	v, err := h.Orders.ClientView(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) FilterOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var deviceID *uint
	if raw := q.Get("deviceId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			writeBadRequest(w, "invalid deviceId")
			return
		}
		id := uint(parsed)
		deviceID = &id
	}
	page, err := h.Orders.Filter(r.Context(), q.Get("searchTerm"), q.Get("status"), deviceID, pageQuery(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid order id")
		return
	}
	var patch models.OrderPatch
	if err := decode(r, &patch); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	o, err := h.Orders.Update(r.Context(), id, patch)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid order id")
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := decode(r, &body); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	o, err := h.Orders.UpdateStatus(r.Context(), id, body.Status)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, o)
}

// DeliverOrder hands the order back to the client. On success it fires the
// WhatsApp completion notice; a failed notice is logged, never surfaced.
func (h *Handler) DeliverOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid order id")
		return
	}
	o, err := h.Orders.Deliver(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	h.notifyDelivered(r, id)
	models.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) notifyDelivered(r *http.Request, orderID uint) {
	if h.WhatsApp == nil || !h.WhatsApp.Configured() {
		return
	}
	ctx := r.Context()
	o, err := h.Orders.GetByID(ctx, orderID)
	if err != nil {
		logs.Logger.Errorf("load order %d for notification: %v", orderID, err)
		return
	}
	recipient, err := h.WhatsApp.SendOrderCompletion(ctx, o)
	if err != nil {
		logs.Logger.Errorf("whatsapp notification for order %d: %v", orderID, err)
		return
	}
	n := models.Notification{
		OrderID:   orderID,
		Channel:   "whatsapp",
		Recipient: recipient,
		Message:   "Order completion notification",
	}
	if err := h.Notifications.Add(ctx, &n); err != nil {
		logs.Logger.Errorf("record notification for order %d: %v", orderID, err)
	}
}

func (h *Handler) CanDeliverOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid order id")
		return
	}
	ok, err := h.Orders.CanDeliver(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, ok)
}

func (h *Handler) ActiveOrderCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.Orders.ActiveCount(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, n)
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid order id")
		return
	}
	o, err := h.Orders.Delete(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	h.QR.RemoveOrderArtifacts(o)
	w.WriteHeader(http.StatusNoContent)
}
