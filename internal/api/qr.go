package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"atelier/internal/logs"
	"atelier/internal/models"
)

// QrScan tells a device that just scanned a QR code where to navigate.
// Staff with a valid token land on the filtered order list; everyone
// else gets the public tracking page. The order reference is passed
// through untouched, so a stale code still resolves to a sensible page.
func (h *Handler) QrScan(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["id"]

	authenticated := false
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		if _, err := h.Tokens.Parse(strings.TrimPrefix(header, "Bearer ")); err == nil {
			authenticated = true
		}
	}

	redirect := "/public/order/" + ref
	if authenticated {
		redirect = "/orders?filter=" + ref
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"isAuthenticated": authenticated,
		"redirectUrl":     redirect,
	})
}

func (h *Handler) ClientOrderQR(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "orderId")
	if err != nil {
		writeBadRequest(w, "invalid order id")
		return
	}
	o, err := h.Orders.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	changed, err := h.QR.EnsureClientOrder(o)
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "QR Generation Failed", err.Error(), nil)
		return
	}
	if changed {
		if err := h.Orders.SaveQR(r.Context(), o.ID, o.ClientQrLink, o.ClientQrPath); err != nil {
			writeStoreError(w, err)
			return
		}
	}
	h.servePNG(w, o.ClientQrPath, fmt.Sprintf("client-order-%d.png", o.ID))
}

func (h *Handler) ServiceDeviceQR(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "deviceId")
	if err != nil {
		writeBadRequest(w, "invalid device id")
		return
	}
	d, err := h.Devices.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	changed, err := h.QR.EnsureServiceDevice(d)
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "QR Generation Failed", err.Error(), nil)
		return
	}
	if changed {
		if err := h.Devices.SaveQR(r.Context(), d.ID, d.ServiceQrLink, d.ServiceQrPath); err != nil {
			writeStoreError(w, err)
			return
		}
	}
	h.servePNG(w, d.ServiceQrPath, fmt.Sprintf("service-device-%d.png", d.ID))
}

func (h *Handler) ClientOrderQRLink(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "orderId")
	if err != nil {
		writeBadRequest(w, "invalid order id")
		return
	}
	if _, err := h.Orders.GetByID(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, h.QR.ClientOrderLink(id))
}

func (h *Handler) ServiceDeviceQRLink(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "deviceId")
	if err != nil {
		writeBadRequest(w, "invalid device id")
		return
	}
	if _, err := h.Devices.GetByID(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, h.QR.ServiceDeviceLink(id))
}

// RegenerateOrderQRs rebuilds the client QR and every device QR of an
// order, regardless of whether the artifacts still exist.
func (h *Handler) RegenerateOrderQRs(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "orderId")
	if err != nil {
		writeBadRequest(w, "invalid order id")
		return
	}
	o, err := h.Orders.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if err := h.QR.GenerateClientOrder(o); err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "QR Generation Failed", err.Error(), nil)
		return
	}
	if err := h.Orders.SaveQR(r.Context(), o.ID, o.ClientQrLink, o.ClientQrPath); err != nil {
		writeStoreError(w, err)
		return
	}
	regenerated := 1
	for i := range o.Devices {
		d := &o.Devices[i]
		if err := h.QR.GenerateServiceDevice(d); err != nil {
			logs.Logger.Errorf("regenerate service QR for device %d: %v", d.ID, err)
			continue
		}
		if err := h.Devices.SaveQR(r.Context(), d.ID, d.ServiceQrLink, d.ServiceQrPath); err != nil {
			logs.Logger.Errorf("save service QR for device %d: %v", d.ID, err)
			continue
		}
		regenerated++
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"order_id":    o.ID,
		"regenerated": regenerated,
	})
}

func (h *Handler) servePNG(w http.ResponseWriter, path, fileName string) {
	data, err := h.QR.ReadFile(path)
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "QR Read Failed", err.Error(), nil)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
