package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"atelier/internal/models"
)

func (h *Handler) AddDevice(w http.ResponseWriter, r *http.Request) {
	var d models.Device
	if err := decode(r, &d); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := h.Devices.Add(r.Context(), &d); err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, d)
}

func (h *Handler) GetDevice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid device id")
		return
	}
	d, err := h.Devices.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) AllDevices(w http.ResponseWriter, r *http.Request) {
	ds, err := h.Devices.All(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, ds)
}

func (h *Handler) DevicesByOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid order id")
		return
	}
	ds, err := h.Devices.ByOrder(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, ds)
}

func (h *Handler) DeviceBySerial(w http.ResponseWriter, r *http.Request) {
	d, err := h.Devices.BySerial(r.Context(), mux.Vars(r)["serial"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) DeviceSerialExists(w http.ResponseWriter, r *http.Request) {
	exists, err := h.Devices.ExistsBySerial(r.Context(), mux.Vars(r)["serial"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, exists)
}

func (h *Handler) UpdateDevice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid device id")
		return
	}
	var patch models.DevicePatch
	if err := decode(r, &patch); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	d, err := h.Devices.Update(r.Context(), id, patch)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) UpdateDeviceStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid device id")
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := decode(r, &body); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	d, err := h.Devices.UpdateStatus(r.Context(), id, body.Status)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) UpdateDeviceAccessories(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid device id")
		return
	}
	var body struct {
		Accessories []string `json:"accessories"`
	}
	if err := decode(r, &body); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	d, err := h.Devices.UpdateAccessories(r.Context(), id, body.Accessories)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, d)
}

// PredefinedAccessories serves the fixed vocabulary for the intake form.
func (h *Handler) PredefinedAccessories(w http.ResponseWriter, _ *http.Request) {
	models.WriteJSON(w, http.StatusOK, models.PredefinedAccessories)
}

func (h *Handler) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid device id")
		return
	}
	if err := h.Devices.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
