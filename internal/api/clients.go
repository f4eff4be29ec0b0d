package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"atelier/internal/models"
)

func (h *Handler) AddClient(w http.ResponseWriter, r *http.Request) {
	var c models.Client
	if err := decode(r, &c); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := h.Clients.Add(r.Context(), &c); err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid client id")
		return
	}
	c, err := h.Clients.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) AllClients(w http.ResponseWriter, r *http.Request) {
	cs, err := h.Clients.All(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, cs)
}

func (h *Handler) ClientCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.Clients.Count(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, n)
}

func (h *Handler) FilterClients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.Clients.Filter(r.Context(), q.Get("searchTerm"), q.Get("type"), pageQuery(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) ClientsByType(w http.ResponseWriter, r *http.Request) {
	cs, err := h.Clients.ByType(r.Context(), mux.Vars(r)["type"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, cs)
}

func (h *Handler) ClientByEmail(w http.ResponseWriter, r *http.Request) {
	c, err := h.Clients.ByEmail(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) ClientByCUI(w http.ResponseWriter, r *http.Request) {
	c, err := h.Clients.ByCUI(r.Context(), mux.Vars(r)["cui"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid client id")
		return
	}
	var patch models.ClientPatch
	if err := decode(r, &patch); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	c, err := h.Clients.Update(r.Context(), id, patch)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid client id")
		return
	}
	if err := h.Clients.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
