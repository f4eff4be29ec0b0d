package api

import (
	"net/http"

	"atelier/internal/models"
)

func (h *Handler) AddDocument(w http.ResponseWriter, r *http.Request) {
	var d models.OrderDocument
	if err := decode(r, &d); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := h.Documents.Add(r.Context(), &d); err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, d)
}

func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid document id")
		return
	}
	d, err := h.Documents.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) AllDocuments(w http.ResponseWriter, r *http.Request) {
	ds, err := h.Documents.All(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, ds)
}

func (h *Handler) DocumentsByOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid order id")
		return
	}
	ds, err := h.Documents.ByOrder(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, ds)
}

func (h *Handler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid document id")
		return
	}
	var patch models.OrderDocumentPatch
	if err := decode(r, &patch); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	d, err := h.Documents.Update(r.Context(), id, patch)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid document id")
		return
	}
	if err := h.Documents.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
