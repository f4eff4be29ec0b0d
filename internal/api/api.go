package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"atelier/internal/auth"
	"atelier/internal/models"
	"atelier/internal/notify"
	"atelier/internal/qr"
	"atelier/internal/repo"
)

// Handler bundles the stores and services behind the REST surface. The
// handlers stay thin: decode, call the store, map the error, encode.
type Handler struct {
	Clients       *repo.ClientStore
	Orders        *repo.OrderStore
	Devices       *repo.DeviceStore
	Users         *repo.UserStore
	Logs          *repo.LogStore
	Documents     *repo.DocumentStore
	Notifications *repo.NotificationStore
	Dashboard     *repo.DashboardStore

	QR       *qr.Service
	WhatsApp *notify.WhatsAppSender
	Tokens   *auth.Tokens
}

func pathID(r *http.Request, name string) (uint, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeBadRequest(w http.ResponseWriter, detail string) {
	models.WriteProblem(w, http.StatusBadRequest, "Bad Request", detail, nil)
}

// writeStoreError maps store sentinels onto problem responses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		models.WriteProblem(w, http.StatusNotFound, "Not Found", err.Error(), nil)
	case errors.Is(err, repo.ErrConflict):
		models.WriteProblem(w, http.StatusConflict, "Conflict", err.Error(), nil)
	case errors.Is(err, repo.ErrInvalidStatus),
		errors.Is(err, repo.ErrInvalidState),
		errors.Is(err, repo.ErrValidation):
		writeBadRequest(w, err.Error())
	case errors.Is(err, repo.ErrBadCredentials):
		models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error(), nil)
	default:
		models.WriteProblem(w, http.StatusInternalServerError,
			"Internal Server Error", err.Error(), nil)
	}
}

// pageQuery reads the shared pagination/sort parameters.
func pageQuery(r *http.Request) repo.PageQuery {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	if size == 0 {
		size = 10
	}
	sortBy := q.Get("sortBy")
	if sortBy == "" {
		sortBy = "id"
	}
	sortDir := q.Get("sortDir")
	return repo.PageQuery{Page: page, Size: size, SortBy: sortBy, SortDir: sortDir}
}
