package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"atelier/internal/logs"
	"atelier/internal/models"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	u := models.User{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
	}
	if err := h.Users.Register(r.Context(), &u, req.Password); err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, u.Info())
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	u, err := h.Users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	token, err := h.Tokens.Mint(u.Username, u.Role, u.Email, u.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	logs.Logger.Infof("user %s logged in with role %s", u.Username, u.Role)
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"token":    token,
		"username": u.Username,
		"role":     u.Role,
		"email":    u.Email,
		"userId":   u.ID,
		"message":  "Login successful",
	})
}

// Me echoes the claims of the presented token without a database lookup.
// The route sits outside the auth subrouter, so the token is parsed here.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "no token provided", nil)
		return
	}
	p, err := h.Tokens.Parse(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid token", nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"username": p.Username,
		"role":     p.Role,
		"email":    p.Email,
		"userId":   p.UserID,
	})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}
	u, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, u.Info())
}

func (h *Handler) AllUsers(w http.ResponseWriter, r *http.Request) {
	us, err := h.Users.All(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	infos := make([]models.UserInfo, 0, len(us))
	for i := range us {
		infos = append(infos, us[i].Info())
	}
	models.WriteJSON(w, http.StatusOK, infos)
}

func (h *Handler) UserByUsername(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.ByUsername(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, u.Info())
}

func (h *Handler) UserByEmail(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.ByEmail(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, u.Info())
}

func (h *Handler) UsersByRole(w http.ResponseWriter, r *http.Request) {
	us, err := h.Users.ByRole(r.Context(), mux.Vars(r)["role"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	infos := make([]models.UserInfo, 0, len(us))
	for i := range us {
		infos = append(infos, us[i].Info())
	}
	models.WriteJSON(w, http.StatusOK, infos)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}
	var patch models.UserPatch
	if err := decode(r, &patch); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	u, err := h.Users.Update(r.Context(), id, patch)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, u.Info())
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}
	if err := h.Users.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
