package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wtg/vaultsync/internal/server/models"
	"github.com/wtg/vaultsync/internal/server/users"
)

type credentialsBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type sessionBody struct {
	Token string      `json:"token"`
	User  sessionUser `json:"user"`
}

func toSessionBody(s users.Session) sessionBody {
	return sessionBody{
		Token: s.Token,
		User:  sessionUser{ID: s.User.ID, Username: s.User.Username, Role: string(s.User.Role)},
	}
}

func (a *API) handleBootstrap(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := decodeBody(r, &body); err != nil {
		a.writeError(w, r, err)
		return
	}
	sess, err := a.users.Bootstrap(r.Context(), body.Username, body.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionBody(sess))
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := decodeBody(r, &body); err != nil {
		a.writeError(w, r, err)
		return
	}
	sess, err := a.users.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionBody(sess))
}

func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := a.users.List(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []models.User{}
	}
	writeJSON(w, http.StatusOK, map[string][]models.User{"users": list})
}

func (a *API) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in users.CreateInput
	if err := decodeBody(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	u, err := a.users.Create(r.Context(), in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]models.User{"user": u})
}

func (a *API) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var in users.UpdateInput
	if err := decodeBody(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	u, err := a.users.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]models.User{"user": u})
}
