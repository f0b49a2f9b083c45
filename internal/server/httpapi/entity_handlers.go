package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/wtg/vaultsync/internal/common"
	"github.com/wtg/vaultsync/internal/server/credentials"
	"github.com/wtg/vaultsync/internal/server/customers"
	"github.com/wtg/vaultsync/internal/server/models"
	"github.com/wtg/vaultsync/internal/server/sync"
)

func (a *API) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	list, err := a.customers.List(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Customer{}
	}
	writeJSON(w, http.StatusOK, map[string][]models.Customer{"customers": list})
}

func (a *API) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var in customers.Input
	if err := decodeBody(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	c, err := a.customers.Create(r.Context(), in, UserID(r.Context()))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]models.Customer{"customer": c})
}

func (a *API) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var in customers.Input
	if err := decodeBody(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	c, err := a.customers.Update(r.Context(), chi.URLParam(r, "id"), in, UserID(r.Context()))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]models.Customer{"customer": c})
}

func (a *API) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := a.customers.Delete(r.Context(), chi.URLParam(r, "id"), UserID(r.Context()))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]models.Customer{"customer": c})
}

func (a *API) handleListCredentials(w http.ResponseWriter, r *http.Request) {
	list, err := a.credentials.List(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Credential{}
	}
	writeJSON(w, http.StatusOK, map[string][]models.Credential{"credentials": list})
}

func (a *API) handleCreateCredential(w http.ResponseWriter, r *http.Request) {
	var in credentials.Input
	if err := decodeBody(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	c, err := a.credentials.Create(r.Context(), in, UserID(r.Context()))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]models.Credential{"credential": c})
}

func (a *API) handleUpdateCredential(w http.ResponseWriter, r *http.Request) {
	var in credentials.Input
	if err := decodeBody(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	c, err := a.credentials.Update(r.Context(), chi.URLParam(r, "id"), in, UserID(r.Context()))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]models.Credential{"credential": c})
}

func (a *API) handleDeleteCredential(w http.ResponseWriter, r *http.Request) {
	c, err := a.credentials.Delete(r.Context(), chi.URLParam(r, "id"), UserID(r.Context()))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]models.Credential{"credential": c})
}

func (a *API) handleListAudit(w http.ResponseWriter, r *http.Request) {
	logs, err := a.audit.List(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	writeJSON(w, http.StatusOK, map[string][]models.AuditLog{"logs": logs})
}

func (a *API) handlePull(w http.ResponseWriter, r *http.Request) {
	since := int64(0)
	if raw := r.URL.Query().Get("since"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			a.writeError(w, r, fmt.Errorf("%w: since must be a unix millisecond timestamp", common.ErrValidation))
			return
		}
		since = v
	}
	resp, err := a.sync.Pull(r.Context(), since)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handlePush(w http.ResponseWriter, r *http.Request) {
	var req sync.PushRequest
	if err := decodeBody(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	resp, err := a.sync.Push(r.Context(), req, UserID(r.Context()))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
