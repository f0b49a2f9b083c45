// Package httpapi exposes the server's services over a chi router.
// All endpoints speak JSON; everything except /health and /auth/* requires
// a Bearer token, and /users additionally requires the ADMIN role.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wtg/vaultsync/internal/logging"
	"github.com/wtg/vaultsync/internal/server/audit"
	"github.com/wtg/vaultsync/internal/server/credentials"
	"github.com/wtg/vaultsync/internal/server/customers"
	"github.com/wtg/vaultsync/internal/server/sync"
	"github.com/wtg/vaultsync/internal/server/users"
)

type API struct {
	users       *users.Service
	customers   *customers.Service
	credentials *credentials.Service
	audit       *audit.Service
	sync        *sync.Service
	secretKey   []byte
	logger      logging.Logger
}

func NewAPI(userSvc *users.Service, customerSvc *customers.Service, credentialSvc *credentials.Service,
	auditSvc *audit.Service, syncSvc *sync.Service, secretKey []byte, logger logging.Logger) *API {
	return &API{
		users:       userSvc,
		customers:   customerSvc,
		credentials: credentialSvc,
		audit:       auditSvc,
		sync:        syncSvc,
		secretKey:   secretKey,
		logger:      logger,
	}
}

// Router builds the full route tree.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", a.handleHealth)
	r.Post("/auth/bootstrap", a.handleBootstrap)
	r.Post("/auth/login", a.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(a.requireAuth)

		r.Route("/users", func(r chi.Router) {
			r.Use(a.requireAdmin)
			r.Get("/", a.handleListUsers)
			r.Post("/", a.handleCreateUser)
			r.Patch("/{id}", a.handleUpdateUser)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", a.handleListCustomers)
			r.Post("/", a.handleCreateCustomer)
			r.Patch("/{id}", a.handleUpdateCustomer)
			r.Delete("/{id}", a.handleDeleteCustomer)
		})

		r.Route("/credentials", func(r chi.Router) {
			r.Get("/", a.handleListCredentials)
			r.Post("/", a.handleCreateCredential)
			r.Patch("/{id}", a.handleUpdateCredential)
			r.Delete("/{id}", a.handleDeleteCredential)
		})

		r.Get("/audit", a.handleListAudit)
		r.Get("/sync/pull", a.handlePull)
		r.Post("/sync/push", a.handlePush)
	})

	return r
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
