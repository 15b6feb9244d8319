// internal/profile/routes.go

package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mommatch/mommatch-backend/internal/auth"
)

// PathPrefix is where the profile router is mounted on the root router
const PathPrefix = "/api/v1/profiles"

// NewRouter builds the profile routes. Paths are absolute so the router can be
// mounted under PathPrefix without stripping.
func NewRouter(handler *Handler, authMiddleware *auth.Middleware) http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get(PathPrefix+"/candidates", handler.ListCandidates)
		r.Get(PathPrefix+"/{id}", handler.GetProfile)
	})

	return r
}
