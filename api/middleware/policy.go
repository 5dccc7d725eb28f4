package middleware

import (
	"net/http"

	"github.com/sca-hospital/activos-backend/api/responses"
	"github.com/sca-hospital/activos-backend/pkg/authz"
	pkgerrors "github.com/sca-hospital/activos-backend/pkg/errors"
	"github.com/sca-hospital/activos-backend/pkg/logger"
)

// RequireResource gates a route subtree on the role matrix. The verb is
// derived from the HTTP method, so one guard per resource class covers all
// of its operations. Denials return 403 with no hint about which rule fired.
func RequireResource(resource authz.Resource, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := ActorFromContext(r.Context())
			verb := authz.VerbForMethod(r.Method)
			if !authz.Authorize(actor, verb, resource) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
