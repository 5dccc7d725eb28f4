package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sca-hospital/activos-backend/api/controllers"
	"github.com/sca-hospital/activos-backend/api/middleware"
	"github.com/sca-hospital/activos-backend/internal/assets"
	"github.com/sca-hospital/activos-backend/internal/audit"
	authsvc "github.com/sca-hospital/activos-backend/internal/auth"
	"github.com/sca-hospital/activos-backend/internal/masterdata"
	"github.com/sca-hospital/activos-backend/internal/movements"
	"github.com/sca-hospital/activos-backend/internal/relocation"
	"github.com/sca-hospital/activos-backend/internal/users"
	"github.com/sca-hospital/activos-backend/pkg/auth/session"
	"github.com/sca-hospital/activos-backend/pkg/authz"
	"github.com/sca-hospital/activos-backend/pkg/config"
	"github.com/sca-hospital/activos-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Deps bundles everything the router needs. Grouping them in a struct keeps
// the constructor signature stable as endpoints grow.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DBPinger       pinger
	RedisPinger    pinger
	Sessions       session.AccessSessionChecker
	AuthService    *authsvc.Service
	UserService    users.Service
	MasterData     masterdata.Service
	AssetService   assets.Service
	Movements      movements.Service
	AuditTrail     audit.Recorder
	Relocation     *relocation.Service
	MetricsHandler http.Handler
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisPinger))
	})

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
			r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Get("/me", controllers.UserMe(deps.UserService, logg))

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireResource(authz.ResourceUsers, logg))
			r.Get("/", controllers.UserList(deps.UserService, logg))
			r.Post("/", controllers.UserCreate(deps.UserService, logg))
			r.Get("/{userID}", controllers.UserGet(deps.UserService, logg))
			r.Put("/{userID}", controllers.UserUpdate(deps.UserService, logg))
			r.Delete("/{userID}", controllers.UserDelete(deps.UserService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireResource(authz.ResourceMasterData, logg))

			r.Route("/departments", func(r chi.Router) {
				r.Get("/", controllers.DepartmentList(deps.MasterData, logg))
				r.Post("/", controllers.DepartmentCreate(deps.MasterData, logg))
				r.Put("/{departmentID}", controllers.DepartmentUpdate(deps.MasterData, logg))
				r.Delete("/{departmentID}", controllers.DepartmentDelete(deps.MasterData, logg))
			})
			r.Route("/locations", func(r chi.Router) {
				r.Get("/", controllers.LocationList(deps.MasterData, logg))
				r.Post("/", controllers.LocationCreate(deps.MasterData, logg))
				r.Put("/{locationID}", controllers.LocationUpdate(deps.MasterData, logg))
				r.Delete("/{locationID}", controllers.LocationDelete(deps.MasterData, logg))
			})
			r.Route("/equipment-types", func(r chi.Router) {
				r.Get("/", controllers.EquipmentTypeList(deps.MasterData, logg))
				r.Post("/", controllers.EquipmentTypeCreate(deps.MasterData, logg))
				r.Put("/{typeID}", controllers.EquipmentTypeUpdate(deps.MasterData, logg))
				r.Delete("/{typeID}", controllers.EquipmentTypeDelete(deps.MasterData, logg))
			})
			r.Route("/asset-statuses", func(r chi.Router) {
				r.Get("/", controllers.AssetStatusList(deps.MasterData, logg))
				r.Post("/", controllers.AssetStatusCreate(deps.MasterData, logg))
				r.Put("/{statusID}", controllers.AssetStatusUpdate(deps.MasterData, logg))
				r.Delete("/{statusID}", controllers.AssetStatusDelete(deps.MasterData, logg))
			})
			r.Get("/roles", controllers.RoleList(deps.MasterData, logg))
		})

		r.Route("/assets", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireResource(authz.ResourceAsset, logg))
				r.Get("/", controllers.AssetList(deps.AssetService, logg))
				r.Post("/", controllers.AssetCreate(deps.AssetService, logg))
				r.Get("/{assetID}", controllers.AssetGet(deps.AssetService, logg))
				r.Put("/{assetID}", controllers.AssetUpdate(deps.AssetService, logg))
				r.Delete("/{assetID}", controllers.AssetDelete(deps.AssetService, logg))
				r.Post("/{assetID}/relocate", controllers.AssetRelocate(deps.Relocation, logg))
			})

			r.With(middleware.RequireResource(authz.ResourceMovementLedger, logg)).
				Get("/{assetID}/movements", controllers.MovementListByAsset(deps.Movements, logg))
		})

		r.Route("/movements", func(r chi.Router) {
			r.Use(middleware.RequireResource(authz.ResourceMovementLedger, logg))
			r.Get("/", controllers.MovementList(deps.Movements, logg))
			r.Post("/", controllers.MovementCreate(deps.Movements, logg))
		})

		r.Route("/audit-log", func(r chi.Router) {
			r.Use(middleware.RequireResource(authz.ResourceAuditLog, logg))
			r.Get("/", controllers.AuditList(deps.AuditTrail, logg))
		})
	})

	return r
}
