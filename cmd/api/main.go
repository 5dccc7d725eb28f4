package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sca-hospital/activos-backend/api/routes"
	"github.com/sca-hospital/activos-backend/internal/assets"
	"github.com/sca-hospital/activos-backend/internal/audit"
	authsvc "github.com/sca-hospital/activos-backend/internal/auth"
	"github.com/sca-hospital/activos-backend/internal/masterdata"
	"github.com/sca-hospital/activos-backend/internal/movements"
	"github.com/sca-hospital/activos-backend/internal/relocation"
	"github.com/sca-hospital/activos-backend/internal/users"
	"github.com/sca-hospital/activos-backend/pkg/auth/session"
	"github.com/sca-hospital/activos-backend/pkg/config"
	"github.com/sca-hospital/activos-backend/pkg/db"
	"github.com/sca-hospital/activos-backend/pkg/logger"
	"github.com/sca-hospital/activos-backend/pkg/metrics"
	"github.com/sca-hospital/activos-backend/pkg/migrate"
	"github.com/sca-hospital/activos-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	relocationMetrics := metrics.NewRelocationMetrics(registry)

	conn := dbClient.DB()
	auditRepo := audit.NewRepository(conn)
	auditTrail, err := audit.NewRecorder(auditRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create audit recorder", err)
		os.Exit(1)
	}

	assetRepo := assets.NewRepository(conn)
	userRepo := users.NewRepository(conn)
	departmentRepo := masterdata.NewDepartmentRepository(conn)
	locationRepo := masterdata.NewLocationRepository(conn)
	typeRepo := masterdata.NewEquipmentTypeRepository(conn)
	statusRepo := masterdata.NewAssetStatusRepository(conn)
	roleRepo := masterdata.NewRoleRepository(conn)
	movementRepo := movements.NewRepository(conn)

	movementService, err := movements.NewService(movementRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create movement service", err)
		os.Exit(1)
	}

	assetService, err := assets.NewService(dbClient, assetRepo, auditTrail)
	if err != nil {
		logg.Error(context.Background(), "failed to create asset service", err)
		os.Exit(1)
	}

	masterService, err := masterdata.NewService(dbClient, departmentRepo, locationRepo, typeRepo, statusRepo, roleRepo, auditTrail)
	if err != nil {
		logg.Error(context.Background(), "failed to create master data service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(dbClient, userRepo, roleRepo, auditTrail, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(userRepo, sessionManager, auditTrail, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	relocationService, err := relocation.NewService(dbClient, assetRepo, locationRepo, movementService, auditTrail, relocationMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create relocation service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:       cfg,
			Logger:       logg,
			DBPinger:     dbClient,
			RedisPinger:  redisClient,
			Sessions:     sessionManager,
			AuthService:  authService,
			UserService:  userService,
			MasterData:   masterService,
			AssetService: assetService,
			Movements:    movementService,
			AuditTrail:   auditTrail,
			Relocation:   relocationService,
			MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{
				EnableOpenMetrics: true,
			}),
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
