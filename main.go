package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Raza-100/medication-management/cache"
	"github.com/Raza-100/medication-management/config"
	"github.com/Raza-100/medication-management/db"
	"github.com/Raza-100/medication-management/handlers"
	"github.com/Raza-100/medication-management/routes"
	"github.com/Raza-100/medication-management/services"
	"github.com/Raza-100/medication-management/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	boot, _ := zap.NewProduction()
	cfg := config.Load(boot)
	boot.Sync()

	utils.InitLogger(cfg.LogFile, cfg.LogLevel)
	defer utils.Logger.Sync()
	utils.InitMetrics()

	utils.Logger.Info("starting_application")

	conn, err := db.Connect(cfg.DB, utils.Logger)
	if err != nil {
		utils.Logger.Fatal("database_connection_failed", zap.Error(err))
	}
	if cfg.DB.AutoMigrate {
		if err := db.Migrate(conn); err != nil {
			utils.Logger.Fatal("migration_failed", zap.Error(err))
		}
		utils.Logger.Info("migration_completed")
	}

	var store routes.Store
	if cfg.Redis.Enabled() {
		client, err := cache.New(cfg.Redis.Addr, cfg.Redis.Password, utils.Logger)
		if err != nil {
			utils.Logger.Warn("redis_disabled", zap.Error(err))
		} else {
			defer client.Close()
			store = client
		}
	}

	tokens := utils.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	h := &handlers.Handler{
		Auth:          services.NewAuthService(conn, tokens),
		Dashboard:     services.NewDashboardService(conn),
		Medications:   services.NewMedicationService(conn),
		Schedules:     services.NewScheduleService(conn),
		Adherence:     services.NewAdherenceService(conn),
		Orders:        services.NewOrderService(conn),
		Conditions:    services.NewHealthConditionService(conn),
		Notifications: services.NewNotificationService(conn),
	}

	sqlDB, err := conn.DB()
	if err != nil {
		utils.Logger.Fatal("database_handle_failed", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	router := routes.SetupRouter(routes.Options{
		Handler:     h,
		Verifier:    tokens,
		Store:       store,
		CacheTTL:    cfg.CacheTTL,
		RateLimit:   cfg.RateLimit,
		RateWindow:  cfg.RateWindow,
		CORSOrigins: cfg.CORSOrigins,
		Ping:        sqlDB.PingContext,
	})

	startServer(router, cfg.Port)

	if err := sqlDB.Close(); err != nil {
		utils.Logger.Warn("database_close_failed", zap.Error(err))
	}
}

func startServer(router *gin.Engine, port string) {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		utils.Logger.Info("starting_http_server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Logger.Fatal("http_server_failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Logger.Info("shutting_down_server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.Error("server_forced_shutdown", zap.Error(err))
		return
	}

	utils.Logger.Info("server_stopped")
}
