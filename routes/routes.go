package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/Raza-100/medication-management/handlers"
	"github.com/Raza-100/medication-management/middleware"
	"github.com/Raza-100/medication-management/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Store backs the response cache and the auth rate limiter.
type Store interface {
	middleware.ResponseStore
	middleware.Counter
}

type Options struct {
	Handler  *handlers.Handler
	Verifier middleware.TokenVerifier

	// Store is nil when redis is not configured; caching and rate limiting
	// are then skipped.
	Store      Store
	CacheTTL   time.Duration
	RateLimit  int
	RateWindow time.Duration

	CORSOrigins []string

	// Ping reports database reachability for /health. Optional.
	Ping func(ctx context.Context) error
}

func SetupRouter(opts Options) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	r.GET("/health", healthHandler(opts.Ping))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := opts.Handler

	auth := r.Group("/api/auth")
	if opts.Store != nil && opts.RateLimit > 0 {
		auth.Use(middleware.RateLimitMiddleware(opts.Store, opts.RateLimit, opts.RateWindow))
	}
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(opts.Verifier))
	if opts.Store != nil {
		api.Use(middleware.InvalidateOnWrite(opts.Store))
		api.Use(middleware.CacheMiddleware(opts.Store, opts.CacheTTL))
	}
	{
		api.GET("/dashboard", h.GetDashboard)

		api.GET("/medications", h.ListMedications)
		api.GET("/medications/:id", h.GetMedication)
		api.POST("/medications", h.CreateMedication)
		api.PATCH("/medications/:id/stock", h.UpdateStock)

		api.GET("/schedules/today", h.ListTodaySchedules)
		api.POST("/schedules", h.CreateSchedule)

		api.POST("/adherence", h.LogDose)
		api.GET("/adherence/history", h.AdherenceHistory)
		api.GET("/adherence/stats", h.AdherenceStats)

		api.GET("/orders", h.ListOrders)
		api.POST("/orders", h.CreateOrder)
		api.PATCH("/orders/:id/status", h.UpdateOrderStatus)

		api.GET("/health-conditions", h.ListHealthConditions)
		api.POST("/health-conditions", h.CreateHealthCondition)

		api.GET("/notifications", h.ListNotifications)
		api.PATCH("/notifications/:id/read", h.MarkNotificationRead)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "X-Cache"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func healthHandler(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"database":  "connected",
		}
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				utils.Logger.Warn("health_database_unreachable", zap.Error(err))
				body["status"] = "degraded"
				body["database"] = "unreachable"
				c.JSON(http.StatusServiceUnavailable, body)
				return
			}
		}
		c.JSON(http.StatusOK, body)
	}
}
