// Package router registers the HTTP surface on a gin engine.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/library-seat-api/internal/handler"
	"github.com/noah-isme/library-seat-api/internal/middleware"
	"github.com/noah-isme/library-seat-api/internal/models"
	"github.com/noah-isme/library-seat-api/internal/service"
	"github.com/noah-isme/library-seat-api/pkg/config"
	"github.com/noah-isme/library-seat-api/pkg/logger"
	"github.com/noah-isme/library-seat-api/pkg/middleware/cors"
	"github.com/noah-isme/library-seat-api/pkg/middleware/requestid"
)

// Dependencies holds everything the routes are wired to.
type Dependencies struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *service.MetricsService
	CORS    *cors.Policy

	Projections *handler.ProjectionHandler
	Bookings    *handler.BookingHandler
	Export      *handler.ExportHandler
	Auth        *handler.AuthHandler
	Probes      *handler.MetricsHandler
	// Realtime serves the websocket push channel.
	Realtime http.Handler

	Tokens  middleware.TokenValidator
	Limiter middleware.Limiter
}

// New builds the engine with global middleware and every route.
func New(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	policy := deps.CORS
	if policy == nil {
		policy = cors.NewPolicy(cfg.CORS.AllowedOrigins)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(middleware.Metrics(deps.Metrics, "/ws", "/metrics"))
	r.Use(policy.Middleware())

	r.GET("/health", deps.Probes.Health)
	r.GET("/ready", deps.Probes.Ready)
	r.GET("/metrics", deps.Probes.Prometheus)
	if deps.Realtime != nil {
		r.GET("/ws", gin.WrapH(deps.Realtime))
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	limit := middleware.RateLimit(deps.Limiter, cfg.RateLimit, log)
	admin := middleware.Guard(cfg.Auth.Enabled, deps.Tokens, models.RoleAdmin)

	api := r.Group(cfg.APIPrefix)
	api.GET("/seats", deps.Projections.Seats)
	api.GET("/shifts", deps.Projections.Shifts)
	api.GET("/students", deps.Projections.Students)
	api.GET("/bookings", deps.Projections.Bookings)
	api.GET("/bookings/export", deps.Export.Roster)
	api.GET("/stats", deps.Projections.Stats)

	api.POST("/admin/login", limit, deps.Auth.Login)
	api.POST("/book-seat", limit, deps.Bookings.BookSeat)
	api.POST("/cancel-booking", limit, deps.Bookings.CancelBooking)

	guarded := api.Group("", admin...)
	guarded.POST("/add-shift", limit, deps.Bookings.AddShift)
	guarded.POST("/delete-shift", limit, deps.Bookings.DeleteShift)
	guarded.POST("/add-seat", limit, deps.Bookings.AddSeat)
	guarded.POST("/delete-seat", limit, deps.Bookings.DeleteSeat)

	return r
}
