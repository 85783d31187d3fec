package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"reportsvc/internal/handler"
	"reportsvc/internal/middleware"
	"reportsvc/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	identitySvc service.IdentityService,
	reportH *handler.ReportHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
	log logrus.FieldLogger,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// Protected routes - require valid JWT
	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(identitySvc))

	reports := v1.Group("/reports")
	reports.POST("", reportH.Create)
	reports.GET("", reportH.List)
	reports.DELETE("", reportH.Delete)
	reports.GET("/partners/:partner_id", reportH.OrdersByPartner)
	reports.GET("/:id", reportH.GetByID)
	reports.PUT("/:id", reportH.Update)

	return r
}
