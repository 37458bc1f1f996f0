package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/finbooks/bookkeeping_app/cmd/docs"
	"github.com/finbooks/bookkeeping_app/internal/middleware"
	"github.com/finbooks/bookkeeping_app/pkg/config"

	portssvc "github.com/finbooks/bookkeeping_app/internal/core/ports/services"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Public authentication routes
	registerAuthRoutes(r, cfg, services.User)

	// Company-scoped API behind JWT auth
	setupAPIV1Routes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the entity
// route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	v1.GET("/example/helloworld", GetHome)

	registerUserRoutes(v1, cfg, services.User)

	company := v1.Group("/companies/:companyID")
	registerAccountRoutes(company, services.Account)
	registerJournalRoutes(company, services.Journal)
	registerReconciliationRoutes(company, services.Reconciliation)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
