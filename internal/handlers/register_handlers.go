package handlers

import (
	"github.com/exchangehouse/exchange_house_app/cmd/docs"
	portssvc "github.com/exchangehouse/exchange_house_app/internal/core/ports/services"
	"github.com/exchangehouse/exchange_house_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Liveness and root routes
	registerHomeRoutes(r)

	// API v1 routes
	setupAPIV1Routes(r, services)

	// Swagger routes (not exposed in production)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")

	registerExchangeRateRoutes(v1, services.ExchangeRate)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
