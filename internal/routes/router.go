package routes

import (
	"net/http"

	accounthandler "npl-dashboard/internal/account/handler"
	accountrepo "npl-dashboard/internal/account/repository"
	accountservice "npl-dashboard/internal/account/service"
	"npl-dashboard/internal/config"
	"npl-dashboard/internal/database"
	"npl-dashboard/internal/geo"
	"npl-dashboard/internal/logger"
	"npl-dashboard/internal/mailer"
	"npl-dashboard/internal/middleware"
	"npl-dashboard/internal/obs"
	"npl-dashboard/internal/region"
	tracthandler "npl-dashboard/internal/tract/handler"
	tractrepo "npl-dashboard/internal/tract/repository"
	tractservice "npl-dashboard/internal/tract/service"

	"github.com/gin-gonic/gin"
)

// Services groups what the router wires up, so the caller can own the
// lifecycle of background jobs.
type Services struct {
	Accounts *accountservice.AccountService
	Tracts   *tractservice.TractService
}

func SetupRoutes(cfg *config.Config, db *database.Database, index *geo.Index, m mailer.Mailer) (*gin.Engine, *Services) {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))
	router.Use(obs.Instrument())

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})
	router.GET("/metrics", obs.Handler())

	accountRepository := accountrepo.NewRepository(db)
	accountService := accountservice.NewService(accountRepository, m, cfg)
	accountHandler := accounthandler.NewHandler(accountService)

	tractRepository := tractrepo.NewRepository(db)
	tractService := tractservice.NewService(db, tractRepository, accountRepository, m, cfg)
	tractHandler := tracthandler.NewHandler(tractService)

	regionService := region.NewService(index, tractRepository)
	regionHandler := region.NewHandler(regionService)

	api := router.Group("/api")
	{
		accountHandler.RegisterPublicRoutes(api)
		tractHandler.RegisterPublicRoutes(api)
		regionHandler.RegisterRoutes(api)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			accountHandler.RegisterProtectedRoutes(protected)

			// Account creation: state or county, scope narrowed in the service.
			registrar := protected.Group("")
			registrar.Use(middleware.StateOrCounty())
			{
				registrar.POST("/register", accountHandler.Register)
			}

			// Tract metrics writes: any coordinator scope, narrowed in the service.
			editors := protected.Group("")
			editors.Use(middleware.AnyCoordinatorScope())
			{
				editors.POST("/tract/update", tractHandler.UpdateTract)
			}

			// County coordinator assignment: state only.
			state := protected.Group("")
			state.Use(middleware.StateOnly())
			{
				state.POST("/county/assign-coordinator", tractHandler.AssignCountyCoordinator)
			}
		}
	}

	logger.Info("All routes initialized")
	return router, &Services{Accounts: accountService, Tracts: tractService}
}
