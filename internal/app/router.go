package app

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/kachaniabdellah86/ficam-festival-app/docs"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/config"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/middleware"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/model"
	"github.com/kachaniabdellah86/ficam-festival-app/pkg/monitoring"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// Participant routes
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/user/profile", c.user.UpdateProfile)
		authGroup.POST("/user/avatar", c.user.UploadAvatar)

		authGroup.GET("/activities", c.activity.ListActivities)
		authGroup.POST("/scan", c.scan.Validate)
		authGroup.GET("/progress", c.progress.GetProgress)
		authGroup.GET("/certificate", c.progress.GetCertificate)
	}

	// Admin routes
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/overview", c.admin.GetOverview)
		admin.GET("/leaderboard", c.admin.GetLeaderboard)
		admin.POST("/assign", c.admin.ManualAssign)

		admin.POST("/activities", c.activity.CreateActivity)
		admin.PUT("/activities/:id", c.activity.UpdateActivity)
		admin.DELETE("/activities/:id", c.activity.DeleteActivity)

		admin.POST("/users/:id/reset-password", c.admin.ResetPassword)
		admin.PATCH("/users/:id/disable", c.admin.DisableUser)
		admin.DELETE("/users/:id", c.admin.DeleteUser)
	}
}
