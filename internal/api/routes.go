package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reviewdesk-backend-go/internal/core"
	"reviewdesk-backend-go/internal/middleware"
	"reviewdesk-backend-go/internal/observability"
)

// Services bundles the core services the router exposes.
type Services struct {
	Sessions core.SessionService
	Accounts core.AccountService
	Links    core.LinkService
	Reviews  core.ReviewService
	Careers  core.CareerService
	Settings core.SettingsService
	Admin    core.AdminService
}

// SetupRoutes registers every endpoint. Global middleware (logging, recovery, CORS)
// is expected to be applied to router by the caller. metrics may be nil.
func SetupRoutes(
	router *gin.Engine,
	svc Services,
	authMW *middleware.AuthMiddleware,
	metrics *observability.Metrics,
	logger *zap.Logger,
) {
	authHandler := NewAuthHandler(svc.Sessions, svc.Accounts, logger)
	userHandler := NewUserHandler(svc.Accounts, logger)
	linkHandler := NewLinkHandler(svc.Links, logger)
	reviewHandler := NewReviewHandler(svc.Reviews, logger)
	careerHandler := NewCareerHandler(svc.Careers, logger)
	settingsHandler := NewSettingsHandler(svc.Settings, logger)
	adminHandler := NewAdminHandler(svc.Admin, logger)

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/password-reset", authHandler.PasswordReset)
		}

		public := apiV1.Group("/public")
		{
			public.GET("/settings/:name", settingsHandler.GetSettings)
			public.GET("/home", settingsHandler.GetHome)
			public.GET("/jobs", careerHandler.ListOpenJobs)
			public.POST("/jobs/:jobId/applications", careerHandler.Apply)
			public.GET("/links/:uid/:slug", linkHandler.ResolveLink)
		}

		authed := apiV1.Group("", authMW.VerifyToken())
		{
			// Sign-in and sign-out run their own entitlement checks.
			authed.POST("/sessions", authHandler.CreateSession)
			authed.DELETE("/sessions", authHandler.DeleteSession)
		}

		entitled := apiV1.Group("", authMW.VerifyToken(), authMW.RequireEntitlement())
		{
			entitled.GET("/sessions/history", authHandler.History)

			entitled.GET("/me", userHandler.GetCurrentUserProfile)
			entitled.GET("/me/route", userHandler.GetRoute)
			entitled.PUT("/me/business", userHandler.SubmitBusinessInfo)
			entitled.POST("/me/location", authHandler.UpdateLocation)

			entitled.POST("/links", linkHandler.CreateLink)
			entitled.GET("/links", linkHandler.ListLinks)
			entitled.DELETE("/links/:slug", linkHandler.DeactivateLink)

			entitled.POST("/reviews/sync", reviewHandler.SyncReviews)
			entitled.GET("/reviews", reviewHandler.ListReviews)
		}

		admin := apiV1.Group("/admin", authMW.VerifyToken(), authMW.RequireEntitlement(), authMW.RequireAdmin())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/stats", adminHandler.Stats)
			admin.PUT("/users/:uid/status", adminHandler.SetStatus)
			admin.PUT("/users/:uid/subscription", adminHandler.SetSubscription)

			admin.PUT("/settings/:name", settingsHandler.UpdateSettings)
			admin.DELETE("/settings/:name", settingsHandler.ResetSettings)

			admin.GET("/jobs", careerHandler.ListAllJobs)
			admin.POST("/jobs", careerHandler.CreateJob)
			admin.PUT("/jobs/:jobId", careerHandler.UpdateJob)
			admin.DELETE("/jobs/:jobId", careerHandler.DeleteJob)

			admin.GET("/applications", careerHandler.ListApplications)
			admin.PUT("/applications/:id/status", careerHandler.UpdateApplicationStatus)
			admin.POST("/applications/:id/replies", careerHandler.Reply)
			admin.GET("/applications/:id/replies", careerHandler.ListReplies)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Reviewdesk backend is healthy."})
	})
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	logger.Info("API routes configured under /api/v1, /health and /metrics.")
}
