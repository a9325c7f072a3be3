package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orange-studies/portal-service/internal/auth"
	"github.com/orange-studies/portal-service/internal/config"
	"github.com/orange-studies/portal-service/internal/repositories"
	"github.com/orange-studies/portal-service/internal/services"
	"github.com/orange-studies/portal-service/internal/storage"
	"github.com/orange-studies/portal-service/internal/utils"
)

type HandlerManager struct {
	authHandler        *AuthHandler
	applicationHandler *ApplicationHandler
	documentHandler    *DocumentHandler
	adminHandler       *AdminHandler
	catalogHandler     *CatalogHandler
	leadHandler        *LeadHandler
	uploadHandler      *UploadHandler

	tokens *auth.TokenManager
	repo   repositories.Repository
	logger utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	tokens *auth.TokenManager,
	repo repositories.Repository,
	uploader storage.Uploader,
	cfg *config.Config,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:        NewAuthHandler(serviceManager.Auth(), logger),
		applicationHandler: NewApplicationHandler(serviceManager.Application(), logger),
		documentHandler:    NewDocumentHandler(serviceManager.Document(), logger),
		adminHandler:       NewAdminHandler(serviceManager.AdminUser(), serviceManager.Settings(), serviceManager.Export(), logger),
		catalogHandler:     NewCatalogHandler(serviceManager.Catalog(), logger),
		leadHandler:        NewLeadHandler(serviceManager.Lead(), logger),
		uploadHandler:      NewUploadHandler(uploader, cfg, logger),
		tokens:             tokens,
		repo:               repo,
		logger:             logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "portal-service",
		})
	})

	authRequired := AuthMiddleware(hm.tokens, hm.repo, hm.logger)

	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", hm.authHandler.Register)
			authGroup.POST("/login", hm.authHandler.Login)
			authGroup.POST("/verify-email", hm.authHandler.VerifyEmail)
			authGroup.POST("/resend-otp", hm.authHandler.ResendOtp)
			authGroup.POST("/forgot-password", hm.authHandler.ForgotPassword)
			authGroup.POST("/reset-password", hm.authHandler.ResetPassword)
		}

		// Public catalog reads
		v1.GET("/countries", hm.catalogHandler.ListCountries)
		v1.GET("/universities", hm.catalogHandler.ListUniversities)
		v1.GET("/universities/:slug", hm.catalogHandler.GetUniversity)
		v1.GET("/programs", hm.catalogHandler.ListPrograms)
		v1.GET("/programs/:slug", hm.catalogHandler.GetProgram)

		// Public contact form
		v1.POST("/leads", hm.leadHandler.Create)

		// Authenticated routes
		me := v1.Group("", authRequired)
		{
			me.GET("/me", hm.authHandler.GetProfile)
			me.PUT("/me", hm.authHandler.UpdateProfile)
			me.PUT("/me/password", hm.authHandler.ChangePassword)

			me.POST("/applications", hm.applicationHandler.Submit)
			me.GET("/applications/mine", hm.applicationHandler.ListMine)
			me.GET("/applications/:id", hm.applicationHandler.Get)

			me.GET("/documents/mine", hm.documentHandler.ListMine)
			me.POST("/documents/:id/reupload", hm.documentHandler.Reupload)

			me.POST("/uploads", hm.uploadHandler.Upload)
		}

		// Admin panel (ADMIN or MANAGER at the gate; ADMIN-only operations
		// enforced again inside the services)
		admin := v1.Group("/admin", authRequired, AdminGateMiddleware())
		{
			admin.GET("/applications", hm.applicationHandler.List)
			admin.PUT("/applications/:id/status", hm.applicationHandler.UpdateStatus)
			admin.GET("/applications/:id/audit", hm.applicationHandler.GetAuditTrail)

			admin.POST("/documents/:id/request-reupload", hm.documentHandler.RequestReupload)
			admin.POST("/documents/:id/verify", hm.documentHandler.Verify)
			admin.DELETE("/documents/:id", hm.documentHandler.Delete)

			admin.GET("/users", hm.adminHandler.ListUsers)
			admin.POST("/users", hm.adminHandler.CreateStaffAccount)
			admin.PUT("/users/:id/role", hm.adminHandler.ChangeRole)
			admin.DELETE("/users/:id", hm.adminHandler.DeleteUser)

			admin.POST("/countries", hm.catalogHandler.CreateCountry)
			admin.PUT("/countries/:id", hm.catalogHandler.UpdateCountry)
			admin.DELETE("/countries/:id", hm.catalogHandler.DeleteCountry)
			admin.POST("/universities", hm.catalogHandler.CreateUniversity)
			admin.PUT("/universities/:id", hm.catalogHandler.UpdateUniversity)
			admin.DELETE("/universities/:id", hm.catalogHandler.DeleteUniversity)
			admin.POST("/programs", hm.catalogHandler.CreateProgram)
			admin.PUT("/programs/:id", hm.catalogHandler.UpdateProgram)
			admin.DELETE("/programs/:id", hm.catalogHandler.DeleteProgram)

			admin.GET("/leads", hm.leadHandler.List)
			admin.PUT("/leads/:id/handled", hm.leadHandler.MarkHandled)

			admin.GET("/settings", hm.adminHandler.GetSettings)
			admin.PUT("/settings", hm.adminHandler.UpdateSettings)

			admin.GET("/exports/applications", hm.adminHandler.ExportApplications)
			admin.GET("/exports/leads", hm.adminHandler.ExportLeads)
		}
	}
}
