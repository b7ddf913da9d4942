// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/foliostack/foliostack-go/internal/application/container"
	"github.com/foliostack/foliostack-go/internal/presentation/http/handlers"
	"github.com/foliostack/foliostack-go/internal/presentation/http/middleware"
	"github.com/foliostack/foliostack-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Processed project images are served straight from disk.
	r.Static(config.MediaBaseURL, config.MediaPath)

	// Initialize handlers
	portfolioHandlers := handlers.NewPortfolioHandlers(container.Aggregator, container.Logger)
	contactHandlers := handlers.NewContactHandlers(container.MessageRepo, container.EmailService, container.Logger)
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger)
	messageHandlers := handlers.NewMessageHandlers(container.Inbox, container.Logger)
	uploadHandlers := handlers.NewUploadHandlers(container.ImageProcessor, container.Logger)
	sessionFeedHandlers := handlers.NewSessionFeedHandlers(container.AuthService, container.Broadcaster, container.Logger)

	projectHandlers := handlers.NewEntityHandlers(container.ProjectManager, "project", container.Logger)
	experienceHandlers := handlers.NewEntityHandlers(container.ExperienceManager, "experience", container.Logger)
	educationHandlers := handlers.NewEntityHandlers(container.EducationManager, "education", container.Logger)
	skillHandlers := handlers.NewEntityHandlers(container.SkillManager, "skill", container.Logger)
	socialHandlers := handlers.NewEntityHandlers(container.SocialManager, "social", container.Logger)

	// Public routes
	api := r.Group("/api/v1")
	{
		api.GET("/portfolio", portfolioHandlers.GetPortfolio)
		api.POST("/contact", contactHandlers.Submit)
		api.POST("/auth/login", authHandlers.Login)
		api.GET("/auth/session", authHandlers.GetSession)
	}

	// The websocket feed performs its own guard-based session check.
	r.GET("/api/v1/admin/session/feed", sessionFeedHandlers.Stream)

	// Admin routes behind the session gate
	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(container.AuthService))
	{
		admin.POST("/auth/logout", authHandlers.Logout)
		admin.POST("/auth/refresh", authHandlers.Refresh)
		admin.POST("/upload", uploadHandlers.UploadProjectImage)

		admin.GET("/messages", messageHandlers.List)
		admin.POST("/messages/:id/view", messageHandlers.View)
		admin.DELETE("/messages/:id", messageHandlers.Delete)

		projectHandlers.Register(admin.Group("/projects"))
		experienceHandlers.Register(admin.Group("/experiences"))
		educationHandlers.Register(admin.Group("/education"))
		skillHandlers.Register(admin.Group("/skills"))
		socialHandlers.Register(admin.Group("/socials"))
	}

	return r
}
