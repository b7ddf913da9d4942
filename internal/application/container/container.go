// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/foliostack/foliostack-go/internal/application/services"
	entcontent "github.com/foliostack/foliostack-go/internal/domain/entities/content"
	"github.com/foliostack/foliostack-go/internal/domain/repositories"
	"github.com/foliostack/foliostack-go/internal/infrastructure/database"
	"github.com/foliostack/foliostack-go/internal/infrastructure/email"
	"github.com/foliostack/foliostack-go/internal/infrastructure/media"
	"github.com/foliostack/foliostack-go/internal/infrastructure/messaging"
	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
	perscontent "github.com/foliostack/foliostack-go/internal/infrastructure/persistence/content"
	persinbox "github.com/foliostack/foliostack-go/internal/infrastructure/persistence/inbox"
	"github.com/foliostack/foliostack-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Content services
	Aggregator        *services.ContentAggregator
	ProjectManager    *services.Manager[entcontent.Project, services.ProjectForm]
	ExperienceManager *services.Manager[entcontent.Experience, services.ExperienceForm]
	EducationManager  *services.Manager[entcontent.Education, services.EducationForm]
	SkillManager      *services.Manager[entcontent.Skill, services.SkillForm]
	SocialManager     *services.Manager[entcontent.Social, services.SocialForm]
	Inbox             *services.Inbox

	// Auth
	AuthService *services.AuthService
	Broadcaster *messaging.SessionBroadcaster

	// Infrastructure
	Logger         *logging.ChanneledLogger
	DB             *database.Database
	MessageRepo    repositories.MessageRepository
	EmailService   email.Service
	ImageProcessor *media.ImageProcessor
}

// NewContainer creates and wires all singleton services
func NewContainer(db *database.Database, logger *logging.ChanneledLogger) *Container {
	projectRepo := perscontent.NewProjectRepository(db.Conn, logger)
	experienceRepo := perscontent.NewExperienceRepository(db.Conn, logger)
	educationRepo := perscontent.NewEducationRepository(db.Conn, logger)
	skillRepo := perscontent.NewSkillRepository(db.Conn, logger)
	socialRepo := perscontent.NewSocialRepository(db.Conn, logger)
	messageRepo := persinbox.NewMessageRepository(db.Conn, logger)

	authService := services.NewAuthService(config.JWTSecret, config.AdminPassword, config.SessionTTL, logger)
	broadcaster := messaging.NewSessionBroadcaster(logger)

	// Relay session lifecycle events to connected admin clients. The handle
	// lives as long as the process; there is nothing to unsubscribe.
	authService.OnSessionChange(func(event services.SessionEvent) {
		role := ""
		if event.Session != nil {
			role = event.Session.Role
		}
		broadcaster.Broadcast(event.Type, role)
	})

	var emailService email.Service
	if config.ContactNotifyEnabled {
		svc, err := email.NewService()
		if err != nil {
			logger.Email().Warn("Contact notifications disabled", "error", err.Error())
		} else {
			emailService = svc
		}
	}

	return &Container{
		Aggregator: services.NewContentAggregator(
			projectRepo, experienceRepo, educationRepo, skillRepo, socialRepo, logger),
		ProjectManager:    services.NewManager[entcontent.Project, services.ProjectForm](projectRepo, services.ProjectCodec{}, "project", logger),
		ExperienceManager: services.NewManager[entcontent.Experience, services.ExperienceForm](experienceRepo, services.ExperienceCodec{}, "experience", logger),
		EducationManager:  services.NewManager[entcontent.Education, services.EducationForm](educationRepo, services.EducationCodec{}, "education", logger),
		SkillManager:      services.NewManager[entcontent.Skill, services.SkillForm](skillRepo, services.SkillCodec{}, "skill", logger),
		SocialManager:     services.NewManager[entcontent.Social, services.SocialForm](socialRepo, services.SocialCodec{}, "social", logger),
		Inbox:             services.NewInbox(messageRepo, logger),

		AuthService: authService,
		Broadcaster: broadcaster,

		Logger:       logger,
		DB:           db,
		MessageRepo:  messageRepo,
		EmailService: emailService,
		ImageProcessor: media.NewImageProcessor(
			config.MediaPath, config.MediaBaseURL,
			config.MaxImageWidth, config.ThumbWidth, config.WebPQuality),
	}
}
