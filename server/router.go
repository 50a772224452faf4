package server

import (
	"time"

	"crowdfund-service/infrastructure/configuration"
	"crowdfund-service/infrastructure/realtime"
	httpHandler "crowdfund-service/interfaces/http"
	"crowdfund-service/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Project httpHandler.IProjectHandler
	Post    httpHandler.IPostHandler
	Content httpHandler.IContentHandler
	Health  httpHandler.IHealthHandler
	Events  *realtime.Hub
}

func InitiateRouter(cfg *configuration.Config, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	corsConfig := cors.Config{
		AllowOrigins:     cfg.Cors.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	maxBytes := cfg.App.MaxUploadMB << 20
	router.MaxMultipartMemory = maxBytes

	router.GET("/healthz", h.Health.Healthz)
	if h.Events != nil {
		router.GET("/events/projects", h.Events.Serve)
	}

	api := router.Group("/")
	api.Use(middleware.OptionalAuth(cfg.Auth.SecretKey))
	api.Use(middleware.BodyLimit(maxBytes))

	project := api.Group("/project")
	{
		project.POST("/new-project", h.Project.CreateProject)
		project.GET("", h.Project.GetAllProjects)
		project.GET("/:projectId", h.Project.GetProjectByID)
	}

	post := api.Group("/post")
	{
		post.POST("/new-post", h.Post.CreatePost)
		post.GET("", h.Post.GetAllPosts)
	}

	api.POST("/generate-content", h.Content.GenerateContent)

	return router
}
