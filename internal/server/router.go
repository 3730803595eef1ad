package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/crewdesk/crewdesk-backend/internal/http/handlers"
	"github.com/crewdesk/crewdesk-backend/internal/http/middleware"
)

type RouterConfig struct {
	AuthMiddleware  *middleware.AuthMiddleware
	EventHandler    *handlers.EventHandler
	RealtimeHandler *handlers.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	// Events
	api.POST("/events/chat-message", cfg.EventHandler.ChatMessageCreated)
	api.POST("/events/item-created", cfg.EventHandler.ItemCreated)
	api.POST("/events/item-updated", cfg.EventHandler.ItemUpdated)
	api.POST("/events/task-created", cfg.EventHandler.TaskCreated)
	api.POST("/events/task-updated", cfg.EventHandler.TaskUpdated)
	api.POST("/events/task-assigned", cfg.EventHandler.TaskAssigned)
	api.POST("/events/comment-created", cfg.EventHandler.CommentCreated)
	api.POST("/events/user-logged-in", cfg.EventHandler.UserLoggedIn)
	// Realtime
	api.GET("/realtime/stream", cfg.RealtimeHandler.Stream)

	return router
}
