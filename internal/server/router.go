package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "github.com/docuchat/backend/internal/handlers"
  "github.com/docuchat/backend/internal/middleware"
)

type RouterConfig struct {
  AuthMiddleware      *middleware.AuthMiddleware
  UploadHandler       *handlers.UploadHandler
  EventsHandler       *handlers.EventsHandler
  DocumentHandler     *handlers.DocumentHandler
  ConversationHandler *handlers.ConversationHandler
  ChatHandler         *handlers.ChatHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowAllOrigins:  true,
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"*"},
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  // Storage-write notifications (Pub/Sub push or direct)
  router.POST("/events/storage", cfg.EventsHandler.StorageObjectCreated)

// ===============
// || Protected ||
// ===============
  protected := router.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  // Upload
  protected.GET("/generate-presigned-url", cfg.UploadHandler.GetUploadURL)
  // Documents
  protected.GET("/doc", cfg.DocumentHandler.ListDocuments)
  protected.GET("/doc/:documentid/:conversationid", cfg.DocumentHandler.GetDocument)
  // Conversations
  protected.POST("/doc/:documentid", cfg.ConversationHandler.CreateConversation)
  // Chat
  protected.POST("/doc/:documentid/:conversationid", cfg.ChatHandler.GenerateResponse)

  return router
}
