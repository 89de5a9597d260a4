package main

import (
  "fmt"
  "os"
  "github.com/joho/godotenv"
  "github.com/docuchat/backend/internal/clients/pinecone"
  "github.com/docuchat/backend/internal/db"
  "github.com/docuchat/backend/internal/handlers"
  "github.com/docuchat/backend/internal/logger"
  "github.com/docuchat/backend/internal/middleware"
  "github.com/docuchat/backend/internal/repos"
  "github.com/docuchat/backend/internal/server"
  "github.com/docuchat/backend/internal/services"
  "github.com/docuchat/backend/internal/utils"
)

func main() {
  _ = godotenv.Load()

  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  documentRepo := repos.NewDocumentRepo(thePG, log)
  memoryRepo := repos.NewMemoryRepo(thePG, log)

  // Services
  log.Info("Setting up Services from main...")
  bucketService, err := services.NewBucketService(log)
  if err != nil {
    log.Error("Could not init BucketService", "error", err)
    os.Exit(1)
  }
  queueService, err := services.NewQueueService(log)
  if err != nil {
    log.Error("Could not init QueueService", "error", err)
    os.Exit(1)
  }
  openaiClient, err := services.NewOpenAIClient(log)
  if err != nil {
    log.Error("Could not init OpenAIClient", "error", err)
    os.Exit(1)
  }
  pineconeClient, err := pinecone.NewFromEnv(log)
  if err != nil {
    log.Error("Could not init PineconeClient", "error", err)
    os.Exit(1)
  }
  vectorStore, err := pinecone.NewVectorStore(log, pineconeClient)
  if err != nil {
    log.Error("Could not init VectorStore", "error", err)
    os.Exit(1)
  }
  uploadService := services.NewUploadService(log, bucketService)
  ingestService := services.NewIngestService(log, documentRepo, memoryRepo, queueService)
  conversationService := services.NewConversationService(log, documentRepo, memoryRepo)
  chatService := services.NewChatService(log, memoryRepo, openaiClient, vectorStore)

  // Handlers
  log.Info("Setting up handlers from main...")
  uploadHandler := handlers.NewUploadHandler(log, uploadService)
  eventsHandler := handlers.NewEventsHandler(log, ingestService)
  documentHandler := handlers.NewDocumentHandler(log, conversationService)
  conversationHandler := handlers.NewConversationHandler(log, conversationService)
  chatHandler := handlers.NewChatHandler(log, chatService)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthMiddleware:      authMiddleware,
    UploadHandler:       uploadHandler,
    EventsHandler:       eventsHandler,
    DocumentHandler:     documentHandler,
    ConversationHandler: conversationHandler,
    ChatHandler:         chatHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
