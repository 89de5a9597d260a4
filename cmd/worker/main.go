package main

import (
  "context"
  "fmt"
  "os"
  "os/signal"
  "syscall"
  "github.com/joho/godotenv"
  "github.com/docuchat/backend/internal/clients/pinecone"
  "github.com/docuchat/backend/internal/db"
  "github.com/docuchat/backend/internal/logger"
  "github.com/docuchat/backend/internal/repos"
  "github.com/docuchat/backend/internal/services"
)

func main() {
  _ = godotenv.Load()

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

  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  thePG := postgresService.DB()

  documentRepo := repos.NewDocumentRepo(thePG, log)

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
  defer queueService.Close()
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

  embeddingService := services.NewEmbeddingService(log, documentRepo, bucketService, openaiClient, vectorStore, queueService)

  ctx, cancel := context.WithCancel(context.Background())
  defer cancel()
  embeddingService.StartWorker(ctx)
  log.Info("Ingest worker started")

  sig := make(chan os.Signal, 1)
  signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
  <-sig
  log.Info("Shutting down ingest worker")
}
