package services

import (
  "context"
  "fmt"
  "strings"
  "time"

  "github.com/google/uuid"

  "github.com/docuchat/backend/internal/logger"
  "github.com/docuchat/backend/internal/repos"
  "github.com/docuchat/backend/internal/types"
)

// IngestService reacts to object-storage write notifications: it creates the
// document record with its initial conversation, an empty memory record, and
// enqueues the chunk-and-embed job. The three writes are independent; a
// failure between them leaves partial state behind and surfaces the error to
// the invoking infrastructure.
type IngestService interface {
  HandleObjectCreated(ctx context.Context, key string, size int64) error
}

type ingestService struct {
  log     *logger.Logger
  docRepo repos.DocumentRepo
  memRepo repos.MemoryRepo
  queue   QueueService
}

func NewIngestService(log *logger.Logger, docRepo repos.DocumentRepo, memRepo repos.MemoryRepo, queue QueueService) IngestService {
  return &ingestService{
    log:     log.With("service", "IngestService"),
    docRepo: docRepo,
    memRepo: memRepo,
    queue:   queue,
  }
}

func (s *ingestService) HandleObjectCreated(ctx context.Context, key string, size int64) error {
  split := strings.Split(key, "/")
  if len(split) < 2 {
    return fmt.Errorf("object key %q does not match {user}/{filename}/... convention", key)
  }
  userID := split[0]
  fileName := split[1]

  documentID := uuid.NewString()
  conversationID := uuid.NewString()
  now := time.Now().UTC()

  doc := &types.Document{
    DocumentID: documentID,
    UserID:     userID,
    Filename:   fileName,
    Created:    now,
    Filesize:   size,
    Docstatus:  types.StatusUploaded,
    Conversations: mustJSON([]types.Conversation{
      {ConversationID: conversationID, Created: now},
    }),
  }
  if err := s.docRepo.Create(ctx, nil, doc); err != nil {
    return fmt.Errorf("Failed to create document record: %w", err)
  }
  s.log.Info("Document record created", "document_id", documentID, "user_id", userID, "filename", fileName)

  mem := &types.ConversationMemory{
    SessionID: conversationID,
    Messages:  mustJSON([]types.Message{}),
    History:   mustJSON([]any{}),
  }
  if err := s.memRepo.Create(ctx, nil, mem); err != nil {
    return fmt.Errorf("Failed to create memory record: %w", err)
  }
  s.log.Info("Memory record created", "conversation_id", conversationID)

  if err := s.queue.Enqueue(ctx, IngestJob{
    DocumentID: documentID,
    Key:        key,
    User:       userID,
  }); err != nil {
    return fmt.Errorf("Failed to enqueue ingest job: %w", err)
  }
  return nil
}
