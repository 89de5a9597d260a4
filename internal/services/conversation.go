package services

import (
  "context"
  "fmt"
  "sort"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"

  "github.com/docuchat/backend/internal/logger"
  "github.com/docuchat/backend/internal/repos"
  "github.com/docuchat/backend/internal/types"
)

// ConversationService creates conversation threads against existing documents
// and serves the document/conversation read paths.
type ConversationService interface {
  CreateConversation(ctx context.Context, userID, documentID string) (string, error)
  ListDocuments(ctx context.Context, userID string) ([]*types.Document, error)
  GetDocument(ctx context.Context, userID, documentID, conversationID string) (*types.Document, []types.Message, error)
}

type conversationService struct {
  log     *logger.Logger
  docRepo repos.DocumentRepo
  memRepo repos.MemoryRepo
}

func NewConversationService(log *logger.Logger, docRepo repos.DocumentRepo, memRepo repos.MemoryRepo) ConversationService {
  return &conversationService{
    log:     log.With("service", "ConversationService"),
    docRepo: docRepo,
    memRepo: memRepo,
  }
}

// CreateConversation appends a new conversation summary to the document's list
// and writes the whole list back. Concurrent creators read-then-overwrite the
// same list, so one addition can lose the race; last writer wins.
func (s *conversationService) CreateConversation(ctx context.Context, userID, documentID string) (string, error) {
  doc, err := s.docRepo.Get(ctx, nil, userID, documentID)
  if err != nil {
    return "", fmt.Errorf("Failed to load document %q: %w", documentID, err)
  }

  conversationID := uuid.NewString()
  now := time.Now().UTC()

  conversations := conversationsFromRaw(doc.Conversations)
  conversations = append(conversations, types.Conversation{
    ConversationID: conversationID,
    Created:        now,
  })
  if err := s.docRepo.SetConversations(ctx, nil, userID, documentID, mustJSON(conversations)); err != nil {
    return "", fmt.Errorf("Failed to update conversation list: %w", err)
  }

  mem := &types.ConversationMemory{
    SessionID: conversationID,
    Messages:  mustJSON([]types.Message{}),
    History:   mustJSON([]any{}),
  }
  if err := s.memRepo.Create(ctx, nil, mem); err != nil {
    return "", fmt.Errorf("Failed to create memory record: %w", err)
  }

  s.log.Info("Conversation created", "document_id", documentID, "conversation_id", conversationID)
  return conversationID, nil
}

func (s *conversationService) ListDocuments(ctx context.Context, userID string) ([]*types.Document, error) {
  docs, err := s.docRepo.ListByUser(ctx, nil, userID)
  if err != nil {
    return nil, fmt.Errorf("Failed to list documents: %w", err)
  }
  sort.Slice(docs, func(i, j int) bool {
    return docs[i].Created.After(docs[j].Created)
  })
  for _, doc := range docs {
    doc.Conversations = mustJSON(sortedConversations(doc.Conversations))
  }
  return docs, nil
}

func (s *conversationService) GetDocument(ctx context.Context, userID, documentID, conversationID string) (*types.Document, []types.Message, error) {
  doc, err := s.docRepo.Get(ctx, nil, userID, documentID)
  if err != nil {
    return nil, nil, fmt.Errorf("Failed to load document %q: %w", documentID, err)
  }
  doc.Conversations = mustJSON(sortedConversations(doc.Conversations))

  mem, err := s.memRepo.Get(ctx, nil, conversationID)
  if err != nil {
    return nil, nil, fmt.Errorf("Failed to load memory record %q: %w", conversationID, err)
  }
  return doc, messagesFromRaw(mem.Messages), nil
}

func sortedConversations(raw datatypes.JSON) []types.Conversation {
  conversations := conversationsFromRaw(raw)
  sort.Slice(conversations, func(i, j int) bool {
    return conversations[i].Created.After(conversations[j].Created)
  })
  return conversations
}
