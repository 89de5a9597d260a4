package services

import (
  "context"
  "fmt"
  "strings"

  "github.com/docuchat/backend/internal/clients/pinecone"
  "github.com/docuchat/backend/internal/logger"
  "github.com/docuchat/backend/internal/repos"
  "github.com/docuchat/backend/internal/types"
)

const retrievalTopK = 4

// ChatService answers a question against a document: retrieve the most
// relevant chunks from the document's namespace, call the LLM with retrieved
// context plus prior turns, and persist the new turn. Concurrent questions on
// the same conversation interleave their read-append-write cycles in either
// order; there is no locking and no history truncation.
type ChatService interface {
  GenerateResponse(ctx context.Context, documentID, conversationID, prompt string) (string, error)
}

type chatService struct {
  log     *logger.Logger
  memRepo repos.MemoryRepo
  ai      OpenAIClient
  vec     pinecone.VectorStore
}

func NewChatService(log *logger.Logger, memRepo repos.MemoryRepo, ai OpenAIClient, vec pinecone.VectorStore) ChatService {
  return &chatService{
    log:     log.With("service", "ChatService"),
    memRepo: memRepo,
    ai:      ai,
    vec:     vec,
  }
}

func (s *chatService) GenerateResponse(ctx context.Context, documentID, conversationID, prompt string) (string, error) {
  prompt = strings.TrimSpace(prompt)
  if prompt == "" {
    return "", fmt.Errorf("prompt required")
  }

  mem, err := s.memRepo.Get(ctx, nil, conversationID)
  if err != nil {
    return "", fmt.Errorf("Failed to load memory record %q: %w", conversationID, err)
  }
  history := messagesFromRaw(mem.Messages)

  queryVecs, err := s.ai.Embed(ctx, []string{prompt})
  if err != nil {
    return "", fmt.Errorf("Failed to embed question: %w", err)
  }
  contexts, err := s.vec.QueryTexts(ctx, documentID, queryVecs[0], retrievalTopK)
  if err != nil {
    return "", fmt.Errorf("Failed to query vector index: %w", err)
  }
  s.log.Info("Context retrieved", "document_id", documentID, "chunks", len(contexts))

  answer, err := s.ai.Chat(ctx, buildSystemPrompt(contexts), history, prompt)
  if err != nil {
    return "", fmt.Errorf("Failed to generate response: %w", err)
  }

  history = append(history,
    types.Message{Role: types.MessageRoleHuman, Content: prompt},
    types.Message{Role: types.MessageRoleAI, Content: answer},
  )
  if err := s.memRepo.SetMessages(ctx, nil, conversationID, mustJSON(history)); err != nil {
    return "", fmt.Errorf("Failed to persist conversation turn: %w", err)
  }
  s.log.Info("Conversation turn persisted", "conversation_id", conversationID, "messages", len(history))
  return answer, nil
}

func buildSystemPrompt(contexts []string) string {
  var b strings.Builder
  b.WriteString("You are answering questions about a document the user uploaded. ")
  b.WriteString("Use the following excerpts from the document to answer. ")
  b.WriteString("If the excerpts do not contain the answer, say you don't know rather than guessing.\n\n")
  for i, c := range contexts {
    fmt.Fprintf(&b, "Excerpt %d:\n%s\n\n", i+1, c)
  }
  return strings.TrimSpace(b.String())
}
