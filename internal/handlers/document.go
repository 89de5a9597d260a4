package handlers

import (
  "github.com/gin-gonic/gin"

  "github.com/docuchat/backend/internal/logger"
  "github.com/docuchat/backend/internal/middleware"
  "github.com/docuchat/backend/internal/services"
)

type DocumentHandler struct {
  log                 *logger.Logger
  conversationService services.ConversationService
}

func NewDocumentHandler(log *logger.Logger, conversationService services.ConversationService) *DocumentHandler {
  return &DocumentHandler{
    log:                 log.With("handler", "DocumentHandler"),
    conversationService: conversationService,
  }
}

// GET /doc
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
  userID := c.GetString(middleware.UserIDKey)

  docs, err := h.conversationService.ListDocuments(c.Request.Context(), userID)
  if err != nil {
    h.log.Error("Failed to list documents", "user_id", userID, "error", err)
    RespondInternalError(c)
    return
  }
  RespondOK(c, docs)
}

// GET /doc/:documentid/:conversationid
func (h *DocumentHandler) GetDocument(c *gin.Context) {
  userID := c.GetString(middleware.UserIDKey)
  documentID := c.Param("documentid")
  conversationID := c.Param("conversationid")

  doc, messages, err := h.conversationService.GetDocument(c.Request.Context(), userID, documentID, conversationID)
  if err != nil {
    h.log.Error("Failed to get document", "user_id", userID, "document_id", documentID, "conversation_id", conversationID, "error", err)
    RespondInternalError(c)
    return
  }
  RespondOK(c, gin.H{
    "conversationid": conversationID,
    "document":       doc,
    "messages":       messages,
  })
}
