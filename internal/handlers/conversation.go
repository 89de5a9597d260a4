package handlers

import (
  "github.com/gin-gonic/gin"

  "github.com/docuchat/backend/internal/logger"
  "github.com/docuchat/backend/internal/middleware"
  "github.com/docuchat/backend/internal/services"
)

type ConversationHandler struct {
  log                 *logger.Logger
  conversationService services.ConversationService
}

func NewConversationHandler(log *logger.Logger, conversationService services.ConversationService) *ConversationHandler {
  return &ConversationHandler{
    log:                 log.With("handler", "ConversationHandler"),
    conversationService: conversationService,
  }
}

// POST /doc/:documentid
func (h *ConversationHandler) CreateConversation(c *gin.Context) {
  userID := c.GetString(middleware.UserIDKey)
  documentID := c.Param("documentid")

  conversationID, err := h.conversationService.CreateConversation(c.Request.Context(), userID, documentID)
  if err != nil {
    h.log.Error("Failed to create conversation", "user_id", userID, "document_id", documentID, "error", err)
    RespondInternalError(c)
    return
  }
  RespondOK(c, gin.H{"conversationid": conversationID})
}
