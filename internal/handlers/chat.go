package handlers

import (
  "github.com/gin-gonic/gin"

  "github.com/docuchat/backend/internal/logger"
  "github.com/docuchat/backend/internal/services"
)

type ChatHandler struct {
  log         *logger.Logger
  chatService services.ChatService
}

func NewChatHandler(log *logger.Logger, chatService services.ChatService) *ChatHandler {
  return &ChatHandler{
    log:         log.With("handler", "ChatHandler"),
    chatService: chatService,
  }
}

// POST /doc/:documentid/:conversationid with body {"prompt": "..."}
// Responds with the raw answer text as a JSON string.
func (h *ChatHandler) GenerateResponse(c *gin.Context) {
  documentID := c.Param("documentid")
  conversationID := c.Param("conversationid")

  var body struct {
    Prompt string `json:"prompt"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    h.log.Error("Failed to bind prompt body", "error", err)
    RespondInternalError(c)
    return
  }

  answer, err := h.chatService.GenerateResponse(c.Request.Context(), documentID, conversationID, body.Prompt)
  if err != nil {
    h.log.Error("Failed to generate response", "document_id", documentID, "conversation_id", conversationID, "error", err)
    RespondInternalError(c)
    return
  }
  RespondOK(c, answer)
}
