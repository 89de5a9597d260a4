package handlers

import (
  "github.com/gin-gonic/gin"

  "github.com/docuchat/backend/internal/logger"
  "github.com/docuchat/backend/internal/middleware"
  "github.com/docuchat/backend/internal/services"
)

type UploadHandler struct {
  log           *logger.Logger
  uploadService services.UploadService
}

func NewUploadHandler(log *logger.Logger, uploadService services.UploadService) *UploadHandler {
  return &UploadHandler{
    log:           log.With("handler", "UploadHandler"),
    uploadService: uploadService,
  }
}

// GET /generate-presigned-url?file_name=report.pdf
func (h *UploadHandler) GetUploadURL(c *gin.Context) {
  userID := c.GetString(middleware.UserIDKey)
  fileName := c.Query("file_name")

  url, key, err := h.uploadService.GeneratePresignedURL(c.Request.Context(), userID, fileName)
  if err != nil {
    h.log.Error("Failed to generate presigned URL", "user_id", userID, "file_name", fileName, "error", err)
    RespondInternalError(c)
    return
  }
  h.log.Info("Presigned URL issued", "user_id", userID, "key", key)
  RespondOK(c, gin.H{"presignedurl": url})
}
