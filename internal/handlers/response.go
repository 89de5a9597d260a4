package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
)

// Caller-facing failures are opaque: one fixed message, details stay in logs.
func RespondInternalError(c *gin.Context) {
  c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}
