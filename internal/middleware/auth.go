package middleware

import (
  "fmt"
  "net/http"
  "strings"

  "github.com/gin-gonic/gin"
  "github.com/golang-jwt/jwt/v5"

  "github.com/docuchat/backend/internal/logger"
)

// UserIDKey is the gin context key under which RequireAuth stores the
// caller's resolved user identifier (the token's subject claim).
const UserIDKey = "user_id"

type AuthMiddleware struct {
  log    *logger.Logger
  secret []byte
}

func NewAuthMiddleware(log *logger.Logger, secret string) *AuthMiddleware {
  middlewareLog := log.With("middleware", "AuthMiddleware")
  return &AuthMiddleware{log: middlewareLog, secret: []byte(secret)}
}

// RequireAuth extracts the bearer token, checks its signature and resolves
// the subject claim into the request's user identifier. Identity issuance
// itself lives outside this service.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
  return func(c *gin.Context) {
    tokenString := extractToken(c)
    if tokenString == "" {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
      return
    }
    token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
      if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
        return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
      }
      return am.secret, nil
    })
    if err != nil || !token.Valid {
      am.log.Debug("Token rejected", "error", err)
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
      return
    }
    sub, err := token.Claims.GetSubject()
    if err != nil || sub == "" {
      c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
      return
    }
    c.Set(UserIDKey, sub)
    c.Next()
  }
}

func extractToken(c *gin.Context) string {
  if qToken := c.Query("token"); qToken != "" {
    return qToken
  }
  authHeader := c.GetHeader("Authorization")
  if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
    return authHeader[7:]
  }
  return ""
}
