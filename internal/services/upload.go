package services

import (
  "context"
  "fmt"
  "strings"
  "time"

  "github.com/google/uuid"

  "github.com/docuchat/backend/internal/logger"
)

const uploadURLTTL = 1 * time.Hour

// UploadService issues time-limited presigned PUT URLs for new documents.
// Keys follow the `{user}/{filename}/{filename}` convention the ingestion
// trigger parses back apart.
type UploadService interface {
  GeneratePresignedURL(ctx context.Context, userID, fileName string) (url string, key string, err error)
}

type uploadService struct {
  log    *logger.Logger
  bucket BucketService
}

func NewUploadService(log *logger.Logger, bucket BucketService) UploadService {
  return &uploadService{
    log:    log.With("service", "UploadService"),
    bucket: bucket,
  }
}

func (s *uploadService) GeneratePresignedURL(ctx context.Context, userID, fileName string) (string, string, error) {
  fileName = strings.TrimSpace(fileName)
  if userID == "" {
    return "", "", fmt.Errorf("user id required")
  }
  if !strings.HasSuffix(strings.ToLower(fileName), ".pdf") {
    return "", "", fmt.Errorf("file name %q does not end in .pdf", fileName)
  }
  base := fileName[:len(fileName)-len(".pdf")]

  key := fmt.Sprintf("%s/%s.pdf/%s.pdf", userID, base, base)
  exists, err := s.bucket.Exists(ctx, key)
  if err != nil {
    // Treat a failed existence probe as absence; worst case the upload
    // overwrites, same as the object store's own last-writer-wins.
    s.log.Warn("Existence check failed, assuming object absent", "key", key, "error", err)
    exists = false
  }
  if exists {
    suffix := shortSuffix()
    key = fmt.Sprintf("%s/%s-%s.pdf/%s-%s.pdf", userID, base, suffix, base, suffix)
    s.log.Info("Filename collision, disambiguating", "key", key)
  }

  url, err := s.bucket.SignedUploadURL(key, uploadURLTTL)
  if err != nil {
    return "", "", fmt.Errorf("Failed to presign upload for %q: %w", key, err)
  }
  return url, key, nil
}

func shortSuffix() string {
  return strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
}
