package services

import (
  "context"
  "errors"
  "fmt"
  "io"
  "os"
  "time"
  "cloud.google.com/go/storage"
  "google.golang.org/api/option"
  "github.com/docuchat/backend/internal/logger"
)

type BucketService interface {
  SignedUploadURL(key string, ttl time.Duration) (string, error)
  Exists(ctx context.Context, key string) (bool, error)
  Download(ctx context.Context, key string) (io.ReadCloser, error)
}

type bucketService struct {
  log           *logger.Logger
  storageClient *storage.Client
  bucketName    string
}

func NewBucketService(log *logger.Logger) (BucketService, error) {
  serviceLog := log.With("service", "BucketService")
  bucket := os.Getenv("GCS_BUCKET_NAME")
  if bucket == "" {
    return nil, fmt.Errorf("missing env var GCS_BUCKET_NAME")
  }
  saPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON")
  if saPath == "" {
    serviceLog.Warn("GOOGLE_APPLICATION_CREDENTIALS_JSON not set; storage client will rely on ADC")
  }
  ctx := context.Background()
  var stClient *storage.Client
  var err error
  if saPath != "" {
    stClient, err = storage.NewClient(ctx, option.WithCredentialsFile(saPath), option.WithScopes(storage.ScopeReadWrite))
  } else {
    stClient, err = storage.NewClient(ctx, option.WithScopes(storage.ScopeReadWrite))
  }
  if err != nil {
    return nil, fmt.Errorf("Failed to create storage client: %w", err)
  }
  return &bucketService{
    log:           serviceLog,
    storageClient: stClient,
    bucketName:    bucket,
  }, nil
}

// SignedUploadURL returns a write-only V4 signed PUT URL scoped to key.
func (bs *bucketService) SignedUploadURL(key string, ttl time.Duration) (string, error) {
  url, err := bs.storageClient.Bucket(bs.bucketName).SignedURL(key, &storage.SignedURLOptions{
    Scheme:  storage.SigningSchemeV4,
    Method:  "PUT",
    Expires: time.Now().Add(ttl),
  })
  if err != nil {
    return "", fmt.Errorf("Failed to sign upload URL for %q: %w", key, err)
  }
  return url, nil
}

func (bs *bucketService) Exists(ctx context.Context, key string) (bool, error) {
  ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
  defer cancel()
  _, err := bs.storageClient.Bucket(bs.bucketName).Object(key).Attrs(ctx)
  if err != nil {
    if errors.Is(err, storage.ErrObjectNotExist) {
      return false, nil
    }
    return false, fmt.Errorf("Failed to stat GCS object %q: %w", key, err)
  }
  return true, nil
}

func (bs *bucketService) Download(ctx context.Context, key string) (io.ReadCloser, error) {
  r, err := bs.storageClient.Bucket(bs.bucketName).Object(key).NewReader(ctx)
  if err != nil {
    return nil, fmt.Errorf("Failed to open GCS object %q: %w", key, err)
  }
  return r, nil
}
