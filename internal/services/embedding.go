package services

import (
  "context"
  "fmt"
  "io"
  "os"
  "path/filepath"
  "strings"
  "time"

  "github.com/google/uuid"

  "github.com/docuchat/backend/internal/clients/pinecone"
  "github.com/docuchat/backend/internal/logger"
  "github.com/docuchat/backend/internal/repos"
  "github.com/docuchat/backend/internal/types"
)

// EmbeddingService is the chunk-and-embed worker. Per job it drives the
// document through UPLOADED -> PROCESSING -> READY, or -> FAILED on any error.
// It performs no retry of its own; an unacked job stays pending on the stream
// and redelivery is the queue's business.
type EmbeddingService interface {
  Process(ctx context.Context, job IngestJob) error
  StartWorker(ctx context.Context)
}

type embeddingService struct {
  log     *logger.Logger
  docRepo repos.DocumentRepo
  bucket  BucketService
  ai      OpenAIClient
  vec     pinecone.VectorStore
  queue   QueueService

  chunkSize    int
  chunkOverlap int
  scratchDir   string
}

func NewEmbeddingService(
  baseLog *logger.Logger,
  docRepo repos.DocumentRepo,
  bucket BucketService,
  ai OpenAIClient,
  vec pinecone.VectorStore,
  queue QueueService,
) EmbeddingService {
  return &embeddingService{
    log:          baseLog.With("service", "EmbeddingService"),
    docRepo:      docRepo,
    bucket:       bucket,
    ai:           ai,
    vec:          vec,
    queue:        queue,
    chunkSize:    1000,
    chunkOverlap: 200,
    scratchDir:   os.TempDir(),
  }
}

func (s *embeddingService) StartWorker(ctx context.Context) {
  go func() {
    for {
      select {
      case <-ctx.Done():
        return
      default:
      }
      queued, err := s.queue.Dequeue(ctx)
      if err != nil {
        s.log.Warn("Dequeue failed", "error", err)
        time.Sleep(1 * time.Second)
        continue
      }
      if queued == nil {
        continue
      }
      if err := s.Process(ctx, queued.Job); err != nil {
        // Leave the entry pending; the stream redelivers it later.
        s.log.Error("Ingest job failed", "entry_id", queued.ID, "document_id", queued.Job.DocumentID, "error", err)
        continue
      }
      if err := s.queue.Ack(ctx, queued.ID); err != nil {
        s.log.Warn("Ack failed after successful job", "entry_id", queued.ID, "error", err)
      }
    }
  }()
}

func (s *embeddingService) Process(ctx context.Context, job IngestJob) error {
  s.log.Info("Processing ingest job", "document_id", job.DocumentID, "key", job.Key)
  if err := s.run(ctx, job); err != nil {
    // Best effort; the original error is what propagates.
    if stErr := s.docRepo.SetStatus(ctx, nil, job.User, job.DocumentID, types.StatusFailed); stErr != nil {
      s.log.Error("Failed to mark document FAILED", "document_id", job.DocumentID, "error", stErr)
    }
    return err
  }
  return nil
}

func (s *embeddingService) run(ctx context.Context, job IngestJob) error {
  if err := s.docRepo.SetStatus(ctx, nil, job.User, job.DocumentID, types.StatusProcessing); err != nil {
    return fmt.Errorf("Failed to set document status PROCESSING: %w", err)
  }

  data, err := s.downloadToScratch(ctx, job.Key)
  if err != nil {
    return err
  }
  s.log.Info("Object downloaded", "key", job.Key, "bytes", len(data))

  fileName := job.Key
  if i := strings.LastIndex(job.Key, "/"); i >= 0 {
    fileName = job.Key[i+1:]
  }
  text, err := ExtractText(fileName, data)
  if err != nil {
    return fmt.Errorf("Failed to extract text from %q: %w", fileName, err)
  }

  chunks := splitIntoChunks(text, s.chunkSize, s.chunkOverlap)
  if len(chunks) == 0 {
    return fmt.Errorf("no chunks produced from %q", fileName)
  }
  s.log.Info("Chunks prepared", "document_id", job.DocumentID, "chunks", len(chunks))

  embeddings, err := s.ai.Embed(ctx, chunks)
  if err != nil {
    return fmt.Errorf("Failed to embed chunks: %w", err)
  }

  vectors := make([]pinecone.Vector, 0, len(chunks))
  for i, chunk := range chunks {
    vectors = append(vectors, pinecone.Vector{
      ID:     uuid.NewString(),
      Values: embeddings[i],
      Metadata: map[string]any{
        "text":       chunk,
        "documentid": job.DocumentID,
        "chunk":      i,
      },
    })
  }
  if err := s.vec.Upsert(ctx, job.DocumentID, vectors); err != nil {
    return fmt.Errorf("Failed to upsert vectors: %w", err)
  }
  s.log.Info("Vectors upserted", "document_id", job.DocumentID, "count", len(vectors))

  if err := s.docRepo.SetStatus(ctx, nil, job.User, job.DocumentID, types.StatusReady); err != nil {
    return fmt.Errorf("Failed to set document status READY: %w", err)
  }
  return nil
}

// downloadToScratch copies the object into the scratch dir and returns its
// bytes. The scratch file is removed before returning.
func (s *embeddingService) downloadToScratch(ctx context.Context, key string) ([]byte, error) {
  rc, err := s.bucket.Download(ctx, key)
  if err != nil {
    return nil, fmt.Errorf("Failed to download object %q: %w", key, err)
  }
  defer rc.Close()

  path := filepath.Join(s.scratchDir, filepath.Base(key))
  f, err := os.Create(path)
  if err != nil {
    return nil, fmt.Errorf("Failed to create scratch file: %w", err)
  }
  if _, err := io.Copy(f, rc); err != nil {
    _ = f.Close()
    _ = os.Remove(path)
    return nil, fmt.Errorf("Failed to write scratch file: %w", err)
  }
  if err := f.Close(); err != nil {
    _ = os.Remove(path)
    return nil, fmt.Errorf("Failed to close scratch file: %w", err)
  }
  defer os.Remove(path)

  data, err := os.ReadFile(path)
  if err != nil {
    return nil, fmt.Errorf("Failed to read scratch file: %w", err)
  }
  return data, nil
}

func splitIntoChunks(text string, chunkSize int, overlap int) []string {
  text = strings.TrimSpace(text)
  if text == "" {
    return nil
  }
  if chunkSize <= 0 {
    chunkSize = 1000
  }
  if overlap < 0 {
    overlap = 0
  }
  step := chunkSize - overlap
  if step <= 0 {
    step = chunkSize
  }

  out := []string{}
  for start := 0; start < len(text); start += step {
    end := start + chunkSize
    if end > len(text) {
      end = len(text)
    }
    p := strings.TrimSpace(text[start:end])
    if p != "" {
      out = append(out, p)
    }
    if end == len(text) {
      break
    }
  }
  return out
}
