package services

import (
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "os"
  "strings"
  "time"

  goredis "github.com/redis/go-redis/v9"
  "github.com/google/uuid"

  "github.com/docuchat/backend/internal/logger"
)

// IngestJob is the queued chunk-and-embed request, one per uploaded object.
type IngestJob struct {
  DocumentID string `json:"documentid"`
  Key        string `json:"key"`
  User       string `json:"user"`
}

type QueuedJob struct {
  ID  string
  Job IngestJob
}

// QueueService wraps a Redis Stream with a consumer group. Entries stay
// pending until acked; redelivery of stale pending entries is the queue's
// retry, consumers never re-enqueue themselves.
type QueueService interface {
  Enqueue(ctx context.Context, job IngestJob) error
  Dequeue(ctx context.Context) (*QueuedJob, error)
  Ack(ctx context.Context, id string) error
  Close() error
}

type queueService struct {
  log      *logger.Logger
  rdb      *goredis.Client
  stream   string
  group    string
  consumer string
}

func NewQueueService(log *logger.Logger) (QueueService, error) {
  if log == nil {
    return nil, fmt.Errorf("logger required")
  }

  addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
  if addr == "" {
    return nil, fmt.Errorf("missing REDIS_ADDR")
  }
  stream := strings.TrimSpace(os.Getenv("INGEST_QUEUE_STREAM"))
  if stream == "" {
    stream = "ingest-jobs"
  }

  rdb := goredis.NewClient(&goredis.Options{
    Addr:        addr,
    DialTimeout: 5 * time.Second,
  })

  ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
  defer cancel()
  if err := rdb.Ping(ctx).Err(); err != nil {
    _ = rdb.Close()
    return nil, fmt.Errorf("redis ping: %w", err)
  }

  group := "embedder"
  if err := rdb.XGroupCreateMkStream(ctx, stream, group, "0").Err(); err != nil {
    if !strings.Contains(err.Error(), "BUSYGROUP") {
      _ = rdb.Close()
      return nil, fmt.Errorf("redis xgroup create: %w", err)
    }
  }

  host, _ := os.Hostname()
  consumer := fmt.Sprintf("%s-%s", host, uuid.NewString()[:8])

  return &queueService{
    log:      log.With("service", "QueueService"),
    rdb:      rdb,
    stream:   stream,
    group:    group,
    consumer: consumer,
  }, nil
}

func (q *queueService) Enqueue(ctx context.Context, job IngestJob) error {
  body, err := json.Marshal(job)
  if err != nil {
    return fmt.Errorf("Failed to marshal ingest job: %w", err)
  }
  if err := q.rdb.XAdd(ctx, &goredis.XAddArgs{
    Stream: q.stream,
    Values: map[string]any{"body": string(body)},
  }).Err(); err != nil {
    return fmt.Errorf("Failed to enqueue ingest job: %w", err)
  }
  q.log.Info("Ingest job enqueued", "document_id", job.DocumentID, "key", job.Key)
  return nil
}

// Dequeue returns the next job, preferring stale pending entries left behind
// by dead consumers, then new entries. Returns (nil, nil) when nothing is
// available within the block window.
func (q *queueService) Dequeue(ctx context.Context) (*QueuedJob, error) {
  claimed, _, err := q.rdb.XAutoClaim(ctx, &goredis.XAutoClaimArgs{
    Stream:   q.stream,
    Group:    q.group,
    Consumer: q.consumer,
    MinIdle:  2 * time.Minute,
    Start:    "0-0",
    Count:    1,
  }).Result()
  if err != nil && !errors.Is(err, goredis.Nil) {
    return nil, fmt.Errorf("redis xautoclaim: %w", err)
  }
  if len(claimed) > 0 {
    return q.decode(claimed[0])
  }

  streams, err := q.rdb.XReadGroup(ctx, &goredis.XReadGroupArgs{
    Group:    q.group,
    Consumer: q.consumer,
    Streams:  []string{q.stream, ">"},
    Count:    1,
    Block:    5 * time.Second,
  }).Result()
  if err != nil {
    if errors.Is(err, goredis.Nil) {
      return nil, nil
    }
    return nil, fmt.Errorf("redis xreadgroup: %w", err)
  }
  for _, s := range streams {
    for _, m := range s.Messages {
      return q.decode(m)
    }
  }
  return nil, nil
}

func (q *queueService) Ack(ctx context.Context, id string) error {
  if err := q.rdb.XAck(ctx, q.stream, q.group, id).Err(); err != nil {
    return fmt.Errorf("redis xack: %w", err)
  }
  return nil
}

func (q *queueService) Close() error {
  return q.rdb.Close()
}

func (q *queueService) decode(m goredis.XMessage) (*QueuedJob, error) {
  body, _ := m.Values["body"].(string)
  var job IngestJob
  if err := json.Unmarshal([]byte(body), &job); err != nil {
    return nil, fmt.Errorf("Failed to decode ingest job %s: %w", m.ID, err)
  }
  return &QueuedJob{ID: m.ID, Job: job}, nil
}
