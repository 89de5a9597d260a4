package services

import (
  "context"
  "fmt"
  "strings"
  "testing"

  "github.com/docuchat/backend/internal/types"
)

const sampleText = "The quarterly report covers revenue, costs and the outlook for the next fiscal year in considerable detail."

func newTestEmbeddingService(t *testing.T, docRepo *fakeDocumentRepo, bucket *fakeBucket, ai *fakeOpenAI, vec *fakeVectorStore) *embeddingService {
  t.Helper()
  svc := NewEmbeddingService(testLogger(t), docRepo, bucket, ai, vec, &fakeQueue{})
  es := svc.(*embeddingService)
  es.scratchDir = t.TempDir()
  return es
}

func TestProcessSuccessStatusOrder(t *testing.T) {
  docRepo := newFakeDocumentRepo()
  bucket := &fakeBucket{objects: map[string][]byte{
    "u1/report.pdf/report.pdf": []byte(sampleText),
  }}
  ai := &fakeOpenAI{}
  vec := newFakeVectorStore()
  svc := newTestEmbeddingService(t, docRepo, bucket, ai, vec)

  job := IngestJob{DocumentID: "doc-1", Key: "u1/report.pdf/report.pdf", User: "u1"}
  if err := svc.Process(context.Background(), job); err != nil {
    t.Fatalf("Process: %v", err)
  }

  want := []string{types.StatusProcessing, types.StatusReady}
  if len(docRepo.statusWrites) != len(want) {
    t.Fatalf("status writes: want=%v got=%v", want, docRepo.statusWrites)
  }
  for i := range want {
    if docRepo.statusWrites[i] != want[i] {
      t.Fatalf("status writes: want=%v got=%v", want, docRepo.statusWrites)
    }
  }

  vectors := vec.upserts["doc-1"]
  if len(vectors) == 0 {
    t.Fatalf("no vectors upserted under document namespace")
  }
  for _, v := range vectors {
    text, _ := v.Metadata["text"].(string)
    if strings.TrimSpace(text) == "" {
      t.Fatalf("vector %s has no text metadata", v.ID)
    }
  }
}

func TestProcessFailureMarksFailed(t *testing.T) {
  cases := []struct {
    name  string
    setup func(bucket *fakeBucket, ai *fakeOpenAI, vec *fakeVectorStore)
  }{
    {"download fails", func(bucket *fakeBucket, ai *fakeOpenAI, vec *fakeVectorStore) {
      bucket.downloadErr = fmt.Errorf("boom")
    }},
    {"embed fails", func(bucket *fakeBucket, ai *fakeOpenAI, vec *fakeVectorStore) {
      ai.embedErr = fmt.Errorf("boom")
    }},
    {"upsert fails", func(bucket *fakeBucket, ai *fakeOpenAI, vec *fakeVectorStore) {
      vec.upsertErr = fmt.Errorf("boom")
    }},
  }
  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      docRepo := newFakeDocumentRepo()
      bucket := &fakeBucket{objects: map[string][]byte{
        "u1/report.pdf/report.pdf": []byte(sampleText),
      }}
      ai := &fakeOpenAI{}
      vec := newFakeVectorStore()
      tc.setup(bucket, ai, vec)
      svc := newTestEmbeddingService(t, docRepo, bucket, ai, vec)

      job := IngestJob{DocumentID: "doc-1", Key: "u1/report.pdf/report.pdf", User: "u1"}
      if err := svc.Process(context.Background(), job); err == nil {
        t.Fatalf("expected Process to fail")
      }

      want := []string{types.StatusProcessing, types.StatusFailed}
      if len(docRepo.statusWrites) != len(want) {
        t.Fatalf("status writes: want=%v got=%v", want, docRepo.statusWrites)
      }
      for i := range want {
        if docRepo.statusWrites[i] != want[i] {
          t.Fatalf("status writes: want=%v got=%v", want, docRepo.statusWrites)
        }
      }
    })
  }
}

func TestProcessOnlyKnownStatusLabels(t *testing.T) {
  docRepo := newFakeDocumentRepo()
  bucket := &fakeBucket{objects: map[string][]byte{}}
  svc := newTestEmbeddingService(t, docRepo, bucket, &fakeOpenAI{}, newFakeVectorStore())

  // Missing object forces the failure path.
  _ = svc.Process(context.Background(), IngestJob{DocumentID: "doc-1", Key: "u1/missing.pdf/missing.pdf", User: "u1"})

  allowed := map[string]bool{
    types.StatusUploaded:   true,
    types.StatusProcessing: true,
    types.StatusReady:      true,
    types.StatusFailed:     true,
  }
  for _, s := range docRepo.statusWrites {
    if !allowed[s] {
      t.Fatalf("unexpected status label written: %q", s)
    }
  }
}

func TestSplitIntoChunksOverlaps(t *testing.T) {
  text := strings.Repeat("abcdefghij", 100) // 1000 chars
  chunks := splitIntoChunks(text, 300, 50)
  if len(chunks) < 3 {
    t.Fatalf("chunk count: want>=3 got=%d", len(chunks))
  }
  for i := 0; i < len(chunks)-1; i++ {
    tail := chunks[i][len(chunks[i])-50:]
    if !strings.HasPrefix(chunks[i+1], tail) {
      t.Fatalf("chunk %d does not overlap its successor", i)
    }
  }
}

func TestSplitIntoChunksEmptyInput(t *testing.T) {
  if got := splitIntoChunks("   ", 1000, 200); got != nil {
    t.Fatalf("chunks from whitespace: want=nil got=%v", got)
  }
}

func TestSplitIntoChunksShortInput(t *testing.T) {
  chunks := splitIntoChunks("short text", 1000, 200)
  if len(chunks) != 1 {
    t.Fatalf("chunk count: want=1 got=%d", len(chunks))
  }
  if chunks[0] != "short text" {
    t.Fatalf("chunk content: want=%q got=%q", "short text", chunks[0])
  }
}
