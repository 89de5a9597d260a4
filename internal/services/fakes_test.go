package services

import (
  "bytes"
  "context"
  "fmt"
  "io"
  "time"

  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/docuchat/backend/internal/clients/pinecone"
  "github.com/docuchat/backend/internal/types"
)

// ---- bucket ----

type fakeBucket struct {
  existing    map[string]bool
  objects     map[string][]byte
  existsErr   error
  signErr     error
  downloadErr error

  signedKeys []string
}

func (f *fakeBucket) SignedUploadURL(key string, ttl time.Duration) (string, error) {
  if f.signErr != nil {
    return "", f.signErr
  }
  f.signedKeys = append(f.signedKeys, key)
  return "https://storage.example.com/upload/" + key, nil
}

func (f *fakeBucket) Exists(ctx context.Context, key string) (bool, error) {
  if f.existsErr != nil {
    return false, f.existsErr
  }
  return f.existing[key], nil
}

func (f *fakeBucket) Download(ctx context.Context, key string) (io.ReadCloser, error) {
  if f.downloadErr != nil {
    return nil, f.downloadErr
  }
  data, ok := f.objects[key]
  if !ok {
    return nil, fmt.Errorf("object %q not found", key)
  }
  return io.NopCloser(bytes.NewReader(data)), nil
}

// ---- queue ----

type fakeQueue struct {
  enqueued   []IngestJob
  enqueueErr error
  acked      []string
}

func (f *fakeQueue) Enqueue(ctx context.Context, job IngestJob) error {
  if f.enqueueErr != nil {
    return f.enqueueErr
  }
  f.enqueued = append(f.enqueued, job)
  return nil
}

func (f *fakeQueue) Dequeue(ctx context.Context) (*QueuedJob, error) {
  if len(f.enqueued) == 0 {
    return nil, nil
  }
  job := f.enqueued[0]
  f.enqueued = f.enqueued[1:]
  return &QueuedJob{ID: "0-1", Job: job}, nil
}

func (f *fakeQueue) Ack(ctx context.Context, id string) error {
  f.acked = append(f.acked, id)
  return nil
}

func (f *fakeQueue) Close() error { return nil }

// ---- repos ----

type fakeDocumentRepo struct {
  docs map[string]*types.Document

  statusWrites []string
  statusErr    error
  getErr       error
  listErr      error
  createErr    error
  setConvErr   error
}

func newFakeDocumentRepo() *fakeDocumentRepo {
  return &fakeDocumentRepo{docs: map[string]*types.Document{}}
}

func docKey(userID, documentID string) string { return userID + "/" + documentID }

func (f *fakeDocumentRepo) Create(ctx context.Context, tx *gorm.DB, doc *types.Document) error {
  if f.createErr != nil {
    return f.createErr
  }
  f.docs[docKey(doc.UserID, doc.DocumentID)] = doc
  return nil
}

func (f *fakeDocumentRepo) Get(ctx context.Context, tx *gorm.DB, userID, documentID string) (*types.Document, error) {
  if f.getErr != nil {
    return nil, f.getErr
  }
  doc, ok := f.docs[docKey(userID, documentID)]
  if !ok {
    return nil, fmt.Errorf("document %s not found", documentID)
  }
  cp := *doc
  return &cp, nil
}

func (f *fakeDocumentRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.Document, error) {
  if f.listErr != nil {
    return nil, f.listErr
  }
  var out []*types.Document
  for _, doc := range f.docs {
    if doc.UserID == userID {
      cp := *doc
      out = append(out, &cp)
    }
  }
  return out, nil
}

func (f *fakeDocumentRepo) SetStatus(ctx context.Context, tx *gorm.DB, userID, documentID, status string) error {
  if f.statusErr != nil {
    return f.statusErr
  }
  f.statusWrites = append(f.statusWrites, status)
  if doc, ok := f.docs[docKey(userID, documentID)]; ok {
    doc.Docstatus = status
  }
  return nil
}

func (f *fakeDocumentRepo) SetConversations(ctx context.Context, tx *gorm.DB, userID, documentID string, conversations datatypes.JSON) error {
  if f.setConvErr != nil {
    return f.setConvErr
  }
  doc, ok := f.docs[docKey(userID, documentID)]
  if !ok {
    return fmt.Errorf("document %s not found", documentID)
  }
  doc.Conversations = conversations
  return nil
}

type fakeMemoryRepo struct {
  records map[string]*types.ConversationMemory

  createErr error
  getErr    error
  setErr    error
}

func newFakeMemoryRepo() *fakeMemoryRepo {
  return &fakeMemoryRepo{records: map[string]*types.ConversationMemory{}}
}

func (f *fakeMemoryRepo) Create(ctx context.Context, tx *gorm.DB, mem *types.ConversationMemory) error {
  if f.createErr != nil {
    return f.createErr
  }
  f.records[mem.SessionID] = mem
  return nil
}

func (f *fakeMemoryRepo) Get(ctx context.Context, tx *gorm.DB, sessionID string) (*types.ConversationMemory, error) {
  if f.getErr != nil {
    return nil, f.getErr
  }
  mem, ok := f.records[sessionID]
  if !ok {
    return nil, fmt.Errorf("memory record %s not found", sessionID)
  }
  cp := *mem
  return &cp, nil
}

func (f *fakeMemoryRepo) SetMessages(ctx context.Context, tx *gorm.DB, sessionID string, messages datatypes.JSON) error {
  if f.setErr != nil {
    return f.setErr
  }
  mem, ok := f.records[sessionID]
  if !ok {
    return fmt.Errorf("memory record %s not found", sessionID)
  }
  mem.Messages = messages
  return nil
}

// ---- openai ----

type fakeOpenAI struct {
  embedErr error
  chatErr  error
  answer   string

  embedCalls  [][]string
  lastSystem  string
  lastHistory []types.Message
}

func (f *fakeOpenAI) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
  if f.embedErr != nil {
    return nil, f.embedErr
  }
  f.embedCalls = append(f.embedCalls, inputs)
  out := make([][]float32, len(inputs))
  for i := range inputs {
    out[i] = []float32{float32(i), 0.5}
  }
  return out, nil
}

func (f *fakeOpenAI) Chat(ctx context.Context, system string, history []types.Message, question string) (string, error) {
  if f.chatErr != nil {
    return "", f.chatErr
  }
  f.lastSystem = system
  f.lastHistory = history
  if f.answer == "" {
    return "fake answer", nil
  }
  return f.answer, nil
}

// ---- vector store ----

type fakeVectorStore struct {
  upsertErr error
  queryErr  error
  texts     []string

  upserts map[string][]pinecone.Vector
}

func newFakeVectorStore() *fakeVectorStore {
  return &fakeVectorStore{upserts: map[string][]pinecone.Vector{}}
}

func (f *fakeVectorStore) Upsert(ctx context.Context, namespace string, vectors []pinecone.Vector) error {
  if f.upsertErr != nil {
    return f.upsertErr
  }
  f.upserts[namespace] = append(f.upserts[namespace], vectors...)
  return nil
}

func (f *fakeVectorStore) QueryTexts(ctx context.Context, namespace string, q []float32, topK int) ([]string, error) {
  if f.queryErr != nil {
    return nil, f.queryErr
  }
  return f.texts, nil
}
