package handlers

import (
  "bytes"
  "context"
  "encoding/base64"
  "encoding/json"
  "net/http"
  "net/http/httptest"
  "testing"

  "github.com/gin-gonic/gin"

  "github.com/docuchat/backend/internal/logger"
)

type fakeIngest struct {
  err  error
  keys []string
  size int64
}

func (f *fakeIngest) HandleObjectCreated(ctx context.Context, key string, size int64) error {
  if f.err != nil {
    return f.err
  }
  f.keys = append(f.keys, key)
  f.size = size
  return nil
}

func testLogger(t *testing.T) *logger.Logger {
  t.Helper()
  log, err := logger.New("test")
  if err != nil {
    t.Fatalf("logger.New: %v", err)
  }
  return log
}

func postEvent(t *testing.T, h *EventsHandler, body []byte) *httptest.ResponseRecorder {
  t.Helper()
  gin.SetMode(gin.TestMode)
  w := httptest.NewRecorder()
  c, _ := gin.CreateTestContext(w)
  c.Request = httptest.NewRequest(http.MethodPost, "/events/storage", bytes.NewReader(body))
  h.StorageObjectCreated(c)
  return w
}

func TestStorageObjectCreatedBareNotification(t *testing.T) {
  ingest := &fakeIngest{}
  h := NewEventsHandler(testLogger(t), ingest)

  body, _ := json.Marshal(map[string]string{"name": "u1/report.pdf/report.pdf", "size": "2048"})
  w := postEvent(t, h, body)

  if w.Code != http.StatusOK {
    t.Fatalf("status: want=200 got=%d", w.Code)
  }
  if len(ingest.keys) != 1 || ingest.keys[0] != "u1/report.pdf/report.pdf" {
    t.Fatalf("ingested keys: %v", ingest.keys)
  }
  if ingest.size != 2048 {
    t.Fatalf("size: want=2048 got=%d", ingest.size)
  }
}

func TestStorageObjectCreatedPubsubEnvelope(t *testing.T) {
  ingest := &fakeIngest{}
  h := NewEventsHandler(testLogger(t), ingest)

  inner, _ := json.Marshal(map[string]string{"name": "u1/a.pdf/a.pdf", "size": "7"})
  body, _ := json.Marshal(map[string]any{
    "message": map[string]string{"data": base64.StdEncoding.EncodeToString(inner)},
  })
  w := postEvent(t, h, body)

  if w.Code != http.StatusOK {
    t.Fatalf("status: want=200 got=%d", w.Code)
  }
  if len(ingest.keys) != 1 || ingest.keys[0] != "u1/a.pdf/a.pdf" {
    t.Fatalf("ingested keys: %v", ingest.keys)
  }
}

func TestStorageObjectCreatedUnescapesKey(t *testing.T) {
  ingest := &fakeIngest{}
  h := NewEventsHandler(testLogger(t), ingest)

  body, _ := json.Marshal(map[string]string{"name": "u1/my%20report.pdf/my%20report.pdf", "size": "1"})
  postEvent(t, h, body)

  if len(ingest.keys) != 1 || ingest.keys[0] != "u1/my report.pdf/my report.pdf" {
    t.Fatalf("ingested keys: %v", ingest.keys)
  }
}

func TestStorageObjectCreatedBadBody(t *testing.T) {
  h := NewEventsHandler(testLogger(t), &fakeIngest{})

  w := postEvent(t, h, []byte("not json"))

  if w.Code != http.StatusInternalServerError {
    t.Fatalf("status: want=500 got=%d", w.Code)
  }
  var resp map[string]string
  if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
    t.Fatalf("response body: %v", err)
  }
  if resp["message"] != "Internal server error" {
    t.Fatalf("error body: %v", resp)
  }
}

func TestDecodeStorageEventDirect(t *testing.T) {
  event, err := decodeStorageEvent([]byte(`{"name":"k","size":"3"}`))
  if err != nil {
    t.Fatalf("decodeStorageEvent: %v", err)
  }
  if event.Name != "k" || event.Size != "3" {
    t.Fatalf("event: %+v", event)
  }
}

func TestDecodeStorageEventBadBase64(t *testing.T) {
  if _, err := decodeStorageEvent([]byte(`{"message":{"data":"!!!"}}`)); err == nil {
    t.Fatalf("expected error for invalid base64 payload")
  }
}
