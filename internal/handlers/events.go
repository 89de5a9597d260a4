package handlers

import (
  "encoding/base64"
  "encoding/json"
  "net/http"
  "net/url"
  "strconv"

  "github.com/gin-gonic/gin"

  "github.com/docuchat/backend/internal/logger"
  "github.com/docuchat/backend/internal/services"
)

type EventsHandler struct {
  log           *logger.Logger
  ingestService services.IngestService
}

func NewEventsHandler(log *logger.Logger, ingestService services.IngestService) *EventsHandler {
  return &EventsHandler{
    log:           log.With("handler", "EventsHandler"),
    ingestService: ingestService,
  }
}

// storageEvent is the object-finalize notification payload. Size arrives as a
// string in GCS notifications.
type storageEvent struct {
  Name string `json:"name"`
  Size string `json:"size"`
}

// pubsubEnvelope is the Pub/Sub push wrapper around a notification.
type pubsubEnvelope struct {
  Message struct {
    Data string `json:"data"`
  } `json:"message"`
}

// POST /events/storage
// Accepts either a bare storage notification or a Pub/Sub push envelope.
func (h *EventsHandler) StorageObjectCreated(c *gin.Context) {
  raw, err := c.GetRawData()
  if err != nil {
    h.log.Error("Failed to read event body", "error", err)
    RespondInternalError(c)
    return
  }

  event, err := decodeStorageEvent(raw)
  if err != nil {
    h.log.Error("Failed to decode storage event", "error", err)
    RespondInternalError(c)
    return
  }

  key, err := url.QueryUnescape(event.Name)
  if err != nil {
    key = event.Name
  }
  size, _ := strconv.ParseInt(event.Size, 10, 64)

  if err := h.ingestService.HandleObjectCreated(c.Request.Context(), key, size); err != nil {
    h.log.Error("Ingestion trigger failed", "key", key, "error", err)
    RespondInternalError(c)
    return
  }
  c.Status(http.StatusOK)
}

func decodeStorageEvent(raw []byte) (*storageEvent, error) {
  var envelope pubsubEnvelope
  if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Message.Data != "" {
    decoded, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
    if err != nil {
      return nil, err
    }
    raw = decoded
  }
  var event storageEvent
  if err := json.Unmarshal(raw, &event); err != nil {
    return nil, err
  }
  return &event, nil
}
