package services

import (
  "context"
  "testing"

  "github.com/docuchat/backend/internal/types"
)

func TestHandleObjectCreatedWritesRecordsAndEnqueues(t *testing.T) {
  docRepo := newFakeDocumentRepo()
  memRepo := newFakeMemoryRepo()
  queue := &fakeQueue{}
  svc := NewIngestService(testLogger(t), docRepo, memRepo, queue)

  if err := svc.HandleObjectCreated(context.Background(), "u1/report.pdf", 12345); err != nil {
    t.Fatalf("HandleObjectCreated: %v", err)
  }

  if len(docRepo.docs) != 1 {
    t.Fatalf("document count: want=1 got=%d", len(docRepo.docs))
  }
  var doc *types.Document
  for _, d := range docRepo.docs {
    doc = d
  }
  if doc.UserID != "u1" {
    t.Fatalf("userid: want=%q got=%q", "u1", doc.UserID)
  }
  if doc.Filename != "report.pdf" {
    t.Fatalf("filename: want=%q got=%q", "report.pdf", doc.Filename)
  }
  if doc.Docstatus != types.StatusUploaded {
    t.Fatalf("docstatus: want=%q got=%q", types.StatusUploaded, doc.Docstatus)
  }
  if doc.Filesize != 12345 {
    t.Fatalf("filesize: want=12345 got=%d", doc.Filesize)
  }

  conversations := conversationsFromRaw(doc.Conversations)
  if len(conversations) != 1 {
    t.Fatalf("conversation count: want=1 got=%d", len(conversations))
  }

  mem, ok := memRepo.records[conversations[0].ConversationID]
  if !ok {
    t.Fatalf("no memory record for conversation %s", conversations[0].ConversationID)
  }
  if got := len(messagesFromRaw(mem.Messages)); got != 0 {
    t.Fatalf("new memory record message count: want=0 got=%d", got)
  }

  if len(queue.enqueued) != 1 {
    t.Fatalf("enqueued job count: want=1 got=%d", len(queue.enqueued))
  }
  job := queue.enqueued[0]
  if job.DocumentID != doc.DocumentID {
    t.Fatalf("job documentid: want=%q got=%q", doc.DocumentID, job.DocumentID)
  }
  if job.Key != "u1/report.pdf" {
    t.Fatalf("job key: want=%q got=%q", "u1/report.pdf", job.Key)
  }
  if job.User != "u1" {
    t.Fatalf("job user: want=%q got=%q", "u1", job.User)
  }
}

func TestHandleObjectCreatedRejectsMalformedKey(t *testing.T) {
  svc := NewIngestService(testLogger(t), newFakeDocumentRepo(), newFakeMemoryRepo(), &fakeQueue{})

  if err := svc.HandleObjectCreated(context.Background(), "orphan.pdf", 1); err == nil {
    t.Fatalf("expected error for key without user segment")
  }
}

func TestHandleObjectCreatedDocumentWriteFailureSkipsRest(t *testing.T) {
  docRepo := newFakeDocumentRepo()
  docRepo.createErr = context.DeadlineExceeded
  memRepo := newFakeMemoryRepo()
  queue := &fakeQueue{}
  svc := NewIngestService(testLogger(t), docRepo, memRepo, queue)

  if err := svc.HandleObjectCreated(context.Background(), "u1/report.pdf", 1); err == nil {
    t.Fatalf("expected error when document write fails")
  }
  if len(memRepo.records) != 0 {
    t.Fatalf("memory record written despite document failure")
  }
  if len(queue.enqueued) != 0 {
    t.Fatalf("job enqueued despite document failure")
  }
}
