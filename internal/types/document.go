package types

import (
  "time"
  "gorm.io/datatypes"
)

const (
  StatusUploaded   = "UPLOADED"
  StatusProcessing = "PROCESSING"
  StatusReady      = "READY"
  StatusFailed     = "FAILED"
)

// Document is keyed by (user_id, document_id); the conversations column holds
// the ordered list of conversation summaries as JSON, matching the wire shape.
type Document struct {
  DocumentID    string          `gorm:"column:document_id;primaryKey" json:"documentid"`
  UserID        string          `gorm:"column:user_id;not null;index" json:"userid"`
  Filename      string          `gorm:"column:filename;not null" json:"filename"`
  Created       time.Time       `gorm:"column:created;not null" json:"created"`
  Filesize      int64           `gorm:"column:filesize" json:"filesize"`
  Docstatus     string          `gorm:"column:docstatus;not null" json:"docstatus"`
  Conversations datatypes.JSON  `gorm:"column:conversations;type:jsonb" json:"conversations"`
}

func (Document) TableName() string { return "document" }

type Conversation struct {
  ConversationID string    `json:"conversationid"`
  Created        time.Time `json:"created"`
}
