package types

import (
  "gorm.io/datatypes"
)

// ConversationMemory is the persisted turn-by-turn history for one
// conversation. Messages and History are JSON arrays; History is an auxiliary
// field kept alongside the messages.
type ConversationMemory struct {
  SessionID string         `gorm:"column:session_id;primaryKey" json:"SessionId"`
  Messages  datatypes.JSON `gorm:"column:messages;type:jsonb" json:"messages"`
  History   datatypes.JSON `gorm:"column:history;type:jsonb" json:"History"`
}

func (ConversationMemory) TableName() string { return "conversation_memory" }

const (
  MessageRoleHuman = "human"
  MessageRoleAI    = "ai"
)

type Message struct {
  Role    string `json:"role"`
  Content string `json:"content"`
}
