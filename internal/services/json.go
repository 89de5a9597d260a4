package services

import (
  "encoding/json"
  "gorm.io/datatypes"
  "github.com/docuchat/backend/internal/types"
)

func mustJSON(v any) datatypes.JSON {
  b, err := json.Marshal(v)
  if err != nil {
    return datatypes.JSON([]byte("null"))
  }
  return datatypes.JSON(b)
}

func conversationsFromRaw(raw datatypes.JSON) []types.Conversation {
  out := []types.Conversation{}
  if len(raw) == 0 {
    return out
  }
  _ = json.Unmarshal(raw, &out)
  return out
}

func messagesFromRaw(raw datatypes.JSON) []types.Message {
  out := []types.Message{}
  if len(raw) == 0 {
    return out
  }
  _ = json.Unmarshal(raw, &out)
  return out
}
