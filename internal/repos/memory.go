package repos

import (
  "context"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/docuchat/backend/internal/logger"
  "github.com/docuchat/backend/internal/types"
)

type MemoryRepo interface {
  Create(ctx context.Context, tx *gorm.DB, mem *types.ConversationMemory) error
  Get(ctx context.Context, tx *gorm.DB, sessionID string) (*types.ConversationMemory, error)
  SetMessages(ctx context.Context, tx *gorm.DB, sessionID string, messages datatypes.JSON) error
}

type memoryRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMemoryRepo(db *gorm.DB, baseLog *logger.Logger) MemoryRepo {
  repoLog := baseLog.With("repo", "MemoryRepo")
  return &memoryRepo{db: db, log: repoLog}
}

func (r *memoryRepo) Create(ctx context.Context, tx *gorm.DB, mem *types.ConversationMemory) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).Create(mem).Error; err != nil {
    return err
  }
  return nil
}

func (r *memoryRepo) Get(ctx context.Context, tx *gorm.DB, sessionID string) (*types.ConversationMemory, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.ConversationMemory
  if err := transaction.WithContext(ctx).
    Where("session_id = ?", sessionID).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *memoryRepo) SetMessages(ctx context.Context, tx *gorm.DB, sessionID string, messages datatypes.JSON) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).
    Model(&types.ConversationMemory{}).
    Where("session_id = ?", sessionID).
    Update("messages", messages).Error; err != nil {
    return err
  }
  return nil
}
