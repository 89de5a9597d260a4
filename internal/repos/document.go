package repos

import (
  "context"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/docuchat/backend/internal/logger"
  "github.com/docuchat/backend/internal/types"
)

type DocumentRepo interface {
  Create(ctx context.Context, tx *gorm.DB, doc *types.Document) error
  Get(ctx context.Context, tx *gorm.DB, userID, documentID string) (*types.Document, error)
  ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.Document, error)
  SetStatus(ctx context.Context, tx *gorm.DB, userID, documentID, status string) error
  SetConversations(ctx context.Context, tx *gorm.DB, userID, documentID string, conversations datatypes.JSON) error
}

type documentRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
  repoLog := baseLog.With("repo", "DocumentRepo")
  return &documentRepo{db: db, log: repoLog}
}

func (r *documentRepo) Create(ctx context.Context, tx *gorm.DB, doc *types.Document) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).Create(doc).Error; err != nil {
    return err
  }
  return nil
}

func (r *documentRepo) Get(ctx context.Context, tx *gorm.DB, userID, documentID string) (*types.Document, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.Document
  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND document_id = ?", userID, documentID).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *documentRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.Document, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Document
  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *documentRepo) SetStatus(ctx context.Context, tx *gorm.DB, userID, documentID, status string) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).
    Model(&types.Document{}).
    Where("user_id = ? AND document_id = ?", userID, documentID).
    Update("docstatus", status).Error; err != nil {
    return err
  }
  return nil
}

func (r *documentRepo) SetConversations(ctx context.Context, tx *gorm.DB, userID, documentID string, conversations datatypes.JSON) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).
    Model(&types.Document{}).
    Where("user_id = ? AND document_id = ?", userID, documentID).
    Update("conversations", conversations).Error; err != nil {
    return err
  }
  return nil
}
