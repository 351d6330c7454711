package repos

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "github.com/structa/structa-backend/internal/logger"
  "github.com/structa/structa-backend/internal/types"
)

type SessionFieldValueRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.SessionFieldValue) ([]*types.SessionFieldValue, error)
  Upsert(ctx context.Context, tx *gorm.DB, row *types.SessionFieldValue) error
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.SessionFieldValue, error)
  GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.SessionFieldValue, error)
  GetUnreviewedBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.SessionFieldValue, error)
  MarkReviewed(ctx context.Context, tx *gorm.DB, id uuid.UUID, clearValue bool) error
  MarkAllReviewed(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, clearValue bool) (int64, error)
  FullDeleteBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) error
}

type sessionFieldValueRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSessionFieldValueRepo(db *gorm.DB, baseLog *logger.Logger) SessionFieldValueRepo {
  repoLog := baseLog.With("repo", "SessionFieldValueRepo")
  return &sessionFieldValueRepo{db: db, log: repoLog}
}

func (r *sessionFieldValueRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.SessionFieldValue) ([]*types.SessionFieldValue, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.SessionFieldValue{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

// Upsert writes the (session_id, field_id) row, replacing value, provenance
// and review state when the pair already exists.
func (r *sessionFieldValueRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.SessionFieldValue) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  return transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "session_id"}, {Name: "field_id"}},
      DoUpdates: clause.AssignmentColumns([]string{"value", "source_id", "confidence", "reviewed", "updated_at"}),
    }).
    Create(row).Error
}

func (r *sessionFieldValueRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.SessionFieldValue, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.SessionFieldValue
  if len(ids) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *sessionFieldValueRepo) GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.SessionFieldValue, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.SessionFieldValue
  if err := transaction.WithContext(ctx).
    Where("session_id = ?", sessionID).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// GetUnreviewedBySessionID returns pending suggestions in section order then
// field order so the review queue renders deterministically.
func (r *sessionFieldValueRepo) GetUnreviewedBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.SessionFieldValue, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.SessionFieldValue
  if err := transaction.WithContext(ctx).
    Model(&types.SessionFieldValue{}).
    Select("session_field_value.*").
    Joins("JOIN field ON field.id = session_field_value.field_id").
    Joins("JOIN section ON section.id = field.section_id").
    Where("session_field_value.session_id = ? AND session_field_value.reviewed = ?", sessionID, false).
    Order("section.order_index ASC, field.order_index ASC").
    Preload("Field").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *sessionFieldValueRepo) MarkReviewed(ctx context.Context, tx *gorm.DB, id uuid.UUID, clearValue bool) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  updates := map[string]interface{}{
    "reviewed":   true,
    "updated_at": time.Now(),
  }
  if clearValue {
    updates["value"] = nil
  }

  return transaction.WithContext(ctx).
    Model(&types.SessionFieldValue{}).
    Where("id = ?", id).
    Updates(updates).Error
}

func (r *sessionFieldValueRepo) MarkAllReviewed(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, clearValue bool) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  updates := map[string]interface{}{
    "reviewed":   true,
    "updated_at": time.Now(),
  }
  if clearValue {
    updates["value"] = nil
  }

  result := transaction.WithContext(ctx).
    Model(&types.SessionFieldValue{}).
    Where("session_id = ? AND reviewed = ?", sessionID, false).
    Updates(updates)
  if result.Error != nil {
    return 0, result.Error
  }
  return result.RowsAffected, nil
}

func (r *sessionFieldValueRepo) FullDeleteBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(sessionIDs) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Where("session_id IN ?", sessionIDs).
    Delete(&types.SessionFieldValue{}).Error
}
