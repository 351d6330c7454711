package repos

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/structa/structa-backend/internal/logger"
  "github.com/structa/structa-backend/internal/types"
)

type SessionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.Session) ([]*types.Session, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Session, error)
  GetByCompanyID(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.Session, error)
  CountByBlueprintIDs(ctx context.Context, tx *gorm.DB, blueprintIDs []uuid.UUID) (int64, error)
  Update(ctx context.Context, tx *gorm.DB, row *types.Session) error
  UpdateProgress(ctx context.Context, tx *gorm.DB, id uuid.UUID, completionPercent int, status string) error
  FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type sessionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
  repoLog := baseLog.With("repo", "SessionRepo")
  return &sessionRepo{db: db, log: repoLog}
}

func (r *sessionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Session) ([]*types.Session, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.Session{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *sessionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Session, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Session
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

func (r *sessionRepo) GetByCompanyID(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.Session, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Session
  if companyID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("company_id = ?", companyID).
    Order("updated_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *sessionRepo) CountByBlueprintIDs(ctx context.Context, tx *gorm.DB, blueprintIDs []uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var count int64
  if len(blueprintIDs) == 0 {
    return 0, nil
  }

  if err := transaction.WithContext(ctx).
    Model(&types.Session{}).
    Where("blueprint_id IN ?", blueprintIDs).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (r *sessionRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Session) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  return transaction.WithContext(ctx).Save(row).Error
}

func (r *sessionRepo) UpdateProgress(ctx context.Context, tx *gorm.DB, id uuid.UUID, completionPercent int, status string) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  return transaction.WithContext(ctx).
    Model(&types.Session{}).
    Where("id = ?", id).
    Updates(map[string]interface{}{
      "completion_percent": completionPercent,
      "status":             status,
      "updated_at":         time.Now(),
    }).Error
}

func (r *sessionRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(ids) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Delete(&types.Session{}).Error
}
