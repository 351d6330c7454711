package repos

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/structa/structa-backend/internal/logger"
  "github.com/structa/structa-backend/internal/types"
)

type BlueprintRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.Blueprint) ([]*types.Blueprint, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Blueprint, error)
  GetByCompanyID(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.Blueprint, error)
  NameExistsInCompany(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
  Update(ctx context.Context, tx *gorm.DB, row *types.Blueprint) error
  UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) (int64, error)
  FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type blueprintRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewBlueprintRepo(db *gorm.DB, baseLog *logger.Logger) BlueprintRepo {
  repoLog := baseLog.With("repo", "BlueprintRepo")
  return &blueprintRepo{db: db, log: repoLog}
}

func (r *blueprintRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Blueprint) ([]*types.Blueprint, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.Blueprint{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *blueprintRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Blueprint, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Blueprint
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

func (r *blueprintRepo) GetByCompanyID(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.Blueprint, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Blueprint
  if companyID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("company_id = ?", companyID).
    Order("name ASC, version DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *blueprintRepo) NameExistsInCompany(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  query := transaction.WithContext(ctx).
    Model(&types.Blueprint{}).
    Where("company_id = ? AND name = ?", companyID, name)
  if excludeID != uuid.Nil {
    query = query.Where("id <> ?", excludeID)
  }

  var count int64
  if err := query.Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}

func (r *blueprintRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Blueprint) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  return transaction.WithContext(ctx).Save(row).Error
}

func (r *blueprintRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  result := transaction.WithContext(ctx).
    Model(&types.Blueprint{}).
    Where("id = ?", id).
    Updates(map[string]interface{}{
      "status":     status,
      "updated_at": time.Now(),
    })
  if result.Error != nil {
    return 0, result.Error
  }
  return result.RowsAffected, nil
}

func (r *blueprintRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(ids) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Delete(&types.Blueprint{}).Error
}
