package repos

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/structa/structa-backend/internal/logger"
  "github.com/structa/structa-backend/internal/types"
)

type SectionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.Section) ([]*types.Section, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Section, error)
  GetByBlueprintIDs(ctx context.Context, tx *gorm.DB, blueprintIDs []uuid.UUID) ([]*types.Section, error)
  CountByBlueprintID(ctx context.Context, tx *gorm.DB, blueprintID uuid.UUID) (int64, error)
  MaxOrderIndex(ctx context.Context, tx *gorm.DB, blueprintID uuid.UUID) (int, error)
  Update(ctx context.Context, tx *gorm.DB, row *types.Section) error
  UpdateOrderIndex(ctx context.Context, tx *gorm.DB, id uuid.UUID, orderIndex int) error
  FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
  FullDeleteByBlueprintIDs(ctx context.Context, tx *gorm.DB, blueprintIDs []uuid.UUID) error
}

type sectionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSectionRepo(db *gorm.DB, baseLog *logger.Logger) SectionRepo {
  repoLog := baseLog.With("repo", "SectionRepo")
  return &sectionRepo{db: db, log: repoLog}
}

func (r *sectionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Section) ([]*types.Section, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.Section{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *sectionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Section, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Section
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

func (r *sectionRepo) GetByBlueprintIDs(ctx context.Context, tx *gorm.DB, blueprintIDs []uuid.UUID) ([]*types.Section, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Section
  if len(blueprintIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("blueprint_id IN ?", blueprintIDs).
    Order("order_index ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *sectionRepo) CountByBlueprintID(ctx context.Context, tx *gorm.DB, blueprintID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.Section{}).
    Where("blueprint_id = ?", blueprintID).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (r *sectionRepo) MaxOrderIndex(ctx context.Context, tx *gorm.DB, blueprintID uuid.UUID) (int, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var max *int
  if err := transaction.WithContext(ctx).
    Model(&types.Section{}).
    Where("blueprint_id = ?", blueprintID).
    Select("MAX(order_index)").
    Scan(&max).Error; err != nil {
    return -1, err
  }
  if max == nil {
    return -1, nil
  }
  return *max, nil
}

func (r *sectionRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Section) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  return transaction.WithContext(ctx).Save(row).Error
}

func (r *sectionRepo) UpdateOrderIndex(ctx context.Context, tx *gorm.DB, id uuid.UUID, orderIndex int) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  return transaction.WithContext(ctx).
    Model(&types.Section{}).
    Where("id = ?", id).
    Updates(map[string]interface{}{
      "order_index": orderIndex,
      "updated_at":  time.Now(),
    }).Error
}

func (r *sectionRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(ids) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Delete(&types.Section{}).Error
}

func (r *sectionRepo) FullDeleteByBlueprintIDs(ctx context.Context, tx *gorm.DB, blueprintIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(blueprintIDs) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Where("blueprint_id IN ?", blueprintIDs).
    Delete(&types.Section{}).Error
}
