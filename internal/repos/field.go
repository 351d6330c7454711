package repos

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/structa/structa-backend/internal/logger"
  "github.com/structa/structa-backend/internal/types"
)

type FieldRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.Field) ([]*types.Field, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Field, error)
  GetBySectionIDs(ctx context.Context, tx *gorm.DB, sectionIDs []uuid.UUID) ([]*types.Field, error)
  GetByBlueprintID(ctx context.Context, tx *gorm.DB, blueprintID uuid.UUID) ([]*types.Field, error)
  GetRequiredByBlueprintID(ctx context.Context, tx *gorm.DB, blueprintID uuid.UUID) ([]*types.Field, error)
  CountByBlueprintID(ctx context.Context, tx *gorm.DB, blueprintID uuid.UUID) (int64, error)
  MaxOrderIndex(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID) (int, error)
  Update(ctx context.Context, tx *gorm.DB, row *types.Field) error
  UpdateOrderIndex(ctx context.Context, tx *gorm.DB, id uuid.UUID, orderIndex int) error
  FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
  FullDeleteBySectionIDs(ctx context.Context, tx *gorm.DB, sectionIDs []uuid.UUID) error
}

type fieldRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewFieldRepo(db *gorm.DB, baseLog *logger.Logger) FieldRepo {
  repoLog := baseLog.With("repo", "FieldRepo")
  return &fieldRepo{db: db, log: repoLog}
}

func (r *fieldRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Field) ([]*types.Field, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.Field{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *fieldRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Field, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Field
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

func (r *fieldRepo) GetBySectionIDs(ctx context.Context, tx *gorm.DB, sectionIDs []uuid.UUID) ([]*types.Field, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Field
  if len(sectionIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("section_id IN ?", sectionIDs).
    Order("order_index ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// GetByBlueprintID walks fields through their owning sections, ordered by
// section order then field order.
func (r *fieldRepo) GetByBlueprintID(ctx context.Context, tx *gorm.DB, blueprintID uuid.UUID) ([]*types.Field, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Field
  if err := transaction.WithContext(ctx).
    Model(&types.Field{}).
    Select("field.*").
    Joins("JOIN section ON section.id = field.section_id").
    Where("section.blueprint_id = ?", blueprintID).
    Order("section.order_index ASC, field.order_index ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *fieldRepo) GetRequiredByBlueprintID(ctx context.Context, tx *gorm.DB, blueprintID uuid.UUID) ([]*types.Field, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Field
  if err := transaction.WithContext(ctx).
    Model(&types.Field{}).
    Select("field.*").
    Joins("JOIN section ON section.id = field.section_id").
    Where("section.blueprint_id = ? AND field.required = ?", blueprintID, true).
    Order("section.order_index ASC, field.order_index ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *fieldRepo) CountByBlueprintID(ctx context.Context, tx *gorm.DB, blueprintID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.Field{}).
    Joins("JOIN section ON section.id = field.section_id").
    Where("section.blueprint_id = ?", blueprintID).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (r *fieldRepo) MaxOrderIndex(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID) (int, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var max *int
  if err := transaction.WithContext(ctx).
    Model(&types.Field{}).
    Where("section_id = ?", sectionID).
    Select("MAX(order_index)").
    Scan(&max).Error; err != nil {
    return -1, err
  }
  if max == nil {
    return -1, nil
  }
  return *max, nil
}

func (r *fieldRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Field) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  return transaction.WithContext(ctx).Save(row).Error
}

func (r *fieldRepo) UpdateOrderIndex(ctx context.Context, tx *gorm.DB, id uuid.UUID, orderIndex int) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  return transaction.WithContext(ctx).
    Model(&types.Field{}).
    Where("id = ?", id).
    Updates(map[string]interface{}{
      "order_index": orderIndex,
      "updated_at":  time.Now(),
    }).Error
}

func (r *fieldRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(ids) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Delete(&types.Field{}).Error
}

func (r *fieldRepo) FullDeleteBySectionIDs(ctx context.Context, tx *gorm.DB, sectionIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(sectionIDs) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Where("section_id IN ?", sectionIDs).
    Delete(&types.Field{}).Error
}
