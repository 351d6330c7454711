package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/structa/structa-backend/internal/logger"
  "github.com/structa/structa-backend/internal/types"
)

type CompanyRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.Company) ([]*types.Company, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Company, error)
}

type companyRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCompanyRepo(db *gorm.DB, baseLog *logger.Logger) CompanyRepo {
  repoLog := baseLog.With("repo", "CompanyRepo")
  return &companyRepo{db: db, log: repoLog}
}

func (r *companyRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Company) ([]*types.Company, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.Company{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *companyRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Company, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Company
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
