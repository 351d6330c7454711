package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/structa/structa-backend/internal/apierr"
  "github.com/structa/structa-backend/internal/logger"
  "github.com/structa/structa-backend/internal/repos"
  "github.com/structa/structa-backend/internal/types"
)

type UserService interface {
  GetMe(ctx context.Context) (*types.User, error)
  GetCompanyUsers(ctx context.Context) ([]*types.User, error)
}

type userService struct {
  db       *gorm.DB
  log      *logger.Logger
  userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo) UserService {
  serviceLog := baseLog.With("service", "UserService")
  return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
  rd, err := caller(ctx)
  if err != nil {
    return nil, err
  }
  users, uErr := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{rd.UserID})
  if uErr != nil {
    return nil, fmt.Errorf("load user: %w", uErr)
  }
  if len(users) == 0 || users[0] == nil {
    return nil, apierr.NotFound("user")
  }
  return users[0], nil
}

func (us *userService) GetCompanyUsers(ctx context.Context) ([]*types.User, error) {
  rd, err := caller(ctx)
  if err != nil {
    return nil, err
  }
  users, uErr := us.userRepo.GetByCompanyID(ctx, nil, rd.CompanyID)
  if uErr != nil {
    us.log.Error("GetCompanyUsers failed", "error", uErr, "company_id", rd.CompanyID)
    return nil, fmt.Errorf("load company users: %w", uErr)
  }
  return users, nil
}
