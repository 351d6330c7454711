package db

import (
  "fmt"

  "gorm.io/driver/postgres"
  "gorm.io/gorm"

  "github.com/structa/structa-backend/internal/logger"
  "github.com/structa/structa-backend/internal/types"
  "github.com/structa/structa-backend/internal/utils"
)

type PostgresService struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost")
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432")
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres")
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "")
  postgresName := utils.GetEnv("POSTGRES_NAME", "structa")
  log.Debug("Postgres environment loaded", "host", postgresHost, "port", postgresPort, "name", postgresName)

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  log.Info("Connecting to Postgres...")
  db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    log.Error("Failed to connect to Postgres", "error", err)
    return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
  }

  if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
    log.Error("Failed to enable uuid-ossp extension", "error", err)
    return nil, fmt.Errorf("Failed to enable uuid-ossp extension: %w", err)
  }
  log.Info("uuid-ossp extension enabled")

  return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Auto migrating postgres tables...")
  err := s.db.AutoMigrate(
    &types.Company{},
    &types.User{},
    &types.UserToken{},
    &types.Blueprint{},
    &types.Section{},
    &types.Field{},
    &types.Session{},
    &types.SessionFieldValue{},
  )
  if err != nil {
    s.log.Error("Auto migration failed", "error", err)
    return fmt.Errorf("Auto migration failed: %w", err)
  }
  s.log.Info("Auto migration complete")
  return nil
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}
