package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/structa/structa-backend/internal/apierr"
  redisclient "github.com/structa/structa-backend/internal/clients/redis"
  "github.com/structa/structa-backend/internal/logger"
  "github.com/structa/structa-backend/internal/normalization"
  "github.com/structa/structa-backend/internal/observability"
  "github.com/structa/structa-backend/internal/repos"
  "github.com/structa/structa-backend/internal/types"
)

type UpdateBlueprintInput struct {
  Name        *string `json:"name"`
  Description *string `json:"description"`
}

type BlueprintService interface {
  CreateBlueprint(ctx context.Context, tx *gorm.DB, name, description string) (*types.Blueprint, error)
  GetCompanyBlueprints(ctx context.Context, tx *gorm.DB) ([]*types.Blueprint, error)
  GetBlueprintTree(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Blueprint, error)
  UpdateBlueprint(ctx context.Context, id uuid.UUID, input UpdateBlueprintInput) (*types.Blueprint, error)
  DeleteBlueprint(ctx context.Context, id uuid.UUID) error
  DuplicateBlueprint(ctx context.Context, sourceID uuid.UUID, newName string) (*types.Blueprint, error)
  PublishBlueprint(ctx context.Context, id uuid.UUID) (*types.Blueprint, error)
}

type blueprintService struct {
  db            *gorm.DB
  log           *logger.Logger
  blueprintRepo repos.BlueprintRepo
  sectionRepo   repos.SectionRepo
  fieldRepo     repos.FieldRepo
  sessionRepo   repos.SessionRepo
  cache         redisclient.BlueprintCache
}

func NewBlueprintService(
  db *gorm.DB,
  baseLog *logger.Logger,
  blueprintRepo repos.BlueprintRepo,
  sectionRepo repos.SectionRepo,
  fieldRepo repos.FieldRepo,
  sessionRepo repos.SessionRepo,
  cache redisclient.BlueprintCache,
) BlueprintService {
  serviceLog := baseLog.With("service", "BlueprintService")
  return &blueprintService{
    db:            db,
    log:           serviceLog,
    blueprintRepo: blueprintRepo,
    sectionRepo:   sectionRepo,
    fieldRepo:     fieldRepo,
    sessionRepo:   sessionRepo,
    cache:         cache,
  }
}

// getOwnedBlueprint loads one blueprint and hides any row that belongs to
// another company behind the same not-found.
func (s *blueprintService) getOwnedBlueprint(ctx context.Context, tx *gorm.DB, id, companyID uuid.UUID) (*types.Blueprint, error) {
  rows, err := s.blueprintRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
  if err != nil {
    return nil, fmt.Errorf("load blueprint: %w", err)
  }
  if len(rows) == 0 || rows[0] == nil || rows[0].CompanyID != companyID {
    return nil, apierr.NotFound("blueprint")
  }
  return rows[0], nil
}

func (s *blueprintService) invalidateCompanyCache(ctx context.Context, companyID uuid.UUID) {
  if s.cache == nil {
    return
  }
  if err := s.cache.InvalidateCompany(ctx, companyID.String()); err != nil {
    s.log.Warn("Blueprint cache invalidation failed", "error", err, "company_id", companyID)
  }
}

func (s *blueprintService) CreateBlueprint(ctx context.Context, tx *gorm.DB, name, description string) (*types.Blueprint, error) {
  rd, err := mutatingCaller(ctx)
  if err != nil {
    return nil, err
  }

  name = normalization.ParseName(name)
  if name == "" {
    return nil, apierr.Validation("blueprint_name_required", fmt.Errorf("A blueprint name is required"))
  }

  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  exists, err := s.blueprintRepo.NameExistsInCompany(ctx, transaction, rd.CompanyID, name, uuid.Nil)
  if err != nil {
    return nil, fmt.Errorf("check blueprint name: %w", err)
  }
  if exists {
    return nil, apierr.Conflict("blueprint_name_taken", fmt.Errorf("A blueprint named %q already exists", name))
  }

  blueprint := &types.Blueprint{
    ID:          uuid.New(),
    CompanyID:   rd.CompanyID,
    Name:        name,
    Description: description,
    Version:     1,
    Status:      types.BlueprintStatusDraft,
  }
  if _, err := s.blueprintRepo.Create(ctx, transaction, []*types.Blueprint{blueprint}); err != nil {
    s.log.Error("CreateBlueprint failed", "error", err, "company_id", rd.CompanyID)
    return nil, fmt.Errorf("create blueprint: %w", err)
  }

  s.invalidateCompanyCache(ctx, rd.CompanyID)
  return blueprint, nil
}

func (s *blueprintService) GetCompanyBlueprints(ctx context.Context, tx *gorm.DB) ([]*types.Blueprint, error) {
  rd, err := caller(ctx)
  if err != nil {
    return nil, err
  }

  if s.cache != nil && tx == nil {
    if rows, ok := s.cache.GetCompanyList(ctx, rd.CompanyID.String()); ok {
      observability.Current().IncCacheLookup("hit")
      return rows, nil
    }
    observability.Current().IncCacheLookup("miss")
  }

  rows, err := s.blueprintRepo.GetByCompanyID(ctx, tx, rd.CompanyID)
  if err != nil {
    s.log.Error("GetCompanyBlueprints failed", "error", err, "company_id", rd.CompanyID)
    return nil, fmt.Errorf("get company blueprints: %w", err)
  }

  if s.cache != nil && tx == nil {
    if err := s.cache.SetCompanyList(ctx, rd.CompanyID.String(), rows); err != nil {
      s.log.Warn("Blueprint cache write failed", "error", err, "company_id", rd.CompanyID)
    }
  }
  return rows, nil
}

func (s *blueprintService) GetBlueprintTree(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Blueprint, error) {
  rd, err := caller(ctx)
  if err != nil {
    return nil, err
  }

  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  blueprint, err := s.getOwnedBlueprint(ctx, transaction, id, rd.CompanyID)
  if err != nil {
    return nil, err
  }

  sections, err := s.sectionRepo.GetByBlueprintIDs(ctx, transaction, []uuid.UUID{blueprint.ID})
  if err != nil {
    return nil, fmt.Errorf("load sections: %w", err)
  }
  sectionIDs := make([]uuid.UUID, 0, len(sections))
  for _, section := range sections {
    sectionIDs = append(sectionIDs, section.ID)
  }
  fields, err := s.fieldRepo.GetBySectionIDs(ctx, transaction, sectionIDs)
  if err != nil {
    return nil, fmt.Errorf("load fields: %w", err)
  }

  fieldsBySection := make(map[uuid.UUID][]types.Field, len(sections))
  for _, field := range fields {
    fieldsBySection[field.SectionID] = append(fieldsBySection[field.SectionID], *field)
  }
  blueprint.Sections = make([]types.Section, 0, len(sections))
  for _, section := range sections {
    section.Fields = fieldsBySection[section.ID]
    blueprint.Sections = append(blueprint.Sections, *section)
  }
  return blueprint, nil
}

func (s *blueprintService) UpdateBlueprint(ctx context.Context, id uuid.UUID, input UpdateBlueprintInput) (*types.Blueprint, error) {
  rd, err := mutatingCaller(ctx)
  if err != nil {
    return nil, err
  }

  var result *types.Blueprint
  txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    blueprint, err := s.getOwnedBlueprint(ctx, tx, id, rd.CompanyID)
    if err != nil {
      return err
    }
    if blueprint.Status == types.BlueprintStatusArchived {
      return apierr.Validation("blueprint_archived", fmt.Errorf("An archived blueprint cannot be edited"))
    }

    if input.Name != nil {
      name := normalization.ParseName(*input.Name)
      if name == "" {
        return apierr.Validation("blueprint_name_required", fmt.Errorf("A blueprint name is required"))
      }
      if name != blueprint.Name {
        exists, err := s.blueprintRepo.NameExistsInCompany(ctx, tx, rd.CompanyID, name, blueprint.ID)
        if err != nil {
          return fmt.Errorf("check blueprint name: %w", err)
        }
        if exists {
          return apierr.Conflict("blueprint_name_taken", fmt.Errorf("A blueprint named %q already exists", name))
        }
        blueprint.Name = name
      }
    }
    if input.Description != nil {
      blueprint.Description = *input.Description
    }

    if err := s.blueprintRepo.Update(ctx, tx, blueprint); err != nil {
      return fmt.Errorf("update blueprint: %w", err)
    }
    result = blueprint
    return nil
  })
  if txErr != nil {
    return nil, txErr
  }

  s.invalidateCompanyCache(ctx, rd.CompanyID)
  return result, nil
}

// DeleteBlueprint removes the blueprint and its whole section/field tree.
// Only legal while no session references the blueprint.
func (s *blueprintService) DeleteBlueprint(ctx context.Context, id uuid.UUID) error {
  rd, err := mutatingCaller(ctx)
  if err != nil {
    return err
  }

  txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    blueprint, err := s.getOwnedBlueprint(ctx, tx, id, rd.CompanyID)
    if err != nil {
      return err
    }

    sessionCount, err := s.sessionRepo.CountByBlueprintIDs(ctx, tx, []uuid.UUID{blueprint.ID})
    if err != nil {
      return fmt.Errorf("count blueprint sessions: %w", err)
    }
    if sessionCount > 0 {
      return apierr.Conflict("blueprint_in_use", fmt.Errorf("Blueprint has sessions referencing it and cannot be deleted"))
    }

    sections, err := s.sectionRepo.GetByBlueprintIDs(ctx, tx, []uuid.UUID{blueprint.ID})
    if err != nil {
      return fmt.Errorf("load sections: %w", err)
    }
    sectionIDs := make([]uuid.UUID, 0, len(sections))
    for _, section := range sections {
      sectionIDs = append(sectionIDs, section.ID)
    }
    if err := s.fieldRepo.FullDeleteBySectionIDs(ctx, tx, sectionIDs); err != nil {
      return fmt.Errorf("delete fields: %w", err)
    }
    if err := s.sectionRepo.FullDeleteByBlueprintIDs(ctx, tx, []uuid.UUID{blueprint.ID}); err != nil {
      return fmt.Errorf("delete sections: %w", err)
    }
    if err := s.blueprintRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{blueprint.ID}); err != nil {
      return fmt.Errorf("delete blueprint: %w", err)
    }
    return nil
  })
  if txErr != nil {
    return txErr
  }

  s.invalidateCompanyCache(ctx, rd.CompanyID)
  return nil
}

// DuplicateBlueprint structurally copies the source into a fresh draft with
// version 1 and the caller-supplied name.
func (s *blueprintService) DuplicateBlueprint(ctx context.Context, sourceID uuid.UUID, newName string) (*types.Blueprint, error) {
  rd, err := mutatingCaller(ctx)
  if err != nil {
    return nil, err
  }

  newName = normalization.ParseName(newName)
  if newName == "" {
    return nil, apierr.Validation("blueprint_name_required", fmt.Errorf("A name for the duplicate is required"))
  }

  var result *types.Blueprint
  txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    source, err := s.getOwnedBlueprint(ctx, tx, sourceID, rd.CompanyID)
    if err != nil {
      return err
    }

    exists, err := s.blueprintRepo.NameExistsInCompany(ctx, tx, rd.CompanyID, newName, uuid.Nil)
    if err != nil {
      return fmt.Errorf("check blueprint name: %w", err)
    }
    if exists {
      return apierr.Conflict("blueprint_name_taken", fmt.Errorf("A blueprint named %q already exists", newName))
    }

    copied, err := copyBlueprintTree(ctx, tx, s.blueprintRepo, s.sectionRepo, s.fieldRepo, source, copyTarget{
      CompanyID:   rd.CompanyID,
      Name:        newName,
      Description: source.Description,
      Status:      types.BlueprintStatusDraft,
      Version:     1,
    })
    if err != nil {
      return err
    }
    result = copied
    return nil
  })
  if txErr != nil {
    s.log.Error("DuplicateBlueprint failed", "error", txErr, "source_id", sourceID)
    return nil, txErr
  }

  observability.Current().IncStructuralCopy()
  s.invalidateCompanyCache(ctx, rd.CompanyID)
  return result, nil
}

// PublishBlueprint drives the draft -> published -> archived lifecycle. A
// draft is published in place; a published blueprint is copied into a new
// published row with version+1 and the original archived, both inside one
// transaction so neither outcome is visible without the other.
func (s *blueprintService) PublishBlueprint(ctx context.Context, id uuid.UUID) (*types.Blueprint, error) {
  rd, err := mutatingCaller(ctx)
  if err != nil {
    return nil, err
  }

  var result *types.Blueprint
  publishKind := "precondition"
  txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    blueprint, err := s.getOwnedBlueprint(ctx, tx, id, rd.CompanyID)
    if err != nil {
      return err
    }

    sectionCount, err := s.sectionRepo.CountByBlueprintID(ctx, tx, blueprint.ID)
    if err != nil {
      return fmt.Errorf("count sections: %w", err)
    }
    if sectionCount == 0 {
      return apierr.Validation("blueprint_has_no_sections", fmt.Errorf("A blueprint needs at least one section to be published"))
    }
    fieldCount, err := s.fieldRepo.CountByBlueprintID(ctx, tx, blueprint.ID)
    if err != nil {
      return fmt.Errorf("count fields: %w", err)
    }
    if fieldCount == 0 {
      return apierr.Validation("blueprint_has_no_fields", fmt.Errorf("A blueprint needs at least one field to be published"))
    }

    switch blueprint.Status {
    case types.BlueprintStatusDraft:
      publishKind = "in_place"
      blueprint.Status = types.BlueprintStatusPublished
      if blueprint.Version < 1 {
        blueprint.Version = 1
      }
      if err := s.blueprintRepo.Update(ctx, tx, blueprint); err != nil {
        return fmt.Errorf("publish draft: %w", err)
      }
      result = blueprint
      return nil

    case types.BlueprintStatusPublished:
      publishKind = "version_bump"
      copied, err := copyBlueprintTree(ctx, tx, s.blueprintRepo, s.sectionRepo, s.fieldRepo, blueprint, copyTarget{
        CompanyID:   rd.CompanyID,
        Name:        blueprint.Name,
        Description: blueprint.Description,
        Status:      types.BlueprintStatusPublished,
        Version:     blueprint.Version + 1,
      })
      if err != nil {
        return err
      }
      // The UPDATE takes the row lock that serializes concurrent bumps of
      // the same source; there is no application-level lock beyond it.
      if _, err := s.blueprintRepo.UpdateStatus(ctx, tx, blueprint.ID, types.BlueprintStatusArchived); err != nil {
        return fmt.Errorf("archive previous version: %w", err)
      }
      result = copied
      return nil

    case types.BlueprintStatusArchived:
      return apierr.Validation("blueprint_archived", fmt.Errorf("An archived blueprint cannot be published"))

    default:
      return apierr.Validation("blueprint_status_unknown", fmt.Errorf("Blueprint is in unknown status %q", blueprint.Status))
    }
  })
  if txErr != nil {
    observability.Current().IncPublish(publishKind, "failed")
    s.log.Error("PublishBlueprint failed", "error", txErr, "blueprint_id", id)
    return nil, txErr
  }

  if publishKind == "version_bump" {
    observability.Current().IncStructuralCopy()
  }
  observability.Current().IncPublish(publishKind, "ok")
  s.invalidateCompanyCache(ctx, rd.CompanyID)
  s.log.Info("Blueprint published", "blueprint_id", result.ID, "version", result.Version, "kind", publishKind)
  return result, nil
}
