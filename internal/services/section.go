package services

import (
  "context"
  "fmt"
  "strings"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/structa/structa-backend/internal/apierr"
  "github.com/structa/structa-backend/internal/logger"
  "github.com/structa/structa-backend/internal/repos"
  "github.com/structa/structa-backend/internal/types"
)

type UpdateSectionInput struct {
  Title       *string `json:"title"`
  Description *string `json:"description"`
}

type SectionService interface {
  AddSection(ctx context.Context, blueprintID uuid.UUID, title, description string) (*types.Section, error)
  UpdateSection(ctx context.Context, id uuid.UUID, input UpdateSectionInput) (*types.Section, error)
  DeleteSection(ctx context.Context, id uuid.UUID) error
  ReorderSections(ctx context.Context, blueprintID uuid.UUID, orderedIDs []uuid.UUID) error
}

type sectionService struct {
  db            *gorm.DB
  log           *logger.Logger
  blueprintRepo repos.BlueprintRepo
  sectionRepo   repos.SectionRepo
  fieldRepo     repos.FieldRepo
}

func NewSectionService(
  db *gorm.DB,
  baseLog *logger.Logger,
  blueprintRepo repos.BlueprintRepo,
  sectionRepo repos.SectionRepo,
  fieldRepo repos.FieldRepo,
) SectionService {
  serviceLog := baseLog.With("service", "SectionService")
  return &sectionService{
    db:            db,
    log:           serviceLog,
    blueprintRepo: blueprintRepo,
    sectionRepo:   sectionRepo,
    fieldRepo:     fieldRepo,
  }
}

// editableBlueprint resolves the blueprint and rejects structure edits once
// it has been published: sessions bound to a published version rely on its
// structure staying put.
func (s *sectionService) editableBlueprint(ctx context.Context, tx *gorm.DB, blueprintID, companyID uuid.UUID) (*types.Blueprint, error) {
  rows, err := s.blueprintRepo.GetByIDs(ctx, tx, []uuid.UUID{blueprintID})
  if err != nil {
    return nil, fmt.Errorf("load blueprint: %w", err)
  }
  if len(rows) == 0 || rows[0] == nil || rows[0].CompanyID != companyID {
    return nil, apierr.NotFound("blueprint")
  }
  if rows[0].Status != types.BlueprintStatusDraft {
    return nil, apierr.Validation("blueprint_not_draft", fmt.Errorf("Sections can only be edited on a draft blueprint"))
  }
  return rows[0], nil
}

func (s *sectionService) AddSection(ctx context.Context, blueprintID uuid.UUID, title, description string) (*types.Section, error) {
  rd, err := mutatingCaller(ctx)
  if err != nil {
    return nil, err
  }

  title = strings.TrimSpace(title)
  if title == "" {
    return nil, apierr.Validation("section_title_required", fmt.Errorf("A section title is required"))
  }

  var result *types.Section
  txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, err := s.editableBlueprint(ctx, tx, blueprintID, rd.CompanyID); err != nil {
      return err
    }

    maxOrder, err := s.sectionRepo.MaxOrderIndex(ctx, tx, blueprintID)
    if err != nil {
      return fmt.Errorf("resolve section order: %w", err)
    }

    section := &types.Section{
      ID:          uuid.New(),
      BlueprintID: blueprintID,
      OrderIndex:  maxOrder + 1,
      Title:       title,
      Description: description,
    }
    if _, err := s.sectionRepo.Create(ctx, tx, []*types.Section{section}); err != nil {
      return fmt.Errorf("create section: %w", err)
    }
    result = section
    return nil
  })
  if txErr != nil {
    return nil, txErr
  }
  return result, nil
}

func (s *sectionService) UpdateSection(ctx context.Context, id uuid.UUID, input UpdateSectionInput) (*types.Section, error) {
  rd, err := mutatingCaller(ctx)
  if err != nil {
    return nil, err
  }

  var result *types.Section
  txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    sections, err := s.sectionRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
    if err != nil {
      return fmt.Errorf("load section: %w", err)
    }
    if len(sections) == 0 || sections[0] == nil {
      return apierr.NotFound("section")
    }
    section := sections[0]
    if _, err := s.editableBlueprint(ctx, tx, section.BlueprintID, rd.CompanyID); err != nil {
      return err
    }

    if input.Title != nil {
      title := strings.TrimSpace(*input.Title)
      if title == "" {
        return apierr.Validation("section_title_required", fmt.Errorf("A section title is required"))
      }
      section.Title = title
    }
    if input.Description != nil {
      section.Description = *input.Description
    }

    if err := s.sectionRepo.Update(ctx, tx, section); err != nil {
      return fmt.Errorf("update section: %w", err)
    }
    result = section
    return nil
  })
  if txErr != nil {
    return nil, txErr
  }
  return result, nil
}

func (s *sectionService) DeleteSection(ctx context.Context, id uuid.UUID) error {
  rd, err := mutatingCaller(ctx)
  if err != nil {
    return err
  }

  return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    sections, err := s.sectionRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
    if err != nil {
      return fmt.Errorf("load section: %w", err)
    }
    if len(sections) == 0 || sections[0] == nil {
      return apierr.NotFound("section")
    }
    section := sections[0]
    if _, err := s.editableBlueprint(ctx, tx, section.BlueprintID, rd.CompanyID); err != nil {
      return err
    }

    if err := s.fieldRepo.FullDeleteBySectionIDs(ctx, tx, []uuid.UUID{section.ID}); err != nil {
      return fmt.Errorf("delete section fields: %w", err)
    }
    if err := s.sectionRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{section.ID}); err != nil {
      return fmt.Errorf("delete section: %w", err)
    }
    return nil
  })
}

// ReorderSections rewrites order_index to match orderedIDs. Ownership of
// every row is validated inside the same transaction as the writes.
func (s *sectionService) ReorderSections(ctx context.Context, blueprintID uuid.UUID, orderedIDs []uuid.UUID) error {
  rd, err := mutatingCaller(ctx)
  if err != nil {
    return err
  }
  if len(orderedIDs) == 0 {
    return apierr.Validation("section_order_required", fmt.Errorf("An ordered list of section ids is required"))
  }

  return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, err := s.editableBlueprint(ctx, tx, blueprintID, rd.CompanyID); err != nil {
      return err
    }

    sections, err := s.sectionRepo.GetByBlueprintIDs(ctx, tx, []uuid.UUID{blueprintID})
    if err != nil {
      return fmt.Errorf("load sections: %w", err)
    }
    owned := make(map[uuid.UUID]struct{}, len(sections))
    for _, section := range sections {
      owned[section.ID] = struct{}{}
    }
    if len(orderedIDs) != len(sections) {
      return apierr.Validation("section_order_incomplete", fmt.Errorf("Reorder must list every section of the blueprint exactly once"))
    }

    seen := make(map[uuid.UUID]struct{}, len(orderedIDs))
    for idx, sectionID := range orderedIDs {
      if _, ok := owned[sectionID]; !ok {
        return apierr.NotFound("section")
      }
      if _, dup := seen[sectionID]; dup {
        return apierr.Validation("section_order_duplicate", fmt.Errorf("Section listed twice in reorder"))
      }
      seen[sectionID] = struct{}{}
      if err := s.sectionRepo.UpdateOrderIndex(ctx, tx, sectionID, idx); err != nil {
        return fmt.Errorf("update section order: %w", err)
      }
    }
    return nil
  })
}
