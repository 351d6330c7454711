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

type AddFieldInput struct {
  Key         string `json:"key"`
  Type        string `json:"type"`
  Label       string `json:"label"`
  HelpText    string `json:"help_text"`
  Placeholder string `json:"placeholder"`
  Required    bool   `json:"required"`
  Span        int    `json:"span"`
}

type UpdateFieldInput struct {
  Key         *string `json:"key"`
  Type        *string `json:"type"`
  Label       *string `json:"label"`
  HelpText    *string `json:"help_text"`
  Placeholder *string `json:"placeholder"`
  Required    *bool   `json:"required"`
  Span        *int    `json:"span"`
}

type FieldService interface {
  AddField(ctx context.Context, sectionID uuid.UUID, input AddFieldInput) (*types.Field, error)
  UpdateField(ctx context.Context, id uuid.UUID, input UpdateFieldInput) (*types.Field, error)
  DeleteField(ctx context.Context, id uuid.UUID) error
  ReorderFields(ctx context.Context, sectionID uuid.UUID, orderedIDs []uuid.UUID) error
}

type fieldService struct {
  db            *gorm.DB
  log           *logger.Logger
  blueprintRepo repos.BlueprintRepo
  sectionRepo   repos.SectionRepo
  fieldRepo     repos.FieldRepo
}

func NewFieldService(
  db *gorm.DB,
  baseLog *logger.Logger,
  blueprintRepo repos.BlueprintRepo,
  sectionRepo repos.SectionRepo,
  fieldRepo repos.FieldRepo,
) FieldService {
  serviceLog := baseLog.With("service", "FieldService")
  return &fieldService{
    db:            db,
    log:           serviceLog,
    blueprintRepo: blueprintRepo,
    sectionRepo:   sectionRepo,
    fieldRepo:     fieldRepo,
  }
}

func validFieldType(t string) bool {
  switch t {
  case types.FieldTypeShortText, types.FieldTypeLongText, types.FieldTypeToggle:
    return true
  default:
    return false
  }
}

func validSpan(span int) bool {
  return span == 1 || span == 2
}

// editableSection walks section -> blueprint to confirm company ownership and
// draft status; section rows have no company column of their own.
func (s *fieldService) editableSection(ctx context.Context, tx *gorm.DB, sectionID, companyID uuid.UUID) (*types.Section, error) {
  sections, err := s.sectionRepo.GetByIDs(ctx, tx, []uuid.UUID{sectionID})
  if err != nil {
    return nil, fmt.Errorf("load section: %w", err)
  }
  if len(sections) == 0 || sections[0] == nil {
    return nil, apierr.NotFound("section")
  }
  section := sections[0]

  blueprints, err := s.blueprintRepo.GetByIDs(ctx, tx, []uuid.UUID{section.BlueprintID})
  if err != nil {
    return nil, fmt.Errorf("load blueprint: %w", err)
  }
  if len(blueprints) == 0 || blueprints[0] == nil || blueprints[0].CompanyID != companyID {
    return nil, apierr.NotFound("section")
  }
  if blueprints[0].Status != types.BlueprintStatusDraft {
    return nil, apierr.Validation("blueprint_not_draft", fmt.Errorf("Fields can only be edited on a draft blueprint"))
  }
  return section, nil
}

func (s *fieldService) AddField(ctx context.Context, sectionID uuid.UUID, input AddFieldInput) (*types.Field, error) {
  rd, err := mutatingCaller(ctx)
  if err != nil {
    return nil, err
  }

  input.Key = strings.TrimSpace(input.Key)
  input.Label = strings.TrimSpace(input.Label)
  if input.Key == "" {
    return nil, apierr.Validation("field_key_required", fmt.Errorf("A field key is required"))
  }
  if input.Label == "" {
    return nil, apierr.Validation("field_label_required", fmt.Errorf("A field label is required"))
  }
  if !validFieldType(input.Type) {
    return nil, apierr.Validation("field_type_invalid", fmt.Errorf("Field type %q is not supported", input.Type))
  }
  if input.Span == 0 {
    input.Span = 1
  }
  if !validSpan(input.Span) {
    return nil, apierr.Validation("field_span_invalid", fmt.Errorf("Field span must be 1 or 2"))
  }

  var result *types.Field
  txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, err := s.editableSection(ctx, tx, sectionID, rd.CompanyID); err != nil {
      return err
    }

    maxOrder, err := s.fieldRepo.MaxOrderIndex(ctx, tx, sectionID)
    if err != nil {
      return fmt.Errorf("resolve field order: %w", err)
    }

    field := &types.Field{
      ID:          uuid.New(),
      SectionID:   sectionID,
      Key:         input.Key,
      Type:        input.Type,
      Label:       input.Label,
      HelpText:    input.HelpText,
      Placeholder: input.Placeholder,
      Required:    input.Required,
      Span:        input.Span,
      OrderIndex:  maxOrder + 1,
    }
    if _, err := s.fieldRepo.Create(ctx, tx, []*types.Field{field}); err != nil {
      return fmt.Errorf("create field: %w", err)
    }
    result = field
    return nil
  })
  if txErr != nil {
    return nil, txErr
  }
  return result, nil
}

func (s *fieldService) UpdateField(ctx context.Context, id uuid.UUID, input UpdateFieldInput) (*types.Field, error) {
  rd, err := mutatingCaller(ctx)
  if err != nil {
    return nil, err
  }

  var result *types.Field
  txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    fields, err := s.fieldRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
    if err != nil {
      return fmt.Errorf("load field: %w", err)
    }
    if len(fields) == 0 || fields[0] == nil {
      return apierr.NotFound("field")
    }
    field := fields[0]
    if _, err := s.editableSection(ctx, tx, field.SectionID, rd.CompanyID); err != nil {
      return err
    }

    if input.Key != nil {
      key := strings.TrimSpace(*input.Key)
      if key == "" {
        return apierr.Validation("field_key_required", fmt.Errorf("A field key is required"))
      }
      field.Key = key
    }
    if input.Type != nil {
      if !validFieldType(*input.Type) {
        return apierr.Validation("field_type_invalid", fmt.Errorf("Field type %q is not supported", *input.Type))
      }
      field.Type = *input.Type
    }
    if input.Label != nil {
      label := strings.TrimSpace(*input.Label)
      if label == "" {
        return apierr.Validation("field_label_required", fmt.Errorf("A field label is required"))
      }
      field.Label = label
    }
    if input.HelpText != nil {
      field.HelpText = *input.HelpText
    }
    if input.Placeholder != nil {
      field.Placeholder = *input.Placeholder
    }
    if input.Required != nil {
      field.Required = *input.Required
    }
    if input.Span != nil {
      if !validSpan(*input.Span) {
        return apierr.Validation("field_span_invalid", fmt.Errorf("Field span must be 1 or 2"))
      }
      field.Span = *input.Span
    }

    if err := s.fieldRepo.Update(ctx, tx, field); err != nil {
      return fmt.Errorf("update field: %w", err)
    }
    result = field
    return nil
  })
  if txErr != nil {
    return nil, txErr
  }
  return result, nil
}

func (s *fieldService) DeleteField(ctx context.Context, id uuid.UUID) error {
  rd, err := mutatingCaller(ctx)
  if err != nil {
    return err
  }

  return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    fields, err := s.fieldRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
    if err != nil {
      return fmt.Errorf("load field: %w", err)
    }
    if len(fields) == 0 || fields[0] == nil {
      return apierr.NotFound("field")
    }
    field := fields[0]
    if _, err := s.editableSection(ctx, tx, field.SectionID, rd.CompanyID); err != nil {
      return err
    }

    if err := s.fieldRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{field.ID}); err != nil {
      return fmt.Errorf("delete field: %w", err)
    }
    return nil
  })
}

func (s *fieldService) ReorderFields(ctx context.Context, sectionID uuid.UUID, orderedIDs []uuid.UUID) error {
  rd, err := mutatingCaller(ctx)
  if err != nil {
    return err
  }
  if len(orderedIDs) == 0 {
    return apierr.Validation("field_order_required", fmt.Errorf("An ordered list of field ids is required"))
  }

  return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, err := s.editableSection(ctx, tx, sectionID, rd.CompanyID); err != nil {
      return err
    }

    fields, err := s.fieldRepo.GetBySectionIDs(ctx, tx, []uuid.UUID{sectionID})
    if err != nil {
      return fmt.Errorf("load fields: %w", err)
    }
    owned := make(map[uuid.UUID]struct{}, len(fields))
    for _, field := range fields {
      owned[field.ID] = struct{}{}
    }
    if len(orderedIDs) != len(fields) {
      return apierr.Validation("field_order_incomplete", fmt.Errorf("Reorder must list every field of the section exactly once"))
    }

    seen := make(map[uuid.UUID]struct{}, len(orderedIDs))
    for idx, fieldID := range orderedIDs {
      if _, ok := owned[fieldID]; !ok {
        return apierr.NotFound("field")
      }
      if _, dup := seen[fieldID]; dup {
        return apierr.Validation("field_order_duplicate", fmt.Errorf("Field listed twice in reorder"))
      }
      seen[fieldID] = struct{}{}
      if err := s.fieldRepo.UpdateOrderIndex(ctx, tx, fieldID, idx); err != nil {
        return fmt.Errorf("update field order: %w", err)
      }
    }
    return nil
  })
}
