package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/structa/structa-backend/internal/repos"
  "github.com/structa/structa-backend/internal/types"
)

// copyTarget carries the attributes of the blueprint row the structural copy
// produces. Duplicate passes a fresh draft (version 1, caller-supplied name);
// a version bump passes published, version+1, name copied verbatim.
type copyTarget struct {
  CompanyID   uuid.UUID
  Name        string
  Description string
  Status      string
  Version     int
}

// copyBlueprintTree deep-copies the source blueprint's sections and fields
// under a brand new blueprint row, remapping every identity and preserving
// order_index ordering. Must run inside one transaction: the caller owns tx
// and the rollback semantics.
func copyBlueprintTree(
  ctx context.Context,
  tx *gorm.DB,
  blueprintRepo repos.BlueprintRepo,
  sectionRepo repos.SectionRepo,
  fieldRepo repos.FieldRepo,
  source *types.Blueprint,
  target copyTarget,
) (*types.Blueprint, error) {
  newBlueprint := &types.Blueprint{
    ID:          uuid.New(),
    CompanyID:   target.CompanyID,
    Name:        target.Name,
    Description: target.Description,
    Version:     target.Version,
    Status:      target.Status,
  }
  if _, err := blueprintRepo.Create(ctx, tx, []*types.Blueprint{newBlueprint}); err != nil {
    return nil, fmt.Errorf("create blueprint copy: %w", err)
  }

  sections, err := sectionRepo.GetByBlueprintIDs(ctx, tx, []uuid.UUID{source.ID})
  if err != nil {
    return nil, fmt.Errorf("load source sections: %w", err)
  }

  // Section id remapping lives only for the duration of this copy; there is
  // no persistent cross-version lineage.
  sectionIDMap := make(map[uuid.UUID]uuid.UUID, len(sections))
  newSections := make([]*types.Section, 0, len(sections))
  for _, section := range sections {
    newSection := &types.Section{
      ID:          uuid.New(),
      BlueprintID: newBlueprint.ID,
      OrderIndex:  section.OrderIndex,
      Title:       section.Title,
      Description: section.Description,
    }
    sectionIDMap[section.ID] = newSection.ID
    newSections = append(newSections, newSection)
  }
  if _, err := sectionRepo.Create(ctx, tx, newSections); err != nil {
    return nil, fmt.Errorf("create section copies: %w", err)
  }

  fields, err := fieldRepo.GetByBlueprintID(ctx, tx, source.ID)
  if err != nil {
    return nil, fmt.Errorf("load source fields: %w", err)
  }

  newFields := make([]*types.Field, 0, len(fields))
  for _, field := range fields {
    newSectionID, ok := sectionIDMap[field.SectionID]
    if !ok {
      // A field pointing at an unknown section means the source tree is
      // inconsistent; skip the row rather than failing the whole copy.
      continue
    }
    newFields = append(newFields, &types.Field{
      ID:          uuid.New(),
      SectionID:   newSectionID,
      Key:         field.Key,
      Type:        field.Type,
      Label:       field.Label,
      HelpText:    field.HelpText,
      Placeholder: field.Placeholder,
      Required:    field.Required,
      Span:        field.Span,
      OrderIndex:  field.OrderIndex,
    })
  }
  if _, err := fieldRepo.Create(ctx, tx, newFields); err != nil {
    return nil, fmt.Errorf("create field copies: %w", err)
  }

  return newBlueprint, nil
}
