package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/structa/structa-backend/internal/apierr"
  "github.com/structa/structa-backend/internal/logger"
  "github.com/structa/structa-backend/internal/observability"
  "github.com/structa/structa-backend/internal/repos"
  "github.com/structa/structa-backend/internal/types"
)

// SuggestionInput is one machine-proposed value for a session field.
type SuggestionInput struct {
  FieldID    uuid.UUID  `json:"field_id"`
  Value      *string    `json:"value"`
  Confidence *float64   `json:"confidence"`
  SourceID   *uuid.UUID `json:"source_id"`
}

// IngestResult reports how a suggestion batch landed.
type IngestResult struct {
  Applied int `json:"applied"`
  Skipped int `json:"skipped"`
}

// BulkReviewResult carries the number of suggestions a bulk action touched
// plus the progress that resulted.
type BulkReviewResult struct {
  Reviewed int             `json:"reviewed"`
  Progress *ProgressResult `json:"progress"`
}

type SuggestionService interface {
  Ingest(ctx context.Context, sessionID uuid.UUID, inputs []SuggestionInput) (*IngestResult, error)
  ListUnreviewed(ctx context.Context, sessionID uuid.UUID) ([]*types.SessionFieldValue, error)
  Accept(ctx context.Context, sessionID, valueID uuid.UUID) (*ProgressResult, error)
  Reject(ctx context.Context, sessionID, valueID uuid.UUID) (*ProgressResult, error)
  AcceptAll(ctx context.Context, sessionID uuid.UUID) (*BulkReviewResult, error)
  RejectAll(ctx context.Context, sessionID uuid.UUID) (*BulkReviewResult, error)
}

type suggestionService struct {
  db             *gorm.DB
  log            *logger.Logger
  sessionRepo    repos.SessionRepo
  sectionRepo    repos.SectionRepo
  fieldRepo      repos.FieldRepo
  valueRepo      repos.SessionFieldValueRepo
  sessionService SessionService
}

func NewSuggestionService(
  db *gorm.DB,
  baseLog *logger.Logger,
  sessionRepo repos.SessionRepo,
  sectionRepo repos.SectionRepo,
  fieldRepo repos.FieldRepo,
  valueRepo repos.SessionFieldValueRepo,
  sessionService SessionService,
) SuggestionService {
  serviceLog := baseLog.With("service", "SuggestionService")
  return &suggestionService{
    db:             db,
    log:            serviceLog,
    sessionRepo:    sessionRepo,
    sectionRepo:    sectionRepo,
    fieldRepo:      fieldRepo,
    valueRepo:      valueRepo,
    sessionService: sessionService,
  }
}

func (s *suggestionService) getOwnedSession(ctx context.Context, tx *gorm.DB, id, companyID uuid.UUID) (*types.Session, error) {
  rows, err := s.sessionRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
  if err != nil {
    return nil, fmt.Errorf("load session: %w", err)
  }
  if len(rows) == 0 || rows[0] == nil || rows[0].CompanyID != companyID {
    return nil, apierr.NotFound("session")
  }
  return rows[0], nil
}

// Ingest applies a batch of machine suggestions to a session. Fields that
// already hold a reviewed, filled value are skipped so suggestions never
// overwrite human input. Each applied row lands unreviewed.
func (s *suggestionService) Ingest(ctx context.Context, sessionID uuid.UUID, inputs []SuggestionInput) (*IngestResult, error) {
  rd, err := mutatingCaller(ctx)
  if err != nil {
    return nil, err
  }
  if len(inputs) == 0 {
    return nil, apierr.Validation("suggestions_required", fmt.Errorf("At least one suggestion is required"))
  }

  var result *IngestResult
  txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    session, err := s.getOwnedSession(ctx, tx, sessionID, rd.CompanyID)
    if err != nil {
      return err
    }

    blueprintFields, err := s.fieldRepo.GetByBlueprintID(ctx, tx, session.BlueprintID)
    if err != nil {
      return fmt.Errorf("load blueprint fields: %w", err)
    }
    fieldSet := make(map[string]bool, len(blueprintFields))
    for _, field := range blueprintFields {
      fieldSet[field.ID.String()] = true
    }

    existing, err := s.valueRepo.GetBySessionID(ctx, tx, session.ID)
    if err != nil {
      return fmt.Errorf("load session values: %w", err)
    }
    existingByField := make(map[string]*types.SessionFieldValue, len(existing))
    for _, row := range existing {
      existingByField[row.FieldID.String()] = row
    }

    res := &IngestResult{}
    for _, input := range inputs {
      if !fieldSet[input.FieldID.String()] {
        return apierr.Validation("field_not_in_blueprint", fmt.Errorf("Field %s does not belong to the session blueprint", input.FieldID))
      }
      if prior, ok := existingByField[input.FieldID.String()]; ok && prior.Reviewed && isFilledValue(prior.Value) {
        res.Skipped++
        continue
      }
      row := &types.SessionFieldValue{
        ID:         uuid.New(),
        SessionID:  session.ID,
        FieldID:    input.FieldID,
        Value:      input.Value,
        SourceID:   input.SourceID,
        Confidence: input.Confidence,
        Reviewed:   false,
      }
      if err := s.valueRepo.Upsert(ctx, tx, row); err != nil {
        return fmt.Errorf("upsert suggestion: %w", err)
      }
      res.Applied++
    }
    result = res
    return nil
  })
  if txErr != nil {
    s.log.Error("Ingest failed", "error", txErr, "session_id", sessionID)
    return nil, txErr
  }
  return result, nil
}

// ListUnreviewed returns pending suggestions in blueprint order, section
// first then field position.
func (s *suggestionService) ListUnreviewed(ctx context.Context, sessionID uuid.UUID) ([]*types.SessionFieldValue, error) {
  rd, err := caller(ctx)
  if err != nil {
    return nil, err
  }
  session, err := s.getOwnedSession(ctx, nil, sessionID, rd.CompanyID)
  if err != nil {
    return nil, err
  }
  rows, err := s.valueRepo.GetUnreviewedBySessionID(ctx, nil, session.ID)
  if err != nil {
    s.log.Error("ListUnreviewed failed", "error", err, "session_id", sessionID)
    return nil, fmt.Errorf("list unreviewed suggestions: %w", err)
  }
  return rows, nil
}

// Accept keeps the suggested value and marks the row reviewed, then
// recomputes progress in the same transaction.
func (s *suggestionService) Accept(ctx context.Context, sessionID, valueID uuid.UUID) (*ProgressResult, error) {
  return s.review(ctx, sessionID, valueID, false, "accept")
}

// Reject discards the suggested value entirely; the field goes back to
// holding nothing, and progress is recomputed accordingly.
func (s *suggestionService) Reject(ctx context.Context, sessionID, valueID uuid.UUID) (*ProgressResult, error) {
  return s.review(ctx, sessionID, valueID, true, "reject")
}

func (s *suggestionService) review(ctx context.Context, sessionID, valueID uuid.UUID, clearValue bool, action string) (*ProgressResult, error) {
  rd, err := mutatingCaller(ctx)
  if err != nil {
    return nil, err
  }

  var result *ProgressResult
  txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    session, err := s.getOwnedSession(ctx, tx, sessionID, rd.CompanyID)
    if err != nil {
      return err
    }

    rows, err := s.valueRepo.GetByIDs(ctx, tx, []uuid.UUID{valueID})
    if err != nil {
      return fmt.Errorf("load suggestion: %w", err)
    }
    if len(rows) == 0 || rows[0] == nil || rows[0].SessionID != session.ID {
      return apierr.NotFound("suggestion")
    }
    if rows[0].Reviewed {
      return apierr.Conflict("suggestion_already_reviewed", fmt.Errorf("Suggestion has already been reviewed"))
    }

    if err := s.valueRepo.MarkReviewed(ctx, tx, valueID, clearValue); err != nil {
      return fmt.Errorf("mark suggestion reviewed: %w", err)
    }

    progress, err := s.sessionService.RecomputeProgressTx(ctx, tx, session)
    if err != nil {
      return err
    }
    result = progress
    return nil
  })
  if txErr != nil {
    s.log.Error("review failed", "error", txErr, "session_id", sessionID, "value_id", valueID, "action", action)
    return nil, txErr
  }
  observability.Current().IncSuggestionReview(action)
  return result, nil
}

func (s *suggestionService) AcceptAll(ctx context.Context, sessionID uuid.UUID) (*BulkReviewResult, error) {
  return s.reviewAll(ctx, sessionID, false, "accept_all")
}

func (s *suggestionService) RejectAll(ctx context.Context, sessionID uuid.UUID) (*BulkReviewResult, error) {
  return s.reviewAll(ctx, sessionID, true, "reject_all")
}

func (s *suggestionService) reviewAll(ctx context.Context, sessionID uuid.UUID, clearValue bool, action string) (*BulkReviewResult, error) {
  rd, err := mutatingCaller(ctx)
  if err != nil {
    return nil, err
  }

  var result *BulkReviewResult
  txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    session, err := s.getOwnedSession(ctx, tx, sessionID, rd.CompanyID)
    if err != nil {
      return err
    }

    count, err := s.valueRepo.MarkAllReviewed(ctx, tx, session.ID, clearValue)
    if err != nil {
      return fmt.Errorf("mark all suggestions reviewed: %w", err)
    }

    progress, err := s.sessionService.RecomputeProgressTx(ctx, tx, session)
    if err != nil {
      return err
    }
    result = &BulkReviewResult{Reviewed: int(count), Progress: progress}
    return nil
  })
  if txErr != nil {
    s.log.Error("reviewAll failed", "error", txErr, "session_id", sessionID, "action", action)
    return nil, txErr
  }
  observability.Current().IncSuggestionReview(action)
  return result, nil
}
