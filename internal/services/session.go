package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/structa/structa-backend/internal/apierr"
  "github.com/structa/structa-backend/internal/logger"
  "github.com/structa/structa-backend/internal/normalization"
  "github.com/structa/structa-backend/internal/observability"
  "github.com/structa/structa-backend/internal/repos"
  "github.com/structa/structa-backend/internal/types"
)

// ProgressResult is the outcome of one progress recomputation.
type ProgressResult struct {
  CompletionPercent int    `json:"completion_percent"`
  Status            string `json:"status"`
}

// SectionProgress is the per-section breakdown shown alongside a session.
type SectionProgress struct {
  SectionID  uuid.UUID `json:"section_id"`
  Title      string    `json:"title"`
  OrderIndex int       `json:"order_index"`
  Required   int       `json:"required"`
  Filled     int       `json:"filled"`
  Percent    int       `json:"percent"`
}

type SessionDetail struct {
  Session  *types.Session             `json:"session"`
  Values   []*types.SessionFieldValue `json:"values"`
  Sections []SectionProgress          `json:"sections"`
}

type SessionService interface {
  CreateSession(ctx context.Context, blueprintID uuid.UUID, name string) (*types.Session, error)
  GetCompanySessions(ctx context.Context, tx *gorm.DB) ([]*types.Session, error)
  GetSessionDetail(ctx context.Context, id uuid.UUID) (*SessionDetail, error)
  RenameSession(ctx context.Context, id uuid.UUID, name string) (*types.Session, error)
  ArchiveSession(ctx context.Context, id uuid.UUID) (*types.Session, error)
  DeleteSession(ctx context.Context, id uuid.UUID) error
  SetFieldValue(ctx context.Context, sessionID, fieldID uuid.UUID, value *string) (*ProgressResult, error)
  RecomputeProgress(ctx context.Context, sessionID uuid.UUID) (*ProgressResult, error)
  RecomputeProgressTx(ctx context.Context, tx *gorm.DB, session *types.Session) (*ProgressResult, error)
}

type sessionService struct {
  db            *gorm.DB
  log           *logger.Logger
  blueprintRepo repos.BlueprintRepo
  sectionRepo   repos.SectionRepo
  fieldRepo     repos.FieldRepo
  sessionRepo   repos.SessionRepo
  valueRepo     repos.SessionFieldValueRepo
}

func NewSessionService(
  db *gorm.DB,
  baseLog *logger.Logger,
  blueprintRepo repos.BlueprintRepo,
  sectionRepo repos.SectionRepo,
  fieldRepo repos.FieldRepo,
  sessionRepo repos.SessionRepo,
  valueRepo repos.SessionFieldValueRepo,
) SessionService {
  serviceLog := baseLog.With("service", "SessionService")
  return &sessionService{
    db:            db,
    log:           serviceLog,
    blueprintRepo: blueprintRepo,
    sectionRepo:   sectionRepo,
    fieldRepo:     fieldRepo,
    sessionRepo:   sessionRepo,
    valueRepo:     valueRepo,
  }
}

func (s *sessionService) getOwnedSession(ctx context.Context, tx *gorm.DB, id, companyID uuid.UUID) (*types.Session, error) {
  rows, err := s.sessionRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
  if err != nil {
    return nil, fmt.Errorf("load session: %w", err)
  }
  if len(rows) == 0 || rows[0] == nil || rows[0].CompanyID != companyID {
    return nil, apierr.NotFound("session")
  }
  return rows[0], nil
}

// CreateSession binds a new session to one published blueprint version. The
// binding never changes, even when a newer version is published later.
func (s *sessionService) CreateSession(ctx context.Context, blueprintID uuid.UUID, name string) (*types.Session, error) {
  rd, err := mutatingCaller(ctx)
  if err != nil {
    return nil, err
  }

  name = normalization.ParseName(name)
  if name == "" {
    return nil, apierr.Validation("session_name_required", fmt.Errorf("A session name is required"))
  }

  var result *types.Session
  txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    blueprints, err := s.blueprintRepo.GetByIDs(ctx, tx, []uuid.UUID{blueprintID})
    if err != nil {
      return fmt.Errorf("load blueprint: %w", err)
    }
    if len(blueprints) == 0 || blueprints[0] == nil || blueprints[0].CompanyID != rd.CompanyID {
      return apierr.NotFound("blueprint")
    }
    if blueprints[0].Status != types.BlueprintStatusPublished {
      return apierr.Validation("blueprint_not_published", fmt.Errorf("Sessions can only be started on a published blueprint"))
    }

    requiredFields, err := s.fieldRepo.GetRequiredByBlueprintID(ctx, tx, blueprintID)
    if err != nil {
      return fmt.Errorf("load required fields: %w", err)
    }

    session := &types.Session{
      ID:                uuid.New(),
      CompanyID:         rd.CompanyID,
      BlueprintID:       blueprintID,
      Name:              name,
      Status:            progressStatus(completionPercent(0, len(requiredFields))),
      CompletionPercent: completionPercent(0, len(requiredFields)),
      CreatedBy:         rd.UserID,
    }
    if _, err := s.sessionRepo.Create(ctx, tx, []*types.Session{session}); err != nil {
      return fmt.Errorf("create session: %w", err)
    }
    result = session
    return nil
  })
  if txErr != nil {
    s.log.Error("CreateSession failed", "error", txErr, "blueprint_id", blueprintID)
    return nil, txErr
  }
  return result, nil
}

func (s *sessionService) GetCompanySessions(ctx context.Context, tx *gorm.DB) ([]*types.Session, error) {
  rd, err := caller(ctx)
  if err != nil {
    return nil, err
  }
  sessions, err := s.sessionRepo.GetByCompanyID(ctx, tx, rd.CompanyID)
  if err != nil {
    s.log.Error("GetCompanySessions failed", "error", err, "company_id", rd.CompanyID)
    return nil, fmt.Errorf("get company sessions: %w", err)
  }
  return sessions, nil
}

func (s *sessionService) GetSessionDetail(ctx context.Context, id uuid.UUID) (*SessionDetail, error) {
  rd, err := caller(ctx)
  if err != nil {
    return nil, err
  }

  session, err := s.getOwnedSession(ctx, nil, id, rd.CompanyID)
  if err != nil {
    return nil, err
  }

  values, err := s.valueRepo.GetBySessionID(ctx, nil, session.ID)
  if err != nil {
    return nil, fmt.Errorf("load session values: %w", err)
  }
  sections, err := s.sectionRepo.GetByBlueprintIDs(ctx, nil, []uuid.UUID{session.BlueprintID})
  if err != nil {
    return nil, fmt.Errorf("load sections: %w", err)
  }
  sectionIDs := make([]uuid.UUID, 0, len(sections))
  for _, section := range sections {
    sectionIDs = append(sectionIDs, section.ID)
  }
  fields, err := s.fieldRepo.GetBySectionIDs(ctx, nil, sectionIDs)
  if err != nil {
    return nil, fmt.Errorf("load fields: %w", err)
  }

  valuesByField := make(map[string]*types.SessionFieldValue, len(values))
  for _, row := range values {
    valuesByField[row.FieldID.String()] = row
  }

  breakdown := make([]SectionProgress, 0, len(sections))
  for _, section := range sections {
    sp := SectionProgress{
      SectionID:  section.ID,
      Title:      section.Title,
      OrderIndex: section.OrderIndex,
    }
    for _, field := range fields {
      if field.SectionID != section.ID || !field.Required {
        continue
      }
      sp.Required++
      if isCommittedValue(valuesByField[field.ID.String()]) {
        sp.Filled++
      }
    }
    sp.Percent = completionPercent(sp.Filled, sp.Required)
    breakdown = append(breakdown, sp)
  }

  return &SessionDetail{Session: session, Values: values, Sections: breakdown}, nil
}

func (s *sessionService) RenameSession(ctx context.Context, id uuid.UUID, name string) (*types.Session, error) {
  rd, err := mutatingCaller(ctx)
  if err != nil {
    return nil, err
  }

  name = normalization.ParseName(name)
  if name == "" {
    return nil, apierr.Validation("session_name_required", fmt.Errorf("A session name is required"))
  }

  var result *types.Session
  txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    session, err := s.getOwnedSession(ctx, tx, id, rd.CompanyID)
    if err != nil {
      return err
    }
    session.Name = name
    if err := s.sessionRepo.Update(ctx, tx, session); err != nil {
      return fmt.Errorf("rename session: %w", err)
    }
    result = session
    return nil
  })
  if txErr != nil {
    return nil, txErr
  }
  return result, nil
}

// ArchiveSession is a user-driven terminal state; the progress calculator
// never sets or clears it.
func (s *sessionService) ArchiveSession(ctx context.Context, id uuid.UUID) (*types.Session, error) {
  rd, err := mutatingCaller(ctx)
  if err != nil {
    return nil, err
  }

  var result *types.Session
  txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    session, err := s.getOwnedSession(ctx, tx, id, rd.CompanyID)
    if err != nil {
      return err
    }
    session.Status = types.SessionStatusArchived
    if err := s.sessionRepo.Update(ctx, tx, session); err != nil {
      return fmt.Errorf("archive session: %w", err)
    }
    result = session
    return nil
  })
  if txErr != nil {
    return nil, txErr
  }
  return result, nil
}

func (s *sessionService) DeleteSession(ctx context.Context, id uuid.UUID) error {
  rd, err := mutatingCaller(ctx)
  if err != nil {
    return err
  }

  return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    session, err := s.getOwnedSession(ctx, tx, id, rd.CompanyID)
    if err != nil {
      return err
    }
    if err := s.valueRepo.FullDeleteBySessionIDs(ctx, tx, []uuid.UUID{session.ID}); err != nil {
      return fmt.Errorf("delete session values: %w", err)
    }
    if err := s.sessionRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{session.ID}); err != nil {
      return fmt.Errorf("delete session: %w", err)
    }
    return nil
  })
}

// SetFieldValue upserts a human-entered value and recomputes progress in the
// same transaction, so completion is never observed stale.
func (s *sessionService) SetFieldValue(ctx context.Context, sessionID, fieldID uuid.UUID, value *string) (*ProgressResult, error) {
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

    fields, err := s.fieldRepo.GetByIDs(ctx, tx, []uuid.UUID{fieldID})
    if err != nil {
      return fmt.Errorf("load field: %w", err)
    }
    if len(fields) == 0 || fields[0] == nil {
      return apierr.NotFound("field")
    }
    field := fields[0]

    sections, err := s.sectionRepo.GetByIDs(ctx, tx, []uuid.UUID{field.SectionID})
    if err != nil {
      return fmt.Errorf("load field section: %w", err)
    }
    if len(sections) == 0 || sections[0] == nil || sections[0].BlueprintID != session.BlueprintID {
      return apierr.NotFound("field")
    }

    row := &types.SessionFieldValue{
      ID:        uuid.New(),
      SessionID: session.ID,
      FieldID:   field.ID,
      Value:     value,
      Reviewed:  true,
    }
    if err := s.valueRepo.Upsert(ctx, tx, row); err != nil {
      return fmt.Errorf("upsert field value: %w", err)
    }

    progress, err := s.RecomputeProgressTx(ctx, tx, session)
    if err != nil {
      return err
    }
    result = progress
    return nil
  })
  if txErr != nil {
    s.log.Error("SetFieldValue failed", "error", txErr, "session_id", sessionID, "field_id", fieldID)
    return nil, txErr
  }
  return result, nil
}

// RecomputeProgress recalculates completion from scratch and persists it.
// Safe to call repeatedly: with no intervening writes the result is stable.
func (s *sessionService) RecomputeProgress(ctx context.Context, sessionID uuid.UUID) (*ProgressResult, error) {
  rd, err := caller(ctx)
  if err != nil {
    return nil, err
  }

  var result *ProgressResult
  txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    session, err := s.getOwnedSession(ctx, tx, sessionID, rd.CompanyID)
    if err != nil {
      return err
    }
    progress, err := s.RecomputeProgressTx(ctx, tx, session)
    if err != nil {
      return err
    }
    result = progress
    return nil
  })
  if txErr != nil {
    return nil, txErr
  }
  return result, nil
}

// RecomputeProgressTx derives completion from the bound blueprint's required
// fields and the session's value rows, then writes it to the session row in
// the caller's transaction. An archived session keeps its status; only the
// percentage is refreshed.
func (s *sessionService) RecomputeProgressTx(ctx context.Context, tx *gorm.DB, session *types.Session) (*ProgressResult, error) {
  requiredFields, err := s.fieldRepo.GetRequiredByBlueprintID(ctx, tx, session.BlueprintID)
  if err != nil {
    return nil, fmt.Errorf("load required fields: %w", err)
  }
  values, err := s.valueRepo.GetBySessionID(ctx, tx, session.ID)
  if err != nil {
    return nil, fmt.Errorf("load session values: %w", err)
  }

  valuesByField := make(map[string]*types.SessionFieldValue, len(values))
  for _, row := range values {
    valuesByField[row.FieldID.String()] = row
  }

  filled := countFilledRequired(requiredFields, valuesByField)
  percent := completionPercent(filled, len(requiredFields))
  status := progressStatus(percent)
  if session.Status == types.SessionStatusArchived {
    status = types.SessionStatusArchived
  }

  if err := s.sessionRepo.UpdateProgress(ctx, tx, session.ID, percent, status); err != nil {
    return nil, fmt.Errorf("update session progress: %w", err)
  }
  session.CompletionPercent = percent
  session.Status = status

  observability.Current().IncProgressRecompute()
  return &ProgressResult{CompletionPercent: percent, Status: status}, nil
}
