package services

import (
  "context"
  "testing"

  "github.com/google/uuid"
  "go.uber.org/zap"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"

  "github.com/structa/structa-backend/internal/apierr"
  "github.com/structa/structa-backend/internal/logger"
  "github.com/structa/structa-backend/internal/repos"
  "github.com/structa/structa-backend/internal/requestdata"
  "github.com/structa/structa-backend/internal/types"
)

func newTestLogger() *logger.Logger {
  return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func newTestDB(t *testing.T) *gorm.DB {
  t.Helper()
  db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
  if err != nil {
    t.Fatalf("open sqlite: %v", err)
  }
  if err := db.AutoMigrate(
    &types.Company{},
    &types.User{},
    &types.UserToken{},
    &types.Blueprint{},
    &types.Section{},
    &types.Field{},
    &types.Session{},
    &types.SessionFieldValue{},
  ); err != nil {
    t.Fatalf("automigrate: %v", err)
  }
  return db
}

// testEnv wires the full service stack against an in-memory database with
// one company and one owner user already seeded.
type testEnv struct {
  t   *testing.T
  db  *gorm.DB
  ctx context.Context

  company *types.Company
  user    *types.User

  companyRepo repos.CompanyRepo
  userRepo    repos.UserRepo
  valueRepo   repos.SessionFieldValueRepo

  blueprints  BlueprintService
  sections    SectionService
  fields      FieldService
  sessions    SessionService
  suggestions SuggestionService
}

func newTestEnv(t *testing.T) *testEnv {
  t.Helper()
  db := newTestDB(t)
  log := newTestLogger()

  companyRepo := repos.NewCompanyRepo(db, log)
  userRepo := repos.NewUserRepo(db, log)
  blueprintRepo := repos.NewBlueprintRepo(db, log)
  sectionRepo := repos.NewSectionRepo(db, log)
  fieldRepo := repos.NewFieldRepo(db, log)
  sessionRepo := repos.NewSessionRepo(db, log)
  valueRepo := repos.NewSessionFieldValueRepo(db, log)

  company := &types.Company{ID: uuid.New(), Name: "acme"}
  if _, err := companyRepo.Create(context.Background(), nil, []*types.Company{company}); err != nil {
    t.Fatalf("seed company: %v", err)
  }
  user := &types.User{
    ID:        uuid.New(),
    CompanyID: company.ID,
    Email:     "owner@acme.test",
    Password:  "irrelevant",
    FirstName: "Olive",
    LastName:  "Owner",
    Role:      types.UserRoleOwner,
  }
  if _, err := userRepo.Create(context.Background(), nil, []*types.User{user}); err != nil {
    t.Fatalf("seed user: %v", err)
  }

  ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
    UserID:    user.ID,
    CompanyID: company.ID,
    Role:      requestdata.RoleOwner,
  })

  sessionService := NewSessionService(db, log, blueprintRepo, sectionRepo, fieldRepo, sessionRepo, valueRepo)

  return &testEnv{
    t:           t,
    db:          db,
    ctx:         ctx,
    company:     company,
    user:        user,
    companyRepo: companyRepo,
    userRepo:    userRepo,
    valueRepo:   valueRepo,
    blueprints:  NewBlueprintService(db, log, blueprintRepo, sectionRepo, fieldRepo, sessionRepo, nil),
    sections:    NewSectionService(db, log, blueprintRepo, sectionRepo, fieldRepo),
    fields:      NewFieldService(db, log, blueprintRepo, sectionRepo, fieldRepo),
    sessions:    sessionService,
    suggestions: NewSuggestionService(db, log, sessionRepo, sectionRepo, fieldRepo, valueRepo, sessionService),
  }
}

// viewerCtx returns a context authenticated as a read-only member of the
// same company.
func (e *testEnv) viewerCtx() context.Context {
  return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
    UserID:    e.user.ID,
    CompanyID: e.company.ID,
    Role:      requestdata.RoleViewer,
  })
}

// otherCompanyCtx returns a context authenticated as an owner of a freshly
// created unrelated company.
func (e *testEnv) otherCompanyCtx() context.Context {
  e.t.Helper()
  other := &types.Company{ID: uuid.New(), Name: "other"}
  if _, err := e.companyRepo.Create(context.Background(), nil, []*types.Company{other}); err != nil {
    e.t.Fatalf("seed other company: %v", err)
  }
  return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
    UserID:    uuid.New(),
    CompanyID: other.ID,
    Role:      requestdata.RoleOwner,
  })
}

// buildBlueprint creates a draft with one section holding the given number
// of required and optional short_text fields.
func (e *testEnv) buildBlueprint(name string, requiredCount, optionalCount int) *types.Blueprint {
  e.t.Helper()
  blueprint, err := e.blueprints.CreateBlueprint(e.ctx, nil, name, "")
  if err != nil {
    e.t.Fatalf("create blueprint: %v", err)
  }
  section, err := e.sections.AddSection(e.ctx, blueprint.ID, "General", "")
  if err != nil {
    e.t.Fatalf("add section: %v", err)
  }
  for i := 0; i < requiredCount; i++ {
    if _, err := e.fields.AddField(e.ctx, section.ID, AddFieldInput{
      Key:      uuid.New().String(),
      Type:     types.FieldTypeShortText,
      Label:    "Required field",
      Required: true,
    }); err != nil {
      e.t.Fatalf("add required field: %v", err)
    }
  }
  for i := 0; i < optionalCount; i++ {
    if _, err := e.fields.AddField(e.ctx, section.ID, AddFieldInput{
      Key:   uuid.New().String(),
      Type:  types.FieldTypeShortText,
      Label: "Optional field",
    }); err != nil {
      e.t.Fatalf("add optional field: %v", err)
    }
  }
  return blueprint
}

func (e *testEnv) buildPublishedBlueprint(name string, requiredCount, optionalCount int) *types.Blueprint {
  e.t.Helper()
  blueprint := e.buildBlueprint(name, requiredCount, optionalCount)
  published, err := e.blueprints.PublishBlueprint(e.ctx, blueprint.ID)
  if err != nil {
    e.t.Fatalf("publish blueprint: %v", err)
  }
  return published
}

func strptr(s string) *string { return &s }

func assertAPIErr(t *testing.T, err error, wantStatus int, wantCode string) {
  t.Helper()
  if err == nil {
    t.Fatalf("expected error with code %q, got nil", wantCode)
  }
  ae := apierr.From(err)
  if ae.Status != wantStatus || ae.Code != wantCode {
    t.Fatalf("got status=%d code=%q (%v), want status=%d code=%q", ae.Status, ae.Code, err, wantStatus, wantCode)
  }
}
