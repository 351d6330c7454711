package services

import (
  "net/http"
  "testing"

  "github.com/structa/structa-backend/internal/types"
)

func TestCreateSessionBinding(t *testing.T) {
  env := newTestEnv(t)

  t.Run("draft blueprint rejected", func(t *testing.T) {
    draft := env.buildBlueprint("Draft Only", 1, 0)
    _, err := env.sessions.CreateSession(env.ctx, draft.ID, "run")
    assertAPIErr(t, err, http.StatusBadRequest, "blueprint_not_published")
  })

  t.Run("published blueprint accepted", func(t *testing.T) {
    published := env.buildPublishedBlueprint("Live", 2, 0)
    session, err := env.sessions.CreateSession(env.ctx, published.ID, "run")
    if err != nil {
      t.Fatalf("create session: %v", err)
    }
    if session.BlueprintID != published.ID {
      t.Errorf("bound to %s, want %s", session.BlueprintID, published.ID)
    }
    if session.Status != types.SessionStatusInProgress || session.CompletionPercent != 0 {
      t.Errorf("new session = %s %d%%, want in_progress 0%%", session.Status, session.CompletionPercent)
    }
  })

  t.Run("binding survives a version bump", func(t *testing.T) {
    v1 := env.buildPublishedBlueprint("Rebumped", 1, 0)
    session, err := env.sessions.CreateSession(env.ctx, v1.ID, "old run")
    if err != nil {
      t.Fatalf("create session: %v", err)
    }
    if _, err := env.blueprints.PublishBlueprint(env.ctx, v1.ID); err != nil {
      t.Fatalf("republish: %v", err)
    }
    detail, err := env.sessions.GetSessionDetail(env.ctx, session.ID)
    if err != nil {
      t.Fatalf("detail: %v", err)
    }
    if detail.Session.BlueprintID != v1.ID {
      t.Errorf("session moved to %s, must stay bound to %s", detail.Session.BlueprintID, v1.ID)
    }
  })

  t.Run("no required fields means complete at creation", func(t *testing.T) {
    optionalOnly := env.buildPublishedBlueprint("Optional Only", 0, 2)
    session, err := env.sessions.CreateSession(env.ctx, optionalOnly.ID, "run")
    if err != nil {
      t.Fatalf("create session: %v", err)
    }
    if session.CompletionPercent != 100 || session.Status != types.SessionStatusCompleted {
      t.Errorf("session = %s %d%%, want completed 100%%", session.Status, session.CompletionPercent)
    }
  })
}

func TestSetFieldValueProgress(t *testing.T) {
  env := newTestEnv(t)
  published := env.buildPublishedBlueprint("Form", 2, 1)
  tree, err := env.blueprints.GetBlueprintTree(env.ctx, nil, published.ID)
  if err != nil {
    t.Fatalf("load tree: %v", err)
  }
  fields := tree.Sections[0].Fields
  var required, required2, optional types.Field
  reqSeen := 0
  for _, f := range fields {
    if f.Required {
      if reqSeen == 0 {
        required = f
      } else {
        required2 = f
      }
      reqSeen++
    } else {
      optional = f
    }
  }

  session, err := env.sessions.CreateSession(env.ctx, published.ID, "run")
  if err != nil {
    t.Fatalf("create session: %v", err)
  }

  progress, err := env.sessions.SetFieldValue(env.ctx, session.ID, required.ID, strptr("hello"))
  if err != nil {
    t.Fatalf("set value: %v", err)
  }
  if progress.CompletionPercent != 50 || progress.Status != types.SessionStatusInProgress {
    t.Errorf("after 1/2 required = %d%% %s, want 50%% in_progress", progress.CompletionPercent, progress.Status)
  }

  progress, err = env.sessions.SetFieldValue(env.ctx, session.ID, optional.ID, strptr("extra"))
  if err != nil {
    t.Fatalf("set optional: %v", err)
  }
  if progress.CompletionPercent != 50 {
    t.Errorf("optional fields must not move completion, got %d%%", progress.CompletionPercent)
  }

  progress, err = env.sessions.SetFieldValue(env.ctx, session.ID, required2.ID, strptr("world"))
  if err != nil {
    t.Fatalf("set value: %v", err)
  }
  if progress.CompletionPercent != 100 || progress.Status != types.SessionStatusCompleted {
    t.Errorf("after 2/2 required = %d%% %s, want 100%% completed", progress.CompletionPercent, progress.Status)
  }

  t.Run("blanking a value reopens the session", func(t *testing.T) {
    progress, err := env.sessions.SetFieldValue(env.ctx, session.ID, required2.ID, strptr("   "))
    if err != nil {
      t.Fatalf("blank value: %v", err)
    }
    if progress.CompletionPercent != 50 || progress.Status != types.SessionStatusInProgress {
      t.Errorf("after blanking = %d%% %s, want 50%% in_progress", progress.CompletionPercent, progress.Status)
    }
  })

  t.Run("nil value counts as unfilled", func(t *testing.T) {
    progress, err := env.sessions.SetFieldValue(env.ctx, session.ID, required.ID, nil)
    if err != nil {
      t.Fatalf("nil value: %v", err)
    }
    if progress.CompletionPercent != 0 {
      t.Errorf("after clearing both = %d%%, want 0%%", progress.CompletionPercent)
    }
  })

  t.Run("foreign field rejected", func(t *testing.T) {
    other := env.buildPublishedBlueprint("Other", 1, 0)
    otherTree, err := env.blueprints.GetBlueprintTree(env.ctx, nil, other.ID)
    if err != nil {
      t.Fatalf("load tree: %v", err)
    }
    _, err = env.sessions.SetFieldValue(env.ctx, session.ID, otherTree.Sections[0].Fields[0].ID, strptr("x"))
    assertAPIErr(t, err, http.StatusNotFound, "not_found")
  })
}

func TestRecomputeProgressIdempotent(t *testing.T) {
  env := newTestEnv(t)
  published := env.buildPublishedBlueprint("Stable", 3, 0)
  tree, err := env.blueprints.GetBlueprintTree(env.ctx, nil, published.ID)
  if err != nil {
    t.Fatalf("load tree: %v", err)
  }
  session, err := env.sessions.CreateSession(env.ctx, published.ID, "run")
  if err != nil {
    t.Fatalf("create session: %v", err)
  }
  if _, err := env.sessions.SetFieldValue(env.ctx, session.ID, tree.Sections[0].Fields[0].ID, strptr("v")); err != nil {
    t.Fatalf("set value: %v", err)
  }

  first, err := env.sessions.RecomputeProgress(env.ctx, session.ID)
  if err != nil {
    t.Fatalf("recompute: %v", err)
  }
  second, err := env.sessions.RecomputeProgress(env.ctx, session.ID)
  if err != nil {
    t.Fatalf("recompute again: %v", err)
  }
  if first.CompletionPercent != second.CompletionPercent || first.Status != second.Status {
    t.Errorf("recompute not stable: %+v then %+v", first, second)
  }
  if first.CompletionPercent != 33 {
    t.Errorf("1/3 filled = %d%%, want rounded 33%%", first.CompletionPercent)
  }
}

func TestSessionDetailSectionBreakdown(t *testing.T) {
  env := newTestEnv(t)

  blueprint, err := env.blueprints.CreateBlueprint(env.ctx, nil, "Split", "")
  if err != nil {
    t.Fatalf("create: %v", err)
  }
  secA, err := env.sections.AddSection(env.ctx, blueprint.ID, "A", "")
  if err != nil {
    t.Fatalf("add section: %v", err)
  }
  secB, err := env.sections.AddSection(env.ctx, blueprint.ID, "B", "")
  if err != nil {
    t.Fatalf("add section: %v", err)
  }
  fieldA, err := env.fields.AddField(env.ctx, secA.ID, AddFieldInput{
    Key: "a1", Type: types.FieldTypeShortText, Label: "A1", Required: true,
  })
  if err != nil {
    t.Fatalf("add field: %v", err)
  }
  if _, err := env.fields.AddField(env.ctx, secB.ID, AddFieldInput{
    Key: "b1", Type: types.FieldTypeShortText, Label: "B1", Required: true,
  }); err != nil {
    t.Fatalf("add field: %v", err)
  }
  published, err := env.blueprints.PublishBlueprint(env.ctx, blueprint.ID)
  if err != nil {
    t.Fatalf("publish: %v", err)
  }
  session, err := env.sessions.CreateSession(env.ctx, published.ID, "run")
  if err != nil {
    t.Fatalf("create session: %v", err)
  }
  if _, err := env.sessions.SetFieldValue(env.ctx, session.ID, fieldA.ID, strptr("done")); err != nil {
    t.Fatalf("set value: %v", err)
  }

  detail, err := env.sessions.GetSessionDetail(env.ctx, session.ID)
  if err != nil {
    t.Fatalf("detail: %v", err)
  }
  if len(detail.Sections) != 2 {
    t.Fatalf("breakdown sections = %d, want 2", len(detail.Sections))
  }
  a, b := detail.Sections[0], detail.Sections[1]
  if a.Title != "A" || b.Title != "B" {
    t.Fatalf("breakdown out of order: %q then %q", a.Title, b.Title)
  }
  if a.Filled != 1 || a.Required != 1 || a.Percent != 100 {
    t.Errorf("section A = %d/%d %d%%, want 1/1 100%%", a.Filled, a.Required, a.Percent)
  }
  if b.Filled != 0 || b.Required != 1 || b.Percent != 0 {
    t.Errorf("section B = %d/%d %d%%, want 0/1 0%%", b.Filled, b.Required, b.Percent)
  }
  if detail.Session.CompletionPercent != 50 {
    t.Errorf("overall = %d%%, want 50%%", detail.Session.CompletionPercent)
  }
}

func TestSessionLifecycle(t *testing.T) {
  env := newTestEnv(t)
  published := env.buildPublishedBlueprint("Lifecycle", 1, 0)
  session, err := env.sessions.CreateSession(env.ctx, published.ID, "first name")
  if err != nil {
    t.Fatalf("create: %v", err)
  }

  renamed, err := env.sessions.RenameSession(env.ctx, session.ID, "second name")
  if err != nil {
    t.Fatalf("rename: %v", err)
  }
  if renamed.Name != "second name" {
    t.Errorf("name = %q", renamed.Name)
  }

  archived, err := env.sessions.ArchiveSession(env.ctx, session.ID)
  if err != nil {
    t.Fatalf("archive: %v", err)
  }
  if archived.Status != types.SessionStatusArchived {
    t.Errorf("status = %s, want archived", archived.Status)
  }

  t.Run("recompute keeps archived status", func(t *testing.T) {
    progress, err := env.sessions.RecomputeProgress(env.ctx, session.ID)
    if err != nil {
      t.Fatalf("recompute: %v", err)
    }
    if progress.Status != types.SessionStatusArchived {
      t.Errorf("recompute rewrote status to %s", progress.Status)
    }
  })

  t.Run("delete cascades values", func(t *testing.T) {
    tree, err := env.blueprints.GetBlueprintTree(env.ctx, nil, published.ID)
    if err != nil {
      t.Fatalf("load tree: %v", err)
    }
    if _, err := env.sessions.SetFieldValue(env.ctx, session.ID, tree.Sections[0].Fields[0].ID, strptr("v")); err != nil {
      t.Fatalf("set value: %v", err)
    }
    if err := env.sessions.DeleteSession(env.ctx, session.ID); err != nil {
      t.Fatalf("delete: %v", err)
    }
    rows, err := env.valueRepo.GetBySessionID(env.ctx, nil, session.ID)
    if err != nil {
      t.Fatalf("load values: %v", err)
    }
    if len(rows) != 0 {
      t.Errorf("%d value rows survived the session delete", len(rows))
    }
  })

  t.Run("foreign session hidden", func(t *testing.T) {
    other := env.buildPublishedBlueprint("Theirs", 1, 0)
    theirs, err := env.sessions.CreateSession(env.ctx, other.ID, "run")
    if err != nil {
      t.Fatalf("create: %v", err)
    }
    _, err = env.sessions.GetSessionDetail(env.otherCompanyCtx(), theirs.ID)
    assertAPIErr(t, err, http.StatusNotFound, "not_found")
  })
}
