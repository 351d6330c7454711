package services

import (
  "net/http"
  "testing"

  "github.com/structa/structa-backend/internal/types"
)

func TestCreateBlueprint(t *testing.T) {
  env := newTestEnv(t)

  blueprint, err := env.blueprints.CreateBlueprint(env.ctx, nil, "  Intake   Form ", "patient intake")
  if err != nil {
    t.Fatalf("create: %v", err)
  }
  if blueprint.Name != "Intake Form" {
    t.Errorf("name = %q, want whitespace collapsed %q", blueprint.Name, "Intake Form")
  }
  if blueprint.Status != types.BlueprintStatusDraft || blueprint.Version != 1 {
    t.Errorf("new blueprint = %s v%d, want draft v1", blueprint.Status, blueprint.Version)
  }

  t.Run("empty name rejected", func(t *testing.T) {
    _, err := env.blueprints.CreateBlueprint(env.ctx, nil, "   ", "")
    assertAPIErr(t, err, http.StatusBadRequest, "blueprint_name_required")
  })

  t.Run("duplicate name rejected", func(t *testing.T) {
    _, err := env.blueprints.CreateBlueprint(env.ctx, nil, "Intake Form", "")
    assertAPIErr(t, err, http.StatusConflict, "blueprint_name_taken")
  })

  t.Run("viewer cannot create", func(t *testing.T) {
    _, err := env.blueprints.CreateBlueprint(env.viewerCtx(), nil, "Viewer Form", "")
    assertAPIErr(t, err, http.StatusForbidden, "forbidden")
  })
}

func TestPublishPreconditions(t *testing.T) {
  env := newTestEnv(t)

  blueprint, err := env.blueprints.CreateBlueprint(env.ctx, nil, "Empty", "")
  if err != nil {
    t.Fatalf("create: %v", err)
  }

  _, err = env.blueprints.PublishBlueprint(env.ctx, blueprint.ID)
  assertAPIErr(t, err, http.StatusBadRequest, "blueprint_has_no_sections")

  section, err := env.sections.AddSection(env.ctx, blueprint.ID, "General", "")
  if err != nil {
    t.Fatalf("add section: %v", err)
  }
  _, err = env.blueprints.PublishBlueprint(env.ctx, blueprint.ID)
  assertAPIErr(t, err, http.StatusBadRequest, "blueprint_has_no_fields")

  if _, err := env.fields.AddField(env.ctx, section.ID, AddFieldInput{
    Key: "notes", Type: types.FieldTypeLongText, Label: "Notes",
  }); err != nil {
    t.Fatalf("add field: %v", err)
  }
  published, err := env.blueprints.PublishBlueprint(env.ctx, blueprint.ID)
  if err != nil {
    t.Fatalf("publish: %v", err)
  }
  if published.ID != blueprint.ID {
    t.Errorf("draft publish must keep identity, got new id %s", published.ID)
  }
  if published.Status != types.BlueprintStatusPublished || published.Version != 1 {
    t.Errorf("published = %s v%d, want published v1", published.Status, published.Version)
  }
}

func TestPublishVersionBump(t *testing.T) {
  env := newTestEnv(t)
  v1 := env.buildPublishedBlueprint("Survey", 2, 1)

  v2, err := env.blueprints.PublishBlueprint(env.ctx, v1.ID)
  if err != nil {
    t.Fatalf("republish: %v", err)
  }
  if v2.ID == v1.ID {
    t.Fatal("version bump must create a new blueprint row")
  }
  if v2.Version != v1.Version+1 {
    t.Errorf("version = %d, want %d", v2.Version, v1.Version+1)
  }
  if v2.Status != types.BlueprintStatusPublished {
    t.Errorf("status = %s, want published", v2.Status)
  }

  all, err := env.blueprints.GetCompanyBlueprints(env.ctx, nil)
  if err != nil {
    t.Fatalf("list: %v", err)
  }
  publishedCount := 0
  for _, b := range all {
    if b.Name != "Survey" {
      continue
    }
    switch b.ID {
    case v1.ID:
      if b.Status != types.BlueprintStatusArchived {
        t.Errorf("previous version status = %s, want archived", b.Status)
      }
    case v2.ID:
      if b.Status != types.BlueprintStatusPublished {
        t.Errorf("new version status = %s, want published", b.Status)
      }
    }
    if b.Status == types.BlueprintStatusPublished {
      publishedCount++
    }
  }
  if publishedCount != 1 {
    t.Errorf("published versions of Survey = %d, want exactly 1", publishedCount)
  }

  t.Run("archived version cannot republish", func(t *testing.T) {
    _, err := env.blueprints.PublishBlueprint(env.ctx, v1.ID)
    assertAPIErr(t, err, http.StatusBadRequest, "blueprint_archived")
  })

  t.Run("chain keeps bumping", func(t *testing.T) {
    v3, err := env.blueprints.PublishBlueprint(env.ctx, v2.ID)
    if err != nil {
      t.Fatalf("publish v3: %v", err)
    }
    if v3.Version != 3 {
      t.Errorf("version = %d, want 3", v3.Version)
    }
  })
}

func TestPublishCopiesStructure(t *testing.T) {
  env := newTestEnv(t)

  blueprint, err := env.blueprints.CreateBlueprint(env.ctx, nil, "Layout", "")
  if err != nil {
    t.Fatalf("create: %v", err)
  }
  first, err := env.sections.AddSection(env.ctx, blueprint.ID, "First", "top")
  if err != nil {
    t.Fatalf("add section: %v", err)
  }
  second, err := env.sections.AddSection(env.ctx, blueprint.ID, "Second", "")
  if err != nil {
    t.Fatalf("add section: %v", err)
  }
  if _, err := env.fields.AddField(env.ctx, first.ID, AddFieldInput{
    Key: "name", Type: types.FieldTypeShortText, Label: "Name",
    HelpText: "full legal name", Placeholder: "Jane Doe", Required: true, Span: 2,
  }); err != nil {
    t.Fatalf("add field: %v", err)
  }
  if _, err := env.fields.AddField(env.ctx, second.ID, AddFieldInput{
    Key: "subscribed", Type: types.FieldTypeToggle, Label: "Subscribed",
  }); err != nil {
    t.Fatalf("add field: %v", err)
  }

  v1, err := env.blueprints.PublishBlueprint(env.ctx, blueprint.ID)
  if err != nil {
    t.Fatalf("publish: %v", err)
  }
  v2, err := env.blueprints.PublishBlueprint(env.ctx, v1.ID)
  if err != nil {
    t.Fatalf("republish: %v", err)
  }

  srcTree, err := env.blueprints.GetBlueprintTree(env.ctx, nil, v1.ID)
  if err != nil {
    t.Fatalf("load v1 tree: %v", err)
  }
  copyTree, err := env.blueprints.GetBlueprintTree(env.ctx, nil, v2.ID)
  if err != nil {
    t.Fatalf("load v2 tree: %v", err)
  }

  if len(copyTree.Sections) != len(srcTree.Sections) {
    t.Fatalf("section count = %d, want %d", len(copyTree.Sections), len(srcTree.Sections))
  }
  for i := range srcTree.Sections {
    src := srcTree.Sections[i]
    cp := copyTree.Sections[i]
    if cp.ID == src.ID {
      t.Errorf("section %d kept its identity across the copy", i)
    }
    if cp.BlueprintID != v2.ID {
      t.Errorf("section %d parent = %s, want %s", i, cp.BlueprintID, v2.ID)
    }
    if cp.Title != src.Title || cp.Description != src.Description || cp.OrderIndex != src.OrderIndex {
      t.Errorf("section %d attributes diverged: %+v vs %+v", i, cp, src)
    }
    if len(cp.Fields) != len(src.Fields) {
      t.Fatalf("section %d field count = %d, want %d", i, len(cp.Fields), len(src.Fields))
    }
    for j := range src.Fields {
      sf := src.Fields[j]
      cf := cp.Fields[j]
      if cf.ID == sf.ID {
        t.Errorf("field %d/%d kept its identity across the copy", i, j)
      }
      if cf.SectionID != cp.ID {
        t.Errorf("field %d/%d points at section %s, want %s", i, j, cf.SectionID, cp.ID)
      }
      if cf.Key != sf.Key || cf.Type != sf.Type || cf.Label != sf.Label ||
        cf.HelpText != sf.HelpText || cf.Placeholder != sf.Placeholder ||
        cf.Required != sf.Required || cf.Span != sf.Span || cf.OrderIndex != sf.OrderIndex {
        t.Errorf("field %d/%d attributes diverged: %+v vs %+v", i, j, cf, sf)
      }
    }
  }
}

func TestDuplicateBlueprint(t *testing.T) {
  env := newTestEnv(t)
  source := env.buildPublishedBlueprint("Original", 1, 1)

  copy, err := env.blueprints.DuplicateBlueprint(env.ctx, source.ID, "Copy of Original")
  if err != nil {
    t.Fatalf("duplicate: %v", err)
  }
  if copy.Status != types.BlueprintStatusDraft || copy.Version != 1 {
    t.Errorf("duplicate = %s v%d, want draft v1", copy.Status, copy.Version)
  }
  if copy.Name != "Copy of Original" {
    t.Errorf("name = %q", copy.Name)
  }

  tree, err := env.blueprints.GetBlueprintTree(env.ctx, nil, copy.ID)
  if err != nil {
    t.Fatalf("load tree: %v", err)
  }
  if len(tree.Sections) != 1 || len(tree.Sections[0].Fields) != 2 {
    t.Errorf("duplicate structure = %d sections, want the source's 1 section with 2 fields", len(tree.Sections))
  }

  t.Run("name collision rejected", func(t *testing.T) {
    _, err := env.blueprints.DuplicateBlueprint(env.ctx, source.ID, "Original")
    assertAPIErr(t, err, http.StatusConflict, "blueprint_name_taken")
  })

  t.Run("foreign blueprint hidden", func(t *testing.T) {
    _, err := env.blueprints.DuplicateBlueprint(env.otherCompanyCtx(), source.ID, "Stolen")
    assertAPIErr(t, err, http.StatusNotFound, "not_found")
  })
}

func TestDeleteBlueprint(t *testing.T) {
  env := newTestEnv(t)
  blueprint := env.buildPublishedBlueprint("Doomed", 1, 0)

  if _, err := env.sessions.CreateSession(env.ctx, blueprint.ID, "run 1"); err != nil {
    t.Fatalf("create session: %v", err)
  }
  err := env.blueprints.DeleteBlueprint(env.ctx, blueprint.ID)
  assertAPIErr(t, err, http.StatusConflict, "blueprint_in_use")

  free := env.buildBlueprint("Unused", 1, 0)
  if err := env.blueprints.DeleteBlueprint(env.ctx, free.ID); err != nil {
    t.Fatalf("delete: %v", err)
  }
  _, err = env.blueprints.GetBlueprintTree(env.ctx, nil, free.ID)
  assertAPIErr(t, err, http.StatusNotFound, "not_found")
}

func TestStructureEditsLockAfterPublish(t *testing.T) {
  env := newTestEnv(t)
  blueprint := env.buildPublishedBlueprint("Frozen", 1, 0)

  _, err := env.sections.AddSection(env.ctx, blueprint.ID, "Late", "")
  assertAPIErr(t, err, http.StatusBadRequest, "blueprint_not_draft")

  tree, err := env.blueprints.GetBlueprintTree(env.ctx, nil, blueprint.ID)
  if err != nil {
    t.Fatalf("load tree: %v", err)
  }
  _, err = env.fields.AddField(env.ctx, tree.Sections[0].ID, AddFieldInput{
    Key: "late", Type: types.FieldTypeShortText, Label: "Late",
  })
  assertAPIErr(t, err, http.StatusBadRequest, "blueprint_not_draft")
}
