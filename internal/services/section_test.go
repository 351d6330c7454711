package services

import (
  "net/http"
  "testing"

  "github.com/google/uuid"

  "github.com/structa/structa-backend/internal/types"
)

func TestReorderSections(t *testing.T) {
  env := newTestEnv(t)

  blueprint, err := env.blueprints.CreateBlueprint(env.ctx, nil, "Ordered", "")
  if err != nil {
    t.Fatalf("create: %v", err)
  }
  var ids []uuid.UUID
  for _, title := range []string{"One", "Two", "Three"} {
    section, err := env.sections.AddSection(env.ctx, blueprint.ID, title, "")
    if err != nil {
      t.Fatalf("add section: %v", err)
    }
    ids = append(ids, section.ID)
  }

  if err := env.sections.ReorderSections(env.ctx, blueprint.ID, []uuid.UUID{ids[2], ids[0], ids[1]}); err != nil {
    t.Fatalf("reorder: %v", err)
  }
  tree, err := env.blueprints.GetBlueprintTree(env.ctx, nil, blueprint.ID)
  if err != nil {
    t.Fatalf("load tree: %v", err)
  }
  gotTitles := []string{tree.Sections[0].Title, tree.Sections[1].Title, tree.Sections[2].Title}
  wantTitles := []string{"Three", "One", "Two"}
  for i := range wantTitles {
    if gotTitles[i] != wantTitles[i] {
      t.Fatalf("order = %v, want %v", gotTitles, wantTitles)
    }
  }

  t.Run("incomplete list rejected", func(t *testing.T) {
    err := env.sections.ReorderSections(env.ctx, blueprint.ID, []uuid.UUID{ids[0], ids[1]})
    assertAPIErr(t, err, http.StatusBadRequest, "section_order_incomplete")
  })

  t.Run("duplicate entry rejected", func(t *testing.T) {
    err := env.sections.ReorderSections(env.ctx, blueprint.ID, []uuid.UUID{ids[0], ids[0], ids[1]})
    assertAPIErr(t, err, http.StatusBadRequest, "section_order_duplicate")
  })

  t.Run("foreign id rejected", func(t *testing.T) {
    err := env.sections.ReorderSections(env.ctx, blueprint.ID, []uuid.UUID{ids[0], ids[1], uuid.New()})
    assertAPIErr(t, err, http.StatusNotFound, "not_found")
  })
}

func TestDeleteSectionCascadesFields(t *testing.T) {
  env := newTestEnv(t)
  blueprint := env.buildBlueprint("Trimmed", 2, 0)
  tree, err := env.blueprints.GetBlueprintTree(env.ctx, nil, blueprint.ID)
  if err != nil {
    t.Fatalf("load tree: %v", err)
  }
  section := tree.Sections[0]

  if err := env.sections.DeleteSection(env.ctx, section.ID); err != nil {
    t.Fatalf("delete: %v", err)
  }
  after, err := env.blueprints.GetBlueprintTree(env.ctx, nil, blueprint.ID)
  if err != nil {
    t.Fatalf("reload tree: %v", err)
  }
  if len(after.Sections) != 0 {
    t.Errorf("%d sections survived", len(after.Sections))
  }
}

func TestAddFieldValidation(t *testing.T) {
  env := newTestEnv(t)
  blueprint := env.buildBlueprint("Fields", 0, 0)
  tree, err := env.blueprints.GetBlueprintTree(env.ctx, nil, blueprint.ID)
  if err != nil {
    t.Fatalf("load tree: %v", err)
  }
  sectionID := tree.Sections[0].ID

  cases := []struct {
    name     string
    input    AddFieldInput
    wantCode string
  }{
    {"missing key", AddFieldInput{Type: types.FieldTypeShortText, Label: "X"}, "field_key_required"},
    {"missing label", AddFieldInput{Key: "k", Type: types.FieldTypeShortText}, "field_label_required"},
    {"unknown type", AddFieldInput{Key: "k", Type: "dropdown", Label: "X"}, "field_type_invalid"},
    {"bad span", AddFieldInput{Key: "k", Type: types.FieldTypeShortText, Label: "X", Span: 3}, "field_span_invalid"},
  }
  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      _, err := env.fields.AddField(env.ctx, sectionID, tc.input)
      assertAPIErr(t, err, http.StatusBadRequest, tc.wantCode)
    })
  }

  t.Run("span defaults to one", func(t *testing.T) {
    field, err := env.fields.AddField(env.ctx, sectionID, AddFieldInput{
      Key: "ok", Type: types.FieldTypeShortText, Label: "OK",
    })
    if err != nil {
      t.Fatalf("add: %v", err)
    }
    if field.Span != 1 {
      t.Errorf("span = %d, want 1", field.Span)
    }
  })
}
