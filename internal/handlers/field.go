package handlers

import (
  "fmt"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/structa/structa-backend/internal/apierr"
  "github.com/structa/structa-backend/internal/services"
)

type FieldHandler struct {
  fieldService services.FieldService
}

func NewFieldHandler(fieldService services.FieldService) *FieldHandler {
  return &FieldHandler{fieldService: fieldService}
}

func (fh *FieldHandler) Add(c *gin.Context) {
  sectionID, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  var req services.AddFieldInput
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid_body", fmt.Errorf("Invalid request body")))
    return
  }
  field, err := fh.fieldService.AddField(c.Request.Context(), sectionID, req)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, field)
}

func (fh *FieldHandler) Update(c *gin.Context) {
  id, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  var req services.UpdateFieldInput
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid_body", fmt.Errorf("Invalid request body")))
    return
  }
  field, err := fh.fieldService.UpdateField(c.Request.Context(), id, req)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, field)
}

func (fh *FieldHandler) Delete(c *gin.Context) {
  id, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  if err := fh.fieldService.DeleteField(c.Request.Context(), id); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"deleted": true})
}

func (fh *FieldHandler) Reorder(c *gin.Context) {
  sectionID, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  var req struct {
    FieldIDs []uuid.UUID `json:"field_ids"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid_body", fmt.Errorf("Invalid request body")))
    return
  }
  if err := fh.fieldService.ReorderFields(c.Request.Context(), sectionID, req.FieldIDs); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"reordered": true})
}
