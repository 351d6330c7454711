package handlers

import (
  "fmt"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/structa/structa-backend/internal/apierr"
  "github.com/structa/structa-backend/internal/services"
)

type SectionHandler struct {
  sectionService services.SectionService
}

func NewSectionHandler(sectionService services.SectionService) *SectionHandler {
  return &SectionHandler{sectionService: sectionService}
}

func (sh *SectionHandler) Add(c *gin.Context) {
  blueprintID, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  var req struct {
    Title       string `json:"title"`
    Description string `json:"description"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid_body", fmt.Errorf("Invalid request body")))
    return
  }
  section, err := sh.sectionService.AddSection(c.Request.Context(), blueprintID, req.Title, req.Description)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, section)
}

func (sh *SectionHandler) Update(c *gin.Context) {
  id, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  var req services.UpdateSectionInput
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid_body", fmt.Errorf("Invalid request body")))
    return
  }
  section, err := sh.sectionService.UpdateSection(c.Request.Context(), id, req)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, section)
}

func (sh *SectionHandler) Delete(c *gin.Context) {
  id, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  if err := sh.sectionService.DeleteSection(c.Request.Context(), id); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"deleted": true})
}

func (sh *SectionHandler) Reorder(c *gin.Context) {
  blueprintID, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  var req struct {
    SectionIDs []uuid.UUID `json:"section_ids"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid_body", fmt.Errorf("Invalid request body")))
    return
  }
  if err := sh.sectionService.ReorderSections(c.Request.Context(), blueprintID, req.SectionIDs); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"reordered": true})
}
