package handlers

import (
  "fmt"

  "github.com/gin-gonic/gin"

  "github.com/structa/structa-backend/internal/apierr"
  "github.com/structa/structa-backend/internal/services"
)

type BlueprintHandler struct {
  blueprintService services.BlueprintService
}

func NewBlueprintHandler(blueprintService services.BlueprintService) *BlueprintHandler {
  return &BlueprintHandler{blueprintService: blueprintService}
}

func (bh *BlueprintHandler) Create(c *gin.Context) {
  var req struct {
    Name        string `json:"name"`
    Description string `json:"description"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid_body", fmt.Errorf("Invalid request body")))
    return
  }
  blueprint, err := bh.blueprintService.CreateBlueprint(c.Request.Context(), nil, req.Name, req.Description)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, blueprint)
}

func (bh *BlueprintHandler) List(c *gin.Context) {
  blueprints, err := bh.blueprintService.GetCompanyBlueprints(c.Request.Context(), nil)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, blueprints)
}

func (bh *BlueprintHandler) Get(c *gin.Context) {
  id, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  blueprint, err := bh.blueprintService.GetBlueprintTree(c.Request.Context(), nil, id)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, blueprint)
}

func (bh *BlueprintHandler) Update(c *gin.Context) {
  id, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  var req services.UpdateBlueprintInput
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid_body", fmt.Errorf("Invalid request body")))
    return
  }
  blueprint, err := bh.blueprintService.UpdateBlueprint(c.Request.Context(), id, req)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, blueprint)
}

func (bh *BlueprintHandler) Delete(c *gin.Context) {
  id, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  if err := bh.blueprintService.DeleteBlueprint(c.Request.Context(), id); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"deleted": true})
}

func (bh *BlueprintHandler) Duplicate(c *gin.Context) {
  id, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  var req struct {
    Name string `json:"name"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid_body", fmt.Errorf("Invalid request body")))
    return
  }
  blueprint, err := bh.blueprintService.DuplicateBlueprint(c.Request.Context(), id, req.Name)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, blueprint)
}

func (bh *BlueprintHandler) Publish(c *gin.Context) {
  id, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  blueprint, err := bh.blueprintService.PublishBlueprint(c.Request.Context(), id)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, blueprint)
}
