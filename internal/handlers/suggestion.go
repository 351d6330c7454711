package handlers

import (
  "fmt"

  "github.com/gin-gonic/gin"

  "github.com/structa/structa-backend/internal/apierr"
  "github.com/structa/structa-backend/internal/services"
)

type SuggestionHandler struct {
  suggestionService services.SuggestionService
}

func NewSuggestionHandler(suggestionService services.SuggestionService) *SuggestionHandler {
  return &SuggestionHandler{suggestionService: suggestionService}
}

func (sh *SuggestionHandler) Ingest(c *gin.Context) {
  sessionID, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  var req struct {
    Suggestions []services.SuggestionInput `json:"suggestions"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid_body", fmt.Errorf("Invalid request body")))
    return
  }
  result, err := sh.suggestionService.Ingest(c.Request.Context(), sessionID, req.Suggestions)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, result)
}

func (sh *SuggestionHandler) List(c *gin.Context) {
  sessionID, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  rows, err := sh.suggestionService.ListUnreviewed(c.Request.Context(), sessionID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, rows)
}

func (sh *SuggestionHandler) Accept(c *gin.Context) {
  sessionID, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  valueID, err := parseUUIDParam(c, "valueId")
  if err != nil {
    RespondError(c, err)
    return
  }
  progress, err := sh.suggestionService.Accept(c.Request.Context(), sessionID, valueID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, progress)
}

func (sh *SuggestionHandler) Reject(c *gin.Context) {
  sessionID, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  valueID, err := parseUUIDParam(c, "valueId")
  if err != nil {
    RespondError(c, err)
    return
  }
  progress, err := sh.suggestionService.Reject(c.Request.Context(), sessionID, valueID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, progress)
}

func (sh *SuggestionHandler) AcceptAll(c *gin.Context) {
  sessionID, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  result, err := sh.suggestionService.AcceptAll(c.Request.Context(), sessionID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, result)
}

func (sh *SuggestionHandler) RejectAll(c *gin.Context) {
  sessionID, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  result, err := sh.suggestionService.RejectAll(c.Request.Context(), sessionID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, result)
}
