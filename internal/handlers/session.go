package handlers

import (
  "fmt"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/structa/structa-backend/internal/apierr"
  "github.com/structa/structa-backend/internal/services"
)

type SessionHandler struct {
  sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService) *SessionHandler {
  return &SessionHandler{sessionService: sessionService}
}

func (sh *SessionHandler) Create(c *gin.Context) {
  var req struct {
    BlueprintID uuid.UUID `json:"blueprint_id"`
    Name        string    `json:"name"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid_body", fmt.Errorf("Invalid request body")))
    return
  }
  session, err := sh.sessionService.CreateSession(c.Request.Context(), req.BlueprintID, req.Name)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, session)
}

func (sh *SessionHandler) List(c *gin.Context) {
  sessions, err := sh.sessionService.GetCompanySessions(c.Request.Context(), nil)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, sessions)
}

func (sh *SessionHandler) Get(c *gin.Context) {
  id, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  detail, err := sh.sessionService.GetSessionDetail(c.Request.Context(), id)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, detail)
}

func (sh *SessionHandler) Rename(c *gin.Context) {
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
  session, err := sh.sessionService.RenameSession(c.Request.Context(), id, req.Name)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, session)
}

func (sh *SessionHandler) Archive(c *gin.Context) {
  id, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  session, err := sh.sessionService.ArchiveSession(c.Request.Context(), id)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, session)
}

func (sh *SessionHandler) Delete(c *gin.Context) {
  id, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  if err := sh.sessionService.DeleteSession(c.Request.Context(), id); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"deleted": true})
}

func (sh *SessionHandler) SetFieldValue(c *gin.Context) {
  id, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  fieldID, err := parseUUIDParam(c, "fieldId")
  if err != nil {
    RespondError(c, err)
    return
  }
  var req struct {
    Value *string `json:"value"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid_body", fmt.Errorf("Invalid request body")))
    return
  }
  progress, err := sh.sessionService.SetFieldValue(c.Request.Context(), id, fieldID, req.Value)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, progress)
}

func (sh *SessionHandler) RecomputeProgress(c *gin.Context) {
  id, err := parseUUIDParam(c, "id")
  if err != nil {
    RespondError(c, err)
    return
  }
  progress, err := sh.sessionService.RecomputeProgress(c.Request.Context(), id)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, progress)
}
