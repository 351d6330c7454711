package handlers

import (
  "fmt"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/structa/structa-backend/internal/apierr"
)

type APIError struct {
  Message string `json:"message"`
  Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error APIError `json:"error"`
}

// RespondError translates a service error into its HTTP shape. Internal
// errors keep their detail out of the response body.
func RespondError(c *gin.Context, err error) {
  ae := apierr.From(err)
  msg := ae.Error()
  if ae.IsInternal() {
    msg = "internal server error"
  }
  c.JSON(ae.Status, ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    ae.Code,
    },
  })
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
  id, err := uuid.Parse(c.Param(name))
  if err != nil {
    return uuid.Nil, apierr.Validation("invalid_id", fmt.Errorf("Invalid %s", name))
  }
  return id, nil
}
