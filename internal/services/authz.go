package services

import (
  "context"
  "fmt"
  "net/http"

  "github.com/google/uuid"

  "github.com/structa/structa-backend/internal/apierr"
  "github.com/structa/structa-backend/internal/requestdata"
)

// caller returns the authenticated identity from the request context. Every
// operation in this package is company-scoped, so a missing identity is a
// hard stop.
func caller(ctx context.Context) (*requestdata.RequestData, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil || rd.CompanyID == uuid.Nil {
    return nil, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("request identity not set in context"))
  }
  return rd, nil
}

// mutatingCaller additionally requires the owner or editor role.
func mutatingCaller(ctx context.Context) (*requestdata.RequestData, error) {
  rd, err := caller(ctx)
  if err != nil {
    return nil, err
  }
  if !rd.CanMutate() {
    return nil, apierr.New(http.StatusForbidden, "forbidden", fmt.Errorf("owner or editor role required"))
  }
  return rd, nil
}
