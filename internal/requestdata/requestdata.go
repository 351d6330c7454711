package requestdata

import (
  "context"
  "github.com/google/uuid"
)

var requestDataKey = struct{}{}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
  return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
  val := ctx.Value(requestDataKey)
  if rd, ok := val.(*RequestData); ok {
    return rd
  }
  return nil
}

type RequestData struct {
  TokenString  string
  RefreshToken string
  UserID       uuid.UUID
  CompanyID    uuid.UUID
  Role         string
}

const (
  RoleOwner  = "owner"
  RoleEditor = "editor"
  RoleViewer = "viewer"
)

// CanMutate reports whether the caller may perform state-changing operations.
func (rd *RequestData) CanMutate() bool {
  if rd == nil {
    return false
  }
  return rd.Role == RoleOwner || rd.Role == RoleEditor
}
