package services

import (
  "context"
  "net/http"
  "testing"
  "time"

  "github.com/google/uuid"

  "github.com/structa/structa-backend/internal/repos"
  "github.com/structa/structa-backend/internal/types"
)

func newAuthEnv(t *testing.T) (AuthService, repos.UserTokenRepo) {
  t.Helper()
  db := newTestDB(t)
  log := newTestLogger()
  companyRepo := repos.NewCompanyRepo(db, log)
  userRepo := repos.NewUserRepo(db, log)
  userTokenRepo := repos.NewUserTokenRepo(db, log)
  auth := NewAuthService(db, log, companyRepo, userRepo, userTokenRepo, "test-secret", time.Minute, time.Hour)
  return auth, userTokenRepo
}

func registerOwner(t *testing.T, auth AuthService) *types.User {
  t.Helper()
  user := &types.User{
    Email:     "Owner@Example.com",
    Password:  "s3cret-pass",
    FirstName: "Olive",
    LastName:  "Owner",
  }
  created, err := auth.RegisterCompany(context.Background(), "Acme Co", user)
  if err != nil {
    t.Fatalf("register: %v", err)
  }
  return created
}

func TestRegisterCompany(t *testing.T) {
  auth, _ := newAuthEnv(t)
  user := registerOwner(t, auth)

  if user.Role != types.UserRoleOwner {
    t.Errorf("role = %q, want owner", user.Role)
  }
  if user.Email != "owner@example.com" {
    t.Errorf("email = %q, want lowercased", user.Email)
  }
  if user.Password == "s3cret-pass" {
    t.Error("password stored in plain text")
  }

  t.Run("duplicate email rejected", func(t *testing.T) {
    _, err := auth.RegisterCompany(context.Background(), "Other Co", &types.User{
      Email: "owner@example.com", Password: "x", FirstName: "A", LastName: "B",
    })
    assertAPIErr(t, err, http.StatusBadRequest, "invalid_registration")
  })

  t.Run("missing company name rejected", func(t *testing.T) {
    _, err := auth.RegisterCompany(context.Background(), "  ", &types.User{
      Email: "new@example.com", Password: "x", FirstName: "A", LastName: "B",
    })
    assertAPIErr(t, err, http.StatusBadRequest, "invalid_registration")
  })
}

func TestLoginAndTokenRotation(t *testing.T) {
  auth, _ := newAuthEnv(t)
  registerOwner(t, auth)
  ctx := context.Background()

  pair, err := auth.Login(ctx, "OWNER@example.com", "s3cret-pass")
  if err != nil {
    t.Fatalf("login: %v", err)
  }
  if pair.AccessToken == "" || pair.RefreshToken == "" {
    t.Fatal("login returned empty tokens")
  }

  t.Run("wrong password uniform error", func(t *testing.T) {
    _, err := auth.Login(ctx, "owner@example.com", "wrong")
    assertAPIErr(t, err, http.StatusUnauthorized, "invalid_credentials")
  })

  t.Run("unknown email uniform error", func(t *testing.T) {
    _, err := auth.Login(ctx, "nobody@example.com", "whatever")
    assertAPIErr(t, err, http.StatusUnauthorized, "invalid_credentials")
  })

  t.Run("refresh rotates", func(t *testing.T) {
    next, err := auth.Refresh(ctx, pair.RefreshToken)
    if err != nil {
      t.Fatalf("refresh: %v", err)
    }
    if next.RefreshToken == pair.RefreshToken {
      t.Error("refresh token not rotated")
    }
    _, err = auth.Refresh(ctx, pair.RefreshToken)
    assertAPIErr(t, err, http.StatusUnauthorized, "invalid_refresh_token")
  })
}

func TestSetContextFromToken(t *testing.T) {
  auth, _ := newAuthEnv(t)
  user := registerOwner(t, auth)
  ctx := context.Background()

  pair, err := auth.Login(ctx, "owner@example.com", "s3cret-pass")
  if err != nil {
    t.Fatalf("login: %v", err)
  }

  authedCtx, err := auth.SetContextFromToken(ctx, pair.AccessToken)
  if err != nil {
    t.Fatalf("set context: %v", err)
  }
  rd, err := caller(authedCtx)
  if err != nil {
    t.Fatalf("caller: %v", err)
  }
  if rd.UserID != user.ID || rd.CompanyID != user.CompanyID || rd.Role != types.UserRoleOwner {
    t.Errorf("request data = %+v, want the registered owner", rd)
  }

  t.Run("garbage token rejected", func(t *testing.T) {
    _, err := auth.SetContextFromToken(ctx, "not.a.jwt")
    assertAPIErr(t, err, http.StatusUnauthorized, "invalid_token")
  })

  t.Run("empty token rejected", func(t *testing.T) {
    _, err := auth.SetContextFromToken(ctx, "")
    assertAPIErr(t, err, http.StatusUnauthorized, "missing_token")
  })
}

func TestLogoutRevokesRefresh(t *testing.T) {
  auth, tokenRepo := newAuthEnv(t)
  user := registerOwner(t, auth)
  ctx := context.Background()

  pair, err := auth.Login(ctx, "owner@example.com", "s3cret-pass")
  if err != nil {
    t.Fatalf("login: %v", err)
  }
  authedCtx, err := auth.SetContextFromToken(ctx, pair.AccessToken)
  if err != nil {
    t.Fatalf("set context: %v", err)
  }

  if err := auth.Logout(authedCtx); err != nil {
    t.Fatalf("logout: %v", err)
  }
  rows, err := tokenRepo.GetByUserIDs(ctx, nil, []uuid.UUID{user.ID})
  if err != nil {
    t.Fatalf("load tokens: %v", err)
  }
  if len(rows) != 0 {
    t.Errorf("%d refresh tokens survived logout", len(rows))
  }
  _, err = auth.Refresh(ctx, pair.RefreshToken)
  assertAPIErr(t, err, http.StatusUnauthorized, "invalid_refresh_token")
}
