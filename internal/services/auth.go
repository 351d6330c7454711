package services

import (
  "context"
  "fmt"
  "net/http"
  "time"

  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "golang.org/x/crypto/bcrypt"
  "gorm.io/gorm"

  "github.com/structa/structa-backend/internal/apierr"
  "github.com/structa/structa-backend/internal/logger"
  "github.com/structa/structa-backend/internal/normalization"
  "github.com/structa/structa-backend/internal/repos"
  "github.com/structa/structa-backend/internal/requestdata"
  "github.com/structa/structa-backend/internal/types"
  "github.com/structa/structa-backend/internal/utils"
)

type JWTClaims struct {
  CompanyID string `json:"company_id"`
  Role      string `json:"role"`
  jwt.RegisteredClaims
}

// TokenPair is what every successful authentication hands back.
type TokenPair struct {
  AccessToken  string `json:"access_token"`
  RefreshToken string `json:"refresh_token"`
}

type AuthService interface {
  RegisterCompany(ctx context.Context, companyName string, user *types.User) (*types.User, error)
  Login(ctx context.Context, email, password string) (*TokenPair, error)
  Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
  Logout(ctx context.Context) error
  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
  GetAccessTTL() time.Duration
}

type authService struct {
  db            *gorm.DB
  log           *logger.Logger
  companyRepo   repos.CompanyRepo
  userRepo      repos.UserRepo
  userTokenRepo repos.UserTokenRepo
  jwtSecretKey  string
  accessTTL     time.Duration
  refreshTTL    time.Duration
}

func NewAuthService(
  db *gorm.DB,
  baseLog *logger.Logger,
  companyRepo repos.CompanyRepo,
  userRepo repos.UserRepo,
  userTokenRepo repos.UserTokenRepo,
  jwtSecretKey string,
  accessTTL time.Duration,
  refreshTTL time.Duration,
) AuthService {
  serviceLog := baseLog.With("service", "AuthService")
  return &authService{
    db:            db,
    log:           serviceLog,
    companyRepo:   companyRepo,
    userRepo:      userRepo,
    userTokenRepo: userTokenRepo,
    jwtSecretKey:  jwtSecretKey,
    accessTTL:     accessTTL,
    refreshTTL:    refreshTTL,
  }
}

// RegisterCompany creates a company and its first user, the owner, in one
// transaction. Later users join the existing company with lesser roles.
func (as *authService) RegisterCompany(ctx context.Context, companyName string, user *types.User) (*types.User, error) {
  companyName = normalization.ParseName(companyName)
  utils.NormalizeUserFields(ctx, user)
  if vErr := utils.InputValidation(ctx, "registration", as.userRepo, as.log, user, companyName, "", ""); vErr != nil {
    return nil, apierr.Validation("invalid_registration", vErr)
  }
  if hErr := utils.HashPassword(ctx, as.log, user); hErr != nil {
    return nil, fmt.Errorf("hash password: %w", hErr)
  }

  txErr := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    company := &types.Company{ID: uuid.New(), Name: companyName}
    if _, err := as.companyRepo.Create(ctx, tx, []*types.Company{company}); err != nil {
      return fmt.Errorf("create company: %w", err)
    }
    user.ID = uuid.New()
    user.CompanyID = company.ID
    user.Role = types.UserRoleOwner
    if _, err := as.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
      return fmt.Errorf("create user: %w", err)
    }
    return nil
  })
  if txErr != nil {
    as.log.Error("RegisterCompany failed", "error", txErr, "email", user.Email)
    return nil, txErr
  }
  return user, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
  email = normalization.ParseInputString(email)
  if vErr := utils.InputValidation(ctx, "login", as.userRepo, as.log, nil, "", email, password); vErr != nil {
    return nil, apierr.Validation("invalid_login", vErr)
  }

  users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
  if err != nil {
    return nil, fmt.Errorf("load user by email: %w", err)
  }
  if len(users) == 0 || users[0] == nil {
    return nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", fmt.Errorf("Invalid email or password"))
  }
  user := users[0]
  if cErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); cErr != nil {
    return nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", fmt.Errorf("Invalid email or password"))
  }

  var pair *TokenPair
  txErr := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    foundTokens, ftErr := as.userTokenRepo.GetByUserIDs(ctx, tx, []uuid.UUID{user.ID})
    if ftErr != nil {
      return fmt.Errorf("check user tokens: %w", ftErr)
    }
    expired := make([]uuid.UUID, 0, len(foundTokens))
    for _, tok := range foundTokens {
      if tok != nil && tok.ExpiresAt.Before(time.Now()) {
        expired = append(expired, tok.ID)
      }
    }
    if len(expired) > 0 {
      if dErr := as.userTokenRepo.FullDeleteByIDs(ctx, tx, expired); dErr != nil {
        return fmt.Errorf("delete expired user tokens: %w", dErr)
      }
    }
    issued, iErr := as.issueTokenPair(ctx, tx, user)
    if iErr != nil {
      return iErr
    }
    pair = issued
    return nil
  })
  if txErr != nil {
    as.log.Error("Login failed", "error", txErr, "email", email)
    return nil, txErr
  }
  return pair, nil
}

// Refresh rotates the refresh token: the presented one is deleted and a
// fresh pair is issued, so every refresh token is single-use.
func (as *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
  if refreshToken == "" {
    return nil, apierr.Validation("refresh_token_required", fmt.Errorf("A refresh token is required"))
  }

  var pair *TokenPair
  txErr := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    foundTokens, ftErr := as.userTokenRepo.GetByRefreshTokens(ctx, tx, []string{refreshToken})
    if ftErr != nil {
      return fmt.Errorf("load refresh token: %w", ftErr)
    }
    if len(foundTokens) == 0 || foundTokens[0] == nil {
      return apierr.New(http.StatusUnauthorized, "invalid_refresh_token", fmt.Errorf("Unknown refresh token"))
    }
    existingToken := foundTokens[0]
    if existingToken.ExpiresAt.Before(time.Now()) {
      if dErr := as.userTokenRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{existingToken.ID}); dErr != nil {
        return fmt.Errorf("delete expired refresh token: %w", dErr)
      }
      return apierr.New(http.StatusUnauthorized, "refresh_token_expired", fmt.Errorf("Refresh token expired"))
    }

    users, uErr := as.userRepo.GetByIDs(ctx, tx, []uuid.UUID{existingToken.UserID})
    if uErr != nil {
      return fmt.Errorf("load user for refresh: %w", uErr)
    }
    if len(users) == 0 || users[0] == nil {
      return apierr.New(http.StatusUnauthorized, "invalid_refresh_token", fmt.Errorf("No user for the given refresh token"))
    }

    issued, iErr := as.issueTokenPair(ctx, tx, users[0])
    if iErr != nil {
      return iErr
    }
    if dErr := as.userTokenRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{existingToken.ID}); dErr != nil {
      return fmt.Errorf("delete rotated refresh token: %w", dErr)
    }
    pair = issued
    return nil
  })
  if txErr != nil {
    as.log.Warn("Refresh failed", "error", txErr)
    return nil, txErr
  }
  return pair, nil
}

// Logout revokes every refresh token of the calling user. Outstanding access
// tokens stay valid until their short TTL runs out.
func (as *authService) Logout(ctx context.Context) error {
  rd, err := caller(ctx)
  if err != nil {
    return err
  }
  return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if dErr := as.userTokenRepo.FullDeleteByUserIDs(ctx, tx, []uuid.UUID{rd.UserID}); dErr != nil {
      return fmt.Errorf("delete user tokens: %w", dErr)
    }
    return nil
  })
}

func (as *authService) issueTokenPair(ctx context.Context, tx *gorm.DB, user *types.User) (*TokenPair, error) {
  accessToken, genErr := as.generateAccessToken(user)
  if genErr != nil {
    return nil, fmt.Errorf("generate access token: %w", genErr)
  }
  refreshToken := uuid.New().String()
  userToken := &types.UserToken{
    ID:           uuid.New(),
    UserID:       user.ID,
    RefreshToken: refreshToken,
    ExpiresAt:    time.Now().Add(as.refreshTTL),
  }
  if _, cErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{userToken}); cErr != nil {
    return nil, fmt.Errorf("create user token: %w", cErr)
  }
  return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
  claims := JWTClaims{
    CompanyID: user.CompanyID.String(),
    Role:      user.Role,
    RegisteredClaims: jwt.RegisteredClaims{
      Subject:   user.ID.String(),
      ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
      IssuedAt:  jwt.NewNumericDate(time.Now()),
    },
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken validates the bearer token and stamps the caller's
// identity into the context. The company and role ride in the claims, but
// the user row is reloaded so a role change takes effect within the access
// TTL instead of at the next login.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  if tokenString == "" {
    return ctx, apierr.New(http.StatusUnauthorized, "missing_token", fmt.Errorf("No bearer token supplied"))
  }
  parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
    if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
    }
    return []byte(as.jwtSecretKey), nil
  })
  if err != nil {
    return ctx, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("Failed to parse token: %w", err))
  }
  claims, ok := parsedToken.Claims.(*JWTClaims)
  if !ok || !parsedToken.Valid {
    return ctx, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("Invalid or expired token"))
  }
  userID, err := uuid.Parse(claims.Subject)
  if err != nil {
    return ctx, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("Invalid user id in token: %w", err))
  }

  users, uErr := as.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
  if uErr != nil {
    return ctx, fmt.Errorf("load user for token: %w", uErr)
  }
  if len(users) == 0 || users[0] == nil {
    return ctx, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("No user for the given token"))
  }
  user := users[0]

  rd := &requestdata.RequestData{
    TokenString: tokenString,
    UserID:      user.ID,
    CompanyID:   user.CompanyID,
    Role:        user.Role,
  }
  return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
  return as.accessTTL
}
