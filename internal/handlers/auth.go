package handlers

import (
  "fmt"

  "github.com/gin-gonic/gin"

  "github.com/structa/structa-backend/internal/apierr"
  "github.com/structa/structa-backend/internal/services"
  "github.com/structa/structa-backend/internal/types"
)

type AuthHandler struct {
  authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
  return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
  var req struct {
    CompanyName string `json:"company_name"`
    Email       string `json:"email"`
    FirstName   string `json:"first_name"`
    LastName    string `json:"last_name"`
    Password    string `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid_body", fmt.Errorf("Invalid request body")))
    return
  }
  user := types.User{
    Email:     req.Email,
    FirstName: req.FirstName,
    LastName:  req.LastName,
    Password:  req.Password,
  }
  created, err := ah.authService.RegisterCompany(c.Request.Context(), req.CompanyName, &user)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, created)
}

func (ah *AuthHandler) Login(c *gin.Context) {
  var req struct {
    Email    string `json:"email"`
    Password string `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid_body", fmt.Errorf("Invalid request body")))
    return
  }
  pair, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
  if err != nil {
    RespondError(c, err)
    return
  }
  expiresIn := int(ah.authService.GetAccessTTL().Seconds())
  RespondOK(c, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken, "expires_in": expiresIn})
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
  var req struct {
    RefreshToken string `json:"refresh_token"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid_body", fmt.Errorf("Invalid request body")))
    return
  }
  pair, err := ah.authService.Refresh(c.Request.Context(), req.RefreshToken)
  if err != nil {
    RespondError(c, err)
    return
  }
  expiresIn := int(ah.authService.GetAccessTTL().Seconds())
  RespondOK(c, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken, "expires_in": expiresIn})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
  if err := ah.authService.Logout(c.Request.Context()); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"message": "logged out successfully"})
}
