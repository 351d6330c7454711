package handlers

import (
  "github.com/gin-gonic/gin"

  "github.com/structa/structa-backend/internal/services"
)

type UserHandler struct {
  userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
  return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
  user, err := uh.userService.GetMe(c.Request.Context())
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, user)
}

func (uh *UserHandler) GetCompanyUsers(c *gin.Context) {
  users, err := uh.userService.GetCompanyUsers(c.Request.Context())
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, users)
}
