package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

  "github.com/structa/structa-backend/internal/handlers"
  "github.com/structa/structa-backend/internal/middleware"
)

type RouterConfig struct {
  ServiceName        string
  AllowOrigins       []string
  AuthMiddleware     *middleware.AuthMiddleware
  HealthcheckHandler *handlers.HealthcheckHandler
  AuthHandler        *handlers.AuthHandler
  UserHandler        *handlers.UserHandler
  BlueprintHandler   *handlers.BlueprintHandler
  SectionHandler     *handlers.SectionHandler
  FieldHandler       *handlers.FieldHandler
  SessionHandler     *handlers.SessionHandler
  SuggestionHandler  *handlers.SuggestionHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  router.Use(otelgin.Middleware(cfg.ServiceName))
  router.Use(middleware.RequestMetrics())

  // Cors
  allowOrigins := cfg.AllowOrigins
  if len(allowOrigins) == 0 {
    allowOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
  }
  router.Use(cors.New(cors.Config{
    AllowOrigins:     allowOrigins,
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  // ===============
  // || Public    ||
  // ===============
  router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)
  router.POST("/register", cfg.AuthHandler.Register)
  router.POST("/login", cfg.AuthHandler.Login)
  router.POST("/refresh", cfg.AuthHandler.Refresh)

  // ===============
  // || Protected ||
  // ===============
  protected := router.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())

  // Auth
  protected.POST("/logout", cfg.AuthHandler.Logout)

  // User
  protected.GET("/user", cfg.UserHandler.GetMe)
  protected.GET("/users", cfg.UserHandler.GetCompanyUsers)

  // Blueprints
  protected.POST("/blueprints", cfg.BlueprintHandler.Create)
  protected.GET("/blueprints", cfg.BlueprintHandler.List)
  protected.GET("/blueprints/:id", cfg.BlueprintHandler.Get)
  protected.PATCH("/blueprints/:id", cfg.BlueprintHandler.Update)
  protected.DELETE("/blueprints/:id", cfg.BlueprintHandler.Delete)
  protected.POST("/blueprints/:id/duplicate", cfg.BlueprintHandler.Duplicate)
  protected.POST("/blueprints/:id/publish", cfg.BlueprintHandler.Publish)

  // Sections
  protected.POST("/blueprints/:id/sections", cfg.SectionHandler.Add)
  protected.POST("/blueprints/:id/sections/reorder", cfg.SectionHandler.Reorder)
  protected.PATCH("/sections/:id", cfg.SectionHandler.Update)
  protected.DELETE("/sections/:id", cfg.SectionHandler.Delete)

  // Fields
  protected.POST("/sections/:id/fields", cfg.FieldHandler.Add)
  protected.POST("/sections/:id/fields/reorder", cfg.FieldHandler.Reorder)
  protected.PATCH("/fields/:id", cfg.FieldHandler.Update)
  protected.DELETE("/fields/:id", cfg.FieldHandler.Delete)

  // Sessions
  protected.POST("/sessions", cfg.SessionHandler.Create)
  protected.GET("/sessions", cfg.SessionHandler.List)
  protected.GET("/sessions/:id", cfg.SessionHandler.Get)
  protected.PATCH("/sessions/:id", cfg.SessionHandler.Rename)
  protected.POST("/sessions/:id/archive", cfg.SessionHandler.Archive)
  protected.DELETE("/sessions/:id", cfg.SessionHandler.Delete)
  protected.PUT("/sessions/:id/fields/:fieldId", cfg.SessionHandler.SetFieldValue)
  protected.POST("/sessions/:id/progress/recompute", cfg.SessionHandler.RecomputeProgress)

  // Suggestions
  protected.POST("/sessions/:id/suggestions", cfg.SuggestionHandler.Ingest)
  protected.GET("/sessions/:id/suggestions", cfg.SuggestionHandler.List)
  protected.POST("/sessions/:id/suggestions/:valueId/accept", cfg.SuggestionHandler.Accept)
  protected.POST("/sessions/:id/suggestions/:valueId/reject", cfg.SuggestionHandler.Reject)
  protected.POST("/sessions/:id/suggestions/accept-all", cfg.SuggestionHandler.AcceptAll)
  protected.POST("/sessions/:id/suggestions/reject-all", cfg.SuggestionHandler.RejectAll)

  return router
}
