package app

import (
	"github.com/gin-gonic/gin"

	"github.com/structa/structa-backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:        cfg.ServiceName,
		AllowOrigins:       cfg.AllowOrigins,
		AuthMiddleware:     middleware.Auth,
		HealthcheckHandler: handlers.Healthcheck,
		AuthHandler:        handlers.Auth,
		UserHandler:        handlers.User,
		BlueprintHandler:   handlers.Blueprint,
		SectionHandler:     handlers.Section,
		FieldHandler:       handlers.Field,
		SessionHandler:     handlers.Session,
		SuggestionHandler:  handlers.Suggestion,
	})
}
