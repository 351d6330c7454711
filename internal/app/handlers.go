package app

import (
	"github.com/structa/structa-backend/internal/handlers"
	"github.com/structa/structa-backend/internal/logger"
)

type Handlers struct {
	Healthcheck *handlers.HealthcheckHandler
	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Blueprint   *handlers.BlueprintHandler
	Section     *handlers.SectionHandler
	Field       *handlers.FieldHandler
	Session     *handlers.SessionHandler
	Suggestion  *handlers.SuggestionHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Healthcheck: handlers.NewHealthcheckHandler(),
		Auth:        handlers.NewAuthHandler(services.Auth),
		User:        handlers.NewUserHandler(services.User),
		Blueprint:   handlers.NewBlueprintHandler(services.Blueprint),
		Section:     handlers.NewSectionHandler(services.Section),
		Field:       handlers.NewFieldHandler(services.Field),
		Session:     handlers.NewSessionHandler(services.Session),
		Suggestion:  handlers.NewSuggestionHandler(services.Suggestion),
	}
}
