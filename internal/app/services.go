package app

import (
	"gorm.io/gorm"

	"github.com/structa/structa-backend/internal/logger"
	"github.com/structa/structa-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	User       services.UserService
	Blueprint  services.BlueprintService
	Section    services.SectionService
	Field      services.FieldService
	Session    services.SessionService
	Suggestion services.SuggestionService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")

	authService := services.NewAuthService(
		db, log,
		reposet.Company, reposet.User, reposet.UserToken,
		cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
	)
	userService := services.NewUserService(db, log, reposet.User)
	blueprintService := services.NewBlueprintService(
		db, log,
		reposet.Blueprint, reposet.Section, reposet.Field, reposet.Session,
		clients.BlueprintCache,
	)
	sectionService := services.NewSectionService(db, log, reposet.Blueprint, reposet.Section, reposet.Field)
	fieldService := services.NewFieldService(db, log, reposet.Blueprint, reposet.Section, reposet.Field)
	sessionService := services.NewSessionService(
		db, log,
		reposet.Blueprint, reposet.Section, reposet.Field,
		reposet.Session, reposet.SessionFieldValue,
	)
	suggestionService := services.NewSuggestionService(
		db, log,
		reposet.Session, reposet.Section, reposet.Field,
		reposet.SessionFieldValue, sessionService,
	)

	return Services{
		Auth:       authService,
		User:       userService,
		Blueprint:  blueprintService,
		Section:    sectionService,
		Field:      fieldService,
		Session:    sessionService,
		Suggestion: suggestionService,
	}
}
