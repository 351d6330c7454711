package app

import (
	"gorm.io/gorm"

	"github.com/structa/structa-backend/internal/logger"
	"github.com/structa/structa-backend/internal/repos"
)

type Repos struct {
	Company           repos.CompanyRepo
	User              repos.UserRepo
	UserToken         repos.UserTokenRepo
	Blueprint         repos.BlueprintRepo
	Section           repos.SectionRepo
	Field             repos.FieldRepo
	Session           repos.SessionRepo
	SessionFieldValue repos.SessionFieldValueRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Company:           repos.NewCompanyRepo(db, log),
		User:              repos.NewUserRepo(db, log),
		UserToken:         repos.NewUserTokenRepo(db, log),
		Blueprint:         repos.NewBlueprintRepo(db, log),
		Section:           repos.NewSectionRepo(db, log),
		Field:             repos.NewFieldRepo(db, log),
		Session:           repos.NewSessionRepo(db, log),
		SessionFieldValue: repos.NewSessionFieldValueRepo(db, log),
	}
}
