package migrations

import (
	"github.com/openfieldhq/openfield-collect-api/internal/domain/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entities.Facility{},
		&entities.SurveyTemplate{},
		&entities.TemplateQuestion{},
		&entities.Survey{},
		&entities.SurveyAnswer{},
	)
}
