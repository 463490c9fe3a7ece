package migrations

import (
	"gorm.io/gorm"
)

// AddIndexes adds indexes to the database to improve query performance
func AddIndexes(db *gorm.DB) error {
	// Add indexes to the surveys table
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_surveys_status ON surveys (status)").Error; err != nil {
		return err
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_surveys_facility_id ON surveys (facility_id)").Error; err != nil {
		return err
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_surveys_template_id ON surveys (template_id)").Error; err != nil {
		return err
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_surveys_enumerator_name ON surveys (enumerator_name)").Error; err != nil {
		return err
	}

	// Add indexes to the survey_answers table
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_answers_survey_id ON survey_answers (survey_id)").Error; err != nil {
		return err
	}

	// Índice único parcial que sustenta o upsert atômico de respostas de
	// template: uma linha por (survey, pergunta) quando a pergunta existe
	if err := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_answers_survey_question ON survey_answers (survey_id, template_question_id) WHERE template_question_id IS NOT NULL").Error; err != nil {
		return err
	}

	// Add indexes to the template_questions table
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_template_questions_template_id ON template_questions (template_id, order_no)").Error; err != nil {
		return err
	}

	return nil
}
