package entities

import (
	"time"
)

// Status possíveis de uma survey. A transição é monotônica: DRAFT -> COMPLETED.
const (
	SurveyStatusDraft     = "DRAFT"
	SurveyStatusCompleted = "COMPLETED"
)

// Survey representa uma coleta de dados contra uma facility,
// guiada por template (TemplateID preenchido) ou manual (TemplateID nulo)
type Survey struct {
	ID             int64     `json:"id" gorm:"primaryKey;column:id"`
	FacilityID     int64     `json:"facility_id" gorm:"column:facility_id;index:idx_surveys_facility"`
	TemplateID     *int64    `json:"template_id" gorm:"column:template_id"`
	SurveyType     string    `json:"survey_type" gorm:"column:survey_type"`
	EnumeratorName string    `json:"enumerator_name" gorm:"column:enumerator_name;index:idx_surveys_enum"`
	Status         string    `json:"status" gorm:"column:status;default:DRAFT;index:idx_surveys_status"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at"`

	// Relações
	Facility *Facility      `json:"facility,omitempty" gorm:"foreignKey:FacilityID"`
	Answers  []SurveyAnswer `json:"answers,omitempty" gorm:"foreignKey:SurveyID"`
}

// IsCompleted indica se a survey já foi submetida
func (s Survey) IsCompleted() bool {
	return s.Status == SurveyStatusCompleted
}
