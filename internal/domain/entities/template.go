package entities

import (
	"time"
)

// Tipos de pergunta suportados pelos templates
const (
	QuestionTypeText   = "TEXT"
	QuestionTypeYesNo  = "YESNO"
	QuestionTypeNumber = "NUMBER"
)

// SurveyTemplate representa um conjunto reutilizável de perguntas
type SurveyTemplate struct {
	ID          int64     `json:"id" gorm:"primaryKey;column:id"`
	Name        string    `json:"name" gorm:"column:name;uniqueIndex:idx_templates_name"`
	Description string    `json:"description" gorm:"column:description"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`

	// Relações
	Questions []TemplateQuestion `json:"questions,omitempty" gorm:"foreignKey:TemplateID"`
}

// TemplateQuestion representa uma pergunta ordenada dentro de um template
type TemplateQuestion struct {
	ID           int64     `json:"id" gorm:"primaryKey;column:id"`
	TemplateID   int64     `json:"template_id" gorm:"column:template_id;index:idx_tplq_tpl"`
	QuestionText string    `json:"question_text" gorm:"column:question_text"`
	QuestionType string    `json:"question_type" gorm:"column:question_type;default:TEXT"`
	OrderNo      int       `json:"order_no" gorm:"column:order_no;default:1"`
	IsRequired   bool      `json:"is_required" gorm:"column:is_required;default:false"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
}

// NormalizeQuestionType valida o tipo de pergunta; tipos desconhecidos viram TEXT
func NormalizeQuestionType(qt string) string {
	switch normalizeEnum(qt) {
	case QuestionTypeYesNo:
		return QuestionTypeYesNo
	case QuestionTypeNumber:
		return QuestionTypeNumber
	default:
		return QuestionTypeText
	}
}
