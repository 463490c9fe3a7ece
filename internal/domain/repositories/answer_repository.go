package repositories

import (
	"fmt"
	"time"

	"github.com/openfieldhq/openfield-collect-api/internal/domain/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AnswerRepository implementa métodos para acesso a dados de respostas de survey
type AnswerRepository struct {
	db *gorm.DB
}

// NewAnswerRepository cria uma nova instância de AnswerRepository
func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{
		db: db,
	}
}

// AddAnswer insere uma resposta (fluxo manual, append-only)
func (r *AnswerRepository) AddAnswer(a *entities.SurveyAnswer) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if err := r.db.Create(a).Error; err != nil {
		return fmt.Errorf("erro ao adicionar resposta: %w", err)
	}
	return nil
}

// UpsertTemplateAnswer grava a resposta de uma pergunta de template.
// O índice único parcial (survey_id, template_question_id) garante no máximo
// uma linha por pergunta respondida; submissões concorrentes da mesma sessão
// convergem para a última gravação via ON CONFLICT DO UPDATE.
func (r *AnswerRepository) UpsertTemplateAnswer(a *entities.SurveyAnswer) error {
	if a.TemplateQuestionID == nil {
		return fmt.Errorf("upsert de resposta exige template_question_id")
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "survey_id"}, {Name: "template_question_id"}},
		TargetWhere: clause.Where{
			Exprs: []clause.Expression{clause.Expr{SQL: "template_question_id IS NOT NULL"}},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"question", "answer", "answer_source", "confidence_level", "is_missing", "missing_reason",
		}),
	}).Create(a).Error; err != nil {
		return fmt.Errorf("erro ao gravar resposta de template: %w", err)
	}
	return nil
}

// ListBySurvey retorna as respostas de uma survey em ordem de inserção (id asc)
func (r *AnswerRepository) ListBySurvey(surveyID int64) ([]entities.SurveyAnswer, error) {
	var answers []entities.SurveyAnswer
	if err := r.db.
		Where("survey_id = ?", surveyID).
		Order("id ASC").
		Find(&answers).Error; err != nil {
		return nil, fmt.Errorf("erro ao buscar respostas da survey: %w", err)
	}
	return answers, nil
}

// AggregateBySurvey calcula as contagens de qualidade de uma survey em uma
// única consulta. Confiança e proveniência ausentes contam como vazio, nunca
// como erro.
func (r *AnswerRepository) AggregateBySurvey(surveyID int64) (entities.AnswerAggregate, error) {
	var agg entities.AnswerAggregate
	if err := r.db.Model(&entities.SurveyAnswer{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN is_missing THEN 1 ELSE 0 END), 0) AS missing,
			COALESCE(SUM(CASE WHEN confidence_level = 'LOW' THEN 1 ELSE 0 END), 0) AS low_conf,
			COALESCE(SUM(CASE WHEN answer_source IS NULL OR answer_source = '' THEN 1 ELSE 0 END), 0) AS no_source,
			COALESCE(SUM(CASE WHEN confidence_level IS NULL OR confidence_level = '' THEN 1 ELSE 0 END), 0) AS no_conf`).
		Where("survey_id = ?", surveyID).
		Scan(&agg).Error; err != nil {
		return entities.AnswerAggregate{}, fmt.Errorf("erro ao agregar respostas da survey: %w", err)
	}
	return agg, nil
}

// FlatExportRow é uma linha do export plano surveys+respostas
type FlatExportRow struct {
	SurveyID           int64      `json:"survey_id"`
	FacilityName       string     `json:"facility_name"`
	TemplateID         *int64     `json:"template_id"`
	SurveyType         string     `json:"survey_type"`
	EnumeratorName     string     `json:"enumerator_name"`
	Status             string     `json:"status"`
	SurveyCreatedAt    time.Time  `json:"survey_created_at"`
	AnswerID           *int64     `json:"answer_id"`
	TemplateQuestionID *int64     `json:"template_question_id"`
	Question           *string    `json:"question"`
	Answer             *string    `json:"answer"`
	AnswerSource       *string    `json:"answer_source"`
	ConfidenceLevel    *string    `json:"confidence_level"`
	IsMissing          *bool      `json:"is_missing"`
	MissingReason      *string    `json:"missing_reason"`
	AnswerCreatedAt    *time.Time `json:"answer_created_at"`
}

// FlatExportRows retorna surveys com suas respostas achatadas (LEFT JOIN,
// surveys sem respostas aparecem com campos de resposta nulos)
func (r *AnswerRepository) FlatExportRows() ([]FlatExportRow, error) {
	var rows []FlatExportRow
	if err := r.db.Raw(`
		SELECT s.id AS survey_id,
		       f.name AS facility_name,
		       s.template_id,
		       s.survey_type,
		       s.enumerator_name,
		       s.status,
		       s.created_at AS survey_created_at,
		       a.id AS answer_id,
		       a.template_question_id,
		       a.question,
		       a.answer,
		       a.answer_source,
		       a.confidence_level,
		       a.is_missing,
		       a.missing_reason,
		       a.created_at AS answer_created_at
		FROM surveys s
		JOIN facilities f ON f.id = s.facility_id
		LEFT JOIN survey_answers a ON a.survey_id = s.id
		ORDER BY s.id ASC, a.id ASC
	`).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("erro ao buscar linhas do export plano: %w", err)
	}
	return rows, nil
}
