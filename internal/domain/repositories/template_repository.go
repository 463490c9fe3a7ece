package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/openfieldhq/openfield-collect-api/internal/domain/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TemplateRepository implementa métodos para acesso a dados de templates de survey
type TemplateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository cria uma nova instância de TemplateRepository
func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{
		db: db,
	}
}

// CreateTemplate cria um template. Se já existir um template com o mesmo
// nome, retorna o existente (insert idempotente, como nos seeds).
func (r *TemplateRepository) CreateTemplate(name, description string) (entities.SurveyTemplate, error) {
	tpl := entities.SurveyTemplate{
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}

	// ON CONFLICT DO NOTHING sobre o índice único de nome
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&tpl).Error; err != nil {
		return entities.SurveyTemplate{}, fmt.Errorf("erro ao criar template: %w", err)
	}

	var out entities.SurveyTemplate
	if err := r.db.Where("name = ?", name).First(&out).Error; err != nil {
		return entities.SurveyTemplate{}, fmt.Errorf("erro ao recuperar template criado: %w", err)
	}
	return out, nil
}

// ListTemplates retorna os templates em ordem alfabética
func (r *TemplateRepository) ListTemplates(limit int) ([]entities.SurveyTemplate, error) {
	if limit <= 0 {
		limit = 100
	}

	var templates []entities.SurveyTemplate
	if err := r.db.Order("name ASC").Limit(limit).Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("erro ao buscar templates: %w", err)
	}
	return templates, nil
}

// GetTemplate busca um template pelo id.
// Retorna ErrTemplateNotFound quando o id não existe; falhas de
// infraestrutura propagam inalteradas.
func (r *TemplateRepository) GetTemplate(id int64) (entities.SurveyTemplate, error) {
	var tpl entities.SurveyTemplate
	err := r.db.First(&tpl, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.SurveyTemplate{}, entities.ErrTemplateNotFound
	}
	if err != nil {
		return entities.SurveyTemplate{}, fmt.Errorf("erro ao buscar template %d: %w", id, err)
	}
	return tpl, nil
}

// AddQuestion adiciona uma pergunta a um template
func (r *TemplateRepository) AddQuestion(q *entities.TemplateQuestion) error {
	if err := r.db.Create(q).Error; err != nil {
		return fmt.Errorf("erro ao adicionar pergunta ao template: %w", err)
	}
	return nil
}

// GetTemplateQuestions retorna as perguntas de um template ordenadas
// por order_no e, em empate, por id
func (r *TemplateRepository) GetTemplateQuestions(templateID int64) ([]entities.TemplateQuestion, error) {
	var questions []entities.TemplateQuestion
	if err := r.db.
		Where("template_id = ?", templateID).
		Order("order_no ASC, id ASC").
		Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("erro ao buscar perguntas do template: %w", err)
	}
	return questions, nil
}

// GetQuestion busca uma pergunta de template pelo id.
// Retorna ErrQuestionNotFound quando o id não existe.
func (r *TemplateRepository) GetQuestion(questionID int64) (entities.TemplateQuestion, error) {
	var q entities.TemplateQuestion
	err := r.db.First(&q, "id = ?", questionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.TemplateQuestion{}, entities.ErrQuestionNotFound
	}
	if err != nil {
		return entities.TemplateQuestion{}, fmt.Errorf("erro ao buscar pergunta %d: %w", questionID, err)
	}
	return q, nil
}

// CountQuestions retorna o total de perguntas de um template
func (r *TemplateRepository) CountQuestions(templateID int64) (int64, error) {
	var total int64
	if err := r.db.Model(&entities.TemplateQuestion{}).
		Where("template_id = ?", templateID).
		Count(&total).Error; err != nil {
		return 0, fmt.Errorf("erro ao contar perguntas do template: %w", err)
	}
	return total, nil
}
