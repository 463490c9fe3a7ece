package repositories

import (
	"errors"
	"fmt"

	"github.com/openfieldhq/openfield-collect-api/internal/domain/entities"
	"gorm.io/gorm"
)

// SurveyRepository implementa métodos para acesso a dados de surveys
type SurveyRepository struct {
	db *gorm.DB
}

// NewSurveyRepository cria uma nova instância de SurveyRepository
func NewSurveyRepository(db *gorm.DB) *SurveyRepository {
	return &SurveyRepository{
		db: db,
	}
}

// CreateSurvey insere o cabeçalho de uma survey (status DRAFT)
func (r *SurveyRepository) CreateSurvey(s *entities.Survey) error {
	if err := r.db.Create(s).Error; err != nil {
		return fmt.Errorf("erro ao criar survey: %w", err)
	}
	return nil
}

// GetSurveyByID busca o cabeçalho de uma survey pelo id.
// Retorna ErrSurveyNotFound quando o id não existe; falhas de infraestrutura
// propagam inalteradas para o chamador.
func (r *SurveyRepository) GetSurveyByID(id int64) (entities.Survey, error) {
	var survey entities.Survey
	err := r.db.First(&survey, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Survey{}, entities.ErrSurveyNotFound
	}
	if err != nil {
		return entities.Survey{}, fmt.Errorf("erro ao buscar survey %d: %w", id, err)
	}
	return survey, nil
}

// FilterSurveys retorna surveys filtradas por status, template e substring
// de enumerador, mais recentes primeiro (id desc), com facility pré-carregada
func (r *SurveyRepository) FilterSurveys(status string, templateID int64, enumerator string, limit int) ([]entities.Survey, error) {
	if limit <= 0 {
		limit = 50
	}

	query := r.db.Model(&entities.Survey{}).Preload("Facility")

	if status != "" {
		query = query.Where("status = ?", status)
	}

	if templateID > 0 {
		query = query.Where("template_id = ?", templateID)
	}

	if enumerator != "" {
		query = query.Where("enumerator_name LIKE ?", "%"+enumerator+"%")
	}

	var surveys []entities.Survey
	if err := query.Order("id DESC").Limit(limit).Find(&surveys).Error; err != nil {
		return nil, fmt.Errorf("erro ao buscar surveys: %w", err)
	}
	return surveys, nil
}

// FindByStatus retorna todas as surveys com o status exato informado,
// em ordem de id desc (ordem de varredura do motor de alertas)
func (r *SurveyRepository) FindByStatus(status string) ([]entities.Survey, error) {
	var surveys []entities.Survey
	if err := r.db.
		Where("status = ?", status).
		Order("id DESC").
		Find(&surveys).Error; err != nil {
		return nil, fmt.Errorf("erro ao buscar surveys por status: %w", err)
	}
	return surveys, nil
}

// DraftsForEnumerator retorna os rascunhos de um enumerador (nome exato)
func (r *SurveyRepository) DraftsForEnumerator(enumerator string, limit int) ([]entities.Survey, error) {
	if limit <= 0 {
		limit = 50
	}

	var surveys []entities.Survey
	if err := r.db.
		Preload("Facility").
		Where("status = ? AND enumerator_name = ?", entities.SurveyStatusDraft, enumerator).
		Order("id DESC").
		Limit(limit).
		Find(&surveys).Error; err != nil {
		return nil, fmt.Errorf("erro ao buscar rascunhos do enumerador: %w", err)
	}
	return surveys, nil
}

// CompleteSurvey marca a survey como COMPLETED. A transição é unidirecional;
// completar uma survey já completa é um no-op.
func (r *SurveyRepository) CompleteSurvey(id int64) error {
	if err := r.db.Model(&entities.Survey{}).
		Where("id = ?", id).
		Update("status", entities.SurveyStatusCompleted).Error; err != nil {
		return fmt.Errorf("erro ao completar survey: %w", err)
	}
	return nil
}

// ListAllSurveys retorna todas as surveys com facility, mais recentes primeiro,
// limitadas (usado em exports JSON)
func (r *SurveyRepository) ListAllSurveys(limit int) ([]entities.Survey, error) {
	if limit <= 0 {
		limit = 1000
	}

	var surveys []entities.Survey
	if err := r.db.
		Preload("Facility").
		Order("id DESC").
		Limit(limit).
		Find(&surveys).Error; err != nil {
		return nil, fmt.Errorf("erro ao buscar surveys para export: %w", err)
	}
	return surveys, nil
}

// CountSurveys conta surveys, opcionalmente por status
func (r *SurveyRepository) CountSurveys(status string) (int64, error) {
	query := r.db.Model(&entities.Survey{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("erro ao contar surveys: %w", err)
	}
	return total, nil
}
