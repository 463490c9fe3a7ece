package repositories

import (
	"errors"
	"fmt"

	"github.com/openfieldhq/openfield-collect-api/internal/domain/entities"
	"gorm.io/gorm"
)

// FacilityRepository implementa métodos para acesso a dados de facilities
type FacilityRepository struct {
	db *gorm.DB
}

// NewFacilityRepository cria uma nova instância de FacilityRepository
func NewFacilityRepository(db *gorm.DB) *FacilityRepository {
	return &FacilityRepository{
		db: db,
	}
}

// CreateFacility insere uma nova facility
func (r *FacilityRepository) CreateFacility(f *entities.Facility) error {
	if err := r.db.Create(f).Error; err != nil {
		return fmt.Errorf("erro ao criar facility: %w", err)
	}
	return nil
}

// ListFacilities retorna as facilities mais recentes (id desc)
func (r *FacilityRepository) ListFacilities(limit int) ([]entities.Facility, error) {
	if limit <= 0 {
		limit = 50
	}

	var facilities []entities.Facility
	if err := r.db.Order("id DESC").Limit(limit).Find(&facilities).Error; err != nil {
		return nil, fmt.Errorf("erro ao buscar facilities: %w", err)
	}
	return facilities, nil
}

// GetFacilityByID busca uma facility pelo id.
// Retorna ErrFacilityNotFound quando o id não existe; falhas de
// infraestrutura propagam inalteradas.
func (r *FacilityRepository) GetFacilityByID(id int64) (entities.Facility, error) {
	var facility entities.Facility
	err := r.db.First(&facility, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Facility{}, entities.ErrFacilityNotFound
	}
	if err != nil {
		return entities.Facility{}, fmt.Errorf("erro ao buscar facility %d: %w", id, err)
	}
	return facility, nil
}

// NameByID resolve o nome de exibição de uma facility.
// Retorna found=false quando a facility não existe.
func (r *FacilityRepository) NameByID(id int64) (string, bool, error) {
	var facility entities.Facility
	err := r.db.Select("id", "name").First(&facility, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("erro ao resolver nome da facility %d: %w", id, err)
	}
	return facility.Name, true, nil
}

// SearchByName busca facilities por nome (case-insensitive, substring)
func (r *FacilityRepository) SearchByName(name string, limit int) ([]entities.Facility, error) {
	if limit <= 0 {
		limit = 50
	}

	var facilities []entities.Facility
	if err := r.db.
		Where("LOWER(name) LIKE LOWER(?)", "%"+name+"%").
		Order("name ASC").
		Limit(limit).
		Find(&facilities).Error; err != nil {
		return nil, fmt.Errorf("erro ao buscar facilities por nome: %w", err)
	}
	return facilities, nil
}

// GetOrCreateByName retorna a facility com o nome informado (comparação
// case-insensitive), criando-a quando não existe. Usado no fluxo de início
// de survey do enumerador.
func (r *FacilityRepository) GetOrCreateByName(name string) (entities.Facility, error) {
	var facility entities.Facility
	err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&facility).Error
	if err == nil {
		return facility, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Facility{}, fmt.Errorf("erro ao buscar facility por nome: %w", err)
	}

	facility = entities.Facility{Name: name}
	if err := r.db.Create(&facility).Error; err != nil {
		return entities.Facility{}, fmt.Errorf("erro ao criar facility: %w", err)
	}
	return facility, nil
}

// ListAllFacilities retorna todas as facilities em ordem de id (usado em exports)
func (r *FacilityRepository) ListAllFacilities() ([]entities.Facility, error) {
	var facilities []entities.Facility
	if err := r.db.Order("id ASC").Find(&facilities).Error; err != nil {
		return nil, fmt.Errorf("erro ao buscar facilities para export: %w", err)
	}
	return facilities, nil
}

// CountFacilities retorna o total de facilities cadastradas
func (r *FacilityRepository) CountFacilities() (int64, error) {
	var total int64
	if err := r.db.Model(&entities.Facility{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("erro ao contar facilities: %w", err)
	}
	return total, nil
}
