package usecases

import (
	"fmt"
	"strings"
	"time"

	"github.com/openfieldhq/openfield-collect-api/internal/domain/entities"
	"github.com/openfieldhq/openfield-collect-api/internal/domain/repositories"
)

// FacilityUseCase implementa os casos de uso relacionados a facilities
type FacilityUseCase struct {
	facilityRepo *repositories.FacilityRepository
}

// NewFacilityUseCase cria uma nova instância de FacilityUseCase
func NewFacilityUseCase(facilityRepo *repositories.FacilityRepository) *FacilityUseCase {
	return &FacilityUseCase{
		facilityRepo: facilityRepo,
	}
}

// CreateFacilityInput são os campos aceitos na criação de uma facility
type CreateFacilityInput struct {
	Name         string
	FacilityType string
	Address      string
	LGA          string
	State        string
	ContactName  string
	ContactPhone string
}

// CreateFacility cria uma facility; apenas o nome é obrigatório
func (u *FacilityUseCase) CreateFacility(input CreateFacilityInput) (entities.Facility, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return entities.Facility{}, fmt.Errorf("name é obrigatório")
	}

	facility := entities.Facility{
		Name:         name,
		FacilityType: strings.TrimSpace(input.FacilityType),
		Address:      strings.TrimSpace(input.Address),
		LGA:          strings.TrimSpace(input.LGA),
		State:        strings.TrimSpace(input.State),
		ContactName:  strings.TrimSpace(input.ContactName),
		ContactPhone: strings.TrimSpace(input.ContactPhone),
		CreatedAt:    time.Now(),
	}
	if err := u.facilityRepo.CreateFacility(&facility); err != nil {
		return entities.Facility{}, err
	}
	return facility, nil
}

// ListFacilities lista as facilities mais recentes
func (u *FacilityUseCase) ListFacilities(limit int) ([]entities.Facility, error) {
	return u.facilityRepo.ListFacilities(limit)
}

// GetFacility busca uma facility pelo id; ErrFacilityNotFound quando ausente
func (u *FacilityUseCase) GetFacility(id int64) (entities.Facility, error) {
	facility, err := u.facilityRepo.GetFacilityByID(id)
	if err != nil {
		return entities.Facility{}, err
	}
	return facility, nil
}

// SearchFacilities busca facilities por substring de nome
func (u *FacilityUseCase) SearchFacilities(name string, limit int) ([]entities.Facility, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return []entities.Facility{}, nil
	}
	return u.facilityRepo.SearchByName(name, limit)
}
