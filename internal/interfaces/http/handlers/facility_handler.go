package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/openfieldhq/openfield-collect-api/internal/application/usecases"
)

// FacilityHandler lida com requisições relacionadas a facilities
type FacilityHandler struct {
	facilityUseCase *usecases.FacilityUseCase
}

// NewFacilityHandler cria uma nova instância de FacilityHandler
func NewFacilityHandler(facilityUseCase *usecases.FacilityUseCase) *FacilityHandler {
	return &FacilityHandler{
		facilityUseCase: facilityUseCase,
	}
}

// createFacilityRequest é o payload de criação de facility
type createFacilityRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	FacilityType string `json:"facility_type" validate:"max=100"`
	Address      string `json:"address" validate:"max=300"`
	LGA          string `json:"lga" validate:"max=100"`
	State        string `json:"state" validate:"max=100"`
	ContactName  string `json:"contact_name" validate:"max=200"`
	ContactPhone string `json:"contact_phone" validate:"max=50"`
}

// GetFacilities retorna as facilities mais recentes
func (h *FacilityHandler) GetFacilities(c *fiber.Ctx) error {
	limit := parseIntQuery(c, "limit", 50)

	facilities, err := h.facilityUseCase.ListFacilities(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao buscar facilities: " + err.Error()})
	}

	return c.JSON(facilities)
}

// CreateFacility cria uma facility
func (h *FacilityHandler) CreateFacility(c *fiber.Ctx) error {
	var req createFacilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Payload inválido"})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validação falhou: " + err.Error()})
	}

	facility, err := h.facilityUseCase.CreateFacility(usecases.CreateFacilityInput{
		Name:         req.Name,
		FacilityType: req.FacilityType,
		Address:      req.Address,
		LGA:          req.LGA,
		State:        req.State,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao criar facility: " + err.Error()})
	}

	return c.Status(201).JSON(facility)
}

// GetFacility retorna uma facility pelo id
func (h *FacilityHandler) GetFacility(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "ID de facility inválido"})
	}

	facility, err := h.facilityUseCase.GetFacility(id)
	if err != nil {
		if errors.Is(err, usecases.ErrFacilityNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Facility não encontrada"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao buscar facility: " + err.Error()})
	}

	return c.JSON(facility)
}

// SearchFacilities busca facilities por substring de nome
func (h *FacilityHandler) SearchFacilities(c *fiber.Ctx) error {
	name := c.Query("name", "")
	limit := parseIntQuery(c, "limit", 50)

	facilities, err := h.facilityUseCase.SearchFacilities(name, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao buscar facilities: " + err.Error()})
	}

	return c.JSON(facilities)
}
