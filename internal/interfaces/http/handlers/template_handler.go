package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/openfieldhq/openfield-collect-api/internal/application/usecases"
)

// TemplateHandler lida com requisições relacionadas a templates de survey
type TemplateHandler struct {
	templateUseCase *usecases.TemplateUseCase
}

// NewTemplateHandler cria uma nova instância de TemplateHandler
func NewTemplateHandler(templateUseCase *usecases.TemplateUseCase) *TemplateHandler {
	return &TemplateHandler{
		templateUseCase: templateUseCase,
	}
}

// createTemplateRequest é o payload de criação de template
type createTemplateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=500"`
}

// addQuestionRequest é o payload de adição de pergunta a um template
type addQuestionRequest struct {
	QuestionText string `json:"question_text" validate:"required,min=1,max=500"`
	QuestionType string `json:"question_type" validate:"omitempty,oneof=TEXT YESNO NUMBER text yesno number"`
	OrderNo      int    `json:"order_no" validate:"gte=0"`
	IsRequired   bool   `json:"is_required"`
}

// GetTemplates lista os templates em ordem alfabética
func (h *TemplateHandler) GetTemplates(c *fiber.Ctx) error {
	limit := parseIntQuery(c, "limit", 100)

	templates, err := h.templateUseCase.ListTemplates(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao buscar templates: " + err.Error()})
	}

	return c.JSON(templates)
}

// CreateTemplate cria (ou reutiliza, por nome) um template
func (h *TemplateHandler) CreateTemplate(c *fiber.Ctx) error {
	var req createTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Payload inválido"})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validação falhou: " + err.Error()})
	}

	tpl, err := h.templateUseCase.CreateTemplate(req.Name, req.Description)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao criar template: " + err.Error()})
	}

	return c.Status(201).JSON(tpl)
}

// GetTemplateQuestions retorna as perguntas ordenadas de um template
func (h *TemplateHandler) GetTemplateQuestions(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "ID de template inválido"})
	}

	questions, err := h.templateUseCase.GetTemplateQuestions(id)
	if err != nil {
		if errors.Is(err, usecases.ErrTemplateNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Template não encontrado"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao buscar perguntas: " + err.Error()})
	}

	return c.JSON(questions)
}

// AddTemplateQuestion adiciona uma pergunta a um template
func (h *TemplateHandler) AddTemplateQuestion(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "ID de template inválido"})
	}

	var req addQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Payload inválido"})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validação falhou: " + err.Error()})
	}

	question, err := h.templateUseCase.AddQuestion(id, req.QuestionText, req.QuestionType, req.OrderNo, req.IsRequired)
	if err != nil {
		if errors.Is(err, usecases.ErrTemplateNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Template não encontrado"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao adicionar pergunta: " + err.Error()})
	}

	return c.Status(201).JSON(question)
}
