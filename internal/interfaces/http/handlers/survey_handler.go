package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/openfieldhq/openfield-collect-api/internal/application/usecases"
	"github.com/openfieldhq/openfield-collect-api/internal/domain/entities"
)

// SurveyHandler lida com requisições do fluxo de coleta e consulta de surveys
type SurveyHandler struct {
	surveyUseCase  *usecases.SurveyUseCase
	qualityUseCase *usecases.QualityUseCase
}

// NewSurveyHandler cria uma nova instância de SurveyHandler
func NewSurveyHandler(surveyUseCase *usecases.SurveyUseCase, qualityUseCase *usecases.QualityUseCase) *SurveyHandler {
	return &SurveyHandler{
		surveyUseCase:  surveyUseCase,
		qualityUseCase: qualityUseCase,
	}
}

// createSurveyRequest é o payload de criação de survey
type createSurveyRequest struct {
	FacilityID     int64  `json:"facility_id" validate:"gte=0"`
	FacilityName   string `json:"facility_name" validate:"max=200"`
	TemplateID     *int64 `json:"template_id"`
	SurveyTitle    string `json:"survey_title" validate:"max=200"`
	EnumeratorName string `json:"enumerator_name" validate:"required,min=1,max=200"`
}

// manualAnswerRequest é o payload de resposta livre (survey manual)
type manualAnswerRequest struct {
	Question string `json:"question" validate:"required,min=1"`
	Answer   string `json:"answer" validate:"required,min=1"`
}

// templateAnswerRequest é o payload de resposta (ou skip) de pergunta de template
type templateAnswerRequest struct {
	Answer          string `json:"answer"`
	AnswerSource    string `json:"answer_source" validate:"omitempty,max=30"`
	ConfidenceLevel string `json:"confidence_level" validate:"omitempty,max=30"`
	IsMissing       bool   `json:"is_missing"`
	MissingReason   string `json:"missing_reason" validate:"omitempty,max=30"`
}

// surveyListItem é a linha de listagem de surveys com o nome da facility resolvido
type surveyListItem struct {
	ID             int64     `json:"id"`
	FacilityName   string    `json:"facility_name"`
	TemplateID     *int64    `json:"template_id"`
	SurveyType     string    `json:"survey_type"`
	EnumeratorName string    `json:"enumerator_name"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func toListItem(s entities.Survey) surveyListItem {
	facilityName := "-"
	if s.Facility != nil && s.Facility.Name != "" {
		facilityName = s.Facility.Name
	}
	return surveyListItem{
		ID:             s.ID,
		FacilityName:   facilityName,
		TemplateID:     s.TemplateID,
		SurveyType:     s.SurveyType,
		EnumeratorName: s.EnumeratorName,
		Status:         s.Status,
		CreatedAt:      s.CreatedAt,
	}
}

// GetSurveys lista surveys com filtros opcionais de status, template e enumerador
func (h *SurveyHandler) GetSurveys(c *fiber.Ctx) error {
	status := c.Query("status", "")
	templateID := int64(parseIntQuery(c, "template_id", 0))
	enumerator := c.Query("enumerator", "")
	limit := parseIntQuery(c, "limit", 50)

	surveys, err := h.surveyUseCase.FilterSurveys(status, templateID, enumerator, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao buscar surveys: " + err.Error()})
	}

	items := make([]surveyListItem, 0, len(surveys))
	for _, s := range surveys {
		items = append(items, toListItem(s))
	}
	return c.JSON(items)
}

// GetDrafts lista os rascunhos de um enumerador (query e=<nome exato>)
func (h *SurveyHandler) GetDrafts(c *fiber.Ctx) error {
	enumerator := c.Query("e", "")
	limit := parseIntQuery(c, "limit", 50)

	drafts, err := h.surveyUseCase.DraftsForEnumerator(enumerator, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao buscar rascunhos: " + err.Error()})
	}

	items := make([]surveyListItem, 0, len(drafts))
	for _, s := range drafts {
		items = append(items, toListItem(s))
	}
	return c.JSON(items)
}

// CreateSurvey cria uma survey em status DRAFT
func (h *SurveyHandler) CreateSurvey(c *fiber.Ctx) error {
	var req createSurveyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Payload inválido"})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validação falhou: " + err.Error()})
	}

	survey, err := h.surveyUseCase.CreateSurvey(usecases.CreateSurveyInput{
		FacilityID:     req.FacilityID,
		FacilityName:   req.FacilityName,
		TemplateID:     req.TemplateID,
		SurveyTitle:    req.SurveyTitle,
		EnumeratorName: req.EnumeratorName,
	})
	if err != nil {
		if errors.Is(err, usecases.ErrFacilityNotFound) || errors.Is(err, usecases.ErrTemplateNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(survey)
}

// GetSurveyDetails retorna a tripla (cabeçalho, respostas, resumo de QA) de uma survey
func (h *SurveyHandler) GetSurveyDetails(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "ID de survey inválido"})
	}

	details, err := h.qualityUseCase.GetSurveyDetails(id)
	if err != nil {
		if errors.Is(err, usecases.ErrSurveyNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Survey não encontrada"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao buscar detalhes da survey: " + err.Error()})
	}

	return c.JSON(fiber.Map{
		"survey": fiber.Map{
			"id":              details.Survey.ID,
			"facility_id":     details.Survey.FacilityID,
			"facility_name":   details.FacilityName,
			"template_id":     details.Survey.TemplateID,
			"survey_type":     details.Survey.SurveyType,
			"enumerator_name": details.Survey.EnumeratorName,
			"status":          details.Survey.Status,
			"created_at":      details.Survey.CreatedAt,
		},
		"qa":      details.QA,
		"answers": details.Answers,
	})
}

// AddManualAnswer adiciona uma resposta livre a uma survey manual
func (h *SurveyHandler) AddManualAnswer(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "ID de survey inválido"})
	}

	var req manualAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Payload inválido"})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validação falhou: " + err.Error()})
	}

	answer, err := h.surveyUseCase.AddManualAnswer(id, req.Question, req.Answer)
	if err != nil {
		if errors.Is(err, usecases.ErrSurveyNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Survey não encontrada"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(answer)
}

// UpsertTemplateAnswer grava a resposta (ou o skip) de uma pergunta de template.
// Submissões repetidas da mesma pergunta convergem para uma única linha.
func (h *SurveyHandler) UpsertTemplateAnswer(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "ID de survey inválido"})
	}

	questionID, err := parseIDParam(c, "question_id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "ID de pergunta inválido"})
	}

	var req templateAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Payload inválido"})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validação falhou: " + err.Error()})
	}

	var answer entities.SurveyAnswer
	if req.IsMissing {
		answer, err = h.surveyUseCase.SkipTemplateQuestion(id, questionID, req.MissingReason)
	} else {
		answer, err = h.surveyUseCase.AnswerTemplateQuestion(id, questionID, usecases.TemplateAnswerInput{
			Answer:          req.Answer,
			AnswerSource:    req.AnswerSource,
			ConfidenceLevel: req.ConfidenceLevel,
		})
	}
	if err != nil {
		if errors.Is(err, usecases.ErrSurveyNotFound) || errors.Is(err, usecases.ErrQuestionNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(answer)
}

// CompleteSurvey marca uma survey como COMPLETED
func (h *SurveyHandler) CompleteSurvey(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "ID de survey inválido"})
	}

	if err := h.surveyUseCase.CompleteSurvey(id); err != nil {
		if errors.Is(err, usecases.ErrSurveyNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Survey não encontrada"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao completar survey: " + err.Error()})
	}

	return c.JSON(fiber.Map{
		"id":     id,
		"status": entities.SurveyStatusCompleted,
	})
}
