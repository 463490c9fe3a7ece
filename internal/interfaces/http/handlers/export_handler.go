package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/openfieldhq/openfield-collect-api/internal/application/usecases"
	"github.com/openfieldhq/openfield-collect-api/internal/utils"
)

// ExportHandler lida com os downloads de dados do supervisor (CSV e JSON)
type ExportHandler struct {
	exportUseCase *usecases.ExportUseCase
}

// NewExportHandler cria uma nova instância de ExportHandler
func NewExportHandler(exportUseCase *usecases.ExportUseCase) *ExportHandler {
	return &ExportHandler{exportUseCase: exportUseCase}
}

// sendCSV entrega o conteúdo como download de arquivo CSV datado
func sendCSV(c *fiber.Ctx, prefix string, data []byte) error {
	filename := fmt.Sprintf("%s_%s.csv", prefix, time.Now().In(utils.GetFieldLocation()).Format("20060102"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}

// ExportQAAlertsCSV exporta os alertas de QA em CSV
func (h *ExportHandler) ExportQAAlertsCSV(c *fiber.Ctx) error {
	params := parseAlertParams(c)

	data, err := h.exportUseCase.BuildQAAlertsCSV(params)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao gerar CSV de alertas: " + err.Error()})
	}
	return sendCSV(c, "qa_alerts", data)
}

// ExportFacilitiesCSV exporta todas as facilities em CSV
func (h *ExportHandler) ExportFacilitiesCSV(c *fiber.Ctx) error {
	data, err := h.exportUseCase.BuildFacilitiesCSV()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao gerar CSV de facilities: " + err.Error()})
	}
	return sendCSV(c, "facilities", data)
}

// ExportSurveysCSV exporta o CSV plano de surveys e respostas
func (h *ExportHandler) ExportSurveysCSV(c *fiber.Ctx) error {
	data, err := h.exportUseCase.BuildSurveysFlatCSV()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao gerar CSV de surveys: " + err.Error()})
	}
	return sendCSV(c, "surveys_flat", data)
}

// ExportSurveysJSON exporta o JSON aninhado das surveys mais recentes
func (h *ExportHandler) ExportSurveysJSON(c *fiber.Ctx) error {
	limit := parseIntQuery(c, "limit", 200)

	surveys, err := h.exportUseCase.ExportSurveysJSON(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao gerar export JSON: " + err.Error()})
	}

	return c.JSON(fiber.Map{
		"exported_at": time.Now().UTC().Format(time.RFC3339),
		"count":       len(surveys),
		"surveys":     surveys,
	})
}

// ExportSurveyJSON exporta o JSON de uma única survey
func (h *ExportHandler) ExportSurveyJSON(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "ID de survey inválido"})
	}

	survey, err := h.exportUseCase.ExportSurveyJSON(id)
	if err != nil {
		if errors.Is(err, usecases.ErrSurveyNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Survey não encontrada"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao gerar export JSON da survey: " + err.Error()})
	}

	return c.JSON(survey)
}
