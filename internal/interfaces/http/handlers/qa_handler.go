package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/openfieldhq/openfield-collect-api/internal/application/usecases"
)

// QAHandler lida com requisições do painel de supervisão de qualidade
type QAHandler struct {
	qualityUseCase *usecases.QualityUseCase
}

// NewQAHandler cria uma nova instância de QAHandler
func NewQAHandler(qualityUseCase *usecases.QualityUseCase) *QAHandler {
	return &QAHandler{qualityUseCase: qualityUseCase}
}

// GetQAAlerts lista surveys sinalizadas, ordenadas por severidade
func (h *QAHandler) GetQAAlerts(c *fiber.Ctx) error {
	params := parseAlertParams(c)

	alerts, err := h.qualityUseCase.GetQAAlerts(params)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao calcular alertas de QA: " + err.Error()})
	}

	return c.JSON(fiber.Map{
		"count":  len(alerts),
		"alerts": alerts,
	})
}

// GetEnumeratorPerformance agrega os indicadores de qualidade por enumerador
func (h *QAHandler) GetEnumeratorPerformance(c *fiber.Ctx) error {
	params := parseAlertParams(c)

	performance, err := h.qualityUseCase.GetEnumeratorPerformance(params)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao calcular performance dos enumeradores: " + err.Error()})
	}

	return c.JSON(fiber.Map{
		"count":       len(performance),
		"enumerators": performance,
	})
}

// GetSupervisorDashboard retorna os contadores gerais e os alertas mais graves
func (h *QAHandler) GetSupervisorDashboard(c *fiber.Ctx) error {
	dashboard, err := h.qualityUseCase.GetSupervisorDashboard()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao montar dashboard do supervisor: " + err.Error()})
	}

	return c.JSON(dashboard)
}
