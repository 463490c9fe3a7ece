package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/openfieldhq/openfield-collect-api/internal/application/usecases"
)

// parseAlertParams lê os parâmetros de query do motor de alertas, aplicando
// os defaults (status COMPLETED, thresholds 20/20/10/10, limit 50)
func parseAlertParams(c *fiber.Ctx) usecases.AlertParams {
	return usecases.AlertParams{
		StatusFilter: c.Query("status", usecases.DefaultStatusFilter),
		Thresholds: usecases.AlertThresholds{
			MissingPct:  parseFloatQuery(c, "missing_threshold_pct", usecases.DefaultMissingThreshold),
			LowConfPct:  parseFloatQuery(c, "low_conf_threshold_pct", usecases.DefaultLowConfThreshold),
			NoSourcePct: parseFloatQuery(c, "no_source_threshold_pct", usecases.DefaultNoSourceThreshold),
			NoConfPct:   parseFloatQuery(c, "no_conf_threshold_pct", usecases.DefaultNoConfThreshold),
		},
		Limit: parseIntQuery(c, "limit", usecases.DefaultAlertLimit),
	}
}

// parseFloatQuery lê um parâmetro float de query com fallback
func parseFloatQuery(c *fiber.Ctx, name string, fallback float64) float64 {
	raw := c.Query(name, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

// parseIntQuery lê um parâmetro inteiro de query com fallback
func parseIntQuery(c *fiber.Ctx, name string, fallback int) int {
	raw := c.Query(name, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// parseIDParam lê um parâmetro de rota como id positivo
func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "id inválido")
	}
	return id, nil
}
