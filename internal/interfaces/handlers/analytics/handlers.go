package analytics

import (
	analyticssvc "ssf-backend/internal/application/analytics"
	"ssf-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *analyticssvc.Service
}

// GET /api/v1/analytics
func (h *Handlers) Report(c *fiber.Ctx) error {
	return response.Success(c, "Analytics computed successfully", h.Service.Report(), nil)
}
