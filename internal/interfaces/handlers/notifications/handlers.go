package notifications

import (
	"ssf-backend/internal/notify"
	"ssf-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Toasts *notify.Toasts
}

// GET /api/v1/notifications: toasts that have not timed out, oldest first
func (h *Handlers) Active(c *fiber.Ctx) error {
	return response.List(c, "Notifications fetched successfully", h.Toasts.Active())
}
