package settings

import (
	"encoding/json"
	"fmt"

	settingsvc "ssf-backend/internal/application/settings"
	"ssf-backend/internal/domain"
	"ssf-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *settingsvc.Service
}

func (h *Handlers) Get(c *fiber.Ctx) error {
	return response.Success(c, "Settings fetched successfully", h.Service.Get(), nil)
}

// PUT /api/v1/settings: replaces the whole record
func (h *Handlers) Replace(c *fiber.Ctx) error {
	var s domain.Settings
	if err := json.Unmarshal(c.Body(), &s); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	saved, err := h.Service.Replace(c.UserContext(), s)
	if err != nil {
		return err
	}
	return response.Success(c, "Settings saved successfully", saved, nil)
}
