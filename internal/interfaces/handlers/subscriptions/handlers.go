package subscriptions

import (
	"encoding/json"
	"fmt"

	subsvc "ssf-backend/internal/application/subscriptions"
	"ssf-backend/internal/domain"
	"ssf-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *subsvc.Service
}

func (h *Handlers) List(c *fiber.Ctx) error {
	return response.List(c, "Subscriptions fetched successfully", h.Service.List())
}

// POST /api/v1/subscriptions: enabled and viaBrowserNotifications default to true
func (h *Handlers) Create(c *fiber.Ctx) error {
	d := domain.SubscriptionDraft{Enabled: true, ViaBrowserNotifications: true}
	if err := json.Unmarshal(c.Body(), &d); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	sub, err := h.Service.Create(c.UserContext(), d)
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Subscription created successfully", sub, nil)
}

func (h *Handlers) Update(c *fiber.Ctx) error {
	sub, err := h.Service.Update(c.UserContext(), c.Params("id"), c.Body())
	if err != nil {
		return err
	}
	return response.Success(c, "Subscription updated successfully", sub, nil)
}
