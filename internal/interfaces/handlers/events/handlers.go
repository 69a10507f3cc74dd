package events

import (
	"encoding/json"
	"fmt"

	eventsvc "ssf-backend/internal/application/events"
	"ssf-backend/internal/domain"
	"ssf-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *eventsvc.Service
}

// GET /api/v1/events
func (h *Handlers) List(c *fiber.Ctx) error {
	return response.Success(c, "Events fetched successfully", h.Service.List(), nil)
}

// POST /api/v1/events
func (h *Handlers) Create(c *fiber.Ctx) error {
	var d domain.EventDraft
	if err := json.Unmarshal(c.Body(), &d); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	ev, err := h.Service.Create(c.UserContext(), d)
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Event created successfully", ev, nil)
}

// PATCH /api/v1/events/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	ev, err := h.Service.Update(c.UserContext(), c.Params("id"), c.Body())
	if err != nil {
		return err
	}
	return response.Success(c, "Event updated successfully", ev, nil)
}

// GET /api/v1/events/reminders
func (h *Handlers) Reminders(c *fiber.Ctx) error {
	return response.Success(c, "Reminders fetched successfully", h.Service.Reminders(), nil)
}

// POST /api/v1/events/:id/log-surplus: body overrides the event's listing preset
func (h *Handlers) LogSurplus(c *fiber.Ctx) error {
	var d domain.ListingDraft
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &d); err != nil {
			return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
		}
	}
	l, err := h.Service.LogSurplus(c.UserContext(), c.Params("id"), d)
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Surplus logged successfully", l, nil)
}
