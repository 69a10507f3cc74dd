package listings

import (
	"encoding/json"
	"fmt"

	listsvc "ssf-backend/internal/application/listings"
	"ssf-backend/internal/domain"
	"ssf-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *listsvc.Service
}

// GET /api/v1/listings?status=active|all&category=&q=
func (h *Handlers) List(c *fiber.Ctx) error {
	data := h.Service.List(listsvc.ListInput{
		Status:   c.Query("status", "active"),
		Category: c.Query("category"),
		Query:    c.Query("q"),
	})
	return response.List(c, "Listings fetched successfully", data)
}

// GET /api/v1/listings/categories
func (h *Handlers) Categories(c *fiber.Ctx) error {
	return response.List(c, "Categories fetched successfully", h.Service.Categories())
}

// POST /api/v1/listings: 201 with the published listing
func (h *Handlers) Publish(c *fiber.Ctx) error {
	var d domain.ListingDraft
	if err := json.Unmarshal(c.Body(), &d); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	l, err := h.Service.Publish(c.UserContext(), d)
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Listing published successfully", l, nil)
}

// PATCH /api/v1/listings/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	l, err := h.Service.Update(c.UserContext(), c.Params("id"), c.Body())
	if err != nil {
		return err
	}
	return response.Success(c, "Listing updated successfully", l, nil)
}

// POST /api/v1/listings/:id/claim: body is the claimer; an empty body claims as the local user
func (h *Handlers) Claim(c *fiber.Ctx) error {
	var claimer domain.Claimer
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &claimer); err != nil {
			return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
		}
	}
	l, err := h.Service.Claim(c.UserContext(), c.Params("id"), claimer)
	if err != nil {
		return err
	}
	return response.Success(c, "Listing claimed successfully", l, nil)
}

// POST /api/v1/listings/:id/collect
func (h *Handlers) Collect(c *fiber.Ctx) error {
	l, err := h.Service.Collect(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return response.Success(c, "Listing collected successfully", l, nil)
}

// DELETE /api/v1/listings/:id
func (h *Handlers) Remove(c *fiber.Ctx) error {
	if err := h.Service.Remove(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return response.Success(c, "Listing removed successfully", fiber.Map{"id": c.Params("id")}, nil)
}
