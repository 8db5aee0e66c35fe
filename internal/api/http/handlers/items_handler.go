package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/trip-planner/internal/api/dto"
	"github.com/spec-kit/trip-planner/internal/auth"
	"github.com/spec-kit/trip-planner/internal/service"
	apperrors "github.com/spec-kit/trip-planner/pkg/util"
)

// ItemsHandler manages itinerary item endpoints.
type ItemsHandler struct {
	service *service.ItineraryService
}

// NewItemsHandler constructs handler.
func NewItemsHandler(itineraryService *service.ItineraryService) *ItemsHandler {
	return &ItemsHandler{service: itineraryService}
}

// Create POST /itineraries/:id/items. Responds with the full updated
// itinerary, unlike expense creation which responds with the expense list.
func (h *ItemsHandler) Create(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Title) == "" || req.Date.IsZero() {
		return apperrors.NewValidationError("title and date required", nil)
	}

	it, err := h.service.AddItem(c.Context(), user.ID, c.Params("id"), service.ItemCreateInput{
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		LocationName: req.LocationName,
		Coords:       req.Coords,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": itineraryResponse(it)})
}

// Delete DELETE /itineraries/:id/items/:itemId.
func (h *ItemsHandler) Delete(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.service.DeleteItem(c.Context(), user.ID, c.Params("id"), c.Params("itemId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Vote POST /itineraries/:id/items/:itemId/vote.
func (h *ItemsHandler) Vote(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	item, err := h.service.ToggleVote(c.Context(), user.ID, c.Params("id"), c.Params("itemId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": itemResponse(item)})
}
