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

// ItinerariesHandler manages itinerary CRUD endpoints.
type ItinerariesHandler struct {
	service *service.ItineraryService
}

// NewItinerariesHandler constructs handler.
func NewItinerariesHandler(itineraryService *service.ItineraryService) *ItinerariesHandler {
	return &ItinerariesHandler{service: itineraryService}
}

// List GET /itineraries.
func (h *ItinerariesHandler) List(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	itineraries, err := h.service.ListItineraries(c.Context(), user.ID)
	if err != nil {
		return err
	}
	items := make([]dto.ItinerarySummary, 0, len(itineraries))
	for i := range itineraries {
		items = append(items, itinerarySummary(&itineraries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create POST /itineraries.
func (h *ItinerariesHandler) Create(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateItineraryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}

	it, err := h.service.CreateItinerary(c.Context(), user.ID, req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": itineraryResponse(it)})
}

// Get GET /itineraries/:id.
func (h *ItinerariesHandler) Get(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	it, err := h.service.GetItinerary(c.Context(), user.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": itineraryResponse(it)})
}

// Update PUT /itineraries/:id.
func (h *ItinerariesHandler) Update(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateItineraryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return apperrors.NewValidationError("name cannot be empty", nil)
	}

	it, err := h.service.UpdateItinerary(c.Context(), user.ID, c.Params("id"), service.ItineraryUpdateInput{
		Name:        req.Name,
		Description: req.Description,
		MapOverview: req.MapOverview,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": itineraryResponse(it)})
}

// Delete DELETE /itineraries/:id.
func (h *ItinerariesHandler) Delete(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.service.DeleteItinerary(c.Context(), user.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
