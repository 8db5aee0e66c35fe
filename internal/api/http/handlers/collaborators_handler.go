package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/trip-planner/internal/api/dto"
	"github.com/spec-kit/trip-planner/internal/auth"
	"github.com/spec-kit/trip-planner/internal/domain"
	"github.com/spec-kit/trip-planner/internal/service"
	apperrors "github.com/spec-kit/trip-planner/pkg/util"
)

// CollaboratorsHandler manages collaborator endpoints.
type CollaboratorsHandler struct {
	service *service.ItineraryService
}

// NewCollaboratorsHandler constructs handler.
func NewCollaboratorsHandler(itineraryService *service.ItineraryService) *CollaboratorsHandler {
	return &CollaboratorsHandler{service: itineraryService}
}

// Invite POST /itineraries/:id/collaborators. Responds with the full
// collaborator list.
func (h *CollaboratorsHandler) Invite(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.InviteCollaboratorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" {
		return apperrors.NewValidationError("email required", nil)
	}
	role, err := parseRole(req.Role)
	if err != nil {
		return err
	}

	collaborators, err := h.service.InviteCollaborator(c.Context(), user.ID, c.Params("id"), req.Email, role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": collaboratorResponses(collaborators)})
}

// Update PATCH /itineraries/:id/collaborators/:collaboratorId.
func (h *CollaboratorsHandler) Update(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateCollaboratorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.CollaboratorUpdateInput{}
	if req.Status != nil {
		// acceptance is one-way; nothing else can be set here
		status := domain.CollaboratorStatus(*req.Status)
		if status != domain.StatusAccepted {
			return apperrors.NewValidationError("status can only be set to accepted", nil)
		}
		input.Status = &status
	}
	if req.Role != nil {
		role, err := parseRole(*req.Role)
		if err != nil {
			return err
		}
		if role == "" {
			return apperrors.NewValidationError("role must be editor or viewer", nil)
		}
		input.Role = &role
	}

	collab, err := h.service.UpdateCollaborator(c.Context(), user.ID, c.Params("id"), c.Params("collaboratorId"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": collaboratorResponse(collab)})
}

// Delete DELETE /itineraries/:id/collaborators/:collaboratorId.
func (h *CollaboratorsHandler) Delete(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.service.RemoveCollaborator(c.Context(), user.ID, c.Params("id"), c.Params("collaboratorId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseRole(raw string) (domain.CollaboratorRole, error) {
	switch domain.CollaboratorRole(raw) {
	case "":
		return "", nil
	case domain.RoleEditor:
		return domain.RoleEditor, nil
	case domain.RoleViewer:
		return domain.RoleViewer, nil
	default:
		return "", apperrors.NewValidationError("role must be editor or viewer", nil)
	}
}
