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

// ExpensesHandler manages shared expense endpoints.
type ExpensesHandler struct {
	service *service.ItineraryService
}

// NewExpensesHandler constructs handler.
func NewExpensesHandler(itineraryService *service.ItineraryService) *ExpensesHandler {
	return &ExpensesHandler{service: itineraryService}
}

// Create POST /itineraries/:id/expenses. Responds with the full updated
// expense list.
func (h *ExpensesHandler) Create(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Description) == "" || req.Amount <= 0 {
		return apperrors.NewValidationError("description and positive amount required", nil)
	}

	expenses, err := h.service.AddExpense(c.Context(), user.ID, c.Params("id"), service.ExpenseCreateInput{
		Description: req.Description,
		Amount:      req.Amount,
		Splits:      splitsFromPayload(req.Splits),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": expenseResponses(expenses)})
}

// Update PATCH /itineraries/:id/expenses/:expenseId.
func (h *ExpensesHandler) Update(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Amount != nil && *req.Amount <= 0 {
		return apperrors.NewValidationError("amount must be positive", nil)
	}

	expense, err := h.service.UpdateExpense(c.Context(), user.ID, c.Params("id"), c.Params("expenseId"), service.ExpenseUpdateInput{
		Description: req.Description,
		Amount:      req.Amount,
		Splits:      splitsFromPayload(req.Splits),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": expenseResponse(expense)})
}

// Delete DELETE /itineraries/:id/expenses/:expenseId.
func (h *ExpensesHandler) Delete(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.service.DeleteExpense(c.Context(), user.ID, c.Params("id"), c.Params("expenseId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
