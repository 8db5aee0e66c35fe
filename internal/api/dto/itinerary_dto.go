package dto

import (
	"time"

	"github.com/spec-kit/trip-planner/internal/domain"
)

// CreateItineraryRequest payload.
type CreateItineraryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateItineraryRequest payload; nil fields are left untouched.
type UpdateItineraryRequest struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	MapOverview *domain.MapOverview `json:"map_overview"`
}

// CreateItemRequest payload.
type CreateItemRequest struct {
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Date         time.Time           `json:"date"`
	LocationName string              `json:"location_name"`
	Coords       *domain.Coordinates `json:"coords"`
}

// SplitPayload assigns a share of an expense to a user.
type SplitPayload struct {
	UserID string  `json:"user_id"`
	Share  float64 `json:"share"`
}

// CreateExpenseRequest payload.
type CreateExpenseRequest struct {
	Description string         `json:"description"`
	Amount      float64        `json:"amount"`
	Splits      []SplitPayload `json:"splits"`
}

// UpdateExpenseRequest payload; nil fields are left untouched. Splits, when
// present, replace the existing list wholesale.
type UpdateExpenseRequest struct {
	Description *string        `json:"description"`
	Amount      *float64       `json:"amount"`
	Splits      []SplitPayload `json:"splits"`
}

// InviteCollaboratorRequest payload. Role defaults to editor.
type InviteCollaboratorRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UpdateCollaboratorRequest payload: status for self-acceptance, role for
// owner role changes.
type UpdateCollaboratorRequest struct {
	Status *string `json:"status"`
	Role   *string `json:"role"`
}

// CollaboratorResponse represents an embedded collaborator.
type CollaboratorResponse struct {
	ID     string                    `json:"id"`
	UserID string                    `json:"user_id"`
	Role   domain.CollaboratorRole   `json:"role"`
	Status domain.CollaboratorStatus `json:"status"`
}

// ItemResponse represents an embedded itinerary item.
type ItemResponse struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description,omitempty"`
	Date         time.Time           `json:"date"`
	LocationName string              `json:"location_name,omitempty"`
	Coords       *domain.Coordinates `json:"coords,omitempty"`
	CreatedBy    string              `json:"created_by"`
	Votes        []string            `json:"votes"`
}

// ExpenseResponse represents an embedded expense.
type ExpenseResponse struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	Amount      float64        `json:"amount"`
	PaidBy      string         `json:"paid_by"`
	Splits      []SplitPayload `json:"splits"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ItinerarySummary is the list view of an itinerary.
type ItinerarySummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	OwnerID      string    `json:"owner_id"`
	ItemCount    int       `json:"item_count"`
	ExpenseCount int       `json:"expense_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ItineraryResponse is the full document view.
type ItineraryResponse struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description,omitempty"`
	OwnerID       string                 `json:"owner_id"`
	Collaborators []CollaboratorResponse `json:"collaborators"`
	Items         []ItemResponse         `json:"items"`
	Expenses      []ExpenseResponse      `json:"expenses"`
	MapOverview   *domain.MapOverview    `json:"map_overview,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}
