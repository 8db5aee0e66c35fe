package events

import (
	"time"

	"github.com/spec-kit/trip-planner/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventItineraryCreated     EventType = "itinerary_created"
	EventItineraryDeleted     EventType = "itinerary_deleted"
	EventItemAdded            EventType = "item_added"
	EventItemVoteToggled      EventType = "item_vote_toggled"
	EventExpenseAdded         EventType = "expense_added"
	EventCollaboratorInvited  EventType = "collaborator_invited"
	EventCollaboratorAccepted EventType = "collaborator_accepted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ItineraryID string      `json:"itinerary_id"`
	ActorID     string      `json:"actor_id"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ItineraryCreatedPayload payload.
type ItineraryCreatedPayload struct {
	Name string `json:"name"`
}

// ItineraryDeletedPayload payload.
type ItineraryDeletedPayload struct {
	Name string `json:"name"`
}

// ItemAddedPayload payload.
type ItemAddedPayload struct {
	ItemID string    `json:"item_id"`
	Title  string    `json:"title"`
	Date   time.Time `json:"date"`
}

// ItemVoteToggledPayload payload.
type ItemVoteToggledPayload struct {
	ItemID    string `json:"item_id"`
	Voted     bool   `json:"voted"`
	VoteCount int    `json:"vote_count"`
}

// ExpenseAddedPayload payload.
type ExpenseAddedPayload struct {
	ExpenseID   string  `json:"expense_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// CollaboratorInvitedPayload payload.
type CollaboratorInvitedPayload struct {
	CollaboratorID string                  `json:"collaborator_id"`
	UserID         string                  `json:"user_id"`
	Role           domain.CollaboratorRole `json:"role"`
}

// CollaboratorAcceptedPayload payload.
type CollaboratorAcceptedPayload struct {
	CollaboratorID string `json:"collaborator_id"`
	UserID         string `json:"user_id"`
}
