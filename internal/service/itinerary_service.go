package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/trip-planner/internal/domain"
	"github.com/spec-kit/trip-planner/internal/events"
	"github.com/spec-kit/trip-planner/internal/repository"
	apperrors "github.com/spec-kit/trip-planner/pkg/util"
)

// saveAttempts bounds how often a mutation is replayed after losing the
// version race before giving up with a conflict.
const saveAttempts = 3

// ItineraryCache is the read-through cache the service consults for loads and
// invalidates on every mutation.
type ItineraryCache interface {
	Get(ctx context.Context, id string) (*domain.Itinerary, bool)
	Set(ctx context.Context, it *domain.Itinerary)
	Invalidate(ctx context.Context, id string)
}

// ItineraryService coordinates itinerary, item, vote, expense and
// collaborator workflows under the authorization policy.
type ItineraryService struct {
	itineraries repository.ItineraryRepository
	users       repository.UserRepository
	cache       ItineraryCache
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// ItineraryDependencies bundles requirements for the itinerary service.
type ItineraryDependencies struct {
	ItineraryRepo repository.ItineraryRepository
	UserRepo      repository.UserRepository
	Cache         ItineraryCache
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// NewItineraryService constructs the service.
func NewItineraryService(deps ItineraryDependencies) *ItineraryService {
	return &ItineraryService{
		itineraries: deps.ItineraryRepo,
		users:       deps.UserRepo,
		cache:       deps.Cache,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
	}
}

// ItineraryUpdateInput carries the owner-editable metadata fields; nil fields
// are left untouched.
type ItineraryUpdateInput struct {
	Name        *string
	Description *string
	MapOverview *domain.MapOverview
}

// ItemCreateInput describes a proposed item.
type ItemCreateInput struct {
	Title        string
	Description  string
	Date         time.Time
	LocationName string
	Coords       *domain.Coordinates
}

// ExpenseCreateInput describes a new shared expense.
type ExpenseCreateInput struct {
	Description string
	Amount      float64
	Splits      []domain.Split
}

// ExpenseUpdateInput is a shallow merge onto an existing expense; nil fields
// are left untouched.
type ExpenseUpdateInput struct {
	Description *string
	Amount      *float64
	Splits      []domain.Split
}

// CollaboratorUpdateInput carries either a status acceptance (by the invited
// user) or a role change (by the owner).
type CollaboratorUpdateInput struct {
	Status *domain.CollaboratorStatus
	Role   *domain.CollaboratorRole
}

// CreateItinerary creates an itinerary owned by ownerID, with the owner as an
// accepted editor collaborator.
func (s *ItineraryService) CreateItinerary(ctx context.Context, ownerID, name, description string) (*domain.Itinerary, error) {
	it := domain.NewItinerary(uuid.NewString(), ownerID, strings.TrimSpace(name), strings.TrimSpace(description), uuid.NewString())
	if err := s.itineraries.Create(ctx, it); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:        events.EventItineraryCreated,
		ItineraryID: it.ID,
		ActorID:     ownerID,
		Payload:     events.ItineraryCreatedPayload{Name: it.Name},
	})
	return it, nil
}

// ListItineraries returns itineraries the user owns or collaborates on with
// accepted status.
func (s *ItineraryService) ListItineraries(ctx context.Context, userID string) ([]domain.Itinerary, error) {
	return s.itineraries.ListForUser(ctx, userID)
}

// GetItinerary fetches one itinerary, enforcing read access.
func (s *ItineraryService) GetItinerary(ctx context.Context, userID, itineraryID string) (*domain.Itinerary, error) {
	if it, ok := s.cache.Get(ctx, itineraryID); ok {
		if !it.IsMember(userID) {
			return nil, apperrors.NewForbidden("forbidden")
		}
		return it, nil
	}

	it, err := s.load(ctx, itineraryID)
	if err != nil {
		return nil, err
	}
	if !it.IsMember(userID) {
		return nil, apperrors.NewForbidden("forbidden")
	}
	s.cache.Set(ctx, it)
	return it, nil
}

// UpdateItinerary applies metadata changes; owner only.
func (s *ItineraryService) UpdateItinerary(ctx context.Context, userID, itineraryID string, input ItineraryUpdateInput) (*domain.Itinerary, error) {
	return s.mutate(ctx, itineraryID, func(it *domain.Itinerary) error {
		if !it.IsOwner(userID) {
			return apperrors.NewForbidden("only the owner can update the itinerary")
		}
		if input.Name != nil {
			it.Name = strings.TrimSpace(*input.Name)
		}
		if input.Description != nil {
			it.Description = *input.Description
		}
		if input.MapOverview != nil {
			it.MapOverview = input.MapOverview
		}
		return nil
	})
}

// DeleteItinerary removes the itinerary and everything embedded in it; owner
// only.
func (s *ItineraryService) DeleteItinerary(ctx context.Context, userID, itineraryID string) error {
	it, err := s.load(ctx, itineraryID)
	if err != nil {
		return err
	}
	if !it.IsOwner(userID) {
		return apperrors.NewForbidden("only the owner can delete the itinerary")
	}
	if err := s.itineraries.Delete(ctx, itineraryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("itinerary", nil)
		}
		return err
	}
	s.cache.Invalidate(ctx, itineraryID)
	s.publish(ctx, events.Event{
		Type:        events.EventItineraryDeleted,
		ItineraryID: itineraryID,
		ActorID:     userID,
		Payload:     events.ItineraryDeletedPayload{Name: it.Name},
	})
	return nil
}

// AddItem appends a proposed item with the acting user as creator and an
// empty voter set. Returns the full updated itinerary.
func (s *ItineraryService) AddItem(ctx context.Context, userID, itineraryID string, input ItemCreateInput) (*domain.Itinerary, error) {
	itemID := uuid.NewString()
	it, err := s.mutate(ctx, itineraryID, func(it *domain.Itinerary) error {
		if !it.IsMember(userID) {
			return apperrors.NewForbidden("forbidden")
		}
		it.AddItem(domain.Item{
			ID:           itemID,
			Title:        strings.TrimSpace(input.Title),
			Description:  input.Description,
			Date:         input.Date,
			LocationName: input.LocationName,
			Coords:       input.Coords,
			CreatedBy:    userID,
			Votes:        []string{},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	item := it.ItemByID(itemID)
	s.publish(ctx, events.Event{
		Type:        events.EventItemAdded,
		ItineraryID: it.ID,
		ActorID:     userID,
		Payload:     events.ItemAddedPayload{ItemID: item.ID, Title: item.Title, Date: item.Date},
	})
	return it, nil
}

// DeleteItem removes an item; owner or the item's creator only.
func (s *ItineraryService) DeleteItem(ctx context.Context, userID, itineraryID, itemID string) error {
	_, err := s.mutate(ctx, itineraryID, func(it *domain.Itinerary) error {
		item := it.ItemByID(itemID)
		if item == nil {
			return apperrors.NewNotFound("item", nil)
		}
		if !it.CanDeleteItem(userID, item) {
			return apperrors.NewForbidden("forbidden")
		}
		it.RemoveItem(itemID)
		return nil
	})
	return err
}

// ToggleVote flips the acting user's vote on an item and returns the updated
// item. Voting is open to any authenticated user who can name the itinerary.
func (s *ItineraryService) ToggleVote(ctx context.Context, userID, itineraryID, itemID string) (*domain.Item, error) {
	var voted bool
	it, err := s.mutate(ctx, itineraryID, func(it *domain.Itinerary) error {
		item := it.ItemByID(itemID)
		if item == nil {
			return apperrors.NewNotFound("item", nil)
		}
		voted = item.ToggleVote(userID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	item := it.ItemByID(itemID)
	s.publish(ctx, events.Event{
		Type:        events.EventItemVoteToggled,
		ItineraryID: it.ID,
		ActorID:     userID,
		Payload:     events.ItemVoteToggledPayload{ItemID: item.ID, Voted: voted, VoteCount: len(item.Votes)},
	})
	return item, nil
}

// AddExpense appends an expense paid by the acting user and returns the full
// updated expense list. Shares, when present, must sum to the amount.
func (s *ItineraryService) AddExpense(ctx context.Context, userID, itineraryID string, input ExpenseCreateInput) ([]domain.Expense, error) {
	if !domain.SplitsMatchAmount(input.Amount, input.Splits) {
		return nil, apperrors.NewValidationError("split shares must sum to the expense amount", nil)
	}
	expenseID := uuid.NewString()
	it, err := s.mutate(ctx, itineraryID, func(it *domain.Itinerary) error {
		if !it.IsMember(userID) {
			return apperrors.NewForbidden("forbidden")
		}
		it.AddExpense(domain.Expense{
			ID:          expenseID,
			Description: strings.TrimSpace(input.Description),
			Amount:      input.Amount,
			PaidBy:      userID,
			Splits:      input.Splits,
			CreatedAt:   time.Now(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	expense := it.ExpenseByID(expenseID)
	s.publish(ctx, events.Event{
		Type:        events.EventExpenseAdded,
		ItineraryID: it.ID,
		ActorID:     userID,
		Payload:     events.ExpenseAddedPayload{ExpenseID: expense.ID, Description: expense.Description, Amount: expense.Amount},
	})
	return it.Expenses, nil
}

// UpdateExpense shallow-merges provided fields onto an expense; owner or payer
// only. New splits must sum to the effective amount; amount-only updates leave
// existing splits untouched.
func (s *ItineraryService) UpdateExpense(ctx context.Context, userID, itineraryID, expenseID string, input ExpenseUpdateInput) (*domain.Expense, error) {
	it, err := s.mutate(ctx, itineraryID, func(it *domain.Itinerary) error {
		expense := it.ExpenseByID(expenseID)
		if expense == nil {
			return apperrors.NewNotFound("expense", nil)
		}
		if !it.CanModifyExpense(userID, expense) {
			return apperrors.NewForbidden("forbidden")
		}
		amount := expense.Amount
		if input.Amount != nil {
			amount = *input.Amount
		}
		if input.Splits != nil && !domain.SplitsMatchAmount(amount, input.Splits) {
			return apperrors.NewValidationError("split shares must sum to the expense amount", nil)
		}
		if input.Description != nil {
			expense.Description = strings.TrimSpace(*input.Description)
		}
		if input.Amount != nil {
			expense.Amount = *input.Amount
		}
		if input.Splits != nil {
			expense.Splits = input.Splits
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return it.ExpenseByID(expenseID), nil
}

// DeleteExpense removes an expense; owner or payer only.
func (s *ItineraryService) DeleteExpense(ctx context.Context, userID, itineraryID, expenseID string) error {
	_, err := s.mutate(ctx, itineraryID, func(it *domain.Itinerary) error {
		expense := it.ExpenseByID(expenseID)
		if expense == nil {
			return apperrors.NewNotFound("expense", nil)
		}
		if !it.CanModifyExpense(userID, expense) {
			return apperrors.NewForbidden("forbidden")
		}
		it.RemoveExpense(expenseID)
		return nil
	})
	return err
}

// InviteCollaborator adds a pending collaborator by account email; owner only.
// Returns the full collaborator list. Itinerary existence and ownership are
// settled before the invitee lookup, so non-owners learn nothing about which
// emails have accounts.
func (s *ItineraryService) InviteCollaborator(ctx context.Context, ownerID, itineraryID, email string, role domain.CollaboratorRole) ([]domain.Collaborator, error) {
	if role == "" {
		role = domain.RoleEditor
	}

	collabID := uuid.NewString()
	var invitedID string
	it, err := s.mutate(ctx, itineraryID, func(it *domain.Itinerary) error {
		if !it.IsOwner(ownerID) {
			return apperrors.NewForbidden("only the owner can invite collaborators")
		}
		invited, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("user", nil)
			}
			return err
		}
		if it.CollaboratorByUser(invited.ID) != nil {
			return apperrors.NewConflict("user is already a collaborator", nil)
		}
		invitedID = invited.ID
		it.AddCollaborator(domain.Collaborator{
			ID:     collabID,
			UserID: invited.ID,
			Role:   role,
			Status: domain.StatusPending,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:        events.EventCollaboratorInvited,
		ItineraryID: it.ID,
		ActorID:     ownerID,
		Payload:     events.CollaboratorInvitedPayload{CollaboratorID: collabID, UserID: invitedID, Role: role},
	})
	return it.Collaborators, nil
}

// UpdateCollaborator handles the two allowed paths: the invited user accepting
// their own pending invitation, or the owner changing a collaborator's role.
// Every other combination is denied.
func (s *ItineraryService) UpdateCollaborator(ctx context.Context, userID, itineraryID, collaboratorID string, input CollaboratorUpdateInput) (*domain.Collaborator, error) {
	var accepted bool
	var acceptedUserID string
	it, err := s.mutate(ctx, itineraryID, func(it *domain.Itinerary) error {
		accepted = false
		collab := it.CollaboratorByID(collaboratorID)
		if collab == nil {
			return apperrors.NewNotFound("collaborator", nil)
		}
		switch {
		case collab.UserID == userID && input.Status != nil && *input.Status == domain.StatusAccepted:
			if collab.Status != domain.StatusAccepted {
				accepted = true
				acceptedUserID = collab.UserID
			}
			collab.Status = domain.StatusAccepted
		case it.IsOwner(userID) && input.Role != nil:
			collab.Role = *input.Role
		default:
			return apperrors.NewForbidden("forbidden")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if accepted {
		s.publish(ctx, events.Event{
			Type:        events.EventCollaboratorAccepted,
			ItineraryID: it.ID,
			ActorID:     userID,
			Payload:     events.CollaboratorAcceptedPayload{CollaboratorID: collaboratorID, UserID: acceptedUserID},
		})
	}
	return it.CollaboratorByID(collaboratorID), nil
}

// RemoveCollaborator removes a collaborator; owner, or the collaborator
// removing themself.
func (s *ItineraryService) RemoveCollaborator(ctx context.Context, userID, itineraryID, collaboratorID string) error {
	_, err := s.mutate(ctx, itineraryID, func(it *domain.Itinerary) error {
		collab := it.CollaboratorByID(collaboratorID)
		if collab == nil {
			return apperrors.NewNotFound("collaborator", nil)
		}
		if !it.CanRemoveCollaborator(userID, collab) {
			return apperrors.NewForbidden("forbidden")
		}
		it.RemoveCollaborator(collaboratorID)
		return nil
	})
	return err
}

// load fetches an itinerary, mapping a missing row to a not-found error.
func (s *ItineraryService) load(ctx context.Context, itineraryID string) (*domain.Itinerary, error) {
	it, err := s.itineraries.GetByID(ctx, itineraryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("itinerary", nil)
		}
		return nil, err
	}
	return it, nil
}

// mutate runs fn over a freshly loaded aggregate and saves it under the
// version guard. Losing the version race refetches and replays fn; after
// saveAttempts losses the mutation surfaces as a conflict.
func (s *ItineraryService) mutate(ctx context.Context, itineraryID string, fn func(*domain.Itinerary) error) (*domain.Itinerary, error) {
	for attempt := 0; attempt < saveAttempts; attempt++ {
		it, err := s.load(ctx, itineraryID)
		if err != nil {
			return nil, err
		}
		if err := fn(it); err != nil {
			return nil, err
		}
		if err := s.itineraries.Save(ctx, it); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				s.logger.Debug("itinerary save lost version race",
					zap.String("itinerary_id", itineraryID),
					zap.Int("attempt", attempt+1))
				continue
			}
			return nil, err
		}
		s.cache.Invalidate(ctx, itineraryID)
		return it, nil
	}
	return nil, apperrors.NewConflict("itinerary was modified concurrently", nil)
}

func (s *ItineraryService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
