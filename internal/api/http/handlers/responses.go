package handlers

import (
	"github.com/spec-kit/trip-planner/internal/api/dto"
	"github.com/spec-kit/trip-planner/internal/domain"
)

func itinerarySummary(it *domain.Itinerary) dto.ItinerarySummary {
	return dto.ItinerarySummary{
		ID:           it.ID,
		Name:         it.Name,
		Description:  it.Description,
		OwnerID:      it.OwnerID,
		ItemCount:    len(it.Items),
		ExpenseCount: len(it.Expenses),
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}

func itineraryResponse(it *domain.Itinerary) dto.ItineraryResponse {
	collaborators := make([]dto.CollaboratorResponse, 0, len(it.Collaborators))
	for i := range it.Collaborators {
		collaborators = append(collaborators, collaboratorResponse(&it.Collaborators[i]))
	}
	items := make([]dto.ItemResponse, 0, len(it.Items))
	for i := range it.Items {
		items = append(items, itemResponse(&it.Items[i]))
	}
	expenses := make([]dto.ExpenseResponse, 0, len(it.Expenses))
	for i := range it.Expenses {
		expenses = append(expenses, expenseResponse(&it.Expenses[i]))
	}
	return dto.ItineraryResponse{
		ID:            it.ID,
		Name:          it.Name,
		Description:   it.Description,
		OwnerID:       it.OwnerID,
		Collaborators: collaborators,
		Items:         items,
		Expenses:      expenses,
		MapOverview:   it.MapOverview,
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
	}
}

func collaboratorResponse(c *domain.Collaborator) dto.CollaboratorResponse {
	return dto.CollaboratorResponse{
		ID:     c.ID,
		UserID: c.UserID,
		Role:   c.Role,
		Status: c.Status,
	}
}

func collaboratorResponses(collaborators []domain.Collaborator) []dto.CollaboratorResponse {
	resp := make([]dto.CollaboratorResponse, 0, len(collaborators))
	for i := range collaborators {
		resp = append(resp, collaboratorResponse(&collaborators[i]))
	}
	return resp
}

func itemResponse(item *domain.Item) dto.ItemResponse {
	votes := item.Votes
	if votes == nil {
		votes = []string{}
	}
	return dto.ItemResponse{
		ID:           item.ID,
		Title:        item.Title,
		Description:  item.Description,
		Date:         item.Date,
		LocationName: item.LocationName,
		Coords:       item.Coords,
		CreatedBy:    item.CreatedBy,
		Votes:        votes,
	}
}

func expenseResponse(e *domain.Expense) dto.ExpenseResponse {
	splits := make([]dto.SplitPayload, 0, len(e.Splits))
	for _, split := range e.Splits {
		splits = append(splits, dto.SplitPayload{UserID: split.UserID, Share: split.Share})
	}
	return dto.ExpenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		PaidBy:      e.PaidBy,
		Splits:      splits,
		CreatedAt:   e.CreatedAt,
	}
}

func expenseResponses(expenses []domain.Expense) []dto.ExpenseResponse {
	resp := make([]dto.ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		resp = append(resp, expenseResponse(&expenses[i]))
	}
	return resp
}

func splitsFromPayload(splits []dto.SplitPayload) []domain.Split {
	if splits == nil {
		return nil
	}
	result := make([]domain.Split, 0, len(splits))
	for _, split := range splits {
		result = append(result, domain.Split{UserID: split.UserID, Share: split.Share})
	}
	return result
}
