package domain

// Authorization policy over the itinerary aggregate. Decisions take the
// itinerary, the acting user id and the target sub-entity; handlers map a
// deny to 403 and a missing resource to 404, never the one for the other.

// IsOwner reports whether userID owns the itinerary.
func (it *Itinerary) IsOwner(userID string) bool {
	return it.OwnerID == userID
}

// IsAcceptedCollaborator reports whether userID has an accepted collaborator
// entry. Pending invitations grant nothing.
func (it *Itinerary) IsAcceptedCollaborator(userID string) bool {
	for i := range it.Collaborators {
		if it.Collaborators[i].UserID == userID && it.Collaborators[i].Status == StatusAccepted {
			return true
		}
	}
	return false
}

// IsMember reports whether userID may read the itinerary and create items or
// expenses: the owner or any accepted collaborator.
func (it *Itinerary) IsMember(userID string) bool {
	return it.IsOwner(userID) || it.IsAcceptedCollaborator(userID)
}

// CanDeleteItem allows the owner or the item's original creator.
func (it *Itinerary) CanDeleteItem(userID string, item *Item) bool {
	return it.IsOwner(userID) || item.CreatedBy == userID
}

// CanModifyExpense allows the owner or the expense's payer, for both update
// and delete.
func (it *Itinerary) CanModifyExpense(userID string, expense *Expense) bool {
	return it.IsOwner(userID) || expense.PaidBy == userID
}

// CanRemoveCollaborator allows the owner, or a collaborator removing themself.
func (it *Itinerary) CanRemoveCollaborator(userID string, collab *Collaborator) bool {
	return it.IsOwner(userID) || collab.UserID == userID
}
