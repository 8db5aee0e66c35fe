package domain

import (
	"math"
	"time"
)

// CollaboratorRole controls what a collaborator may do once accepted.
type CollaboratorRole string

const (
	RoleEditor CollaboratorRole = "editor"
	RoleViewer CollaboratorRole = "viewer"
)

// CollaboratorStatus tracks the invitation lifecycle. The only transition is
// pending -> accepted, performed by the invited user.
type CollaboratorStatus string

const (
	StatusPending  CollaboratorStatus = "pending"
	StatusAccepted CollaboratorStatus = "accepted"
)

// Collaborator is a user granted access to an itinerary.
type Collaborator struct {
	ID     string             `json:"id"`
	UserID string             `json:"user_id"`
	Role   CollaboratorRole   `json:"role"`
	Status CollaboratorStatus `json:"status"`
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Item is a proposed activity or stop with supporting votes.
type Item struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Date         time.Time    `json:"date"`
	LocationName string       `json:"location_name,omitempty"`
	Coords       *Coordinates `json:"coords,omitempty"`
	CreatedBy    string       `json:"created_by"`
	Votes        []string     `json:"votes"`
}

// ToggleVote flips the user's membership in the voter set: present votes are
// withdrawn, absent votes are appended. Returns true when the user now has a vote.
func (i *Item) ToggleVote(userID string) bool {
	for idx, voter := range i.Votes {
		if voter == userID {
			i.Votes = append(i.Votes[:idx], i.Votes[idx+1:]...)
			return false
		}
	}
	i.Votes = append(i.Votes, userID)
	return true
}

// HasVote reports whether the user currently votes for the item.
func (i *Item) HasVote(userID string) bool {
	for _, voter := range i.Votes {
		if voter == userID {
			return true
		}
	}
	return false
}

// Split assigns a share of an expense to one user.
type Split struct {
	UserID string  `json:"user_id"`
	Share  float64 `json:"share"`
}

// Expense is a shared cost with a payer and per-user splits.
type Expense struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	PaidBy      string    `json:"paid_by"`
	Splits      []Split   `json:"splits"`
	CreatedAt   time.Time `json:"created_at"`
}

// splitTolerance absorbs float rounding when comparing share sums to amounts.
const splitTolerance = 0.01

// SplitsMatchAmount reports whether the shares sum to the expense amount,
// within a cent.
func SplitsMatchAmount(amount float64, splits []Split) bool {
	if len(splits) == 0 {
		return true
	}
	var total float64
	for _, split := range splits {
		total += split.Share
	}
	return math.Abs(total-amount) <= splitTolerance
}

// MapBounds is the viewport bounding box of the map overview.
type MapBounds struct {
	NE Coordinates `json:"ne"`
	SW Coordinates `json:"sw"`
}

// MapOverview stores a map viewport and encoded route polylines.
type MapOverview struct {
	Bounds    MapBounds `json:"bounds"`
	Polylines []string  `json:"polylines,omitempty"`
}

// Itinerary is the root trip-planning aggregate. It exclusively owns its
// collaborators, items and expenses; those hold weak references to users.
type Itinerary struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	OwnerID       string         `json:"owner_id"`
	Collaborators []Collaborator `json:"collaborators"`
	Items         []Item         `json:"items"`
	Expenses      []Expense      `json:"expenses"`
	MapOverview   *MapOverview   `json:"map_overview,omitempty"`
	Version       int64          `json:"-"`
	CreatedAt     time.Time      `json:"-"`
	UpdatedAt     time.Time      `json:"-"`

	// position indexes over the embedded collections, rebuilt lazily so the
	// aggregate survives JSON round trips through storage and cache.
	collaboratorIdx map[string]int
	itemIdx         map[string]int
	expenseIdx      map[string]int
}

// NewItinerary creates an itinerary owned by ownerID. The owner is always
// present as an accepted editor collaborator from creation.
func NewItinerary(id, ownerID, name, description string, ownerCollaboratorID string) *Itinerary {
	it := &Itinerary{
		ID:          id,
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		Items:       []Item{},
		Expenses:    []Expense{},
	}
	it.AddCollaborator(Collaborator{
		ID:     ownerCollaboratorID,
		UserID: ownerID,
		Role:   RoleEditor,
		Status: StatusAccepted,
	})
	return it
}

func (it *Itinerary) ensureIndexes() {
	if it.collaboratorIdx != nil {
		return
	}
	it.rebuildIndexes()
}

func (it *Itinerary) rebuildIndexes() {
	it.collaboratorIdx = make(map[string]int, len(it.Collaborators))
	for i, c := range it.Collaborators {
		it.collaboratorIdx[c.ID] = i
	}
	it.itemIdx = make(map[string]int, len(it.Items))
	for i, item := range it.Items {
		it.itemIdx[item.ID] = i
	}
	it.expenseIdx = make(map[string]int, len(it.Expenses))
	for i, e := range it.Expenses {
		it.expenseIdx[e.ID] = i
	}
}

// CollaboratorByID resolves an embedded collaborator by its generated id.
func (it *Itinerary) CollaboratorByID(id string) *Collaborator {
	it.ensureIndexes()
	idx, ok := it.collaboratorIdx[id]
	if !ok {
		return nil
	}
	return &it.Collaborators[idx]
}

// CollaboratorByUser resolves a collaborator entry by user reference.
func (it *Itinerary) CollaboratorByUser(userID string) *Collaborator {
	for i := range it.Collaborators {
		if it.Collaborators[i].UserID == userID {
			return &it.Collaborators[i]
		}
	}
	return nil
}

// ItemByID resolves an embedded item by its generated id.
func (it *Itinerary) ItemByID(id string) *Item {
	it.ensureIndexes()
	idx, ok := it.itemIdx[id]
	if !ok {
		return nil
	}
	return &it.Items[idx]
}

// ExpenseByID resolves an embedded expense by its generated id.
func (it *Itinerary) ExpenseByID(id string) *Expense {
	it.ensureIndexes()
	idx, ok := it.expenseIdx[id]
	if !ok {
		return nil
	}
	return &it.Expenses[idx]
}

// AddCollaborator appends a collaborator and maintains the index.
func (it *Itinerary) AddCollaborator(c Collaborator) {
	it.ensureIndexes()
	it.Collaborators = append(it.Collaborators, c)
	it.collaboratorIdx[c.ID] = len(it.Collaborators) - 1
}

// RemoveCollaborator deletes a collaborator by id. Returns false when absent.
func (it *Itinerary) RemoveCollaborator(id string) bool {
	it.ensureIndexes()
	idx, ok := it.collaboratorIdx[id]
	if !ok {
		return false
	}
	it.Collaborators = append(it.Collaborators[:idx], it.Collaborators[idx+1:]...)
	it.rebuildIndexes()
	return true
}

// AddItem appends an item and maintains the index.
func (it *Itinerary) AddItem(item Item) {
	it.ensureIndexes()
	it.Items = append(it.Items, item)
	it.itemIdx[item.ID] = len(it.Items) - 1
}

// RemoveItem deletes an item by id. Returns false when absent.
func (it *Itinerary) RemoveItem(id string) bool {
	it.ensureIndexes()
	idx, ok := it.itemIdx[id]
	if !ok {
		return false
	}
	it.Items = append(it.Items[:idx], it.Items[idx+1:]...)
	it.rebuildIndexes()
	return true
}

// AddExpense appends an expense and maintains the index.
func (it *Itinerary) AddExpense(e Expense) {
	it.ensureIndexes()
	it.Expenses = append(it.Expenses, e)
	it.expenseIdx[e.ID] = len(it.Expenses) - 1
}

// RemoveExpense deletes an expense by id. Returns false when absent.
func (it *Itinerary) RemoveExpense(id string) bool {
	it.ensureIndexes()
	idx, ok := it.expenseIdx[id]
	if !ok {
		return false
	}
	it.Expenses = append(it.Expenses[:idx], it.Expenses[idx+1:]...)
	it.rebuildIndexes()
	return true
}
