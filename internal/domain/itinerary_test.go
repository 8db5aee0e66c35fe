package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItineraryOwnerIsAcceptedEditor(t *testing.T) {
	it := NewItinerary("trip-1", "owner-1", "Lisbon", "long weekend", "collab-1")

	require.Len(t, it.Collaborators, 1)
	owner := it.Collaborators[0]
	assert.Equal(t, "collab-1", owner.ID)
	assert.Equal(t, "owner-1", owner.UserID)
	assert.Equal(t, RoleEditor, owner.Role)
	assert.Equal(t, StatusAccepted, owner.Status)

	assert.NotNil(t, it.Items)
	assert.NotNil(t, it.Expenses)
}

func TestItineraryLookupsAndRemoval(t *testing.T) {
	it := NewItinerary("trip-1", "owner-1", "Lisbon", "", "collab-1")

	it.AddItem(Item{ID: "item-1", Title: "Belem Tower", CreatedBy: "owner-1", Votes: []string{}})
	it.AddItem(Item{ID: "item-2", Title: "Tram 28", CreatedBy: "owner-1", Votes: []string{}})
	it.AddExpense(Expense{ID: "exp-1", Description: "dinner", Amount: 60, PaidBy: "owner-1"})

	require.NotNil(t, it.ItemByID("item-2"))
	assert.Equal(t, "Tram 28", it.ItemByID("item-2").Title)
	assert.Nil(t, it.ItemByID("missing"))
	require.NotNil(t, it.ExpenseByID("exp-1"))

	assert.True(t, it.RemoveItem("item-1"))
	assert.False(t, it.RemoveItem("item-1"))
	assert.Nil(t, it.ItemByID("item-1"))

	// index must be rebuilt after removal shifts positions
	require.NotNil(t, it.ItemByID("item-2"))
	assert.Equal(t, "item-2", it.Items[0].ID)
}

func TestItineraryIndexSurvivesJSONRoundTrip(t *testing.T) {
	it := NewItinerary("trip-1", "owner-1", "Lisbon", "", "collab-1")
	it.AddItem(Item{ID: "item-1", Title: "Belem Tower", CreatedBy: "owner-1", Votes: []string{}})

	raw, err := json.Marshal(it)
	require.NoError(t, err)

	var decoded Itinerary
	require.NoError(t, json.Unmarshal(raw, &decoded))

	require.NotNil(t, decoded.ItemByID("item-1"))
	require.NotNil(t, decoded.CollaboratorByID("collab-1"))
	assert.Equal(t, "owner-1", decoded.CollaboratorByID("collab-1").UserID)
}

func TestCollaboratorByUser(t *testing.T) {
	it := NewItinerary("trip-1", "owner-1", "Lisbon", "", "collab-1")
	it.AddCollaborator(Collaborator{ID: "collab-2", UserID: "friend-1", Role: RoleViewer, Status: StatusPending})

	require.NotNil(t, it.CollaboratorByUser("friend-1"))
	assert.Equal(t, "collab-2", it.CollaboratorByUser("friend-1").ID)
	assert.Nil(t, it.CollaboratorByUser("stranger"))
}

func TestToggleVoteIsAnInvolution(t *testing.T) {
	item := Item{ID: "item-1", Votes: []string{"user-a"}}

	assert.True(t, item.ToggleVote("user-b"))
	assert.True(t, item.HasVote("user-b"))
	assert.Len(t, item.Votes, 2)

	assert.False(t, item.ToggleVote("user-b"))
	assert.False(t, item.HasVote("user-b"))
	assert.Equal(t, []string{"user-a"}, item.Votes)
}

func TestSplitsMatchAmount(t *testing.T) {
	cases := []struct {
		name   string
		amount float64
		splits []Split
		want   bool
	}{
		{"no splits is always valid", 100, nil, true},
		{"exact sum", 100, []Split{{UserID: "a", Share: 60}, {UserID: "b", Share: 40}}, true},
		{"within a cent", 100, []Split{{UserID: "a", Share: 33.33}, {UserID: "b", Share: 33.33}, {UserID: "c", Share: 33.33}}, true},
		{"off by more than a cent", 100, []Split{{UserID: "a", Share: 60}, {UserID: "b", Share: 30}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SplitsMatchAmount(tc.amount, tc.splits))
		})
	}
}

func TestItemDateRoundTrip(t *testing.T) {
	date := time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC)
	item := Item{ID: "item-1", Title: "Museum", Date: date, Votes: []string{}}

	raw, err := json.Marshal(item)
	require.NoError(t, err)

	var decoded Item
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.True(t, decoded.Date.Equal(date))
}
