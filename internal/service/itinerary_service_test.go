package service_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/trip-planner/internal/domain"
	"github.com/spec-kit/trip-planner/internal/events"
	"github.com/spec-kit/trip-planner/internal/repository"
	"github.com/spec-kit/trip-planner/internal/service"
	apperrors "github.com/spec-kit/trip-planner/pkg/util"
)

// fakeItineraryRepo stores aggregates as JSON documents with a version guard,
// mirroring the conditional-save contract of the real repository.
type fakeItineraryRepo struct {
	mu           sync.Mutex
	rows         map[string]*storedRow
	failSaves    int
	saveAttempts int
}

type storedRow struct {
	doc     []byte
	version int64
}

func newFakeItineraryRepo() *fakeItineraryRepo {
	return &fakeItineraryRepo{rows: map[string]*storedRow{}}
}

func (r *fakeItineraryRepo) Create(_ context.Context, it *domain.Itinerary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	raw, err := json.Marshal(it)
	if err != nil {
		return err
	}
	it.Version = 1
	it.CreatedAt = time.Now()
	it.UpdatedAt = it.CreatedAt
	r.rows[it.ID] = &storedRow{doc: raw, version: 1}
	return nil
}

func (r *fakeItineraryRepo) GetByID(_ context.Context, id string) (*domain.Itinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	var it domain.Itinerary
	if err := json.Unmarshal(row.doc, &it); err != nil {
		return nil, err
	}
	it.Version = row.version
	return &it, nil
}

func (r *fakeItineraryRepo) ListForUser(ctx context.Context, userID string) ([]domain.Itinerary, error) {
	r.mu.Lock()
	ids := make([]string, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	var result []domain.Itinerary
	for _, id := range ids {
		it, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if it.IsOwner(userID) || it.IsAcceptedCollaborator(userID) {
			result = append(result, *it)
		}
	}
	return result, nil
}

func (r *fakeItineraryRepo) Save(_ context.Context, it *domain.Itinerary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveAttempts++
	row, ok := r.rows[it.ID]
	if !ok || row.version != it.Version {
		return repository.ErrVersionConflict
	}
	if r.failSaves > 0 {
		r.failSaves--
		// a concurrent writer got there first
		row.version++
		return repository.ErrVersionConflict
	}
	raw, err := json.Marshal(it)
	if err != nil {
		return err
	}
	row.doc = raw
	row.version++
	it.Version = row.version
	it.UpdatedAt = time.Now()
	return nil
}

func (r *fakeItineraryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.rows, id)
	return nil
}

type fakeUserRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.User
	byEml     map[string]*domain.User
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*domain.User{}, byEml: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.byID[user.ID] = &copied
	r.byEml[user.Email] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byEml[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (*domain.Itinerary, bool) { return nil, false }
func (noopCache) Set(context.Context, *domain.Itinerary)               {}
func (noopCache) Invalidate(context.Context, string)                   {}

type testEnv struct {
	service     *service.ItineraryService
	itineraries *fakeItineraryRepo
	users       *fakeUserRepo
	dispatcher  events.Dispatcher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	itineraries := newFakeItineraryRepo()
	users := newFakeUserRepo()
	dispatcher := events.NewInMemoryDispatcher()
	svc := service.NewItineraryService(service.ItineraryDependencies{
		ItineraryRepo: itineraries,
		UserRepo:      users,
		Cache:         noopCache{},
		Dispatcher:    dispatcher,
		Logger:        zap.NewNop(),
	})
	return &testEnv{service: svc, itineraries: itineraries, users: users, dispatcher: dispatcher}
}

func (e *testEnv) addUser(t *testing.T, name, email string) *domain.User {
	t.Helper()
	user := &domain.User{Name: name, Email: email, PasswordHash: "x"}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestCreateItineraryOwnerBecomesAcceptedEditor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.addUser(t, "Alice", "alice@example.com")

	var published []events.Event
	env.dispatcher.Subscribe(events.EventItineraryCreated, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	it, err := env.service.CreateItinerary(ctx, alice.ID, "  Lisbon  ", "long weekend")
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", it.Name)
	assert.Equal(t, alice.ID, it.OwnerID)
	require.Len(t, it.Collaborators, 1)
	assert.Equal(t, domain.RoleEditor, it.Collaborators[0].Role)
	assert.Equal(t, domain.StatusAccepted, it.Collaborators[0].Status)

	require.Len(t, published, 1)
	assert.Equal(t, it.ID, published[0].ItineraryID)
	assert.NotEmpty(t, published[0].ID)
}

func TestGetItineraryAccessControl(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.addUser(t, "Alice", "alice@example.com")
	bob := env.addUser(t, "Bob", "bob@example.com")

	it, err := env.service.CreateItinerary(ctx, alice.ID, "Lisbon", "")
	require.NoError(t, err)

	_, err = env.service.GetItinerary(ctx, alice.ID, it.ID)
	require.NoError(t, err)

	_, err = env.service.GetItinerary(ctx, bob.ID, it.ID)
	requireCode(t, err, "FORBIDDEN")

	_, err = env.service.GetItinerary(ctx, alice.ID, uuid.NewString())
	requireCode(t, err, "NOT_FOUND")
}

func TestCollaborationFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.addUser(t, "Alice", "alice@example.com")
	bob := env.addUser(t, "Bob", "bob@example.com")

	it, err := env.service.CreateItinerary(ctx, alice.ID, "Lisbon", "")
	require.NoError(t, err)

	// Alice invites Bob; the invitation starts pending.
	collaborators, err := env.service.InviteCollaborator(ctx, alice.ID, it.ID, "bob@example.com", "")
	require.NoError(t, err)
	require.Len(t, collaborators, 2)
	invite := collaborators[1]
	assert.Equal(t, bob.ID, invite.UserID)
	assert.Equal(t, domain.RoleEditor, invite.Role, "role defaults to editor")
	assert.Equal(t, domain.StatusPending, invite.Status)

	// Pending grants nothing: Bob cannot read, and his list stays empty.
	_, err = env.service.GetItinerary(ctx, bob.ID, it.ID)
	requireCode(t, err, "FORBIDDEN")
	list, err := env.service.ListItineraries(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Bob accepts his own invitation.
	accepted := domain.StatusAccepted
	collab, err := env.service.UpdateCollaborator(ctx, bob.ID, it.ID, invite.ID, service.CollaboratorUpdateInput{Status: &accepted})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, collab.Status)

	// Now Bob is a member: read, list, add items.
	_, err = env.service.GetItinerary(ctx, bob.ID, it.ID)
	require.NoError(t, err)
	list, err = env.service.ListItineraries(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	updated, err := env.service.AddItem(ctx, bob.ID, it.ID, service.ItemCreateInput{
		Title: "Tram 28",
		Date:  time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	item := updated.Items[0]
	assert.Equal(t, bob.ID, item.CreatedBy)
	assert.Empty(t, item.Votes)

	// Both vote; Bob withdraws.
	voted, err := env.service.ToggleVote(ctx, alice.ID, it.ID, item.ID)
	require.NoError(t, err)
	assert.Len(t, voted.Votes, 1)
	voted, err = env.service.ToggleVote(ctx, bob.ID, it.ID, item.ID)
	require.NoError(t, err)
	assert.Len(t, voted.Votes, 2)
	voted, err = env.service.ToggleVote(ctx, bob.ID, it.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, voted.Votes)
}

func TestInviteCollaboratorFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.addUser(t, "Alice", "alice@example.com")
	bob := env.addUser(t, "Bob", "bob@example.com")
	env.addUser(t, "Carol", "carol@example.com")

	it, err := env.service.CreateItinerary(ctx, alice.ID, "Lisbon", "")
	require.NoError(t, err)

	_, err = env.service.InviteCollaborator(ctx, alice.ID, it.ID, "nobody@example.com", "")
	requireCode(t, err, "NOT_FOUND")

	_, err = env.service.InviteCollaborator(ctx, bob.ID, it.ID, "carol@example.com", "")
	requireCode(t, err, "FORBIDDEN")

	// ownership is decided before the invitee lookup: a non-owner gets 403
	// even for an unknown email, never a hint about account existence
	_, err = env.service.InviteCollaborator(ctx, bob.ID, it.ID, "nobody@example.com", "")
	requireCode(t, err, "FORBIDDEN")

	// and a missing itinerary is reported as such, not as a missing user
	_, err = env.service.InviteCollaborator(ctx, alice.ID, uuid.NewString(), "nobody@example.com", "")
	requireCode(t, err, "NOT_FOUND")
	assert.EqualError(t, err, "itinerary not found")

	_, err = env.service.InviteCollaborator(ctx, alice.ID, it.ID, "bob@example.com", domain.RoleViewer)
	require.NoError(t, err)
	_, err = env.service.InviteCollaborator(ctx, alice.ID, it.ID, "bob@example.com", domain.RoleViewer)
	requireCode(t, err, "CONFLICT")

	// the owner already holds a collaborator entry
	_, err = env.service.InviteCollaborator(ctx, alice.ID, it.ID, "alice@example.com", "")
	requireCode(t, err, "CONFLICT")
}

func TestUpdateCollaboratorDeniedCombinations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.addUser(t, "Alice", "alice@example.com")
	bob := env.addUser(t, "Bob", "bob@example.com")
	carol := env.addUser(t, "Carol", "carol@example.com")

	it, err := env.service.CreateItinerary(ctx, alice.ID, "Lisbon", "")
	require.NoError(t, err)
	collaborators, err := env.service.InviteCollaborator(ctx, alice.ID, it.ID, "bob@example.com", "")
	require.NoError(t, err)
	invite := collaborators[1]

	// a third party cannot accept on Bob's behalf
	accepted := domain.StatusAccepted
	_, err = env.service.UpdateCollaborator(ctx, carol.ID, it.ID, invite.ID, service.CollaboratorUpdateInput{Status: &accepted})
	requireCode(t, err, "FORBIDDEN")

	// Bob cannot change his own role
	viewer := domain.RoleViewer
	_, err = env.service.UpdateCollaborator(ctx, bob.ID, it.ID, invite.ID, service.CollaboratorUpdateInput{Role: &viewer})
	requireCode(t, err, "FORBIDDEN")

	// the owner can
	collab, err := env.service.UpdateCollaborator(ctx, alice.ID, it.ID, invite.ID, service.CollaboratorUpdateInput{Role: &viewer})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleViewer, collab.Role)
	assert.Equal(t, domain.StatusPending, collab.Status, "role change leaves status untouched")

	_, err = env.service.UpdateCollaborator(ctx, alice.ID, it.ID, uuid.NewString(), service.CollaboratorUpdateInput{Role: &viewer})
	requireCode(t, err, "NOT_FOUND")
}

func TestRemoveCollaborator(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.addUser(t, "Alice", "alice@example.com")
	env.addUser(t, "Bob", "bob@example.com")
	carol := env.addUser(t, "Carol", "carol@example.com")

	it, err := env.service.CreateItinerary(ctx, alice.ID, "Lisbon", "")
	require.NoError(t, err)
	collaborators, err := env.service.InviteCollaborator(ctx, alice.ID, it.ID, "bob@example.com", "")
	require.NoError(t, err)
	invite := collaborators[1]

	// a stranger cannot remove someone else's entry
	err = env.service.RemoveCollaborator(ctx, carol.ID, it.ID, invite.ID)
	requireCode(t, err, "FORBIDDEN")

	// Bob may remove himself even while pending
	err = env.service.RemoveCollaborator(ctx, invite.UserID, it.ID, invite.ID)
	require.NoError(t, err)

	err = env.service.RemoveCollaborator(ctx, alice.ID, it.ID, invite.ID)
	requireCode(t, err, "NOT_FOUND")
}

func TestDeleteItemPermissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.addUser(t, "Alice", "alice@example.com")
	bob := env.addUser(t, "Bob", "bob@example.com")
	carol := env.addUser(t, "Carol", "carol@example.com")

	it, err := env.service.CreateItinerary(ctx, alice.ID, "Lisbon", "")
	require.NoError(t, err)
	for _, email := range []string{"bob@example.com", "carol@example.com"} {
		collaborators, err := env.service.InviteCollaborator(ctx, alice.ID, it.ID, email, "")
		require.NoError(t, err)
		accepted := domain.StatusAccepted
		last := collaborators[len(collaborators)-1]
		_, err = env.service.UpdateCollaborator(ctx, last.UserID, it.ID, last.ID, service.CollaboratorUpdateInput{Status: &accepted})
		require.NoError(t, err)
	}

	updated, err := env.service.AddItem(ctx, bob.ID, it.ID, service.ItemCreateInput{Title: "Tram 28"})
	require.NoError(t, err)
	itemID := updated.Items[0].ID

	// a member who neither owns the trip nor created the item is denied
	err = env.service.DeleteItem(ctx, carol.ID, it.ID, itemID)
	requireCode(t, err, "FORBIDDEN")

	// the creator may delete
	require.NoError(t, env.service.DeleteItem(ctx, bob.ID, it.ID, itemID))

	err = env.service.DeleteItem(ctx, bob.ID, it.ID, itemID)
	requireCode(t, err, "NOT_FOUND")
}

func TestAddExpenseSplitValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.addUser(t, "Alice", "alice@example.com")

	it, err := env.service.CreateItinerary(ctx, alice.ID, "Lisbon", "")
	require.NoError(t, err)

	_, err = env.service.AddExpense(ctx, alice.ID, it.ID, service.ExpenseCreateInput{
		Description: "dinner",
		Amount:      100,
		Splits:      []domain.Split{{UserID: alice.ID, Share: 60}},
	})
	requireCode(t, err, "VALIDATION_FAILED")

	expenses, err := env.service.AddExpense(ctx, alice.ID, it.ID, service.ExpenseCreateInput{
		Description: "dinner",
		Amount:      100,
		Splits:      []domain.Split{{UserID: alice.ID, Share: 100}},
	})
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, alice.ID, expenses[0].PaidBy)

	// each create returns the full, grown list
	expenses, err = env.service.AddExpense(ctx, alice.ID, it.ID, service.ExpenseCreateInput{
		Description: "tickets",
		Amount:      40,
	})
	require.NoError(t, err)
	assert.Len(t, expenses, 2)
}

func TestUpdateExpenseShallowMerge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.addUser(t, "Alice", "alice@example.com")
	bob := env.addUser(t, "Bob", "bob@example.com")

	it, err := env.service.CreateItinerary(ctx, alice.ID, "Lisbon", "")
	require.NoError(t, err)
	collaborators, err := env.service.InviteCollaborator(ctx, alice.ID, it.ID, "bob@example.com", "")
	require.NoError(t, err)
	accepted := domain.StatusAccepted
	invite := collaborators[1]
	_, err = env.service.UpdateCollaborator(ctx, bob.ID, it.ID, invite.ID, service.CollaboratorUpdateInput{Status: &accepted})
	require.NoError(t, err)

	expenses, err := env.service.AddExpense(ctx, bob.ID, it.ID, service.ExpenseCreateInput{
		Description: "dinner",
		Amount:      100,
		Splits:      []domain.Split{{UserID: alice.ID, Share: 50}, {UserID: bob.ID, Share: 50}},
	})
	require.NoError(t, err)
	expenseID := expenses[0].ID

	// amount-only update keeps description and the now-stale splits
	newAmount := 120.0
	expense, err := env.service.UpdateExpense(ctx, bob.ID, it.ID, expenseID, service.ExpenseUpdateInput{Amount: &newAmount})
	require.NoError(t, err)
	assert.Equal(t, 120.0, expense.Amount)
	assert.Equal(t, "dinner", expense.Description)
	require.Len(t, expense.Splits, 2)
	assert.Equal(t, 50.0, expense.Splits[0].Share)

	// provided splits must sum to the effective amount
	_, err = env.service.UpdateExpense(ctx, bob.ID, it.ID, expenseID, service.ExpenseUpdateInput{
		Splits: []domain.Split{{UserID: alice.ID, Share: 60}},
	})
	requireCode(t, err, "VALIDATION_FAILED")

	_, err = env.service.UpdateExpense(ctx, bob.ID, it.ID, expenseID, service.ExpenseUpdateInput{
		Splits: []domain.Split{{UserID: alice.ID, Share: 60}, {UserID: bob.ID, Share: 60}},
	})
	require.NoError(t, err)

	// only the payer or the owner may touch an expense
	carol := env.addUser(t, "Carol", "carol@example.com")
	collaborators, err = env.service.InviteCollaborator(ctx, alice.ID, it.ID, "carol@example.com", "")
	require.NoError(t, err)
	last := collaborators[len(collaborators)-1]
	_, err = env.service.UpdateCollaborator(ctx, carol.ID, it.ID, last.ID, service.CollaboratorUpdateInput{Status: &accepted})
	require.NoError(t, err)
	desc := "hijack"
	_, err = env.service.UpdateExpense(ctx, carol.ID, it.ID, expenseID, service.ExpenseUpdateInput{Description: &desc})
	requireCode(t, err, "FORBIDDEN")

	// the owner may, even without having paid
	require.NoError(t, env.service.DeleteExpense(ctx, alice.ID, it.ID, expenseID))
}

func TestToggleVoteOpenToAuthenticatedUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.addUser(t, "Alice", "alice@example.com")
	mallory := env.addUser(t, "Mallory", "mallory@example.com")

	it, err := env.service.CreateItinerary(ctx, alice.ID, "Lisbon", "")
	require.NoError(t, err)
	updated, err := env.service.AddItem(ctx, alice.ID, it.ID, service.ItemCreateInput{Title: "Tram 28"})
	require.NoError(t, err)
	itemID := updated.Items[0].ID

	// voting requires authentication and an existing item, nothing more
	item, err := env.service.ToggleVote(ctx, mallory.ID, it.ID, itemID)
	require.NoError(t, err)
	assert.Equal(t, []string{mallory.ID}, item.Votes)

	_, err = env.service.ToggleVote(ctx, mallory.ID, it.ID, uuid.NewString())
	requireCode(t, err, "NOT_FOUND")
}

func TestMutationRetriesOnVersionConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.addUser(t, "Alice", "alice@example.com")

	it, err := env.service.CreateItinerary(ctx, alice.ID, "Lisbon", "")
	require.NoError(t, err)

	env.itineraries.failSaves = 1
	updated, err := env.service.AddItem(ctx, alice.ID, it.ID, service.ItemCreateInput{Title: "Tram 28"})
	require.NoError(t, err, "a single lost race is replayed")
	assert.Len(t, updated.Items, 1)

	env.itineraries.failSaves = 10
	_, err = env.service.AddItem(ctx, alice.ID, it.ID, service.ItemCreateInput{Title: "Belem Tower"})
	requireCode(t, err, "CONFLICT")
}

func TestDeleteItineraryOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.addUser(t, "Alice", "alice@example.com")
	bob := env.addUser(t, "Bob", "bob@example.com")

	it, err := env.service.CreateItinerary(ctx, alice.ID, "Lisbon", "")
	require.NoError(t, err)
	collaborators, err := env.service.InviteCollaborator(ctx, alice.ID, it.ID, "bob@example.com", "")
	require.NoError(t, err)
	accepted := domain.StatusAccepted
	_, err = env.service.UpdateCollaborator(ctx, bob.ID, it.ID, collaborators[1].ID, service.CollaboratorUpdateInput{Status: &accepted})
	require.NoError(t, err)

	err = env.service.DeleteItinerary(ctx, bob.ID, it.ID)
	requireCode(t, err, "FORBIDDEN")

	require.NoError(t, env.service.DeleteItinerary(ctx, alice.ID, it.ID))

	err = env.service.DeleteItinerary(ctx, alice.ID, it.ID)
	requireCode(t, err, "NOT_FOUND")
}

func TestUpdateItineraryMetadata(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.addUser(t, "Alice", "alice@example.com")
	bob := env.addUser(t, "Bob", "bob@example.com")

	it, err := env.service.CreateItinerary(ctx, alice.ID, "Lisbon", "old")
	require.NoError(t, err)

	name := "Porto"
	_, err = env.service.UpdateItinerary(ctx, bob.ID, it.ID, service.ItineraryUpdateInput{Name: &name})
	requireCode(t, err, "FORBIDDEN")

	overview := &domain.MapOverview{
		Bounds: domain.MapBounds{
			NE: domain.Coordinates{Lat: 41.2, Lng: -8.5},
			SW: domain.Coordinates{Lat: 41.1, Lng: -8.7},
		},
		Polylines: []string{"_p~iF~ps|U"},
	}
	updated, err := env.service.UpdateItinerary(ctx, alice.ID, it.ID, service.ItineraryUpdateInput{Name: &name, MapOverview: overview})
	require.NoError(t, err)
	assert.Equal(t, "Porto", updated.Name)
	assert.Equal(t, "old", updated.Description, "omitted fields stay put")
	require.NotNil(t, updated.MapOverview)
	assert.Equal(t, 41.2, updated.MapOverview.Bounds.NE.Lat)

	// the change is durable
	fetched, err := env.service.GetItinerary(ctx, alice.ID, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "Porto", fetched.Name)
	require.NotNil(t, fetched.MapOverview)
}
