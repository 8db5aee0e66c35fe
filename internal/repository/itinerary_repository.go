package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/trip-planner/internal/domain"
)

// ErrVersionConflict indicates a conditional save lost the race against a
// concurrent mutation; callers refetch and replay.
var ErrVersionConflict = errors.New("itinerary version conflict")

// ItineraryRepository encapsulates itinerary persistence. The aggregate is
// stored as a single JSONB document guarded by a monotonic version column, so
// a save never silently overwrites a concurrent change.
type ItineraryRepository interface {
	Create(ctx context.Context, it *domain.Itinerary) error
	GetByID(ctx context.Context, id string) (*domain.Itinerary, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Itinerary, error)
	Save(ctx context.Context, it *domain.Itinerary) error
	Delete(ctx context.Context, id string) error
}

type itineraryRepository struct {
	pool *pgxpool.Pool
}

// NewItineraryRepository instantiates repository.
func NewItineraryRepository(pool *pgxpool.Pool) ItineraryRepository {
	return &itineraryRepository{pool: pool}
}

// itineraryDoc is the embedded-document portion of the row; identity, version
// and timestamps live in their own columns.
type itineraryDoc struct {
	Name          string                `json:"name"`
	Description   string                `json:"description,omitempty"`
	Collaborators []domain.Collaborator `json:"collaborators"`
	Items         []domain.Item         `json:"items"`
	Expenses      []domain.Expense      `json:"expenses"`
	MapOverview   *domain.MapOverview   `json:"map_overview,omitempty"`
}

func encodeDoc(it *domain.Itinerary) ([]byte, error) {
	doc := itineraryDoc{
		Name:          it.Name,
		Description:   it.Description,
		Collaborators: it.Collaborators,
		Items:         it.Items,
		Expenses:      it.Expenses,
		MapOverview:   it.MapOverview,
	}
	if doc.Collaborators == nil {
		doc.Collaborators = []domain.Collaborator{}
	}
	if doc.Items == nil {
		doc.Items = []domain.Item{}
	}
	if doc.Expenses == nil {
		doc.Expenses = []domain.Expense{}
	}
	return json.Marshal(doc)
}

func decodeDoc(it *domain.Itinerary, raw []byte) error {
	var doc itineraryDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode itinerary doc: %w", err)
	}
	it.Name = doc.Name
	it.Description = doc.Description
	it.Collaborators = doc.Collaborators
	it.Items = doc.Items
	it.Expenses = doc.Expenses
	it.MapOverview = doc.MapOverview
	return nil
}

func (r *itineraryRepository) Create(ctx context.Context, it *domain.Itinerary) error {
	raw, err := encodeDoc(it)
	if err != nil {
		return err
	}

	const query = `
        INSERT INTO itineraries (id, owner_id, version, doc)
        VALUES ($1, $2, 1, $3)
        RETURNING version, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, it.ID, it.OwnerID, raw).
		Scan(&it.Version, &it.CreatedAt, &it.UpdatedAt)
}

func (r *itineraryRepository) GetByID(ctx context.Context, id string) (*domain.Itinerary, error) {
	const query = `
        SELECT id, owner_id, version, doc, created_at, updated_at
        FROM itineraries WHERE id=$1`

	var it domain.Itinerary
	var raw []byte
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&it.ID,
		&it.OwnerID,
		&it.Version,
		&raw,
		&it.CreatedAt,
		&it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := decodeDoc(&it, raw); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *itineraryRepository) ListForUser(ctx context.Context, userID string) ([]domain.Itinerary, error) {
	const query = `
        SELECT id, owner_id, version, doc, created_at, updated_at
        FROM itineraries
        WHERE owner_id = $1
           OR doc->'collaborators' @> jsonb_build_array(jsonb_build_object('user_id', $1::text, 'status', 'accepted'))
        ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Itinerary
	for rows.Next() {
		var it domain.Itinerary
		var raw []byte
		if err := rows.Scan(
			&it.ID,
			&it.OwnerID,
			&it.Version,
			&raw,
			&it.CreatedAt,
			&it.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := decodeDoc(&it, raw); err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	return result, rows.Err()
}

// Save performs a compare-and-swap on the version column. ErrVersionConflict
// is returned when the row changed since it was read (or no longer exists).
func (r *itineraryRepository) Save(ctx context.Context, it *domain.Itinerary) error {
	raw, err := encodeDoc(it)
	if err != nil {
		return err
	}

	const query = `
        UPDATE itineraries SET doc=$2, version=version+1, updated_at=NOW()
        WHERE id=$1 AND version=$3
        RETURNING version, updated_at`
	if err := r.pool.QueryRow(ctx, query, it.ID, raw, it.Version).
		Scan(&it.Version, &it.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrVersionConflict
		}
		return err
	}
	return nil
}

// Delete removes the itinerary row; the embedded collaborators, items and
// expenses go with it.
func (r *itineraryRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM itineraries WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
