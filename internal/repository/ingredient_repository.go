package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/lukavran/winelabel/internal/model"
)

const ingredientColumns = `id, owner_id, name, category, e_number, allergens, details,
	created_at, updated_at`

// IngredientRepo encapsulates all database queries related to ingredients.
type IngredientRepo struct {
	db *sql.DB
}

// NewIngredientRepo constructs an IngredientRepo with the provided DB handle.
func NewIngredientRepo(db *sql.DB) *IngredientRepo {
	return &IngredientRepo{db: db}
}

// encodeAllergens serializes the allergen list for the TEXT column. A nil or
// empty list is stored as "[]" so scans never deal with NULL.
func encodeAllergens(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// scanIngredient reads one row in ingredientColumns order and decodes the
// allergen list.
func scanIngredient(row interface{ Scan(...any) error }) (*model.Ingredient, error) {
	var (
		in  model.Ingredient
		raw string
	)
	err := row.Scan(&in.ID, &in.OwnerID, &in.Name, &in.Category, &in.ENumber, &raw,
		&in.Details, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return nil, err
	}
	in.Allergens = []string{}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &in.Allergens); err != nil {
			in.Allergens = []string{}
		}
	}
	return &in, nil
}

// Create inserts a new ingredient. OwnerID must already be stamped by the
// caller. The struct is re-read on success for generated id and timestamps.
func (r *IngredientRepo) Create(ctx context.Context, in *model.Ingredient) error {
	const qInsert = `INSERT INTO ingredients
		(owner_id, name, category, e_number, allergens, details)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		in.OwnerID, in.Name, in.Category, in.ENumber, encodeAllergens(in.Allergens), in.Details)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	created, err := r.getByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*in = *created
	return nil
}

// getByID is unexported: ingredients have no public unauthenticated view, so
// every caller outside this package goes through GetByIDAndOwner.
func (r *IngredientRepo) getByID(ctx context.Context, id uint64) (*model.Ingredient, error) {
	q := "SELECT " + ingredientColumns + " FROM ingredients WHERE id = ?"
	in, err := scanIngredient(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrIngredientNotFound
	}
	return in, err
}

// GetByIDAndOwner fetches an ingredient by id only if it belongs to the
// given owner; missing and foreign-owned rows are both ErrIngredientNotFound.
func (r *IngredientRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Ingredient, error) {
	q := "SELECT " + ingredientColumns + " FROM ingredients WHERE id = ? AND owner_id = ?"
	in, err := scanIngredient(r.db.QueryRowContext(ctx, q, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrIngredientNotFound
	}
	return in, err
}

// ListByOwner returns all ingredients for one owner ordered by id.
func (r *IngredientRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Ingredient, error) {
	q := "SELECT " + ingredientColumns + " FROM ingredients WHERE owner_id = ? ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Ingredient{}
	for rows.Next() {
		in, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// IngredientPatch carries the optional fields of a partial update. Nil means
// "leave unchanged".
type IngredientPatch struct {
	Name      *string
	Category  *string
	ENumber   *string
	Allergens *[]string
	Details   *string
}

func (p *IngredientPatch) assignments() (sets []string, args []any) {
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Category != nil {
		add("category", *p.Category)
	}
	if p.ENumber != nil {
		add("e_number", *p.ENumber)
	}
	if p.Allergens != nil {
		add("allergens", encodeAllergens(*p.Allergens))
	}
	if p.Details != nil {
		add("details", *p.Details)
	}
	return sets, args
}

// Update applies a partial update to the row matching both id and owner in a
// single UPDATE statement and returns the updated row. Zero affected rows is
// ErrIngredientNotFound unless the row is visible and the patch was a no-op.
func (r *IngredientRepo) Update(ctx context.Context, id, ownerID uint64, patch *IngredientPatch) (*model.Ingredient, error) {
	sets, args := patch.assignments()
	if len(sets) == 0 {
		return r.GetByIDAndOwner(ctx, id, ownerID)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	q := "UPDATE ingredients SET " + strings.Join(sets, ", ") + " WHERE id = ? AND owner_id = ?"
	args = append(args, id, ownerID)

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByIDAndOwner(ctx, id, ownerID); err != nil {
			return nil, err
		}
	}
	return r.GetByIDAndOwner(ctx, id, ownerID)
}

// Delete removes the row matching both id and owner and returns its data.
// Repeated deletes yield ErrIngredientNotFound.
func (r *IngredientRepo) Delete(ctx context.Context, id, ownerID uint64) (*model.Ingredient, error) {
	in, err := r.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	const q = "DELETE FROM ingredients WHERE id = ? AND owner_id = ?"
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrIngredientNotFound
	}
	return in, nil
}
