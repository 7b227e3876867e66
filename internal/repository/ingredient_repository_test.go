package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukavran/winelabel/internal/model"
)

var ingredientCols = []string{
	"id", "owner_id", "name", "category", "e_number", "allergens", "details",
	"created_at", "updated_at",
}

func ingredientRow(id, owner uint64, name, allergens string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(ingredientCols).
		AddRow(id, owner, name, "", "", allergens, "", now, now)
}

func TestIngredientRepo_Create_EncodesAllergens(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewIngredientRepo(db)

	mock.ExpectExec(`INSERT INTO ingredients`).
		WithArgs(uint64(1), "Sulphites", "preservative", "E220", `["sulphur dioxide"]`, "added at bottling").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery(`FROM ingredients WHERE id = \?`).
		WithArgs(uint64(9)).
		WillReturnRows(ingredientRow(9, 1, "Sulphites", `["sulphur dioxide"]`))

	in := &model.Ingredient{
		OwnerID:   1,
		Name:      "Sulphites",
		Category:  "preservative",
		ENumber:   "E220",
		Allergens: []string{"sulphur dioxide"},
		Details:   "added at bottling",
	}
	require.NoError(t, repo.Create(context.Background(), in))
	assert.Equal(t, uint64(9), in.ID)
	assert.Equal(t, []string{"sulphur dioxide"}, in.Allergens)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIngredientRepo_Scan_EmptyAndBrokenAllergens(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewIngredientRepo(db)

	mock.ExpectQuery(`FROM ingredients WHERE id = \? AND owner_id = \?`).
		WithArgs(uint64(1), uint64(1)).
		WillReturnRows(ingredientRow(1, 1, "Tartaric acid", "[]"))
	in, err := repo.GetByIDAndOwner(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Empty(t, in.Allergens)

	// Garbage in the column degrades to an empty list instead of an error.
	mock.ExpectQuery(`FROM ingredients WHERE id = \? AND owner_id = \?`).
		WithArgs(uint64(2), uint64(1)).
		WillReturnRows(ingredientRow(2, 1, "Yeast", "not-json"))
	in, err = repo.GetByIDAndOwner(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.Empty(t, in.Allergens)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIngredientRepo_GetByIDAndOwner_ForeignRowLooksMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewIngredientRepo(db)

	mock.ExpectQuery(`FROM ingredients WHERE id = \? AND owner_id = \?`).
		WithArgs(uint64(3), uint64(2)).
		WillReturnRows(sqlmock.NewRows(ingredientCols))

	_, err = repo.GetByIDAndOwner(context.Background(), 3, 2)
	assert.ErrorIs(t, err, ErrIngredientNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIngredientRepo_Update_ReplacesAllergenList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewIngredientRepo(db)

	allergens := []string{"milk", "egg"}
	mock.ExpectExec(`UPDATE ingredients SET allergens = \?, updated_at = CURRENT_TIMESTAMP WHERE id = \? AND owner_id = \?`).
		WithArgs(`["milk","egg"]`, uint64(4), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM ingredients WHERE id = \? AND owner_id = \?`).
		WithArgs(uint64(4), uint64(1)).
		WillReturnRows(ingredientRow(4, 1, "Casein", `["milk","egg"]`))

	in, err := repo.Update(context.Background(), 4, 1, &IngredientPatch{Allergens: &allergens})
	require.NoError(t, err)
	assert.Equal(t, allergens, in.Allergens)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIngredientRepo_Delete_Idempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewIngredientRepo(db)

	mock.ExpectQuery(`FROM ingredients WHERE id = \? AND owner_id = \?`).
		WithArgs(uint64(5), uint64(1)).
		WillReturnRows(sqlmock.NewRows(ingredientCols))

	_, err = repo.Delete(context.Background(), 5, 1)
	assert.ErrorIs(t, err, ErrIngredientNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
