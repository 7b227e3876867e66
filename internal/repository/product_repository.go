package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lukavran/winelabel/internal/model"
)

// productColumns is the column list shared by every SELECT on the products
// table. Keep it in sync with scanProduct.
const productColumns = `id, owner_id, name, brand, net_volume, vintage, wine_type,
	sugar_content, appellation, alcohol_content, packaging_gases, portion_size,
	kcal, kj, fat, carbohydrates, organic, vegetarian, vegan,
	operator_type, operator_name, operator_address, operator_info,
	country_of_origin, sku, ean, external_link, redirect_link, image_url,
	created_at, updated_at`

// ProductRepo encapsulates all database queries related to products. It
// depends on a sql.DB connection which is injected at startup (and replaced
// by a mock in tests).
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo constructs a ProductRepo with the provided DB handle.
func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// scanProduct reads one row in productColumns order.
func scanProduct(row interface{ Scan(...any) error }) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Brand, &p.NetVolume, &p.Vintage, &p.WineType,
		&p.SugarContent, &p.Appellation, &p.AlcoholContent, &p.PackagingGases, &p.PortionSize,
		&p.Kcal, &p.Kj, &p.Fat, &p.Carbohydrates, &p.Organic, &p.Vegetarian, &p.Vegan,
		&p.OperatorType, &p.OperatorName, &p.OperatorAddress, &p.OperatorInfo,
		&p.CountryOfOrigin, &p.Sku, &p.Ean, &p.ExternalLink, &p.RedirectLink, &p.ImageURL,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new product. OwnerID must already be set by the caller
// (handlers stamp it from the resolved principal; it is never taken from the
// request body). On success the struct is re-read so the caller receives the
// generated id and the DB-assigned timestamps.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	const qInsert = `INSERT INTO products
		(owner_id, name, brand, net_volume, vintage, wine_type, sugar_content,
		 appellation, alcohol_content, packaging_gases, portion_size, kcal, kj,
		 fat, carbohydrates, organic, vegetarian, vegan, operator_type,
		 operator_name, operator_address, operator_info, country_of_origin,
		 sku, ean, external_link, redirect_link, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		p.OwnerID, p.Name, p.Brand, p.NetVolume, p.Vintage, p.WineType, p.SugarContent,
		p.Appellation, p.AlcoholContent, p.PackagingGases, p.PortionSize, p.Kcal, p.Kj,
		p.Fat, p.Carbohydrates, p.Organic, p.Vegetarian, p.Vegan, p.OperatorType,
		p.OperatorName, p.OperatorAddress, p.OperatorInfo, p.CountryOfOrigin,
		p.Sku, p.Ean, p.ExternalLink, p.RedirectLink, p.ImageURL,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	// Follow-up SELECT to populate DB defaults (created_at, updated_at).
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

// GetByID fetches a product by its id regardless of owner. It exists for the
// public label view only; authenticated paths must use GetByIDAndOwner.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	q := "SELECT " + productColumns + " FROM products WHERE id = ?"
	p, err := scanProduct(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// GetByIDAndOwner fetches a product by id only if it belongs to the given
// owner. A missing row and a row owned by someone else both yield
// ErrProductNotFound.
func (r *ProductRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Product, error) {
	q := "SELECT " + productColumns + " FROM products WHERE id = ? AND owner_id = ?"
	p, err := scanProduct(r.db.QueryRowContext(ctx, q, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// ListByOwner returns all products for one owner ordered by id.
func (r *ProductRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Product, error) {
	q := "SELECT " + productColumns + " FROM products WHERE owner_id = ? ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ProductPatch carries the optional fields of a partial update. Nil means
// "leave unchanged". OwnerID deliberately has no counterpart here: ownership
// is never reassigned.
type ProductPatch struct {
	Name            *string
	Brand           *string
	NetVolume       *string
	Vintage         *string
	WineType        *string
	SugarContent    *string
	Appellation     *string
	AlcoholContent  *string
	PackagingGases  *string
	PortionSize     *string
	Kcal            *string
	Kj              *string
	Fat             *string
	Carbohydrates   *string
	Organic         *bool
	Vegetarian      *bool
	Vegan           *bool
	OperatorType    *string
	OperatorName    *string
	OperatorAddress *string
	OperatorInfo    *string
	CountryOfOrigin *string
	Sku             *string
	Ean             *string
	ExternalLink    *string
	RedirectLink    *string
	ImageURL        *string
}

// assignments flattens the patch into SET clauses and their arguments,
// preserving column order.
func (p *ProductPatch) assignments() (sets []string, args []any) {
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Brand != nil {
		add("brand", *p.Brand)
	}
	if p.NetVolume != nil {
		add("net_volume", *p.NetVolume)
	}
	if p.Vintage != nil {
		add("vintage", *p.Vintage)
	}
	if p.WineType != nil {
		add("wine_type", *p.WineType)
	}
	if p.SugarContent != nil {
		add("sugar_content", *p.SugarContent)
	}
	if p.Appellation != nil {
		add("appellation", *p.Appellation)
	}
	if p.AlcoholContent != nil {
		add("alcohol_content", *p.AlcoholContent)
	}
	if p.PackagingGases != nil {
		add("packaging_gases", *p.PackagingGases)
	}
	if p.PortionSize != nil {
		add("portion_size", *p.PortionSize)
	}
	if p.Kcal != nil {
		add("kcal", *p.Kcal)
	}
	if p.Kj != nil {
		add("kj", *p.Kj)
	}
	if p.Fat != nil {
		add("fat", *p.Fat)
	}
	if p.Carbohydrates != nil {
		add("carbohydrates", *p.Carbohydrates)
	}
	if p.Organic != nil {
		add("organic", *p.Organic)
	}
	if p.Vegetarian != nil {
		add("vegetarian", *p.Vegetarian)
	}
	if p.Vegan != nil {
		add("vegan", *p.Vegan)
	}
	if p.OperatorType != nil {
		add("operator_type", *p.OperatorType)
	}
	if p.OperatorName != nil {
		add("operator_name", *p.OperatorName)
	}
	if p.OperatorAddress != nil {
		add("operator_address", *p.OperatorAddress)
	}
	if p.OperatorInfo != nil {
		add("operator_info", *p.OperatorInfo)
	}
	if p.CountryOfOrigin != nil {
		add("country_of_origin", *p.CountryOfOrigin)
	}
	if p.Sku != nil {
		add("sku", *p.Sku)
	}
	if p.Ean != nil {
		add("ean", *p.Ean)
	}
	if p.ExternalLink != nil {
		add("external_link", *p.ExternalLink)
	}
	if p.RedirectLink != nil {
		add("redirect_link", *p.RedirectLink)
	}
	if p.ImageURL != nil {
		add("image_url", *p.ImageURL)
	}
	return sets, args
}

// Update applies a partial update to the row matching both id and owner in a
// single UPDATE statement. Zero affected rows (missing or foreign-owned) is
// reported as ErrProductNotFound. The updated row is returned. An empty
// patch degrades to an ownership-filtered read.
func (r *ProductRepo) Update(ctx context.Context, id, ownerID uint64, patch *ProductPatch) (*model.Product, error) {
	sets, args := patch.assignments()
	if len(sets) == 0 {
		return r.GetByIDAndOwner(ctx, id, ownerID)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	q := "UPDATE products SET " + strings.Join(sets, ", ") + " WHERE id = ? AND owner_id = ?"
	args = append(args, id, ownerID)

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// MySQL reports zero affected rows for a no-op update as well, so
		// distinguish "row not visible" from "nothing changed".
		if _, err := r.GetByIDAndOwner(ctx, id, ownerID); err != nil {
			return nil, err
		}
	}
	return r.GetByIDAndOwner(ctx, id, ownerID)
}

// Delete removes the row matching both id and owner and returns the deleted
// row's data so clients can update optimistically. Zero affected rows yields
// ErrProductNotFound, which also makes repeated deletes idempotent.
func (r *ProductRepo) Delete(ctx context.Context, id, ownerID uint64) (*model.Product, error) {
	p, err := r.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	const q = "DELETE FROM products WHERE id = ? AND owner_id = ?"
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrProductNotFound
	}
	return p, nil
}
