package model

import "time"

// Product represents a labeled beverage product owned by a user. The field
// set mirrors the `products` table and covers everything an EU e-label
// displays: identity, nutrition per portion, dietary flags, operator details
// and trade identifiers.
//
// OwnerID is stamped from the authenticated principal when the row is
// created and never changes afterwards. It is the sole authorization
// predicate for reads and writes on the row.
type Product struct {
	ID              uint64    `json:"id"`              // products.id
	OwnerID         uint64    `json:"ownerId"`         // products.owner_id
	Name            string    `json:"name"`            // products.name (required)
	Brand           string    `json:"brand"`           // products.brand
	NetVolume       string    `json:"netVolume"`       // products.net_volume
	Vintage         string    `json:"vintage"`         // products.vintage
	WineType        string    `json:"wineType"`        // products.wine_type
	SugarContent    string    `json:"sugarContent"`    // products.sugar_content
	Appellation     string    `json:"appellation"`     // products.appellation
	AlcoholContent  string    `json:"alcoholContent"`  // products.alcohol_content
	PackagingGases  string    `json:"packagingGases"`  // products.packaging_gases
	PortionSize     string    `json:"portionSize"`     // products.portion_size
	Kcal            string    `json:"kcal"`            // products.kcal
	Kj              string    `json:"kj"`              // products.kj
	Fat             string    `json:"fat"`             // products.fat
	Carbohydrates   string    `json:"carbohydrates"`   // products.carbohydrates
	Organic         bool      `json:"organic"`         // products.organic
	Vegetarian      bool      `json:"vegetarian"`      // products.vegetarian
	Vegan           bool      `json:"vegan"`           // products.vegan
	OperatorType    string    `json:"operatorType"`    // products.operator_type
	OperatorName    string    `json:"operatorName"`    // products.operator_name
	OperatorAddress string    `json:"operatorAddress"` // products.operator_address
	OperatorInfo    string    `json:"operatorInfo"`    // products.operator_info
	CountryOfOrigin string    `json:"countryOfOrigin"` // products.country_of_origin
	Sku             string    `json:"sku"`             // products.sku
	Ean             string    `json:"ean"`             // products.ean
	ExternalLink    string    `json:"externalLink"`    // products.external_link
	RedirectLink    string    `json:"redirectLink"`    // products.redirect_link
	ImageURL        string    `json:"imageUrl"`        // products.image_url
	CreatedAt       time.Time `json:"createdAt"`       // products.created_at
	UpdatedAt       time.Time `json:"updatedAt"`       // products.updated_at
}
