package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lukavran/winelabel/internal/model"
	"github.com/lukavran/winelabel/internal/queue"
	"github.com/lukavran/winelabel/internal/repository"
	"github.com/lukavran/winelabel/internal/service"
)

// ProductHandler serves the owner-scoped product API. Every operation
// resolves the calling principal first and then queries with the combined
// id+owner predicate, so foreign rows surface as plain "not found".
type ProductHandler struct {
	Products *repository.ProductRepo
	Events   *service.LabelPublisher
}

// NewProductHandler constructs a ProductHandler and panics on a nil
// repository. Events may be nil when no broker is configured.
func NewProductHandler(products *repository.ProductRepo, events *service.LabelPublisher) *ProductHandler {
	if products == nil {
		panic("nil repository passed to NewProductHandler")
	}
	return &ProductHandler{Products: products, Events: events}
}

// createProductReq mirrors the product schema for POST bodies. Only the name
// is required; everything else defaults to empty/false. An owner id supplied
// by the client is ignored by design.
type createProductReq struct {
	Name            string `json:"name" validate:"required"`
	Brand           string `json:"brand"`
	NetVolume       string `json:"netVolume"`
	Vintage         string `json:"vintage"`
	WineType        string `json:"wineType"`
	SugarContent    string `json:"sugarContent"`
	Appellation     string `json:"appellation"`
	AlcoholContent  string `json:"alcoholContent"`
	PackagingGases  string `json:"packagingGases"`
	PortionSize     string `json:"portionSize"`
	Kcal            string `json:"kcal"`
	Kj              string `json:"kj"`
	Fat             string `json:"fat"`
	Carbohydrates   string `json:"carbohydrates"`
	Organic         bool   `json:"organic"`
	Vegetarian      bool   `json:"vegetarian"`
	Vegan           bool   `json:"vegan"`
	OperatorType    string `json:"operatorType"`
	OperatorName    string `json:"operatorName"`
	OperatorAddress string `json:"operatorAddress"`
	OperatorInfo    string `json:"operatorInfo"`
	CountryOfOrigin string `json:"countryOfOrigin"`
	Sku             string `json:"sku"`
	Ean             string `json:"ean"`
	ExternalLink    string `json:"externalLink"`
	RedirectLink    string `json:"redirectLink"`
	ImageURL        string `json:"imageUrl"`
}

// patchProductReq is the all-optional variant used by PUT. Nil fields stay
// untouched; a provided name must not validate to empty.
type patchProductReq struct {
	Name            *string `json:"name" validate:"omitempty,min=1"`
	Brand           *string `json:"brand"`
	NetVolume       *string `json:"netVolume"`
	Vintage         *string `json:"vintage"`
	WineType        *string `json:"wineType"`
	SugarContent    *string `json:"sugarContent"`
	Appellation     *string `json:"appellation"`
	AlcoholContent  *string `json:"alcoholContent"`
	PackagingGases  *string `json:"packagingGases"`
	PortionSize     *string `json:"portionSize"`
	Kcal            *string `json:"kcal"`
	Kj              *string `json:"kj"`
	Fat             *string `json:"fat"`
	Carbohydrates   *string `json:"carbohydrates"`
	Organic         *bool   `json:"organic"`
	Vegetarian      *bool   `json:"vegetarian"`
	Vegan           *bool   `json:"vegan"`
	OperatorType    *string `json:"operatorType"`
	OperatorName    *string `json:"operatorName"`
	OperatorAddress *string `json:"operatorAddress"`
	OperatorInfo    *string `json:"operatorInfo"`
	CountryOfOrigin *string `json:"countryOfOrigin"`
	Sku             *string `json:"sku"`
	Ean             *string `json:"ean"`
	ExternalLink    *string `json:"externalLink"`
	RedirectLink    *string `json:"redirectLink"`
	ImageURL        *string `json:"imageUrl"`
}

func (r *patchProductReq) toPatch() *repository.ProductPatch {
	return &repository.ProductPatch{
		Name:            r.Name,
		Brand:           r.Brand,
		NetVolume:       r.NetVolume,
		Vintage:         r.Vintage,
		WineType:        r.WineType,
		SugarContent:    r.SugarContent,
		Appellation:     r.Appellation,
		AlcoholContent:  r.AlcoholContent,
		PackagingGases:  r.PackagingGases,
		PortionSize:     r.PortionSize,
		Kcal:            r.Kcal,
		Kj:              r.Kj,
		Fat:             r.Fat,
		Carbohydrates:   r.Carbohydrates,
		Organic:         r.Organic,
		Vegetarian:      r.Vegetarian,
		Vegan:           r.Vegan,
		OperatorType:    r.OperatorType,
		OperatorName:    r.OperatorName,
		OperatorAddress: r.OperatorAddress,
		OperatorInfo:    r.OperatorInfo,
		CountryOfOrigin: r.CountryOfOrigin,
		Sku:             r.Sku,
		Ean:             r.Ean,
		ExternalLink:    r.ExternalLink,
		RedirectLink:    r.RedirectLink,
		ImageURL:        r.ImageURL,
	}
}

// publishEvent emits a label lifecycle event. Best effort: the publisher
// logs failures and the request proceeds regardless.
func (h *ProductHandler) publishEvent(c echo.Context, action string, p *model.Product) {
	if h.Events == nil {
		return
	}
	_ = h.Events.Publish(c.Request().Context(), queue.LabelEvent{
		Action:     action,
		ProductID:  p.ID,
		OwnerID:    p.OwnerID,
		Name:       p.Name,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// List handles GET /api/products and returns all products owned by the
// caller, ordered by id.
func (h *ProductHandler) List(c echo.Context) error {
	ownerID, err := principalID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Products.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch products"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/products/:id. A product owned by another user is
// reported exactly like a missing one.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ownerID, err := principalID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	p, err := h.Products.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch product"})
	}
	return c.JSON(http.StatusOK, p)
}

// Create handles POST /api/products. The owner id is stamped from the
// resolved principal, never taken from the body.
func (h *ProductHandler) Create(c echo.Context) error {
	ownerID, err := principalID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body createProductReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if err := validate.Struct(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}

	p := &model.Product{
		OwnerID:         ownerID,
		Name:            body.Name,
		Brand:           body.Brand,
		NetVolume:       body.NetVolume,
		Vintage:         body.Vintage,
		WineType:        body.WineType,
		SugarContent:    body.SugarContent,
		Appellation:     body.Appellation,
		AlcoholContent:  body.AlcoholContent,
		PackagingGases:  body.PackagingGases,
		PortionSize:     body.PortionSize,
		Kcal:            body.Kcal,
		Kj:              body.Kj,
		Fat:             body.Fat,
		Carbohydrates:   body.Carbohydrates,
		Organic:         body.Organic,
		Vegetarian:      body.Vegetarian,
		Vegan:           body.Vegan,
		OperatorType:    body.OperatorType,
		OperatorName:    body.OperatorName,
		OperatorAddress: body.OperatorAddress,
		OperatorInfo:    body.OperatorInfo,
		CountryOfOrigin: body.CountryOfOrigin,
		Sku:             body.Sku,
		Ean:             body.Ean,
		ExternalLink:    body.ExternalLink,
		RedirectLink:    body.RedirectLink,
		ImageURL:        body.ImageURL,
	}
	if err := h.Products.Create(c.Request().Context(), p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create product"})
	}
	h.publishEvent(c, queue.ActionCreated, p)
	return c.JSON(http.StatusCreated, p)
}

// Update handles PUT /api/products/:id with a partial body. The single
// UPDATE statement carries the id+owner predicate; zero affected rows means
// not found or not owned, indistinguishably.
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ownerID, err := principalID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body patchProductReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name != nil {
		trimmed := strings.TrimSpace(*body.Name)
		body.Name = &trimmed
	}
	if err := validate.Struct(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}

	p, err := h.Products.Update(c.Request().Context(), id, ownerID, body.toPatch())
	if err != nil {
		if err == repository.ErrProductNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found or unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update product"})
	}
	h.publishEvent(c, queue.ActionUpdated, p)
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /api/products/:id and returns the deleted row so
// clients can remove it optimistically. Deleting an already-deleted id is a
// plain 404.
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ownerID, err := principalID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	p, err := h.Products.Delete(c.Request().Context(), id, ownerID)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found or unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete product"})
	}
	h.publishEvent(c, queue.ActionDeleted, p)
	return c.JSON(http.StatusOK, p)
}
