package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lukavran/winelabel/internal/model"
	"github.com/lukavran/winelabel/internal/repository"
)

// IngredientHandler serves the owner-scoped ingredient API. The contract is
// identical to the product API: principal first, then single-statement
// queries with the combined id+owner predicate.
type IngredientHandler struct {
	Ingredients *repository.IngredientRepo
}

// NewIngredientHandler constructs an IngredientHandler and panics on a nil
// repository.
func NewIngredientHandler(ingredients *repository.IngredientRepo) *IngredientHandler {
	if ingredients == nil {
		panic("nil repository passed to NewIngredientHandler")
	}
	return &IngredientHandler{Ingredients: ingredients}
}

type createIngredientReq struct {
	Name      string   `json:"name" validate:"required"`
	Category  string   `json:"category"`
	ENumber   string   `json:"eNumber"`
	Allergens []string `json:"allergens"`
	Details   string   `json:"details"`
}

type patchIngredientReq struct {
	Name      *string   `json:"name" validate:"omitempty,min=1"`
	Category  *string   `json:"category"`
	ENumber   *string   `json:"eNumber"`
	Allergens *[]string `json:"allergens"`
	Details   *string   `json:"details"`
}

// List handles GET /api/ingredients.
func (h *IngredientHandler) List(c echo.Context) error {
	ownerID, err := principalID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Ingredients.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch ingredients"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/ingredients/:id.
func (h *IngredientHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ownerID, err := principalID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	in, err := h.Ingredients.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		if err == repository.ErrIngredientNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ingredient not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch ingredient"})
	}
	return c.JSON(http.StatusOK, in)
}

// Create handles POST /api/ingredients; owner id comes from the principal.
func (h *IngredientHandler) Create(c echo.Context) error {
	ownerID, err := principalID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body createIngredientReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if err := validate.Struct(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}

	in := &model.Ingredient{
		OwnerID:   ownerID,
		Name:      body.Name,
		Category:  body.Category,
		ENumber:   body.ENumber,
		Allergens: body.Allergens,
		Details:   body.Details,
	}
	if err := h.Ingredients.Create(c.Request().Context(), in); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create ingredient"})
	}
	return c.JSON(http.StatusCreated, in)
}

// Update handles PUT /api/ingredients/:id with a partial body.
func (h *IngredientHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ownerID, err := principalID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body patchIngredientReq
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

	in, err := h.Ingredients.Update(c.Request().Context(), id, ownerID, &repository.IngredientPatch{
		Name:      body.Name,
		Category:  body.Category,
		ENumber:   body.ENumber,
		Allergens: body.Allergens,
		Details:   body.Details,
	})
	if err != nil {
		if err == repository.ErrIngredientNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ingredient not found or unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update ingredient"})
	}
	return c.JSON(http.StatusOK, in)
}

// Delete handles DELETE /api/ingredients/:id, returning the deleted row.
func (h *IngredientHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ownerID, err := principalID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	in, err := h.Ingredients.Delete(c.Request().Context(), id, ownerID)
	if err != nil {
		if err == repository.ErrIngredientNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ingredient not found or unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete ingredient"})
	}
	return c.JSON(http.StatusOK, in)
}
