package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/savemate/deals-api/internal/core/domain"
	"github.com/savemate/deals-api/internal/core/ports"
)

// CategoryHandler exposes the public category list and the administrator
// CRUD routes.
type CategoryHandler struct {
	categories ports.CategoryService
}

func NewCategoryHandler(categories ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

type createCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=60"`
	Slug string `json:"slug" validate:"required,min=2,max=60"`
}

type updateCategoryRequest struct {
	Name *string `json:"name" validate:"omitempty,min=2,max=60"`
	Slug *string `json:"slug" validate:"omitempty,min=2,max=60"`
}

type categoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// List handles GET /v1/categories.
//
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200  {array}  categoryResponse
// @Router       /v1/categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.categories.List(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]categoryResponse, len(categories))
	for i, cat := range categories {
		out[i] = toCategoryResponse(cat)
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /v1/admin/categories.
//
// @Summary      Create a category
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCategoryRequest  true  "Category details"
// @Success      201   {object}  categoryResponse
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /v1/admin/categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req createCategoryRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid payload", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.categories.Create(c.Request().Context(), identity.UserID, req.Name, req.Slug)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCategoryResponse(created))
}

// Update handles PATCH /v1/admin/categories/:id.
//
// @Summary      Update a category
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Category id"
// @Param        body  body      updateCategoryRequest  true  "Fields to change"
// @Success      200   {object}  categoryResponse
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /v1/admin/categories/{id} [patch]
func (h *CategoryHandler) Update(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req updateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid payload", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := h.categories.Update(c.Request().Context(), identity.UserID, c.Param("id"), req.Name, req.Slug)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCategoryResponse(updated))
}

// Delete handles DELETE /v1/admin/categories/:id. Categories still
// referenced by deals cannot be removed.
//
// @Summary      Delete a category
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Category id"
// @Success      204  "No Content"
// @Failure      404  {object}  map[string]any
// @Failure      409  {object}  map[string]any
// @Router       /v1/admin/categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	if err := h.categories.Delete(c.Request().Context(), identity.UserID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func toCategoryResponse(cat *domain.Category) categoryResponse {
	return categoryResponse{
		ID:        cat.ID,
		Name:      cat.Name,
		Slug:      cat.Slug,
		CreatedAt: cat.CreatedAt,
		UpdatedAt: cat.UpdatedAt,
	}
}
