package handler

import (
	"encoding/base64"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/savemate/deals-api/internal/core/domain"
	"github.com/savemate/deals-api/internal/core/ports"
)

// BusinessDealHandler serves the owning-business deal operations. Every
// route is behind Auth + RequireRole(BUSINESS), so the identity in context
// always carries a business id.
type BusinessDealHandler struct {
	deals  ports.DealService
	images ports.BlobStore
}

func NewBusinessDealHandler(deals ports.DealService, images ports.BlobStore) *BusinessDealHandler {
	return &BusinessDealHandler{deals: deals, images: images}
}

// List handles GET /v1/business/deals: the caller's own deals in any status.
//
// @Summary      List own deals
// @Tags         business
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int     false  "Page (1-indexed)"
// @Param        limit  query     int     false  "Page size (1-50, default 20)"
// @Param        sort   query     string  false  "newest | biggestDiscount | lowestPrice"
// @Success      200    {object}  listDealsResponse
// @Failure      401    {object}  map[string]any
// @Failure      403    {object}  map[string]any
// @Router       /v1/business/deals [get]
func (h *BusinessDealHandler) List(c echo.Context) error {
	businessID, err := currentBusinessID(c)
	if err != nil {
		return err
	}
	filter, err := parseDealFilter(c)
	if err != nil {
		return err
	}

	page, err := h.deals.ListOwn(c.Request().Context(), businessID, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListDealsResponse(page))
}

// Create handles POST /v1/business/deals. New deals always start PENDING.
//
// @Summary      Create a deal
// @Tags         business
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createDealRequest  true  "Deal details"
// @Success      201   {object}  dealResponse
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /v1/business/deals [post]
func (h *BusinessDealHandler) Create(c echo.Context) error {
	businessID, err := currentBusinessID(c)
	if err != nil {
		return err
	}

	var req createDealRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid payload", nil)
	}
	if req.Status != nil {
		return domain.NewForbidden("Deal status cannot be set directly")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	voivodeship := domain.Voivodeship(req.Voivodeship)
	if !domain.ValidVoivodeship(voivodeship) {
		return domain.FieldValidationError("voivodeship", "unknown voivodeship")
	}

	imageURL, err := h.storeImage(c, req.Image)
	if err != nil {
		return err
	}

	deal, err := h.deals.Create(c.Request().Context(), businessID, ports.DealCreateInput{
		Title:         req.Title,
		Description:   req.Description,
		UsageTerms:    req.UsageTerms,
		ImageURL:      imageURL,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		CategoryID:    req.CategoryID,
		City:          req.City,
		Voivodeship:   voivodeship,
		Tags:          req.Tags,
		ValidFrom:     req.ValidFrom,
		ValidTo:       req.ValidTo,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toDealResponse(deal))
}

// Update handles PATCH /v1/business/deals/:id. Only content fields are
// writable; a status key in the payload is rejected outright.
//
// @Summary      Update own deal
// @Tags         business
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Deal id"
// @Param        body  body      updateDealRequest  true  "Fields to change"
// @Success      200   {object}  dealResponse
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /v1/business/deals/{id} [patch]
func (h *BusinessDealHandler) Update(c echo.Context) error {
	businessID, err := currentBusinessID(c)
	if err != nil {
		return err
	}

	var req updateDealRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid payload", nil)
	}
	if req.Status != nil {
		return domain.NewForbidden("Deal status cannot be set directly")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	update := ports.DealUpdate{
		Title:         req.Title,
		Description:   req.Description,
		UsageTerms:    req.UsageTerms,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		CategoryID:    req.CategoryID,
		City:          req.City,
		Tags:          req.Tags,
		ValidFrom:     req.ValidFrom,
		ValidTo:       req.ValidTo,
	}

	if req.Voivodeship != nil {
		voivodeship := domain.Voivodeship(*req.Voivodeship)
		if !domain.ValidVoivodeship(voivodeship) {
			return domain.FieldValidationError("voivodeship", "unknown voivodeship")
		}
		update.Voivodeship = &voivodeship
	}

	if req.Image != nil {
		imageURL, err := h.storeImage(c, req.Image)
		if err != nil {
			return err
		}
		update.ImageURL = &imageURL
	}

	deal, err := h.deals.UpdateOwn(c.Request().Context(), businessID, c.Param("id"), update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDealResponse(deal))
}

// Delete handles DELETE /v1/business/deals/:id.
//
// @Summary      Delete own deal
// @Tags         business
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Deal id"
// @Success      204  "No Content"
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /v1/business/deals/{id} [delete]
func (h *BusinessDealHandler) Delete(c echo.Context) error {
	businessID, err := currentBusinessID(c)
	if err != nil {
		return err
	}
	if err := h.deals.DeleteOwn(c.Request().Context(), businessID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BusinessDealHandler) storeImage(c echo.Context, img *imageUpload) (string, error) {
	if img == nil {
		return "", nil
	}
	data, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		return "", domain.FieldValidationError("image", "image data must be base64")
	}
	return h.images.Save(c.Request().Context(), data, img.MimeType)
}
