package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/savemate/deals-api/internal/core/ports"
)

// DealHandler serves the public catalog: APPROVED deals only.
type DealHandler struct {
	deals ports.DealService
}

func NewDealHandler(deals ports.DealService) *DealHandler {
	return &DealHandler{deals: deals}
}

// List handles GET /v1/deals.
//
// @Summary      List approved deals
// @Tags         deals
// @Produce      json
// @Param        page         query     int     false  "Page (1-indexed)"
// @Param        limit        query     int     false  "Page size (1-50, default 20)"
// @Param        category     query     string  false  "Category id"
// @Param        city         query     string  false  "City (case-insensitive substring)"
// @Param        voivodeship  query     string  false  "Voivodeship"
// @Param        minPrice     query     number  false  "Minimum price"
// @Param        maxPrice     query     number  false  "Maximum price"
// @Param        discountMin  query     int     false  "Minimum discount percent"
// @Param        tags         query     string  false  "Comma-separated tags (match any)"
// @Param        q            query     string  false  "Free-text search"
// @Param        dateFrom     query     string  false  "Validity window start"
// @Param        dateTo       query     string  false  "Validity window end"
// @Param        sort         query     string  false  "newest | biggestDiscount | lowestPrice"
// @Success      200          {object}  listDealsResponse
// @Failure      400          {object}  map[string]any
// @Router       /v1/deals [get]
func (h *DealHandler) List(c echo.Context) error {
	filter, err := parseDealFilter(c)
	if err != nil {
		return err
	}

	page, err := h.deals.ListPublic(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListDealsResponse(page))
}

// Get handles GET /v1/deals/:id. Deals that exist but are not APPROVED are
// indistinguishable from absent ones.
//
// @Summary      Get an approved deal
// @Tags         deals
// @Produce      json
// @Param        id   path      string  true  "Deal id"
// @Success      200  {object}  dealResponse
// @Failure      404  {object}  map[string]any
// @Router       /v1/deals/{id} [get]
func (h *DealHandler) Get(c echo.Context) error {
	deal, err := h.deals.GetPublic(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDealResponse(deal))
}
