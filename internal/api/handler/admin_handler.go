package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/savemate/deals-api/internal/core/domain"
	"github.com/savemate/deals-api/internal/core/ports"
)

// AdminHandler serves the moderation endpoints. Every route is behind
// Auth + RequireRole(ADMIN).
type AdminHandler struct {
	moderation ports.ModerationService
	deals      ports.DealService
}

func NewAdminHandler(moderation ports.ModerationService, deals ports.DealService) *AdminHandler {
	return &AdminHandler{moderation: moderation, deals: deals}
}

// ListPending handles GET /v1/admin/deals/pending: the moderation queue,
// newest first.
//
// @Summary      List deals awaiting moderation
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (1-indexed)"
// @Param        limit  query     int  false  "Page size (1-50, default 20)"
// @Success      200    {object}  listDealsResponse
// @Failure      403    {object}  map[string]any
// @Router       /v1/admin/deals/pending [get]
func (h *AdminHandler) ListPending(c echo.Context) error {
	page, err := intParam(c, "page")
	if err != nil {
		return err
	}
	limit, err := intParam(c, "limit")
	if err != nil {
		return err
	}

	result, err := h.moderation.ListPending(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListDealsResponse(result))
}

// List handles GET /v1/admin/deals: all deals across businesses, optionally
// filtered by status.
//
// @Summary      List all deals
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Status filter"
// @Param        page    query     int     false  "Page (1-indexed)"
// @Param        limit   query     int     false  "Page size (1-50, default 20)"
// @Success      200     {object}  listDealsResponse
// @Failure      400     {object}  map[string]any
// @Failure      403     {object}  map[string]any
// @Router       /v1/admin/deals [get]
func (h *AdminHandler) List(c echo.Context) error {
	filter, err := parseDealFilter(c)
	if err != nil {
		return err
	}
	status := domain.DealStatus(c.QueryParam("status"))

	result, err := h.moderation.ListForAdmin(c.Request().Context(), status, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListDealsResponse(result))
}

// Approve handles POST /v1/admin/deals/:id/approve.
//
// @Summary      Approve a pending deal
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Deal id"
// @Success      200  {object}  moderationResponse
// @Failure      404  {object}  map[string]any
// @Failure      409  {object}  map[string]any
// @Router       /v1/admin/deals/{id}/approve [post]
func (h *AdminHandler) Approve(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.moderation.Approve(c.Request().Context(), identity.UserID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toModerationResponse(result))
}

// Reject handles POST /v1/admin/deals/:id/reject. The reason is mandatory
// and recorded in the audit trail.
//
// @Summary      Reject a pending deal
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Deal id"
// @Param        body  body      rejectDealRequest  true  "Rejection reason"
// @Success      200   {object}  moderationResponse
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /v1/admin/deals/{id}/reject [post]
func (h *AdminHandler) Reject(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req rejectDealRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid payload", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.moderation.Reject(c.Request().Context(), identity.UserID, c.Param("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toModerationResponse(result))
}

// SetStatus handles PUT /v1/admin/deals/:id/status: the unconditional
// administrator override.
//
// @Summary      Force a deal status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Deal id"
// @Param        body  body      setStatusRequest  true  "Target status and optional reason"
// @Success      200   {object}  moderationResponse
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /v1/admin/deals/{id}/status [put]
func (h *AdminHandler) SetStatus(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid payload", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.moderation.SetStatus(c.Request().Context(), identity.UserID, c.Param("id"), domain.DealStatus(req.Status), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toModerationResponse(result))
}

// Delete handles DELETE /v1/admin/deals/:id: removes any deal regardless of
// owner or status.
//
// @Summary      Delete any deal
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Deal id"
// @Success      204  "No Content"
// @Failure      404  {object}  map[string]any
// @Router       /v1/admin/deals/{id} [delete]
func (h *AdminHandler) Delete(c echo.Context) error {
	if err := h.deals.DeleteAny(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
