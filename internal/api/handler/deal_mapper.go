package handler

import (
	"github.com/savemate/deals-api/internal/core/domain"
	"github.com/savemate/deals-api/internal/core/ports"
)

func toDealResponse(d *domain.Deal) dealResponse {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return dealResponse{
		ID:              d.ID,
		BusinessID:      d.BusinessID,
		CategoryID:      d.CategoryID,
		Title:           d.Title,
		Description:     d.Description,
		UsageTerms:      d.UsageTerms,
		ImageURL:        d.ImageURL,
		Price:           d.Price,
		OriginalPrice:   d.OriginalPrice,
		DiscountPercent: d.DiscountPercent,
		City:            d.City,
		Voivodeship:     string(d.Voivodeship),
		Tags:            tags,
		ValidFrom:       d.ValidFrom,
		ValidTo:         d.ValidTo,
		Status:          string(d.Status),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func toListDealsResponse(page *ports.DealPage) listDealsResponse {
	items := make([]dealResponse, len(page.Items))
	for i, d := range page.Items {
		items[i] = toDealResponse(d)
	}
	return listDealsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      page.Total,
			Page:       page.Page,
			Limit:      page.Limit,
			TotalPages: page.TotalPages,
		},
	}
}

func toModerationResponse(res *ports.ModerationResult) moderationResponse {
	return moderationResponse{
		ID:           res.DealID,
		Status:       string(res.Status),
		AuditWritten: res.AuditWritten,
	}
}
