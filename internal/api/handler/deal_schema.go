package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/savemate/deals-api/internal/core/domain"
	"github.com/savemate/deals-api/internal/core/ports"
)

// --- Request / Response types ---

// imageUpload carries an inline image. The payload is base64 data plus its
// MIME type; the blob store decides whether the type is acceptable.
type imageUpload struct {
	Data     string `json:"data"     validate:"required,base64"`
	MimeType string `json:"mimeType" validate:"required"`
}

type createDealRequest struct {
	Title         string       `json:"title"         validate:"required,min=3,max=120"`
	Description   string       `json:"description"   validate:"required,min=10,max=2000"`
	UsageTerms    string       `json:"usageTerms"    validate:"omitempty,max=2000"`
	Price         float64      `json:"price"         validate:"required,gt=0"`
	OriginalPrice float64      `json:"originalPrice" validate:"required,gt=0"`
	CategoryID    string       `json:"categoryId"    validate:"required"`
	City          string       `json:"city"          validate:"required"`
	Voivodeship   string       `json:"voivodeship"   validate:"required"`
	Tags          []string     `json:"tags"          validate:"omitempty,max=20,dive,min=1,max=40"`
	ValidFrom     time.Time    `json:"validFrom"     validate:"required"`
	ValidTo       time.Time    `json:"validTo"       validate:"required"`
	Image         *imageUpload `json:"image"`

	// Status is never writable by the owner. Bound so its presence can be
	// rejected explicitly instead of being silently dropped.
	Status *string `json:"status"`
}

type updateDealRequest struct {
	Title         *string      `json:"title"         validate:"omitempty,min=3,max=120"`
	Description   *string      `json:"description"   validate:"omitempty,min=10,max=2000"`
	UsageTerms    *string      `json:"usageTerms"    validate:"omitempty,max=2000"`
	Price         *float64     `json:"price"         validate:"omitempty,gt=0"`
	OriginalPrice *float64     `json:"originalPrice" validate:"omitempty,gt=0"`
	CategoryID    *string      `json:"categoryId"`
	City          *string      `json:"city"`
	Voivodeship   *string      `json:"voivodeship"`
	Tags          *[]string    `json:"tags"          validate:"omitempty,max=20,dive,min=1,max=40"`
	ValidFrom     *time.Time   `json:"validFrom"`
	ValidTo       *time.Time   `json:"validTo"`
	Image         *imageUpload `json:"image"`

	Status *string `json:"status"`
}

type rejectDealRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type dealResponse struct {
	ID              string    `json:"id"`
	BusinessID      string    `json:"businessId"`
	CategoryID      string    `json:"categoryId"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	UsageTerms      string    `json:"usageTerms,omitempty"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	Price           float64   `json:"price"`
	OriginalPrice   float64   `json:"originalPrice"`
	DiscountPercent int       `json:"discountPercent"`
	City            string    `json:"city"`
	Voivodeship     string    `json:"voivodeship"`
	Tags            []string  `json:"tags"`
	ValidFrom       time.Time `json:"validFrom"`
	ValidTo         time.Time `json:"validTo"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

type listDealsResponse struct {
	Data       []dealResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type moderationResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	AuditWritten bool   `json:"auditWritten"`
}

// --- Query parsing ---

// parseDealFilter reads the shared listing query parameters. Scope fields
// (status, businessId) are owned by the service layer and never parsed here.
func parseDealFilter(c echo.Context) (ports.DealFilter, error) {
	var f ports.DealFilter

	var err error
	if f.Page, err = intParam(c, "page"); err != nil {
		return f, err
	}
	if f.Limit, err = intParam(c, "limit"); err != nil {
		return f, err
	}

	f.CategoryID = c.QueryParam("category")
	f.City = c.QueryParam("city")
	f.Query = c.QueryParam("q")

	if v := c.QueryParam("voivodeship"); v != "" {
		vv := domain.Voivodeship(v)
		if !domain.ValidVoivodeship(vv) {
			return f, domain.FieldValidationError("voivodeship", "unknown voivodeship")
		}
		f.Voivodeship = vv
	}

	if f.MinPrice, err = floatParam(c, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = floatParam(c, "maxPrice"); err != nil {
		return f, err
	}
	if raw := c.QueryParam("discountMin"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return f, domain.FieldValidationError("discountMin", "discountMin must be an integer")
		}
		f.DiscountMin = &n
	}

	if raw := c.QueryParam("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				f.Tags = append(f.Tags, t)
			}
		}
	}

	if f.DateFrom, err = timeParam(c, "dateFrom"); err != nil {
		return f, err
	}
	if f.DateTo, err = timeParam(c, "dateTo"); err != nil {
		return f, err
	}

	if raw := c.QueryParam("sort"); raw != "" {
		sort := ports.DealSort(raw)
		if !ports.ValidSort(sort) {
			return f, domain.FieldValidationError("sort", "sort must be one of: newest, biggestDiscount, lowestPrice")
		}
		f.Sort = sort
	}

	return f, nil
}

func intParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.FieldValidationError(name, name+" must be an integer")
	}
	return n, nil
}

func floatParam(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, domain.FieldValidationError(name, name+" must be a number")
	}
	return &v, nil
}

func timeParam(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	return nil, domain.FieldValidationError(name, name+" must be an RFC 3339 timestamp or YYYY-MM-DD date")
}
