package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/savemate/deals-api/internal/api/metrics"
	"github.com/savemate/deals-api/internal/core/domain"
	"github.com/savemate/deals-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 50
)

// DealService serves the public catalog and the owning-business operations
// over the shared filter contract.
type DealService struct {
	deals      ports.DealRepository
	categories ports.CategoryRepository
	logger     zerolog.Logger
}

func NewDealService(deals ports.DealRepository, categories ports.CategoryRepository, logger zerolog.Logger) *DealService {
	return &DealService{deals: deals, categories: categories, logger: logger}
}

// ListPublic lists APPROVED deals matching the filter.
func (s *DealService) ListPublic(ctx context.Context, filter ports.DealFilter) (*ports.DealPage, error) {
	filter.Status = domain.StatusApproved
	filter.BusinessID = ""
	return s.list(ctx, filter)
}

// GetPublic returns an APPROVED deal by id. Anything else is NotFound so the
// public surface never reveals unapproved listings.
func (s *DealService) GetPublic(ctx context.Context, id string) (*domain.Deal, error) {
	deal, err := s.deals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if deal.Status != domain.StatusApproved {
		return nil, domain.NewNotFound("Deal not found")
	}
	return deal, nil
}

// ListOwn lists the calling business's deals in any status.
func (s *DealService) ListOwn(ctx context.Context, businessID string, filter ports.DealFilter) (*ports.DealPage, error) {
	filter.Status = ""
	filter.BusinessID = businessID
	return s.list(ctx, filter)
}

// list normalizes pagination, expands free text, and runs count + fetch as
// two independent queries over the same predicate.
func (s *DealService) list(ctx context.Context, filter ports.DealFilter) (*ports.DealPage, error) {
	normalizeFilter(&filter)
	if err := s.expandQuery(ctx, &filter); err != nil {
		return nil, err
	}

	total, err := s.deals.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items, err := s.deals.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.DealPage{
		Items:      items,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Total:      total,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// Create validates the submission and stores it PENDING. Any caller-supplied
// status was already rejected at the transport layer; the status here is
// fixed by construction.
func (s *DealService) Create(ctx context.Context, businessID string, input ports.DealCreateInput) (*domain.Deal, error) {
	if input.OriginalPrice < input.Price {
		return nil, domain.FieldValidationError("originalPrice", "originalPrice must be >= price")
	}
	if _, err := s.categories.FindByID(ctx, input.CategoryID); err != nil {
		if isNotFound(err) {
			return nil, domain.FieldValidationError("categoryId", "Unknown category")
		}
		return nil, err
	}

	deal := &domain.Deal{
		BusinessID:      businessID,
		CategoryID:      input.CategoryID,
		Title:           input.Title,
		Description:     input.Description,
		UsageTerms:      input.UsageTerms,
		ImageURL:        input.ImageURL,
		Price:           input.Price,
		OriginalPrice:   input.OriginalPrice,
		DiscountPercent: domain.DiscountPercent(input.Price, input.OriginalPrice),
		City:            input.City,
		Voivodeship:     input.Voivodeship,
		Tags:            input.Tags,
		ValidFrom:       input.ValidFrom,
		ValidTo:         input.ValidTo,
		Status:          domain.StatusPending,
	}

	created, err := s.deals.Insert(ctx, deal)
	if err != nil {
		s.logger.Error().Err(err).Str("business_id", businessID).Msg("failed to create deal")
		return nil, err
	}

	metrics.DealsCreatedTotal.WithLabelValues(string(created.Voivodeship)).Inc()
	s.logger.Info().Str("deal_id", created.ID).Str("business_id", businessID).Msg("deal created")
	return created, nil
}

// UpdateOwn applies content changes to the caller's own deal. The update
// type cannot express status, so the owner path can never move the state
// machine. The discount is recomputed server-side whenever either price
// field changes, using the stored value for the untouched one.
func (s *DealService) UpdateOwn(ctx context.Context, businessID, dealID string, update ports.DealUpdate) (*domain.Deal, error) {
	existing, err := s.deals.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if existing.BusinessID != businessID {
		return nil, domain.NewForbidden("Cannot modify another business deal")
	}

	if update.Price != nil || update.OriginalPrice != nil {
		price := existing.Price
		original := existing.OriginalPrice
		if update.Price != nil {
			price = *update.Price
		}
		if update.OriginalPrice != nil {
			original = *update.OriginalPrice
		}
		if original < price {
			return nil, domain.FieldValidationError("originalPrice", "originalPrice must be >= price")
		}
		pct := domain.DiscountPercent(price, original)
		update.DiscountPercent = &pct
	} else {
		// Never trust a client-supplied discount.
		update.DiscountPercent = nil
	}

	if update.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *update.CategoryID); err != nil {
			if isNotFound(err) {
				return nil, domain.FieldValidationError("categoryId", "Unknown category")
			}
			return nil, err
		}
	}

	if err := s.deals.Update(ctx, dealID, update); err != nil {
		return nil, err
	}
	return s.deals.FindByID(ctx, dealID)
}

// DeleteOwn hard-deletes the caller's own deal.
func (s *DealService) DeleteOwn(ctx context.Context, businessID, dealID string) error {
	existing, err := s.deals.FindByID(ctx, dealID)
	if err != nil {
		return err
	}
	if existing.BusinessID != businessID {
		return domain.NewForbidden("Cannot delete another business deal")
	}
	return s.deals.Delete(ctx, dealID)
}

// DeleteAny hard-deletes any deal (administrator path).
func (s *DealService) DeleteAny(ctx context.Context, dealID string) error {
	if _, err := s.deals.FindByID(ctx, dealID); err != nil {
		return err
	}
	return s.deals.Delete(ctx, dealID)
}

// expandQuery resolves the free-text term into category ids and voivodeship
// values before the predicate is built, so `q` can match the category's
// display name and the region name without joins.
func (s *DealService) expandQuery(ctx context.Context, filter *ports.DealFilter) error {
	if filter.Query == "" {
		return nil
	}

	ids, err := s.categories.FindIDsByNameContains(ctx, filter.Query)
	if err != nil {
		return err
	}
	filter.QueryCategoryIDs = ids

	q := strings.ToLower(filter.Query)
	for _, v := range domain.Voivodeships {
		if strings.Contains(strings.ToLower(string(v)), q) {
			filter.QueryVoivodeships = append(filter.QueryVoivodeships, v)
		}
	}
	return nil
}

func normalizeFilter(f *ports.DealFilter) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = defaultPageLimit
	}
	if f.Limit > maxPageLimit {
		f.Limit = maxPageLimit
	}
	if !ports.ValidSort(f.Sort) {
		f.Sort = ports.SortNewest
	}
}

func totalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
