package ports

import (
	"context"
	"time"

	"github.com/savemate/deals-api/internal/core/domain"
)

// DealSort names the supported orderings. Every sort carries createdAt desc
// and id desc tiebreaks so pagination stays stable across ties.
type DealSort string

const (
	SortNewest          DealSort = "newest"
	SortBiggestDiscount DealSort = "biggestDiscount"
	SortLowestPrice     DealSort = "lowestPrice"
)

// ValidSort reports whether s is a known sort key.
func ValidSort(s DealSort) bool {
	return s == SortNewest || s == SortBiggestDiscount || s == SortLowestPrice
}

// DealFilter is the single query contract serving the public catalog, the
// owning-business list, and the administrator list. Scope fields (Status,
// BusinessID) are set by the service layer, never from caller input directly.
type DealFilter struct {
	// Scope: non-empty values restrict the base result set.
	Status     domain.DealStatus // public = APPROVED, admin = optional filter
	BusinessID string            // business list = caller's own

	CategoryID  string
	City        string // case-insensitive substring
	Voivodeship domain.Voivodeship
	MinPrice    *float64 // inclusive
	MaxPrice    *float64 // inclusive
	DiscountMin *int     // inclusive lower bound on discountPercent
	Tags        []string // match-any, case-tolerant
	Query       string   // free text over title/description/city/region/category/tags

	// Free-text expansions resolved by the service before the query runs:
	// category ids whose display name contains Query, and voivodeships whose
	// name contains Query.
	QueryCategoryIDs  []string
	QueryVoivodeships []domain.Voivodeship

	// Validity-window overlap: validTo >= DateFrom AND validFrom <= DateTo.
	DateFrom *time.Time
	DateTo   *time.Time

	Sort  DealSort
	Page  int // 1-indexed
	Limit int // clamped to 1..50 by the service
}

// Skip returns the document offset for the filter's page.
func (f DealFilter) Skip() int {
	return (f.Page - 1) * f.Limit
}

// DealUpdate carries the mutable content fields of a business-initiated
// update. Nil pointers mean "leave unchanged". Status is deliberately absent:
// the owner path can never touch it.
type DealUpdate struct {
	Title         *string
	Description   *string
	UsageTerms    *string
	ImageURL      *string
	Price         *float64
	OriginalPrice *float64
	CategoryID    *string
	City          *string
	Voivodeship   *domain.Voivodeship
	Tags          *[]string
	ValidFrom     *time.Time
	ValidTo       *time.Time
	// DiscountPercent is recomputed by the service when either price field
	// changes; it is never accepted from callers.
	DiscountPercent *int
}

// DealRepository is transition-agnostic storage for deals. Transition
// legality lives in the moderation service.
type DealRepository interface {
	Insert(ctx context.Context, deal *domain.Deal) (*domain.Deal, error)
	FindByID(ctx context.Context, id string) (*domain.Deal, error)
	Update(ctx context.Context, id string, update DealUpdate) error
	// UpdateStatusWhere conditionally moves the deal from the expected status
	// to the new one. It reports false without error when the document no
	// longer carries the expected status (lost race or illegal transition).
	UpdateStatusWhere(ctx context.Context, id string, from, to domain.DealStatus) (bool, error)
	// SetStatus unconditionally overwrites the status (admin override path).
	SetStatus(ctx context.Context, id string, to domain.DealStatus) error
	Delete(ctx context.Context, id string) error
	// List and Count run independent queries over the same filter predicate.
	List(ctx context.Context, filter DealFilter) ([]*domain.Deal, error)
	Count(ctx context.Context, filter DealFilter) (int64, error)
	// CountByCategory supports the category-deletion conflict check.
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
}

// CategoryRepository defines persistence for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	// List returns all categories ordered by name asc, id asc.
	List(ctx context.Context) ([]*domain.Category, error)
	// FindIDsByNameContains returns ids of categories whose display name
	// contains q case-insensitively (free-text search expansion).
	FindIDsByNameContains(ctx context.Context, q string) ([]string, error)
	Update(ctx context.Context, id string, name, slug *string) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

// AuditRepository is the append-only audit sink.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditLogEntry) error
}
