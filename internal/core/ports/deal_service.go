package ports

import (
	"context"
	"time"

	"github.com/savemate/deals-api/internal/core/domain"
)

// DealCreateInput carries everything a business submits for a new deal.
// Any caller-supplied status is rejected at the transport layer; created
// deals always start PENDING.
type DealCreateInput struct {
	Title         string
	Description   string
	UsageTerms    string
	ImageURL      string
	Price         float64
	OriginalPrice float64
	CategoryID    string
	City          string
	Voivodeship   domain.Voivodeship
	Tags          []string
	ValidFrom     time.Time
	ValidTo       time.Time
}

// DealPage is the paginated listing result shared by all three scopes.
type DealPage struct {
	Items      []*domain.Deal
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// DealService serves the public catalog and the owning-business operations.
type DealService interface {
	// ListPublic is scoped to APPROVED deals.
	ListPublic(ctx context.Context, filter DealFilter) (*DealPage, error)
	// GetPublic returns an APPROVED deal or NotFound.
	GetPublic(ctx context.Context, id string) (*domain.Deal, error)

	// ListOwn is scoped to the calling business.
	ListOwn(ctx context.Context, businessID string, filter DealFilter) (*DealPage, error)
	Create(ctx context.Context, businessID string, input DealCreateInput) (*domain.Deal, error)
	// UpdateOwn applies content-field changes to the caller's own deal.
	// Status can never be set through this path.
	UpdateOwn(ctx context.Context, businessID, dealID string, update DealUpdate) (*domain.Deal, error)
	// DeleteOwn hard-deletes the caller's own deal.
	DeleteOwn(ctx context.Context, businessID, dealID string) error
	// DeleteAny hard-deletes any deal (administrator path).
	DeleteAny(ctx context.Context, dealID string) error
}

// ModerationResult reports both outcomes of a moderation call: the committed
// transition and whether the best-effort audit write landed.
type ModerationResult struct {
	DealID       string
	Status       domain.DealStatus
	AuditWritten bool
}

// ModerationService orchestrates status transitions and the audit trail.
type ModerationService interface {
	// Approve requires the deal to be PENDING; Conflict otherwise.
	Approve(ctx context.Context, actorID, dealID string) (*ModerationResult, error)
	// Reject requires PENDING and a reason; Conflict / ValidationError otherwise.
	Reject(ctx context.Context, actorID, dealID, reason string) (*ModerationResult, error)
	// SetStatus is the unconditional administrator override. A reason is
	// mandatory when the target status is REJECTED.
	SetStatus(ctx context.Context, actorID, dealID string, status domain.DealStatus, reason string) (*ModerationResult, error)
	// ListForAdmin optionally filters by status; ListPending is the
	// moderation queue (PENDING, newest first).
	ListForAdmin(ctx context.Context, status domain.DealStatus, filter DealFilter) (*DealPage, error)
	ListPending(ctx context.Context, page, limit int) (*DealPage, error)
}

// CategoryService exposes category reads publicly and CRUD to administrators.
type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Create(ctx context.Context, actorID, name, slug string) (*domain.Category, error)
	Update(ctx context.Context, actorID, id string, name, slug *string) (*domain.Category, error)
	// Delete fails with Conflict while deals still reference the category.
	Delete(ctx context.Context, actorID, id string) error
}

// BlobStore is the opaque image-storage collaborator. The returned reference
// string is stored verbatim as the deal's imageUrl and never inspected.
type BlobStore interface {
	Save(ctx context.Context, data []byte, mime string) (string, error)
}
