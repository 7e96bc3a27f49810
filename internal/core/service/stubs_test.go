package service

import (
	"context"
	"strconv"
	"time"

	"github.com/savemate/deals-api/internal/core/domain"
	"github.com/savemate/deals-api/internal/core/ports"
)

// In-memory stubs shared by the service tests.

type stubUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
	nextID  int

	updatedHashes map[string]string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail:       map[string]*domain.User{},
		byID:          map[string]*domain.User{},
		updatedHashes: map[string]string{},
	}
}

func (s *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := s.byEmail[user.Email]; ok {
		return nil, domain.NewConflict("Email already registered", nil)
	}
	s.nextID++
	clone := *user
	clone.ID = "user-" + strconv.Itoa(s.nextID)
	s.byEmail[clone.Email] = &clone
	s.byID[clone.ID] = &clone
	return &clone, nil
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.NewNotFound("User not found")
}

func (s *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, domain.NewNotFound("User not found")
}

func (s *stubUserRepo) UpdatePasswordHash(_ context.Context, userID, hash string) error {
	u, ok := s.byID[userID]
	if !ok {
		return domain.NewNotFound("User not found")
	}
	u.PasswordHash = hash
	s.updatedHashes[userID] = hash
	return nil
}

type stubProfileRepo struct {
	byUserID map[string]*domain.BusinessProfile
	nextID   int
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{byUserID: map[string]*domain.BusinessProfile{}}
}

func (s *stubProfileRepo) Create(_ context.Context, profile *domain.BusinessProfile) (*domain.BusinessProfile, error) {
	if _, ok := s.byUserID[profile.UserID]; ok {
		return nil, domain.NewConflict("Business profile already exists", nil)
	}
	s.nextID++
	clone := *profile
	clone.ID = "biz-" + strconv.Itoa(s.nextID)
	s.byUserID[clone.UserID] = &clone
	return &clone, nil
}

func (s *stubProfileRepo) FindByUserID(_ context.Context, userID string) (*domain.BusinessProfile, error) {
	if p, ok := s.byUserID[userID]; ok {
		return p, nil
	}
	return nil, domain.NewNotFound("Business profile not found")
}

type stubDealRepo struct {
	byID   map[string]*domain.Deal
	nextID int

	// captured inputs
	lastFilter  ports.DealFilter
	lastUpdate  ports.DealUpdate
	listResult  []*domain.Deal
	countResult int64

	insertErr error
	updateErr error
}

func newStubDealRepo() *stubDealRepo {
	return &stubDealRepo{byID: map[string]*domain.Deal{}}
}

func (s *stubDealRepo) add(deal *domain.Deal) *domain.Deal {
	s.nextID++
	clone := *deal
	if clone.ID == "" {
		clone.ID = "deal-" + strconv.Itoa(s.nextID)
	}
	s.byID[clone.ID] = &clone
	return &clone
}

func (s *stubDealRepo) Insert(_ context.Context, deal *domain.Deal) (*domain.Deal, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	created := s.add(deal)
	created.CreatedAt = time.Now().UTC()
	created.UpdatedAt = created.CreatedAt
	return created, nil
}

func (s *stubDealRepo) FindByID(_ context.Context, id string) (*domain.Deal, error) {
	if d, ok := s.byID[id]; ok {
		clone := *d
		return &clone, nil
	}
	return nil, domain.NewNotFound("Deal not found")
}

func (s *stubDealRepo) Update(_ context.Context, id string, update ports.DealUpdate) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	d, ok := s.byID[id]
	if !ok {
		return domain.NewNotFound("Deal not found")
	}
	s.lastUpdate = update
	if update.Title != nil {
		d.Title = *update.Title
	}
	if update.Price != nil {
		d.Price = *update.Price
	}
	if update.OriginalPrice != nil {
		d.OriginalPrice = *update.OriginalPrice
	}
	if update.DiscountPercent != nil {
		d.DiscountPercent = *update.DiscountPercent
	}
	if update.CategoryID != nil {
		d.CategoryID = *update.CategoryID
	}
	return nil
}

func (s *stubDealRepo) UpdateStatusWhere(_ context.Context, id string, from, to domain.DealStatus) (bool, error) {
	d, ok := s.byID[id]
	if !ok || d.Status != from {
		return false, nil
	}
	d.Status = to
	return true, nil
}

func (s *stubDealRepo) SetStatus(_ context.Context, id string, to domain.DealStatus) error {
	d, ok := s.byID[id]
	if !ok {
		return domain.NewNotFound("Deal not found")
	}
	d.Status = to
	return nil
}

func (s *stubDealRepo) Delete(_ context.Context, id string) error {
	if _, ok := s.byID[id]; !ok {
		return domain.NewNotFound("Deal not found")
	}
	delete(s.byID, id)
	return nil
}

func (s *stubDealRepo) List(_ context.Context, filter ports.DealFilter) ([]*domain.Deal, error) {
	s.lastFilter = filter
	return s.listResult, nil
}

func (s *stubDealRepo) Count(_ context.Context, filter ports.DealFilter) (int64, error) {
	return s.countResult, nil
}

func (s *stubDealRepo) CountByCategory(_ context.Context, categoryID string) (int64, error) {
	var n int64
	for _, d := range s.byID {
		if d.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

type stubCategoryRepo struct {
	byID       map[string]*domain.Category
	nextID     int
	searchIDs  []string
	searchedQ  string
	createErr  error
	deletedIDs []string
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{byID: map[string]*domain.Category{}}
}

func (s *stubCategoryRepo) add(name, slug string) *domain.Category {
	s.nextID++
	cat := &domain.Category{ID: "cat-" + strconv.Itoa(s.nextID), Name: name, Slug: slug}
	s.byID[cat.ID] = cat
	return cat
}

func (s *stubCategoryRepo) Create(_ context.Context, category *domain.Category) (*domain.Category, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	for _, c := range s.byID {
		if c.Name == category.Name || c.Slug == category.Slug {
			return nil, domain.NewConflict("Category already exists", nil)
		}
	}
	return s.add(category.Name, category.Slug), nil
}

func (s *stubCategoryRepo) FindByID(_ context.Context, id string) (*domain.Category, error) {
	if c, ok := s.byID[id]; ok {
		return c, nil
	}
	return nil, domain.NewNotFound("Category not found")
}

func (s *stubCategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(s.byID))
	for _, c := range s.byID {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubCategoryRepo) FindIDsByNameContains(_ context.Context, q string) ([]string, error) {
	s.searchedQ = q
	return s.searchIDs, nil
}

func (s *stubCategoryRepo) Update(_ context.Context, id string, name, slug *string) (*domain.Category, error) {
	c, ok := s.byID[id]
	if !ok {
		return nil, domain.NewNotFound("Category not found")
	}
	if name != nil {
		c.Name = *name
	}
	if slug != nil {
		c.Slug = *slug
	}
	return c, nil
}

func (s *stubCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := s.byID[id]; !ok {
		return domain.NewNotFound("Category not found")
	}
	delete(s.byID, id)
	s.deletedIDs = append(s.deletedIDs, id)
	return nil
}

type stubAuditRepo struct {
	entries []*domain.AuditLogEntry
	failErr error
}

func (s *stubAuditRepo) Insert(_ context.Context, entry *domain.AuditLogEntry) error {
	if s.failErr != nil {
		return s.failErr
	}
	s.entries = append(s.entries, entry)
	return nil
}

// memResetStore is a process-local ResetTokenStore for tests.
type memResetStore struct {
	tokens map[string]resetEntry
}

type resetEntry struct {
	userID  string
	expires time.Time
}

func newMemResetStore() *memResetStore {
	return &memResetStore{tokens: map[string]resetEntry{}}
}

func (s *memResetStore) Save(_ context.Context, token, userID string, ttl time.Duration) error {
	s.tokens[token] = resetEntry{userID: userID, expires: time.Now().Add(ttl)}
	return nil
}

func (s *memResetStore) Consume(_ context.Context, token string) (string, error) {
	entry, ok := s.tokens[token]
	if !ok || time.Now().After(entry.expires) {
		delete(s.tokens, token)
		return "", domain.NewUnauthorized("Invalid or expired token")
	}
	delete(s.tokens, token)
	return entry.userID, nil
}

var (
	_ ports.UserRepository            = (*stubUserRepo)(nil)
	_ ports.BusinessProfileRepository = (*stubProfileRepo)(nil)
	_ ports.DealRepository            = (*stubDealRepo)(nil)
	_ ports.CategoryRepository        = (*stubCategoryRepo)(nil)
	_ ports.AuditRepository           = (*stubAuditRepo)(nil)
	_ ports.ResetTokenStore           = (*memResetStore)(nil)
)
