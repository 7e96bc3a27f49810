package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/savemate/deals-api/internal/core/domain"
	"github.com/savemate/deals-api/internal/core/ports"
)

const collectionDeals = "deals"

// DealRepository is transition-agnostic deal storage. Transition legality
// lives in the moderation service; this layer only offers the conditional
// write it needs.
type DealRepository struct {
	col *mongo.Collection
}

func NewDealRepository(db *mongo.Database) *DealRepository {
	return &DealRepository{col: db.Collection(collectionDeals)}
}

// Insert stores a new deal, assigning id and timestamps.
func (r *DealRepository) Insert(ctx context.Context, deal *domain.Deal) (*domain.Deal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	clone := *deal
	clone.ID = primitive.NewObjectID().Hex()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	if clone.Tags == nil {
		clone.Tags = []string{}
	}

	if _, err := r.col.InsertOne(ctx, &clone); err != nil {
		return nil, fmt.Errorf("insert deal: %w", err)
	}
	return &clone, nil
}

func (r *DealRepository) FindByID(ctx context.Context, id string) (*domain.Deal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var deal domain.Deal
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&deal); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewNotFound("Deal not found")
		}
		return nil, fmt.Errorf("find deal: %w", err)
	}
	return &deal, nil
}

// Update applies the non-nil content fields. Status is not expressible here.
func (r *DealRepository) Update(ctx context.Context, id string, update ports.DealUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.UsageTerms != nil {
		set["usage_terms"] = *update.UsageTerms
	}
	if update.ImageURL != nil {
		set["image_url"] = *update.ImageURL
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.OriginalPrice != nil {
		set["original_price"] = *update.OriginalPrice
	}
	if update.DiscountPercent != nil {
		set["discount_percent"] = *update.DiscountPercent
	}
	if update.CategoryID != nil {
		set["category_id"] = *update.CategoryID
	}
	if update.City != nil {
		set["city"] = *update.City
	}
	if update.Voivodeship != nil {
		set["voivodeship"] = string(*update.Voivodeship)
	}
	if update.Tags != nil {
		set["tags"] = *update.Tags
	}
	if update.ValidFrom != nil {
		set["valid_from"] = *update.ValidFrom
	}
	if update.ValidTo != nil {
		set["valid_to"] = *update.ValidTo
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update deal: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.NewNotFound("Deal not found")
	}
	return nil
}

// UpdateStatusWhere moves the deal from the expected status to the new one.
// The filter carries the expected status, so a concurrent transition makes
// this match zero documents and the caller sees a lost race, not a write.
func (r *DealRepository) UpdateStatusWhere(ctx context.Context, id string, from, to domain.DealStatus) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to), "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, fmt.Errorf("update deal status: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// SetStatus unconditionally overwrites the status (administrator override).
func (r *DealRepository) SetStatus(ctx context.Context, id string, to domain.DealStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": string(to), "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("set deal status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.NewNotFound("Deal not found")
	}
	return nil
}

// Delete hard-deletes the deal. No tombstone is kept.
func (r *DealRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.NewNotFound("Deal not found")
	}
	return nil
}

// List fetches one page of deals for the filter.
func (r *DealRepository) List(ctx context.Context, filter ports.DealFilter) ([]*domain.Deal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(BuildDealSort(filter.Sort)).
		SetSkip(int64(filter.Skip())).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, BuildDealQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer cur.Close(ctx)

	deals := []*domain.Deal{}
	if err := cur.All(ctx, &deals); err != nil {
		return nil, fmt.Errorf("decode deals: %w", err)
	}
	return deals, nil
}

// Count runs an independent count over the same predicate as List.
func (r *DealRepository) Count(ctx context.Context, filter ports.DealFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, BuildDealQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("count deals: %w", err)
	}
	return n, nil
}

// CountByCategory supports the category-deletion conflict check.
func (r *DealRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"category_id": categoryID})
	if err != nil {
		return 0, fmt.Errorf("count deals by category: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates the indexes the filter contract leans on.
func (r *DealRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "business_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "category_id", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "discount_percent", Value: -1}}},
		{Keys: bson.D{{Key: "valid_from", Value: 1}, {Key: "valid_to", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
