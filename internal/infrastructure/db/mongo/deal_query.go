package mongo

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/savemate/deals-api/internal/core/ports"
)

// BuildDealQuery assembles the bson predicate for a DealFilter. Optional
// filters are accumulated as independent predicates and AND-ed together, so
// each one stays independently testable. An empty filter yields bson.M{}.
func BuildDealQuery(f ports.DealFilter) bson.M {
	var preds []bson.M

	if f.Status != "" {
		preds = append(preds, bson.M{"status": string(f.Status)})
	}
	if f.BusinessID != "" {
		preds = append(preds, bson.M{"business_id": f.BusinessID})
	}
	if f.CategoryID != "" {
		preds = append(preds, bson.M{"category_id": f.CategoryID})
	}
	if f.City != "" {
		preds = append(preds, bson.M{"city": containsCI(f.City)})
	}
	if f.Voivodeship != "" {
		preds = append(preds, bson.M{"voivodeship": string(f.Voivodeship)})
	}
	if f.MinPrice != nil {
		preds = append(preds, bson.M{"price": bson.M{"$gte": *f.MinPrice}})
	}
	if f.MaxPrice != nil {
		preds = append(preds, bson.M{"price": bson.M{"$lte": *f.MaxPrice}})
	}
	if f.DiscountMin != nil {
		preds = append(preds, bson.M{"discount_percent": bson.M{"$gte": *f.DiscountMin}})
	}
	if len(f.Tags) > 0 {
		preds = append(preds, bson.M{"tags": bson.M{"$in": tagVariants(f.Tags)}})
	}
	if f.Query != "" {
		preds = append(preds, queryPredicate(f))
	}
	// Overlap, not containment: the deal's validity interval must intersect
	// the requested interval.
	if f.DateFrom != nil {
		preds = append(preds, bson.M{"valid_to": bson.M{"$gte": *f.DateFrom}})
	}
	if f.DateTo != nil {
		preds = append(preds, bson.M{"valid_from": bson.M{"$lte": *f.DateTo}})
	}

	switch len(preds) {
	case 0:
		return bson.M{}
	case 1:
		return preds[0]
	default:
		return bson.M{"$and": preds}
	}
}

// queryPredicate matches the free-text term as a case-insensitive substring
// of title, description, city, or any tag, or against the pre-resolved
// category ids and voivodeship values whose names contain the term.
func queryPredicate(f ports.DealFilter) bson.M {
	re := containsCI(f.Query)
	or := []bson.M{
		{"title": re},
		{"description": re},
		{"city": re},
		{"tags": re},
	}
	if len(f.QueryVoivodeships) > 0 {
		vals := make([]string, len(f.QueryVoivodeships))
		for i, v := range f.QueryVoivodeships {
			vals[i] = string(v)
		}
		or = append(or, bson.M{"voivodeship": bson.M{"$in": vals}})
	}
	if len(f.QueryCategoryIDs) > 0 {
		or = append(or, bson.M{"category_id": bson.M{"$in": f.QueryCategoryIDs}})
	}
	return bson.M{"$or": or}
}

// tagVariants widens each tag to its literal, lowercase, and uppercase
// forms so tag matching tolerates case variation.
func tagVariants(tags []string) []string {
	seen := make(map[string]struct{}, len(tags)*3)
	var out []string
	add := func(t string) {
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	for _, t := range tags {
		add(t)
		add(strings.ToLower(t))
		add(strings.ToUpper(t))
	}
	return out
}

func containsCI(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// BuildDealSort maps a sort key to its bson ordering. Every ordering ends
// with _id desc so pagination is stable across ties.
func BuildDealSort(sort ports.DealSort) bson.D {
	switch sort {
	case ports.SortBiggestDiscount:
		return bson.D{
			{Key: "discount_percent", Value: -1},
			{Key: "created_at", Value: -1},
			{Key: "_id", Value: -1},
		}
	case ports.SortLowestPrice:
		return bson.D{
			{Key: "price", Value: 1},
			{Key: "created_at", Value: -1},
			{Key: "_id", Value: -1},
		}
	default: // newest
		return bson.D{
			{Key: "created_at", Value: -1},
			{Key: "_id", Value: -1},
		}
	}
}
