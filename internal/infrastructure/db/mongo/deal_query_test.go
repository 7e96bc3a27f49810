package mongo

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/savemate/deals-api/internal/core/domain"
	"github.com/savemate/deals-api/internal/core/ports"
)

func TestBuildDealQueryEmpty(t *testing.T) {
	got := BuildDealQuery(ports.DealFilter{})
	if !reflect.DeepEqual(got, bson.M{}) {
		t.Fatalf("expected empty predicate, got %v", got)
	}
}

func TestBuildDealQuerySinglePredicate(t *testing.T) {
	got := BuildDealQuery(ports.DealFilter{Status: domain.StatusApproved})
	want := bson.M{"status": "APPROVED"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestBuildDealQueryCombinesWithAnd(t *testing.T) {
	min := 10.0
	got := BuildDealQuery(ports.DealFilter{
		Status:     domain.StatusApproved,
		BusinessID: "biz-1",
		MinPrice:   &min,
	})

	and, ok := got["$and"].([]bson.M)
	if !ok {
		t.Fatalf("expected $and predicate, got %v", got)
	}
	if len(and) != 3 {
		t.Fatalf("expected 3 predicates, got %d: %v", len(and), and)
	}
	if !reflect.DeepEqual(and[0], bson.M{"status": "APPROVED"}) {
		t.Errorf("unexpected status predicate: %v", and[0])
	}
	if !reflect.DeepEqual(and[1], bson.M{"business_id": "biz-1"}) {
		t.Errorf("unexpected business predicate: %v", and[1])
	}
	if !reflect.DeepEqual(and[2], bson.M{"price": bson.M{"$gte": 10.0}}) {
		t.Errorf("unexpected price predicate: %v", and[2])
	}
}

func TestBuildDealQueryCityIsCaseInsensitiveSubstring(t *testing.T) {
	got := BuildDealQuery(ports.DealFilter{City: "Kraków"})
	want := bson.M{"city": primitive.Regex{Pattern: "Kraków", Options: "i"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestBuildDealQueryCityEscapesRegexMeta(t *testing.T) {
	got := BuildDealQuery(ports.DealFilter{City: "a.b*c"})
	re, ok := got["city"].(primitive.Regex)
	if !ok {
		t.Fatalf("expected regex predicate, got %v", got)
	}
	if re.Pattern != `a\.b\*c` {
		t.Errorf("meta characters not escaped: %q", re.Pattern)
	}
}

func TestBuildDealQueryTagsMatchAnyWithCaseVariants(t *testing.T) {
	got := BuildDealQuery(ports.DealFilter{Tags: []string{"Pizza"}})
	in := got["tags"].(bson.M)["$in"].([]string)
	want := []string{"Pizza", "pizza", "PIZZA"}
	if !reflect.DeepEqual(in, want) {
		t.Fatalf("got %v, want %v", in, want)
	}
}

func TestBuildDealQueryTagsDeduplicateVariants(t *testing.T) {
	got := BuildDealQuery(ports.DealFilter{Tags: []string{"sushi"}})
	in := got["tags"].(bson.M)["$in"].([]string)
	want := []string{"sushi", "SUSHI"}
	if !reflect.DeepEqual(in, want) {
		t.Fatalf("got %v, want %v", in, want)
	}
}

func TestBuildDealQueryFreeTextSearchesAllFields(t *testing.T) {
	got := BuildDealQuery(ports.DealFilter{
		Query:             "mal",
		QueryCategoryIDs:  []string{"cat-1", "cat-2"},
		QueryVoivodeships: []domain.Voivodeship{"MALOPOLSKIE"},
	})

	or, ok := got["$or"].([]bson.M)
	if !ok {
		t.Fatalf("expected $or predicate, got %v", got)
	}
	if len(or) != 6 {
		t.Fatalf("expected 6 branches, got %d: %v", len(or), or)
	}

	re := primitive.Regex{Pattern: "mal", Options: "i"}
	for i, field := range []string{"title", "description", "city", "tags"} {
		if !reflect.DeepEqual(or[i], bson.M{field: re}) {
			t.Errorf("branch %d: got %v, want regex on %s", i, or[i], field)
		}
	}
	if !reflect.DeepEqual(or[4], bson.M{"voivodeship": bson.M{"$in": []string{"MALOPOLSKIE"}}}) {
		t.Errorf("unexpected voivodeship branch: %v", or[4])
	}
	if !reflect.DeepEqual(or[5], bson.M{"category_id": bson.M{"$in": []string{"cat-1", "cat-2"}}}) {
		t.Errorf("unexpected category branch: %v", or[5])
	}
}

func TestBuildDealQueryFreeTextWithoutExpansions(t *testing.T) {
	got := BuildDealQuery(ports.DealFilter{Query: "kebab"})
	or := got["$or"].([]bson.M)
	if len(or) != 4 {
		t.Fatalf("expected 4 branches without expansions, got %d", len(or))
	}
}

func TestBuildDealQueryDateRangeIsOverlap(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	got := BuildDealQuery(ports.DealFilter{DateFrom: &from, DateTo: &to})

	and := got["$and"].([]bson.M)
	if !reflect.DeepEqual(and[0], bson.M{"valid_to": bson.M{"$gte": from}}) {
		t.Errorf("unexpected dateFrom predicate: %v", and[0])
	}
	if !reflect.DeepEqual(and[1], bson.M{"valid_from": bson.M{"$lte": to}}) {
		t.Errorf("unexpected dateTo predicate: %v", and[1])
	}
}

func TestBuildDealSortOrderings(t *testing.T) {
	tests := []struct {
		sort ports.DealSort
		want bson.D
	}{
		{
			sort: ports.SortNewest,
			want: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
		},
		{
			sort: ports.SortBiggestDiscount,
			want: bson.D{{Key: "discount_percent", Value: -1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
		},
		{
			sort: ports.SortLowestPrice,
			want: bson.D{{Key: "price", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
		},
		{
			sort: "",
			want: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
		},
	}

	for _, tt := range tests {
		got := BuildDealSort(tt.sort)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("sort %q: got %v, want %v", tt.sort, got, tt.want)
		}
	}
}
