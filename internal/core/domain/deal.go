package domain

import (
	"errors"
	"math"
	"time"
)

// DealStatus represents the moderation state of a deal.
type DealStatus string

const (
	StatusDraft    DealStatus = "DRAFT"
	StatusPending  DealStatus = "PENDING"
	StatusApproved DealStatus = "APPROVED"
	StatusRejected DealStatus = "REJECTED"
	StatusExpired  DealStatus = "EXPIRED"
)

// moderationTransitions defines the regular moderation flow. EXPIRED is
// reachable from any state and administrators may override any status via
// the unconditional set-status path, so neither appears here.
var moderationTransitions = map[DealStatus][]DealStatus{
	StatusDraft:   {StatusPending},
	StatusPending: {StatusApproved, StatusRejected},
}

var ErrInvalidStatus = errors.New("invalid deal status")

// ValidStatus reports whether s is one of the five known statuses.
func ValidStatus(s DealStatus) bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// CanTransitionTo reports whether the regular moderation flow allows moving
// from s to next. Expiry is always allowed; everything else follows the map.
func (s DealStatus) CanTransitionTo(next DealStatus) bool {
	if next == StatusExpired {
		return true
	}
	for _, allowed := range moderationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Voivodeship is one of the 16 fixed Polish administrative regions.
type Voivodeship string

// Voivodeships is the closed enumeration accepted on deals and profiles.
var Voivodeships = []Voivodeship{
	"DOLNOSLASKIE",
	"KUJAWSKO_POMORSKIE",
	"LUBELSKIE",
	"LUBUSKIE",
	"LODZKIE",
	"MALOPOLSKIE",
	"MAZOWIECKIE",
	"OPOLSKIE",
	"PODKARPACKIE",
	"PODLASKIE",
	"POMORSKIE",
	"SLASKIE",
	"SWIETOKRZYSKIE",
	"WARMINSKO_MAZURSKIE",
	"WIELKOPOLSKIE",
	"ZACHODNIOPOMORSKIE",
}

// ValidVoivodeship reports whether v belongs to the enumeration.
func ValidVoivodeship(v Voivodeship) bool {
	for _, known := range Voivodeships {
		if v == known {
			return true
		}
	}
	return false
}

// MaxTags bounds the tag set on a deal.
const MaxTags = 20

// Deal is the central aggregate: a time-bounded discount listing owned by
// exactly one business and referencing exactly one category.
type Deal struct {
	ID              string      `json:"id" bson:"_id,omitempty"`
	BusinessID      string      `json:"business_id" bson:"business_id"`
	CategoryID      string      `json:"category_id" bson:"category_id"`
	Title           string      `json:"title" bson:"title"`
	Description     string      `json:"description" bson:"description"`
	UsageTerms      string      `json:"usage_terms,omitempty" bson:"usage_terms,omitempty"`
	ImageURL        string      `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Price           float64     `json:"price" bson:"price"`
	OriginalPrice   float64     `json:"original_price" bson:"original_price"`
	DiscountPercent int         `json:"discount_percent" bson:"discount_percent"`
	City            string      `json:"city" bson:"city"`
	Voivodeship     Voivodeship `json:"voivodeship" bson:"voivodeship"`
	Tags            []string    `json:"tags" bson:"tags"`
	ValidFrom       time.Time   `json:"valid_from" bson:"valid_from"`
	ValidTo         time.Time   `json:"valid_to" bson:"valid_to"`
	Status          DealStatus  `json:"status" bson:"status"`
	CreatedAt       time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" bson:"updated_at"`
}

// DiscountPercent computes round((original-price)/original*100) clamped into
// [0, 100]. Callers must have validated original >= price beforehand; the
// clamp keeps stored values in range regardless.
func DiscountPercent(price, originalPrice float64) int {
	if originalPrice <= 0 {
		return 0
	}
	pct := int(math.Round((originalPrice - price) / originalPrice * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
