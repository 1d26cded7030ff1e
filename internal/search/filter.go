// Package search evaluates filter specifications against the listing
// collection and orders the result. It runs synchronously over the
// in-memory slice and performs no I/O.
package search

import (
	"github.com/imobsite/listing-manager/internal/models"
)

// Filter is a search specification. A zero-valued field means "no
// constraint". Provided fields combine with AND; set-valued fields match
// when the listing value is any member of the set.
type Filter struct {
	City   string                 `form:"city"   json:"city,omitempty"`
	Type   models.PropertyType    `form:"type"   json:"type,omitempty"`
	Status models.MarketingStatus `form:"status" json:"status,omitempty"`

	DeliveryYears []int `form:"delivery_years" json:"delivery_years,omitempty"`
	Bedrooms      []int `form:"bedrooms"       json:"bedrooms,omitempty"`

	MinBathrooms int `form:"min_bathrooms" json:"min_bathrooms,omitempty"`
	MaxBathrooms int `form:"max_bathrooms" json:"max_bathrooms,omitempty"`
	MinParking   int `form:"min_parking"   json:"min_parking,omitempty"`
	MaxParking   int `form:"max_parking"   json:"max_parking,omitempty"`

	MinPrice float64 `form:"min_price" json:"min_price,omitempty"`
	MaxPrice float64 `form:"max_price" json:"max_price,omitempty"`

	MinFloorArea float64 `form:"min_floor_area" json:"min_floor_area,omitempty"`
	MaxFloorArea float64 `form:"max_floor_area" json:"max_floor_area,omitempty"`

	SeaFront    bool `form:"sea_front"    json:"sea_front,omitempty"`
	Furnished   bool `form:"furnished"    json:"furnished,omitempty"`
	SeaView     bool `form:"sea_view"     json:"sea_view,omitempty"`
	LeisureArea bool `form:"leisure_area" json:"leisure_area,omitempty"`

	// IncludeUnpublished lets administrator views see drafts. Public
	// searches never match unpublished listings.
	IncludeUnpublished bool `form:"-" json:"-"`

	Sort Sort `form:"sort" json:"sort,omitempty"`
}

// Matches reports whether l satisfies every provided constraint.
func (f *Filter) Matches(l *models.Listing) bool {
	if !l.Published && !f.IncludeUnpublished {
		return false
	}
	if f.City != "" && l.Location.City != f.City {
		return false
	}
	if f.Type != "" && l.Type != f.Type {
		return false
	}
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if len(f.DeliveryYears) > 0 && !containsInt(f.DeliveryYears, l.Features.DeliveryYear) {
		return false
	}
	if len(f.Bedrooms) > 0 && !containsInt(f.Bedrooms, l.Features.Bedrooms) {
		return false
	}
	if f.MinBathrooms > 0 && l.Features.Bathrooms < f.MinBathrooms {
		return false
	}
	if f.MaxBathrooms > 0 && l.Features.Bathrooms > f.MaxBathrooms {
		return false
	}
	if f.MinParking > 0 && l.Features.Parking < f.MinParking {
		return false
	}
	if f.MaxParking > 0 && l.Features.Parking > f.MaxParking {
		return false
	}
	if f.MinPrice > 0 && l.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && l.Price > f.MaxPrice {
		return false
	}
	if f.MinFloorArea > 0 && l.Features.FloorArea < f.MinFloorArea {
		return false
	}
	if f.MaxFloorArea > 0 && l.Features.FloorArea > f.MaxFloorArea {
		return false
	}
	if f.SeaFront && !l.Features.SeaFront {
		return false
	}
	if f.Furnished && !l.Features.Furnished {
		return false
	}
	if f.SeaView && !l.Features.SeaView {
		return false
	}
	if f.LeisureArea && !l.Features.LeisureArea {
		return false
	}
	return true
}

// Search filters listings by f and returns them in the requested order.
// The input slice is not modified; relative order of ties is preserved.
func Search(listings []models.Listing, f *Filter) []models.Listing {
	matched := make([]models.Listing, 0, len(listings))
	for i := range listings {
		if f.Matches(&listings[i]) {
			matched = append(matched, listings[i])
		}
	}
	sortListings(matched, f.Sort)
	return matched
}

func containsInt(set []int, v int) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
