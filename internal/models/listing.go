// Package models defines the listing aggregate and its validation rules.
package models

import (
	"time"
)

// PropertyType classifies a listing.
type PropertyType string

const (
	PropertyHouse      PropertyType = "house"
	PropertyApartment  PropertyType = "apartment"
	PropertyLot        PropertyType = "lot"
	PropertyCommercial PropertyType = "commercial"
	PropertyPenthouse  PropertyType = "penthouse"
)

// MarketingStatus describes the sales stage of a listing.
type MarketingStatus string

const (
	StatusReady             MarketingStatus = "ready"
	StatusLaunch            MarketingStatus = "launch"
	StatusUnderConstruction MarketingStatus = "under-construction"
)

// ServedCities is the closed set of cities the site markets in.
var ServedCities = []string{
	"penha",
	"picarras",
	"barra-velha",
	"itajai",
	"navegantes",
}

// MaxFeatured is the number of homepage showcase slots.
const MaxFeatured = 3

// MaxSecondaryPhotos is the size of the supporting photo grid.
const MaxSecondaryPhotos = 4

// Location is the address block of a listing. Latitude/Longitude of (0,0)
// means the listing has not been geocoded.
type Location struct {
	City       string  `json:"city"`
	District   string  `json:"district,omitempty"`
	Street     string  `json:"street,omitempty"`
	Number     string  `json:"number,omitempty"`
	PostalCode string  `json:"postal_code,omitempty"`
	State      string  `json:"state,omitempty"`
	Latitude   float64 `json:"lat,omitempty"`
	Longitude  float64 `json:"lng,omitempty"`
}

// HasCoordinates reports whether the listing has been geocoded.
func (l Location) HasCoordinates() bool {
	return l.Latitude != 0 || l.Longitude != 0
}

// Features holds the countable attributes and amenity flags of a listing.
type Features struct {
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    int     `json:"bathrooms"`
	Parking      int     `json:"parking"`
	Suites       int     `json:"suites"`
	FloorArea    float64 `json:"floor_area"`
	LotArea      float64 `json:"lot_area,omitempty"`
	DeliveryYear int     `json:"delivery_year,omitempty"`

	SeaFront    bool `json:"sea_front,omitempty"`
	Pool        bool `json:"pool,omitempty"`
	Barbecue    bool `json:"barbecue,omitempty"`
	Gym         bool `json:"gym,omitempty"`
	Concierge   bool `json:"concierge,omitempty"`
	Elevator    bool `json:"elevator,omitempty"`
	Balcony     bool `json:"balcony,omitempty"`
	Veranda     bool `json:"veranda,omitempty"`
	Furnished   bool `json:"furnished,omitempty"`
	SeaView     bool `json:"sea_view,omitempty"`
	LeisureArea bool `json:"leisure_area,omitempty"`
}

// FeedLink carries the linkage to an externally imported record and the
// administrator's correction layer on top of feed-provided data. The four
// override arrays survive re-imports: a sync never removes entries from
// them, only an explicit administrator action does.
type FeedLink struct {
	ExternalID      string   `json:"external_id"`
	PrincipalPhoto  string   `json:"principal_photo,omitempty"`
	SecondaryPhotos []string `json:"secondary_photos,omitempty"`
	TagsHidden      []string `json:"tags_hidden,omitempty"`
	TagsAdded       []string `json:"tags_added,omitempty"`
	InfraHidden     []string `json:"infra_hidden,omitempty"`
	InfraAdded      []string `json:"infra_added,omitempty"`
}

// Listing is the aggregate root of the catalogue.
type Listing struct {
	ID            string          `json:"id"`
	Slug          string          `json:"slug"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	Price         float64         `json:"price"`
	OriginalPrice float64         `json:"original_price,omitempty"`
	Type          PropertyType    `json:"type"`
	Status        MarketingStatus `json:"status"`

	Location Location `json:"location"`
	Features Features `json:"features"`

	Tags           []string `json:"tags,omitempty"`
	Infrastructure []string `json:"infrastructure,omitempty"`

	Photos              []string `json:"photos"`
	PrincipalPhotoIndex int      `json:"principal_photo_index"`

	Published bool `json:"published"`
	Featured  bool `json:"featured"`

	Feed *FeedLink `json:"feed,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromFeed reports whether the listing originates from the external feed.
func (l *Listing) FromFeed() bool {
	return l.Feed != nil && l.Feed.ExternalID != ""
}

// PrincipalPhoto returns the hero photo URL, or "" when the listing has no
// photos. Feed-selected principal photos take precedence over position.
func (l *Listing) PrincipalPhoto() string {
	if l.Feed != nil && l.Feed.PrincipalPhoto != "" {
		return l.Feed.PrincipalPhoto
	}
	if len(l.Photos) == 0 {
		return ""
	}
	if l.PrincipalPhotoIndex < 0 || l.PrincipalPhotoIndex >= len(l.Photos) {
		return l.Photos[0]
	}
	return l.Photos[l.PrincipalPhotoIndex]
}

// NormalizePhotoIndex clamps PrincipalPhotoIndex into range. An empty photo
// list resets the index to 0.
func (l *Listing) NormalizePhotoIndex() {
	if len(l.Photos) == 0 {
		l.PrincipalPhotoIndex = 0
		return
	}
	if l.PrincipalPhotoIndex < 0 || l.PrincipalPhotoIndex >= len(l.Photos) {
		l.PrincipalPhotoIndex = 0
	}
}

// CityServed reports whether city is in the served set.
func CityServed(city string) bool {
	for _, c := range ServedCities {
		if c == city {
			return true
		}
	}
	return false
}

// Validate checks the listing shape before any write is attempted.
func (l *Listing) Validate() error {
	if l.Title == "" {
		return &ValidationError{Field: "title", Reason: "title is required"}
	}
	if l.Price < 0 {
		return &ValidationError{Field: "price", Reason: "price must not be negative"}
	}
	if !CityServed(l.Location.City) {
		return &ValidationError{Field: "location.city", Reason: "city is not served"}
	}
	if l.Feed != nil && len(l.Feed.SecondaryPhotos) > MaxSecondaryPhotos {
		return &ValidationError{Field: "feed.secondary_photos", Reason: "at most 4 secondary photos"}
	}
	if len(l.Photos) > 0 && (l.PrincipalPhotoIndex < 0 || l.PrincipalPhotoIndex >= len(l.Photos)) {
		return &ValidationError{Field: "principal_photo_index", Reason: "index out of range"}
	}
	return nil
}
