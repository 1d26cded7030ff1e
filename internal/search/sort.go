package search

import (
	"sort"

	"github.com/imobsite/listing-manager/internal/models"
)

// Sort identifies a result ordering. The values mirror the site's sort
// selector options.
type Sort string

const (
	SortNone         Sort = ""
	SortPriceAsc     Sort = "menor-preco"
	SortPriceDesc    Sort = "maior-preco"
	SortBedroomsDesc Sort = "mais-quartos"
	SortBedroomsAsc  Sort = "menos-quartos"
)

// sortListings orders in place. All orderings are stable: listings that
// compare equal keep their original collection order, so re-running the
// same sort on the same input is deterministic.
func sortListings(listings []models.Listing, by Sort) {
	switch by {
	case SortPriceAsc:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Price < listings[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Price > listings[j].Price
		})
	case SortBedroomsDesc:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Features.Bedrooms > listings[j].Features.Bedrooms
		})
	case SortBedroomsAsc:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Features.Bedrooms < listings[j].Features.Bedrooms
		})
	case SortNone:
		// insertion order
	}
}
