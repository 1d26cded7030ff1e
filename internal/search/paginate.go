package search

import "github.com/imobsite/listing-manager/internal/models"

// Page is one slice of a filtered and sorted result set.
type Page struct {
	Items      []models.Listing `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalItems int              `json:"total_items"`
	TotalPages int              `json:"total_pages"`
}

// Paginate slices an already filtered and sorted result set. Page numbers
// are 1-based; out-of-range pages clamp to the nearest valid page instead
// of erroring.
func Paginate(listings []models.Listing, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = 1
	}

	totalPages := (len(listings) + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(listings) {
		start = len(listings)
	}
	if end > len(listings) {
		end = len(listings)
	}

	return Page{
		Items:      listings[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: len(listings),
		TotalPages: totalPages,
	}
}
