// Package merge reconciles re-imported external feed records with the
// administrator overrides stored on a listing.
package merge

import (
	"fmt"
	"strings"

	"github.com/imobsite/listing-manager/internal/models"
)

// FeedRecord is one raw listing record from the external feed. Only the
// merge engine consumes these.
type FeedRecord struct {
	ExternalID     string   `json:"external_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	City           string   `json:"city"`
	District       string   `json:"district"`
	Type           string   `json:"type"`
	Bedrooms       int      `json:"bedrooms"`
	Bathrooms      int      `json:"bathrooms"`
	Parking        int      `json:"parking"`
	Suites         int      `json:"suites"`
	FloorArea      float64  `json:"floor_area"`
	DeliveryYear   int      `json:"delivery_year"`
	Photos         []string `json:"photos"`
	Tags           []string `json:"tags"`
	Infrastructure []string `json:"infrastructure"`
}

// Apply refreshes a stored feed-linked listing from rec. Feed-owned fields
// (title, price, photos, tag/infrastructure lists) are replaced; the
// administrator layer (published, featured, photo selections, override
// arrays, created_at) is preserved. The visible tag and infrastructure
// lists are the feed lists with hidden entries filtered out and added
// entries appended.
//
// A record without an external id cannot be matched and is skipped with an
// error wrapping models.ErrMergeSkipped; stored is left untouched.
func Apply(stored *models.Listing, rec FeedRecord) error {
	if rec.ExternalID == "" {
		return fmt.Errorf("%w: record has no external id", models.ErrMergeSkipped)
	}
	if stored.Feed == nil || stored.Feed.ExternalID != rec.ExternalID {
		return fmt.Errorf("%w: external id %q does not match stored listing", models.ErrMergeSkipped, rec.ExternalID)
	}

	stored.Title = rec.Title
	stored.Description = rec.Description
	stored.Price = rec.Price
	if rec.City != "" {
		stored.Location.City = rec.City
	}
	if rec.District != "" {
		stored.Location.District = rec.District
	}
	stored.Features.Bedrooms = rec.Bedrooms
	stored.Features.Bathrooms = rec.Bathrooms
	stored.Features.Parking = rec.Parking
	stored.Features.Suites = rec.Suites
	stored.Features.FloorArea = rec.FloorArea
	stored.Features.DeliveryYear = rec.DeliveryYear
	stored.Photos = rec.Photos
	stored.NormalizePhotoIndex()

	stored.Tags = applyOverrides(rec.Tags, stored.Feed.TagsHidden, stored.Feed.TagsAdded)
	stored.Infrastructure = applyOverrides(rec.Infrastructure, stored.Feed.InfraHidden, stored.Feed.InfraAdded)

	return nil
}

// applyOverrides builds the visible list: feed items minus hidden ones,
// with admin-added items appended. Matching is case-insensitive and
// trimmed; hidden items stay in the override array, they are only filtered
// out of the rendered view. Deterministic for any feed ordering.
func applyOverrides(feed, hidden, added []string) []string {
	hiddenSet := make(map[string]struct{}, len(hidden))
	for _, h := range hidden {
		hiddenSet[canonical(h)] = struct{}{}
	}

	visible := make([]string, 0, len(feed)+len(added))
	seen := make(map[string]struct{}, len(feed)+len(added))
	for _, item := range feed {
		key := canonical(item)
		if key == "" {
			continue
		}
		if _, hide := hiddenSet[key]; hide {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		visible = append(visible, item)
	}

	for _, item := range added {
		key := canonical(item)
		if key == "" {
			continue
		}
		if _, hide := hiddenSet[key]; hide {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		visible = append(visible, item)
	}

	return visible
}

func canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// PreserveOverrides copies non-empty override arrays and photo selections
// from prev when next omits them. A write that leaves an override array out
// means "unchanged", never "cleared".
func PreserveOverrides(next, prev *models.Listing) {
	if next.Feed == nil || prev.Feed == nil {
		return
	}
	if len(next.Feed.TagsHidden) == 0 && len(prev.Feed.TagsHidden) > 0 {
		next.Feed.TagsHidden = prev.Feed.TagsHidden
	}
	if len(next.Feed.TagsAdded) == 0 && len(prev.Feed.TagsAdded) > 0 {
		next.Feed.TagsAdded = prev.Feed.TagsAdded
	}
	if len(next.Feed.InfraHidden) == 0 && len(prev.Feed.InfraHidden) > 0 {
		next.Feed.InfraHidden = prev.Feed.InfraHidden
	}
	if len(next.Feed.InfraAdded) == 0 && len(prev.Feed.InfraAdded) > 0 {
		next.Feed.InfraAdded = prev.Feed.InfraAdded
	}
	if next.Feed.PrincipalPhoto == "" && prev.Feed.PrincipalPhoto != "" {
		next.Feed.PrincipalPhoto = prev.Feed.PrincipalPhoto
	}
	if len(next.Feed.SecondaryPhotos) == 0 && len(prev.Feed.SecondaryPhotos) > 0 {
		next.Feed.SecondaryPhotos = prev.Feed.SecondaryPhotos
	}
}
