// Package photos resolves and manipulates the principal/secondary/gallery
// grouping of a listing's photos. All operations are pure transformations
// of the in-memory listing; nothing here persists.
package photos

import (
	"github.com/imobsite/listing-manager/internal/models"
)

// Selection is the resolved photo grouping for a listing detail view.
type Selection struct {
	Principal string   `json:"principal"`
	Secondary []string `json:"secondary"`
	Gallery   []string `json:"gallery"`
}

// Resolve computes the hero photo, the supporting grid (up to 4) and the
// overflow gallery. Feed-chosen selections take precedence; otherwise the
// grouping is positional: principal index first, then the next photos in
// order fill the grid.
func Resolve(l *models.Listing) Selection {
	if l.Feed != nil && (l.Feed.PrincipalPhoto != "" || len(l.Feed.SecondaryPhotos) > 0) {
		return resolveFeed(l)
	}
	return resolvePositional(l)
}

func resolveFeed(l *models.Listing) Selection {
	sel := Selection{
		Principal: l.Feed.PrincipalPhoto,
		Secondary: capSecondary(l.Feed.SecondaryPhotos),
	}
	if sel.Principal == "" && len(l.Photos) > 0 {
		sel.Principal = l.Photos[0]
	}

	chosen := make(map[string]struct{}, 1+len(sel.Secondary))
	chosen[sel.Principal] = struct{}{}
	for _, s := range sel.Secondary {
		chosen[s] = struct{}{}
	}
	for _, p := range l.Photos {
		if _, ok := chosen[p]; !ok {
			sel.Gallery = append(sel.Gallery, p)
		}
	}
	return sel
}

func resolvePositional(l *models.Listing) Selection {
	if len(l.Photos) == 0 {
		return Selection{}
	}

	idx := l.PrincipalPhotoIndex
	if idx < 0 || idx >= len(l.Photos) {
		idx = 0
	}

	sel := Selection{Principal: l.Photos[idx]}
	for i, p := range l.Photos {
		if i == idx {
			continue
		}
		if len(sel.Secondary) < models.MaxSecondaryPhotos {
			sel.Secondary = append(sel.Secondary, p)
		} else {
			sel.Gallery = append(sel.Gallery, p)
		}
	}
	return sel
}

func capSecondary(s []string) []string {
	if len(s) > models.MaxSecondaryPhotos {
		return s[:models.MaxSecondaryPhotos]
	}
	return s
}

// SetPrincipal makes photo the hero. A photo currently in the secondary set
// is demoted out of it in the same step; an entry is never in both groups.
func SetPrincipal(l *models.Listing, photo string) error {
	if l.Feed != nil {
		if !contains(l.Photos, photo) && photo != l.Feed.PrincipalPhoto && !contains(l.Feed.SecondaryPhotos, photo) {
			return &models.ValidationError{Field: "photo", Reason: "photo is not attached to this listing"}
		}
		l.Feed.SecondaryPhotos = remove(l.Feed.SecondaryPhotos, photo)
		l.Feed.PrincipalPhoto = photo
		return nil
	}

	idx := indexOf(l.Photos, photo)
	if idx < 0 {
		return &models.ValidationError{Field: "photo", Reason: "photo is not attached to this listing"}
	}
	l.PrincipalPhotoIndex = idx
	return nil
}

// PromoteSecondary moves a gallery photo into the secondary grid. When the
// grid already holds 4 entries the oldest one is evicted back to the
// gallery (FIFO), never an error. The principal photo cannot be demoted by
// promotion.
func PromoteSecondary(l *models.Listing, photo string) error {
	if l.Feed != nil {
		return promoteFeedSecondary(l, photo)
	}
	return promotePositionalSecondary(l, photo)
}

func promoteFeedSecondary(l *models.Listing, photo string) error {
	if photo == l.Feed.PrincipalPhoto {
		return &models.ValidationError{Field: "photo", Reason: "photo is already the principal"}
	}
	if !contains(l.Photos, photo) {
		return &models.ValidationError{Field: "photo", Reason: "photo is not attached to this listing"}
	}
	if contains(l.Feed.SecondaryPhotos, photo) {
		return nil
	}
	if len(l.Feed.SecondaryPhotos) >= models.MaxSecondaryPhotos {
		l.Feed.SecondaryPhotos = l.Feed.SecondaryPhotos[1:]
	}
	l.Feed.SecondaryPhotos = append(l.Feed.SecondaryPhotos, photo)
	return nil
}

// promotePositionalSecondary reorders the photo array so that photo sits in
// the positional secondary window behind the principal. When the window is
// full the photo right after the principal (the oldest secondary) slides
// out into the gallery.
func promotePositionalSecondary(l *models.Listing, photo string) error {
	sel := resolvePositional(l)
	if photo == sel.Principal {
		return &models.ValidationError{Field: "photo", Reason: "photo is already the principal"}
	}
	if indexOf(l.Photos, photo) < 0 {
		return &models.ValidationError{Field: "photo", Reason: "photo is not attached to this listing"}
	}
	if contains(sel.Secondary, photo) {
		return nil
	}

	gallery := remove(sel.Gallery, photo)
	secondary := sel.Secondary
	if len(secondary) >= models.MaxSecondaryPhotos {
		gallery = append([]string{secondary[0]}, gallery...)
		secondary = secondary[1:]
	}
	secondary = append(secondary, photo)

	rebuilt := make([]string, 0, len(l.Photos))
	rebuilt = append(rebuilt, sel.Principal)
	rebuilt = append(rebuilt, secondary...)
	rebuilt = append(rebuilt, gallery...)
	l.Photos = rebuilt
	l.PrincipalPhotoIndex = 0
	return nil
}

// Remove detaches a photo from the listing. When the removed photo was the
// principal, the principal falls back to the first remaining photo, or to
// none when no photos remain.
func Remove(l *models.Listing, photo string) {
	wasPrincipal := l.PrincipalPhoto() == photo

	l.Photos = remove(l.Photos, photo)

	if l.Feed != nil {
		l.Feed.SecondaryPhotos = remove(l.Feed.SecondaryPhotos, photo)
		if l.Feed.PrincipalPhoto == photo {
			l.Feed.PrincipalPhoto = ""
			if len(l.Photos) > 0 {
				l.Feed.PrincipalPhoto = l.Photos[0]
			}
		}
	}

	if wasPrincipal {
		l.PrincipalPhotoIndex = 0
	}
	l.NormalizePhotoIndex()
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func contains(list []string, s string) bool {
	return indexOf(list, s) >= 0
}

func remove(list []string, s string) []string {
	out := list[:0:len(list)]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
