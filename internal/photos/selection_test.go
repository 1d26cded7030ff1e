package photos_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imobsite/listing-manager/internal/models"
	"github.com/imobsite/listing-manager/internal/photos"
)

func manualListing(urls ...string) *models.Listing {
	return &models.Listing{
		ID:     "manual-1",
		Photos: urls,
	}
}

func dwvListing() *models.Listing {
	return &models.Listing{
		ID:     "feed-1",
		Photos: []string{"p0.jpg", "p1.jpg", "p2.jpg", "p3.jpg", "p4.jpg", "p5.jpg"},
		Feed: &models.FeedLink{
			ExternalID:      "dwv-7",
			PrincipalPhoto:  "p0.jpg",
			SecondaryPhotos: []string{"p1.jpg", "p2.jpg", "p3.jpg", "p4.jpg"},
		},
	}
}

func TestResolve_PositionalGrouping(t *testing.T) {
	l := manualListing("a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg", "f.jpg", "g.jpg")

	sel := photos.Resolve(l)

	assert.Equal(t, "a.jpg", sel.Principal)
	assert.Equal(t, []string{"b.jpg", "c.jpg", "d.jpg", "e.jpg"}, sel.Secondary)
	assert.Equal(t, []string{"f.jpg", "g.jpg"}, sel.Gallery)
}

func TestResolve_PrincipalIndexMovesGrouping(t *testing.T) {
	l := manualListing("a.jpg", "b.jpg", "c.jpg")
	l.PrincipalPhotoIndex = 2

	sel := photos.Resolve(l)

	assert.Equal(t, "c.jpg", sel.Principal)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, sel.Secondary)
	assert.Empty(t, sel.Gallery)
}

func TestResolve_FeedSelectionsTakePrecedence(t *testing.T) {
	l := dwvListing()
	l.Feed.PrincipalPhoto = "p5.jpg"
	l.Feed.SecondaryPhotos = []string{"p1.jpg", "p2.jpg"}

	sel := photos.Resolve(l)

	assert.Equal(t, "p5.jpg", sel.Principal)
	assert.Equal(t, []string{"p1.jpg", "p2.jpg"}, sel.Secondary)
	assert.Equal(t, []string{"p0.jpg", "p3.jpg", "p4.jpg"}, sel.Gallery)
}

func TestResolve_Empty(t *testing.T) {
	sel := photos.Resolve(manualListing())
	assert.Empty(t, sel.Principal)
	assert.Empty(t, sel.Secondary)
	assert.Empty(t, sel.Gallery)
}

func TestSetPrincipal_DemotesFromSecondary(t *testing.T) {
	l := dwvListing()

	// p2 sits in the full secondary set of 4. Making it principal must
	// shrink the set to exactly 3 before anything else happens.
	require.NoError(t, photos.SetPrincipal(l, "p2.jpg"))

	assert.Equal(t, "p2.jpg", l.Feed.PrincipalPhoto)
	assert.Equal(t, []string{"p1.jpg", "p3.jpg", "p4.jpg"}, l.Feed.SecondaryPhotos)
	assert.Len(t, l.Feed.SecondaryPhotos, 3)
}

func TestSetPrincipal_Manual(t *testing.T) {
	l := manualListing("a.jpg", "b.jpg", "c.jpg")

	require.NoError(t, photos.SetPrincipal(l, "c.jpg"))
	assert.Equal(t, 2, l.PrincipalPhotoIndex)

	err := photos.SetPrincipal(l, "zz.jpg")
	require.Error(t, err)
	var vErr *models.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestPromoteSecondary_FIFOEviction(t *testing.T) {
	l := dwvListing()

	// Secondary is full; promoting p5 must evict the oldest entry (p1)
	// instead of erroring, and the set must never exceed 4.
	require.NoError(t, photos.PromoteSecondary(l, "p5.jpg"))

	assert.Equal(t, []string{"p2.jpg", "p3.jpg", "p4.jpg", "p5.jpg"}, l.Feed.SecondaryPhotos)
	assert.Len(t, l.Feed.SecondaryPhotos, models.MaxSecondaryPhotos)
}

func TestPromoteSecondary_PrincipalRejected(t *testing.T) {
	l := dwvListing()

	err := photos.PromoteSecondary(l, "p0.jpg")
	require.Error(t, err)
}

func TestPromoteSecondary_AlreadySecondaryIsNoOp(t *testing.T) {
	l := dwvListing()

	require.NoError(t, photos.PromoteSecondary(l, "p3.jpg"))
	assert.Equal(t, []string{"p1.jpg", "p2.jpg", "p3.jpg", "p4.jpg"}, l.Feed.SecondaryPhotos)
}

func TestPromoteSecondary_ManualReorder(t *testing.T) {
	l := manualListing("a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg", "f.jpg", "g.jpg")

	// The positional window 1..4 is full; promoting g evicts b (the
	// oldest secondary) to the gallery.
	require.NoError(t, photos.PromoteSecondary(l, "g.jpg"))

	sel := photos.Resolve(l)
	assert.Equal(t, "a.jpg", sel.Principal)
	assert.Equal(t, []string{"c.jpg", "d.jpg", "e.jpg", "g.jpg"}, sel.Secondary)
	assert.Contains(t, sel.Gallery, "b.jpg")
	assert.Contains(t, sel.Gallery, "f.jpg")
}

func TestRemove_PrincipalFallsBack(t *testing.T) {
	l := manualListing("a.jpg", "b.jpg", "c.jpg")
	l.PrincipalPhotoIndex = 0

	photos.Remove(l, "a.jpg")

	assert.Equal(t, []string{"b.jpg", "c.jpg"}, l.Photos)
	assert.Equal(t, 0, l.PrincipalPhotoIndex)
	assert.Equal(t, "b.jpg", l.PrincipalPhoto())
}

func TestRemove_LastPhotoResetsIndex(t *testing.T) {
	l := manualListing("only.jpg")

	photos.Remove(l, "only.jpg")

	assert.Empty(t, l.Photos)
	assert.Equal(t, 0, l.PrincipalPhotoIndex)
	assert.Equal(t, "", l.PrincipalPhoto())
}

func TestRemove_FeedPrincipal(t *testing.T) {
	l := dwvListing()

	photos.Remove(l, "p0.jpg")

	assert.NotContains(t, l.Photos, "p0.jpg")
	assert.Equal(t, "p1.jpg", l.Feed.PrincipalPhoto, "principal falls back to first remaining photo")
}

func TestRemove_SecondaryEntry(t *testing.T) {
	l := dwvListing()

	photos.Remove(l, "p3.jpg")

	assert.Equal(t, []string{"p1.jpg", "p2.jpg", "p4.jpg"}, l.Feed.SecondaryPhotos)
	assert.NotContains(t, l.Photos, "p3.jpg")
}
