package repository_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imobsite/listing-manager/internal/models"
	"github.com/imobsite/listing-manager/internal/photos"
	"github.com/imobsite/listing-manager/internal/repository"
	"github.com/imobsite/listing-manager/internal/testhelpers"
)

const testCollection = "listings"

func newRepo(t *testing.T) (*repository.ListingRepository, *testhelpers.FakeStore) {
	t.Helper()
	store := testhelpers.NewFakeStore()
	repo := repository.NewListingRepository(store, testCollection, testhelpers.NewTestLogger(), nil)
	return repo, store
}

func validListing(title string) *models.Listing {
	return &models.Listing{
		Title:     title,
		Price:     450000,
		Type:      models.PropertyApartment,
		Status:    models.StatusReady,
		Location:  models.Location{City: "penha"},
		Features:  models.Features{Bedrooms: 2, Bathrooms: 1},
		Published: true,
	}
}

func TestCreate_AssignsIdentity(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, validListing("Apartamento Frente Mar"), nil)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, 1, store.Writes)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "apartamento-frente-mar", got.Slug)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestCreate_RejectsInvalid(t *testing.T) {
	repo, store := newRepo(t)

	l := validListing("Casa")
	l.Location.City = "florianopolis"

	_, err := repo.Create(context.Background(), l, nil)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "location.city", verr.Field)
	assert.Equal(t, 0, store.Writes)
}

func TestCreate_EncodesPhotos(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	id, err := repo.Create(ctx, validListing("Casa com Fotos"), [][]byte{png})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.Photos, 1)
	assert.True(t, strings.HasPrefix(got.Photos[0], "data:image/png;base64,"))
}

func TestGetAll_FiltersUnpublished(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()

	require.NoError(t, store.Seed(testCollection, []models.Listing{
		{ID: "a", Published: true},
		{ID: "b", Published: false},
	}))

	public, err := repo.GetAll(ctx, false)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "a", public[0].ID)

	all, err := repo.GetAll(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, _ := newRepo(t)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdate_PreservesCreatedAtAndSlug(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, validListing("Casa na Praia"), nil)
	require.NoError(t, err)
	created, err := repo.GetByID(ctx, id)
	require.NoError(t, err)

	upd := validListing("Casa na Praia")
	upd.Price = 475000
	require.NoError(t, repo.Update(ctx, id, upd, nil))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
	assert.Equal(t, "casa-na-praia", got.Slug)
	assert.Equal(t, float64(475000), got.Price)
}

func TestUpdate_RegeneratesSlugOnTitleChange(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, validListing("Casa na Praia"), nil)
	require.NoError(t, err)

	upd := validListing("Cobertura no Centro")
	require.NoError(t, repo.Update(ctx, id, upd, nil))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "cobertura-no-centro", got.Slug)
}

func TestUpdate_PreservesFeedOverridesWhenOmitted(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()

	stored := *validListing("Residencial Atlantico")
	stored.ID = "feed-1"
	stored.Slug = "residencial-atlantico"
	stored.Feed = &models.FeedLink{
		ExternalID:     "ext-9",
		PrincipalPhoto: "p2",
		TagsHidden:     []string{"Piscina"},
		TagsAdded:      []string{"Vista Mar"},
	}
	require.NoError(t, store.Seed(testCollection, []models.Listing{stored}))

	upd := validListing("Residencial Atlantico")
	upd.Feed = &models.FeedLink{ExternalID: "ext-9"}
	require.NoError(t, repo.Update(ctx, "feed-1", upd, nil))

	got, err := repo.GetByID(ctx, "feed-1")
	require.NoError(t, err)
	require.NotNil(t, got.Feed)
	assert.Equal(t, []string{"Piscina"}, got.Feed.TagsHidden)
	assert.Equal(t, []string{"Vista Mar"}, got.Feed.TagsAdded)
	assert.Equal(t, "p2", got.Feed.PrincipalPhoto)
}

func TestReplace_ClearedSecondarySelectionStaysCleared(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()

	stored := *validListing("Residencial Atlantico")
	stored.ID = "feed-1"
	stored.Photos = []string{"p0", "p1"}
	stored.Feed = &models.FeedLink{
		ExternalID:      "ext-9",
		SecondaryPhotos: []string{"p1"},
	}
	require.NoError(t, store.Seed(testCollection, []models.Listing{stored}))

	got, err := repo.GetByID(ctx, "feed-1")
	require.NoError(t, err)
	photos.Remove(got, "p1")
	require.NoError(t, repo.Replace(ctx, "feed-1", got))

	after, err := repo.GetByID(ctx, "feed-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p0"}, after.Photos)
	assert.Empty(t, after.Feed.SecondaryPhotos, "removed photo must not come back as a selection")
}

func TestReplace_PrincipalNeverAlsoSecondary(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()

	stored := *validListing("Residencial Atlantico")
	stored.ID = "feed-1"
	stored.Photos = []string{"p0", "p1"}
	stored.Feed = &models.FeedLink{
		ExternalID:      "ext-9",
		PrincipalPhoto:  "p0",
		SecondaryPhotos: []string{"p1"},
	}
	require.NoError(t, store.Seed(testCollection, []models.Listing{stored}))

	got, err := repo.GetByID(ctx, "feed-1")
	require.NoError(t, err)
	require.NoError(t, photos.SetPrincipal(got, "p1"))
	require.NoError(t, repo.Replace(ctx, "feed-1", got))

	after, err := repo.GetByID(ctx, "feed-1")
	require.NoError(t, err)
	assert.Equal(t, "p1", after.Feed.PrincipalPhoto)
	assert.NotContains(t, after.Feed.SecondaryPhotos, "p1")
}

func TestCreate_RejectsOutOfRangePrincipalIndex(t *testing.T) {
	repo, store := newRepo(t)

	l := validListing("Casa")
	l.Photos = []string{"p0"}
	l.PrincipalPhotoIndex = 3

	_, err := repo.Create(context.Background(), l, nil)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "principal_photo_index", verr.Field)
	assert.Equal(t, 0, store.Writes)
}

func TestUpdate_RejectsOutOfRangePrincipalIndex(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, validListing("Casa"), nil)
	require.NoError(t, err)

	upd := validListing("Casa")
	upd.Photos = []string{"p0", "p1"}
	upd.PrincipalPhotoIndex = -2

	var verr *models.ValidationError
	require.ErrorAs(t, repo.Update(ctx, id, upd, nil), &verr)
	assert.Equal(t, "principal_photo_index", verr.Field)
}

func TestUpdate_NotFound(t *testing.T) {
	repo, _ := newRepo(t)

	err := repo.Update(context.Background(), "missing", validListing("Casa"), nil)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, validListing("Casa"), nil)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))

	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, id), models.ErrNotFound)
}

func TestSetFeatured_EnforcesCap(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()

	require.NoError(t, store.Seed(testCollection, []models.Listing{
		{ID: "f1", Featured: true},
		{ID: "f2", Featured: true},
		{ID: "f3", Featured: true},
		{ID: "f4"},
	}))
	writesBefore := store.Writes

	err := repo.SetFeatured(ctx, "f4", true)
	assert.ErrorIs(t, err, models.ErrFeaturedLimit)
	assert.Equal(t, writesBefore, store.Writes)

	got, err := repo.GetByID(ctx, "f4")
	require.NoError(t, err)
	assert.False(t, got.Featured)
}

func TestSetFeatured_ReFeaturingIsNotCounted(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()

	require.NoError(t, store.Seed(testCollection, []models.Listing{
		{ID: "f1", Featured: true},
		{ID: "f2", Featured: true},
		{ID: "f3", Featured: true},
	}))

	// Setting the flag on an already featured listing must not trip the cap.
	require.NoError(t, repo.SetFeatured(ctx, "f3", true))

	require.NoError(t, repo.SetFeatured(ctx, "f3", false))
	got, err := repo.GetByID(ctx, "f3")
	require.NoError(t, err)
	assert.False(t, got.Featured)
}

func TestCreate_EnforcesFeaturedCap(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()

	require.NoError(t, store.Seed(testCollection, []models.Listing{
		{ID: "f1", Featured: true},
		{ID: "f2", Featured: true},
		{ID: "f3", Featured: true},
	}))

	l := validListing("Quarta Cobertura")
	l.Featured = true
	_, err := repo.Create(ctx, l, nil)
	assert.ErrorIs(t, err, models.ErrFeaturedLimit)

	all, err := repo.GetAll(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLoad_ToleratesLegacyEncodings(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()

	store.SeedRaw(testCollection, `[
		{"id": "old-1", "title": "Casa", "published": 1, "featured": "sim",
		 "created_at": "2019-03-12 08:30:00", "photos": ["a"], "principal_photo_index": 7},
		{"id": "old-2", "title": "Lote", "published": "false", "featured": 0,
		 "created_at": 1552379400}
	]`)

	all, err := repo.GetAll(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.True(t, all[0].Published)
	assert.True(t, all[0].Featured)
	assert.Equal(t, 2019, all[0].CreatedAt.Year())
	assert.Equal(t, 0, all[0].PrincipalPhotoIndex, "out-of-range index clamps on read")

	assert.False(t, all[1].Published)
	assert.False(t, all[1].Featured)
	assert.Equal(t, 2019, all[1].CreatedAt.UTC().Year())
}

func TestSave_WritesStrictEncodings(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()

	store.SeedRaw(testCollection, `[{"id": "old-1", "title": "Casa",
		"price": 100, "location": {"city": "penha"}, "published": "sim", "featured": 1}]`)

	// Any write migrates the whole document to the strict encoding.
	require.NoError(t, repo.SetFeatured(ctx, "old-1", true))

	raw, err := store.GetCollection(ctx, testCollection)
	require.NoError(t, err)
	doc := string(raw)
	assert.Contains(t, doc, `"published":true`)
	assert.Contains(t, doc, `"featured":true`)
	assert.NotContains(t, doc, `"sim"`)
}

func TestSave_WriteFailureSurfaces(t *testing.T) {
	repo, store := newRepo(t)
	store.FailPut = true

	_, err := repo.Create(context.Background(), validListing("Casa"), nil)
	assert.ErrorIs(t, err, models.ErrWriteFailed)
}

func TestEncodePhoto(t *testing.T) {
	jpeg := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 32)...)
	url := repository.EncodePhoto(jpeg)
	if !strings.HasPrefix(url, "data:image/jpeg;base64,") {
		t.Fatalf("unexpected data url prefix: %q", url[:30])
	}
}

func TestReplaceAll(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, []models.Listing{{ID: "x", Published: true}}))
	assert.Equal(t, 1, store.Writes)

	all, err := repo.GetAll(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "x", all[0].ID)
}

func TestGetAll_ErrorVariants(t *testing.T) {
	repo, store := newRepo(t)

	store.SeedRaw(testCollection, `{"not": "an array"}`)
	_, err := repo.GetAll(context.Background(), true)
	require.Error(t, err)
	assert.False(t, errors.Is(err, models.ErrNotFound))
}
