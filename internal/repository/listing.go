// Package repository is the gateway to the remote document store. Every
// operation is a full-document read-modify-write: fetch the collection,
// mutate it in memory, write the whole thing back. There is no row-level
// write and no optimistic concurrency check; across concurrent
// administrators the last writer wins, in full.
package repository

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/imobsite/listing-manager/internal/docstore"
	"github.com/imobsite/listing-manager/internal/logger"
	"github.com/imobsite/listing-manager/internal/merge"
	"github.com/imobsite/listing-manager/internal/metrics"
	"github.com/imobsite/listing-manager/internal/models"
)

type ListingRepository struct {
	store      docstore.Store
	collection string
	logger     logger.Logger
	metrics    *metrics.Metrics
}

func NewListingRepository(store docstore.Store, collection string, log logger.Logger, m *metrics.Metrics) *ListingRepository {
	return &ListingRepository{
		store:      store,
		collection: collection,
		logger:     log,
		metrics:    m,
	}
}

// GetAll fetches the whole collection, normalizes legacy encodings, and
// filters out unpublished listings unless includeUnpublished is set.
func (r *ListingRepository) GetAll(ctx context.Context, includeUnpublished bool) ([]models.Listing, error) {
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if includeUnpublished {
		return all, nil
	}

	published := make([]models.Listing, 0, len(all))
	for _, l := range all {
		if l.Published {
			published = append(published, l)
		}
	}
	return published, nil
}

// GetByID returns a single listing or models.ErrNotFound.
func (r *ListingRepository) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("id %s: %w", id, models.ErrNotFound)
}

// Create validates the listing, encodes any raw photos onto it, assigns
// identity and timestamps, and appends it to the collection.
func (r *ListingRepository) Create(ctx context.Context, l *models.Listing, photos [][]byte) (string, error) {
	for _, p := range photos {
		l.Photos = append(l.Photos, EncodePhoto(p))
	}

	if err := l.Validate(); err != nil {
		return "", err
	}
	l.NormalizePhotoIndex()

	all, err := r.load(ctx)
	if err != nil {
		return "", err
	}

	if l.Featured && countFeatured(all, "") >= models.MaxFeatured {
		return "", models.ErrFeaturedLimit
	}

	l.ID = uuid.New().String()
	l.Slug = models.Slugify(l.Title)
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now

	all = append(all, *l)
	if err := r.save(ctx, all); err != nil {
		return "", err
	}

	r.logger.Info("Listing created",
		logger.String("listing_id", l.ID),
		logger.String("slug", l.Slug),
	)
	return l.ID, nil
}

// Update replaces the stored listing with l. Existing photo URLs arrive on
// l verbatim; raw photos are encoded and appended. The slug is regenerated
// only when the title changed, and feed override arrays omitted from l
// default to the stored values rather than being cleared.
func (r *ListingRepository) Update(ctx context.Context, id string, l *models.Listing, photos [][]byte) error {
	return r.update(ctx, id, l, photos, true)
}

// Replace stores l exactly as given. Callers that mutated a listing loaded
// from the collection use this path: an empty feed selection here means the
// caller cleared it, not that the field was omitted, so nothing from the
// stored state is restored onto l.
func (r *ListingRepository) Replace(ctx context.Context, id string, l *models.Listing) error {
	return r.update(ctx, id, l, nil, false)
}

func (r *ListingRepository) update(ctx context.Context, id string, l *models.Listing, photos [][]byte, preserveOverrides bool) error {
	all, err := r.load(ctx)
	if err != nil {
		return err
	}

	idx := indexByID(all, id)
	if idx < 0 {
		return fmt.Errorf("id %s: %w", id, models.ErrNotFound)
	}
	prev := all[idx]

	for _, p := range photos {
		l.Photos = append(l.Photos, EncodePhoto(p))
	}

	if err := l.Validate(); err != nil {
		return err
	}
	l.NormalizePhotoIndex()

	if l.Featured && countFeatured(all, id) >= models.MaxFeatured {
		return models.ErrFeaturedLimit
	}

	l.ID = prev.ID
	l.CreatedAt = prev.CreatedAt
	l.UpdatedAt = time.Now().UTC()
	if l.Title != prev.Title {
		l.Slug = models.Slugify(l.Title)
	} else {
		l.Slug = prev.Slug
	}
	if preserveOverrides {
		merge.PreserveOverrides(l, &prev)
	}

	all[idx] = *l
	if err := r.save(ctx, all); err != nil {
		return err
	}

	r.logger.Info("Listing updated",
		logger.String("listing_id", id),
	)
	return nil
}

// Delete removes the listing record. Photo blobs referenced by the listing
// are not cascade-deleted; orphan cleanup is an external concern.
func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	all, err := r.load(ctx)
	if err != nil {
		return err
	}

	idx := indexByID(all, id)
	if idx < 0 {
		return fmt.Errorf("id %s: %w", id, models.ErrNotFound)
	}

	all = append(all[:idx], all[idx+1:]...)
	if err := r.save(ctx, all); err != nil {
		return err
	}

	r.logger.Info("Listing deleted",
		logger.String("listing_id", id),
	)
	return nil
}

// SetFeatured toggles the homepage showcase flag. The system-wide cap of
// models.MaxFeatured is enforced here, at write time; on failure the
// collection is left unchanged.
func (r *ListingRepository) SetFeatured(ctx context.Context, id string, featured bool) error {
	all, err := r.load(ctx)
	if err != nil {
		return err
	}

	idx := indexByID(all, id)
	if idx < 0 {
		return fmt.Errorf("id %s: %w", id, models.ErrNotFound)
	}

	if featured && !all[idx].Featured && countFeatured(all, id) >= models.MaxFeatured {
		return models.ErrFeaturedLimit
	}

	all[idx].Featured = featured
	all[idx].UpdatedAt = time.Now().UTC()

	if err := r.save(ctx, all); err != nil {
		return err
	}

	r.logger.Info("Listing featured flag changed",
		logger.String("listing_id", id),
		logger.Bool("featured", featured),
	)
	return nil
}

// ReplaceAll writes the given collection state back in one document. The
// feed sync service uses this after merging a whole batch.
func (r *ListingRepository) ReplaceAll(ctx context.Context, all []models.Listing) error {
	return r.save(ctx, all)
}

func (r *ListingRepository) load(ctx context.Context) ([]models.Listing, error) {
	start := time.Now()
	raw, err := r.store.GetCollection(ctx, r.collection)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}
	if r.metrics != nil {
		r.metrics.StoreReads.Inc()
		r.metrics.ReadDuration.Observe(time.Since(start).Seconds())
	}
	return decodeCollection(raw)
}

func (r *ListingRepository) save(ctx context.Context, all []models.Listing) error {
	doc, err := encodeCollection(all)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := r.store.PutCollection(ctx, r.collection, doc); err != nil {
		if r.metrics != nil {
			r.metrics.StoreWriteErrors.Inc()
		}
		return fmt.Errorf("save listings: %w", err)
	}
	if r.metrics != nil {
		r.metrics.StoreWrites.Inc()
		r.metrics.WriteDuration.Observe(time.Since(start).Seconds())
	}
	return nil
}

func indexByID(all []models.Listing, id string) int {
	for i := range all {
		if all[i].ID == id {
			return i
		}
	}
	return -1
}

func countFeatured(all []models.Listing, excludeID string) int {
	count := 0
	for i := range all {
		if all[i].Featured && all[i].ID != excludeID {
			count++
		}
	}
	return count
}

// EncodePhoto converts raw photo bytes into the text-safe data URL the
// document store can hold alongside the listing JSON.
func EncodePhoto(data []byte) string {
	mime := http.DetectContentType(data)
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
}
