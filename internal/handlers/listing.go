// Package handlers exposes the listing core over HTTP for the public site
// and the admin area.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/imobsite/listing-manager/internal/events"
	"github.com/imobsite/listing-manager/internal/logger"
	"github.com/imobsite/listing-manager/internal/models"
	"github.com/imobsite/listing-manager/internal/photos"
	"github.com/imobsite/listing-manager/internal/repository"
	"github.com/imobsite/listing-manager/internal/search"
)

// maxPhotoBytes caps a single uploaded photo.
const maxPhotoBytes = 8 << 20

// PhotoCache caches serialized photo groupings per listing. Satisfied by
// *cache.ImageCache; a nil implementation misses on every read.
type PhotoCache interface {
	Get(ctx context.Context, listingID string) (payload []byte, ok bool)
	Set(ctx context.Context, listingID string, payload []byte)
	Invalidate(ctx context.Context, listingID string)
}

type ListingHandler struct {
	repo      *repository.ListingRepository
	images    PhotoCache
	publisher *events.Publisher
	pageSize  int
	logger    logger.Logger
}

func NewListingHandler(
	repo *repository.ListingRepository,
	images PhotoCache,
	publisher *events.Publisher,
	pageSize int,
	log logger.Logger,
) *ListingHandler {
	return &ListingHandler{
		repo:      repo,
		images:    images,
		publisher: publisher,
		pageSize:  pageSize,
		logger:    log,
	}
}

// Search serves the public listing search. Unpublished listings are never
// visible here regardless of query parameters.
func (h *ListingHandler) Search(c *gin.Context) {
	h.search(c, false)
}

// AdminList serves the admin collection view, drafts included.
func (h *ListingHandler) AdminList(c *gin.Context) {
	h.search(c, true)
}

func (h *ListingHandler) search(c *gin.Context, includeUnpublished bool) {
	var filter search.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.logger.Debug("Invalid search query",
			logger.String("error", err.Error()),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid search query", "details": err.Error()})
		return
	}
	filter.IncludeUnpublished = includeUnpublished

	listings, err := h.repo.GetAll(c.Request.Context(), includeUnpublished)
	if err != nil {
		h.logger.Error("Failed to load listings",
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load listings"})
		return
	}

	matched := search.Search(listings, &filter)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	result := search.Paginate(matched, page, h.pageSize)

	c.JSON(http.StatusOK, result)
}

// GetByID returns one listing with its resolved photo grouping.
func (h *ListingHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	listing, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Debug("Listing not found",
			logger.String("listing_id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listing": listing,
		"photos":  h.resolvePhotos(c, listing),
	})
}

// resolvePhotos serves the photo grouping through the image cache. The
// grouping is cached as serialized JSON so the principal/secondary/gallery
// boundaries survive the round trip; a hit and a miss render identically.
// The grouping is derived state, so a miss just recomputes it.
func (h *ListingHandler) resolvePhotos(c *gin.Context, l *models.Listing) photos.Selection {
	ctx := c.Request.Context()
	if payload, ok := h.images.Get(ctx, l.ID); ok {
		var sel photos.Selection
		if err := json.Unmarshal(payload, &sel); err == nil {
			return sel
		}
		h.images.Invalidate(ctx, l.ID)
	}

	sel := photos.Resolve(l)
	if payload, err := json.Marshal(sel); err == nil {
		h.images.Set(ctx, l.ID, payload)
	}
	return sel
}

// Create accepts a new manual listing: a JSON body, or a multipart form
// with a "listing" JSON field plus "photos" files.
func (h *ListingHandler) Create(c *gin.Context) {
	listing, photoBytes, ok := h.bindListing(c)
	if !ok {
		return
	}

	id, err := h.repo.Create(c.Request.Context(), listing, photoBytes)
	if err != nil {
		h.writeError(c, err, "Failed to create listing")
		return
	}

	h.publisher.PublishAsync(events.ListingEvent{
		EventType: events.ListingCreated,
		ListingID: id,
		Slug:      listing.Slug,
	})

	c.JSON(http.StatusCreated, gin.H{"id": id, "listing": listing})
}

// Update replaces a listing whole; partial patches are not supported by
// the document store.
func (h *ListingHandler) Update(c *gin.Context) {
	id := c.Param("id")

	listing, photoBytes, ok := h.bindListing(c)
	if !ok {
		return
	}

	if err := h.repo.Update(c.Request.Context(), id, listing, photoBytes); err != nil {
		h.writeError(c, err, "Failed to update listing")
		return
	}

	h.images.Invalidate(c.Request.Context(), id)
	h.publisher.PublishAsync(events.ListingEvent{
		EventType: events.ListingUpdated,
		ListingID: id,
		Slug:      listing.Slug,
	})

	c.JSON(http.StatusOK, listing)
}

func (h *ListingHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Failed to delete listing")
		return
	}

	h.images.Invalidate(c.Request.Context(), id)
	h.publisher.PublishAsync(events.ListingEvent{
		EventType: events.ListingDeleted,
		ListingID: id,
	})

	c.JSON(http.StatusNoContent, nil)
}

// SetFeatured toggles the homepage showcase flag. The 3-slot cap is
// enforced by the repository; exceeding it reports a conflict and leaves
// the collection unchanged.
func (h *ListingHandler) SetFeatured(c *gin.Context) {
	id := c.Param("id")

	var body struct {
		Featured bool `json:"featured"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.repo.SetFeatured(c.Request.Context(), id, body.Featured); err != nil {
		h.writeError(c, err, "Failed to change featured flag")
		return
	}

	h.publisher.PublishAsync(events.ListingEvent{
		EventType: events.ListingUpdated,
		ListingID: id,
	})

	c.JSON(http.StatusOK, gin.H{"id": id, "featured": body.Featured})
}

// bindListing decodes the listing payload and any uploaded photos from a
// JSON or multipart request.
func (h *ListingHandler) bindListing(c *gin.Context) (*models.Listing, [][]byte, bool) {
	var listing models.Listing

	contentType := c.ContentType()
	if contentType == "multipart/form-data" {
		raw := c.PostForm("listing")
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing listing field"})
			return nil, nil, false
		}
		if err := json.Unmarshal([]byte(raw), &listing); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing payload", "details": err.Error()})
			return nil, nil, false
		}

		photoBytes, err := h.readPhotos(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid photo upload", "details": err.Error()})
			return nil, nil, false
		}
		return &listing, photoBytes, true
	}

	if err := c.ShouldBindJSON(&listing); err != nil {
		h.logger.Debug("Invalid request body",
			logger.String("error", err.Error()),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return nil, nil, false
	}
	return &listing, nil, true
}

func (h *ListingHandler) readPhotos(c *gin.Context) ([][]byte, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	var out [][]byte
	for _, file := range form.File["photos"] {
		data, readErr := readUpload(file)
		if readErr != nil {
			return nil, readErr
		}
		out = append(out, data)
	}
	return out, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxPhotoBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxPhotoBytes {
		return nil, fmt.Errorf("photo %s exceeds %d bytes", fh.Filename, maxPhotoBytes)
	}
	return data, nil
}

// writeError maps domain errors onto HTTP statuses. Every failure kind in
// the core is distinguishable here.
func (h *ListingHandler) writeError(c *gin.Context, err error, msg string) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "field": validationErr.Field})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
	case errors.Is(err, models.ErrFeaturedLimit):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrWriteFailed):
		h.logger.Error(msg, logger.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Document store write failed"})
	default:
		h.logger.Error(msg, logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
