package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imobsite/listing-manager/internal/events"
	"github.com/imobsite/listing-manager/internal/models"
	"github.com/imobsite/listing-manager/internal/photos"
)

type photoRequest struct {
	Photo string `json:"photo" binding:"required"`
}

// SetPrincipal makes the given photo the hero image.
func (h *ListingHandler) SetPrincipal(c *gin.Context) {
	h.photoOp(c, func(l *models.Listing, photo string) error {
		return photos.SetPrincipal(l, photo)
	})
}

// PromoteSecondary moves a gallery photo into the supporting grid.
func (h *ListingHandler) PromoteSecondary(c *gin.Context) {
	h.photoOp(c, func(l *models.Listing, photo string) error {
		return photos.PromoteSecondary(l, photo)
	})
}

// RemovePhoto detaches a photo from the listing.
func (h *ListingHandler) RemovePhoto(c *gin.Context) {
	h.photoOp(c, func(l *models.Listing, photo string) error {
		photos.Remove(l, photo)
		return nil
	})
}

// photoOp runs a pure selection transformation inside the gateway's
// read-modify-write cycle. The selection itself never persists anything;
// only the Update call below does.
func (h *ListingHandler) photoOp(c *gin.Context, op func(*models.Listing, string) error) {
	id := c.Param("id")

	var req photoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	listing, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to load listing")
		return
	}

	if err := op(listing, req.Photo); err != nil {
		h.writeError(c, err, "Photo operation failed")
		return
	}

	// The selection was edited in place on the loaded listing, so an empty
	// feed selection is an explicit clear. Replace stores it verbatim.
	if err := h.repo.Replace(c.Request.Context(), id, listing); err != nil {
		h.writeError(c, err, "Failed to save photo selection")
		return
	}

	h.images.Invalidate(c.Request.Context(), id)
	h.publisher.PublishAsync(events.ListingEvent{
		EventType: events.ListingUpdated,
		ListingID: id,
	})

	c.JSON(http.StatusOK, gin.H{
		"listing": listing,
		"photos":  photos.Resolve(listing),
	})
}
