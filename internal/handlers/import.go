package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imobsite/listing-manager/internal/events"
	"github.com/imobsite/listing-manager/internal/importer"
	"github.com/imobsite/listing-manager/internal/logger"
	"github.com/imobsite/listing-manager/internal/merge"
)

// ImportHandler serves the admin-side bulk paths: feed sync batches and
// spreadsheet uploads.
type ImportHandler struct {
	syncer    *importer.FeedSyncer
	listings  *ListingHandler
	publisher *events.Publisher
	logger    logger.Logger
}

func NewImportHandler(syncer *importer.FeedSyncer, listings *ListingHandler, publisher *events.Publisher, log logger.Logger) *ImportHandler {
	return &ImportHandler{
		syncer:    syncer,
		listings:  listings,
		publisher: publisher,
		logger:    log,
	}
}

// Sync merges a batch of external feed records. Skipped records come back
// in the response body with their reasons; the stored listings they map to
// are untouched.
func (h *ImportHandler) Sync(c *gin.Context) {
	var records []merge.FeedRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid feed batch", "details": err.Error()})
		return
	}

	result, err := h.syncer.Sync(c.Request.Context(), records)
	if err != nil {
		h.listings.writeError(c, err, "Feed sync failed")
		return
	}

	h.publisher.PublishAsync(events.ListingEvent{
		EventType: events.ListingSynced,
	})

	c.JSON(http.StatusOK, result)
}

// ImportSpreadsheet accepts an .xlsx of manual listings and creates the
// valid rows. Row errors are reported per row number.
func (h *ImportHandler) ImportSpreadsheet(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing spreadsheet file", "details": err.Error()})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open upload", "details": err.Error()})
		return
	}
	defer f.Close()

	parsed, rowErrs, err := importer.ParseListings(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse spreadsheet", "details": err.Error()})
		return
	}

	created := 0
	for i := range parsed {
		id, createErr := h.listings.repo.Create(c.Request.Context(), &parsed[i].Listing, nil)
		if createErr != nil {
			rowErrs = append(rowErrs, importer.ImportError{Row: parsed[i].Row, Error: createErr.Error()})
			continue
		}
		created++
		h.publisher.PublishAsync(events.ListingEvent{
			EventType: events.ListingCreated,
			ListingID: id,
			Slug:      parsed[i].Listing.Slug,
		})
	}

	h.logger.Info("Spreadsheet import finished",
		logger.Int("created", created),
		logger.Int("rejected", len(rowErrs)),
	)

	c.JSON(http.StatusOK, gin.H{
		"created": created,
		"errors":  rowErrs,
	})
}
