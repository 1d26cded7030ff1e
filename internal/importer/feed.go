// Package importer brings externally sourced listings into the collection:
// periodic batches from the listing feed and one-off spreadsheet uploads
// from the admin area.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/imobsite/listing-manager/internal/logger"
	"github.com/imobsite/listing-manager/internal/merge"
	"github.com/imobsite/listing-manager/internal/metrics"
	"github.com/imobsite/listing-manager/internal/models"
	"github.com/imobsite/listing-manager/internal/repository"
)

// RecordError reports one feed record that could not be merged.
type RecordError struct {
	ExternalID string `json:"external_id"`
	Error      string `json:"error"`
}

// SyncResult summarizes one feed batch.
type SyncResult struct {
	Merged  int           `json:"merged"`
	Created int           `json:"created"`
	Skipped int           `json:"skipped"`
	Errors  []RecordError `json:"errors,omitempty"`
}

// FeedSyncer reconciles feed batches against the stored collection.
type FeedSyncer struct {
	repo    *repository.ListingRepository
	logger  logger.Logger
	metrics *metrics.Metrics
}

func NewFeedSyncer(repo *repository.ListingRepository, log logger.Logger, m *metrics.Metrics) *FeedSyncer {
	return &FeedSyncer{
		repo:    repo,
		logger:  log,
		metrics: m,
	}
}

// Sync merges a batch of feed records into the collection and writes the
// result back in one document. Listings already linked to an external id
// are refreshed through the override-preserving merge; unseen external ids
// become new unpublished listings for an administrator to review. Malformed
// records are skipped and reported, never silently dropped, and a skipped
// record leaves its stored listing untouched. Re-running the same batch is
// idempotent.
func (s *FeedSyncer) Sync(ctx context.Context, records []merge.FeedRecord) (*SyncResult, error) {
	all, err := s.repo.GetAll(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("load collection for sync: %w", err)
	}

	byExternalID := make(map[string]int, len(all))
	for i := range all {
		if all[i].FromFeed() {
			byExternalID[all[i].Feed.ExternalID] = i
		}
	}

	result := &SyncResult{}
	for _, rec := range records {
		rec.Description = HTMLToText(rec.Description)

		if rec.ExternalID == "" {
			s.recordSkip(result, rec, fmt.Errorf("%w: record has no external id", models.ErrMergeSkipped))
			continue
		}

		if idx, ok := byExternalID[rec.ExternalID]; ok {
			if mergeErr := merge.Apply(&all[idx], rec); mergeErr != nil {
				s.recordSkip(result, rec, mergeErr)
				continue
			}
			result.Merged++
		} else {
			all = append(all, s.newFromFeed(rec))
			byExternalID[rec.ExternalID] = len(all) - 1
			result.Created++
		}

		if s.metrics != nil {
			s.metrics.FeedRecordsSynced.Inc()
		}
	}

	if err := s.repo.ReplaceAll(ctx, all); err != nil {
		return nil, fmt.Errorf("write merged collection: %w", err)
	}

	s.logger.Info("Feed sync completed",
		logger.Int("merged", result.Merged),
		logger.Int("created", result.Created),
		logger.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (s *FeedSyncer) recordSkip(result *SyncResult, rec merge.FeedRecord, err error) {
	result.Skipped++
	result.Errors = append(result.Errors, RecordError{
		ExternalID: rec.ExternalID,
		Error:      err.Error(),
	})
	if s.metrics != nil {
		s.metrics.FeedRecordsSkipped.Inc()
	}

	if errors.Is(err, models.ErrMergeSkipped) {
		s.logger.Warn("Feed record skipped",
			logger.String("external_id", rec.ExternalID),
			logger.Error(err),
		)
	}
}

// newFromFeed materializes a listing for an external id we have not seen.
// It starts unpublished; an administrator reviews it, attaches photo
// selections, and publishes.
func (s *FeedSyncer) newFromFeed(rec merge.FeedRecord) models.Listing {
	now := time.Now().UTC()
	l := models.Listing{
		ID:          uuid.New().String(),
		Slug:        models.Slugify(rec.Title),
		Title:       rec.Title,
		Description: rec.Description,
		Price:       rec.Price,
		Type:        models.PropertyType(rec.Type),
		Location: models.Location{
			City:     rec.City,
			District: rec.District,
		},
		Features: models.Features{
			Bedrooms:     rec.Bedrooms,
			Bathrooms:    rec.Bathrooms,
			Parking:      rec.Parking,
			Suites:       rec.Suites,
			FloorArea:    rec.FloorArea,
			DeliveryYear: rec.DeliveryYear,
		},
		Tags:           rec.Tags,
		Infrastructure: rec.Infrastructure,
		Photos:         rec.Photos,
		Published:      false,
		Feed: &models.FeedLink{
			ExternalID: rec.ExternalID,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	l.NormalizePhotoIndex()
	return l
}

// HTMLToText reduces feed-provided HTML markup to plain text. Input that
// carries no markup passes through trimmed.
func HTMLToText(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}

	text := doc.Text()
	return strings.Join(strings.Fields(text), " ")
}
