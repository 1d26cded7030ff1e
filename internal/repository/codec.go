package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/imobsite/listing-manager/internal/models"
)

// The stored collection accumulated legacy encodings over time: featured
// flags written as numbers or strings, timestamps in more than one layout.
// Decoding is tolerant and coerces everything to the closed schema; writing
// back always emits strict booleans and RFC 3339 timestamps, so the
// collection migrates on its next write. Unknown fields are dropped.

// storedListing shadows the fields that need tolerant decoding.
type storedListing struct {
	models.Listing
	Featured  truthyBool `json:"featured"`
	Published truthyBool `json:"published"`
	CreatedAt flexTime   `json:"created_at"`
	UpdatedAt flexTime   `json:"updated_at"`
}

func decodeCollection(raw json.RawMessage) ([]models.Listing, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []models.Listing{}, nil
	}

	var stored []storedListing
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}

	listings := make([]models.Listing, 0, len(stored))
	for _, s := range stored {
		l := s.Listing
		l.Featured = bool(s.Featured)
		l.Published = bool(s.Published)
		l.CreatedAt = time.Time(s.CreatedAt)
		l.UpdatedAt = time.Time(s.UpdatedAt)
		l.NormalizePhotoIndex()
		listings = append(listings, l)
	}
	return listings, nil
}

func encodeCollection(listings []models.Listing) (json.RawMessage, error) {
	doc, err := json.Marshal(listings)
	if err != nil {
		return nil, fmt.Errorf("encode collection: %w", err)
	}
	return doc, nil
}

// truthyBool accepts the encodings that drifted into the stored data:
// booleans, 0/1 numbers, and strings like "true", "1", "sim".
type truthyBool bool

func (b *truthyBool) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch s {
	case "true", "1":
		*b = true
		return nil
	case "false", "0", "null", `""`:
		*b = false
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unquoted := strings.Trim(s, `"`)
		switch strings.ToLower(unquoted) {
		case "true", "1", "sim", "yes":
			*b = true
		default:
			*b = false
		}
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		*b = n != 0
		return nil
	}
	*b = false
	return nil
}

func (b truthyBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}

// flexTime decodes RFC 3339 strings, "2006-01-02 15:04:05" strings, and
// unix-second numbers. Unparseable values decode to the zero time.
type flexTime time.Time

func (t *flexTime) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` || s == "" {
		*t = flexTime(time.Time{})
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		unquoted := strings.Trim(s, `"`)
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, unquoted); err == nil {
				*t = flexTime(parsed)
				return nil
			}
		}
		*t = flexTime(time.Time{})
		return nil
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*t = flexTime(time.Unix(n, 0).UTC())
		return nil
	}
	*t = flexTime(time.Time{})
	return nil
}

func (t flexTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t))
}
