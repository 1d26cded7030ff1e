package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/imobsite/listing-manager/internal/models"
)

// Column indices for the listing spreadsheet template (0-based).
const (
	colTitle     = 0 // Column A
	colCity      = 1 // Column B
	colType      = 2 // Column C
	colStatus    = 3 // Column D
	colPrice     = 4 // Column E
	colBedrooms  = 5 // Column F
	colBathrooms = 6 // Column G
	colParking   = 7 // Column H
	colFloorArea = 8 // Column I
	colDescr     = 9 // Column J

	minRequiredColumns = 5
)

// ImportError reports a rejected spreadsheet row.
type ImportError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ParsedRow pairs a parsed listing with the spreadsheet row it came from,
// so failures after parsing can still name the offending row.
type ParsedRow struct {
	Row     int
	Listing models.Listing
}

// ParseListings reads an .xlsx upload of manually entered listings. Row 1
// is the header. Each data row is validated independently; bad rows are
// reported with their row number and do not block the good ones. Price and
// floor area accept the Brazilian locale format and fall back to 0 when
// unparseable, matching the admin form behavior.
func ParseListings(r io.Reader) ([]ParsedRow, []ImportError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	var listings []ParsedRow
	var importErrs []ImportError

	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		rowNum := i + 1

		if isEmptyRow(row) {
			continue
		}
		if len(row) < minRequiredColumns {
			importErrs = append(importErrs, ImportError{Row: rowNum, Error: "row has too few columns"})
			continue
		}

		l, rowErr := parseRow(row)
		if rowErr != "" {
			importErrs = append(importErrs, ImportError{Row: rowNum, Error: rowErr})
			continue
		}
		listings = append(listings, ParsedRow{Row: rowNum, Listing: l})
	}

	return listings, importErrs, nil
}

func parseRow(row []string) (models.Listing, string) {
	l := models.Listing{
		Title:  strings.TrimSpace(cell(row, colTitle)),
		Type:   models.PropertyType(strings.TrimSpace(cell(row, colType))),
		Status: models.MarketingStatus(strings.TrimSpace(cell(row, colStatus))),
		Location: models.Location{
			City: strings.ToLower(strings.TrimSpace(cell(row, colCity))),
		},
		Description: strings.TrimSpace(cell(row, colDescr)),
	}

	if l.Title == "" {
		return l, "title is required"
	}
	if !models.CityServed(l.Location.City) {
		return l, fmt.Sprintf("city %q is not served", l.Location.City)
	}

	l.Price, _ = models.ParseDecimal(cell(row, colPrice))
	l.Features.FloorArea, _ = models.ParseDecimal(cell(row, colFloorArea))
	l.Features.Bedrooms = parseCount(cell(row, colBedrooms))
	l.Features.Bathrooms = parseCount(cell(row, colBathrooms))
	l.Features.Parking = parseCount(cell(row, colParking))

	l.Slug = models.Slugify(l.Title)
	return l, ""
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
