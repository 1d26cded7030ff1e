package models_test

import (
	"testing"

	"github.com/imobsite/listing-manager/internal/models"
)

func validListing() models.Listing {
	return models.Listing{
		Title: "Apartamento Frente Mar",
		Price: 850000,
		Type:  models.PropertyApartment,
		Location: models.Location{
			City: "penha",
		},
		Photos:              []string{"a.jpg", "b.jpg"},
		PrincipalPhotoIndex: 0,
	}
}

func TestListing_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.Listing)
		wantField string
	}{
		{
			name:   "valid listing passes",
			mutate: func(*models.Listing) {},
		},
		{
			name:      "empty title",
			mutate:    func(l *models.Listing) { l.Title = "" },
			wantField: "title",
		},
		{
			name:      "negative price",
			mutate:    func(l *models.Listing) { l.Price = -1 },
			wantField: "price",
		},
		{
			name:      "city not served",
			mutate:    func(l *models.Listing) { l.Location.City = "florianopolis" },
			wantField: "location.city",
		},
		{
			name: "too many secondary photo selections",
			mutate: func(l *models.Listing) {
				l.Feed = &models.FeedLink{
					ExternalID:      "dwv-1",
					SecondaryPhotos: []string{"1", "2", "3", "4", "5"},
				}
			},
			wantField: "feed.secondary_photos",
		},
		{
			name:      "principal index out of range",
			mutate:    func(l *models.Listing) { l.PrincipalPhotoIndex = 7 },
			wantField: "principal_photo_index",
		},
		{
			name:      "negative principal index",
			mutate:    func(l *models.Listing) { l.PrincipalPhotoIndex = -1 },
			wantField: "principal_photo_index",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := validListing()
			tt.mutate(&l)

			err := l.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}

			var vErr *models.ValidationError
			if err == nil {
				t.Fatalf("Validate() = nil, want error on field %s", tt.wantField)
			}
			if !asValidationError(err, &vErr) {
				t.Fatalf("Validate() = %T, want *ValidationError", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("Validate() field = %s, want %s", vErr.Field, tt.wantField)
			}
		})
	}
}

func asValidationError(err error, target **models.ValidationError) bool {
	v, ok := err.(*models.ValidationError)
	if ok {
		*target = v
	}
	return ok
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "diacritics and punctuation",
			title: "Apartamento Frente Mar!",
			want:  "apartamento-frente-mar",
		},
		{
			name:  "accented characters",
			title: "Cobertura à Beira-Mar em Piçarras",
			want:  "cobertura-a-beira-mar-em-picarras",
		},
		{
			name:  "collapsed dashes",
			title: "Casa  --  Nova",
			want:  "casa-nova",
		},
		{
			name:  "leading and trailing noise",
			title: "  !!Lote Comercial!!  ",
			want:  "lote-comercial",
		},
		{
			name:  "numbers survive",
			title: "Residencial Atlântico 2",
			want:  "residencial-atlantico-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := models.Slugify(tt.title)
			if got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
			// Idempotence: slugifying a slug must be a no-op.
			if again := models.Slugify(got); again != got {
				t.Errorf("Slugify(%q) = %q, not idempotent", got, again)
			}
		})
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{"locale with thousands", "1.234.567,89", 1234567.89, true},
		{"locale simple", "850.000,00", 850000, true},
		{"currency prefix", "R$ 1.200,50", 1200.5, true},
		{"machine format", "1234567.89", 1234567.89, true},
		{"thousands only", "1.234.567", 1234567, true},
		{"plain integer", "300000", 300000, true},
		{"garbage softly fails", "trezentos mil", 0, false},
		{"empty softly fails", "", 0, false},
		{"negative softly fails", "-100", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := models.ParseDecimal(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseDecimal(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFormattedPrice(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  string
	}{
		{"full price", 1234567.89, "R$ 1.234.567,89"},
		{"round price", 850000, "R$ 850.000,00"},
		{"small price", 990.5, "R$ 990,50"},
		{"zero renders as on-request", 0, "Consulte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := models.Listing{Price: tt.price}
			if got := l.FormattedPrice(); got != tt.want {
				t.Errorf("FormattedPrice() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizePhotoIndex(t *testing.T) {
	l := validListing()
	l.PrincipalPhotoIndex = 5
	l.NormalizePhotoIndex()
	if l.PrincipalPhotoIndex != 0 {
		t.Errorf("out-of-range index = %d, want 0", l.PrincipalPhotoIndex)
	}

	l.PrincipalPhotoIndex = 1
	l.NormalizePhotoIndex()
	if l.PrincipalPhotoIndex != 1 {
		t.Errorf("valid index clobbered to %d", l.PrincipalPhotoIndex)
	}

	l.Photos = nil
	l.NormalizePhotoIndex()
	if l.PrincipalPhotoIndex != 0 {
		t.Errorf("index with no photos = %d, want 0", l.PrincipalPhotoIndex)
	}
}

func TestPrincipalPhoto_FeedPrecedence(t *testing.T) {
	l := validListing()
	l.Feed = &models.FeedLink{
		ExternalID:     "dwv-9",
		PrincipalPhoto: "hero.jpg",
	}
	if got := l.PrincipalPhoto(); got != "hero.jpg" {
		t.Errorf("PrincipalPhoto() = %q, want feed selection", got)
	}

	l.Feed.PrincipalPhoto = ""
	if got := l.PrincipalPhoto(); got != "a.jpg" {
		t.Errorf("PrincipalPhoto() = %q, want positional fallback a.jpg", got)
	}
}
