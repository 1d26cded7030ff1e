package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDecimal parses a user-entered currency or area value in Brazilian
// locale format ("1.234.567,89"). Plain machine formats ("1234567.89") are
// accepted too. Parsing never fails hard: a value that cannot be understood
// yields 0 and ok=false, so admin forms warn instead of blocking a save.
func ParseDecimal(s string) (value float64, ok bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if strings.Contains(s, ",") {
		// Locale format: dots are thousands separators, comma is decimal.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else if strings.Count(s, ".") > 1 {
		// Multiple dots with no comma: "1.234.567" thousands-only input.
		s = strings.ReplaceAll(s, ".", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// FormattedPrice renders the listing price for display ("R$ 1.234.567,89").
// A zero price renders as "Consulte" (price on request). Derived only; the
// stored price is never mutated.
func (l *Listing) FormattedPrice() string {
	if l.Price == 0 {
		return "Consulte"
	}
	return formatBRL(l.Price)
}

func formatBRL(v float64) string {
	cents := int64(v*100 + 0.5)
	whole := cents / 100
	frac := cents % 100

	digits := strconv.FormatInt(whole, 10)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	return fmt.Sprintf("R$ %s,%02d", strings.Join(groups, "."), frac)
}
