package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kitcomfeedback-cell/kitchen-store/models"
)

var (
	amount    = `(?:rs\.?|pkr)?\s*([\d,]+(?:\.\d+)?)`
	boundedRe = regexp.MustCompile(`(?i)^\s*` + amount + `\s*(?:-|–|to)\s*` + amount + `\s*$`)
	aboveRe   = regexp.MustCompile(`(?i)^\s*(?:above|over|from)\s*` + amount + `\s*$`)
	plusRe    = regexp.MustCompile(`(?i)^\s*` + amount + `\s*(?:\+|and above|or more)\s*$`)
	underRe   = regexp.MustCompile(`(?i)^\s*(?:under|below|upto|up to)\s*` + amount + `\s*$`)
)

// ResolvePriceRange maps a price label to its bounds. Configured labels win
// (case-insensitively), then a stored range carrying the same label, then
// labels that spell out their bounds: "1000-5000", "10,000+", "Under 1000".
func (e *Engine) ResolvePriceRange(label string, hint *models.PriceRange) (models.PriceRange, error) {
	label = strings.TrimSpace(label)
	for _, r := range e.ranges {
		if strings.EqualFold(r.Label, label) {
			return r, nil
		}
	}
	if hint != nil && strings.EqualFold(hint.Label, label) {
		return *hint, nil
	}
	if r, ok := ParsePriceLabel(label); ok {
		return r, nil
	}
	return models.PriceRange{}, fmt.Errorf("%w: %q", ErrUnknownPriceRange, label)
}

// ParsePriceLabel reads bounds out of a label.
func ParsePriceLabel(label string) (models.PriceRange, bool) {
	if m := boundedRe.FindStringSubmatch(label); m != nil {
		low, ok1 := parseAmount(m[1])
		high, ok2 := parseAmount(m[2])
		if !ok1 || !ok2 || high < low {
			return models.PriceRange{}, false
		}
		return models.PriceRange{Min: low, Max: high, Label: label}, true
	}
	if m := underRe.FindStringSubmatch(label); m != nil {
		high, ok := parseAmount(m[1])
		if !ok || high == 0 {
			return models.PriceRange{}, false
		}
		return models.PriceRange{Min: 0, Max: high, Label: label}, true
	}
	m := aboveRe.FindStringSubmatch(label)
	if m == nil {
		m = plusRe.FindStringSubmatch(label)
	}
	if m != nil {
		low, ok := parseAmount(m[1])
		if !ok {
			return models.PriceRange{}, false
		}
		return models.PriceRange{Min: low, Label: label}, true
	}
	return models.PriceRange{}, false
}

func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return v, err == nil && v >= 0
}
