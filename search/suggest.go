package search

import (
	"strings"

	"github.com/kitcomfeedback-cell/kitchen-store/models"
	"github.com/samber/lo"
)

// SuggestionLimit caps the autocomplete list.
const SuggestionLimit = 10

// Suggest lists titles for as-you-type completion: titles starting with the
// term first, then titles containing it, case-insensitively, one entry per
// title. It never pads and never touches the fuzzy index. A blank term
// yields nil.
func Suggest(products []models.Product, term string, limit int) []models.Suggestion {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	if limit <= 0 {
		limit = SuggestionLimit
	}

	var prefix, contains []models.Product
	for _, p := range products {
		title := strings.ToLower(p.Title)
		switch {
		case strings.HasPrefix(title, term):
			prefix = append(prefix, p)
		case strings.Contains(title, term):
			contains = append(contains, p)
		}
	}

	ordered := lo.UniqBy(append(prefix, contains...), func(p models.Product) string { return p.Title })
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}
	return lo.Map(ordered, func(p models.Product, _ int) models.Suggestion {
		return models.Suggestion{ID: p.ID, Title: p.Title}
	})
}
