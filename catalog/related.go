package catalog

import (
	"sort"
	"strings"

	"github.com/kitcomfeedback-cell/kitchen-store/models"
	"github.com/samber/lo"
)

const (
	RelatedLimit = 50
	// related products fall back to broader matches below this count
	relatedFloor = 10
)

// Detail returns a product ready for the detail page: a missing price shows
// as zero and a missing image as the placeholder.
func Detail(p models.Product) models.Product {
	if p.Price == nil {
		zero := 0.0
		p.Price = &zero
	}
	if p.Image == nil {
		img := PlaceholderImage
		p.Image = &img
	}
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	return p
}

// Related lists products to show under a product: the same subcategory
// first, then the same top-level category, then products whose titles share
// words with it. Duplicates and the product itself are dropped.
func Related(s *Snapshot, p models.Product, limit int) []models.Product {
	if limit <= 0 {
		limit = RelatedLimit
	}
	others := lo.Filter(s.Products, func(o models.Product, _ int) bool { return o.ID != p.ID })

	related := lo.Filter(others, func(o models.Product, _ int) bool {
		return p.Subcategory != "" && o.Subcategory == p.Subcategory
	})
	if len(related) < relatedFloor && p.Category != "" {
		related = append(related, lo.Filter(others, func(o models.Product, _ int) bool {
			return o.Category == p.Category
		})...)
	}
	if len(related) < relatedFloor {
		related = append(related, keywordMatches(p, others)...)
	}

	related = lo.UniqBy(related, func(o models.Product) string { return o.ID })
	if len(related) > limit {
		related = related[:limit]
	}
	return related
}

func keywordMatches(p models.Product, others []models.Product) []models.Product {
	words := lo.Filter(strings.Fields(strings.ToLower(p.Title)), func(w string, _ int) bool {
		return len([]rune(w)) > 2
	})
	if len(words) == 0 {
		return nil
	}

	type scored struct {
		product models.Product
		score   int
	}
	var hits []scored
	for _, o := range others {
		title := strings.ToLower(o.Title)
		score := lo.CountBy(words, func(w string) bool { return strings.Contains(title, w) })
		if score > 0 {
			hits = append(hits, scored{o, score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	return lo.Map(hits, func(h scored, _ int) models.Product { return h.product })
}
