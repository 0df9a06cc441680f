package catalog

import (
	"math"
	"unicode/utf16"

	"github.com/kitcomfeedback-cell/kitchen-store/models"
)

var promoTags = []string{"Sale", "20% Off", "30% Off", "Hot", "New", ""}

// cut-price multipliers per promo tag
var promoMarkups = map[string]float64{
	"Sale":    1.4,
	"20% Off": 1.2,
	"30% Off": 1.3,
}

// Card decorates a product with its promo tag. The tag is a stable function
// of the product id, so a product keeps its badge across reloads.
func Card(p models.Product) models.ProductCard {
	card := models.ProductCard{Product: p, Tag: promoTag(p.ID)}
	price := p.DisplayPrice()
	if m, ok := promoMarkups[card.Tag]; ok && price > 0 {
		cut := math.Round(price * m)
		card.CutPrice = &cut
		card.SavePercent = int(math.Round((1 - price/cut) * 100))
	}
	return card
}

// Cards decorates a list of products.
func Cards(products []models.Product) []models.ProductCard {
	out := make([]models.ProductCard, len(products))
	for i, p := range products {
		out[i] = Card(p)
	}
	return out
}

func promoTag(id string) string {
	sum := 0
	for _, unit := range utf16.Encode([]rune(id)) {
		sum += int(unit)
	}
	return promoTags[sum%len(promoTags)]
}
