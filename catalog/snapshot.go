package catalog

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/kitcomfeedback-cell/kitchen-store/models"
)

// Snapshot is one loaded catalog with its flattened product list.
// Version changes whenever the flattened content changes.
type Snapshot struct {
	Catalog   *models.Catalog
	Products  []models.Product
	Version   string
	FetchedAt time.Time

	byID map[string]int
}

// NewSnapshot flattens c and indexes it. The first occurrence of a
// duplicated id wins lookups.
func NewSnapshot(c *models.Catalog) *Snapshot {
	if c == nil {
		c = &models.Catalog{}
	}
	products := Flatten(c)
	s := &Snapshot{
		Catalog:   c,
		Products:  products,
		Version:   version(products),
		FetchedAt: time.Now(),
		byID:      make(map[string]int, len(products)),
	}
	for i, p := range products {
		if _, dup := s.byID[p.ID]; !dup {
			s.byID[p.ID] = i
		}
	}
	return s
}

// Product looks a product up by id.
func (s *Snapshot) Product(id string) (models.Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return s.Products[i], true
}

func version(products []models.Product) string {
	data, err := json.Marshal(products)
	if err != nil {
		return ""
	}
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}
