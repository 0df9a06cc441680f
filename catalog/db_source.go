package catalog

import (
	"context"
	"fmt"

	"github.com/kitcomfeedback-cell/kitchen-store/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DBSource builds the catalog from the categories/products tables: active
// top-level categories, their active subcategories and active products.
type DBSource struct {
	DB *gorm.DB
}

func (s DBSource) Load(ctx context.Context) (*models.Catalog, error) {
	var parents []models.CategoryRecord
	err := s.DB.WithContext(ctx).
		Where("parent_id IS NULL AND status = ?", models.CategoryStatusActive).
		Preload("Children", func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", models.CategoryStatusActive).Order("position ASC, name ASC")
		}).
		Preload("Children.Products", func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", models.ProductStatusActive).Order("position ASC, created_at ASC")
		}).
		Order("position ASC, name ASC").
		Find(&parents).Error
	if err != nil {
		return nil, fmt.Errorf("catalog: load categories: %w", err)
	}
	return FromRecords(parents), nil
}

// FromRecords converts preloaded category rows into the catalog document.
func FromRecords(parents []models.CategoryRecord) *models.Catalog {
	c := &models.Catalog{Categories: make([]models.CatalogCategory, 0, len(parents))}
	for _, parent := range parents {
		cat := models.CatalogCategory{Name: parent.Name}
		for _, child := range parent.Children {
			sub := models.CatalogSubcategory{Name: child.Name}
			for _, rec := range child.Products {
				sub.Products = append(sub.Products, productFromRecord(rec))
			}
			cat.Subcategories = append(cat.Subcategories, sub)
		}
		c.Categories = append(c.Categories, cat)
	}
	return c
}

func productFromRecord(rec models.ProductRecord) models.CatalogProduct {
	p := models.CatalogProduct{
		ID:          rec.CatalogID,
		Title:       rec.Name,
		Link:        rec.Link,
		Description: rec.Description,
		Images:      []string(rec.Gallery),
	}
	if p.ID == "" {
		p.ID = rec.ID.String()
	}
	if rec.Price != nil {
		p.Price = models.Number(*rec.Price)
	}
	if rec.Currency != "" {
		cur := rec.Currency
		p.Currency = &cur
	}
	if rec.Brand != "" {
		brand := rec.Brand
		p.Brand = &brand
	}
	if url := rec.Media.Data().Primary.URL; url != "" {
		p.Image = &url
	}
	return p
}

// ToRecords is the inverse of FromRecords, used when seeding the database
// from a catalog document.
func ToRecords(c *models.Catalog) []models.CategoryRecord {
	if c == nil {
		return nil
	}
	out := make([]models.CategoryRecord, 0, len(c.Categories))
	for i, cat := range c.Categories {
		parent := models.CategoryRecord{Name: cat.Name, Status: models.CategoryStatusActive, Position: i}
		for j, sub := range cat.Subcategories {
			child := models.CategoryRecord{Name: sub.Name, Status: models.CategoryStatusActive, Position: j}
			for k, raw := range sub.Products {
				child.Products = append(child.Products, recordFromProduct(raw, k))
			}
			parent.Children = append(parent.Children, child)
		}
		out = append(out, parent)
	}
	return out
}

func recordFromProduct(raw models.CatalogProduct, position int) models.ProductRecord {
	rec := models.ProductRecord{
		CatalogID:   raw.ID,
		Name:        raw.Title,
		Description: raw.Description,
		Link:        raw.Link,
		Status:      models.ProductStatusActive,
		Position:    position,
	}
	if raw.Price.Valid {
		price := raw.Price.Value
		rec.Price = &price
	}
	if raw.Currency != nil {
		rec.Currency = *raw.Currency
	}
	if raw.Brand != nil {
		rec.Brand = *raw.Brand
	}
	var media models.ProductMedia
	if raw.Image != nil {
		media.Primary.URL = *raw.Image
	}
	rec.Media = datatypes.NewJSONType(media)
	rec.Gallery = append(datatypes.JSONSlice[string]{}, raw.Images...)
	return rec
}
