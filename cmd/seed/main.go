package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kitcomfeedback-cell/kitchen-store/catalog"
	"github.com/kitcomfeedback-cell/kitchen-store/config"
	"github.com/kitcomfeedback-cell/kitchen-store/models"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// init loads environment variables
func init() {
	_ = godotenv.Load()
}

// main loads the static catalog document into the categories/products tables
// Usage: go run ./cmd/seed [catalog.json]
// This is a standalone CLI tool, not part of the main application
func main() {
	fmt.Println("════════════════════════════════════════════════════════════")
	fmt.Println("KITCHEN STORE - Catalog Seeder")
	fmt.Println("════════════════════════════════════════════════════════════")
	fmt.Println()

	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	if len(os.Args) > 1 {
		settings.CatalogPath = os.Args[1]
	}
	if settings.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "❌ DATABASE_URL is not set")
		os.Exit(1)
	}

	log, err := config.NewLogger(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := config.WithCustomTimeout(2 * time.Minute)
	defer cancel()

	db, err := config.ConnectDB(ctx, settings, log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close(log)

	doc, err := catalog.FileSource{Path: settings.CatalogPath}.Load(ctx)
	if err != nil {
		log.Fatal("failed to read catalog", zap.String("path", settings.CatalogPath), zap.Error(err))
	}
	log.Info("catalog read", zap.String("path", settings.CatalogPath), zap.Int("products", doc.ProductCount()))

	if err := db.Gorm.AutoMigrate(&models.CategoryRecord{}, &models.ProductRecord{}); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	var stats seedStats
	err = db.Gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return seed(tx, catalog.ToRecords(doc), &stats)
	})
	if err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}

	fmt.Println()
	fmt.Println("════════════════════════════════════════════════════════════")
	fmt.Println("✅ Catalog Seeded Successfully!")
	fmt.Println("════════════════════════════════════════════════════════════")
	fmt.Printf("Categories:    %d\n", stats.categories)
	fmt.Printf("Subcategories: %d\n", stats.subcategories)
	fmt.Printf("Products:      %d\n", stats.products)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("1. Start the server with CATALOG_SOURCE=db: go run . serve")
	fmt.Println("2. Browse GET /api/v1/store/products")
}

type seedStats struct {
	categories    int
	subcategories int
	products      int
}

// seed upserts categories by name under their parent and products by
// catalog id. Re-running it updates rows in place.
func seed(tx *gorm.DB, records []models.CategoryRecord, stats *seedStats) error {
	for _, rec := range records {
		parent := models.CategoryRecord{}
		err := tx.Where("name = ? AND parent_id IS NULL", rec.Name).
			Attrs(models.CategoryRecord{Status: rec.Status, Position: rec.Position}).
			FirstOrCreate(&parent, models.CategoryRecord{Name: rec.Name}).Error
		if err != nil {
			return fmt.Errorf("category %q: %w", rec.Name, err)
		}
		stats.categories++

		for _, sub := range rec.Children {
			child := models.CategoryRecord{}
			err := tx.Where("name = ? AND parent_id = ?", sub.Name, parent.ID).
				Attrs(models.CategoryRecord{Status: sub.Status, Position: sub.Position, ParentID: &parent.ID}).
				FirstOrCreate(&child, models.CategoryRecord{Name: sub.Name}).Error
			if err != nil {
				return fmt.Errorf("subcategory %q: %w", sub.Name, err)
			}
			stats.subcategories++

			products := lo.UniqBy(
				lo.Filter(sub.Products, func(p models.ProductRecord, _ int) bool { return p.CatalogID != "" && p.Name != "" }),
				func(p models.ProductRecord) string { return p.CatalogID },
			)
			if len(products) == 0 {
				continue
			}
			for i := range products {
				products[i].SubCategoryID = child.ID
			}
			err = tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "catalog_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"name", "description", "brand", "price", "currency", "link",
					"sub_category_id", "status", "media", "gallery", "position", "updated_at",
				}),
			}).Create(&products).Error
			if err != nil {
				return fmt.Errorf("products of %q: %w", sub.Name, err)
			}
			stats.products += len(products)
		}
	}
	return nil
}
