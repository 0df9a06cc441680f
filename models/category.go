package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CategoryStatusActive   = "Active"
	CategoryStatusInactive = "Inactive"
	ProductStatusActive    = "Active"
	ProductStatusDraft     = "Draft"
)

// CategoryRecord is a row of the categories table. Top-level categories have
// no parent; subcategories point at their parent and own the products.
type CategoryRecord struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string     `json:"name" gorm:"not null"`
	Status    string     `json:"status" gorm:"type:varchar(20);default:'Active';check:status IN ('Active', 'Inactive')"`
	ParentID  *uuid.UUID `json:"parent_id" gorm:"type:uuid;index"`
	Position  int        `json:"position" gorm:"not null;default:0"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	Children []CategoryRecord `json:"children,omitempty" gorm:"foreignKey:ParentID"`
	Products []ProductRecord  `json:"products,omitempty" gorm:"foreignKey:SubCategoryID"`
}

// BeforeCreate hook - auto-generate UUID v7
func (c *CategoryRecord) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}

func (CategoryRecord) TableName() string {
	return "categories"
}

type MediaURL struct {
	URL   string `json:"url"`
	Order *int   `json:"order,omitempty"`
}

type ProductMedia struct {
	Primary MediaURL   `json:"primary"`
	Other   []MediaURL `json:"other,omitempty"`
}

// ProductRecord is a row of the products table. CatalogID keeps the id the
// static catalog uses so deep links survive a move to the database.
type ProductRecord struct {
	ID            uuid.UUID                        `json:"id" gorm:"type:uuid;primaryKey"`
	CatalogID     string                           `json:"catalog_id" gorm:"uniqueIndex;not null"`
	Name          string                           `json:"name" gorm:"not null;index"`
	Description   string                           `json:"description" gorm:"not null;default:''"`
	Brand         string                           `json:"brand" gorm:"not null;default:''"`
	Price         *float64                         `json:"price" gorm:"type:numeric(12,2);check:price >= 0"`
	Currency      string                           `json:"currency" gorm:"type:varchar(8);not null;default:''"`
	Link          string                           `json:"link" gorm:"not null;default:''"`
	SubCategoryID uuid.UUID                        `json:"sub_category_id" gorm:"type:uuid;not null;index:idx_products_subcategory"`
	Status        string                           `json:"status" gorm:"not null;default:'Active';check:status IN ('Active', 'Draft');index"`
	Media         datatypes.JSONType[ProductMedia] `json:"media" gorm:"type:jsonb;not null;default:'{}'"`
	Gallery       datatypes.JSONSlice[string]      `json:"gallery" gorm:"type:jsonb;not null;default:'[]'"`
	Position      int                              `json:"position" gorm:"not null;default:0"`
	CreatedAt     time.Time                        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time                        `json:"updated_at" gorm:"autoUpdateTime"`
}

// BeforeCreate hook - auto-generate UUID v7
func (p *ProductRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}

func (ProductRecord) TableName() string {
	return "products"
}
