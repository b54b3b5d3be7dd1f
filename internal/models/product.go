package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is catalog reference data. Deletion is soft: Active flips to
// false and reads default to active-only, keeping historical invoice
// lines resolvable.
type Product struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null;index"`
	Description string
	SKU         string
	Barcode     string
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(5,2);not null;default:18"` // percent
	Active      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
