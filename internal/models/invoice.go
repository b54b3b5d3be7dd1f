package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a committed tax document. The header totals are derived from
// the items at creation time and never recomputed afterwards; the only
// post-commit mutation is attaching the rendered pdf_path. Date is stored
// as ISO "YYYY-MM-DD" text so inclusive range queries stay lexical.
type Invoice struct {
	ID          uint            `gorm:"primaryKey"`
	InvoiceNo   string          `gorm:"not null;uniqueIndex"`
	CustomerID  uint            `gorm:"not null;index"`
	CompanyID   uint            `gorm:"not null"`
	Date        string          `gorm:"size:10;not null;index"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SalesTax    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AdvanceTax  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Notes       string
	PDFPath     string `gorm:"column:pdf_path"`
	ShippedTo   string
	Items       []InvoiceItem `gorm:"foreignKey:InvoiceID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InvoiceItem is one computed line of an invoice. Immutable once written;
// ProductID is nullable so lines survive catalog cleanups.
type InvoiceItem struct {
	ID               uint  `gorm:"primaryKey"`
	InvoiceID        uint  `gorm:"not null;index"`
	ProductID        *uint `gorm:"index"`
	Description      string
	Qty              decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Value            decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SalesTaxAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AdvanceTaxAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}
