package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a buyer. Deletion is blocked while invoices reference it.
type Customer struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null;index"`
	Address   string
	NTN       string
	STRN      string
	Contact   string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PriceOverride pins a customer-specific unit price for one product,
// unique per (customer, product) with insert-or-replace semantics.
type PriceOverride struct {
	ID          uint            `gorm:"primaryKey"`
	CustomerID  uint            `gorm:"not null;uniqueIndex:idx_customer_product"`
	ProductID   uint            `gorm:"not null;uniqueIndex:idx_customer_product"`
	CustomPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
