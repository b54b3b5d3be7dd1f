package store

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"invoicedesk/internal/models"
)

func (s *Store) CreateProduct(p *models.Product) error {
	if err := s.DB.Create(p).Error; err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (s *Store) UpdateProduct(p *models.Product) error {
	if err := s.DB.Save(p).Error; err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateProductPrice changes only the list price, leaving the rest of the
// row untouched.
func (s *Store) UpdateProductPrice(id uint, price decimal.Decimal) error {
	if err := s.DB.Model(&models.Product{}).Where("id = ?", id).Update("unit_price", price).Error; err != nil {
		return fmt.Errorf("update product price: %w", err)
	}
	return nil
}

func (s *Store) ProductByID(id uint) (*models.Product, error) {
	var p models.Product
	if err := s.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Products lists the catalog ordered by name. Soft-deleted rows are
// excluded unless includeInactive is set.
func (s *Store) Products(includeInactive bool) ([]models.Product, error) {
	q := s.DB.Order("name ASC")
	if !includeInactive {
		q = q.Where("active = ?", true)
	}
	var out []models.Product
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

// SearchProducts matches name, description, sku or barcode among active
// products.
func (s *Store) SearchProducts(query string) ([]models.Product, error) {
	q := "%" + query + "%"
	var out []models.Product
	err := s.DB.
		Where("(name LIKE ? OR description LIKE ? OR sku LIKE ? OR barcode LIKE ?) AND active = ?", q, q, q, q, true).
		Order("name ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return out, nil
}

// DeleteProduct is a soft delete: the row stays so historical invoice lines
// keep resolving, it just disappears from default listings.
func (s *Store) DeleteProduct(id uint) error {
	if err := s.DB.Model(&models.Product{}).Where("id = ?", id).Update("active", false).Error; err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	return nil
}

// PriceFor returns the customer-specific price for a product, or nil when
// no override exists (callers fall back to the list price).
func (s *Store) PriceFor(customerID, productID uint) (*decimal.Decimal, error) {
	if customerID == 0 {
		return nil, nil
	}
	var po models.PriceOverride
	err := s.DB.Where("customer_id = ? AND product_id = ?", customerID, productID).First(&po).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup price override: %w", err)
	}
	return &po.CustomPrice, nil
}

// UpsertPriceOverride inserts or replaces the (customer, product) price.
func (s *Store) UpsertPriceOverride(customerID, productID uint, price decimal.Decimal) error {
	po := models.PriceOverride{CustomerID: customerID, ProductID: productID, CustomPrice: price}
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "customer_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"custom_price", "updated_at"}),
	}).Create(&po).Error
	if err != nil {
		return fmt.Errorf("upsert price override: %w", err)
	}
	return nil
}

// PriceOverrideRow is an override joined with its product for list views.
type PriceOverrideRow struct {
	ID           uint
	ProductID    uint
	ProductName  string
	CustomPrice  decimal.Decimal
	DefaultPrice decimal.Decimal
}

// PriceOverridesForCustomer lists a customer's overrides with product names
// and list prices, ordered by product name.
func (s *Store) PriceOverridesForCustomer(customerID uint) ([]PriceOverrideRow, error) {
	var rows []PriceOverrideRow
	err := s.DB.Model(&models.PriceOverride{}).
		Select("price_overrides.id, price_overrides.product_id, products.name AS product_name, price_overrides.custom_price, products.unit_price AS default_price").
		Joins("JOIN products ON products.id = price_overrides.product_id").
		Where("price_overrides.customer_id = ?", customerID).
		Order("products.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list price overrides: %w", err)
	}
	return rows, nil
}

func (s *Store) DeletePriceOverride(customerID, productID uint) error {
	err := s.DB.Where("customer_id = ? AND product_id = ?", customerID, productID).
		Delete(&models.PriceOverride{}).Error
	if err != nil {
		return fmt.Errorf("delete price override: %w", err)
	}
	return nil
}

// UpsertProductByName updates an existing product matched by exact name or
// inserts a new one. Reports whether a new row was created.
func (s *Store) UpsertProductByName(p *models.Product) (bool, error) {
	var existing models.Product
	err := s.DB.Where("name = ?", p.Name).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		if err := s.DB.Create(p).Error; err != nil {
			return false, fmt.Errorf("import product: %w", err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup product: %w", err)
	}
	existing.Description = p.Description
	existing.SKU = p.SKU
	existing.Barcode = p.Barcode
	existing.UnitPrice = p.UnitPrice
	existing.TaxRate = p.TaxRate
	existing.Active = p.Active
	if err := s.DB.Save(&existing).Error; err != nil {
		return false, fmt.Errorf("import product: %w", err)
	}
	p.ID = existing.ID
	return false, nil
}
