package store

import (
	"fmt"

	"gorm.io/gorm"

	"invoicedesk/internal/models"
)

func (s *Store) CreateCustomer(c *models.Customer) error {
	if err := s.DB.Create(c).Error; err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

func (s *Store) UpdateCustomer(c *models.Customer) error {
	if err := s.DB.Save(c).Error; err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

func (s *Store) CustomerByID(id uint) (*models.Customer, error) {
	var c models.Customer
	if err := s.DB.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// Customers lists all customers ordered by name.
func (s *Store) Customers() ([]models.Customer, error) {
	var out []models.Customer
	if err := s.DB.Order("name ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return out, nil
}

// SearchCustomers matches name, contact or email, case-insensitive LIKE.
func (s *Store) SearchCustomers(query string) ([]models.Customer, error) {
	q := "%" + query + "%"
	var out []models.Customer
	err := s.DB.
		Where("name LIKE ? OR contact LIKE ? OR email LIKE ?", q, q, q).
		Order("name ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	return out, nil
}

// DeleteCustomer removes a customer and their price overrides. The delete
// is blocked with ErrCustomerHasInvoices while any invoice references the
// customer, keeping historical documents intact.
func (s *Store) DeleteCustomer(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Invoice{}).Where("customer_id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("check customer references: %w", err)
		}
		if count > 0 {
			return ErrCustomerHasInvoices
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.PriceOverride{}).Error; err != nil {
			return fmt.Errorf("delete customer prices: %w", err)
		}
		if err := tx.Delete(&models.Customer{}, id).Error; err != nil {
			return fmt.Errorf("delete customer: %w", err)
		}
		return nil
	})
}

// UpsertCustomerByName updates an existing customer matched by exact name
// or inserts a new one. CSV imports key on the business-unique name.
// Reports whether a new row was created.
func (s *Store) UpsertCustomerByName(c *models.Customer) (bool, error) {
	var existing models.Customer
	err := s.DB.Where("name = ?", c.Name).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		if err := s.DB.Create(c).Error; err != nil {
			return false, fmt.Errorf("import customer: %w", err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup customer: %w", err)
	}
	existing.Address = c.Address
	existing.NTN = c.NTN
	existing.STRN = c.STRN
	existing.Contact = c.Contact
	existing.Email = c.Email
	if err := s.DB.Save(&existing).Error; err != nil {
		return false, fmt.Errorf("import customer: %w", err)
	}
	c.ID = existing.ID
	return false, nil
}
