package store

import (
	"fmt"
	"strings"

	"invoicedesk/internal/models"
)

// SaveCompany inserts the company profile on first save and updates the
// single existing row afterwards. The row is never deleted.
func (s *Store) SaveCompany(c models.Company) (*models.Company, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Address = strings.TrimSpace(c.Address)
	c.Contact = strings.TrimSpace(c.Contact)
	c.NTN = strings.TrimSpace(c.NTN)
	c.STRN = strings.TrimSpace(c.STRN)
	if c.Name == "" {
		return nil, ErrCompanyNameRequired
	}

	existing, err := s.Company()
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if err := s.DB.Create(&c).Error; err != nil {
			return nil, fmt.Errorf("create company: %w", err)
		}
		return &c, nil
	}
	existing.Name = c.Name
	existing.Address = c.Address
	existing.Contact = c.Contact
	existing.NTN = c.NTN
	existing.STRN = c.STRN
	if err := s.DB.Save(existing).Error; err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}
	return existing, nil
}

// Company returns the single company profile, or nil when none was saved yet.
func (s *Store) Company() (*models.Company, error) {
	var companies []models.Company
	if err := s.DB.Limit(1).Find(&companies).Error; err != nil {
		return nil, fmt.Errorf("load company: %w", err)
	}
	if len(companies) == 0 {
		return nil, nil
	}
	return &companies[0], nil
}
