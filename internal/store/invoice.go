package store

import (
	"fmt"

	"gorm.io/gorm"

	"invoicedesk/internal/models"
)

// InvoiceRow is an invoice header joined with its customer name for list
// views. The join is outer on purpose: an invoice whose customer was
// removed still lists, with an empty name, instead of vanishing.
type InvoiceRow struct {
	models.Invoice
	CustomerName string
}

// InvoiceDetail carries the header plus the customer snapshot the renderer
// needs.
type InvoiceDetail struct {
	models.Invoice
	CustomerName    string
	CustomerAddress string
	CustomerNTN     string
	CustomerSTRN    string
	CustomerContact string
}

// CreateInvoiceWithItems commits an invoice header and all of its lines in
// one transaction. The invoice number is checked for uniqueness inside the
// transaction, and an empty item set is rejected outright: a partial or
// itemless invoice must never become visible to readers. Returns the new
// invoice id.
func (s *Store) CreateInvoiceWithItems(inv *models.Invoice, items []models.InvoiceItem) (uint, error) {
	if len(items) == 0 {
		return 0, ErrNoItems
	}
	// Items are inserted explicitly below; never let gorm cascade them.
	inv.Items = nil

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Invoice{}).Where("invoice_no = ?", inv.InvoiceNo).Count(&count).Error; err != nil {
			return fmt.Errorf("check invoice number: %w", err)
		}
		if count > 0 {
			return ErrDuplicateInvoiceNo
		}
		if err := tx.Create(inv).Error; err != nil {
			return fmt.Errorf("insert invoice: %w", err)
		}
		for i := range items {
			items[i].ID = 0
			items[i].InvoiceID = inv.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("insert invoice items: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inv.ID, nil
}

// Invoices lists all invoices with customer names, newest first.
func (s *Store) Invoices() ([]InvoiceRow, error) {
	var rows []InvoiceRow
	err := s.DB.Model(&models.Invoice{}).
		Select("invoices.*, customers.name AS customer_name").
		Joins("LEFT JOIN customers ON customers.id = invoices.customer_id").
		Order("invoices.date DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return rows, nil
}

// SearchInvoices matches by invoice number or customer name.
func (s *Store) SearchInvoices(query string) ([]InvoiceRow, error) {
	q := "%" + query + "%"
	var rows []InvoiceRow
	err := s.DB.Model(&models.Invoice{}).
		Select("invoices.*, customers.name AS customer_name").
		Joins("LEFT JOIN customers ON customers.id = invoices.customer_id").
		Where("invoices.invoice_no LIKE ? OR customers.name LIKE ?", q, q).
		Order("invoices.date DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("search invoices: %w", err)
	}
	return rows, nil
}

// InvoiceByID loads one invoice header with its customer snapshot.
func (s *Store) InvoiceByID(id uint) (*InvoiceDetail, error) {
	var row InvoiceDetail
	res := s.DB.Model(&models.Invoice{}).
		Select("invoices.*, customers.name AS customer_name, customers.address AS customer_address, customers.ntn AS customer_ntn, customers.strn AS customer_strn, customers.contact AS customer_contact").
		Joins("LEFT JOIN customers ON customers.id = invoices.customer_id").
		Where("invoices.id = ?", id).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return nil, fmt.Errorf("load invoice: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

// InvoiceItems returns the lines of an invoice in insertion order.
func (s *Store) InvoiceItems(invoiceID uint) ([]models.InvoiceItem, error) {
	var items []models.InvoiceItem
	if err := s.DB.Where("invoice_id = ?", invoiceID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load invoice items: %w", err)
	}
	return items, nil
}

// AttachPDFPath records where the rendered document landed. This is the
// only mutation an invoice sees after commit.
func (s *Store) AttachPDFPath(invoiceID uint, path string) error {
	if err := s.DB.Model(&models.Invoice{}).Where("id = ?", invoiceID).Update("pdf_path", path).Error; err != nil {
		return fmt.Errorf("attach pdf path: %w", err)
	}
	return nil
}

// DeleteInvoice removes the lines first, then the header, in one
// transaction (FK ordering).
func (s *Store) DeleteInvoice(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error; err != nil {
			return fmt.Errorf("delete invoice items: %w", err)
		}
		if err := tx.Delete(&models.Invoice{}, id).Error; err != nil {
			return fmt.Errorf("delete invoice: %w", err)
		}
		return nil
	})
}

// LatestInvoiceNo returns the most recently created invoice number, or ""
// when no invoice exists. Used to bootstrap the numbering sequence.
func (s *Store) LatestInvoiceNo() (string, error) {
	var rows []models.Invoice
	if err := s.DB.Select("invoice_no").Order("id DESC").Limit(1).Find(&rows).Error; err != nil {
		return "", fmt.Errorf("latest invoice number: %w", err)
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].InvoiceNo, nil
}

// InvoiceNoExists reports whether a number is already taken.
func (s *Store) InvoiceNoExists(no string) (bool, error) {
	var count int64
	if err := s.DB.Model(&models.Invoice{}).Where("invoice_no = ?", no).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check invoice number: %w", err)
	}
	return count > 0, nil
}
