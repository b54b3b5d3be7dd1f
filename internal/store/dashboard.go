package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"invoicedesk/internal/models"
)

// DashboardStats is the at-a-glance summary shown on startup.
type DashboardStats struct {
	YTDRevenue     decimal.Decimal
	MTDRevenue     decimal.Decimal
	TotalInvoices  int64
	TotalCustomers int64
	Recent         []InvoiceRow
}

// Dashboard computes revenue and volume metrics as of the given day.
// Year-to-date and month-to-date windows are inclusive prefixes of the
// lexically ordered ISO date column.
func (s *Store) Dashboard(today time.Time) (*DashboardStats, error) {
	yearStart := time.Date(today.Year(), 1, 1, 0, 0, 0, 0, today.Location()).Format("2006-01-02")
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).Format("2006-01-02")

	stats := &DashboardStats{}
	if err := s.sumTotalsSince(yearStart, &stats.YTDRevenue); err != nil {
		return nil, err
	}
	if err := s.sumTotalsSince(monthStart, &stats.MTDRevenue); err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Invoice{}).Count(&stats.TotalInvoices).Error; err != nil {
		return nil, fmt.Errorf("count invoices: %w", err)
	}
	if err := s.DB.Model(&models.Customer{}).Count(&stats.TotalCustomers).Error; err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}

	err := s.DB.Model(&models.Invoice{}).
		Select("invoices.*, customers.name AS customer_name").
		Joins("LEFT JOIN customers ON customers.id = invoices.customer_id").
		Order("invoices.date DESC, invoices.id DESC").
		Limit(6).
		Scan(&stats.Recent).Error
	if err != nil {
		return nil, fmt.Errorf("recent invoices: %w", err)
	}
	return stats, nil
}

func (s *Store) sumTotalsSince(start string, out *decimal.Decimal) error {
	var raw sql.NullString
	err := s.DB.Model(&models.Invoice{}).
		Select("SUM(total_amount)").
		Where("date >= ?", start).
		Scan(&raw).Error
	if err != nil {
		return fmt.Errorf("sum revenue since %s: %w", start, err)
	}
	if !raw.Valid {
		*out = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(raw.String)
	if err != nil {
		return fmt.Errorf("parse revenue sum %q: %w", raw.String, err)
	}
	*out = d
	return nil
}
