package models

import "time"

// Company is the seller profile printed on every invoice. At most one row
// ever exists: created on first save, updated thereafter, never deleted.
type Company struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Address   string
	Contact   string
	NTN       string // national tax number
	STRN      string // sales tax registration number
	CreatedAt time.Time
	UpdatedAt time.Time
}
