// Package store is the persistence layer: durable CRUD for every entity
// plus the one composed write, CreateInvoiceWithItems. All access goes
// through an explicitly passed gorm handle; there is no package-level
// connection state.
package store

import (
	"errors"

	"gorm.io/gorm"
)

// Typed conditions callers are expected to branch on. Anything else coming
// out of a Store method is a plain persistence failure wrapped with the
// operation that produced it.
var (
	ErrDuplicateInvoiceNo  = errors.New("duplicate_invoice_number")
	ErrNoItems             = errors.New("invoice_requires_items")
	ErrCustomerHasInvoices = errors.New("customer_has_invoices")
	ErrCompanyNameRequired = errors.New("company_name_required")
)

type Store struct{ DB *gorm.DB }

func New(db *gorm.DB) *Store { return &Store{DB: db} }
