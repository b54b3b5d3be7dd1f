package pdf

import (
	"strings"
	"time"

	"invoicedesk/internal/models"
)

// SafeName reshapes an invoice number for use in a file name. Path
// separators and drive colons become hyphens.
func SafeName(invoiceNo string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '-'
		}
		return r
	}, invoiceNo)
}

// CompanyParty adapts the seller record to the renderer.
func CompanyParty(c models.Company) Party {
	return Party{Name: c.Name, Address: c.Address, Contact: c.Contact, NTN: c.NTN, STRN: c.STRN}
}

// CustomerParty adapts a buyer record to the renderer.
func CustomerParty(c models.Customer) Party {
	return Party{Name: c.Name, Address: c.Address, Contact: c.Contact, NTN: c.NTN, STRN: c.STRN}
}

// FromModels shapes stored records into a renderable document. Items
// are numbered in the order given and the date is reshaped from the
// stored ISO form to DD-MM-YYYY for print.
func FromModels(inv models.Invoice, items []models.InvoiceItem, company, customer Party) Document {
	doc := Document{
		InvoiceNo: inv.InvoiceNo,
		Date:      displayDate(inv.Date),
		Notes:     inv.Notes,
		ShippedTo: inv.ShippedTo,
		Company:   company,
		Customer:  customer,
		Items:     make([]Item, 0, len(items)),
	}
	for i, it := range items {
		doc.Items = append(doc.Items, Item{
			SNo:              i + 1,
			Description:      it.Description,
			Qty:              it.Qty,
			UnitPrice:        it.UnitPrice,
			Value:            it.Value,
			SalesTaxAmount:   it.SalesTaxAmount,
			AdvanceTaxAmount: it.AdvanceTaxAmount,
			TotalAmount:      it.TotalAmount,
		})
	}
	return doc
}

// displayDate reshapes a stored ISO date for print. Values that do not
// parse pass through untouched.
func displayDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02-01-2006")
}
