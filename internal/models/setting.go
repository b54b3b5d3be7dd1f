package models

// Setting is a generic key/value preference row. It backs the invoice
// numbering sequence, the default PDF directory, and the app lock hash.
type Setting struct {
	Key   string `gorm:"primaryKey;size:64"`
	Value string
}

// Setting keys used across the application.
const (
	SettingInvoicePrefix   = "invoice_prefix"
	SettingInvoiceSequence = "invoice_sequence"
	SettingDefaultPDFDir   = "default_pdf_dir"
	SettingAutoOpenPDF     = "auto_open_pdf"
	SettingAppPasswordHash = "app_password_hash"
)
