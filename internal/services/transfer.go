package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"invoicedesk/internal/models"
	"invoicedesk/internal/money"
	"invoicedesk/internal/store"
)

// ErrUnknownTable rejects an export of a table this service does not
// expose.
var ErrUnknownTable = errors.New("unknown_table")

var exportableTables = map[string]bool{
	"customers": true,
	"products":  true,
}

// TransferService moves reference data in and out as CSV. Imports key
// on the business-unique name column and upsert row by row; exports are
// whole-table dumps.
type TransferService struct {
	Store *store.Store
}

func NewTransferService(st *store.Store) *TransferService {
	return &TransferService{Store: st}
}

// ImportCustomersCSV upserts customers from a header-keyed CSV file.
// Rows without a name are skipped. Returns the number of rows applied.
func (s *TransferService) ImportCustomersCSV(path string) (int, error) {
	rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, row := range rows {
		name := strings.TrimSpace(row["name"])
		if name == "" {
			continue
		}
		c := models.Customer{
			Name:    name,
			Address: row["address"],
			NTN:     row["ntn"],
			STRN:    row["strn"],
			Contact: row["contact"],
			Email:   row["email"],
		}
		if _, err := s.Store.UpsertCustomerByName(&c); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// ImportProductsCSV upserts products from a header-keyed CSV file. Rows
// without a name are skipped, malformed numerics degrade to zero, and
// active defaults to true unless the cell says otherwise. Returns the
// number of rows applied.
func (s *TransferService) ImportProductsCSV(path string) (int, error) {
	rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, row := range rows {
		name := strings.TrimSpace(row["name"])
		if name == "" {
			continue
		}
		active := true
		switch strings.ToLower(strings.TrimSpace(row["active"])) {
		case "0", "false", "no":
			active = false
		}
		p := models.Product{
			Name:        name,
			Description: row["description"],
			SKU:         row["sku"],
			Barcode:     row["barcode"],
			UnitPrice:   money.OrZero(row["unit_price"]),
			TaxRate:     money.OrZero(row["tax_rate"]),
			Active:      active,
		}
		if _, err := s.Store.UpsertProductByName(&p); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// ExportTableCSV dumps every row of a table to path with a header row.
// An empty table writes nothing and leaves no file behind.
func (s *TransferService) ExportTableCSV(table, path string) error {
	if !exportableTables[table] {
		return fmt.Errorf("%s: %w", table, ErrUnknownTable)
	}
	rows, err := s.Store.DB.Table(table).Rows()
	if err != nil {
		return fmt.Errorf("read %s: %w", table, err)
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("read %s columns: %w", table, err)
	}

	var records [][]string
	values := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scan %s: %w", table, err)
		}
		record := make([]string, len(cols))
		for i, v := range values {
			record[i] = cellString(v)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read %s: %w", table, err)
	}
	if len(records) == 0 {
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(cols); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// readCSV loads a header-keyed CSV into one map per row. Ragged rows are
// tolerated; missing cells read as "".
func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv %s: %w", path, err)
		}
		row := make(map[string]string, len(header))
		for i, key := range header {
			if i < len(record) {
				row[key] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
