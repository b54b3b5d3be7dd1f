package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"text/tabwriter"

	"invoicedesk/internal/money"
	"invoicedesk/internal/pdf"
	"invoicedesk/internal/services"
	"invoicedesk/internal/store"
)

// itemList collects repeated --item flags.
type itemList []string

func (l *itemList) String() string { return strings.Join(*l, "; ") }

func (l *itemList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// parseItem turns "product=3,qty=240,price=650" into an invoice line.
// Keys: product, desc, qty, price, salestax, advtax. Only qty is always
// required; price and desc fall back to the catalog when product is set.
func parseItem(s string) (services.ItemInput, error) {
	var in services.ItemInput
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return in, fmt.Errorf("item part %q: want key=value", part)
		}
		key, val := strings.ToLower(strings.TrimSpace(kv[0])), strings.TrimSpace(kv[1])
		switch key {
		case "product":
			id, err := strconv.ParseUint(val, 10, 32)
			if err != nil {
				return in, fmt.Errorf("item product %q: not a product id", val)
			}
			pid := uint(id)
			in.ProductID = &pid
		case "desc", "description":
			in.Description = val
		case "qty":
			in.Qty = val
		case "price", "unitprice":
			in.UnitPrice = val
		case "salestax":
			in.SalesTaxPercent = val
		case "advtax":
			in.AdvanceTaxPercent = val
		default:
			return in, fmt.Errorf("item key %q not recognized", key)
		}
	}
	return in, nil
}

func (a *app) invoiceCmd(args []string) {
	if len(args) == 0 {
		log.Fatal("usage: invoicedesk invoice <create|list|search|show|pdf|delete>")
	}
	switch args[0] {
	case "create":
		a.invoiceCreateCmd(args[1:])
	case "list", "search":
		var (
			rows []store.InvoiceRow
			err  error
		)
		if args[0] == "search" {
			if len(args) < 2 {
				log.Fatal("usage: invoicedesk invoice search <query>")
			}
			rows, err = a.store.SearchInvoices(strings.Join(args[1:], " "))
		} else {
			rows, err = a.store.Invoices()
		}
		if err != nil {
			log.Fatalf("list invoices: %v", err)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNO\tDATE\tCUSTOMER\tTOTAL\tPDF")
		for _, row := range rows {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				row.ID, row.InvoiceNo, row.Date, row.CustomerName,
				money.FormatMoney(row.TotalAmount), row.PDFPath)
		}
		w.Flush()
	case "show":
		fs := flag.NewFlagSet("invoice show", flag.ExitOnError)
		id := fs.Uint("id", 0, "invoice id (required)")
		fs.Parse(args[1:])
		if *id == 0 {
			log.Fatal("invoice show: --id is required")
		}
		a.printInvoice(*id)
	case "pdf":
		fs := flag.NewFlagSet("invoice pdf", flag.ExitOnError)
		id := fs.Uint("id", 0, "invoice id (required)")
		out := fs.String("out", "", "output file (default <pdf dir>/invoice_<no>.pdf)")
		fs.Parse(args[1:])
		if *id == 0 {
			log.Fatal("invoice pdf: --id is required")
		}
		doc, err := a.invoices.Document(*id)
		if err != nil {
			log.Fatalf("load invoice %d: %v", *id, err)
		}
		path := *out
		if path == "" {
			prefs, err := a.prefs.Get()
			if err != nil {
				log.Fatalf("preferences: %v", err)
			}
			if err := os.MkdirAll(prefs.DefaultPDFDir, 0o755); err != nil {
				log.Fatalf("create pdf dir: %v", err)
			}
			path = filepath.Join(prefs.DefaultPDFDir, fmt.Sprintf("invoice_%s.pdf", pdf.SafeName(doc.InvoiceNo)))
		}
		if err := a.renderer.RenderFile(doc, path); err != nil {
			log.Fatalf("render: %v", err)
		}
		fmt.Println(path)
	case "delete":
		fs := flag.NewFlagSet("invoice delete", flag.ExitOnError)
		id := fs.Uint("id", 0, "invoice id (required)")
		fs.Parse(args[1:])
		if *id == 0 {
			log.Fatal("invoice delete: --id is required")
		}
		if err := a.store.DeleteInvoice(*id); err != nil {
			log.Fatalf("delete invoice: %v", err)
		}
		fmt.Printf("invoice %d deleted\n", *id)
	default:
		log.Fatalf("unknown invoice action %q", args[0])
	}
}

func (a *app) invoiceCreateCmd(args []string) {
	fs := flag.NewFlagSet("invoice create", flag.ExitOnError)
	customer := fs.Uint("customer", 0, "customer id (required)")
	number := fs.String("no", "", "invoice number (default next in sequence)")
	date := fs.String("date", "", "invoice date YYYY-MM-DD (default today)")
	notes := fs.String("notes", "", "notes printed under the totals")
	shippedTo := fs.String("shipped-to", "", "delivery address (default customer address)")
	var items itemList
	fs.Var(&items, "item", "invoice line, e.g. product=3,qty=240 (repeatable)")
	fs.Parse(args)

	in := services.CreateInvoiceInput{
		InvoiceNo:  *number,
		CustomerID: *customer,
		Date:       *date,
		Notes:      *notes,
		ShippedTo:  *shippedTo,
	}
	for _, raw := range items {
		item, err := parseItem(raw)
		if err != nil {
			log.Fatalf("invoice create: %v", err)
		}
		in.Items = append(in.Items, item)
	}

	res, err := a.invoices.Create(in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCompanyMissing):
			log.Fatal("no company profile yet; run 'invoicedesk company set --name ...' first")
		case errors.Is(err, services.ErrCustomerRequired):
			log.Fatal("invoice create: --customer must name an existing customer")
		case errors.Is(err, store.ErrNoItems):
			log.Fatal("invoice create: at least one --item is required")
		default:
			log.Fatalf("invoice create: %v", err)
		}
	}

	fmt.Printf("invoice %s saved (id %d)\n", res.InvoiceNo, res.InvoiceID)
	if res.RenderErr != nil {
		log.Printf("warning: invoice saved but pdf failed: %v", res.RenderErr)
		return
	}
	fmt.Printf("pdf written to %s\n", res.PDFPath)

	prefs, err := a.prefs.Get()
	if err == nil && prefs.AutoOpenPDF {
		if err := openFile(res.PDFPath); err != nil {
			log.Printf("could not open pdf viewer: %v", err)
		}
	}
}

func (a *app) printInvoice(id uint) {
	det, err := a.store.InvoiceByID(id)
	if err != nil {
		log.Fatalf("load invoice %d: %v", id, err)
	}
	items, err := a.store.InvoiceItems(id)
	if err != nil {
		log.Fatalf("load items: %v", err)
	}

	fmt.Printf("Invoice:    %s\n", det.InvoiceNo)
	fmt.Printf("Date:       %s\n", det.Date)
	fmt.Printf("Customer:   %s\n", det.CustomerName)
	if det.ShippedTo != "" {
		fmt.Printf("Shipped to: %s\n", det.ShippedTo)
	}
	if det.PDFPath != "" {
		fmt.Printf("PDF:        %s\n", det.PDFPath)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tDESCRIPTION\tQTY\tPRICE\tVALUE\tS/TAX\tADV TAX\tTOTAL")
	for i, it := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, it.Description, money.FormatQty(it.Qty),
			money.FormatMoney(it.UnitPrice), money.FormatMoney(it.Value),
			money.FormatMoney(it.SalesTaxAmount), money.FormatMoney(it.AdvanceTaxAmount),
			money.FormatMoney(it.TotalAmount))
	}
	w.Flush()

	fmt.Println()
	fmt.Printf("Subtotal:     %s\n", money.FormatMoney(det.Subtotal))
	fmt.Printf("Sales tax:    %s\n", money.FormatMoney(det.SalesTax))
	fmt.Printf("Advance tax:  %s\n", money.FormatMoney(det.AdvanceTax))
	fmt.Printf("Total:        %s\n", money.FormatMoney(det.TotalAmount))
	if det.Notes != "" {
		fmt.Printf("\nNotes: %s\n", det.Notes)
	}
}

func (a *app) regenerateCmd(args []string) {
	fs := flag.NewFlagSet("regenerate-pdfs", flag.ExitOnError)
	out := fs.String("out", a.cfg.ExportDir(), "output directory")
	fs.Parse(args)

	paths, err := a.invoices.RegenerateAllPDFs(*out)
	if err != nil {
		log.Fatalf("regenerate pdfs: %v", err)
	}
	fmt.Printf("%d invoices rendered into %s\n", len(paths), *out)
}

// openFile hands a rendered document to the platform viewer.
func openFile(path string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path).Start()
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path).Start()
	default:
		return exec.Command("xdg-open", path).Start()
	}
}
