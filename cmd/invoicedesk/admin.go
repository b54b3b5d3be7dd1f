package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"invoicedesk/internal/config"
	"invoicedesk/internal/db"
	"invoicedesk/internal/money"
	"invoicedesk/internal/services"
)

func (a *app) settingsCmd(args []string) {
	if len(args) == 0 {
		log.Fatal("usage: invoicedesk settings <show|set>")
	}
	switch args[0] {
	case "show":
		p, err := a.prefs.Get()
		if err != nil {
			log.Fatalf("load settings: %v", err)
		}
		next, err := a.numbering.PeekNext()
		if err != nil {
			log.Fatalf("peek next number: %v", err)
		}
		fmt.Printf("Invoice prefix:  %s\n", p.InvoicePrefix)
		fmt.Printf("Next number:     %s (sequence %d)\n", next, p.InvoiceSequence)
		fmt.Printf("PDF directory:   %s\n", p.DefaultPDFDir)
		fmt.Printf("Auto-open PDFs:  %v\n", p.AutoOpenPDF)
	case "set":
		fs := flag.NewFlagSet("settings set", flag.ExitOnError)
		prefix := fs.String("prefix", "", "invoice number prefix")
		sequence := fs.Int("sequence", 0, "next sequence value")
		pdfDir := fs.String("pdf-dir", "", "directory for rendered invoices")
		autoOpen := fs.Bool("auto-open", false, "open pdfs after creating an invoice")
		fs.Parse(args[1:])

		p, err := a.prefs.Get()
		if err != nil {
			log.Fatalf("load settings: %v", err)
		}
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "prefix":
				p.InvoicePrefix = *prefix
			case "sequence":
				p.InvoiceSequence = *sequence
			case "pdf-dir":
				p.DefaultPDFDir = *pdfDir
			case "auto-open":
				p.AutoOpenPDF = *autoOpen
			}
		})
		if err := a.prefs.Save(p); err != nil {
			log.Fatalf("save settings: %v", err)
		}
		fmt.Println("settings saved")
	default:
		log.Fatalf("unknown settings action %q (want show or set)", args[0])
	}
}

func (a *app) lockCmd(args []string) {
	if len(args) == 0 {
		log.Fatal("usage: invoicedesk lock <set|clear|status>")
	}
	switch args[0] {
	case "set":
		fs := flag.NewFlagSet("lock set", flag.ExitOnError)
		password := fs.String("password", "", "new app password (required)")
		fs.Parse(args[1:])
		if *password == "" {
			log.Fatal("lock set: --password is required (use 'lock clear' to remove)")
		}
		if err := a.lock.SetPassword(*password); err != nil {
			log.Fatalf("set password: %v", err)
		}
		fmt.Println("app lock enabled")
	case "clear":
		if err := a.lock.SetPassword(""); err != nil {
			log.Fatalf("clear password: %v", err)
		}
		fmt.Println("app lock removed")
	case "status":
		locked, err := a.lock.IsLocked()
		if err != nil {
			log.Fatalf("lock status: %v", err)
		}
		if locked {
			fmt.Println("locked")
		} else {
			fmt.Println("open")
		}
	default:
		log.Fatalf("unknown lock action %q (want set, clear or status)", args[0])
	}
}

func (a *app) importCmd(args []string) {
	if len(args) != 2 {
		log.Fatal("usage: invoicedesk import <customers|products> <file.csv>")
	}
	kind, path := args[0], args[1]
	var (
		n   int
		err error
	)
	switch kind {
	case "customers":
		n, err = a.transfer.ImportCustomersCSV(path)
	case "products":
		n, err = a.transfer.ImportProductsCSV(path)
	default:
		log.Fatalf("unknown import target %q (want customers or products)", kind)
	}
	if err != nil {
		log.Fatalf("import %s: %v", kind, err)
	}
	fmt.Printf("%d %s imported\n", n, kind)
}

func (a *app) exportCmd(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	table := fs.String("table", "", "table to dump: customers or products (required)")
	out := fs.String("out", "", "output file (default <table>.csv)")
	fs.Parse(args)
	if *table == "" {
		log.Fatal("export: --table is required")
	}
	path := *out
	if path == "" {
		path = *table + ".csv"
	}
	if err := a.transfer.ExportTableCSV(*table, path); err != nil {
		log.Fatalf("export %s: %v", *table, err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Printf("%s is empty, nothing exported\n", *table)
		return
	}
	fmt.Printf("%s exported to %s\n", *table, path)
}

func (a *app) dashboardCmd(args []string) {
	stats, err := a.store.Dashboard(time.Now())
	if err != nil {
		log.Fatalf("dashboard: %v", err)
	}
	fmt.Printf("Revenue YTD:  %s\n", money.FormatMoney(stats.YTDRevenue))
	fmt.Printf("Revenue MTD:  %s\n", money.FormatMoney(stats.MTDRevenue))
	fmt.Printf("Invoices:     %d\n", stats.TotalInvoices)
	fmt.Printf("Customers:    %d\n", stats.TotalCustomers)
	if len(stats.Recent) == 0 {
		return
	}
	fmt.Println("\nRecent invoices:")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NO\tDATE\tCUSTOMER\tTOTAL")
	for _, row := range stats.Recent {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			row.InvoiceNo, row.Date, row.CustomerName, money.FormatMoney(row.TotalAmount))
	}
	w.Flush()
}

// backupService builds the file-level backup worker for the configured
// database. Fails for postgres: point pg_dump at it instead.
func backupService(cfg config.Config) *services.BackupService {
	dsn := db.NormalizeDSN(cfg.DatabaseDSN)
	path, ok := db.SQLiteFilePath(dsn)
	if !ok {
		log.Fatal("backup and restore work on sqlite databases only")
	}
	return services.NewBackupService(path, cfg.BackupDir())
}

func runBackup(cfg config.Config) {
	path, err := backupService(cfg).Backup()
	if err != nil {
		log.Fatalf("backup: %v", err)
	}
	fmt.Printf("database backup created: %s\n", path)
}

func runRestore(cfg config.Config, args []string) {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	file := fs.String("file", "", "backup file to restore (required)")
	fs.Parse(args)
	if *file == "" {
		log.Fatal("restore: --file is required")
	}
	path, err := backupService(cfg).Restore(*file)
	if err != nil {
		log.Fatalf("restore: %v", err)
	}
	fmt.Printf("database restored to %s\n", path)
}

func runListBackups(cfg config.Config) {
	list, err := backupService(cfg).Backups()
	if err != nil {
		log.Fatalf("list backups: %v", err)
	}
	if len(list) == 0 {
		fmt.Println("no backups yet")
		return
	}
	for _, p := range list {
		fmt.Println(p)
	}
}
