package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"invoicedesk/internal/config"
	"invoicedesk/internal/db"
	"invoicedesk/internal/pdf"
	"invoicedesk/internal/reports"
	"invoicedesk/internal/services"
	"invoicedesk/internal/store"
)

const usage = `Invoicedesk is a sales tax invoicing and reporting tool.

Usage:

  invoicedesk <command> [arguments]

Commands:

  company          set or show the seller profile
  customer         manage customers and price overrides
  product          manage the product catalog
  invoice          create, list, inspect, render and delete invoices
  report           period summaries, rankings, exports and monthly bundles
  dashboard        revenue and volume at a glance
  settings         invoice numbering and pdf preferences
  lock             set, clear or inspect the app password
  import           load customers or products from csv
  export           dump a table to csv
  regenerate-pdfs  re-render every invoice pdf into an export directory
  backup           copy the database to a timestamped file
  restore          replace the database from a backup
  backups          list available database backups
  migrate          bring the schema up to date and exit

Environment:

  DATABASE_DSN  sqlite path or postgres url (default data/invoices.db)
  DATA_DIR      base directory for data files (default data)
  FONTS_DIR     directory holding the invoice ttf fonts (default fonts)
  APP_PASSWORD  password when the app lock is enabled
  MIGRATIONS    1 runs sql migrations instead of automigrate
  DB_SEED       1 seeds demo rows on startup
`

func main() {
	log.SetFlags(0)
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	_ = godotenv.Load()
	cfg := config.Load()

	cmd, rest := args[0], args[1:]

	// Backup, restore and migrate work on the database file or schema
	// directly and run before a regular connection pins the file.
	switch cmd {
	case "help", "-h", "--help":
		flag.Usage()
		return
	case "backup":
		runBackup(cfg)
		return
	case "restore":
		runRestore(cfg, rest)
		return
	case "backups":
		runListBackups(cfg)
		return
	case "migrate":
		if err := db.MigrateAndClose(db.NormalizeDSN(cfg.DatabaseDSN)); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		log.Println("migrations completed")
		return
	}

	newApp(cfg).dispatch(cmd, rest)
}

// app wires the store and services behind every database-backed command.
type app struct {
	cfg       config.Config
	store     *store.Store
	renderer  *pdf.Renderer
	prefs     *services.PreferenceService
	numbering *services.NumberingService
	invoices  *services.InvoiceService
	reporter  *reports.Reporter
	lock      *services.LockService
	transfer  *services.TransferService
}

func newApp(cfg config.Config) *app {
	conn, err := db.ConnectAndMigrate(db.NormalizeDSN(cfg.DatabaseDSN))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	st := store.New(conn)
	renderer := pdf.NewRenderer(cfg.FontsDir)
	prefs := services.NewPreferenceService(st)
	numbering := services.NewNumberingService(st, prefs)
	a := &app{
		cfg:       cfg,
		store:     st,
		renderer:  renderer,
		prefs:     prefs,
		numbering: numbering,
		invoices:  services.NewInvoiceService(st, renderer, numbering, prefs),
		reporter:  reports.NewReporter(st, renderer),
		lock:      services.NewLockService(st),
		transfer:  services.NewTransferService(st),
	}
	a.requireUnlocked()
	return a
}

// requireUnlocked enforces the app password before any command touches
// data. The password arrives via APP_PASSWORD so scripts keep working.
func (a *app) requireUnlocked() {
	locked, err := a.lock.IsLocked()
	if err != nil {
		log.Fatalf("app lock: %v", err)
	}
	if !locked {
		return
	}
	ok, err := a.lock.Verify(os.Getenv("APP_PASSWORD"))
	if err != nil {
		log.Fatalf("app lock: %v", err)
	}
	if !ok {
		log.Fatal("app is locked: set APP_PASSWORD to the configured password")
	}
}

func (a *app) dispatch(cmd string, args []string) {
	switch cmd {
	case "company":
		a.companyCmd(args)
	case "customer":
		a.customerCmd(args)
	case "product":
		a.productCmd(args)
	case "invoice":
		a.invoiceCmd(args)
	case "report":
		a.reportCmd(args)
	case "dashboard":
		a.dashboardCmd(args)
	case "settings":
		a.settingsCmd(args)
	case "lock":
		a.lockCmd(args)
	case "import":
		a.importCmd(args)
	case "export":
		a.exportCmd(args)
	case "regenerate-pdfs":
		a.regenerateCmd(args)
	default:
		log.Fatalf("unknown command %q, run 'invoicedesk help'", cmd)
	}
}
