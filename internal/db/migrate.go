package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the database drivers and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"invoicedesk/internal/models"
)

// ConnectAndMigrate opens the database behind dsn and brings the schema up
// to date. With MIGRATIONS=1 the SQL files under ./migrations run via
// golang-migrate; otherwise gorm AutoMigrate keeps the schema current (dev
// convenience). Either way additive column backfills run afterwards so an
// old database file picks up later columns without losing data.
func ConnectAndMigrate(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("empty database DSN, check environment configuration")
	}
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	if !IsPostgres(dsn) {
		if err := ensureSQLiteDir(dsn); err != nil {
			return nil, err
		}
	}

	var db *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		if IsPostgres(dsn) {
			db, err = gorm.Open(postgres.Open(dsn), cfg)
		} else {
			db, err = gorm.Open(sqlite.Open(dsn), cfg)
		}
		if err == nil {
			break
		}
		fmt.Println("Retrying DB connection...", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}

	// Basic connectivity test
	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	// One shared connection per process: SQLite writers then queue on the
	// 20s busy timeout instead of tripping over each other mid-transaction.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	// Always print masked DSN once for diagnostics (before migrations for visibility)
	masked := dsn
	if strings.Contains(masked, "password=") {
		re := regexp.MustCompile(`(password=)([^\s]+)`)
		masked = re.ReplaceAllString(masked, `${1}***`)
	}
	fmt.Println("[DB] Using DSN:", masked)

	if v := strings.ToLower(os.Getenv("MIGRATIONS")); v == "1" || v == "true" || v == "yes" {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		modelsToMigrate := []interface{}{
			&models.Company{}, &models.Customer{}, &models.Product{}, &models.PriceOverride{}, &models.Invoice{}, &models.InvoiceItem{}, &models.Setting{},
		}
		for _, m := range modelsToMigrate {
			if migErr := db.AutoMigrate(m); migErr != nil {
				return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
			}
		}
	}

	if err := ensureAdditiveColumns(db); err != nil {
		return nil, err
	}

	// sanity check: ensure required core tables exist
	for _, table := range []string{"companies", "customers", "products", "price_overrides", "invoices", "invoice_items", "settings"} {
		if !db.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}
	// Seeding only when explicitly requested (e.g. development) via DB_SEED=1|true
	if v := strings.ToLower(os.Getenv("DB_SEED")); v == "1" || v == "true" || v == "yes" {
		seed(db)
	}
	return db, nil
}

// ensureAdditiveColumns applies the column additions that arrived after the
// base schema shipped. Additive only: a column that already exists is
// skipped, existing data is never touched.
func ensureAdditiveColumns(db *gorm.DB) error {
	additions := []struct {
		model  interface{}
		column string
	}{
		{&models.Product{}, "sku"},
		{&models.Product{}, "barcode"},
		{&models.Invoice{}, "shipped_to"},
	}
	for _, a := range additions {
		if db.Migrator().HasColumn(a.model, a.column) {
			continue
		}
		if err := db.Migrator().AddColumn(a.model, a.column); err != nil {
			return fmt.Errorf("add column %s: %w", a.column, err)
		}
	}
	return nil
}

func seed(db *gorm.DB) {
	customers := []models.Customer{
		{Name: "Imtiaz Group", Address: "Guj Mega - CQLA", NTN: "B353738", STRN: "3277876321298", Contact: "03202019669"},
		{Name: "Metro Cash & Carry", Address: "Karachi", NTN: "B998877", STRN: "3271231231234", Contact: "0300-1122334"},
		{Name: "Al Fatah Stores", Address: "Lahore", NTN: "B445566", STRN: "3277899876543", Contact: "0301-9988776"},
	}
	for _, c := range customers {
		var existing models.Customer
		if err := db.Where("name = ?", c.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			db.Create(&c)
		}
	}
	products := []models.Product{
		{Name: "Maykey Hair Color Dark Brown 250ml", Description: "HC250DB", UnitPrice: decimal.NewFromInt(700), TaxRate: decimal.NewFromInt(18), Active: true},
		{Name: "Maykey Hair Color Black 250ml", Description: "HC250BK", UnitPrice: decimal.NewFromInt(700), TaxRate: decimal.NewFromInt(18), Active: true},
		{Name: "Maykey Hair Color Dark Brown 30ml", Description: "HC30DB", UnitPrice: decimal.New(6819, -2), TaxRate: decimal.NewFromInt(18), Active: true},
	}
	for _, p := range products {
		var existing models.Product
		if err := db.Where("name = ?", p.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			db.Create(&p)
		}
	}
}

// ensureSQLiteDir creates the parent directory of an on-disk SQLite file so
// first runs work out of the box. Memory DSNs need no directory.
func ensureSQLiteDir(dsn string) error {
	path, ok := SQLiteFilePath(dsn)
	if !ok {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create database directory %s: %w", dir, err)
	}
	return nil
}

// runSQLMigrations executes migrations in ./migrations using golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", migrateURL(dsn))
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

// migrateURL converts a driver DSN into the URL form golang-migrate expects.
func migrateURL(dsn string) string {
	if IsPostgres(dsn) {
		return ToURLDSN(dsn)
	}
	return "sqlite3://" + dsn
}
