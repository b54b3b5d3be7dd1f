package db

import "fmt"

// MigrateAndClose brings the schema up to date and releases the database
// handle again. The migrate subcommand uses it so provisioning finishes
// before the application opens its long-lived connection.
func MigrateAndClose(dsn string) error {
	conn, err := ConnectAndMigrate(dsn)
	if err != nil {
		return err
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("db handle: %w", err)
	}
	return sqlDB.Close()
}
