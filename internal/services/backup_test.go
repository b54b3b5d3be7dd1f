package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBackupAndRestore(t *testing.T) {
	dataDir := t.TempDir()
	dbPath := filepath.Join(dataDir, "invoices.db")
	if err := os.WriteFile(dbPath, []byte("ledger-v1"), 0o644); err != nil {
		t.Fatalf("seed db: %v", err)
	}
	svc := NewBackupService(dbPath, filepath.Join(dataDir, "backups"))

	backupPath, err := svc.Backup()
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	base := filepath.Base(backupPath)
	if !strings.HasPrefix(base, "invoices_backup_") || !strings.HasSuffix(base, ".db") {
		t.Fatalf("backup name = %q", base)
	}
	got, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(got) != "ledger-v1" {
		t.Fatalf("backup content = %q", got)
	}

	if err := os.WriteFile(dbPath, []byte("ledger-v2"), 0o644); err != nil {
		t.Fatalf("mutate db: %v", err)
	}
	restored, err := svc.Restore(backupPath)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored != dbPath {
		t.Fatalf("restore path = %q, want %q", restored, dbPath)
	}
	got, err = os.ReadFile(dbPath)
	if err != nil {
		t.Fatalf("read db: %v", err)
	}
	if string(got) != "ledger-v1" {
		t.Fatalf("db after restore = %q, want ledger-v1", got)
	}

	list, err := svc.Backups()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0] != backupPath {
		t.Fatalf("backups = %v", list)
	}
}

func TestBackupMissingDatabase(t *testing.T) {
	dir := t.TempDir()
	svc := NewBackupService(filepath.Join(dir, "absent.db"), filepath.Join(dir, "backups"))
	if _, err := svc.Backup(); err == nil {
		t.Fatal("want error when database file is missing")
	}
}

func TestRestoreMissingBackup(t *testing.T) {
	dir := t.TempDir()
	svc := NewBackupService(filepath.Join(dir, "invoices.db"), filepath.Join(dir, "backups"))
	if _, err := svc.Restore(filepath.Join(dir, "absent.db")); err == nil {
		t.Fatal("want error when backup file is missing")
	}
}

func TestBackupsMissingDir(t *testing.T) {
	dir := t.TempDir()
	svc := NewBackupService(filepath.Join(dir, "invoices.db"), filepath.Join(dir, "backups"))
	list, err := svc.Backups()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list != nil {
		t.Fatalf("backups = %v, want none", list)
	}
}
