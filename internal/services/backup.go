package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// BackupService copies the SQLite database file around. It works on the
// file level and must only run while no connection holds the database,
// so the CLI dispatches backup and restore before opening the store.
type BackupService struct {
	// DBPath is the live database file.
	DBPath string

	// BackupDir receives timestamped copies.
	BackupDir string
}

func NewBackupService(dbPath, backupDir string) *BackupService {
	return &BackupService{DBPath: dbPath, BackupDir: backupDir}
}

// Backup writes a timestamped copy of the database into BackupDir and
// returns its path.
func (s *BackupService) Backup() (string, error) {
	if _, err := os.Stat(s.DBPath); err != nil {
		return "", fmt.Errorf("database file: %w", err)
	}
	if err := os.MkdirAll(s.BackupDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir %s: %w", s.BackupDir, err)
	}
	name := fmt.Sprintf("invoices_backup_%s.db", time.Now().Format("20060102_150405"))
	dst := filepath.Join(s.BackupDir, name)
	if err := copyFile(s.DBPath, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// Restore replaces the live database with the given backup file and
// returns the database path.
func (s *BackupService) Restore(backupFile string) (string, error) {
	if _, err := os.Stat(backupFile); err != nil {
		return "", fmt.Errorf("backup file: %w", err)
	}
	if dir := filepath.Dir(s.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create data dir %s: %w", dir, err)
		}
	}
	if err := copyFile(backupFile, s.DBPath); err != nil {
		return "", err
	}
	return s.DBPath, nil
}

// Backups lists existing backup files, newest name last.
func (s *BackupService) Backups() ([]string, error) {
	entries, err := os.ReadDir(s.BackupDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir %s: %w", s.BackupDir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) == ".db" {
			out = append(out, filepath.Join(s.BackupDir, e.Name()))
		}
	}
	return out, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return out.Close()
}
