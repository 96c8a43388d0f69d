package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// backupClock is swapped out in tests for deterministic suffixes.
var backupClock = time.Now

// BackupFile writes a timestamped sibling copy of path and returns the copy's
// path. The suffix encodes the creation time so successive runs never clobber
// an earlier backup.
func BackupFile(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	backupPath := fmt.Sprintf("%s.backup_%d", path, backupClock().Unix())
	dst, err := os.Create(backupPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return backupPath, nil
}

// BackupDir copies every collection file present in dir and returns the
// backup paths.
func BackupDir(dir string) ([]string, error) {
	var backups []string
	for _, name := range []string{FileProducts, FileCustomers, FileInvoices, FilePayments} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		backup, err := BackupFile(path)
		if err != nil {
			return backups, fmt.Errorf("backup %s: %w", name, err)
		}
		backups = append(backups, backup)
	}
	return backups, nil
}
