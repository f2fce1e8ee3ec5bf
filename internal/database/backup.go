package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BackupManager snapshots the sqlite database with VACUUM INTO, which
// produces a consistent copy without blocking writers.
type BackupManager struct {
	db          *DB
	storagePath string
}

func NewBackupManager(db *DB, storagePath string) *BackupManager {
	return &BackupManager{db: db, storagePath: storagePath}
}

func (m *BackupManager) Backup(ctx context.Context) (string, error) {
	if err := os.MkdirAll(m.storagePath, 0o755); err != nil {
		return "", fmt.Errorf("error creating backup directory: %w", err)
	}

	fileName := fmt.Sprintf("backup_%s.db", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(m.storagePath, fileName)

	if _, err := m.db.ExecContext(ctx, `VACUUM INTO ?`, filePath); err != nil {
		return "", fmt.Errorf("failed to back up database: %w", err)
	}

	m.db.log.Info().Str("file_path", filePath).Msg("database backup created")
	return filePath, nil
}
