package plan

import (
	"fmt"
	"os"
	"path/filepath"
)

// RotateBackups shifts numbered backup snapshots under dir one slot up:
// base.1 becomes base.2 and so on, with the backup beyond maxBackups
// silently dropped. After rotation the caller writes the current
// pre-mutation document as base.1. Handles the no-backups case (no-op
// shift) and the at-capacity case (oldest deleted).
func RotateBackups(dir, base string, maxBackups int) error {
	if maxBackups <= 0 {
		return nil
	}

	// Drop the slot that would shift past capacity.
	oldest := filepath.Join(dir, fmt.Sprintf("%s.%d", base, maxBackups))
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove oldest backup: %w", err)
	}

	for i := maxBackups - 1; i >= 1; i-- {
		oldPath := filepath.Join(dir, fmt.Sprintf("%s.%d", base, i))
		newPath := filepath.Join(dir, fmt.Sprintf("%s.%d", base, i+1))
		if _, err := os.Stat(oldPath); err != nil {
			continue
		}
		if err := os.Rename(oldPath, newPath); err != nil {
			return fmt.Errorf("rotate backup %s: %w", oldPath, err)
		}
	}

	return nil
}

// WriteBackup rotates existing snapshots and stores data as the newest
// backup (base.1), creating dir if needed.
func WriteBackup(dir, base string, data []byte, maxBackups int) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	if err := RotateBackups(dir, base, maxBackups); err != nil {
		return "", err
	}
	path := filepath.Join(dir, base+".1")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}
