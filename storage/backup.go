package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// RunDailyBackup copies srcDir into a timestamped folder under backupDir every
// day at hour:min and prunes folders older than retention. It returns when ctx
// is cancelled.
func RunDailyBackup(ctx context.Context, log *zap.Logger, srcDir, backupDir string, retention time.Duration, hour, min int) {
	for {
		next := nextRun(time.Now(), hour, min)
		log.Info("next image backup scheduled", zap.Time("at", next))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		destDir := filepath.Join(backupDir, time.Now().Format("2006-01-02_15-04-05"))
		if err := copyDir(srcDir, destDir); err != nil {
			log.Error("failed to back up images", zap.Error(err))
		} else {
			log.Info("images backed up", zap.String("dir", destDir))
		}

		cleanupOldBackups(log, backupDir, time.Now().Add(-retention))
	}
}

// nextRun returns the first hour:min strictly after now.
func nextRun(now time.Time, hour, min int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		if entry.IsDir() {
			err = copyDir(srcPath, destPath)
		} else {
			err = copyFile(srcPath, destPath)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// cleanupOldBackups removes backup folders last modified before cutoff.
func cleanupOldBackups(log *zap.Logger, backupDir string, cutoff time.Time) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		log.Error("failed to read backup directory", zap.Error(err))
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		folder := filepath.Join(backupDir, entry.Name())
		if err := os.RemoveAll(folder); err != nil {
			log.Error("failed to remove old backup", zap.String("dir", folder), zap.Error(err))
			continue
		}
		log.Info("removed old backup", zap.String("dir", folder))
	}
}
