package utils

import (
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"github.com/voxdrop/voxdrop/config"
	"github.com/voxdrop/voxdrop/models"
)

// minOrphanAge guards against sweeping files whose metadata insert is still in
// flight. Disk write and row insert are not transactional, so a fresh file
// without a row is not yet an orphan.
const minOrphanAge = 10 * time.Minute

// StartOrphanSweeper launches a background goroutine that periodically
// reconciles the upload directory with the metadata table: disk files without
// a row are removed, rows whose disk file vanished are deleted. It is
// best-effort and logs failures.
func StartOrphanSweeper(db *gorm.DB, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		for {
			// Sleep first to avoid racing immediately at startup
			time.Sleep(interval)
			SweepOrphans(db)
		}
	}()
}

// SweepOrphans runs a single reconciliation pass.
func SweepOrphans(db *gorm.DB) {
	uploadDir := config.Get().UploadDir

	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		Sugar.Warnf("orphan sweep: cannot read upload dir: %v", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || time.Since(info.ModTime()) < minOrphanAge {
			continue
		}

		var cnt int64
		if err := db.Model(&models.UploadedFile{}).Where("saved_filename = ?", entry.Name()).Count(&cnt).Error; err != nil {
			Sugar.Warnf("orphan sweep: lookup failed for %s: %v", entry.Name(), err)
			continue
		}
		if cnt > 0 {
			continue
		}
		if err := os.Remove(filepath.Join(uploadDir, entry.Name())); err != nil {
			Sugar.Warnf("orphan sweep: failed to remove %s: %v", entry.Name(), err)
		} else {
			Sugar.Infof("orphan sweep: removed unreferenced file %s", entry.Name())
		}
	}

	// Rows whose backing file vanished are useless to their owner; drop them.
	var rows []models.UploadedFile
	if err := db.Limit(200).Find(&rows).Error; err != nil {
		Sugar.Warnf("orphan sweep: row scan failed: %v", err)
		return
	}
	for _, row := range rows {
		if _, err := os.Stat(row.FilePath); os.IsNotExist(err) {
			if err := db.Delete(&models.UploadedFile{}, row.ID).Error; err != nil {
				Sugar.Warnf("orphan sweep: failed to delete row %d: %v", row.ID, err)
			} else {
				Sugar.Infof("orphan sweep: removed stale metadata row %d (%s)", row.ID, row.SavedFilename)
			}
		}
	}
}
