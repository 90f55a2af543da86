package models

import (
	"time"

	"gorm.io/gorm"
)

// UploadedFile records metadata for a file stored on disk, keyed by its owner.
// Visibility and deletion are scoped to the owning user.
type UploadedFile struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"-"`
	Filename      string    `gorm:"size:255;not null" json:"filename"`       // original, user supplied
	SavedFilename string    `gorm:"size:255;not null" json:"saved_filename"` // server generated
	FilePath      string    `gorm:"size:500;not null" json:"-"`
	FileSize      int64     `gorm:"not null" json:"file_size"`
	FileType      string    `gorm:"size:100" json:"file_type"` // declared content type, untrusted
	UploadedAt    time.Time `json:"uploaded_at"`
}

func (f *UploadedFile) BeforeCreate(tx *gorm.DB) error {
	if f.UploadedAt.IsZero() {
		f.UploadedAt = time.Now()
	}
	return nil
}
