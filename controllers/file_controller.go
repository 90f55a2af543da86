package controllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/voxdrop/voxdrop/config"
	"github.com/voxdrop/voxdrop/middleware"
	"github.com/voxdrop/voxdrop/models"
	"github.com/voxdrop/voxdrop/utils"
)

// allowedExtensions lists image and audio extensions accepted on upload.
// Anything else must declare an audio/* content type to pass.
var allowedExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true,
	"mp3": true, "wav": true, "ogg": true, "flac": true, "m4a": true, "aac": true,
}

// FileController handles authenticated upload, listing and deletion of files.
type FileController struct {
	db *gorm.DB
}

// NewFileController creates a FileController.
func NewFileController(db *gorm.DB) *FileController {
	return &FileController{db: db}
}

// Upload stores a single multipart file on disk and records its metadata. The
// disk write happens first; an orphaned file after a failed insert is
// reclaimed by the background sweeper.
func (f *FileController) Upload(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "no file uploaded")
		return
	}
	defer file.Close()

	cfg := config.Get()
	maxSize := int64(cfg.UploadMaxSizeMB) << 20
	if header.Size > maxSize {
		utils.Error(ctx, http.StatusBadRequest, 40032, fmt.Sprintf("file size exceeds %dMB", cfg.UploadMaxSizeMB))
		return
	}

	origName := filepath.Base(header.Filename)
	contentType := header.Header.Get("Content-Type")

	ext := ""
	if i := strings.LastIndex(origName, "."); i >= 0 {
		ext = strings.ToLower(origName[i+1:])
	}
	if !allowedExtensions[ext] && !strings.HasPrefix(contentType, "audio/") {
		utils.Error(ctx, http.StatusBadRequest, 40031, "unsupported file type: allowed are png, jpg, jpeg, mp3, wav, ogg, flac, m4a, aac or audio files")
		return
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to create upload directory")
		return
	}

	// Timestamp plus a random fragment: unique even for identical names
	// uploaded within the same second.
	savedName := fmt.Sprintf("%s_%s_%s",
		time.Now().Format("20060102_150405"),
		strings.Split(uuid.NewString(), "-")[0],
		origName,
	)
	dstPath := filepath.Join(cfg.UploadDir, savedName)

	if err := ctx.SaveUploadedFile(header, dstPath); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to save file")
		zap.L().Error("upload: storage write failed", zap.String("path", dstPath), zap.Error(err))
		return
	}

	record := models.UploadedFile{
		UserID:        user.ID,
		Filename:      origName,
		SavedFilename: savedName,
		FilePath:      dstPath,
		FileSize:      header.Size,
		FileType:      contentType,
	}

	if err := f.db.Create(&record).Error; err != nil {
		// The file stays on disk until the orphan sweeper reclaims it.
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to record file metadata")
		zap.L().Error("upload: metadata insert failed, file orphaned",
			zap.String("saved_filename", savedName), zap.Error(err))
		return
	}

	utils.Success(ctx, record)
}

// List returns all files owned by the calling user, newest first.
func (f *FileController) List(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}

	var files []models.UploadedFile
	if err := f.db.Where("user_id = ?", user.ID).Order("uploaded_at DESC").Find(&files).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to list files")
		return
	}

	utils.Success(ctx, files)
}

// Delete removes one of the calling user's files. Existence and ownership are
// checked together so a foreign file is indistinguishable from a missing one.
// The physical delete is best-effort; the metadata row is authoritative.
func (f *FileController) Delete(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}

	var file models.UploadedFile
	if err := f.db.Where("id = ? AND user_id = ?", ctx.Param("id"), user.ID).First(&file).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40430, "file not found")
		return
	}

	if err := os.Remove(file.FilePath); err != nil && !os.IsNotExist(err) {
		zap.L().Warn("delete: failed to remove stored file",
			zap.String("path", file.FilePath), zap.Error(err))
	}

	if err := f.db.Delete(&models.UploadedFile{}, file.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to delete file")
		return
	}

	utils.Success(ctx, gin.H{
		"message":  "file deleted",
		"filename": file.Filename,
	})
}
