package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/voxdrop/voxdrop/middleware"
	"github.com/voxdrop/voxdrop/models"
	"github.com/voxdrop/voxdrop/utils"
)

// SettingsController manages per-user notification preferences.
type SettingsController struct {
	db *gorm.DB
}

// NewSettingsController creates a SettingsController.
func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{db: db}
}

// Get returns the calling user's notification settings, creating the default
// row on first access. The insert ignores conflicts on user_id, so concurrent
// first reads cannot produce a second row.
func (s *SettingsController) Get(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}

	defaults := models.NotificationSettings{
		UserID:                user.ID,
		EmailNotifications:    false,
		EmailNotificationTime: "09:00",
		PushNotifications:     false,
	}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&defaults).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to initialize settings")
		return
	}

	var settings models.NotificationSettings
	if err := s.db.Where("user_id = ?", user.ID).First(&settings).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load settings")
		return
	}

	utils.Success(ctx, settings)
}

// Update upserts the calling user's notification settings.
func (s *SettingsController) Update(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}

	type request struct {
		EmailNotifications    bool   `json:"email_notifications"`
		EmailNotificationTime string `json:"email_notification_time" binding:"required"`
		PushNotifications     bool   `json:"push_notifications"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42250, "invalid request payload")
		return
	}
	if !validClockTime(req.EmailNotificationTime) {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42251, "email_notification_time must be HH:MM in 24-hour format")
		return
	}

	settings := models.NotificationSettings{
		UserID:                user.ID,
		EmailNotifications:    req.EmailNotifications,
		EmailNotificationTime: req.EmailNotificationTime,
		PushNotifications:     req.PushNotifications,
		UpdatedAt:             time.Now(),
	}
	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email_notifications", "email_notification_time", "push_notifications", "updated_at",
		}),
	}).Create(&settings).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to save settings")
		return
	}

	var saved models.NotificationSettings
	if err := s.db.Where("user_id = ?", user.ID).First(&saved).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load settings")
		return
	}

	utils.Success(ctx, saved)
}

// validClockTime reports whether s is a HH:MM 24-hour clock time.
func validClockTime(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}
