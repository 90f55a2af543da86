package main

import (
	"time"

	"github.com/voxdrop/voxdrop/config"
	"github.com/voxdrop/voxdrop/models"
	"github.com/voxdrop/voxdrop/routes"
	"github.com/voxdrop/voxdrop/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.UploadedFile{}, &models.NotificationSettings{})

	r := routes.SetupRouter(db)

	// Reconcile upload dir and metadata table in the background (best-effort)
	utils.StartOrphanSweeper(db, time.Duration(cfg.OrphanSweepMinutes)*time.Minute)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
