package main

import (
	"embed"
	"fmt"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"gorm.io/gorm/logger"

	"modelshelf/internal/config"
	"modelshelf/internal/database"
	"modelshelf/internal/logging"
	"modelshelf/internal/services"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	log, logClose := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})

	db, err := database.Init(database.Config{
		Path:     cfg.DBPath,
		LogLevel: logger.Warn,
		Log:      log,
	})
	if err != nil {
		log.WithError(err).Error("error opening database")
		return
	}

	var vault services.SecretVault
	if cfg.UseKeyring {
		vault = services.NewKeyringService()
	}
	dialogs := services.NewWailsDialogs(log)
	svc := services.NewDbServices(db, services.Options{
		Log:         log,
		QuietPeriod: cfg.QuietPeriod,
		Vault:       vault,
		Dialogs:     dialogs,
	})

	app := NewApp(svc, dialogs, log)
	app.logClose = logClose
	if sqlDB, err := db.DB(); err == nil {
		app.dbClose = sqlDB.Close
	}

	// Create application with options
	err = wails.Run(&options.App{
		Title:  "Model settings",
		Width:  900,
		Height: 700,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Linux: &linux.Options{
			WindowIsTranslucent: false,
			WebviewGpuPolicy:    linux.WebviewGpuPolicyAlways,
			ProgramName:         "modelshelf",
		},
		Logger:           logging.NewWailsLogger(log),
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		Bind: []interface{}{
			app,
			svc.ModelList,
			svc.Modal,
			svc.AutoSave,
		},
	})

	if err != nil {
		log.WithError(err).Error("wails run failed")
	}
}
