package main

import (
	"context"
	"embed"
	"flag"
	"log/slog"
	"os"

	"GazeMenu/config"
	"GazeMenu/dwell"
	"GazeMenu/i18n"
	"GazeMenu/logging"
	"GazeMenu/ui"

	"fyne.io/fyne/v2/app"
)

//go:embed assets/*
var content embed.FS

func main() {
	configPath := flag.String("config", "", "Path to config file (default: user config dir)")
	flag.Parse()

	path := *configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			slog.Error("no config location", "err", err)
			os.Exit(1)
		}
		path = p
	}

	store, err := config.OpenStore(path, nil)
	if err != nil {
		slog.Error("failed to open config store", "path", path, "err", err)
		os.Exit(1)
	}
	fileCfg := store.Config()
	logger, err := logging.New(logging.FromConfig(fileCfg.Log))
	if err != nil {
		slog.Error("failed to create logger", "err", err)
		os.Exit(1)
	}
	store.SetLogger(logger)
	cfg := config.ApplyEnv(fileCfg, logger)

	lang := i18n.DetectLanguage(cfg.Language, logger)
	if err := i18n.Init(content, lang); err != nil {
		logger.Warn("translations disabled", "err", err)
	}
	logger.Info("language set", "lang", i18n.GetLang())

	fyneApp := app.NewWithID("net.gazeplay.gazemenu")
	fyneApp.Settings().SetTheme(ui.NewCustomTheme(1.25))

	a, err := NewAppManager(content, store, cfg, logger, dwell.SystemClock{})
	if err != nil {
		logger.Error("failed to start", "err", err)
		os.Exit(1)
	}
	w := a.BuildWindow(fyneApp)

	ctx, cancel := context.WithCancel(context.Background())
	w.SetOnClosed(func() {
		cancel()
	})

	go a.tick(ctx)
	go a.watch(ctx)

	w.ShowAndRun()
	a.Shutdown()
}
