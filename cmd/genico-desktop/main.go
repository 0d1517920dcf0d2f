package main

import (
	"context"
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/leeforge/genico/config"
	"github.com/leeforge/genico/desktop"
	"github.com/leeforge/genico/desktop/fyneui"
	"github.com/leeforge/genico/i18n"
	"github.com/leeforge/genico/logging"
	"github.com/leeforge/genico/media/processor"
	"github.com/leeforge/genico/media/storage"
)

var version = "dev"

const appID = "com.leeforge.genico"

func main() {
	configPath := pflag.StringP("config", "c", "", "directory holding config.yaml")
	pflag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "genico-desktop failed: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	opts := config.DefaultConfigOptions()
	if configPath != "" {
		opts.BasePath = configPath
	}
	cfg, _, err := config.Load(opts)
	if err != nil {
		return err
	}

	logger := logging.Init(cfg.Log).Named("desktop")
	defer func() {
		_ = logger.Sync()
		logging.CloseAllWriters()
	}()

	converter, store, err := processor.NewConverterFromConfig(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close cache", zap.Error(err))
		}
	}()

	ui := fyneui.New(app.NewWithID(appID), desktop.DefaultAppInfo(version), converter,
		fyneui.WithLogger(logger),
		fyneui.WithPrinter(i18n.ForLocale(cfg.Locale)),
		fyneui.WithBridgeOptions(desktop.WithFiles(
			storage.NewLocalProvider("", storage.WithMaxRead(cfg.Upload.MaxBytes)),
		)),
	)
	ui.Run()
	return nil
}
