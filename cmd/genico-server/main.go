package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/leeforge/genico/config"
	"github.com/leeforge/genico/env_mode"
	"github.com/leeforge/genico/logging"
	"github.com/leeforge/genico/media/processor"
	"github.com/leeforge/genico/server"
	"github.com/leeforge/genico/templates"
	"github.com/leeforge/genico/utils"
)

var version = "dev"

const usage = "Usage: genico-server [PORT]"

var errUsage = errors.New(usage)

type options struct {
	configPath  string
	mode        string
	showVersion bool
	port        int
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := pflag.NewFlagSet("genico-server", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.configPath, "config", "c", "", "directory holding config.yaml (defaults to $CONFIG_PATH or ./config)")
	fs.StringVar(&opts.mode, "mode", "", "run mode: development, test or production (defaults to $GO_ENV_MODE)")
	fs.BoolVarP(&opts.showVersion, "version", "v", false, "print the version and exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		port, err := strconv.Atoi(rest[0])
		if err != nil || port < 1 || port > 65535 {
			return opts, errUsage
		}
		opts.port = port
	default:
		return opts, errUsage
	}
	return opts, nil
}

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
		}
		os.Exit(1)
	}
	if opts.showVersion {
		fmt.Println("genico-server", version)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "genico-server failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	if opts.mode != "" {
		env_mode.SetMode(env_mode.ParseEnv(opts.mode))
	}

	loadOpts := config.DefaultConfigOptions()
	if opts.configPath != "" {
		loadOpts.BasePath = opts.configPath
	}
	loadOpts.WatchAble = true
	loadOpts.OnChange = applyReload
	loadOpts.OnError = func(err error) {
		logging.Warn("config reload rejected", zap.Error(err))
	}

	cfg, loader, err := config.Load(loadOpts)
	if err != nil {
		return err
	}
	if opts.port != 0 {
		cfg.Server.Port = opts.port
	}

	logger := logging.Init(cfg.Log)
	defer func() {
		_ = logger.Sync()
		logging.CloseAllWriters()
	}()
	if files := loader.Files(); len(files) > 0 {
		logger.Info("config loaded", zap.Strings("files", files))
	}

	converter, store, err := processor.NewConverterFromConfig(ctx, cfg, logger)
	if err != nil {
		logger.Error("converter setup failed", zap.Error(err))
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close cache", zap.Error(err))
		}
	}()

	pages, err := templates.New(cfg.Templates.Dir, cfg.Templates.Favicon)
	if err != nil {
		logger.Error("templates setup failed", zap.Error(err))
		return err
	}

	srv := server.New(cfg, converter, pages, server.WithLogger(logger))

	if logger.Zap().Core().Enabled(zap.DebugLevel) {
		var routes strings.Builder
		if err := utils.PrintRoutes(&routes, srv.Routes()); err == nil {
			logger.Debug("routes\n" + routes.String())
		}
	}

	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return err
	}
	return nil
}

// applyReload hot-applies the log level of a reloaded configuration. The
// rest of the new values wait for a restart; the server keeps the
// configuration it was started with.
func applyReload(e fsnotify.Event, fresh any) {
	next, ok := fresh.(*config.AppConfig)
	if !ok || next.Log.Level == "" {
		return
	}
	logging.SetLevel(next.Log.Level)
	logging.Info("config reloaded", zap.String("file", e.Name), zap.String("level", next.Log.Level))
}
