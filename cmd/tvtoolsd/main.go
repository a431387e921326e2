package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/Nomadcxx/tvtools/internal/config"
	"github.com/Nomadcxx/tvtools/internal/daemon"
	"github.com/Nomadcxx/tvtools/internal/metadata"
	"github.com/Nomadcxx/tvtools/internal/pipeline"
	"github.com/Nomadcxx/tvtools/internal/reporter"
	"github.com/Nomadcxx/tvtools/internal/ui"
)

// Version information (set via -ldflags during build)
var version = "dev"

func main() {
	logFile, err := openLog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logging: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger := ui.NewFileLogger(io.MultiWriter(logFile, os.Stderr), "info")
	logger.Info("tvtoolsd starting", "version", version)

	cfg, err := loadConfig(logger)
	if err != nil {
		logger.Fatal("Configuration invalid", "err", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func(cfg *config.Config) {
			done <- newDaemon(cfg, logger).Run(ctx)
		}(cfg)

		select {
		case err := <-done:
			cancel()
			logger.Fatal("Watcher stopped", "err", err)

		case sig := <-sigChan:
			cancel()
			<-done

			if sig != syscall.SIGHUP {
				logger.Info("Received shutdown signal, exiting gracefully", "signal", sig)
				return
			}

			logger.Info("Received SIGHUP, reloading configuration")
			newCfg, err := loadConfig(logger)
			if err != nil {
				logger.Error("New configuration invalid, keeping the old one", "err", err)
				continue
			}
			cfg = newCfg
		}
	}
}

func openLog() (*os.File, error) {
	dir := reporter.DataDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "daemon.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

func loadConfig(logger *log.Logger) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.SetLevel(ui.ParseLevel(cfg.Logging.Level))
	logger.Info("Configuration loaded", "paths", cfg.Watch.Paths, "debounce", cfg.DebounceDuration())
	return cfg, nil
}

func newDaemon(cfg *config.Config, logger *log.Logger) *daemon.Daemon {
	settings := daemon.FromConfig(cfg)

	var lookup metadata.Lookup
	if cfg.HasTMDBCredentials() {
		if client, err := metadata.NewTMDBClient(cfg.TMDB.Key, cfg.TMDB.Token); err == nil {
			client.Language = cfg.TMDB.Language
			client.Logger = logger
			lookup = client
		}
	} else {
		logger.Warn("No TMDB credentials, absolute numbered shows will be skipped")
	}

	fs := afero.NewOsFs()
	return daemon.New(fs, pipeline.New(fs, settings.Options, logger, lookup), logger, settings)
}
