package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bascurtiz/orpheusdl-qobuz/internal/config"
	"github.com/bascurtiz/orpheusdl-qobuz/internal/logger"
	"github.com/bascurtiz/orpheusdl-qobuz/internal/metadata"
	"github.com/bascurtiz/orpheusdl-qobuz/internal/pipeline"
	"github.com/bascurtiz/orpheusdl-qobuz/internal/progress"
	"github.com/bascurtiz/orpheusdl-qobuz/internal/provider/qobuz"
	"github.com/bascurtiz/orpheusdl-qobuz/internal/shutdown"
	"github.com/bascurtiz/orpheusdl-qobuz/pkg/utils"
)

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}
	cfg := opts.cfg

	sh := shutdown.New()
	sh.Listen()

	log := logger.New(cfg.Verbose)
	defer log.Close()

	logFile := cfg.LogFile
	if logFile == "" && !cfg.Verbose {
		logFile = config.GetDefaultLogPath()
	}
	if logFile != "" {
		if err := log.SetFileLog(logFile, 10); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] Failed to setup file logging: %v\n", err)
		} else {
			log.Debug("Logging to file: %s", logFile)
		}
	}

	if opts.configPath != "" {
		log.Debug("Loaded configuration from: %s", opts.configPath)
	}

	if err := cfg.Validate(); err != nil {
		log.Error("Configuration error: %v", err)
		os.Exit(1)
	}

	if err := run(sh, opts, log); err != nil {
		log.Error("%v", err)
		sh.Shutdown()
		os.Exit(1)
	}
	sh.Shutdown()
}

func run(sh *shutdown.Handler, opts options, log *logger.Logger) error {
	cfg := opts.cfg
	ctx := sh.Context()

	tokens, err := config.OpenTokenFile(cfg.SessionFile)
	if err != nil {
		return err
	}
	mod, err := qobuz.New(cfg, tokens, log)
	if err != nil {
		return err
	}

	switch opts.command {
	case cmdSearch:
		kind, err := metadata.ParseDownloadType(opts.args[0])
		if err != nil {
			return err
		}
		results, err := mod.Search(ctx, kind, strings.Join(opts.args[1:], " "), nil, cfg.SearchLimit)
		if err != nil {
			return err
		}
		printSearchResults(os.Stdout, kind, results)
		return nil

	case cmdCredits:
		credits, err := mod.GetTrackCredits(ctx, opts.args[0], nil)
		if err != nil {
			return err
		}
		printCredits(os.Stdout, credits)
		return nil
	}

	kind, id, err := qobuz.ParseURL(opts.args[0])
	if err != nil {
		return err
	}
	log.Debug("Parsed %s %s from %s", kind, id, opts.args[0])

	if !opts.download {
		return printLookup(ctx, os.Stdout, mod, kind, id)
	}
	return download(sh, cfg, log, mod, kind, id)
}

func download(sh *shutdown.Handler, cfg config.Config, log *logger.Logger, mod *qobuz.Module, kind metadata.DownloadType, id string) error {
	tmpDir, err := utils.CreateTempDir()
	if err != nil {
		return fmt.Errorf("error creating temporary folder: %w", err)
	}
	log.Debug("Temporary folder: %s", tmpDir)

	sh.AddCleanup(func() {
		log.Debug("Cleaning up...")
		if err := utils.Cleanup(tmpDir); err != nil {
			log.Warn("Error during cleanup: %v", err)
		}
	})

	var bar *progress.Bar
	hooks := pipeline.Hooks{
		OnTracksResolved: func(total int) {
			if !cfg.Verbose {
				bar = progress.New(total, fmt.Sprintf("%s %s", kind, id))
				log.SetProgressBar(true)
			}
		},
		OnProgress: func() {
			if bar != nil {
				bar.Increment()
			}
		},
	}

	_, err = pipeline.Run(sh.Context(), cfg, log, mod, tmpDir, kind, id, hooks)

	if bar != nil {
		bar.Finish()
		log.SetProgressBar(false)
	}

	if err != nil {
		if errors.Is(sh.Context().Err(), context.Canceled) {
			return fmt.Errorf("interrupted")
		}
		return err
	}

	log.Info("=== Download completed successfully ===")
	return nil
}
