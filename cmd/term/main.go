// Package main implements the terminal frontend of the CHIP-8 emulator
package main

import (
	"context"
	"errors"
	"os"

	"github.com/orcalinux/chip8-emulator/internal/chip8"
	"github.com/orcalinux/chip8-emulator/internal/cli"
	"github.com/orcalinux/chip8-emulator/internal/config"
	"github.com/orcalinux/chip8-emulator/internal/emulator"
	"github.com/orcalinux/chip8-emulator/internal/statsview"
	"github.com/orcalinux/chip8-emulator/pkg/term"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

const name = "chip8-term"

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	cfg, err := cli.ParseFlags(name, os.Args[1:])
	if err != nil {
		logger := config.CreateLogger(cfg.Debug, cfg.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			cli.PrintBanner(logger, cfg, name, version, commit, date)
			usageErr.ShowUsage(os.Stdout)
		} else {
			logger.Error("Invalid configuration", log.Err(err))
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(cfg.Debug, cfg.Quiet)
	cli.PrintBanner(logger, cfg, name, version, commit, date)

	if err := run(ctx, logger, cfg); err != nil {
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *log.Logger, cfg config.Config) error {
	if cfg.Statsview != "" {
		statsview.Launch(logger, cfg.Statsview)
	}

	// the screen is owned by tcell while running, only errors are logged
	// unless debugging was requested
	runLogger := logger
	if !cfg.Debug {
		runLogger = config.CreateLogger(false, true)
	}

	vm := chip8.New(runLogger, cfg.VMOptions())
	if err := vm.LoadProgram(cfg.ROM); err != nil {
		return err
	}

	io, err := term.NewIO(runLogger, cfg)
	if err != nil {
		return err
	}
	err = emulator.New(runLogger, vm, io, cfg.Speed).Run(ctx)
	io.Destroy()
	return err
}
