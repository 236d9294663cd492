// Package main implements the SDL frontend of the CHIP-8 emulator
package main

import (
	"context"
	"errors"
	"os"
	"runtime"

	"github.com/orcalinux/chip8-emulator/internal/chip8"
	"github.com/orcalinux/chip8-emulator/internal/cli"
	"github.com/orcalinux/chip8-emulator/internal/config"
	"github.com/orcalinux/chip8-emulator/internal/emulator"
	"github.com/orcalinux/chip8-emulator/internal/statsview"
	"github.com/orcalinux/chip8-emulator/pkg/sdl"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

const name = "chip8"

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func init() {
	// SDL calls have to be made from the main thread
	runtime.LockOSThread()
}

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

	vm := chip8.New(logger, cfg.VMOptions())
	if err := vm.LoadProgram(cfg.ROM); err != nil {
		return err
	}

	io, err := sdl.NewIO(logger, cfg, "CHIP-8 | "+cfg.ROM)
	if err != nil {
		return err
	}
	defer io.Destroy()

	logger.Info("Running program", log.String("file", cfg.ROM), log.Int("speed", cfg.Speed))
	return emulator.New(logger, vm, io, cfg.Speed).Run(ctx)
}
