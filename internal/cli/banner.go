package cli

import (
	"strings"

	"github.com/orcalinux/chip8-emulator/internal/config"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// PrintBanner logs the name and version of the frontend.
func PrintBanner(logger *log.Logger, cfg config.Config, name, version, commit, date string) {
	if cfg.Quiet {
		return
	}

	logger.Info(name, log.String("version", buildinfo.Version(version, commit, date)))
	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}
