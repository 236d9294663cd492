// Package config handles application configuration and setup
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/orcalinux/chip8-emulator/internal/chip8"
	"github.com/retroenv/retrogolib/log"
)

// Default settings of the frontends.
const (
	DefaultScale      = 10
	DefaultWidth      = chip8.DisplayWidth * DefaultScale
	DefaultHeight     = chip8.DisplayHeight * DefaultScale
	DefaultForeground = Color(0xFFFFFFFF)
	DefaultBackground = Color(0x00000000)
	DefaultSpeed      = 700 // instructions per second
	DefaultKeyHold    = 150 * time.Millisecond
	DefaultStatsview  = "localhost:18066"
)

// Config contains the settings shared by all frontends.
type Config struct {
	ROM string // path of the program to run

	Width  int // window width in pixels
	Height int // window height in pixels
	Scale  int // pixel scale, sets Width and Height when given explicitly

	Foreground Color
	Background Color

	Speed   int           // instructions executed per second
	KeyHold time.Duration // how long a terminal key press is held down
	Quirks  chip8.Quirks

	BeepFile string // .wav or .mp3 played while the sound timer is active
	Mute     bool

	Debug     bool
	Quiet     bool
	Trace     bool
	Statsview string // listen address of the runtime statistics server
}

// New returns a configuration with default values.
func New() Config {
	return Config{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Scale:      DefaultScale,
		Foreground: DefaultForeground,
		Background: DefaultBackground,
		Speed:      DefaultSpeed,
		KeyHold:    DefaultKeyHold,
	}
}

// ApplyScale sets the window size to the display size multiplied by the scale.
func (c *Config) ApplyScale() {
	c.Width = chip8.DisplayWidth * c.Scale
	c.Height = chip8.DisplayHeight * c.Scale
}

// Validate checks the configuration for values the frontends can not use.
func (c Config) Validate() error {
	switch {
	case c.ROM == "":
		return errors.New("no program file given")
	case c.Scale <= 0:
		return fmt.Errorf("invalid scale %d", c.Scale)
	case c.Width < chip8.DisplayWidth || c.Height < chip8.DisplayHeight:
		return fmt.Errorf("invalid window size %dx%d, minimum is %dx%d",
			c.Width, c.Height, chip8.DisplayWidth, chip8.DisplayHeight)
	case c.Speed <= 0:
		return fmt.Errorf("invalid speed %d", c.Speed)
	case c.KeyHold <= 0:
		return fmt.Errorf("invalid key hold duration %s", c.KeyHold)
	}
	return nil
}

// VMOptions returns the options for creating the virtual machine.
func (c Config) VMOptions() chip8.Options {
	return chip8.Options{
		Quirks: c.Quirks,
		Trace:  c.Trace,
	}
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
