// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/orcalinux/chip8-emulator/internal/config"
)

// ParseFlags parses the command line arguments, without the program name,
// into a frontend configuration.
func ParseFlags(name string, args []string) (config.Config, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	cfg := config.New()
	readOptionFlags(flags, &cfg)

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, &UsageError{name: name, flags: flags}
		}
		return cfg, &UsageError{name: name, flags: flags, msg: err.Error()}
	}

	rest := flags.Args()
	switch {
	case len(rest) == 0:
		return cfg, &UsageError{name: name, flags: flags, msg: "no program file given"}
	case len(rest) > 1:
		return cfg, &UsageError{
			name:  name,
			flags: flags,
			msg:   fmt.Sprintf("Potential argument %s found after program file, please pass the program file as last argument", rest[1]),
		}
	}
	cfg.ROM = rest[0]

	// the scale takes precedence over the window size, like the -s option
	// of other CHIP-8 interpreters
	flags.Visit(func(f *flag.Flag) {
		if f.Name == "s" {
			cfg.ApplyScale()
		}
	})

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	name  string
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	if e.msg == "" {
		return "usage requested"
	}
	return e.msg
}

// ShowUsage prints the usage information and all flags to w.
func (e *UsageError) ShowUsage(w io.Writer) {
	if e.msg != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", e.msg)
	}
	_, _ = fmt.Fprintf(w, "usage: %s [options] <CHIP-8 program>\n\n", e.name)
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	_, _ = fmt.Fprintln(w)
}

func readOptionFlags(flags *flag.FlagSet, cfg *config.Config) {
	flags.IntVar(&cfg.Width, "w", cfg.Width, "window width in pixels")
	flags.IntVar(&cfg.Height, "h", cfg.Height, "window height in pixels")
	flags.IntVar(&cfg.Scale, "s", cfg.Scale, "pixel scale, sets the window size to 64*s x 32*s")
	flags.Var(&cfg.Foreground, "f", "foreground colour as hex RRGGBB or RRGGBBAA")
	flags.Var(&cfg.Background, "b", "background colour as hex RRGGBB or RRGGBBAA")
	flags.IntVar(&cfg.Speed, "speed", cfg.Speed, "instructions executed per second")
	flags.DurationVar(&cfg.KeyHold, "keyhold", cfg.KeyHold, "how long a key press is held in the terminal frontend")
	flags.BoolVar(&cfg.Quirks.ShiftUsesVY, "shiftquirk", false, "8xy6/8xyE shift Vy into Vx instead of shifting Vx")
	flags.BoolVar(&cfg.Quirks.LoadStoreIncrementsI, "loadstorequirk", false, "Fx55/Fx65 increment I by x+1")
	flags.StringVar(&cfg.BeepFile, "beep", "", "name of a .wav or .mp3 file to play as the sound, a square wave is generated if not given")
	flags.BoolVar(&cfg.Mute, "mute", false, "disable sound output")
	flags.BoolVar(&cfg.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&cfg.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&cfg.Trace, "trace", false, "log every executed instruction, requires -debug")
	flags.StringVar(&cfg.Statsview, "statsview", "", "listen address of the runtime statistics server, requires the statsview build tag")
}
