// Package term implements a terminal frontend using tcell. Two display rows
// share one character cell by drawing upper half blocks, so the 64x32
// display needs a terminal of at least 66x19 characters.
//
// Terminals do not report key releases, a pressed key is therefore held
// down for a configurable duration or until it is repeated.
package term

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell"
	"github.com/orcalinux/chip8-emulator/internal/chip8"
	"github.com/orcalinux/chip8-emulator/internal/config"
	"github.com/orcalinux/chip8-emulator/internal/emulator"
	"github.com/orcalinux/chip8-emulator/internal/keypad"
	"github.com/retroenv/retrogolib/log"
)

const (
	originX = 1
	originY = 1

	eventBuffer = 64
)

// IO is the input/output abstraction layer for the VM
type IO struct {
	screen tcell.Screen
	events chan tcell.Event
	done   chan struct{} // closed by Destroy

	pixelOn  tcell.Color
	pixelOff tcell.Color

	keyHold  time.Duration
	released [chip8.KeyCount]time.Time // release deadline of held keys
	now      func() time.Time

	logger *log.Logger
}

// NewIO opens the terminal screen.
func NewIO(logger *log.Logger, cfg config.Config) (*IO, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("opening screen: %w", err)
	}
	return newIO(logger, cfg, screen)
}

func newIO(logger *log.Logger, cfg config.Config, screen tcell.Screen) (*IO, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initialising screen: %w", err)
	}
	screen.HideCursor()
	screen.Clear()

	io := &IO{
		screen:   screen,
		events:   make(chan tcell.Event, eventBuffer),
		done:     make(chan struct{}),
		pixelOn:  tcell.NewHexColor(int32(cfg.Foreground.RGB())),
		pixelOff: tcell.NewHexColor(int32(cfg.Background.RGB())),
		keyHold:  cfg.KeyHold,
		now:      time.Now,
		logger:   logger,
	}

	// PollEvent blocks, events are handed to the emulation goroutine
	go io.readEvents()

	drawBox(screen, 0, 0, chip8.DisplayWidth+1, chip8.DisplayHeight/2+1)
	return io, nil
}

// readEvents forwards terminal events until the screen is finalised or
// the IO is destroyed.
func (io *IO) readEvents() {
	defer close(io.events)
	for {
		ev := io.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case io.events <- ev:
		case <-io.done:
			return
		}
	}
}

// Destroy restores the terminal and stops the event reader.
func (io *IO) Destroy() {
	select {
	case <-io.done:
		return
	default:
	}
	close(io.done)
	io.screen.Fini()
}

// ProcessEvents handles all pending terminal events and releases keys
// whose hold time has passed.
func (io *IO) ProcessEvents(ctl emulator.Controls) error {
	now := io.now()
	for key, deadline := range io.released {
		if !deadline.IsZero() && !now.Before(deadline) {
			ctl.SetKey(uint8(key), false)
			io.released[key] = time.Time{}
		}
	}

	for {
		select {
		case ev, ok := <-io.events:
			if !ok {
				ctl.Quit()
				return nil
			}
			io.handleEvent(ctl, ev, now)
		default:
			return nil
		}
	}
}

func (io *IO) handleEvent(ctl emulator.Controls, ev tcell.Event, now time.Time) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		switch e.Key() {
		case tcell.KeyCtrlC, tcell.KeyEscape:
			ctl.Quit()
		case tcell.KeyF5:
			ctl.Reset()
		case tcell.KeyRune:
			if key, ok := keypad.Lookup(e.Rune()); ok {
				ctl.SetKey(key, true)
				io.released[key] = now.Add(io.keyHold)
				return
			}
			if e.Rune() == 'p' || e.Rune() == 'P' {
				ctl.TogglePause()
			}
		}

	case *tcell.EventResize:
		io.screen.Sync()
	}
}

// Render draws the display of the VM and a status line.
func (io *IO) Render(vm *chip8.VM) error {
	for row := 0; row < chip8.DisplayHeight/2; row++ {
		for x := 0; x < chip8.DisplayWidth; x++ {
			style := tcell.StyleDefault.
				Foreground(io.color(vm.Pixel(x, 2*row))).
				Background(io.color(vm.Pixel(x, 2*row+1)))
			io.screen.SetContent(originX+x, originY+row, '▀', nil, style)
		}
	}

	status := fmt.Sprintf(" %-7s PC %03X  I %03X   Esc quit  P pause  F5 reset ",
		vm.State(), vm.PC(), vm.Index())
	drawString(io.screen, 0, chip8.DisplayHeight/2+2, tcell.StyleDefault.Bold(true), status)

	io.screen.Show()
	return nil
}

func (io *IO) color(on bool) tcell.Color {
	if on {
		return io.pixelOn
	}
	return io.pixelOff
}

// SetSound is a no-op, the terminal frontend has no audio output.
func (io *IO) SetSound(on bool) {
	io.logger.Debug("Sound", log.String("state", fmt.Sprint(on)))
}

func drawString(s tcell.Screen, x, y int, style tcell.Style, str string) {
	for _, c := range str {
		s.SetContent(x, y, c, nil, style)
		x++
	}
}

func drawBox(s tcell.Screen, x, y, w, h int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	s.SetContent(x, y, tcell.RuneULCorner, nil, style)
	s.SetContent(x+w, y, tcell.RuneURCorner, nil, style)
	s.SetContent(x, y+h, tcell.RuneLLCorner, nil, style)
	s.SetContent(x+w, y+h, tcell.RuneLRCorner, nil, style)
	for col := x + 1; col < x+w; col++ {
		s.SetContent(col, y, tcell.RuneHLine, nil, style)
		s.SetContent(col, y+h, tcell.RuneHLine, nil, style)
	}
	for row := y + 1; row < y+h; row++ {
		s.SetContent(x, row, tcell.RuneVLine, nil, style)
		s.SetContent(x+w, row, tcell.RuneVLine, nil, style)
	}
}
