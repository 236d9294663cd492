// Package sdl implements the SDL frontend: a window showing the CHIP-8
// display, keyboard input and the tone played through an audio device.
package sdl

import (
	"fmt"

	"github.com/orcalinux/chip8-emulator/internal/chip8"
	"github.com/orcalinux/chip8-emulator/internal/config"
	"github.com/orcalinux/chip8-emulator/internal/emulator"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

// IO is the input/output abstraction layer for the VM
type IO struct {
	title   string
	window  *sdl.Window
	surface *sdl.Surface
	audio   *Audio // nil if muted or no audio device is available

	width, height int32
	screenColor   uint32
	spriteColor   uint32

	logger *log.Logger
}

// NewIO initialises SDL and opens the main window and the audio device.
func NewIO(logger *log.Logger, cfg config.Config, title string) (*IO, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("initialising SDL: %w", err)
	}

	io := &IO{
		title:  title,
		width:  int32(cfg.Width),
		height: int32(cfg.Height),
		logger: logger,
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		io.width, io.height, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("creating window: %w", err)
	}
	io.window = window

	io.surface, err = window.GetSurface()
	if err != nil {
		io.Destroy()
		return nil, fmt.Errorf("getting window surface: %w", err)
	}
	io.screenColor = mapColor(io.surface, cfg.Background)
	io.spriteColor = mapColor(io.surface, cfg.Foreground)

	if !cfg.Mute {
		io.audio, err = NewAudio(cfg.BeepFile)
		if err != nil {
			// sound is optional
			logger.Warn("Sound disabled", log.Err(err))
			io.audio = nil
		}
	}

	return io, nil
}

func mapColor(surface *sdl.Surface, c config.Color) uint32 {
	r, g, b, a := c.RGBA()
	return sdl.MapRGBA(surface.Format, r, g, b, a)
}

// Destroy should be called before quitting the application
func (io *IO) Destroy() {
	if io.audio != nil {
		io.audio.Close()
	}
	if io.window != nil {
		_ = io.window.Destroy()
	}
	sdl.Quit()
}

// ProcessEvents handles all pending SDL events.
func (io *IO) ProcessEvents(ctl emulator.Controls) error {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.KeyboardEvent:
			pressed := t.GetType() == sdl.KEYDOWN
			if key, ok := keymap(t.Keysym.Scancode); ok {
				ctl.SetKey(key, pressed)
				continue
			}
			if pressed && t.Repeat == 0 {
				io.controlKey(ctl, t.Keysym.Sym)
			}

		case *sdl.QuitEvent:
			ctl.Quit()
		}
	}

	if io.audio != nil {
		return io.audio.Refill()
	}
	return nil
}

// keymap maps the physical key positions of the left side of a QWERTY
// keyboard to the CHIP-8 keypad, independent of the active keyboard layout.
// +--------+--------+--------+--------+
// | 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
// +--------+--------+--------+--------+
// | Q -> 4 | W -> 5 | E -> 6 | R -> D |
// +--------+--------+--------+--------+
// | A -> 7 | S -> 8 | D -> 9 | F -> E |
// +--------+--------+--------+--------+
// | Z -> A | X -> 0 | C -> B | V -> F |
// +--------+--------+--------+--------+
func keymap(code sdl.Scancode) (uint8, bool) {
	switch code {
	case sdl.SCANCODE_1:
		return 0x1, true
	case sdl.SCANCODE_2:
		return 0x2, true
	case sdl.SCANCODE_3:
		return 0x3, true
	case sdl.SCANCODE_4:
		return 0xC, true
	case sdl.SCANCODE_Q:
		return 0x4, true
	case sdl.SCANCODE_W:
		return 0x5, true
	case sdl.SCANCODE_E:
		return 0x6, true
	case sdl.SCANCODE_R:
		return 0xD, true
	case sdl.SCANCODE_A:
		return 0x7, true
	case sdl.SCANCODE_S:
		return 0x8, true
	case sdl.SCANCODE_D:
		return 0x9, true
	case sdl.SCANCODE_F:
		return 0xE, true
	case sdl.SCANCODE_Z:
		return 0xA, true
	case sdl.SCANCODE_X:
		return 0x0, true
	case sdl.SCANCODE_C:
		return 0xB, true
	case sdl.SCANCODE_V:
		return 0xF, true
	default:
		return 0, false
	}
}

// controlKey handles the emulator control keys, which are matched by the
// character they produce in the active layout.
func (io *IO) controlKey(ctl emulator.Controls, code sdl.Keycode) {
	switch code {
	case sdl.K_ESCAPE:
		ctl.Quit()
	case sdl.K_p:
		ctl.TogglePause()
	case sdl.K_F5:
		ctl.Reset()
	}
}

// Render draws the display of the VM on the window surface.
func (io *IO) Render(vm *chip8.VM) error {
	if vm.State() == chip8.Paused {
		io.window.SetTitle(io.title + " [paused]")
	} else {
		io.window.SetTitle(io.title)
	}

	if err := io.surface.FillRect(nil, io.screenColor); err != nil {
		return fmt.Errorf("clearing window: %w", err)
	}
	for y := 0; y < chip8.DisplayHeight; y++ {
		for x := 0; x < chip8.DisplayWidth; x++ {
			if !vm.Pixel(x, y) {
				continue
			}
			rect := io.cell(int32(x), int32(y))
			if err := io.surface.FillRect(&rect, io.spriteColor); err != nil {
				return fmt.Errorf("drawing pixel: %w", err)
			}
		}
	}
	if err := io.window.UpdateSurface(); err != nil {
		return fmt.Errorf("updating window: %w", err)
	}
	return nil
}

// cell returns the window area of a display pixel. The edges are computed
// separately so that window sizes that are not a multiple of the display
// size leave no gaps.
func (io *IO) cell(x, y int32) sdl.Rect {
	x0 := x * io.width / chip8.DisplayWidth
	x1 := (x + 1) * io.width / chip8.DisplayWidth
	y0 := y * io.height / chip8.DisplayHeight
	y1 := (y + 1) * io.height / chip8.DisplayHeight
	return sdl.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// SetSound starts or stops the tone.
func (io *IO) SetSound(on bool) {
	if io.audio == nil {
		return
	}
	if err := io.audio.Play(on); err != nil {
		io.logger.Error("Playing sound failed", log.Err(err))
	}
}
