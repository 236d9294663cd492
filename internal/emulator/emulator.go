// Package emulator drives a CHIP-8 VM in real time: it executes the
// configured number of instructions per second, advances the timers and
// connects the machine to a frontend that handles input, video and sound.
package emulator

import (
	"context"
	"time"

	"github.com/orcalinux/chip8-emulator/internal/chip8"
	"github.com/retroenv/retrogolib/log"
)

// FrameRate is the number of frames per second the emulator runs at,
// matching the rate of the CHIP-8 timers.
const FrameRate = 60

// IO is the input/output abstraction layer for the VM.
type IO interface {
	// ProcessEvents handles all pending host input events and forwards
	// them to the controls.
	ProcessEvents(ctl Controls) error
	// Render presents the display of the machine.
	Render(vm *chip8.VM) error
	// SetSound starts or stops the tone.
	SetSound(on bool)
}

// Controls is the set of operations an IO can trigger.
type Controls interface {
	SetKey(key uint8, pressed bool)
	TogglePause()
	Reset()
	Quit()
}

// Emulator runs a VM in real time.
type Emulator struct {
	vm     *chip8.VM
	io     IO
	logger *log.Logger

	speed   int           // instructions per second
	stepAcc time.Duration // elapsed time scaled by speed, less the instructions executed

	lastState chip8.State
}

// New returns a new emulator executing speed instructions per second.
func New(logger *log.Logger, vm *chip8.VM, io IO, speed int) *Emulator {
	return &Emulator{
		vm:        vm,
		io:        io,
		logger:    logger,
		speed:     speed,
		lastState: vm.State(),
	}
}

// Run executes frames until the machine stops or the context is cancelled.
// It returns the reason the machine stopped, nil if it was quit or the
// context was cancelled.
func (e *Emulator) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / FrameRate)
	defer ticker.Stop()
	defer e.io.SetSound(false)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Emulation cancelled")
			return nil
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now

			if !e.Frame(elapsed) {
				return e.vm.Err()
			}
		}
	}
}

// Frame handles input, executes the instructions due for the elapsed time,
// advances the timers and updates video and sound. It returns false once
// the machine is stopped.
func (e *Emulator) Frame(elapsed time.Duration) bool {
	if err := e.io.ProcessEvents(e); err != nil {
		e.vm.Fail(err)
	}

	e.execute(elapsed)
	e.vm.Tick(elapsed)

	switch e.vm.PollSound() {
	case chip8.SoundStart:
		e.io.SetSound(true)
	case chip8.SoundStop:
		e.io.SetSound(false)
	}

	state := e.vm.State()
	if e.vm.IsDrawFlagSet() || state != e.lastState {
		if err := e.io.Render(e.vm); err != nil {
			e.vm.Fail(err)
		}
		e.vm.UnsetDrawFlag()
	}
	e.lastState = state

	switch e.vm.State() {
	case chip8.Stopped, chip8.Errored:
		return false
	default:
		return true
	}
}

// execute runs the instructions that are due for the elapsed time. A
// machine waiting for a key gives up the rest of the frame.
func (e *Emulator) execute(elapsed time.Duration) {
	if e.vm.State() != chip8.Running {
		return
	}

	e.stepAcc += elapsed * time.Duration(e.speed)
	steps := int(e.stepAcc / time.Second)
	e.stepAcc %= time.Second

	for i := 0; i < steps; i++ {
		switch e.vm.Step() {
		case chip8.Waiting, chip8.Halted, chip8.Idle:
			return
		}
	}
}

// SetKey forwards a keypad state change to the machine.
func (e *Emulator) SetKey(key uint8, pressed bool) {
	e.vm.SetKey(key, pressed)
}

// TogglePause pauses a running machine or resumes a paused one.
func (e *Emulator) TogglePause() {
	switch e.vm.State() {
	case chip8.Running:
		e.vm.Pause()
		e.logger.Info("Paused", log.Hex("pc", e.vm.PC()))
	case chip8.Paused:
		e.vm.Resume()
		e.logger.Info("Resumed")
	}
}

// Reset restarts the loaded program.
func (e *Emulator) Reset() {
	e.vm.Reset()
	e.stepAcc = 0
	e.logger.Info("Reset")
}

// Quit stops the machine, Run returns after the current frame.
func (e *Emulator) Quit() {
	e.vm.Stop()
}
