package chip8

import (
	"github.com/retroenv/retrogolib/log"
)

// State is the run state of the machine.
type State uint8

// Run states. Only Running lets Step and Tick have an effect, Stopped and
// Errored are terminal until Reset.
const (
	Running State = iota
	Paused
	Stopped
	Errored
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// State returns the current run state.
func (vm *VM) State() State {
	return vm.state
}

// Err returns the reason the machine stopped or failed, nil while it is
// running, paused or was stopped on request.
func (vm *VM) Err() error {
	return vm.err
}

// LastFault returns the most recent soft failure, such as an unknown opcode.
func (vm *VM) LastFault() error {
	return vm.lastFault
}

// Pause suspends execution. It has no effect unless the machine is Running.
func (vm *VM) Pause() {
	if vm.state != Running {
		return
	}
	vm.state = Paused
	vm.updateSound()
}

// Resume continues a paused machine.
func (vm *VM) Resume() {
	if vm.state != Paused {
		return
	}
	vm.state = Running
	vm.updateSound()
}

// Stop halts the machine on request.
func (vm *VM) Stop() {
	if vm.state == Stopped || vm.state == Errored {
		return
	}
	vm.state = Stopped
	vm.updateSound()
	vm.logger.Debug("Machine stopped", log.Hex("pc", vm.pc))
}

// Fail moves the machine into the Errored state, recording err as the reason.
// It is used by drivers that detect failures outside the engine.
func (vm *VM) Fail(err error) {
	if vm.state == Stopped || vm.state == Errored {
		return
	}
	vm.state = Errored
	vm.err = err
	vm.updateSound()
	vm.logger.Error("Machine failed", log.Err(err))
}
