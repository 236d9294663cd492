package chip8

import (
	"time"
)

// tickRate is the frequency in Hz at which the delay and sound timers count down.
const tickRate = 60

// SoundEvent is a change of the audible state of the machine.
type SoundEvent uint8

// Sound events returned by PollSound.
const (
	SoundNone  SoundEvent = iota // no change since the last poll
	SoundStart                   // the sound timer became non-zero, start the tone
	SoundStop                    // the sound timer reached zero or the machine halted, stop the tone
)

func (e SoundEvent) String() string {
	switch e {
	case SoundNone:
		return "none"
	case SoundStart:
		return "start"
	case SoundStop:
		return "stop"
	default:
		return "unknown"
	}
}

// Tick advances the timers by the wall-clock time elapsed since the
// previous call. Every full 1/60 s decrements each non-zero timer once,
// the remainder is carried into the next call so that irregular or slow
// polling neither loses nor doubles ticks. It returns the number of
// 60 Hz ticks that passed and does nothing unless the machine is Running.
func (vm *VM) Tick(elapsed time.Duration) int {
	if vm.state != Running || elapsed <= 0 {
		return 0
	}

	// scaled by tickRate so that one tick is exactly one second of
	// accumulator, avoiding the rounding of time.Second/60
	vm.timerAcc += elapsed * tickRate
	ticks := int(vm.timerAcc / time.Second)
	vm.timerAcc %= time.Second

	// timers are 8 bit, anything past 255 ticks has no further effect
	n := ticks
	if n > 0xFF {
		n = 0xFF
	}
	for i := 0; i < n; i++ {
		vm.decrementTimers()
	}

	vm.updateSound()
	return ticks
}

func (vm *VM) decrementTimers() {
	if vm.delayTimer > 0 {
		vm.delayTimer--
	}
	if vm.soundTimer > 0 {
		vm.soundTimer--
	}
}

// Sounding returns whether the tone should currently be audible.
func (vm *VM) Sounding() bool {
	return vm.state == Running && vm.soundTimer > 0
}

// PollSound returns the latest change of the audible state since the
// previous poll and clears it.
func (vm *VM) PollSound() SoundEvent {
	ev := vm.soundEvent
	vm.soundEvent = SoundNone
	return ev
}

func (vm *VM) updateSound() {
	on := vm.Sounding()
	if on == vm.sounding {
		return
	}
	vm.sounding = on
	if on {
		vm.soundEvent = SoundStart
	} else {
		vm.soundEvent = SoundStop
	}
}
