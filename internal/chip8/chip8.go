// Package chip8 implements the CHIP-8 interpreter engine: machine state,
// instruction decoding, opcode execution and the 60 Hz timers.
//
// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM
//
// The VM is driven from the outside. A frontend repeatedly calls Step to
// execute one instruction and Tick to advance the timers by the wall-clock
// time that passed, then reads the display and the sound events and feeds
// the key state back in. The VM never blocks and holds no locks; it must be
// owned by a single goroutine.
package chip8

import (
	"math/rand"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// CHIP-8 VM constants
const (
	MemorySize     = 0x1000
	ProgramStart   = 0x200
	MaxProgramSize = MemorySize - ProgramStart

	DisplayWidth  = 64
	DisplayHeight = 32
	DisplaySize   = DisplayWidth * DisplayHeight

	KeyCount   = 16
	StackDepth = 16

	fontsetSize = 80
	glyphSize   = 5
)

var fontset = [fontsetSize]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Options configures a new VM.
type Options struct {
	Quirks Quirks
	Trace  bool       // log every executed instruction at debug level
	Rand   *rand.Rand // random source for Cxkk, seeded from the clock if nil
}

// VM is an emulated CHIP-8 machine.
type VM struct {
	opcode     uint16             // 16-bit opcode of the current instruction
	regV       [16]uint8          // 16 general purpose 8-bit registers
	regI       uint16             // 16-bit register that is generally used to store memory addresses
	delayTimer uint8              // Delay timer
	soundTimer uint8              // Sound timer
	pc         uint16             // Program counter
	sp         uint8              // Stack pointer, number of entries in use
	stack      [StackDepth]uint16 // A stack of 16 16-bit return addresses
	memory     [MemorySize]uint8  // 4 KB global memory
	display    [DisplaySize]bool  // 64 px x 32 px display, row-major
	keys       [KeyCount]bool     // Pressed state of the 16 keypad keys

	timerAcc time.Duration // elapsed time scaled by tickRate, less the whole ticks already applied

	drawFlag   bool       // display changed since the last UnsetDrawFlag
	sounding   bool       // sound was audible when last checked
	soundEvent SoundEvent // pending transition for PollSound

	state     State
	err       error // reason the machine stopped
	lastFault error // most recent soft failure

	rom    []byte // loaded program, kept for Reset
	quirks Quirks
	trace  bool
	rnd    *rand.Rand
	logger *log.Logger
}

// New creates a new CHIP-8 VM in the Running state with the font loaded
// and the program counter at ProgramStart.
func New(logger *log.Logger, opts Options) *VM {
	if logger == nil {
		logger = log.NewWithConfig(log.DefaultConfig())
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	vm := &VM{
		quirks: opts.Quirks,
		trace:  opts.Trace,
		rnd:    rnd,
		logger: logger,
	}
	vm.init()
	return vm
}

func (vm *VM) init() {
	vm.opcode = 0
	vm.regV = [16]uint8{}
	vm.regI = 0
	vm.delayTimer = 0
	vm.soundTimer = 0
	vm.pc = ProgramStart
	vm.sp = 0
	vm.stack = [StackDepth]uint16{}
	vm.memory = [MemorySize]uint8{}
	vm.display = [DisplaySize]bool{}
	vm.timerAcc = 0
	vm.state = Running
	vm.err = nil
	vm.lastFault = nil
	vm.drawFlag = true

	copy(vm.memory[:], fontset[:])
}

// Reset restarts the machine: all state is cleared, the font and the
// previously loaded program are copied back into memory and the machine
// is Running again. The key state is left alone since it mirrors the host.
func (vm *VM) Reset() {
	vm.init()
	copy(vm.memory[ProgramStart:], vm.rom)
	vm.updateSound()
	vm.logger.Debug("Machine reset", log.Int("program_size", len(vm.rom)))
}

// PressKey marks the given keypad key as held down.
func (vm *VM) PressKey(key uint8) {
	vm.SetKey(key, true)
}

// ReleaseKey marks the given keypad key as released.
func (vm *VM) ReleaseKey(key uint8) {
	vm.SetKey(key, false)
}

// SetKey sets the pressed state of a keypad key. Keys outside 0x0-0xF are ignored.
func (vm *VM) SetKey(key uint8, pressed bool) {
	if int(key) >= KeyCount {
		return
	}
	vm.keys[key] = pressed
}

// KeyPressed returns whether the given keypad key is held down.
func (vm *VM) KeyPressed(key uint8) bool {
	return int(key) < KeyCount && vm.keys[key]
}

// Pixel returns whether the display pixel at x, y is lit. Coordinates
// outside the display read as unlit.
func (vm *VM) Pixel(x, y int) bool {
	if x < 0 || y < 0 || x >= DisplayWidth || y >= DisplayHeight {
		return false
	}
	return vm.display[y*DisplayWidth+x]
}

// Display returns a copy of the framebuffer.
func (vm *VM) Display() [DisplaySize]bool {
	return vm.display
}

// IsDrawFlagSet returns whether the display changed since the flag was last unset.
func (vm *VM) IsDrawFlagSet() bool {
	return vm.drawFlag
}

// UnsetDrawFlag unsets the draw flag
func (vm *VM) UnsetDrawFlag() {
	vm.drawFlag = false
}

// PC returns the program counter.
func (vm *VM) PC() uint16 {
	return vm.pc
}

// Index returns the value of the I register.
func (vm *VM) Index() uint16 {
	return vm.regI
}

// Register returns the value of Vx. x is masked to 0x0-0xF.
func (vm *VM) Register(x uint8) uint8 {
	return vm.regV[x&0xF]
}

// StackPointer returns the number of return addresses on the stack.
func (vm *VM) StackPointer() uint8 {
	return vm.sp
}

// DelayTimer returns the value of DT
func (vm *VM) DelayTimer() uint8 {
	return vm.delayTimer
}

// SoundTimer returns the value of ST
func (vm *VM) SoundTimer() uint8 {
	return vm.soundTimer
}

// ReadMemory returns the byte at the given address and whether the address is valid.
func (vm *VM) ReadMemory(address uint16) (uint8, bool) {
	if int(address) >= MemorySize {
		return 0, false
	}
	return vm.memory[address], true
}
