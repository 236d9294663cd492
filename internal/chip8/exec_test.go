package chip8

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestStep_LoadAndAddProgram(t *testing.T) {
	vm := newTestVM(t, 0x6005, 0x7003)

	assert.Equal(t, Executed, vm.Step())
	assert.Equal(t, Executed, vm.Step())

	assert.Equal(t, uint8(8), vm.Register(0))
	assert.Equal(t, uint16(0x204), vm.PC())
}

func TestStep_AddByteWrapsWithoutFlag(t *testing.T) {
	tests := []struct {
		kk1, kk2 uint8
	}{
		{0x00, 0x00},
		{0x05, 0x03},
		{0xFF, 0x01},
		{0x80, 0x80},
		{0xFE, 0xFF},
	}

	for _, tt := range tests {
		vm := newTestVM(t)
		vm.regV[0xF] = 0xAA
		execute(vm, 0x6300|uint16(tt.kk1))
		execute(vm, 0x7300|uint16(tt.kk2))

		assert.Equal(t, tt.kk1+tt.kk2, vm.Register(3))
		assert.Equal(t, uint8(0xAA), vm.Register(0xF))
	}
}

func TestALU_AddCarryExhaustive(t *testing.T) {
	vm := newTestVM(t)
	for a := 0; a <= 0xFF; a++ {
		for b := 0; b <= 0xFF; b++ {
			vm.pc = ProgramStart
			vm.regV[1] = uint8(a)
			vm.regV[2] = uint8(b)
			execute(vm, 0x8124)

			wantFlag := uint8(0)
			if a+b > 0xFF {
				wantFlag = 1
			}
			if vm.regV[1] != uint8(a+b) || vm.regV[0xF] != wantFlag {
				t.Fatalf("ADD %d+%d: got V1=%d VF=%d", a, b, vm.regV[1], vm.regV[0xF])
			}
		}
	}
}

func TestALU(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		vx, vy uint8
		wantVx uint8
		wantVF uint8
	}{
		{"LD", 0x8120, 0x12, 0x34, 0x34, 0xAA},
		{"OR", 0x8121, 0xF0, 0x0F, 0xFF, 0xAA},
		{"AND", 0x8122, 0xF3, 0x3F, 0x33, 0xAA},
		{"XOR", 0x8123, 0xFF, 0x0F, 0xF0, 0xAA},
		{"ADD no carry", 0x8124, 0x10, 0x20, 0x30, 0},
		{"ADD carry", 0x8124, 0xFF, 0x02, 0x01, 1},
		{"SUB no borrow", 0x8125, 0x30, 0x10, 0x20, 1},
		{"SUB equal", 0x8125, 0x10, 0x10, 0x00, 1},
		{"SUB borrow", 0x8125, 0x10, 0x30, 0xE0, 0},
		{"SHR odd", 0x8126, 0x05, 0xFF, 0x02, 1},
		{"SHR even", 0x8126, 0x04, 0xFF, 0x02, 0},
		{"SUBN no borrow", 0x8127, 0x10, 0x30, 0x20, 1},
		{"SUBN equal", 0x8127, 0x30, 0x30, 0x00, 1},
		{"SUBN borrow", 0x8127, 0x30, 0x10, 0xE0, 0},
		{"SHL high bit", 0x812E, 0x81, 0x00, 0x02, 1},
		{"SHL no high bit", 0x812E, 0x41, 0x00, 0x82, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(t)
			vm.regV[1] = tt.vx
			vm.regV[2] = tt.vy
			vm.regV[0xF] = 0xAA

			assert.Equal(t, Executed, execute(vm, tt.opcode))
			assert.Equal(t, tt.wantVx, vm.Register(1))
			assert.Equal(t, tt.wantVF, vm.Register(0xF))
			assert.Equal(t, uint16(ProgramStart+2), vm.PC())
		})
	}
}

func TestALU_FlagRegisterAsOperand(t *testing.T) {
	vm := newTestVM(t)
	vm.regV[0xF] = 0xFF
	vm.regV[1] = 0x01

	execute(vm, 0x8F14) // ADD VF, V1

	assert.Equal(t, uint8(1), vm.Register(0xF))
}

func TestALU_ShiftQuirk(t *testing.T) {
	vm := newTestVMWithOptions(t, Options{Quirks: Quirks{ShiftUsesVY: true}})
	vm.regV[1] = 0x00
	vm.regV[2] = 0x03

	execute(vm, 0x8126)
	assert.Equal(t, uint8(0x01), vm.Register(1))
	assert.Equal(t, uint8(1), vm.Register(0xF))

	vm.regV[2] = 0x80
	execute(vm, 0x812E)
	assert.Equal(t, uint8(0x00), vm.Register(1))
	assert.Equal(t, uint8(1), vm.Register(0xF))
}

func TestSkips(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		vx, vy uint8
		skip   bool
	}{
		{"SE byte equal", 0x3142, 0x42, 0, true},
		{"SE byte not equal", 0x3142, 0x41, 0, false},
		{"SNE byte equal", 0x4142, 0x42, 0, false},
		{"SNE byte not equal", 0x4142, 0x41, 0, true},
		{"SE register equal", 0x5120, 0x42, 0x42, true},
		{"SE register not equal", 0x5120, 0x42, 0x43, false},
		{"SNE register equal", 0x9120, 0x42, 0x42, false},
		{"SNE register not equal", 0x9120, 0x42, 0x43, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(t)
			vm.regV[1] = tt.vx
			vm.regV[2] = tt.vy

			assert.Equal(t, Executed, execute(vm, tt.opcode))
			want := uint16(ProgramStart + 2)
			if tt.skip {
				want = ProgramStart + 4
			}
			assert.Equal(t, want, vm.PC())
		})
	}
}

func TestJumps(t *testing.T) {
	vm := newTestVM(t)
	execute(vm, 0x1ABC)
	assert.Equal(t, uint16(0xABC), vm.PC())

	vm = newTestVM(t)
	vm.regV[0] = 0x10
	execute(vm, 0xB300)
	assert.Equal(t, uint16(0x310), vm.PC())

	vm = newTestVM(t)
	vm.regV[0] = 0x02
	execute(vm, 0xBFFF)
	assert.Equal(t, uint16(0x001), vm.PC())
}

func TestCallAndReturn(t *testing.T) {
	vm := newTestVM(t, 0x2300)
	vm.memory[0x300] = 0x00
	vm.memory[0x301] = 0xEE

	assert.Equal(t, Executed, vm.Step())
	assert.Equal(t, uint16(0x300), vm.PC())
	assert.Equal(t, uint8(1), vm.StackPointer())

	assert.Equal(t, Executed, vm.Step())
	assert.Equal(t, uint16(ProgramStart+2), vm.PC())
	assert.Equal(t, uint8(0), vm.StackPointer())
}

func TestCall_StackOverflowStops(t *testing.T) {
	vm := newTestVM(t, 0x2200) // calls itself

	for i := 0; i < StackDepth; i++ {
		assert.Equal(t, Executed, vm.Step())
	}
	assert.Equal(t, uint8(StackDepth), vm.StackPointer())
	assert.Equal(t, Running, vm.State())

	assert.Equal(t, Halted, vm.Step())
	assert.Equal(t, Stopped, vm.State())
	assert.Equal(t, uint8(StackDepth), vm.StackPointer())
	assert.True(t, errors.Is(vm.Err(), ErrStackOverflow))

	var d *Diagnostic
	assert.True(t, errors.As(vm.Err(), &d))
	assert.Equal(t, uint16(0x2200), d.Opcode)
	assert.Equal(t, uint16(ProgramStart), d.PC)

	assert.Equal(t, Idle, vm.Step())
}

func TestReturn_EmptyStackIsSoftFailure(t *testing.T) {
	vm := newTestVM(t, 0x00EE)

	assert.Equal(t, Faulted, vm.Step())
	assert.Equal(t, Running, vm.State())
	assert.Equal(t, uint16(ProgramStart+2), vm.PC())
	assert.True(t, errors.Is(vm.LastFault(), ErrStackUnderflow))
	assert.Nil(t, vm.Err())
}

func TestUnknownOpcodes(t *testing.T) {
	opcodes := []uint16{0x0123, 0x00E1, 0x5121, 0x812F, 0x8128, 0x9121, 0xE1FF, 0xF1FF, 0xF100}

	for _, opcode := range opcodes {
		vm := newTestVM(t)
		vm.regV[1] = 0x11

		assert.Equal(t, Faulted, execute(vm, opcode))
		assert.Equal(t, Running, vm.State())
		assert.Equal(t, uint16(ProgramStart+2), vm.PC())
		assert.Equal(t, uint8(0x11), vm.Register(1))
		assert.True(t, errors.Is(vm.LastFault(), ErrUnknownOpcode))
	}
}

func TestStep_ProgramCounterOutOfBounds(t *testing.T) {
	vm := newTestVM(t, 0x1FFF)

	assert.Equal(t, Executed, vm.Step())
	assert.Equal(t, Halted, vm.Step())
	assert.Equal(t, Stopped, vm.State())
	assert.True(t, errors.Is(vm.Err(), ErrPCOutOfBounds))
}

func TestStep_RunsToEndOfMemory(t *testing.T) {
	vm := newTestVM(t, 0x1FFE) // last full instruction, memory is zero there

	vm.Step()
	assert.Equal(t, Faulted, vm.Step()) // 0000 is not an instruction
	assert.Equal(t, Halted, vm.Step())
	assert.True(t, errors.Is(vm.Err(), ErrPCOutOfBounds))
}

func TestLoadIndexAndRandom(t *testing.T) {
	vm := newTestVM(t)
	execute(vm, 0xA123)
	assert.Equal(t, uint16(0x123), vm.Index())

	want := uint8(rand.New(rand.NewSource(1)).Intn(256)) & 0x0F
	vm = newTestVM(t)
	execute(vm, 0xC30F)
	assert.Equal(t, want, vm.Register(3))

	execute(vm, 0xC300)
	assert.Equal(t, uint8(0), vm.Register(3))
}

func TestKeySkips(t *testing.T) {
	tests := []struct {
		name    string
		opcode  uint16
		pressed bool
		skip    bool
	}{
		{"SKP pressed", 0xE19E, true, true},
		{"SKP released", 0xE19E, false, false},
		{"SKNP pressed", 0xE1A1, true, false},
		{"SKNP released", 0xE1A1, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(t)
			vm.regV[1] = 0xA
			vm.SetKey(0xA, tt.pressed)

			execute(vm, tt.opcode)
			want := uint16(ProgramStart + 2)
			if tt.skip {
				want = ProgramStart + 4
			}
			assert.Equal(t, want, vm.PC())
		})
	}
}

func TestKeySkip_RegisterOutsideKeypad(t *testing.T) {
	vm := newTestVM(t)
	vm.regV[1] = 0x1A
	vm.PressKey(0xA)

	execute(vm, 0xE19E)
	assert.Equal(t, uint16(ProgramStart+2), vm.PC())
}

func TestWaitForKey(t *testing.T) {
	vm := newTestVM(t, 0xF50A)

	for i := 0; i < 5; i++ {
		assert.Equal(t, Waiting, vm.Step())
		assert.Equal(t, uint16(ProgramStart), vm.PC())
	}

	vm.PressKey(3)
	vm.PressKey(9)
	assert.Equal(t, Executed, vm.Step())
	assert.Equal(t, uint8(3), vm.Register(5))
	assert.Equal(t, uint16(ProgramStart+2), vm.PC())
}

func TestTimerRegisters(t *testing.T) {
	vm := newTestVM(t)
	vm.regV[1] = 42
	vm.regV[2] = 7

	execute(vm, 0xF115)
	assert.Equal(t, uint8(42), vm.DelayTimer())
	execute(vm, 0xF218)
	assert.Equal(t, uint8(7), vm.SoundTimer())
	execute(vm, 0xF307)
	assert.Equal(t, uint8(42), vm.Register(3))
	assert.Equal(t, uint16(ProgramStart+6), vm.PC())
}

func TestIndexArithmetic(t *testing.T) {
	vm := newTestVM(t)
	vm.regI = 0xFFF0
	vm.regV[1] = 0x20
	vm.regV[0xF] = 0xAA

	execute(vm, 0xF11E)
	assert.Equal(t, uint16(0x0010), vm.Index())
	assert.Equal(t, uint8(0xAA), vm.Register(0xF))

	vm.regV[2] = 0xB
	execute(vm, 0xF229)
	assert.Equal(t, uint16(0xB*5), vm.Index())
	value, ok := vm.ReadMemory(vm.Index())
	assert.True(t, ok)
	assert.Equal(t, uint8(0xE0), value)
}

func TestBCD(t *testing.T) {
	tests := []struct {
		value uint8
		want  [3]uint8
	}{
		{0, [3]uint8{0, 0, 0}},
		{7, [3]uint8{0, 0, 7}},
		{42, [3]uint8{0, 4, 2}},
		{255, [3]uint8{2, 5, 5}},
	}

	for _, tt := range tests {
		vm := newTestVM(t)
		vm.regI = 0x300
		vm.regV[4] = tt.value

		assert.Equal(t, Executed, execute(vm, 0xF433))
		assert.Equal(t, tt.want, [3]uint8{vm.memory[0x300], vm.memory[0x301], vm.memory[0x302]})
		assert.Equal(t, uint16(0x300), vm.Index())
	}
}

func TestBCD_OutOfBounds(t *testing.T) {
	vm := newTestVM(t)
	vm.regI = MemorySize - 2
	vm.regV[4] = 123

	assert.Equal(t, Faulted, execute(vm, 0xF433))
	assert.Equal(t, uint8(1), vm.memory[MemorySize-2])
	assert.Equal(t, uint8(2), vm.memory[MemorySize-1])
	assert.Equal(t, uint16(ProgramStart+2), vm.PC())
	assert.True(t, errors.Is(vm.LastFault(), ErrMemoryOutOfBounds))
}

func TestRegisterStoreAndLoad(t *testing.T) {
	vm := newTestVM(t)
	for i := range vm.regV {
		vm.regV[i] = uint8(0x10 + i)
	}
	vm.regI = 0x400

	execute(vm, 0xF355)
	assert.Equal(t, [5]uint8{0x10, 0x11, 0x12, 0x13, 0x00}, [5]uint8(vm.memory[0x400:0x405]))
	assert.Equal(t, uint16(0x400), vm.Index())

	vm.regV = [16]uint8{}
	execute(vm, 0xF265)
	assert.Equal(t, uint8(0x10), vm.Register(0))
	assert.Equal(t, uint8(0x11), vm.Register(1))
	assert.Equal(t, uint8(0x12), vm.Register(2))
	assert.Equal(t, uint8(0x00), vm.Register(3))
	assert.Equal(t, uint16(0x400), vm.Index())
}

func TestRegisterStoreAndLoad_IncrementQuirk(t *testing.T) {
	vm := newTestVMWithOptions(t, Options{Quirks: Quirks{LoadStoreIncrementsI: true}})
	vm.regI = 0x400

	execute(vm, 0xF355)
	assert.Equal(t, uint16(0x404), vm.Index())
	execute(vm, 0xF065)
	assert.Equal(t, uint16(0x405), vm.Index())
}

func TestRegisterStore_OutOfBounds(t *testing.T) {
	vm := newTestVM(t)
	vm.regI = MemorySize - 2
	vm.regV[0] = 0xAB
	vm.regV[1] = 0xCD
	vm.regV[2] = 0xEF

	assert.Equal(t, Faulted, execute(vm, 0xF255))
	assert.Equal(t, uint8(0xAB), vm.memory[MemorySize-2])
	assert.Equal(t, uint8(0xCD), vm.memory[MemorySize-1])
	assert.True(t, errors.Is(vm.LastFault(), ErrMemoryOutOfBounds))

	vm.regV = [16]uint8{}
	assert.Equal(t, Faulted, execute(vm, 0xF265))
	assert.Equal(t, uint8(0xAB), vm.Register(0))
	assert.Equal(t, uint8(0xCD), vm.Register(1))
	assert.Equal(t, uint8(0x00), vm.Register(2))
}

func TestClearScreen(t *testing.T) {
	vm := newTestVM(t)
	for i := range vm.display {
		vm.display[i] = i%3 == 0
	}
	vm.UnsetDrawFlag()

	assert.Equal(t, Executed, execute(vm, 0x00E0))
	assert.Equal(t, [DisplaySize]bool{}, vm.Display())
	assert.True(t, vm.IsDrawFlagSet())
}
