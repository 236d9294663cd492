package chip8

import (
	"math/rand"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// newTestVM returns a VM with the given instruction words loaded at ProgramStart.
func newTestVM(t *testing.T, program ...uint16) *VM {
	t.Helper()
	return newTestVMWithOptions(t, Options{}, program...)
}

func newTestVMWithOptions(t *testing.T, opts Options, program ...uint16) *VM {
	t.Helper()
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	vm := New(log.NewTestLogger(t), opts)
	if len(program) > 0 {
		assert.NoError(t, vm.LoadROM(words(program...)))
	}
	return vm
}

func words(program ...uint16) []byte {
	data := make([]byte, 0, 2*len(program))
	for _, w := range program {
		data = append(data, byte(w>>8), byte(w))
	}
	return data
}

// execute writes a single instruction at the program counter and runs it.
func execute(vm *VM, opcode uint16) Outcome {
	vm.memory[vm.pc] = byte(opcode >> 8)
	vm.memory[vm.pc+1] = byte(opcode)
	return vm.Step()
}

// steps runs n instructions and returns the last outcome.
func steps(vm *VM, n int) Outcome {
	outcome := Idle
	for i := 0; i < n; i++ {
		outcome = vm.Step()
	}
	return outcome
}
