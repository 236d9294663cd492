package chip8

import (
	"errors"
	"fmt"
)

// Conditions reported by the engine and the program loader.
var (
	ErrUnknownOpcode     = errors.New("unknown opcode")
	ErrStackUnderflow    = errors.New("return with empty stack")
	ErrStackOverflow     = errors.New("call with full stack")
	ErrPCOutOfBounds     = errors.New("program counter outside memory")
	ErrMemoryOutOfBounds = errors.New("memory access outside memory")

	ErrProgramTooLarge = errors.New("program size exceeds the maximum size")
	ErrEmptyProgram    = errors.New("program is empty")
)

// Diagnostic describes a failure that occurred while executing an instruction.
type Diagnostic struct {
	Condition error
	Opcode    uint16
	PC        uint16
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%v: opcode %04X at %03X", d.Condition, d.Opcode, d.PC)
}

// Unwrap returns the condition so that errors.Is matches the sentinel values.
func (d *Diagnostic) Unwrap() error {
	return d.Condition
}
