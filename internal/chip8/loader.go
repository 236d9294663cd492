package chip8

import (
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/log"
)

// LoadProgram loads a given CHIP-8 program file into the VM's memory.
func (vm *VM) LoadProgram(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading program %s: %w", filename, err)
	}
	if err := vm.LoadROM(data); err != nil {
		return fmt.Errorf("loading program %s: %w", filename, err)
	}
	return nil
}

// LoadROM copies a program image into memory at ProgramStart. The image is
// validated first, on error the machine is left untouched.
func (vm *VM) LoadROM(data []byte) error {
	size := len(data)
	switch {
	case size == 0:
		return ErrEmptyProgram
	case size > MaxProgramSize:
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrProgramTooLarge, size, MaxProgramSize)
	}

	vm.rom = append(vm.rom[:0], data...)
	program := vm.memory[ProgramStart:]
	copy(program, vm.rom)
	for i := size; i < len(program); i++ {
		program[i] = 0
	}

	vm.logger.Debug("Program loaded",
		log.Int("size", size),
		log.Hex("start", uint16(ProgramStart)),
	)
	return nil
}
