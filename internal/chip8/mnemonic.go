package chip8

import (
	cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Mnemonic returns the assembler name of the instruction encoded by the
// opcode, or an empty string if the opcode is not a known instruction.
func Mnemonic(opcode uint16) string {
	opcodes := cpu.Opcodes[int(opcode>>12)]
	for _, op := range opcodes {
		if op.Info.Mask&opcode == op.Info.Value && op.Instruction != nil {
			return op.Instruction.Name
		}
	}
	return ""
}
