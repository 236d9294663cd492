package chip8

// Instruction is the structural decomposition of a 16-bit instruction word.
// Every field any opcode can use is extracted; which of them are
// meaningful depends on the opcode.
type Instruction struct {
	Opcode uint16 // raw instruction word
	Group  uint8  // the highest 4 bits, selects the handler group
	X      uint8  // the lower 4 bits of the high byte
	Y      uint8  // the upper 4 bits of the low byte
	N      uint8  // the lowest 4 bits
	KK     uint8  // the lowest 8 bits
	NNN    uint16 // the lowest 12 bits
}

// Decode splits an instruction word into its fields. Every word decodes,
// whether the opcode exists is decided at dispatch.
func Decode(opcode uint16) Instruction {
	return Instruction{
		Opcode: opcode,
		Group:  uint8(opcode >> 12),
		X:      uint8((opcode >> 8) & 0x000F),
		Y:      uint8((opcode >> 4) & 0x000F),
		N:      uint8(opcode & 0x000F),
		KK:     uint8(opcode & 0x00FF),
		NNN:    opcode & 0x0FFF,
	}
}
