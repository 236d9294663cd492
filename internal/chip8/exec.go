package chip8

import (
	"github.com/retroenv/retrogolib/log"
)

// Outcome tells the driver what executing a single instruction did.
type Outcome uint8

// Instruction outcomes.
const (
	// Executed means the instruction completed and the program counter moved on.
	Executed Outcome = iota
	// Waiting means Fx0A found no key pressed. The program counter was not
	// advanced and the same instruction runs again on the next Step.
	Waiting
	// Faulted means a recoverable failure was logged and execution continues.
	Faulted
	// Halted means the machine left the Running state during this instruction.
	Halted
	// Idle means the machine was not Running and nothing was executed.
	Idle
)

func (o Outcome) String() string {
	switch o {
	case Executed:
		return "executed"
	case Waiting:
		return "waiting"
	case Faulted:
		return "faulted"
	case Halted:
		return "halted"
	case Idle:
		return "idle"
	default:
		return "unknown"
	}
}

type handler func(vm *VM, ins Instruction) Outcome

// groups dispatches on the highest nibble of the opcode. Groups 0, 8, E
// and F hold several instructions and select again on the low nibble or
// low byte.
var groups = [16]handler{
	0x0: (*VM).execSystem,
	0x1: (*VM).execJump,
	0x2: (*VM).execCall,
	0x3: (*VM).execSkipEqualByte,
	0x4: (*VM).execSkipNotEqualByte,
	0x5: (*VM).execSkipEqualRegister,
	0x6: (*VM).execLoadByte,
	0x7: (*VM).execAddByte,
	0x8: (*VM).execALU,
	0x9: (*VM).execSkipNotEqualRegister,
	0xA: (*VM).execLoadIndex,
	0xB: (*VM).execJumpOffset,
	0xC: (*VM).execRandom,
	0xD: (*VM).execDraw,
	0xE: (*VM).execKeySkip,
	0xF: (*VM).execMisc,
}

// Step fetches, decodes and executes the instruction at the program counter.
// It does nothing unless the machine is Running.
func (vm *VM) Step() Outcome {
	if vm.state != Running {
		return Idle
	}

	if int(vm.pc)+1 >= MemorySize {
		vm.opcode = 0
		return vm.halt(ErrPCOutOfBounds)
	}

	vm.opcode = uint16(vm.memory[vm.pc])<<8 | uint16(vm.memory[vm.pc+1])
	ins := Decode(vm.opcode)

	if vm.trace {
		vm.logger.Debug("Execute",
			log.Hex("pc", vm.pc),
			log.Hex("opcode", ins.Opcode),
			log.String("instruction", Mnemonic(ins.Opcode)),
		)
	}

	outcome := groups[ins.Group](vm, ins)
	vm.updateSound()
	return outcome
}

// fault records a recoverable failure of the current instruction. It must
// be called before the handler moves the program counter.
func (vm *VM) fault(condition error) Outcome {
	d := &Diagnostic{Condition: condition, Opcode: vm.opcode, PC: vm.pc}
	vm.lastFault = d
	vm.logger.Warn(condition.Error(),
		log.Hex("opcode", d.Opcode),
		log.Hex("pc", d.PC),
		log.String("instruction", Mnemonic(d.Opcode)),
	)
	return Faulted
}

// halt stops the machine because the current instruction can not continue.
func (vm *VM) halt(condition error) Outcome {
	d := &Diagnostic{Condition: condition, Opcode: vm.opcode, PC: vm.pc}
	vm.state = Stopped
	vm.err = d
	vm.updateSound()
	vm.logger.Error(condition.Error(),
		log.Hex("opcode", d.Opcode),
		log.Hex("pc", d.PC),
	)
	return Halted
}

func (vm *VM) unknownOpcode() Outcome {
	outcome := vm.fault(ErrUnknownOpcode)
	vm.pc += 2
	return outcome
}

// skipIf advances past the next instruction when cond holds.
func (vm *VM) skipIf(cond bool) Outcome {
	if cond {
		vm.pc += 4
	} else {
		vm.pc += 2
	}
	return Executed
}

func (vm *VM) execSystem(ins Instruction) Outcome {
	if ins.X != 0 || ins.Y != 0xE {
		return vm.unknownOpcode()
	}

	switch ins.KK {
	case 0xE0: // CLS
		vm.display = [DisplaySize]bool{}
		vm.drawFlag = true
		vm.pc += 2
		return Executed

	case 0xEE: // RET
		if vm.sp == 0 {
			outcome := vm.fault(ErrStackUnderflow)
			vm.pc += 2
			return outcome
		}
		vm.sp--
		vm.pc = vm.stack[vm.sp]
		return Executed

	default:
		return vm.unknownOpcode()
	}
}

func (vm *VM) execJump(ins Instruction) Outcome { // JP nnn
	vm.pc = ins.NNN
	return Executed
}

func (vm *VM) execCall(ins Instruction) Outcome { // CALL nnn
	if int(vm.sp) >= StackDepth {
		return vm.halt(ErrStackOverflow)
	}
	vm.stack[vm.sp] = vm.pc + 2
	vm.sp++
	vm.pc = ins.NNN
	return Executed
}

func (vm *VM) execSkipEqualByte(ins Instruction) Outcome { // SE Vx, kk
	return vm.skipIf(vm.regV[ins.X] == ins.KK)
}

func (vm *VM) execSkipNotEqualByte(ins Instruction) Outcome { // SNE Vx, kk
	return vm.skipIf(vm.regV[ins.X] != ins.KK)
}

func (vm *VM) execSkipEqualRegister(ins Instruction) Outcome { // SE Vx, Vy
	if ins.N != 0 {
		return vm.unknownOpcode()
	}
	return vm.skipIf(vm.regV[ins.X] == vm.regV[ins.Y])
}

func (vm *VM) execLoadByte(ins Instruction) Outcome { // LD Vx, kk
	vm.regV[ins.X] = ins.KK
	vm.pc += 2
	return Executed
}

func (vm *VM) execAddByte(ins Instruction) Outcome { // ADD Vx, kk
	vm.regV[ins.X] += ins.KK
	vm.pc += 2
	return Executed
}

func (vm *VM) execALU(ins Instruction) Outcome {
	x, y := ins.X, ins.Y
	vx, vy := vm.regV[x], vm.regV[y]

	switch ins.N {
	case 0x0: // LD Vx, Vy
		vm.regV[x] = vy
	case 0x1: // OR Vx, Vy
		vm.regV[x] = vx | vy
	case 0x2: // AND Vx, Vy
		vm.regV[x] = vx & vy
	case 0x3: // XOR Vx, Vy
		vm.regV[x] = vx ^ vy
	case 0x4: // ADD Vx, Vy
		sum := uint16(vx) + uint16(vy)
		vm.regV[x] = uint8(sum)
		vm.regV[0xF] = boolToFlag(sum > 0xFF)
	case 0x5: // SUB Vx, Vy
		vm.regV[x] = vx - vy
		vm.regV[0xF] = boolToFlag(vx >= vy)
	case 0x6: // SHR Vx {, Vy}
		if vm.quirks.ShiftUsesVY {
			vx = vy
		}
		vm.regV[x] = vx >> 1
		vm.regV[0xF] = vx & 0x01
	case 0x7: // SUBN Vx, Vy
		vm.regV[x] = vy - vx
		vm.regV[0xF] = boolToFlag(vy >= vx)
	case 0xE: // SHL Vx {, Vy}
		if vm.quirks.ShiftUsesVY {
			vx = vy
		}
		vm.regV[x] = vx << 1
		vm.regV[0xF] = (vx >> 7) & 0x01
	default:
		return vm.unknownOpcode()
	}

	vm.pc += 2
	return Executed
}

func (vm *VM) execSkipNotEqualRegister(ins Instruction) Outcome { // SNE Vx, Vy
	if ins.N != 0 {
		return vm.unknownOpcode()
	}
	return vm.skipIf(vm.regV[ins.X] != vm.regV[ins.Y])
}

func (vm *VM) execLoadIndex(ins Instruction) Outcome { // LD I, nnn
	vm.regI = ins.NNN
	vm.pc += 2
	return Executed
}

func (vm *VM) execJumpOffset(ins Instruction) Outcome { // JP V0, nnn
	vm.pc = (ins.NNN + uint16(vm.regV[0])) % MemorySize
	return Executed
}

func (vm *VM) execRandom(ins Instruction) Outcome { // RND Vx, kk
	vm.regV[ins.X] = uint8(vm.rnd.Intn(256)) & ins.KK
	vm.pc += 2
	return Executed
}

func (vm *VM) execKeySkip(ins Instruction) Outcome {
	switch ins.KK {
	case 0x9E: // SKP Vx
		return vm.skipIf(vm.KeyPressed(vm.regV[ins.X]))
	case 0xA1: // SKNP Vx
		return vm.skipIf(!vm.KeyPressed(vm.regV[ins.X]))
	default:
		return vm.unknownOpcode()
	}
}

func (vm *VM) execMisc(ins Instruction) Outcome {
	x := ins.X
	outcome := Executed

	switch ins.KK {
	case 0x07: // LD Vx, DT
		vm.regV[x] = vm.delayTimer
	case 0x0A: // LD Vx, K
		key, ok := vm.firstPressedKey()
		if !ok {
			return Waiting
		}
		vm.regV[x] = key
	case 0x15: // LD DT, Vx
		vm.delayTimer = vm.regV[x]
	case 0x18: // LD ST, Vx
		vm.soundTimer = vm.regV[x]
	case 0x1E: // ADD I, Vx
		vm.regI += uint16(vm.regV[x])
	case 0x29: // LD F, Vx
		vm.regI = uint16(vm.regV[x]) * glyphSize
	case 0x33: // LD B, Vx
		outcome = vm.storeBCD(vm.regV[x])
	case 0x55: // LD [I], Vx
		outcome = vm.storeRegisters(x)
	case 0x65: // LD Vx, [I]
		outcome = vm.loadRegisters(x)
	default:
		return vm.unknownOpcode()
	}

	vm.pc += 2
	return outcome
}

func (vm *VM) firstPressedKey() (uint8, bool) {
	for k := range vm.keys {
		if vm.keys[k] {
			return uint8(k), true
		}
	}
	return 0, false
}

func (vm *VM) storeBCD(value uint8) Outcome {
	digits := [3]uint8{value / 100, (value / 10) % 10, value % 10}
	for i, d := range digits {
		addr := int(vm.regI) + i
		if addr >= MemorySize {
			return vm.fault(ErrMemoryOutOfBounds)
		}
		vm.memory[addr] = d
	}
	return Executed
}

func (vm *VM) storeRegisters(x uint8) Outcome {
	outcome := Executed
	for i := 0; i <= int(x); i++ {
		addr := int(vm.regI) + i
		if addr >= MemorySize {
			outcome = vm.fault(ErrMemoryOutOfBounds)
			break
		}
		vm.memory[addr] = vm.regV[i]
	}
	if vm.quirks.LoadStoreIncrementsI {
		vm.regI += uint16(x) + 1
	}
	return outcome
}

func (vm *VM) loadRegisters(x uint8) Outcome {
	outcome := Executed
	for i := 0; i <= int(x); i++ {
		addr := int(vm.regI) + i
		if addr >= MemorySize {
			outcome = vm.fault(ErrMemoryOutOfBounds)
			break
		}
		vm.regV[i] = vm.memory[addr]
	}
	if vm.quirks.LoadStoreIncrementsI {
		vm.regI += uint16(x) + 1
	}
	return outcome
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
