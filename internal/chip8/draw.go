package chip8

// execDraw draws an 8 x n sprite read from memory at I. DRW Vx, Vy, n
//
// The sprite origin wraps around the display but the sprite itself is
// clipped at the right and bottom edges. Pixels are XORed onto the display
// and VF is set when a lit pixel gets turned off.
func (vm *VM) execDraw(ins Instruction) Outcome {
	x0 := int(vm.regV[ins.X]) % DisplayWidth
	y0 := int(vm.regV[ins.Y]) % DisplayHeight
	vm.regV[0xF] = 0
	outcome := Executed

	for row := 0; row < int(ins.N); row++ {
		y := y0 + row
		if y >= DisplayHeight {
			break
		}

		addr := int(vm.regI) + row
		if addr >= MemorySize {
			outcome = vm.fault(ErrMemoryOutOfBounds)
			break
		}
		sprite := vm.memory[addr]

		for bit := 0; bit < 8; bit++ {
			x := x0 + bit
			if x >= DisplayWidth {
				break
			}
			if sprite&(0x80>>bit) == 0 {
				continue
			}

			px := &vm.display[y*DisplayWidth+x]
			if *px {
				vm.regV[0xF] = 1
			}
			*px = !*px
		}
	}

	vm.drawFlag = true
	vm.pc += 2
	return outcome
}
