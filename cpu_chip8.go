// cpu_chip8.go - CHIP-8 interpreter core

/*
Cobalt8 - a CHIP-8 virtual machine
https://github.com/cobaltvm/cobalt8
License: GPLv3 or later
*/

package main

import (
	"math/rand"
	"time"
)

// CPU is the CHIP-8 state machine: sixteen 8-bit registers (VF doubles
// as the carry/borrow/collision flag), the 12-bit index register I, the
// program counter, a 16-deep call stack and the two countdown timers.
// Step executes exactly one fetch-decode-execute cycle; TickTimers runs
// on its own fixed 60 Hz cadence, decoupled from the instruction rate.
type CPU struct {
	V     [NUM_REGISTERS]byte
	I     uint16
	PC    uint16
	Stack [STACK_DEPTH]uint16
	SP    byte

	DelayTimer byte
	SoundTimer byte

	// The wait-for-key opcode suspends logical progress without blocking
	// the thread: while WaitingForKey is set, Step polls the keypad and
	// leaves all other state untouched.
	WaitingForKey bool
	waitRegister  byte

	mem     *Memory
	display *DisplayBuffer
	keypad  *Keypad
	quirks  Quirks
	rng     *rand.Rand
}

func NewCPU(mem *Memory, display *DisplayBuffer, keypad *Keypad, quirks Quirks) *CPU {
	cpu := &CPU{
		mem:     mem,
		display: display,
		keypad:  keypad,
		quirks:  quirks,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	cpu.Reset()
	return cpu
}

// Reset returns the CPU to its power-on state. Memory, display and
// keypad are reset by the machine, which owns the full session lifecycle.
func (cpu *CPU) Reset() {
	for i := range cpu.V {
		cpu.V[i] = 0
	}
	for i := range cpu.Stack {
		cpu.Stack[i] = 0
	}
	cpu.I = 0
	cpu.PC = PROG_START
	cpu.SP = 0
	cpu.DelayTimer = 0
	cpu.SoundTimer = 0
	cpu.WaitingForKey = false
	cpu.waitRegister = 0
}

// TickTimers decrements both countdown timers, saturating at zero.
// Called at TIMER_RATE Hz by the cycle driver regardless of how many
// instructions ran in the interval.
func (cpu *CPU) TickTimers() {
	if cpu.DelayTimer > 0 {
		cpu.DelayTimer--
	}
	if cpu.SoundTimer > 0 {
		cpu.SoundTimer--
	}
}

// SoundActive reports whether the audio collaborator should be emitting
// a tone.
func (cpu *CPU) SoundActive() bool {
	return cpu.SoundTimer > 0
}

func (cpu *CPU) push(addr uint16) error {
	if cpu.SP >= STACK_DEPTH {
		return &StackOverflowError{PC: cpu.PC}
	}
	cpu.Stack[cpu.SP] = addr
	cpu.SP++
	return nil
}

func (cpu *CPU) pop() (uint16, error) {
	if cpu.SP == 0 {
		return 0, &StackUnderflowError{PC: cpu.PC}
	}
	cpu.SP--
	return cpu.Stack[cpu.SP], nil
}

// Step performs one fetch-decode-execute cycle. While a wait-for-key is
// pending it is re-entrant: the keypad is polled and the PC does not
// move until a key is down. The PC is advanced past the instruction
// before execution, so control-flow opcodes override it cleanly.
func (cpu *CPU) Step() error {
	if cpu.WaitingForKey {
		key, ok := cpu.keypad.AnyPressed()
		if !ok {
			return nil
		}
		cpu.V[cpu.waitRegister] = key
		cpu.WaitingForKey = false
		return nil
	}

	fetchPC := cpu.PC
	if fetchPC+1 >= MEMORY_SIZE {
		return &OutOfBoundsError{Addr: fetchPC + 1}
	}
	hi, _ := cpu.mem.ReadByte(fetchPC)
	lo, _ := cpu.mem.ReadByte(fetchPC + 1)
	word := uint16(hi)<<8 | uint16(lo)
	cpu.PC += INSTRUCTION_SIZE

	in, ok := Decode(word)
	if !ok {
		return &UnknownOpcodeError{Opcode: word, PC: fetchPC}
	}
	return cpu.execute(in)
}

// skip advances the PC over the next instruction.
func (cpu *CPU) skip() {
	cpu.PC += INSTRUCTION_SIZE
}

func (cpu *CPU) execute(in Instruction) error {
	switch in.Op {
	case OP_CLS:
		cpu.display.Clear()

	case OP_RET:
		addr, err := cpu.pop()
		if err != nil {
			return err
		}
		cpu.PC = addr

	case OP_SYS, OP_CALL:
		// 0nnn machine-language calls behave as ordinary calls here,
		// matching interpreters that never had native routines.
		if err := cpu.push(cpu.PC); err != nil {
			return err
		}
		cpu.PC = in.NNN

	case OP_JP:
		cpu.PC = in.NNN

	case OP_SE_VX_NN:
		if cpu.V[in.X] == in.NN {
			cpu.skip()
		}

	case OP_SNE_VX_NN:
		if cpu.V[in.X] != in.NN {
			cpu.skip()
		}

	case OP_SE_VX_VY:
		if cpu.V[in.X] == cpu.V[in.Y] {
			cpu.skip()
		}

	case OP_LD_VX_NN:
		cpu.V[in.X] = in.NN

	case OP_ADD_VX_NN:
		cpu.V[in.X] += in.NN

	case OP_LD_VX_VY:
		cpu.V[in.X] = cpu.V[in.Y]

	case OP_OR_VX_VY:
		cpu.V[in.X] |= cpu.V[in.Y]

	case OP_AND_VX_VY:
		cpu.V[in.X] &= cpu.V[in.Y]

	case OP_XOR_VX_VY:
		cpu.V[in.X] ^= cpu.V[in.Y]

	case OP_ADD_VX_VY:
		sum := uint16(cpu.V[in.X]) + uint16(cpu.V[in.Y])
		var carry byte
		if sum > 0xFF {
			carry = 1
		}
		cpu.V[in.X] = byte(sum)
		cpu.V[FLAG_REGISTER] = carry

	case OP_SUB_VX_VY:
		var noBorrow byte
		if cpu.V[in.X] >= cpu.V[in.Y] {
			noBorrow = 1
		}
		diff := cpu.V[in.X] - cpu.V[in.Y]
		cpu.V[in.X] = diff
		cpu.V[FLAG_REGISTER] = noBorrow

	case OP_SUBN_VX_VY:
		var noBorrow byte
		if cpu.V[in.Y] >= cpu.V[in.X] {
			noBorrow = 1
		}
		diff := cpu.V[in.Y] - cpu.V[in.X]
		cpu.V[in.X] = diff
		cpu.V[FLAG_REGISTER] = noBorrow

	case OP_SHR_VX_VY:
		src := cpu.V[in.X]
		if cpu.quirks.ShiftSourceVY {
			src = cpu.V[in.Y]
		}
		cpu.V[in.X] = src >> 1
		cpu.V[FLAG_REGISTER] = src & 1

	case OP_SHL_VX_VY:
		src := cpu.V[in.X]
		if cpu.quirks.ShiftSourceVY {
			src = cpu.V[in.Y]
		}
		cpu.V[in.X] = src << 1
		cpu.V[FLAG_REGISTER] = src >> 7

	case OP_SNE_VX_VY:
		if cpu.V[in.X] != cpu.V[in.Y] {
			cpu.skip()
		}

	case OP_LD_I:
		cpu.I = in.NNN

	case OP_JP_V0:
		cpu.PC = in.NNN + uint16(cpu.V[0])

	case OP_RND:
		cpu.V[in.X] = byte(cpu.rng.Intn(256)) & in.NN

	case OP_DRW:
		sprite := make([]byte, in.N)
		for i := range sprite {
			b, err := cpu.mem.ReadByte(cpu.I + uint16(i))
			if err != nil {
				return err
			}
			sprite[i] = b
		}
		var collision byte
		if cpu.display.DrawSprite(cpu.V[in.X], cpu.V[in.Y], sprite) {
			collision = 1
		}
		cpu.V[FLAG_REGISTER] = collision

	case OP_SKP_VX:
		if cpu.keypad.Pressed(cpu.V[in.X] & 0xF) {
			cpu.skip()
		}

	case OP_SKNP_VX:
		if !cpu.keypad.Pressed(cpu.V[in.X] & 0xF) {
			cpu.skip()
		}

	case OP_LD_VX_DT:
		cpu.V[in.X] = cpu.DelayTimer

	case OP_LD_VX_KEY:
		cpu.WaitingForKey = true
		cpu.waitRegister = in.X

	case OP_LD_DT_VX:
		cpu.DelayTimer = cpu.V[in.X]

	case OP_LD_ST_VX:
		cpu.SoundTimer = cpu.V[in.X]

	case OP_ADD_I_VX:
		sum := cpu.I + uint16(cpu.V[in.X])
		if cpu.quirks.IndexOverflowSetsVF {
			if sum > 0x0FFF {
				cpu.V[FLAG_REGISTER] = 1
			} else {
				cpu.V[FLAG_REGISTER] = 0
			}
		}
		cpu.I = sum & 0x0FFF

	case OP_LD_F_VX:
		cpu.I = FONT_START + uint16(cpu.V[in.X]&0xF)*FONT_GLYPH_SIZE

	case OP_BCD_VX:
		value := cpu.V[in.X]
		digits := [3]byte{value / 100, value / 10 % 10, value % 10}
		for i, d := range digits {
			if err := cpu.mem.WriteByte(cpu.I+uint16(i), d); err != nil {
				return err
			}
		}

	case OP_SAVE_REGS:
		for i := byte(0); i <= in.X; i++ {
			if err := cpu.mem.WriteByte(cpu.I+uint16(i), cpu.V[i]); err != nil {
				return err
			}
		}

	case OP_LOAD_REGS:
		for i := byte(0); i <= in.X; i++ {
			b, err := cpu.mem.ReadByte(cpu.I + uint16(i))
			if err != nil {
				return err
			}
			cpu.V[i] = b
		}
	}
	return nil
}
