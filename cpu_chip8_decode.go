// cpu_chip8_decode.go - CHIP-8 instruction decoder

/*
Cobalt8 - a CHIP-8 virtual machine
https://github.com/cobaltvm/cobalt8
License: GPLv3 or later
*/

package main

import "fmt"

// Opcode identifies one decoded instruction variant. Decode classifies
// the raw 16-bit word by its high nibble (and secondary nibbles where
// needed) into this closed set, so execution dispatches on a tag instead
// of re-masking bits. Mnemonics follow the usual CHIP-8 naming.
type Opcode int

const (
	OP_SYS Opcode = iota // 0nnn - call machine routine (treated as CALL)
	OP_CLS               // 00E0 - clear screen
	OP_RET               // 00EE - return from subroutine
	OP_JP                // 1nnn - jump
	OP_CALL              // 2nnn - call subroutine
	OP_SE_VX_NN          // 3xnn - skip if Vx == nn
	OP_SNE_VX_NN         // 4xnn - skip if Vx != nn
	OP_SE_VX_VY          // 5xy0 - skip if Vx == Vy
	OP_LD_VX_NN          // 6xnn - Vx = nn
	OP_ADD_VX_NN         // 7xnn - Vx += nn (no flag)
	OP_LD_VX_VY          // 8xy0 - Vx = Vy
	OP_OR_VX_VY          // 8xy1 - Vx |= Vy
	OP_AND_VX_VY         // 8xy2 - Vx &= Vy
	OP_XOR_VX_VY         // 8xy3 - Vx ^= Vy
	OP_ADD_VX_VY         // 8xy4 - Vx += Vy, VF = carry
	OP_SUB_VX_VY         // 8xy5 - Vx -= Vy, VF = no borrow
	OP_SHR_VX_VY         // 8xy6 - shift right, VF = shifted-out bit
	OP_SUBN_VX_VY        // 8xy7 - Vx = Vy - Vx, VF = no borrow
	OP_SHL_VX_VY         // 8xyE - shift left, VF = shifted-out bit
	OP_SNE_VX_VY         // 9xy0 - skip if Vx != Vy
	OP_LD_I              // Annn - I = nnn
	OP_JP_V0             // Bnnn - jump to nnn + V0
	OP_RND               // Cxnn - Vx = random & nn
	OP_DRW               // Dxyn - draw n-byte sprite at (Vx, Vy)
	OP_SKP_VX            // Ex9E - skip if key Vx pressed
	OP_SKNP_VX           // ExA1 - skip if key Vx not pressed
	OP_LD_VX_DT          // Fx07 - Vx = delay timer
	OP_LD_VX_KEY         // Fx0A - wait for key press, Vx = key
	OP_LD_DT_VX          // Fx15 - delay timer = Vx
	OP_LD_ST_VX          // Fx18 - sound timer = Vx
	OP_ADD_I_VX          // Fx1E - I += Vx
	OP_LD_F_VX           // Fx29 - I = font address of digit Vx
	OP_BCD_VX            // Fx33 - memory[I..I+2] = decimal digits of Vx
	OP_SAVE_REGS         // Fx55 - memory[I..I+x] = V0..Vx
	OP_LOAD_REGS         // Fx65 - V0..Vx = memory[I..I+x]
)

// Instruction is one decoded opcode plus the operand fields it carries.
// Fields not used by the variant are zero.
type Instruction struct {
	Op  Opcode
	X   byte   // second nibble, register index
	Y   byte   // third nibble, register index
	N   byte   // low nibble
	NN  byte   // low byte
	NNN uint16 // low 12 bits, address
	Raw uint16
}

func (in Instruction) String() string {
	return fmt.Sprintf("op=%d raw=0x%04X x=%X y=%X n=%X nn=%02X nnn=%03X",
		in.Op, in.Raw, in.X, in.Y, in.N, in.NN, in.NNN)
}

// Decode classifies a fetched instruction word. It reports ok=false for
// bit patterns outside the canonical opcode set; the caller attaches the
// faulting PC to the error it surfaces.
func Decode(word uint16) (Instruction, bool) {
	in := Instruction{
		X:   byte(word >> 8 & 0xF),
		Y:   byte(word >> 4 & 0xF),
		N:   byte(word & 0xF),
		NN:  byte(word),
		NNN: word & 0x0FFF,
		Raw: word,
	}

	switch word >> 12 {
	case 0x0:
		switch word {
		case 0x00E0:
			in.Op = OP_CLS
		case 0x00EE:
			in.Op = OP_RET
		default:
			in.Op = OP_SYS
		}
	case 0x1:
		in.Op = OP_JP
	case 0x2:
		in.Op = OP_CALL
	case 0x3:
		in.Op = OP_SE_VX_NN
	case 0x4:
		in.Op = OP_SNE_VX_NN
	case 0x5:
		if in.N != 0 {
			return in, false
		}
		in.Op = OP_SE_VX_VY
	case 0x6:
		in.Op = OP_LD_VX_NN
	case 0x7:
		in.Op = OP_ADD_VX_NN
	case 0x8:
		switch in.N {
		case 0x0:
			in.Op = OP_LD_VX_VY
		case 0x1:
			in.Op = OP_OR_VX_VY
		case 0x2:
			in.Op = OP_AND_VX_VY
		case 0x3:
			in.Op = OP_XOR_VX_VY
		case 0x4:
			in.Op = OP_ADD_VX_VY
		case 0x5:
			in.Op = OP_SUB_VX_VY
		case 0x6:
			in.Op = OP_SHR_VX_VY
		case 0x7:
			in.Op = OP_SUBN_VX_VY
		case 0xE:
			in.Op = OP_SHL_VX_VY
		default:
			return in, false
		}
	case 0x9:
		if in.N != 0 {
			return in, false
		}
		in.Op = OP_SNE_VX_VY
	case 0xA:
		in.Op = OP_LD_I
	case 0xB:
		in.Op = OP_JP_V0
	case 0xC:
		in.Op = OP_RND
	case 0xD:
		in.Op = OP_DRW
	case 0xE:
		switch in.NN {
		case 0x9E:
			in.Op = OP_SKP_VX
		case 0xA1:
			in.Op = OP_SKNP_VX
		default:
			return in, false
		}
	case 0xF:
		switch in.NN {
		case 0x07:
			in.Op = OP_LD_VX_DT
		case 0x0A:
			in.Op = OP_LD_VX_KEY
		case 0x15:
			in.Op = OP_LD_DT_VX
		case 0x18:
			in.Op = OP_LD_ST_VX
		case 0x1E:
			in.Op = OP_ADD_I_VX
		case 0x29:
			in.Op = OP_LD_F_VX
		case 0x33:
			in.Op = OP_BCD_VX
		case 0x55:
			in.Op = OP_SAVE_REGS
		case 0x65:
			in.Op = OP_LOAD_REGS
		default:
			return in, false
		}
	}
	return in, true
}
