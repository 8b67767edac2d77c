// chip8_errors.go - fault conditions surfaced by the interpreter

package main

import "fmt"

// All interpreter faults are fatal to the running session. A conformant
// ROM never triggers one, so an occurrence means either a malformed ROM
// or an interpreter defect; the machine halts rather than clamping
// silently and masking the bug.

// OutOfBoundsError reports a memory access outside 0x000-0xFFF.
type OutOfBoundsError struct {
	Addr uint16
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("memory access out of bounds: address 0x%03X", e.Addr)
}

// CapacityError reports a program image too large for the address space
// above PROG_START.
type CapacityError struct {
	Size int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("program image too large: %d bytes, maximum %d", e.Size, MAX_PROGRAM_SIZE)
}

// UnknownOpcodeError carries the raw instruction word for diagnostics.
type UnknownOpcodeError struct {
	Opcode uint16
	PC     uint16
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode 0x%04X at PC=0x%03X", e.Opcode, e.PC)
}

type StackOverflowError struct {
	PC uint16
}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("stack overflow at PC=0x%03X: call depth exceeds %d", e.PC, STACK_DEPTH)
}

type StackUnderflowError struct {
	PC uint16
}

func (e *StackUnderflowError) Error() string {
	return fmt.Sprintf("stack underflow at PC=0x%03X: return with empty stack", e.PC)
}
