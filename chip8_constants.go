// chip8_constants.go - CHIP-8 machine parameters and font data

/*
Cobalt8 - a CHIP-8 virtual machine
https://github.com/cobaltvm/cobalt8
License: GPLv3 or later
*/

package main

const (
	// Memory map
	MEMORY_SIZE      = 4096
	PROG_START       = 0x200
	FONT_START       = 0x050
	FONT_GLYPH_SIZE  = 5
	MAX_PROGRAM_SIZE = MEMORY_SIZE - PROG_START

	// Register file
	NUM_REGISTERS = 16
	FLAG_REGISTER = 0xF
	STACK_DEPTH   = 16

	// Display
	DISPLAY_WIDTH  = 64
	DISPLAY_HEIGHT = 32

	// Input
	NUM_KEYS = 16

	// Timers decay at a fixed 60 Hz regardless of the configured
	// instruction rate.
	TIMER_RATE = 60
)

const (
	INSTRUCTION_SIZE = 2
)

// fontSprites holds the built-in 5-byte glyphs for hex digits 0-F,
// installed at FONT_START on every reset.
var fontSprites = [NUM_KEYS * FONT_GLYPH_SIZE]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}
