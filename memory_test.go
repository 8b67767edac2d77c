package main

import (
	"bytes"
	"testing"
)

// TestLoadProgramRoundTrip verifies that a loaded image reads back
// unchanged from PROG_START.
func TestLoadProgramRoundTrip(t *testing.T) {
	mem := NewMemory()

	image := make([]byte, MAX_PROGRAM_SIZE)
	for i := range image {
		image[i] = byte(i * 7)
	}
	if err := mem.LoadProgram(image); err != nil {
		t.Fatalf("LoadProgram failed: %v", err)
	}

	for i := range image {
		got, err := mem.ReadByte(PROG_START + uint16(i))
		if err != nil {
			t.Fatalf("ReadByte(0x%03X) failed: %v", PROG_START+i, err)
		}
		if got != image[i] {
			t.Fatalf("byte %d: got 0x%02X, want 0x%02X", i, got, image[i])
		}
	}
}

func TestLoadProgramTooLarge(t *testing.T) {
	mem := NewMemory()

	image := make([]byte, MAX_PROGRAM_SIZE+1)
	err := mem.LoadProgram(image)
	if err == nil {
		t.Fatal("expected CapacityError for oversized image, got nil")
	}
	capErr, ok := err.(*CapacityError)
	if !ok {
		t.Fatalf("expected *CapacityError, got %T: %v", err, err)
	}
	if capErr.Size != len(image) {
		t.Errorf("CapacityError.Size = %d, want %d", capErr.Size, len(image))
	}
}

// TestResetRestoresFont verifies that Reset clears the arena and
// reinstalls the reference font patterns at FONT_START.
func TestResetRestoresFont(t *testing.T) {
	mem := NewMemory()

	// Scribble over the whole arena, font included.
	for addr := uint16(0); addr < MEMORY_SIZE; addr++ {
		if err := mem.WriteByte(addr, 0xAA); err != nil {
			t.Fatalf("WriteByte(0x%03X) failed: %v", addr, err)
		}
	}
	mem.Reset()

	fontEnd := uint16(FONT_START + len(fontSprites))
	for addr := uint16(0); addr < MEMORY_SIZE; addr++ {
		got, _ := mem.ReadByte(addr)
		if addr >= FONT_START && addr < fontEnd {
			want := fontSprites[addr-FONT_START]
			if got != want {
				t.Fatalf("font byte at 0x%03X: got 0x%02X, want 0x%02X", addr, got, want)
			}
		} else if got != 0 {
			t.Fatalf("address 0x%03X not cleared: got 0x%02X", addr, got)
		}
	}
}

func TestFontTableSpansExpectedRange(t *testing.T) {
	mem := NewMemory()

	// 16 glyphs x 5 bytes = 0x050-0x09F inclusive.
	first, _ := mem.ReadByte(0x050)
	last, _ := mem.ReadByte(0x09F)
	if first != 0xF0 {
		t.Errorf("first font byte: got 0x%02X, want 0xF0", first)
	}
	if last != 0x80 {
		t.Errorf("last font byte: got 0x%02X, want 0x80", last)
	}

	glyphF := fontSprites[0xF*FONT_GLYPH_SIZE : 0xF*FONT_GLYPH_SIZE+FONT_GLYPH_SIZE]
	var stored []byte
	for i := uint16(0); i < FONT_GLYPH_SIZE; i++ {
		b, _ := mem.ReadByte(0x050 + 0xF*FONT_GLYPH_SIZE + i)
		stored = append(stored, b)
	}
	if !bytes.Equal(stored, glyphF) {
		t.Errorf("glyph F mismatch: got % X, want % X", stored, glyphF)
	}
}

func TestMemoryAccessOutOfBounds(t *testing.T) {
	mem := NewMemory()

	if _, err := mem.ReadByte(MEMORY_SIZE); err == nil {
		t.Error("ReadByte(0x1000) should fail")
	}
	if err := mem.WriteByte(0xFFFF, 1); err == nil {
		t.Error("WriteByte(0xFFFF) should fail")
	}

	_, err := mem.ReadByte(0x2000)
	oob, ok := err.(*OutOfBoundsError)
	if !ok {
		t.Fatalf("expected *OutOfBoundsError, got %T", err)
	}
	if oob.Addr != 0x2000 {
		t.Errorf("OutOfBoundsError.Addr = 0x%X, want 0x2000", oob.Addr)
	}

	// The last valid address works.
	if err := mem.WriteByte(0xFFF, 0x42); err != nil {
		t.Fatalf("WriteByte(0xFFF) failed: %v", err)
	}
	got, err := mem.ReadByte(0xFFF)
	if err != nil || got != 0x42 {
		t.Errorf("ReadByte(0xFFF) = 0x%02X, %v; want 0x42, nil", got, err)
	}
}
