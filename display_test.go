package main

import "testing"

func countLit(d *DisplayBuffer) int {
	n := 0
	for y := 0; y < DISPLAY_HEIGHT; y++ {
		for x := 0; x < DISPLAY_WIDTH; x++ {
			if d.Pixel(x, y) {
				n++
			}
		}
	}
	return n
}

func TestClearTurnsEveryCellOff(t *testing.T) {
	d := NewDisplayBuffer()
	for y := 0; y < DISPLAY_HEIGHT; y++ {
		for x := 0; x < DISPLAY_WIDTH; x++ {
			d.SetPixel(x, y, true)
		}
	}

	d.Clear()
	if n := countLit(d); n != 0 {
		t.Fatalf("%d cells still lit after Clear", n)
	}
}

// TestDrawSpriteXORIdempotence draws the same sprite twice at the same
// position: the second draw must erase the first and report collision.
func TestDrawSpriteXORIdempotence(t *testing.T) {
	d := NewDisplayBuffer()
	sprite := []byte{0xF0, 0x90, 0x90, 0x90, 0xF0}

	if d.DrawSprite(10, 5, sprite) {
		t.Error("first draw on a clear buffer reported collision")
	}
	lit := countLit(d)
	if lit == 0 {
		t.Fatal("first draw lit no pixels")
	}

	if !d.DrawSprite(10, 5, sprite) {
		t.Error("second identical draw should report collision")
	}
	if n := countLit(d); n != 0 {
		t.Fatalf("double-XOR left %d pixels lit", n)
	}
}

func TestDrawSpriteCollisionOnlyOnOverlap(t *testing.T) {
	d := NewDisplayBuffer()

	if d.DrawSprite(0, 0, []byte{0b10000000}) {
		t.Error("draw on empty buffer reported collision")
	}
	// Adjacent pixel, no overlap.
	if d.DrawSprite(1, 0, []byte{0b10000000}) {
		t.Error("non-overlapping draw reported collision")
	}
	// Exact overlap with the first pixel.
	if !d.DrawSprite(0, 0, []byte{0b10000000}) {
		t.Error("overlapping draw did not report collision")
	}
}

// TestDrawSpriteStartCoordinateWraps verifies the starting coordinate
// wraps modulo the display size.
func TestDrawSpriteStartCoordinateWraps(t *testing.T) {
	d := NewDisplayBuffer()

	d.DrawSprite(64+3, 32+2, []byte{0b10000000})
	if !d.Pixel(3, 2) {
		t.Error("start coordinate did not wrap: pixel (3,2) off")
	}
	if n := countLit(d); n != 1 {
		t.Errorf("expected exactly 1 lit pixel, got %d", n)
	}
}

// TestDrawSpriteClipsAtEdges verifies that sprite pixels extending past
// the right and bottom edges are clipped, not wrapped.
func TestDrawSpriteClipsAtEdges(t *testing.T) {
	d := NewDisplayBuffer()

	// Full row of 8 pixels starting 2 cells from the right edge.
	d.DrawSprite(62, 0, []byte{0xFF})
	if !d.Pixel(62, 0) || !d.Pixel(63, 0) {
		t.Error("pixels inside the edge missing")
	}
	for x := 0; x < 6; x++ {
		if d.Pixel(x, 0) {
			t.Errorf("pixel (%d,0) lit: row wrapped instead of clipping", x)
		}
	}

	// Two-row sprite starting on the last row.
	d.Clear()
	d.DrawSprite(0, 31, []byte{0x80, 0x80})
	if !d.Pixel(0, 31) {
		t.Error("pixel on last row missing")
	}
	if d.Pixel(0, 0) {
		t.Error("pixel (0,0) lit: column wrapped instead of clipping")
	}
}

func TestRenderRGBAUsesPalette(t *testing.T) {
	d := NewDisplayBuffer()
	d.SetPixel(1, 0, true)

	buf := make([]byte, DISPLAY_WIDTH*DISPLAY_HEIGHT*4)
	d.RenderRGBA(buf, 0xAABBCC, 0x112233)

	// Background pixel at (0,0).
	if buf[0] != 0x11 || buf[1] != 0x22 || buf[2] != 0x33 || buf[3] != 0xFF {
		t.Errorf("background pixel = % X, want 11 22 33 FF", buf[0:4])
	}
	// Foreground pixel at (1,0).
	if buf[4] != 0xAA || buf[5] != 0xBB || buf[6] != 0xCC || buf[7] != 0xFF {
		t.Errorf("foreground pixel = % X, want AA BB CC FF", buf[4:8])
	}
}
