// display.go - monochrome display buffer and sprite compositing

package main

// DisplayBuffer is the 64x32 grid of on/off cells. Only the clear-screen
// and draw-sprite opcodes mutate it; the video backends read rendered
// RGBA copies once per frame. The buffer itself carries no locking: the
// machine goroutine is the sole mutator, and rendering happens on the
// same goroutine before the frame is handed to a backend.
type DisplayBuffer struct {
	cells [DISPLAY_HEIGHT][DISPLAY_WIDTH]bool
}

func NewDisplayBuffer() *DisplayBuffer {
	return &DisplayBuffer{}
}

func (d *DisplayBuffer) Clear() {
	for y := range d.cells {
		for x := range d.cells[y] {
			d.cells[y][x] = false
		}
	}
}

func (d *DisplayBuffer) Pixel(x, y int) bool {
	return d.cells[y][x]
}

func (d *DisplayBuffer) SetPixel(x, y int, on bool) {
	d.cells[y][x] = on
}

// DrawSprite XOR-composites an 8-pixel-wide sprite onto the grid and
// reports whether any pixel transitioned on -> off. The start coordinate
// wraps modulo the display size; sprite rows and columns that would
// extend past the edge are clipped, not wrapped.
func (d *DisplayBuffer) DrawSprite(x, y byte, sprite []byte) bool {
	startX := int(x) % DISPLAY_WIDTH
	startY := int(y) % DISPLAY_HEIGHT

	collision := false
	for row, bits := range sprite {
		py := startY + row
		if py >= DISPLAY_HEIGHT {
			break
		}
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			px := startX + col
			if px >= DISPLAY_WIDTH {
				break
			}
			if d.cells[py][px] {
				collision = true
			}
			d.cells[py][px] = !d.cells[py][px]
		}
	}
	return collision
}

// Snapshot returns a copy of the cell grid, for hosts that render on a
// separate thread and must not observe a half-drawn sprite.
func (d *DisplayBuffer) Snapshot() [DISPLAY_HEIGHT][DISPLAY_WIDTH]bool {
	return d.cells
}

// RenderRGBA paints the cell grid into dst as RGBA pixels using the
// configured 0xRRGGBB palette. dst must hold DISPLAY_WIDTH *
// DISPLAY_HEIGHT * 4 bytes.
func (d *DisplayBuffer) RenderRGBA(dst []byte, fg, bg uint32) {
	i := 0
	for y := 0; y < DISPLAY_HEIGHT; y++ {
		for x := 0; x < DISPLAY_WIDTH; x++ {
			color := bg
			if d.cells[y][x] {
				color = fg
			}
			dst[i] = byte(color >> 16)
			dst[i+1] = byte(color >> 8)
			dst[i+2] = byte(color)
			dst[i+3] = 0xFF
			i += 4
		}
	}
}
