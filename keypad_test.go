package main

import "testing"

func TestKeypadPressRelease(t *testing.T) {
	pad := NewKeypad()
	if pad.Pressed(0x5) {
		t.Error("key 5 should start released")
	}

	pad.SetKey(0x5, true)
	if !pad.Pressed(0x5) {
		t.Error("key 5 should be held")
	}
	if pad.Pressed(0x6) {
		t.Error("key 6 should be unaffected")
	}

	pad.SetKey(0x5, false)
	if pad.Pressed(0x5) {
		t.Error("key 5 should be released")
	}
}

func TestKeypadIgnoresIndexAbove15(t *testing.T) {
	pad := NewKeypad()
	pad.SetKey(0x10, true)
	pad.SetKey(0xFF, true)
	if _, any := pad.AnyPressed(); any {
		t.Error("out-of-range indices must not register")
	}
}

func TestAnyPressedReturnsLowestKey(t *testing.T) {
	pad := NewKeypad()
	if _, any := pad.AnyPressed(); any {
		t.Fatal("nothing held yet")
	}

	pad.SetKey(0xC, true)
	pad.SetKey(0x3, true)
	key, any := pad.AnyPressed()
	if !any || key != 0x3 {
		t.Errorf("AnyPressed = (0x%X, %v), want (0x3, true)", key, any)
	}
}

func TestKeypadResetReleasesEverything(t *testing.T) {
	pad := NewKeypad()
	for k := byte(0); k < NUM_KEYS; k++ {
		pad.SetKey(k, true)
	}
	pad.Reset()
	for k := byte(0); k < NUM_KEYS; k++ {
		if pad.Pressed(k) {
			t.Errorf("key 0x%X still held after reset", k)
		}
	}
}
