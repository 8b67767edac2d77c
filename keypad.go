// keypad.go - 16-key hex keypad state

package main

import "sync"

// Keypad holds the pressed/released state of the 16 logical keys. The
// host input goroutine writes it from real key events while the machine
// goroutine reads it from skip and wait opcodes, so access is
// mutex-guarded. The engine keeps no key history; opcodes see the most
// recent snapshot.
type Keypad struct {
	mutex sync.RWMutex
	keys  [NUM_KEYS]bool
}

func NewKeypad() *Keypad {
	return &Keypad{}
}

func (k *Keypad) Reset() {
	k.mutex.Lock()
	for i := range k.keys {
		k.keys[i] = false
	}
	k.mutex.Unlock()
}

func (k *Keypad) SetKey(key byte, down bool) {
	if key >= NUM_KEYS {
		return
	}
	k.mutex.Lock()
	k.keys[key] = down
	k.mutex.Unlock()
}

func (k *Keypad) Pressed(key byte) bool {
	if key >= NUM_KEYS {
		return false
	}
	k.mutex.RLock()
	defer k.mutex.RUnlock()
	return k.keys[key]
}

// AnyPressed reports the lowest-numbered key currently held, for the
// wait-for-key opcode.
func (k *Keypad) AnyPressed() (byte, bool) {
	k.mutex.RLock()
	defer k.mutex.RUnlock()
	for i, down := range k.keys {
		if down {
			return byte(i), true
		}
	}
	return 0, false
}
