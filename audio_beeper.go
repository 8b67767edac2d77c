// audio_beeper.go - square-wave tone generator for the sound timer

/*
Cobalt8 - a CHIP-8 virtual machine
https://github.com/cobaltvm/cobalt8
License: GPLv3 or later
*/

package main

import "sync/atomic"

const (
	SAMPLE_RATE = 44100

	BEEP_FREQUENCY = 440.0
	BEEP_VOLUME    = 0.25
)

// Beeper produces the CHIP-8 buzzer tone: a fixed-frequency square wave
// while the sound timer is nonzero, silence otherwise. The machine
// goroutine flips the gate once per frame and the audio backend pulls
// samples from its own thread, so the gate is atomic and everything else
// is only touched by the reader.
type Beeper struct {
	gate       atomic.Bool
	phase      float64
	sampleRate int
}

func NewBeeper(sampleRate int) *Beeper {
	return &Beeper{sampleRate: sampleRate}
}

// SetActive opens or closes the tone gate. Driven from the sound timer;
// hosts polling is_sound_active semantics read IsActive instead.
func (b *Beeper) SetActive(on bool) {
	b.gate.Store(on)
}

func (b *Beeper) IsActive() bool {
	return b.gate.Load()
}

// ReadSample returns the next mono float32 sample. Called only from the
// audio backend's reader thread.
func (b *Beeper) ReadSample() float32 {
	if !b.gate.Load() {
		b.phase = 0
		return 0
	}
	period := float64(b.sampleRate) / BEEP_FREQUENCY
	sample := float32(BEEP_VOLUME)
	if b.phase >= period/2 {
		sample = -sample
	}
	b.phase++
	if b.phase >= period {
		b.phase -= period
	}
	return sample
}
