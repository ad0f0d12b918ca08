package notify

import (
	"encoding/binary"
	"math"
	"time"
)

// Tone plays a short audible cue. Callers ignore its error.
type Tone interface {
	Beep() error
}

type SilentTone struct{}

func (SilentTone) Beep() error { return nil }

// Beep shape: 880 Hz sine, 10ms exponential attack to 0.05 gain, held until
// 120ms, then a 150ms exponential release.
const (
	toneFrequency  = 880.0
	toneSampleRate = 48000
	toneAttack     = 10 * time.Millisecond
	toneHold       = 120 * time.Millisecond
	toneRelease    = 150 * time.Millisecond
	toneFloorGain  = 0.001
	tonePeakGain   = 0.05
	toneTailGain   = 0.00001
)

// ToneDuration is the full length of the synthesized beep.
const ToneDuration = toneHold + toneRelease

// SynthBeep renders the beep as 16-bit little-endian stereo PCM.
func SynthBeep(sampleRate int) []byte {
	total := int(float64(sampleRate) * ToneDuration.Seconds())
	out := make([]byte, total*4)
	for i := 0; i < total; i++ {
		t := float64(i) / float64(sampleRate)
		v := math.Sin(2*math.Pi*toneFrequency*t) * toneGain(t)
		s := int16(v * math.MaxInt16)
		binary.LittleEndian.PutUint16(out[i*4:], uint16(s))
		binary.LittleEndian.PutUint16(out[i*4+2:], uint16(s))
	}
	return out
}

func toneGain(t float64) float64 {
	attack := toneAttack.Seconds()
	hold := toneHold.Seconds()
	release := toneRelease.Seconds()
	switch {
	case t < attack:
		return expRamp(toneFloorGain, tonePeakGain, t/attack)
	case t < hold:
		return tonePeakGain
	default:
		p := (t - hold) / release
		if p > 1 {
			p = 1
		}
		return expRamp(tonePeakGain, toneTailGain, p)
	}
}

func expRamp(from, to, p float64) float64 {
	return from * math.Pow(to/from, p)
}
