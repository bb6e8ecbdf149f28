package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate    = beep.SampleRate(48000)
	chimeLength   = 900 * time.Millisecond
	chimeBaseFreq = 880.0
)

// Chime plays a short bell when a countdown completes.
type Chime struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewChime creates a chime. Call Initialize before Play.
func NewChime() *Chime {
	return &Chime{mixer: &beep.Mixer{}}
}

// Initialize opens the audio device.
func (chime *Chime) Initialize() error {
	chime.mu.Lock()
	defer chime.mu.Unlock()

	if chime.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(chime.mixer)
	chime.initialized = true
	return nil
}

// Play queues one bell. It does nothing before Initialize.
func (chime *Chime) Play() {
	chime.mu.Lock()
	defer chime.mu.Unlock()

	if !chime.initialized {
		return
	}
	speaker.Lock()
	chime.mixer.Add(beep.Take(sampleRate.N(chimeLength), NewBellGenerator(sampleRate, chimeBaseFreq)))
	speaker.Unlock()
}

// Close silences pending sounds.
func (chime *Chime) Close() {
	chime.mu.Lock()
	defer chime.mu.Unlock()

	if !chime.initialized {
		return
	}
	speaker.Lock()
	chime.mixer.Clear()
	speaker.Unlock()
	chime.initialized = false
}

// BellGenerator produces a decaying tone with two overtones.
type BellGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewBellGenerator creates a bell generator at the given base frequency.
func NewBellGenerator(sr beep.SampleRate, freq float64) *BellGenerator {
	return &BellGenerator{sr: sr, freq: freq}
}

func (g *BellGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		sample := 0.6 * math.Sin(2*math.Pi*g.freq*t)
		sample += 0.25 * math.Sin(2*math.Pi*g.freq*2.76*t)
		sample += 0.15 * math.Sin(2*math.Pi*g.freq*5.4*t)

		attack := math.Min(t/0.005, 1.0)
		decay := math.Exp(-4 * t)
		sample *= attack * decay * 0.5

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BellGenerator) Err() error {
	return nil
}
