package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
)

func TestBellGeneratorRange(t *testing.T) {
	rate := beep.SampleRate(44100)
	gen := NewBellGenerator(rate, 880)

	samples := make([][2]float64, rate.N(200*time.Millisecond))
	n, ok := gen.Stream(samples)

	assert.True(t, ok)
	assert.Equal(t, len(samples), n)
	assert.NoError(t, gen.Err())
	for i := 0; i < n; i++ {
		assert.LessOrEqual(t, math.Abs(samples[i][0]), 1.0)
		assert.Equal(t, samples[i][0], samples[i][1])
	}
	assert.Zero(t, samples[0][0])
}

func TestBellGeneratorDecays(t *testing.T) {
	rate := beep.SampleRate(44100)
	gen := NewBellGenerator(rate, 880)

	peak := func(count int) float64 {
		samples := make([][2]float64, count)
		gen.Stream(samples)
		max := 0.0
		for _, s := range samples {
			max = math.Max(max, math.Abs(s[0]))
		}
		return max
	}

	early := peak(rate.N(100 * time.Millisecond))
	gen.Stream(make([][2]float64, rate.N(500*time.Millisecond)))
	late := peak(rate.N(100 * time.Millisecond))

	assert.Greater(t, early, late)
}

func TestTakeLimitsChimeLength(t *testing.T) {
	streamer := beep.Take(sampleRate.N(chimeLength), NewBellGenerator(sampleRate, chimeBaseFreq))
	total := 0
	buf := make([][2]float64, 4096)
	for {
		n, ok := streamer.Stream(buf)
		total += n
		if !ok {
			break
		}
	}
	assert.Equal(t, sampleRate.N(chimeLength), total)
}

func TestPlayBeforeInitializeIsNoop(t *testing.T) {
	chime := NewChime()
	assert.NotPanics(t, func() {
		chime.Play()
		chime.Close()
	})
}
