package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}

// Channels allocates a host-style buffer of n channels with frames
// samples each.
func Channels(n, frames int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, frames)
	}
	return out
}

// Blocks splits signal into consecutive blocks of size frames. The last
// block is zero-padded.
func Blocks(signal []float64, frames int) [][]float64 {
	if frames <= 0 {
		return nil
	}
	var out [][]float64
	for start := 0; start < len(signal); start += frames {
		b := make([]float64, frames)
		copy(b, signal[start:])
		out = append(out, b)
	}
	return out
}
