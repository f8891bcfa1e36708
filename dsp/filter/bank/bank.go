package bank

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-bandsplit/dsp/filter/biquad"
	"github.com/cwbudde/algo-bandsplit/dsp/filter/design"
	"github.com/cwbudde/algo-bandsplit/dsp/filter/stage"
)

// Passes is the number of state slots per signal path. Two passes of a
// Butterworth-Q stage form the fourth-order Linkwitz-Riley response.
const Passes = 2

// ErrInvalidSize is returned by New for unusable dimensions.
var ErrInvalidSize = errors.New("bank: invalid size")

// Bank is a fixed-capacity set of crossover stages plus the state arena
// for every signal path through them.
type Bank struct {
	stages     []stage.Stage
	states     []biquad.State
	maxBands   int
	channels   int
	sampleRate float64
}

// New allocates a bank for up to maxBands bands on channels input
// channels. Stages start unconfigured; call Tune before processing.
func New(maxBands, channels int, sampleRate float64) (*Bank, error) {
	if maxBands < 2 {
		return nil, fmt.Errorf("%w: maxBands %d < 2", ErrInvalidSize, maxBands)
	}
	if channels < 1 {
		return nil, fmt.Errorf("%w: channels %d < 1", ErrInvalidSize, channels)
	}
	if !(sampleRate > 0) {
		return nil, fmt.Errorf("bank: sample rate must be positive: %v", sampleRate)
	}

	points := maxBands - 1

	return &Bank{
		stages:     make([]stage.Stage, points*stage.NumKinds),
		states:     make([]biquad.State, channels*maxBands*points*Passes),
		maxBands:   maxBands,
		channels:   channels,
		sampleRate: sampleRate,
	}, nil
}

// MaxBands returns the band capacity.
func (b *Bank) MaxBands() int { return b.maxBands }

// Points returns the number of crossover points, MaxBands-1.
func (b *Bank) Points() int { return b.maxBands - 1 }

// Channels returns the number of channels with private state.
func (b *Bank) Channels() int { return b.channels }

// SampleRate returns the sample rate stages are designed for.
func (b *Bank) SampleRate() float64 { return b.sampleRate }

// StateLen returns the number of delay-register slots in the arena.
func (b *Bank) StateLen() int { return len(b.states) }

// StageFor returns the stage of the given kind at crossover point.
// The returned pointer stays valid for the bank's lifetime.
func (b *Bank) StageFor(point int, kind stage.Kind) *stage.Stage {
	return &b.stages[point*stage.NumKinds+int(kind)]
}

// StateSlotFor returns the Passes state slots of the path that carries
// band source through crossover point on channel.
func (b *Bank) StateSlotFor(source, point, channel int) []biquad.State {
	idx := ((channel*b.maxBands+source)*(b.maxBands-1) + point) * Passes
	return b.states[idx : idx+Passes : idx+Passes]
}

// Tune designs all stages of point for freq. Stages whose frequency and
// sample rate are unchanged keep their coefficients. Tune reports whether
// any stage was redesigned.
func (b *Bank) Tune(point int, freq float64) bool {
	changed := false
	for k := range stage.NumKinds {
		kind := stage.Kind(k)
		if _, c := b.StageFor(point, kind).Configure(kind, freq, design.ButterworthQ, b.sampleRate); c {
			changed = true
		}
	}
	return changed
}

// Retune redesigns all stages of point for freq even if nothing changed.
func (b *Bank) Retune(point int, freq float64) {
	for k := range stage.NumKinds {
		st := b.StageFor(point, stage.Kind(k))
		*st = stage.Stage{}
	}
	b.Tune(point, freq)
}

// Frequency returns the frequency point was last tuned to, or 0 if it
// was never tuned.
func (b *Bank) Frequency(point int) float64 {
	return b.StageFor(point, stage.Lowpass).Frequency()
}

// Reset zeroes every delay register in the arena.
func (b *Bank) Reset() {
	clear(b.states)
}

// SetSampleRate redesigns every tuned stage for sampleRate and resets
// all state. Non-positive rates are ignored.
func (b *Bank) SetSampleRate(sampleRate float64) {
	if !(sampleRate > 0) || sampleRate == b.sampleRate {
		return
	}

	b.sampleRate = sampleRate
	for p := range b.Points() {
		if b.StageFor(p, stage.Lowpass).Configured() {
			b.Tune(p, b.Frequency(p))
		}
	}
	b.Reset()
}
