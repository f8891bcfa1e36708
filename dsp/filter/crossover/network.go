package crossover

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-bandsplit/dsp/core"
	"github.com/cwbudde/algo-bandsplit/dsp/filter/bank"
	"github.com/cwbudde/algo-bandsplit/dsp/filter/biquad"
	"github.com/cwbudde/algo-bandsplit/dsp/filter/design"
	"github.com/cwbudde/algo-bandsplit/dsp/filter/stage"
)

type networkConfig struct {
	maxChannels int
}

// Option configures a Network.
type Option func(*networkConfig)

// WithMaxChannels sets the largest input channel count the network keeps
// filter state for. Layouts with more inputs pass through. Defaults to
// core.DefaultMaxChannels.
func WithMaxChannels(n int) Option {
	return func(cfg *networkConfig) {
		if n > 0 {
			cfg.maxChannels = n
		}
	}
}

// Network is an N-way crossover. It is not safe for concurrent use; the
// host serializes Process calls.
type Network struct {
	bank        *bank.Bank
	maxChannels int
	sampleRate  float64

	// lastBands is the band count of the previous block. It starts at 0 so
	// the first block always reconfigures.
	lastBands  int
	lastFamily Family
}

// New allocates a network for MaxBands bands at sampleRate.
func New(sampleRate float64, opts ...Option) (*Network, error) {
	cfg := networkConfig{maxChannels: core.DefaultMaxChannels}
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}

	b, err := bank.New(MaxBands, cfg.maxChannels, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("crossover: %w", err)
	}

	return &Network{
		bank:        b,
		maxChannels: cfg.maxChannels,
		sampleRate:  sampleRate,
	}, nil
}

// Process splits the input channels of buf into bands in place.
//
// buf must hold at least layout.Outputs channels of at least frames
// samples. Geometries that cannot be split are passed through untouched.
// Output channels beyond the last full band group are zeroed.
func (n *Network) Process(buf [][]float64, layout Layout, frames int, s *Settings) {
	if !n.canSplit(buf, layout, frames) || s == nil {
		return
	}

	bands := min(s.Bands, MaxBands, layout.AvailableBands())
	bands = max(bands, 1)

	family := s.Family
	if !family.Valid() {
		family = LinkwitzRiley4
	}

	if bands != n.lastBands || family != n.lastFamily {
		n.reconfigure(buf, frames, s, bands, family)
		return
	}

	in := layout.Inputs
	for i := range bands - 1 {
		n.bank.Tune(i, effectiveFrequency(s.Frequencies[i], n.sampleRate))
	}

	if family.Subtractive() {
		n.splitSubtractive(buf, in, frames, bands, family.Passes())
	} else {
		n.splitCrossover(buf, in, frames, bands)
	}

	used := bands * in
	core.ZeroChannels(buf[used:layout.Outputs], frames)

	if !n.finite(buf[:used], frames) {
		n.bank.Reset()
		core.ZeroChannels(buf[:layout.Outputs], frames)
	}
}

func (n *Network) canSplit(buf [][]float64, layout Layout, frames int) bool {
	in, out := layout.Inputs, layout.Outputs
	if in <= 0 || out <= 0 || out <= in || in > n.maxChannels || frames <= 0 {
		return false
	}
	if len(buf) < out {
		return false
	}
	for _, ch := range buf[:out] {
		if len(ch) < frames {
			return false
		}
	}
	return true
}

// reconfigure mutes the block and prepares every point for the new
// geometry. Filtering resumes with the next block.
func (n *Network) reconfigure(buf [][]float64, frames int, s *Settings, bands int, family Family) {
	core.ZeroChannels(buf, frames)
	n.bank.Reset()
	for i := range MaxSplits {
		n.bank.Retune(i, effectiveFrequency(s.Frequencies[i], n.sampleRate))
	}
	n.lastBands = bands
	n.lastFamily = family
}

// splitCrossover fans the input out to every band, then walks the points
// upwards. At point i band i is lowpassed, the bands above are highpassed
// and the bands below get the allpass of point i. Band k therefore ends up
// as HP² of every point below k, LP² of point k and AP of every point above.
func (n *Network) splitCrossover(buf [][]float64, in, frames, bands int) {
	for b := 1; b < bands; b++ {
		for c := range in {
			copy(buf[b*in+c][:frames], buf[c][:frames])
		}
	}

	for i := range bands - 1 {
		lp := n.bank.StageFor(i, stage.Lowpass)
		hp := n.bank.StageFor(i, stage.Highpass)
		ap := n.bank.StageFor(i, stage.Allpass)

		for j := range bands {
			for c := range in {
				ch := buf[j*in+c][:frames]
				slot := n.bank.StateSlotFor(j, i, c)
				switch {
				case j < i:
					ap.ApplyInPlace(ch, &slot[0])
				case j == i:
					lp.ApplyCascade(ch, slot)
				default:
					hp.ApplyCascade(ch, slot)
				}
			}
		}
	}
}

// splitSubtractive peels bands off from the bottom: band i+1 starts as a
// copy of band i, band i is lowpassed and band i+1 keeps the difference.
func (n *Network) splitSubtractive(buf [][]float64, in, frames, bands, passes int) {
	for i := range bands - 1 {
		lp := n.bank.StageFor(i, stage.Lowpass)
		for c := range in {
			lo := buf[i*in+c][:frames]
			hi := buf[(i+1)*in+c][:frames]
			copy(hi, lo)
			lp.ApplyCascade(lo, n.bank.StateSlotFor(i, i, c)[:passes])
			for k := range hi {
				hi[k] -= lo[k]
			}
		}
	}
}

// finite reports whether every channel stayed bounded. MaxAbs skips NaN,
// but a NaN stays in the filter history, so it reaches the last sample.
func (n *Network) finite(channels [][]float64, frames int) bool {
	for _, ch := range channels {
		if !core.IsFinite(vecmath.MaxAbs(ch[:frames])) || !core.IsFinite(ch[frames-1]) {
			return false
		}
	}
	return true
}

// Reset clears all filter state. Coefficients and the remembered
// geometry are kept.
func (n *Network) Reset() {
	n.bank.Reset()
}

// SetSampleRate redesigns all points for sampleRate and clears the
// state. The next block reconfigures.
func (n *Network) SetSampleRate(sampleRate float64) {
	if !(sampleRate > 0) || sampleRate == n.sampleRate {
		return
	}
	n.sampleRate = sampleRate
	n.bank.SetSampleRate(sampleRate)
	n.lastBands = 0
}

// SampleRate returns the current sample rate in Hz.
func (n *Network) SampleRate() float64 { return n.sampleRate }

// MaxChannels returns the largest input channel count that is split.
func (n *Network) MaxChannels() int { return n.maxChannels }

// Bands returns the effective band count of the previous block, or 0
// before the first block.
func (n *Network) Bands() int { return n.lastBands }

// Family returns the family of the previous block.
func (n *Network) Family() Family { return n.lastFamily }

// Bank exposes the filter bank for inspection.
func (n *Network) Bank() *bank.Bank { return n.bank }

// ReferenceAllpass returns the response the bands of s sum to: the
// cascade of every point allpass for LinkwitzRiley4 and an identity chain
// for the subtractive families. A nil s passes through unsplit, so its
// reference is the identity chain as well.
func (n *Network) ReferenceAllpass(s *Settings) *biquad.Chain {
	if s == nil || s.Family.Subtractive() {
		return biquad.NewChain(nil)
	}

	bands := max(min(s.Bands, MaxBands), 1)
	coeffs := make([]biquad.Coefficients, 0, bands-1)
	for i := range bands - 1 {
		f := effectiveFrequency(s.Frequencies[i], n.sampleRate)
		coeffs = append(coeffs, design.Allpass(f, design.ButterworthQ, n.sampleRate))
	}
	return biquad.NewChain(coeffs)
}
