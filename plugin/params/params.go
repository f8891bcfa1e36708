package params

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-bandsplit/dsp/core"
	"github.com/cwbudde/algo-bandsplit/dsp/filter/crossover"
)

var (
	// ErrIndex is returned for a split index outside [0, crossover.MaxSplits).
	ErrIndex = errors.New("params: split index out of range")
	// ErrNotFinite is returned when a NaN or infinite value is written.
	ErrNotFinite = errors.New("params: value is not finite")
	// ErrFamily is returned for an undefined filter family.
	ErrFamily = errors.New("params: unknown filter family")
)

// Surface is the live parameter set of one processor instance.
type Surface struct {
	bands  atomic.Int32
	family atomic.Int32
	splits [crossover.MaxSplits]atomic.Uint64 // float64 bit patterns in Hz
}

// New returns a surface holding the default values.
func New() *Surface {
	p := &Surface{}
	p.Reset()
	return p
}

// Reset restores every parameter to its default.
func (p *Surface) Reset() {
	def := crossover.DefaultSettings()
	p.bands.Store(int32(def.Bands))
	p.family.Store(int32(def.Family))
	for i := range p.splits {
		p.splits[i].Store(math.Float64bits(def.Frequencies[i]))
	}
}

// BandCount returns the requested number of bands.
func (p *Surface) BandCount() int {
	return int(p.bands.Load())
}

// SetBandCount stores n clamped to [crossover.MinBands, crossover.MaxBands].
func (p *Surface) SetBandCount(n int) {
	n = min(max(n, crossover.MinBands), crossover.MaxBands)
	p.bands.Store(int32(n))
}

// SplitFrequency returns the frequency of split i in Hz, or 0 if i is out
// of range.
func (p *Surface) SplitFrequency(i int) float64 {
	if i < 0 || i >= len(p.splits) {
		return 0
	}
	return math.Float64frombits(p.splits[i].Load())
}

// SetSplitFrequency stores hz for split i, clamped to
// [crossover.MinFrequency, crossover.MaxFrequency].
func (p *Surface) SetSplitFrequency(i int, hz float64) error {
	if i < 0 || i >= len(p.splits) {
		return fmt.Errorf("%w: %d", ErrIndex, i)
	}
	if !core.IsFinite(hz) {
		return fmt.Errorf("%w: split %d = %v", ErrNotFinite, i, hz)
	}
	p.splits[i].Store(math.Float64bits(crossover.ClampFrequency(hz)))
	return nil
}

// Family returns the selected filter family.
func (p *Surface) Family() crossover.Family {
	return crossover.Family(p.family.Load())
}

// SetFamily selects the filter family.
func (p *Surface) SetFamily(f crossover.Family) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %v", ErrFamily, f)
	}
	p.family.Store(int32(f))
	return nil
}

// BandCountNormalized returns the band count mapped to [0, 1].
func (p *Surface) BandCountNormalized() float64 {
	return normalizeIndex(p.BandCount()-crossover.MinBands, crossover.MaxBands-crossover.MinBands)
}

// SetBandCountNormalized stores the band count nearest to v.
func (p *Surface) SetBandCountNormalized(v float64) error {
	if !core.IsFinite(v) {
		return fmt.Errorf("%w: bands = %v", ErrNotFinite, v)
	}
	p.SetBandCount(crossover.MinBands + denormalizeIndex(v, crossover.MaxBands-crossover.MinBands))
	return nil
}

// FamilyNormalized returns the family index mapped to [0, 1].
func (p *Surface) FamilyNormalized() float64 {
	return normalizeIndex(int(p.Family()), crossover.NumFamilies-1)
}

// SetFamilyNormalized selects the family nearest to v.
func (p *Surface) SetFamilyNormalized(v float64) error {
	if !core.IsFinite(v) {
		return fmt.Errorf("%w: family = %v", ErrNotFinite, v)
	}
	return p.SetFamily(crossover.Family(denormalizeIndex(v, crossover.NumFamilies-1)))
}

// SplitNormalized returns split i mapped linearly to [0, 1].
func (p *Surface) SplitNormalized(i int) float64 {
	hz := p.SplitFrequency(i)
	if hz == 0 {
		return 0
	}
	return (hz - crossover.MinFrequency) / (crossover.MaxFrequency - crossover.MinFrequency)
}

// SetSplitNormalized stores split i from its normalized value.
func (p *Surface) SetSplitNormalized(i int, v float64) error {
	if !core.IsFinite(v) {
		return fmt.Errorf("%w: split %d = %v", ErrNotFinite, i, v)
	}
	v = core.Clamp(v, 0, 1)
	return p.SetSplitFrequency(i, crossover.MinFrequency+v*(crossover.MaxFrequency-crossover.MinFrequency))
}

// Snapshot copies the current values into s. It neither locks nor
// allocates and is safe to call from the audio thread.
func (p *Surface) Snapshot(s *crossover.Settings) {
	s.Bands = p.BandCount()
	s.Family = p.Family()
	for i := range p.splits {
		s.Frequencies[i] = math.Float64frombits(p.splits[i].Load())
	}
}

func normalizeIndex(i, span int) float64 {
	if span <= 0 {
		return 0
	}
	return float64(i) / float64(span)
}

func denormalizeIndex(v float64, span int) int {
	return int(math.Round(core.Clamp(v, 0, 1) * float64(span)))
}
