package crossover

import (
	"math"

	"github.com/cwbudde/algo-bandsplit/dsp/core"
)

const (
	// MaxBands is the largest supported band count.
	MaxBands = 16
	// MaxSplits is the number of crossover points at MaxBands.
	MaxSplits = MaxBands - 1
	// MinBands is the smallest band count a host may request.
	MinBands = 2
	// DefaultBands is the band count of DefaultSettings.
	DefaultBands = 3

	// MinFrequency is the lowest accepted split frequency in Hz.
	MinFrequency = 20.0
	// MaxFrequency is the highest accepted split frequency in Hz.
	MaxFrequency = 20000.0

	// nyquistGuard keeps split frequencies below this fraction of the
	// sample rate, where the bilinear designs are still well conditioned.
	nyquistGuard = 0.49
)

// Settings is a snapshot of the user-facing parameters for one block.
type Settings struct {
	Bands       int
	Family      Family
	Frequencies [MaxSplits]float64
}

// DefaultSettings returns three LR4 bands with the default split
// frequencies of every point.
func DefaultSettings() Settings {
	s := Settings{Bands: DefaultBands, Family: LinkwitzRiley4}
	for i := range s.Frequencies {
		s.Frequencies[i] = DefaultFrequency(i)
	}
	return s
}

// DefaultFrequency returns the initial split frequency of point i,
// spread on a 1.5 power curve and rounded to 100 Hz.
func DefaultFrequency(i int) float64 {
	f := math.Round(math.Pow(float64(i)/MaxBands, 1.5)*200) * 100
	return ClampFrequency(f)
}

// ClampFrequency limits f to [MinFrequency, MaxFrequency]. NaN maps to
// MinFrequency.
func ClampFrequency(f float64) float64 {
	if math.IsNaN(f) {
		return MinFrequency
	}
	return core.Clamp(f, MinFrequency, MaxFrequency)
}

// effectiveFrequency is the frequency actually designed at sampleRate.
func effectiveFrequency(f, sampleRate float64) float64 {
	return min(ClampFrequency(f), nyquistGuard*sampleRate)
}

// Layout is the negotiated channel geometry of one block.
type Layout struct {
	Inputs  int
	Outputs int
}

// AvailableBands returns how many full band groups fit into the outputs.
func (l Layout) AvailableBands() int {
	if l.Inputs <= 0 {
		return 0
	}
	return l.Outputs / l.Inputs
}
