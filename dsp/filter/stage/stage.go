// Package stage provides a retunable biquad filter stage whose coefficients
// are shared by many externally owned signal paths.
package stage

import (
	"fmt"

	"github.com/cwbudde/algo-bandsplit/dsp/filter/biquad"
	"github.com/cwbudde/algo-bandsplit/dsp/filter/design"
)

// Kind selects the response a Stage is designed for.
type Kind uint8

const (
	// Lowpass passes content below the stage frequency.
	Lowpass Kind = iota
	// Highpass passes content above the stage frequency.
	Highpass
	// Allpass passes everything with the phase shift of a lowpass/highpass
	// Linkwitz-Riley pair at the stage frequency.
	Allpass

	numKinds
)

// NumKinds is the number of Kind values.
const NumKinds = int(numKinds)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Lowpass:
		return "lowpass"
	case Highpass:
		return "highpass"
	case Allpass:
		return "allpass"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Stage is one second-order section with a remembered design target.
//
// A Stage holds no signal history; every Apply call works on a caller
// supplied [biquad.State]. The zero value is unconfigured and filters to
// silence until Configure is called.
type Stage struct {
	coeffs     biquad.Coefficients
	kind       Kind
	freq       float64
	q          float64
	sampleRate float64
	configured bool
}

// Configure designs the stage for kind at freq with quality factor q.
// The trigonometric design only runs when one of the inputs differs from
// the previous call; changed reports whether it ran.
func (s *Stage) Configure(kind Kind, freq, q, sampleRate float64) (coeffs biquad.Coefficients, changed bool) {
	if s.configured && s.kind == kind && s.freq == freq && s.q == q && s.sampleRate == sampleRate {
		return s.coeffs, false
	}

	s.coeffs = derive(kind, freq, q, sampleRate)
	s.kind = kind
	s.freq = freq
	s.q = q
	s.sampleRate = sampleRate
	s.configured = true

	return s.coeffs, true
}

func derive(kind Kind, freq, q, sampleRate float64) biquad.Coefficients {
	switch kind {
	case Lowpass:
		return design.Lowpass(freq, q, sampleRate)
	case Highpass:
		return design.Highpass(freq, q, sampleRate)
	case Allpass:
		return design.Allpass(freq, q, sampleRate)
	default:
		return biquad.Coefficients{}
	}
}

// ApplyInPlace filters buf once, continuing the history held in st.
func (s *Stage) ApplyInPlace(buf []float64, st *biquad.State) {
	st.ProcessBlock(s.coeffs, buf)
	st.FlushDenormals()
}

// ApplyCascade filters buf len(states) times with the same coefficients,
// pass p using states[p]. Two passes of a Butterworth-Q stage give the
// fourth-order Linkwitz-Riley response.
func (s *Stage) ApplyCascade(buf []float64, states []biquad.State) {
	for p := range states {
		states[p].ProcessBlock(s.coeffs, buf)
		states[p].FlushDenormals()
	}
}

// Coefficients returns the current coefficient set.
func (s *Stage) Coefficients() biquad.Coefficients { return s.coeffs }

// Kind returns the configured response kind.
func (s *Stage) Kind() Kind { return s.kind }

// Frequency returns the configured frequency in Hz.
func (s *Stage) Frequency() float64 { return s.freq }

// Q returns the configured quality factor.
func (s *Stage) Q() float64 { return s.q }

// SampleRate returns the configured sample rate in Hz.
func (s *Stage) SampleRate() float64 { return s.sampleRate }

// Configured reports whether Configure has been called.
func (s *Stage) Configured() bool { return s.configured }
