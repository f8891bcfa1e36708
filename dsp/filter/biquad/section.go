package biquad

import (
	"sync"

	"github.com/cwbudde/algo-bandsplit/dsp/core"
	archregistry "github.com/cwbudde/algo-bandsplit/dsp/filter/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

// Coefficients holds the transfer function coefficients for a single
// second-order section (biquad). a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// State is the two-register delay line of one DF-II-T signal path.
//
// A State carries the history of exactly one signal; filtering two
// different signals through the same State mixes their histories.
// The zero value is a cleared delay line.
type State struct {
	d0, d1 float64
}

var (
	processBlockImpl     archregistry.ProcessBlockFn
	processBlockInitOnce sync.Once
)

// ProcessBlock filters buf in-place with c, continuing from and updating
// the delay line. Zero-alloc.
func (st *State) ProcessBlock(c Coefficients, buf []float64) {
	if len(buf) == 0 {
		return
	}

	processBlockInitOnce.Do(initProcessBlockKernel)

	st.d0, st.d1 = processBlockImpl(archregistry.Coefficients(c), st.d0, st.d1, buf)
}

// ProcessSample filters one sample with c and returns the output.
func (st *State) ProcessSample(c Coefficients, x float64) float64 {
	y := c.B0*x + st.d0
	st.d0 = c.B1*x - c.A1*y + st.d1
	st.d1 = c.B2*x - c.A2*y

	return y
}

// FlushDenormals sets registers whose magnitude fell below the denormal
// range to exact zero. Decaying tails otherwise linger in subnormal
// arithmetic, which is orders of magnitude slower on most CPUs.
func (st *State) FlushDenormals() {
	st.d0 = core.FlushDenormals(st.d0)
	st.d1 = core.FlushDenormals(st.d1)
}

// Reset clears the delay line.
func (st *State) Reset() {
	st.d0, st.d1 = 0, 0
}

// Registers returns the current delay-line values [d0, d1].
func (st State) Registers() [2]float64 {
	return [2]float64{st.d0, st.d1}
}

// Section is a single biquad filter with coefficients and internal state.
// It implements Direct Form II Transposed processing.
type Section struct {
	Coefficients

	state State
}

// NewSection returns a Section initialized with the given coefficients
// and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x float64) float64 {
	return s.state.ProcessSample(s.Coefficients, x)
}

// ProcessBlock filters a block of samples in-place. Zero-alloc.
func (s *Section) ProcessBlock(buf []float64) {
	s.state.ProcessBlock(s.Coefficients, buf)
}

// Reset clears the delay line to zero.
func (s *Section) Reset() {
	s.state.Reset()
}

// State returns the current delay-line state [d0, d1].
func (s *Section) State() [2]float64 {
	return s.state.Registers()
}

// SetState restores a previously saved delay-line state.
func (s *Section) SetState(state [2]float64) {
	s.state.d0 = state[0]
	s.state.d1 = state[1]
}

func initProcessBlockKernel() {
	entry := archregistry.Global.Lookup(cpu.DetectFeatures())
	if entry == nil {
		panic("biquad: no ProcessBlock kernel registered (missing generic fallback?)")
	}

	if entry.ProcessBlock == nil {
		panic("biquad: selected kernel missing ProcessBlock")
	}

	processBlockImpl = entry.ProcessBlock
}

// KernelName reports which registered block kernel the package selected
// for this CPU.
func KernelName() string {
	entry := archregistry.Global.Lookup(cpu.DetectFeatures())
	if entry == nil {
		return ""
	}

	return entry.Name
}
