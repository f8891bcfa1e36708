package bandresponse

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-bandsplit/dsp/core"
	"github.com/cwbudde/algo-bandsplit/dsp/filter/crossover"
)

// Errors returned by the measurement functions.
var (
	ErrInvalidLength = errors.New("bandresponse: length must be positive")
	ErrFFTSize       = errors.New("bandresponse: FFT size must be a power of two covering the response")
	ErrMismatch      = errors.New("bandresponse: band and reference lengths differ")
)

// Report summarizes how closely the band sum follows the reference.
type Report struct {
	MaxDeviation float64 // largest absolute sample difference
	RMSDeviation float64 // root mean square of the difference
}

// Result is the outcome of Analyze.
type Result struct {
	SampleRate float64
	FFTSize    int
	Bands      int
	Probes     []float64   // probe frequencies in Hz
	Magnitudes [][]float64 // per band, dB at each probe
	Sum        []float64   // band sum, dB at each probe
	Flatness   Report
}

// ImpulseResponses returns length samples of every band's response to a
// unit impulse on a mono network configured with s. The reconfiguration
// block is consumed before the impulse.
func ImpulseResponses(s crossover.Settings, sampleRate float64, length int) ([][]float64, error) {
	irs, _, err := impulseResponses(s, sampleRate, length)
	return irs, err
}

func impulseResponses(s crossover.Settings, sampleRate float64, length int) ([][]float64, *crossover.Network, error) {
	if length <= 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}

	net, err := crossover.New(sampleRate, crossover.WithMaxChannels(1))
	if err != nil {
		return nil, nil, fmt.Errorf("bandresponse: %w", err)
	}

	s.Bands = min(max(s.Bands, crossover.MinBands), crossover.MaxBands)
	layout := crossover.Layout{Inputs: 1, Outputs: s.Bands}

	buf := make([][]float64, s.Bands)
	for b := range buf {
		buf[b] = make([]float64, length)
	}

	net.Process(buf, layout, length, &s)
	core.ZeroChannels(buf, length)
	buf[0][0] = 1
	net.Process(buf, layout, length, &s)

	return buf, net, nil
}

// Magnitudes returns the magnitude spectrum of ir in dB for bins
// 0..fftSize/2. ir is zero-padded to fftSize.
func Magnitudes(ir []float64, fftSize int) ([]float64, error) {
	if fftSize < 2 || fftSize < len(ir) || bits.OnesCount(uint(fftSize)) != 1 {
		return nil, fmt.Errorf("%w: %d for %d samples", ErrFFTSize, fftSize, len(ir))
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("bandresponse: plan: %w", err)
	}

	in := make([]complex128, fftSize)
	for i, v := range ir {
		in[i] = complex(v, 0)
	}
	spec := make([]complex128, fftSize)
	if err := plan.Forward(spec, in); err != nil {
		return nil, fmt.Errorf("bandresponse: fft: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k] = real(spec[k])
		im[k] = imag(spec[k])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)
	for k, m := range mag {
		mag[k] = core.LinearToDB(m)
	}
	return mag, nil
}

// Flatness compares the sample-wise sum of bands with reference.
func Flatness(bands [][]float64, reference []float64) (Report, error) {
	sum := make([]float64, len(reference))
	for b, band := range bands {
		if len(band) != len(reference) {
			return Report{}, fmt.Errorf("%w: band %d has %d samples, reference %d",
				ErrMismatch, b, len(band), len(reference))
		}
		vecmath.AddBlockInPlace(sum, band)
	}
	if len(sum) == 0 {
		return Report{}, nil
	}

	return Report{
		MaxDeviation: floats.Distance(sum, reference, math.Inf(1)),
		RMSDeviation: floats.Distance(sum, reference, 2) / math.Sqrt(float64(len(sum))),
	}, nil
}

// Analyze measures every band of a network configured with s over length
// samples and reads their magnitudes at the probe frequencies.
func Analyze(s crossover.Settings, sampleRate float64, length int, probes []float64) (Result, error) {
	irs, net, err := impulseResponses(s, sampleRate, length)
	if err != nil {
		return Result{}, err
	}

	settings := s
	settings.Bands = len(irs)
	reference := net.ReferenceAllpass(&settings).ImpulseResponse(length)

	report, err := Flatness(irs, reference)
	if err != nil {
		return Result{}, err
	}

	fftSize := 1 << bits.Len(uint(length-1))
	fftSize = max(fftSize, 2)

	res := Result{
		SampleRate: sampleRate,
		FFTSize:    fftSize,
		Bands:      len(irs),
		Probes:     append([]float64(nil), probes...),
		Magnitudes: make([][]float64, len(irs)),
		Flatness:   report,
	}

	sum := make([]float64, length)
	for b, ir := range irs {
		vecmath.AddBlockInPlace(sum, ir)
		mag, err := Magnitudes(ir, fftSize)
		if err != nil {
			return Result{}, err
		}
		res.Magnitudes[b] = probe(mag, probes, fftSize, sampleRate)
	}

	mag, err := Magnitudes(sum, fftSize)
	if err != nil {
		return Result{}, err
	}
	res.Sum = probe(mag, probes, fftSize, sampleRate)

	return res, nil
}

// probe reads the bin nearest to each frequency.
func probe(mag, freqs []float64, fftSize int, sampleRate float64) []float64 {
	out := make([]float64, len(freqs))
	for i, f := range freqs {
		bin := int(math.Round(f * float64(fftSize) / sampleRate))
		out[i] = mag[min(max(bin, 0), len(mag)-1)]
	}
	return out
}
