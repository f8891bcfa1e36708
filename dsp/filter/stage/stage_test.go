package stage

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-bandsplit/dsp/filter/biquad"
	"github.com/cwbudde/algo-bandsplit/dsp/filter/design"
	"github.com/cwbudde/algo-bandsplit/internal/testutil"
)

func TestConfigure_RecomputesOnlyOnChange(t *testing.T) {
	var s Stage

	c1, changed := s.Configure(Lowpass, 1000, design.ButterworthQ, 48000)
	if !changed {
		t.Fatal("first Configure must design coefficients")
	}

	if _, changed := s.Configure(Lowpass, 1000, design.ButterworthQ, 48000); changed {
		t.Fatal("identical Configure must not redesign")
	}

	tests := []struct {
		name string
		kind Kind
		freq float64
		sr   float64
	}{
		{"frequency", Lowpass, 1200, 48000},
		{"kind", Highpass, 1200, 48000},
		{"sample rate", Highpass, 1200, 44100},
	}
	for _, tt := range tests {
		if _, changed := s.Configure(tt.kind, tt.freq, design.ButterworthQ, tt.sr); !changed {
			t.Errorf("%s change did not redesign", tt.name)
		}
	}

	if c1 != design.Lowpass(1000, design.ButterworthQ, 48000) {
		t.Fatalf("lowpass coefficients mismatch: %+v", c1)
	}

	if s.Kind() != Highpass || s.Frequency() != 1200 || s.SampleRate() != 44100 || s.Q() != design.ButterworthQ {
		t.Fatalf("accessors out of sync: kind=%v f=%v sr=%v q=%v", s.Kind(), s.Frequency(), s.SampleRate(), s.Q())
	}
}

func TestConfigure_MatchesDesigners(t *testing.T) {
	tests := []struct {
		kind Kind
		want biquad.Coefficients
	}{
		{Lowpass, design.Lowpass(500, design.ButterworthQ, 44100)},
		{Highpass, design.Highpass(500, design.ButterworthQ, 44100)},
		{Allpass, design.Allpass(500, design.ButterworthQ, 44100)},
	}

	for _, tt := range tests {
		var s Stage
		if got, _ := s.Configure(tt.kind, 500, design.ButterworthQ, 44100); got != tt.want {
			t.Errorf("%v: got %+v, want %+v", tt.kind, got, tt.want)
		}
	}
}

func TestZeroStage_IsSilent(t *testing.T) {
	var (
		s  Stage
		st biquad.State
	)

	buf := testutil.Ones(8)
	s.ApplyInPlace(buf, &st)

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v, want 0 from unconfigured stage", i, v)
		}
	}

	if s.Configured() {
		t.Fatal("zero stage reports configured")
	}
}

func TestApplyCascade_EqualsRepeatedApply(t *testing.T) {
	var s Stage
	s.Configure(Lowpass, 800, design.ButterworthQ, 48000)

	input := testutil.DeterministicNoise(7, 1, 256)

	states := make([]biquad.State, 2)
	cascaded := append([]float64(nil), input...)
	s.ApplyCascade(cascaded, states)

	var st0, st1 biquad.State
	manual := append([]float64(nil), input...)
	s.ApplyInPlace(manual, &st0)
	s.ApplyInPlace(manual, &st1)

	testutil.RequireSliceNearlyEqual(t, cascaded, manual, 0)
}

func TestApplyCascade_LR4MagnitudeAtCrossover(t *testing.T) {
	const sr = 48000.0

	var s Stage
	s.Configure(Lowpass, 1000, design.ButterworthQ, sr)

	// Steady-state gain of a 1 kHz sine through LP twice is -6.02 dB.
	in := testutil.DeterministicSine(1000, sr, 1, 48000)
	states := make([]biquad.State, 2)
	s.ApplyCascade(in, states)

	// RMS over whole periods of the settled half.
	energy := 0.0
	tail := in[len(in)/2:]
	for _, v := range tail {
		energy += v * v
	}

	amplitude := math.Sqrt(2 * energy / float64(len(tail)))
	if db := 20 * math.Log10(amplitude); math.Abs(db+6.0206) > 0.01 {
		t.Fatalf("LR4 lowpass at crossover = %.4f dB, want -6.02", db)
	}
}

func TestKind_String(t *testing.T) {
	if Lowpass.String() != "lowpass" || Highpass.String() != "highpass" || Allpass.String() != "allpass" {
		t.Fatal("unexpected kind names")
	}

	if got := Kind(9).String(); got != "Kind(9)" {
		t.Fatalf("unknown kind = %q", got)
	}
}

func BenchmarkApplyCascade(b *testing.B) {
	var s Stage
	s.Configure(Highpass, 2000, design.ButterworthQ, 48000)

	buf := testutil.DeterministicNoise(1, 1, 512)
	states := make([]biquad.State, 2)

	for b.Loop() {
		s.ApplyCascade(buf, states)
	}
}
