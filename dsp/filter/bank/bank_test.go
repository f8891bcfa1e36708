package bank

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-bandsplit/dsp/filter/biquad"
	"github.com/cwbudde/algo-bandsplit/dsp/filter/design"
	"github.com/cwbudde/algo-bandsplit/dsp/filter/stage"
	"github.com/cwbudde/algo-bandsplit/internal/testutil"
)

func TestNew_Dimensions(t *testing.T) {
	b, err := New(16, 2, 48000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if b.Points() != 15 || b.MaxBands() != 16 || b.Channels() != 2 {
		t.Fatalf("points=%d bands=%d channels=%d", b.Points(), b.MaxBands(), b.Channels())
	}

	if want := 2 * 16 * 15 * Passes; b.StateLen() != want {
		t.Fatalf("arena = %d slots, want %d", b.StateLen(), want)
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		bands    int
		channels int
		sr       float64
		size     bool
	}{
		{"one band", 1, 2, 48000, true},
		{"no channels", 4, 0, 48000, true},
		{"zero rate", 4, 2, 0, false},
		{"negative rate", 4, 2, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.bands, tt.channels, tt.sr)
			if err == nil || b != nil {
				t.Fatalf("New(%d, %d, %v) = %v, %v; want error", tt.bands, tt.channels, tt.sr, b, err)
			}
			if errors.Is(err, ErrInvalidSize) != tt.size {
				t.Fatalf("errors.Is(ErrInvalidSize) = %v, want %v", !tt.size, tt.size)
			}
		})
	}
}

func TestStateSlotFor_Disjoint(t *testing.T) {
	b, err := New(4, 2, 48000)
	if err != nil {
		t.Fatal(err)
	}

	arena := make(map[*biquad.State]bool, b.StateLen())
	for k := range b.states {
		arena[&b.states[k]] = true
	}

	seen := make(map[*biquad.State]bool, b.StateLen())
	for c := range b.Channels() {
		for j := range b.MaxBands() {
			for i := range b.Points() {
				slot := b.StateSlotFor(j, i, c)
				if len(slot) != Passes || cap(slot) != Passes {
					t.Fatalf("slot (%d,%d,%d) len=%d cap=%d", j, i, c, len(slot), cap(slot))
				}
				for p := range slot {
					ptr := &slot[p]
					if !arena[ptr] {
						t.Fatalf("slot (%d,%d,%d) pass %d outside arena", j, i, c, p)
					}
					if seen[ptr] {
						t.Fatalf("slot (%d,%d,%d) pass %d aliases another path", j, i, c, p)
					}
					seen[ptr] = true
				}
			}
		}
	}

	if len(seen) != b.StateLen() {
		t.Fatalf("covered %d slots, arena has %d", len(seen), b.StateLen())
	}
}

func TestStateSlotFor_IndependentHistory(t *testing.T) {
	b, err := New(3, 1, 48000)
	if err != nil {
		t.Fatal(err)
	}
	b.Tune(0, 1000)

	lp := b.StageFor(0, stage.Lowpass)
	lp.ApplyCascade(testutil.Ones(64), b.StateSlotFor(0, 0, 0))

	for _, slot := range [][2]int{{1, 0}, {0, 1}, {2, 1}} {
		for _, st := range b.StateSlotFor(slot[0], slot[1], 0) {
			if st.Registers() != [2]float64{} {
				t.Fatalf("path %v touched by another path: %v", slot, st.Registers())
			}
		}
	}
}

func TestTune(t *testing.T) {
	b, err := New(3, 1, 48000)
	if err != nil {
		t.Fatal(err)
	}

	if !b.Tune(1, 500) {
		t.Fatal("first Tune must design")
	}
	if b.Tune(1, 500) {
		t.Fatal("repeated Tune must not redesign")
	}
	if !b.Tune(1, 600) {
		t.Fatal("frequency change must redesign")
	}

	tests := []struct {
		kind stage.Kind
		want func(f, q, sr float64) bool
	}{
		{stage.Lowpass, func(f, q, sr float64) bool {
			return b.StageFor(1, stage.Lowpass).Coefficients() == design.Lowpass(f, q, sr)
		}},
		{stage.Highpass, func(f, q, sr float64) bool {
			return b.StageFor(1, stage.Highpass).Coefficients() == design.Highpass(f, q, sr)
		}},
		{stage.Allpass, func(f, q, sr float64) bool {
			return b.StageFor(1, stage.Allpass).Coefficients() == design.Allpass(f, q, sr)
		}},
	}
	for _, tt := range tests {
		if !tt.want(600, design.ButterworthQ, 48000) {
			t.Errorf("%v stage does not match fresh design", tt.kind)
		}
	}

	if b.Frequency(1) != 600 || b.Frequency(0) != 0 {
		t.Fatalf("frequencies = %v, %v", b.Frequency(0), b.Frequency(1))
	}
}

func TestRetune_Forces(t *testing.T) {
	b, err := New(2, 1, 48000)
	if err != nil {
		t.Fatal(err)
	}
	b.Tune(0, 700)

	want := b.StageFor(0, stage.Highpass).Coefficients()
	b.Retune(0, 700)

	if got := b.StageFor(0, stage.Highpass).Coefficients(); got != want {
		t.Fatalf("Retune changed coefficients: %+v vs %+v", got, want)
	}
	if !b.StageFor(0, stage.Allpass).Configured() {
		t.Fatal("Retune left stage unconfigured")
	}
}

func TestReset(t *testing.T) {
	b, err := New(2, 2, 48000)
	if err != nil {
		t.Fatal(err)
	}
	b.Tune(0, 1000)

	slot := b.StateSlotFor(1, 0, 1)
	b.StageFor(0, stage.Highpass).ApplyCascade(testutil.DeterministicNoise(3, 1, 32), slot)
	if slot[0].Registers() == [2]float64{} {
		t.Fatal("processing left state empty")
	}

	b.Reset()
	for i := range b.states {
		if b.states[i].Registers() != [2]float64{} {
			t.Fatalf("state %d not cleared", i)
		}
	}
}

func TestSetSampleRate(t *testing.T) {
	b, err := New(3, 1, 48000)
	if err != nil {
		t.Fatal(err)
	}
	b.Tune(0, 1000)

	slot := b.StateSlotFor(0, 0, 0)
	b.StageFor(0, stage.Lowpass).ApplyCascade(testutil.Ones(16), slot)

	b.SetSampleRate(44100)

	if b.SampleRate() != 44100 {
		t.Fatalf("sample rate = %v", b.SampleRate())
	}
	if got := b.StageFor(0, stage.Lowpass).Coefficients(); got != design.Lowpass(1000, design.ButterworthQ, 44100) {
		t.Fatalf("stage not redesigned: %+v", got)
	}
	if b.StageFor(1, stage.Lowpass).Configured() {
		t.Fatal("untuned point became configured")
	}
	if slot[0].Registers() != [2]float64{} {
		t.Fatal("state not reset on sample-rate change")
	}

	b.SetSampleRate(0)
	if b.SampleRate() != 44100 {
		t.Fatal("non-positive rate accepted")
	}
}

func BenchmarkTune(b *testing.B) {
	bk, err := New(16, 2, 48000)
	if err != nil {
		b.Fatal(err)
	}

	freq := 100.0
	for b.Loop() {
		freq += 1
		bk.Tune(7, freq)
	}
}
