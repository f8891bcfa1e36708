package bandsplit

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-bandsplit/dsp/filter/crossover"
)

// ErrUnsupportedLayout is returned for bus layouts the processor refuses.
var ErrUnsupportedLayout = errors.New("bandsplit: unsupported bus layout")

// BusLayout is the channel count of the input bus and of every output
// bus, one output bus per band.
type BusLayout struct {
	Input   int
	Outputs []int
}

// UniformLayout returns a layout with bands output buses of the input's
// width.
func UniformLayout(channels, bands int) BusLayout {
	outs := make([]int, bands)
	for i := range outs {
		outs[i] = channels
	}
	return BusLayout{Input: channels, Outputs: outs}
}

// Supported reports why l cannot be used, or nil if it can. Every bus
// must be mono or stereo and the first output bus must be at least as wide
// as the input.
func (l BusLayout) Supported() error {
	if !monoOrStereo(l.Input) {
		return fmt.Errorf("%w: input bus has %d channels", ErrUnsupportedLayout, l.Input)
	}
	if len(l.Outputs) == 0 {
		return fmt.Errorf("%w: no output buses", ErrUnsupportedLayout)
	}
	for i, n := range l.Outputs {
		if !monoOrStereo(n) {
			return fmt.Errorf("%w: output bus %d has %d channels", ErrUnsupportedLayout, i, n)
		}
	}
	if l.Outputs[0] < l.Input {
		return fmt.Errorf("%w: main output (%d) narrower than input (%d)", ErrUnsupportedLayout, l.Outputs[0], l.Input)
	}
	return nil
}

// Layout flattens l into the channel geometry the network processes.
func (l BusLayout) Layout() crossover.Layout {
	total := 0
	for _, n := range l.Outputs {
		total += n
	}
	return crossover.Layout{Inputs: l.Input, Outputs: total}
}

func monoOrStereo(n int) bool {
	return n == 1 || n == 2
}
