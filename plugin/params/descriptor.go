package params

import (
	"fmt"

	"github.com/cwbudde/algo-bandsplit/dsp/filter/crossover"
)

// Kind is the value type a host shows for a parameter.
type Kind uint8

const (
	// Int is an integer range.
	Int Kind = iota
	// Float is a continuous range.
	Float
	// Choice is an enumeration.
	Choice
)

// Descriptor describes one parameter for host enumeration.
type Descriptor struct {
	ID      string
	Name    string
	Kind    Kind
	Min     float64
	Max     float64
	Default float64
	Unit    string
	Choices []string
}

// Descriptors lists every parameter in declaration order: band count,
// filter family, then one entry per split.
func Descriptors() []Descriptor {
	def := crossover.DefaultSettings()

	choices := make([]string, crossover.NumFamilies)
	for i := range choices {
		choices[i] = crossover.Family(i).String()
	}

	out := make([]Descriptor, 0, 2+crossover.MaxSplits)
	out = append(out,
		Descriptor{
			ID:      "bands",
			Name:    "Bands",
			Kind:    Int,
			Min:     crossover.MinBands,
			Max:     crossover.MaxBands,
			Default: float64(def.Bands),
		},
		Descriptor{
			ID:      "family",
			Name:    "Filter family",
			Kind:    Choice,
			Min:     0,
			Max:     float64(crossover.NumFamilies - 1),
			Default: float64(def.Family),
			Choices: choices,
		},
	)

	for i, f := range def.Frequencies {
		out = append(out, Descriptor{
			ID:      fmt.Sprintf("split%d", i+1),
			Name:    fmt.Sprintf("Split %d", i+1),
			Kind:    Float,
			Min:     crossover.MinFrequency,
			Max:     crossover.MaxFrequency,
			Default: f,
			Unit:    "Hz",
		})
	}

	return out
}
