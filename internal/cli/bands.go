package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-bandsplit/dsp/filter/crossover"
	"github.com/cwbudde/algo-bandsplit/plugin/params"
)

// bandFlags are the parameter flags shared by every command that
// configures a splitter.
type bandFlags struct {
	bands  int
	freqs  []float64
	family string
}

func (f *bandFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.bands, "bands", "b", crossover.DefaultBands,
		fmt.Sprintf("Number of bands (%d-%d); defaults to one more than the --freq count", crossover.MinBands, crossover.MaxBands))
	cmd.Flags().Float64SliceVarP(&f.freqs, "freq", "f", nil, "Split frequencies in Hz, lowest split first")
	cmd.Flags().StringVar(&f.family, "family", crossover.LinkwitzRiley4.String(),
		"Filter family: lr4, lr4-subtractive or bw2-subtractive")
}

// apply writes the flags into p.
func (f *bandFlags) apply(cmd *cobra.Command, p *params.Surface) error {
	if len(f.freqs) > crossover.MaxSplits {
		return fmt.Errorf("at most %d split frequencies, got %d", crossover.MaxSplits, len(f.freqs))
	}

	bands := f.bands
	if !cmd.Flags().Changed("bands") && len(f.freqs) > 0 {
		bands = len(f.freqs) + 1
	}
	if bands < crossover.MinBands || bands > crossover.MaxBands {
		return fmt.Errorf("band count %d outside %d-%d", bands, crossover.MinBands, crossover.MaxBands)
	}
	p.SetBandCount(bands)

	family, err := crossover.ParseFamily(f.family)
	if err != nil {
		return err
	}
	if err := p.SetFamily(family); err != nil {
		return err
	}

	for i, hz := range f.freqs {
		if err := p.SetSplitFrequency(i, hz); err != nil {
			return err
		}
	}
	return nil
}

// settings returns the flags as a crossover snapshot.
func (f *bandFlags) settings(cmd *cobra.Command) (crossover.Settings, error) {
	p := params.New()
	if err := f.apply(cmd, p); err != nil {
		return crossover.Settings{}, err
	}

	var s crossover.Settings
	p.Snapshot(&s)
	return s, nil
}
