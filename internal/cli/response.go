package cli

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-bandsplit/dsp/filter/crossover"
	"github.com/cwbudde/algo-bandsplit/measure/bandresponse"
)

type responseCmd struct {
	*app
	flags  bandFlags
	rate   float64
	length int
	probes []float64
}

func (a *app) newResponseCmd() *cobra.Command {
	c := &responseCmd{app: a}

	cmd := &cobra.Command{
		Use:   "response",
		Short: "Print the magnitude of every band and of their sum",
		Long: `Print the magnitude of every band and of their sum.

Without --probe the table reads each band near its own center.`,
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	c.flags.register(cmd)
	cmd.Flags().Float64VarP(&c.rate, "rate", "r", 48000, "Sample rate in Hz")
	cmd.Flags().IntVarP(&c.length, "length", "n", 8192, "Impulse response length in samples")
	cmd.Flags().Float64SliceVar(&c.probes, "probe", nil, "Frequencies in Hz to read the magnitudes at")

	return cmd
}

func (c *responseCmd) run(cmd *cobra.Command, args []string) error {
	s, err := c.flags.settings(cmd)
	if err != nil {
		return err
	}

	probes := c.probes
	if len(probes) == 0 {
		probes = bandCenters(&s, c.rate)
	}

	c.logger.Debug("measuring", "bands", s.Bands, "family", s.Family, "rate", c.rate, "length", c.length)

	res, err := bandresponse.Analyze(s, c.rate, c.length, probes)
	if err != nil {
		return err
	}

	headers := []string{"band"}
	for _, f := range res.Probes {
		headers = append(headers, formatHz(f))
	}

	rows := make([][]string, 0, res.Bands+1)
	for b, mags := range res.Magnitudes {
		rows = append(rows, dbRow(strconv.Itoa(b+1), mags))
	}
	rows = append(rows, dbRow("sum", res.Sum))

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s, %d bands, %g Hz", s.Family, res.Bands, res.SampleRate)))
	fmt.Fprintln(out, newTable(headers, rows, true))
	fmt.Fprintf(out, "max deviation %.3g\n", res.Flatness.MaxDeviation)
	fmt.Fprintf(out, "rms deviation %.3g\n", res.Flatness.RMSDeviation)
	return nil
}

// bandCenters returns one probe per band: half the first split, the
// geometric mean of inner band edges and twice the last split, kept below
// Nyquist.
func bandCenters(s *crossover.Settings, sampleRate float64) []float64 {
	top := 0.45 * sampleRate
	edge := func(i int) float64 {
		return min(crossover.ClampFrequency(s.Frequencies[i]), top)
	}

	centers := make([]float64, s.Bands)
	for b := range centers {
		switch {
		case b == 0:
			centers[b] = edge(0) / 2
		case b == s.Bands-1:
			centers[b] = min(2*edge(b-1), top)
		default:
			centers[b] = math.Sqrt(edge(b-1) * edge(b))
		}
	}
	return centers
}

func dbRow(label string, values []float64) []string {
	row := make([]string, 0, len(values)+1)
	row = append(row, label)
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', 2, 64))
	}
	return row
}

func formatHz(f float64) string {
	if f >= 1000 {
		return strconv.FormatFloat(f/1000, 'f', -1, 64) + " kHz"
	}
	return strconv.FormatFloat(math.Round(f), 'f', -1, 64) + " Hz"
}
