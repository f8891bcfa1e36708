package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-bandsplit/dsp/core"
	"github.com/cwbudde/algo-bandsplit/host/wavsplit"
	"github.com/cwbudde/algo-bandsplit/plugin/bandsplit"
)

type splitCmd struct {
	*app
	flags  bandFlags
	outDir string
	prefix string
	block  int
	bits   int
}

func (a *app) newSplitCmd() *cobra.Command {
	c := &splitCmd{app: a}

	cmd := &cobra.Command{
		Use:   "split <input.wav>",
		Short: "Split a WAV file into one file per band",
		Long: `Split a WAV file into one file per band.

Band files are written as <prefix>_bandNN.wav. With the lr4 family the
bands sum to an allpass filtered copy of the input; the subtractive
families sum to the input itself.`,
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}

	c.flags.register(cmd)
	cmd.Flags().StringVarP(&c.outDir, "out-dir", "o", ".", "Directory for the band files")
	cmd.Flags().StringVarP(&c.prefix, "prefix", "p", "", "Band file prefix (defaults to the input name)")
	cmd.Flags().IntVar(&c.block, "block", wavsplit.DefaultBlockSize, "Processing block size in frames")
	cmd.Flags().IntVar(&c.bits, "bits", 0, "Output bit depth: 16, 24 or 32 (defaults to the input's)")

	return cmd
}

func (c *splitCmd) run(cmd *cobra.Command, args []string) error {
	proc, err := bandsplit.New(core.WithMaxChannels(2), core.WithBlockSize(c.block))
	if err != nil {
		return err
	}
	if err := c.flags.apply(cmd, proc.Params()); err != nil {
		return err
	}
	bands := proc.Params().BandCount()

	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	prefix := c.prefix
	if prefix == "" {
		base := filepath.Base(args[0])
		prefix = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if err := os.MkdirAll(c.outDir, 0o755); err != nil {
		return err
	}

	paths := make([]string, bands)
	files := make([]*os.File, 0, bands)
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	outs := make([]io.WriteSeeker, bands)
	for b := range bands {
		paths[b] = filepath.Join(c.outDir, fmt.Sprintf("%s_band%02d.wav", prefix, b+1))
		f, err := os.Create(paths[b])
		if err != nil {
			return err
		}
		files = append(files, f)
		outs[b] = f
	}

	c.logger.Debug("splitting", "input", args[0], "bands", bands, "family", proc.Params().Family())

	stats, err := wavsplit.Split(in, outs, proc, wavsplit.Options{BlockSize: c.block, BitDepth: c.bits})
	if err != nil {
		return errors.Join(err, removeAll(paths))
	}

	c.logger.Info("split done",
		"frames", stats.Frames,
		"rate", stats.SampleRate,
		"channels", stats.Channels,
		"bits", stats.BitDepth,
	)
	if stats.Clipped > 0 {
		c.logger.Warn("output clipped", "samples", stats.Clipped)
	}

	out := cmd.OutOrStdout()
	for b, p := range paths {
		c.logger.Debug("band", "index", b+1, "peak", stats.Peaks[b])
		fmt.Fprintln(out, p)
	}
	return nil
}

func removeAll(paths []string) error {
	var errs []error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
