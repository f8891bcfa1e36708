package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-bandsplit/plugin/params"
	"github.com/cwbudde/algo-bandsplit/plugin/state"
)

func (a *app) newStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Write or inspect saved parameter state",
	}
	cmd.AddCommand(a.newStateEncodeCmd(), a.newStateDecodeCmd())
	return cmd
}

func (a *app) newStateEncodeCmd() *cobra.Command {
	var flags bandFlags

	cmd := &cobra.Command{
		Use:   "encode <file>",
		Short: "Save the given band settings as a state blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := params.New()
			if err := flags.apply(cmd, p); err != nil {
				return err
			}

			blob := state.Encode(p)
			if err := os.WriteFile(args[0], blob, 0o644); err != nil {
				return err
			}
			a.logger.Info("state written", "file", args[0], "bytes", len(blob))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) newStateDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <file>",
		Short: "Print the settings stored in a state blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			p := params.New()
			if err := state.Decode(data, p); err != nil {
				// Fields before the cut are applied; show them anyway.
				a.logger.Warn("state incomplete", "file", args[0], "err", err)
			}
			a.logger.Debug("state read", "file", args[0], "bytes", len(data))

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s, %d bands", p.Family(), p.BandCount())))

			rows := make([][]string, 0, p.BandCount()-1)
			for i := range p.BandCount() - 1 {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					strconv.FormatFloat(p.SplitFrequency(i), 'f', 1, 64),
				})
			}
			fmt.Fprintln(out, newTable([]string{"split", "Hz"}, rows, false))
			return nil
		},
	}
}
