// Package cli implements the bandsplit command line.
package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var version = "0.3.0"

type app struct {
	quiet   bool
	verbose bool
	logger  *log.Logger
}

// NewRootCmd builds the bandsplit command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "bandsplit",
		Short: "Split audio into frequency bands.",
		Long:  "An N-way crossover that splits WAV files into up to 16 bands which sum back to the input.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.setupLogger(cmd)
		},
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "Suppress log output")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Increase log output")

	root.AddCommand(
		a.newSplitCmd(),
		a.newResponseCmd(),
		a.newStateCmd(),
		newVersionCmd(),
	)

	return root
}

// Execute runs the command line with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version)
		},
		DisableFlagsInUseLine: true,
	}
}
