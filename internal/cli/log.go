package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func (a *app) setupLogger(cmd *cobra.Command) {
	a.logger = log.New(cmd.ErrOrStderr())
	a.logger.SetReportTimestamp(false)

	if a.verbose {
		a.logger.SetLevel(log.DebugLevel)
	} else if a.quiet {
		a.logger.SetLevel(log.ErrorLevel)
	}
}
