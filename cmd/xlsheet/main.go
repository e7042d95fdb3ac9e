// Command xlsheet inspects, filters, sorts and pivots xlsx workbooks.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.alis.build/alog"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "xlsheet",
		Short: "Spreadsheet tools for xlsx workbooks",
		Long: `Inspect and reshape xlsx workbooks from the command line.

Commands:
  info    Describe the sheets of a workbook.
  addr    Decode cell addresses and ranges.
  filter  Keep the rows matching a YAML job's filters.
  sort    Order rows by a YAML job or --by keys.
  pivot   Build a pivot table described by a YAML job.
  repl    Edit a workbook interactively with undo and redo.

Examples:
  xlsheet info sales.xlsx
  xlsheet filter sales.xlsx --job north.yaml --out north.xlsx
  xlsheet sort sales.xlsx --by C:desc --by A
  xlsheet pivot sales.xlsx --job pivot.yaml`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				alog.SetLevel(alog.LevelDebug)
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newInfoCommand())
	cmd.AddCommand(newAddrCommand())
	cmd.AddCommand(newFilterCommand())
	cmd.AddCommand(newSortCommand())
	cmd.AddCommand(newPivotCommand())
	cmd.AddCommand(newReplCommand())
	return cmd
}
