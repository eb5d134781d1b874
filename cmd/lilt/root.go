package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lilt",
	Short: "Generate a portable LL(1) prediction table from a grammar",
	Long: `lilt provides three features:
- Certifies that a grammar is LL(1) and generates a portable prediction table from it.
- Parses a text stream predictively according to the table, with a full trace.
- Runs verdict-based test cases against the grammar.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " LILT ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " ERROR ",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
