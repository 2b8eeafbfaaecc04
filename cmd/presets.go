package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/AnyUserName/colorfx/internal/preset"
	"github.com/spf13/cobra"
)

var presetsShow string

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in filters",
	Args:  cobra.NoArgs,
	RunE:  runPresets,
}

func init() {
	presetsCmd.Flags().StringVar(&presetsShow, "show", "", "print the matrix of a filter expression")
	rootCmd.AddCommand(presetsCmd)
}

func runPresets(_ *cobra.Command, _ []string) error {
	if presetsShow != "" {
		m, err := preset.Parse(presetsShow)
		if err != nil {
			return err
		}
		fmt.Println(m)
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  NAME\tDEFAULT\tDESCRIPTION")
	for _, p := range preset.All() {
		def := "-"
		if p.Adjustable() {
			def = fmt.Sprintf("%g", p.Default)
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", p.Name, def, p.Description)
	}
	return tw.Flush()
}
