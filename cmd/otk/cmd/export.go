package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTakeLab/OpenTakeoff/internal/project"
)

var exportCmd = &cobra.Command{
	Use:   "export <project.yaml> <out.csv>",
	Short: "Export all measurements as CSV",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := project.Load(args[0])
		if err != nil {
			return err
		}
		f, err := os.Create(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		if err := p.ExportCSV(f); err != nil {
			return err
		}
		if verbose {
			n := 0
			for _, pg := range p.Pages {
				n += len(pg.Items)
			}
			fmt.Printf("Exported %d measurements to %s\n", n, args[1])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
