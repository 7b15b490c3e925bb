package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTakeLab/OpenTakeoff/internal/project"
	"github.com/OpenTakeLab/OpenTakeoff/pkg/measure"
)

var infoCmd = &cobra.Command{
	Use:   "info <project.yaml>",
	Short: "Show project pages, calibration, and totals",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := project.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Project: %s (%d pages)\n", p.Name, len(p.Pages))
		for i, pg := range p.Pages {
			fmt.Printf("\nPage %d: %s (%gx%g px)\n", i+1, pg.Name, pg.Width, pg.Height)
			if pg.Calibration.Calibrated {
				fmt.Printf("  Scale: %g px = %g %s\n", pg.Calibration.PixelDistance, pg.Calibration.RealDistance, pg.Calibration.Unit)
			} else {
				fmt.Println("  Scale: uncalibrated")
			}
			fmt.Printf("  Measurements: %d\n", len(pg.Items))
			for _, tot := range pg.Totals() {
				fmt.Printf("    %s\n", totalLine(tot))
			}
			if verbose {
				for _, ct := range pg.TotalsByCategory() {
					cat := ct.Category
					if cat == "" {
						cat = "(uncategorized)"
					}
					fmt.Printf("    %s / %s\n", cat, totalLine(ct.Total))
				}
			}
		}
		return nil
	},
}

func totalLine(tot project.Total) string {
	switch {
	case tot.Type == measure.Count:
		return fmt.Sprintf("%s: %d", tot.Type, tot.Count)
	case tot.Type == measure.Surface:
		return fmt.Sprintf("%s: %.2f %s", tot.Type, tot.Value, measure.AreaLabel(tot.Unit))
	default:
		return fmt.Sprintf("%s: %.2f %s", tot.Type, tot.Value, tot.Unit)
	}
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
